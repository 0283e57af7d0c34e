// Package token は署名付き・時限付きのステートレス認証トークンを提供する。
// サーバー側セッションストアを持たず、有効期間によって漏洩時の影響範囲を限定する。
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// 検証失敗の分類。呼び出し側はerrors.Isで判別する。
var (
	// ErrInvalidToken は署名不一致またはペイロード不正を表す。
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken は有効期限切れを表す。
	ErrExpiredToken = errors.New("token expired")
)

// Claims はトークンに埋め込むアイデンティティ情報を表す。
// Emailがサブジェクトとなり、後段の認可判定で参照される。
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Config はトークンサービスの設定。
type Config struct {
	Secret []byte        // HS256署名シークレット
	TTL    time.Duration // トークン有効期間
}

// Service はトークンの発行と検証を行う。
// 署名シークレットは構築時に注入され、プロセス全体の可変状態を持たない。
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService はServiceを生成する。
func NewService(config Config) *Service {
	return &Service{
		secret: config.Secret,
		ttl:    config.TTL,
	}
}

// Issue はクレームをHS256で署名したトークンを発行する。
// 有効期限は発行時刻からTTL後に設定される。データストアには一切触れない。
func (s *Service) Issue(claims Claims) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify はトークンの署名と有効期限を検証し、埋め込まれたクレームを返す。
// 期限切れはErrExpiredToken、それ以外の検証失敗はErrInvalidTokenを返す。
func (s *Service) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %s", ErrExpiredToken, err)
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, err)
	}
	if !t.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
