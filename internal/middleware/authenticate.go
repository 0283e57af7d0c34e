package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/bistro/internal/token"
)

// TokenVerifier はトークン検証に必要なインターフェース。
// token.Serviceの部分集合として定義する。
type TokenVerifier interface {
	Verify(tokenStr string) (*token.Claims, error)
}

// AuthenticateGate はAuthorization: Bearerヘッダーのトークンを検証する認証ゲート。
// 検証済みクレームのemailをリクエストコンテキストに注入する。
// ヘッダー欠落・署名不正・期限切れはいずれもDecisionUnauthenticatedとなる。
type AuthenticateGate struct {
	verifier TokenVerifier
}

// NewAuthenticateGate はAuthenticateGateを生成する。
func NewAuthenticateGate(verifier TokenVerifier) *AuthenticateGate {
	return &AuthenticateGate{verifier: verifier}
}

// Name はゲート名を返す。
func (g *AuthenticateGate) Name() string { return "authenticate" }

// Check はBearerトークンを検証し、認証済みemailをコンテキストに付与して返す。
func (g *AuthenticateGate) Check(r *http.Request) (*http.Request, Decision) {
	authorization := r.Header.Get("Authorization")
	if authorization == "" {
		return r, DecisionUnauthenticated
	}

	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return r, DecisionUnauthenticated
	}

	claims, err := g.verifier.Verify(parts[1])
	if err != nil {
		// 失敗理由の詳細はレスポンスに含めず、ログのみに記録する
		slog.Warn("token verification failed",
			slog.String("error", err.Error()),
			slog.String("path", r.URL.Path),
		)
		return r, DecisionUnauthenticated
	}

	ctx := ContextWithEmail(r.Context(), claims.Email)
	return r.WithContext(ctx), DecisionPass
}

// compile-time interface check
var _ Gate = (*AuthenticateGate)(nil)
