// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hitoshi/bistro/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// emailContextKey はリクエストコンテキストに認証済みemailを格納するためのキー。
var emailContextKey = contextKey("email")

// Decision はゲート述語の判定結果を表す。
type Decision int

const (
	// DecisionPass はゲート通過を表す。
	DecisionPass Decision = iota
	// DecisionUnauthenticated は認証失敗（トークン欠落・不正・期限切れ）を表す。
	DecisionUnauthenticated
	// DecisionForbidden は認可失敗（有効なアイデンティティだが権限不足）を表す。
	DecisionForbidden
)

// Gate は認証・認可ゲートの述語。
// 通過時はアイデンティティをコンテキストに付与したリクエストとDecisionPassを返す。
// 未検証のクレームを後続ゲートに渡してはならない。
type Gate interface {
	// Name はログ用のゲート名を返す。
	Name() string
	// Check はリクエストを評価し、後続に引き継ぐリクエストと判定を返す。
	Check(r *http.Request) (*http.Request, Decision)
}

// AuthFailureRecorder は認証・認可失敗メトリクスの記録インターフェース。
// metrics.Recorderの部分集合として定義する。
type AuthFailureRecorder interface {
	RecordAuthFailure(kind string)
}

// NewGuardMiddleware はゲート列を宣言順に評価するミドルウェアを返す。
// 最初に通過しなかったゲートで短絡し、DecisionUnauthenticatedは401、
// DecisionForbiddenは403のレスポンスを書き込む。
// 認証・認可の失敗がビジネスロジックへ到達することはない。
func NewGuardMiddleware(gates ...Gate) func(next http.Handler) http.Handler {
	return NewGuardMiddlewareWithMetrics(nil, gates...)
}

// NewGuardMiddlewareWithMetrics はNewGuardMiddlewareに加えて、通過しなかった
// ゲートの判定を失敗メトリクスとして記録する。recorderがnilの場合は記録しない。
func NewGuardMiddlewareWithMetrics(recorder AuthFailureRecorder, gates ...Gate) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, gate := range gates {
				passed, decision := gate.Check(r)
				switch decision {
				case DecisionPass:
					r = passed
				case DecisionUnauthenticated:
					if recorder != nil {
						recorder.RecordAuthFailure("unauthenticated")
					}
					WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
					return
				case DecisionForbidden:
					if recorder != nil {
						recorder.RecordAuthFailure("forbidden")
					}
					WriteErrorResponse(w, http.StatusForbidden, model.NewForbiddenError())
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// EmailFromContext はリクエストコンテキストから認証済みemailを取得する。
// 認証ゲートを通過したリクエストでのみ有効。
func EmailFromContext(ctx context.Context) (string, error) {
	email, ok := ctx.Value(emailContextKey).(string)
	if !ok || email == "" {
		return "", fmt.Errorf("email not found in context")
	}
	return email, nil
}

// ContextWithEmail はコンテキストに認証済みemailを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailContextKey, email)
}
