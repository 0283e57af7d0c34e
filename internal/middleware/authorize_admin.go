package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/bistro/internal/model"
)

// UserFinder はロール参照に必要なインターフェース。
// repository.UserRepositoryの部分集合として定義する。
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// AuthorizeAdminGate は認証済みアイデンティティのストア上のロールを参照し、
// adminロールを持たない場合にDecisionForbiddenを返す認可ゲート。
// 必ずAuthenticateGateの後段に配置すること。未検証のクレームを信用しない。
type AuthorizeAdminGate struct {
	users UserFinder
}

// NewAuthorizeAdminGate はAuthorizeAdminGateを生成する。
func NewAuthorizeAdminGate(users UserFinder) *AuthorizeAdminGate {
	return &AuthorizeAdminGate{users: users}
}

// Name はゲート名を返す。
func (g *AuthorizeAdminGate) Name() string { return "authorize_admin" }

// Check は認証済みemailのロールを検証する。
// 未知のアイデンティティはエラーではなく非adminとして拒否する。
// ストア参照の失敗は安全側に倒してDecisionForbiddenとする。
func (g *AuthorizeAdminGate) Check(r *http.Request) (*http.Request, Decision) {
	email, err := EmailFromContext(r.Context())
	if err != nil {
		// 認証ゲートを通過していないリクエストは認可しない
		return r, DecisionUnauthenticated
	}

	user, err := g.users.FindByEmail(r.Context(), email)
	if err != nil {
		slog.Error("failed to find user for admin check",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return r, DecisionForbidden
	}
	if user == nil || !user.IsAdmin() {
		return r, DecisionForbidden
	}

	return r, DecisionPass
}

// compile-time interface check
var _ Gate = (*AuthorizeAdminGate)(nil)
