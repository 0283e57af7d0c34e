package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/bistro/internal/middleware"
	"github.com/hitoshi/bistro/internal/payment"
	"github.com/hitoshi/bistro/internal/repository"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier       middleware.TokenVerifier
	UserFinder          middleware.UserFinder
	CORSAllowedOrigin   string
	RateLimiter         *middleware.RateLimiter
	MetricsRecorder     middleware.HTTPMetricsRecorder
	AuthFailureRecorder middleware.AuthFailureRecorder
	Logger              *slog.Logger

	// トークン発行
	TokenIssuer TokenIssuer

	// ユーザー
	UserService UserServiceInterface

	// メニュー・カート
	MenuRepo repository.MenuItemRepository
	CartRepo repository.CartItemRepository

	// 決済
	PaymentGateway        payment.Gateway
	SettlementService     SettlementServiceInterface
	PaymentRepo           repository.PaymentRepository
	PaymentIntentRecorder PaymentIntentRecorder
	Currency              string

	// 集計
	AnalyticsService AnalyticsServiceInterface

	// ヘルスチェック
	DB DBPinger
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Recovery → Logging → Metrics → (ゲートチェーン) → RateLimit
//
// ゲートチェーンは認証のみ（Authenticate）と管理者専用
// （Authenticate → AuthorizeAdmin）の2段構成。認証ゲートを通過しない
// リクエストがレート制限やハンドラーに到達することはない。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// 全ルート共通のミドルウェア
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	if deps.MetricsRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.MetricsRecorder))
	}

	tokenHandler := NewTokenHandler(deps.TokenIssuer)
	userHandler := NewUserHandler(deps.UserService)
	menuHandler := NewMenuHandler(deps.MenuRepo)
	cartHandler := NewCartHandler(deps.CartRepo)
	paymentHandler := NewPaymentHandler(deps.PaymentGateway, deps.SettlementService, deps.PaymentRepo, deps.PaymentIntentRecorder, deps.Currency)
	statsHandler := NewStatsHandler(deps.AnalyticsService)
	healthHandler := NewHealthHandler(deps.DB)

	authenticate := middleware.NewAuthenticateGate(deps.TokenVerifier)
	authorizeAdmin := middleware.NewAuthorizeAdminGate(deps.UserFinder)

	// --- 認証不要のルート ---

	r.Get("/health", healthHandler.Health)
	r.Post("/jwt", tokenHandler.IssueToken)
	r.Post("/users", userHandler.CreateUser)
	r.Get("/menu", menuHandler.ListMenuItems)

	// カートの書き込みは認証なし（サインイン前のカート操作を許容する）
	r.Post("/carts", cartHandler.CreateCartItem)
	r.Delete("/carts/{id}", cartHandler.DeleteCartItem)

	// --- 認証が必要なルート ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewGuardMiddlewareWithMetrics(deps.AuthFailureRecorder, authenticate))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/carts", cartHandler.ListCartItems)
		r.Get("/users/admin/{email}", userHandler.ProbeAdmin)

		// 決済系は専用レート制限を追加
		r.With(deps.RateLimiter.PaymentMiddleware()).Post("/create-payment-intent", paymentHandler.CreatePaymentIntent)
		r.With(deps.RateLimiter.PaymentMiddleware()).Post("/payments", paymentHandler.SettlePayment)
	})

	// --- 管理者専用のルート ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewGuardMiddlewareWithMetrics(deps.AuthFailureRecorder, authenticate, authorizeAdmin))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/users", userHandler.ListUsers)
		r.Patch("/users/admin/{id}", userHandler.ElevateToAdmin)
		r.Post("/menu", menuHandler.CreateMenuItem)
		r.Delete("/menu/{id}", menuHandler.DeleteMenuItem)
		r.Get("/payments", paymentHandler.ListPayments)
		r.Get("/admin-stats", statsHandler.AdminStats)
		r.Get("/order-stats", statsHandler.OrderStats)
	})

	return r
}
