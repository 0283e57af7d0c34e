package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/bistro/internal/analytics"
)

// AnalyticsServiceInterface は集計ハンドラーが必要とするサービスインターフェース。
type AnalyticsServiceInterface interface {
	// Summarize は全体サマリーを返す。
	Summarize(ctx context.Context) (*analytics.Summary, error)
	// BreakdownByCategory はカテゴリ単位の注文集計を返す。
	BreakdownByCategory(ctx context.Context) ([]*analytics.CategoryStat, error)
}

// StatsHandler は管理ダッシュボード向け集計のHTTPハンドラー。管理者専用。
type StatsHandler struct {
	service AnalyticsServiceInterface
}

// NewStatsHandler はStatsHandlerを生成する。
func NewStatsHandler(service AnalyticsServiceInterface) *StatsHandler {
	return &StatsHandler{service: service}
}

// AdminStats は全体サマリーを返す。
// GET /admin-stats
func (h *StatsHandler) AdminStats(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summarize(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, summary)
}

// OrderStats はカテゴリ単位の注文集計を返す。
// GET /order-stats
func (h *StatsHandler) OrderStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.BreakdownByCategory(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, stats)
}
