package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/bistro/internal/analytics"
)

// mockAnalyticsService はAnalyticsServiceInterfaceのモック実装。
type mockAnalyticsService struct {
	summarizeFn func(ctx context.Context) (*analytics.Summary, error)
	breakdownFn func(ctx context.Context) ([]*analytics.CategoryStat, error)
}

func (m *mockAnalyticsService) Summarize(ctx context.Context) (*analytics.Summary, error) {
	if m.summarizeFn != nil {
		return m.summarizeFn(ctx)
	}
	return &analytics.Summary{}, nil
}

func (m *mockAnalyticsService) BreakdownByCategory(ctx context.Context) ([]*analytics.CategoryStat, error) {
	if m.breakdownFn != nil {
		return m.breakdownFn(ctx)
	}
	return nil, nil
}

func TestStatsHandler_AdminStats_ReturnsSummary(t *testing.T) {
	svc := &mockAnalyticsService{
		summarizeFn: func(ctx context.Context) (*analytics.Summary, error) {
			return &analytics.Summary{Users: 10, MenuItems: 5, Orders: 3, Revenue: 19.75}, nil
		},
	}
	h := NewStatsHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/admin-stats", nil)
	w := httptest.NewRecorder()

	h.AdminStats(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var got analytics.Summary
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Revenue != 19.75 {
		t.Errorf("revenue = %v, want %v", got.Revenue, 19.75)
	}
	if got.Users != 10 {
		t.Errorf("users = %d, want %d", got.Users, 10)
	}
}

func TestStatsHandler_AdminStats_ServiceError_ReturnsInternalError(t *testing.T) {
	svc := &mockAnalyticsService{
		summarizeFn: func(ctx context.Context) (*analytics.Summary, error) {
			return nil, errors.New("store unavailable")
		},
	}
	h := NewStatsHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/admin-stats", nil)
	w := httptest.NewRecorder()

	h.AdminStats(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusInternalServerError)
	}
}

func TestStatsHandler_OrderStats_ReturnsBreakdown(t *testing.T) {
	svc := &mockAnalyticsService{
		breakdownFn: func(ctx context.Context) ([]*analytics.CategoryStat, error) {
			return []*analytics.CategoryStat{
				{Category: "drink", Quantity: 1, Revenue: 3.00},
				{Category: "pizza", Quantity: 3, Revenue: 30.00},
			}, nil
		},
	}
	h := NewStatsHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/order-stats", nil)
	w := httptest.NewRecorder()

	h.OrderStats(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var got []analytics.CategoryStat
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(got))
	}
	if got[1].Category != "pizza" || got[1].Quantity != 3 {
		t.Errorf("unexpected pizza stat: %+v", got[1])
	}
}
