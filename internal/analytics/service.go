// Package analytics は管理ダッシュボード向けの集計機能を提供する。
package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/hitoshi/bistro/internal/repository"
)

// Summary は全体サマリーを表す。各countはプランナー統計に基づく概算値であり、
// revenueのみ全決済レコードの正確な合計となる。
type Summary struct {
	Users     int64   `json:"users"`
	MenuItems int64   `json:"menuItems"`
	Orders    int64   `json:"orders"`
	Revenue   float64 `json:"revenue"`
}

// CategoryStat はカテゴリ単位の注文集計を表す。
type CategoryStat struct {
	Category string  `json:"category"`
	Quantity int64   `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// Service は集計のビジネスロジックを提供する。
type Service struct {
	users    repository.UserRepository
	menu     repository.MenuItemRepository
	payments repository.PaymentRepository
}

// NewService はServiceを生成する。
func NewService(users repository.UserRepository, menu repository.MenuItemRepository, payments repository.PaymentRepository) *Service {
	return &Service{
		users:    users,
		menu:     menu,
		payments: payments,
	}
}

// Summarize は全体サマリーを返す。件数は概算、売上は正確な合計。
// 決済レコードが1件もない場合の売上は0となる。
func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	userCount, err := s.users.EstimatedCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	menuCount, err := s.menu.EstimatedCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count menu items: %w", err)
	}
	orderCount, err := s.payments.EstimatedCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count payments: %w", err)
	}

	payments, err := s.payments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	var revenue float64
	for _, payment := range payments {
		revenue += payment.Price
	}

	return &Summary{
		Users:     userCount,
		MenuItems: menuCount,
		Orders:    orderCount,
		Revenue:   revenue,
	}, nil
}

// BreakdownByCategory は全決済が参照するメニュー項目をカテゴリ単位で集計し、
// カテゴリごとの注文数量と売上を返す。メニュー項目との突合は内部結合と
// 同じ扱いで、既に存在しないメニュー項目IDは集計から除外される。
// 売上は小数第2位に丸める（端数は切り上げ寄りの四捨五入）。
// 結果はカテゴリ名の昇順で返す。
func (s *Service) BreakdownByCategory(ctx context.Context) ([]*CategoryStat, error) {
	payments, err := s.payments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	// 全決済が参照するメニュー項目IDを集める。同一IDの複数参照は
	// 個別の注文数量としてそのまま数える。
	var ids []string
	for _, payment := range payments {
		ids = append(ids, payment.MenuItemIDs...)
	}
	if len(ids) == 0 {
		return []*CategoryStat{}, nil
	}

	items, err := s.menu.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find menu items: %w", err)
	}
	priceByID := make(map[string]struct {
		category string
		price    float64
	}, len(items))
	for _, item := range items {
		priceByID[item.ID] = struct {
			category string
			price    float64
		}{category: item.Category, price: item.Price}
	}

	statsByCategory := make(map[string]*CategoryStat)
	for _, id := range ids {
		entry, ok := priceByID[id]
		if !ok {
			continue
		}
		stat, ok := statsByCategory[entry.category]
		if !ok {
			stat = &CategoryStat{Category: entry.category}
			statsByCategory[entry.category] = stat
		}
		stat.Quantity++
		stat.Revenue += entry.price
	}

	stats := make([]*CategoryStat, 0, len(statsByCategory))
	for _, stat := range statsByCategory {
		stat.Revenue = math.Round(stat.Revenue*100) / 100
		stats = append(stats, stat)
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Category < stats[j].Category
	})
	return stats, nil
}
