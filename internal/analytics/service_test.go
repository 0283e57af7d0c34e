package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/bistro/internal/model"
)

// mockUserRepo はテスト用のUserRepositoryモック。
type mockUserRepo struct {
	estimatedCount int64
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}

func (m *mockUserRepo) List(ctx context.Context) ([]*model.User, error) {
	return nil, nil
}

func (m *mockUserRepo) CreateIfAbsent(ctx context.Context, user *model.User) (bool, error) {
	return false, nil
}

func (m *mockUserRepo) UpdateRole(ctx context.Context, id, role string) (int64, error) {
	return 0, nil
}

func (m *mockUserRepo) EstimatedCount(ctx context.Context) (int64, error) {
	return m.estimatedCount, nil
}

// mockMenuRepo はテスト用のMenuItemRepositoryモック。
// FindByIDsは内部結合セマンティクスを模倣し、保持する項目のみを返す。
type mockMenuRepo struct {
	items          []*model.MenuItem
	estimatedCount int64
}

func (m *mockMenuRepo) List(ctx context.Context) ([]*model.MenuItem, error) {
	return m.items, nil
}

func (m *mockMenuRepo) FindByIDs(ctx context.Context, ids []string) ([]*model.MenuItem, error) {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var found []*model.MenuItem
	for _, item := range m.items {
		if wanted[item.ID] {
			found = append(found, item)
		}
	}
	return found, nil
}

func (m *mockMenuRepo) Create(ctx context.Context, item *model.MenuItem) error {
	return nil
}

func (m *mockMenuRepo) DeleteByID(ctx context.Context, id string) error {
	return nil
}

func (m *mockMenuRepo) EstimatedCount(ctx context.Context) (int64, error) {
	return m.estimatedCount, nil
}

// mockPaymentRepo はテスト用のPaymentRepositoryモック。
type mockPaymentRepo struct {
	payments       []*model.Payment
	estimatedCount int64
	listErr        error
}

func (m *mockPaymentRepo) Create(ctx context.Context, payment *model.Payment) error {
	return nil
}

func (m *mockPaymentRepo) List(ctx context.Context) ([]*model.Payment, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.payments, nil
}

func (m *mockPaymentRepo) EstimatedCount(ctx context.Context) (int64, error) {
	return m.estimatedCount, nil
}

// TestSummarize_SumsRevenueExactly は売上が決済レコードの正確な合計に
// なることを検証する。
func TestSummarize_SumsRevenueExactly(t *testing.T) {
	payments := &mockPaymentRepo{
		payments: []*model.Payment{
			{ID: "p1", Price: 12.50},
			{ID: "p2", Price: 7.25},
			{ID: "p3", Price: 0},
		},
		estimatedCount: 3,
	}
	service := NewService(&mockUserRepo{estimatedCount: 10}, &mockMenuRepo{estimatedCount: 5}, payments)

	summary, err := service.Summarize(context.Background())
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if summary.Revenue != 19.75 {
		t.Errorf("expected revenue 19.75, got %v", summary.Revenue)
	}
	if summary.Users != 10 {
		t.Errorf("expected 10 users, got %d", summary.Users)
	}
	if summary.MenuItems != 5 {
		t.Errorf("expected 5 menu items, got %d", summary.MenuItems)
	}
	if summary.Orders != 3 {
		t.Errorf("expected 3 orders, got %d", summary.Orders)
	}
}

// TestSummarize_NoPayments は決済レコードが存在しない場合に売上が0に
// なることを検証する。
func TestSummarize_NoPayments(t *testing.T) {
	service := NewService(&mockUserRepo{}, &mockMenuRepo{}, &mockPaymentRepo{})

	summary, err := service.Summarize(context.Background())
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if summary.Revenue != 0 {
		t.Errorf("expected revenue 0, got %v", summary.Revenue)
	}
}

// TestSummarize_ListError は決済一覧の取得失敗がエラーとして伝播することを検証する。
func TestSummarize_ListError(t *testing.T) {
	payments := &mockPaymentRepo{listErr: errors.New("store unavailable")}
	service := NewService(&mockUserRepo{}, &mockMenuRepo{}, payments)

	if _, err := service.Summarize(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
}

// TestBreakdownByCategory_GroupsAndSums はカテゴリ単位で数量と売上が
// 正しく集計されることを検証する。
func TestBreakdownByCategory_GroupsAndSums(t *testing.T) {
	menu := &mockMenuRepo{
		items: []*model.MenuItem{
			{ID: "m1", Category: "pizza", Price: 10.00},
			{ID: "m2", Category: "pizza", Price: 10.00},
			{ID: "m3", Category: "drink", Price: 3.00},
		},
	}
	payments := &mockPaymentRepo{
		payments: []*model.Payment{
			{ID: "p1", MenuItemIDs: []string{"m1", "m2", "m3"}},
			{ID: "p2", MenuItemIDs: []string{"m1"}},
		},
	}
	service := NewService(&mockUserRepo{}, menu, payments)

	stats, err := service.BreakdownByCategory(context.Background())
	if err != nil {
		t.Fatalf("BreakdownByCategory failed: %v", err)
	}

	if len(stats) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(stats))
	}
	// カテゴリ名昇順: drink, pizza
	if stats[0].Category != "drink" || stats[0].Quantity != 1 || stats[0].Revenue != 3.00 {
		t.Errorf("unexpected drink stat: %+v", stats[0])
	}
	if stats[1].Category != "pizza" || stats[1].Quantity != 3 || stats[1].Revenue != 30.00 {
		t.Errorf("unexpected pizza stat: %+v", stats[1])
	}
}

// TestBreakdownByCategory_SkipsMissingMenuItems は既に存在しないメニュー項目
// 参照が集計から除外されることを検証する。
func TestBreakdownByCategory_SkipsMissingMenuItems(t *testing.T) {
	menu := &mockMenuRepo{
		items: []*model.MenuItem{
			{ID: "m1", Category: "pizza", Price: 10.00},
		},
	}
	payments := &mockPaymentRepo{
		payments: []*model.Payment{
			{ID: "p1", MenuItemIDs: []string{"m1", "m-deleted"}},
		},
	}
	service := NewService(&mockUserRepo{}, menu, payments)

	stats, err := service.BreakdownByCategory(context.Background())
	if err != nil {
		t.Fatalf("BreakdownByCategory failed: %v", err)
	}

	if len(stats) != 1 {
		t.Fatalf("expected 1 category, got %d", len(stats))
	}
	if stats[0].Quantity != 1 {
		t.Errorf("expected quantity 1, got %d", stats[0].Quantity)
	}
}

// TestBreakdownByCategory_RoundsRevenue は売上が小数第2位に丸められることを検証する。
func TestBreakdownByCategory_RoundsRevenue(t *testing.T) {
	menu := &mockMenuRepo{
		items: []*model.MenuItem{
			{ID: "m1", Category: "salad", Price: 4.333},
		},
	}
	payments := &mockPaymentRepo{
		payments: []*model.Payment{
			{ID: "p1", MenuItemIDs: []string{"m1", "m1", "m1"}},
		},
	}
	service := NewService(&mockUserRepo{}, menu, payments)

	stats, err := service.BreakdownByCategory(context.Background())
	if err != nil {
		t.Fatalf("BreakdownByCategory failed: %v", err)
	}

	if stats[0].Revenue != 13.00 {
		t.Errorf("expected rounded revenue 13.00, got %v", stats[0].Revenue)
	}
}

// TestBreakdownByCategory_NoPayments は決済レコードが存在しない場合に
// 空の集計が返ることを検証する。
func TestBreakdownByCategory_NoPayments(t *testing.T) {
	service := NewService(&mockUserRepo{}, &mockMenuRepo{}, &mockPaymentRepo{})

	stats, err := service.BreakdownByCategory(context.Background())
	if err != nil {
		t.Fatalf("BreakdownByCategory failed: %v", err)
	}
	if len(stats) != 0 {
		t.Errorf("expected empty stats, got %d", len(stats))
	}
}
