// Package repository はデータ永続化のインターフェースを定義する。
// ストアは4つの論理コレクション（users、menu_items、cart_items、payments）を持ち、
// コレクション横断のトランザクション保証は前提としない。
package repository

import (
	"context"

	"github.com/hitoshi/bistro/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByEmail は指定emailのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// List は全ユーザーを返す。
	List(ctx context.Context) ([]*model.User, error)

	// CreateIfAbsent は同一emailのユーザーが存在しない場合のみ作成する。
	// 作成した場合はtrueを返す。email一意制約により同時初回サインインでも
	// 重複レコードは生じない。
	CreateIfAbsent(ctx context.Context, user *model.User) (bool, error)

	// UpdateRole は指定IDのユーザーのロールを更新し、更新件数を返す。
	UpdateRole(ctx context.Context, id, role string) (int64, error)

	// EstimatedCount はユーザー数の概算値を返す。
	// プランナー統計に基づく推定で、厳密な件数は保証しない。
	EstimatedCount(ctx context.Context) (int64, error)
}

// MenuItemRepository はメニュー項目の永続化インターフェース。
type MenuItemRepository interface {
	// List は全メニュー項目を返す。
	List(ctx context.Context) ([]*model.MenuItem, error)

	// FindByIDs は指定ID集合に一致するメニュー項目を返す。
	// 存在しないIDは結果に含まれない（内部結合相当）。
	FindByIDs(ctx context.Context, ids []string) ([]*model.MenuItem, error)

	// Create はメニュー項目を作成する。
	Create(ctx context.Context, item *model.MenuItem) error

	// DeleteByID は指定IDのメニュー項目を削除する。
	DeleteByID(ctx context.Context, id string) error

	// EstimatedCount はメニュー項目数の概算値を返す。
	EstimatedCount(ctx context.Context) (int64, error)
}

// CartItemRepository はカートアイテムの永続化インターフェース。
type CartItemRepository interface {
	// ListByEmail は指定ユーザーのカートアイテム一覧を返す。
	ListByEmail(ctx context.Context, email string) ([]*model.CartItem, error)

	// Create はカートアイテムを作成する。
	Create(ctx context.Context, item *model.CartItem) error

	// DeleteByID は指定IDのカートアイテムを削除する。
	DeleteByID(ctx context.Context, id string) error

	// DeleteByIDs は指定ID集合に含まれるカートアイテムを一括削除し、削除件数を返す。
	// 既に存在しないIDは黙って無視される（部分削除済み状態でも冪等）。
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
}

// PaymentRepository は決済レコードの永続化インターフェース。
// レコードは作成後不変であり、削除操作は提供しない。
type PaymentRepository interface {
	// Create は決済レコードを作成する。
	Create(ctx context.Context, payment *model.Payment) error

	// List は全決済レコードを返す。
	List(ctx context.Context) ([]*model.Payment, error)

	// EstimatedCount は決済レコード数の概算値を返す。
	EstimatedCount(ctx context.Context) (int64, error)
}
