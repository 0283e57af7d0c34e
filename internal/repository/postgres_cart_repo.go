package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/bistro/internal/model"
)

// PostgresCartItemRepo はPostgreSQLを使用したカートアイテムリポジトリ。
type PostgresCartItemRepo struct {
	db *sql.DB
}

// NewPostgresCartItemRepo はPostgresCartItemRepoを生成する。
func NewPostgresCartItemRepo(db *sql.DB) *PostgresCartItemRepo {
	return &PostgresCartItemRepo{db: db}
}

// ListByEmail は指定ユーザーのカートアイテム一覧を返す。
func (r *PostgresCartItemRepo) ListByEmail(ctx context.Context, email string) ([]*model.CartItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, menu_item_id, name, image, price, created_at
		 FROM cart_items WHERE email = $1 ORDER BY created_at`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	var items []*model.CartItem
	for rows.Next() {
		item := &model.CartItem{}
		if err := rows.Scan(&item.ID, &item.Email, &item.MenuItemID, &item.Name, &item.Image, &item.Price, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cart items: %w", err)
	}

	return items, nil
}

// Create はカートアイテムを作成する。
func (r *PostgresCartItemRepo) Create(ctx context.Context, item *model.CartItem) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO cart_items (id, email, menu_item_id, name, image, price, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		item.ID, item.Email, item.MenuItemID, item.Name, item.Image, item.Price, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert cart item: %w", err)
	}
	return nil
}

// DeleteByID は指定IDのカートアイテムを削除する。
func (r *PostgresCartItemRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewNotFoundError("cart item")
	}
	return nil
}

// DeleteByIDs は指定ID集合に含まれるカートアイテムを一括削除し、削除件数を返す。
// 存在しないIDは黙って無視されるため、削除件数は入力集合のサイズを下回りうる。
func (r *PostgresCartItemRepo) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE id = ANY($1)`,
		pq.Array(ids),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete cart items: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

// compile-time interface check
var _ CartItemRepository = (*PostgresCartItemRepo)(nil)
