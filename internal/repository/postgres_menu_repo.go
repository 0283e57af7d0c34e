package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/bistro/internal/model"
)

// PostgresMenuItemRepo はPostgreSQLを使用したメニュー項目リポジトリ。
type PostgresMenuItemRepo struct {
	db *sql.DB
}

// NewPostgresMenuItemRepo はPostgresMenuItemRepoを生成する。
func NewPostgresMenuItemRepo(db *sql.DB) *PostgresMenuItemRepo {
	return &PostgresMenuItemRepo{db: db}
}

// List は全メニュー項目を返す。
func (r *PostgresMenuItemRepo) List(ctx context.Context) ([]*model.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, category, price, image, recipe, created_at FROM menu_items ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	defer rows.Close()

	return scanMenuItems(rows)
}

// FindByIDs は指定ID集合に一致するメニュー項目を返す。
// 存在しないIDは結果に含まれない。空集合の場合は空スライスを返す。
func (r *PostgresMenuItemRepo) FindByIDs(ctx context.Context, ids []string) ([]*model.MenuItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, category, price, image, recipe, created_at FROM menu_items WHERE id = ANY($1)`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find menu items by IDs: %w", err)
	}
	defer rows.Close()

	return scanMenuItems(rows)
}

// Create はメニュー項目を作成する。
func (r *PostgresMenuItemRepo) Create(ctx context.Context, item *model.MenuItem) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO menu_items (id, name, category, price, image, recipe, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		item.ID, item.Name, item.Category, item.Price, item.Image, item.Recipe, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert menu item: %w", err)
	}
	return nil
}

// DeleteByID は指定IDのメニュー項目を削除する。
func (r *PostgresMenuItemRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM menu_items WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewNotFoundError("menu item")
	}
	return nil
}

// EstimatedCount はプランナー統計に基づくメニュー項目数の概算値を返す。
func (r *PostgresMenuItemRepo) EstimatedCount(ctx context.Context) (int64, error) {
	return estimatedCount(ctx, r.db, "menu_items")
}

// scanMenuItems は結果セットをMenuItemのスライスに変換する。
func scanMenuItems(rows *sql.Rows) ([]*model.MenuItem, error) {
	var items []*model.MenuItem
	for rows.Next() {
		item := &model.MenuItem{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.Price, &item.Image, &item.Recipe, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate menu items: %w", err)
	}
	return items, nil
}

// compile-time interface check
var _ MenuItemRepository = (*PostgresMenuItemRepo)(nil)
