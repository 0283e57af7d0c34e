package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/bistro/internal/model"
)

// PostgresPaymentRepo はPostgreSQLを使用した決済レコードリポジトリ。
// 決済レコードは追記専用で、更新・削除のオペレーションは提供しない。
type PostgresPaymentRepo struct {
	db *sql.DB
}

// NewPostgresPaymentRepo はPostgresPaymentRepoを生成する。
func NewPostgresPaymentRepo(db *sql.DB) *PostgresPaymentRepo {
	return &PostgresPaymentRepo{db: db}
}

// Create は決済レコードを作成する。
func (r *PostgresPaymentRepo) Create(ctx context.Context, payment *model.Payment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO payments (id, email, price, transaction_id, status, cart_item_ids, menu_item_ids, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		payment.ID, payment.Email, payment.Price, payment.TransactionID, payment.Status,
		pq.Array(payment.CartItemIDs), pq.Array(payment.MenuItemIDs), payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

// List は全決済レコードを返す。
func (r *PostgresPaymentRepo) List(ctx context.Context) ([]*model.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, price, transaction_id, status, cart_item_ids, menu_item_ids, created_at
		 FROM payments ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*model.Payment
	for rows.Next() {
		payment := &model.Payment{}
		if err := rows.Scan(
			&payment.ID, &payment.Email, &payment.Price, &payment.TransactionID, &payment.Status,
			pq.Array(&payment.CartItemIDs), pq.Array(&payment.MenuItemIDs), &payment.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}

// EstimatedCount はプランナー統計に基づく決済レコード数の概算値を返す。
func (r *PostgresPaymentRepo) EstimatedCount(ctx context.Context) (int64, error) {
	return estimatedCount(ctx, r.db, "payments")
}

// compile-time interface check
var _ PaymentRepository = (*PostgresPaymentRepo)(nil)
