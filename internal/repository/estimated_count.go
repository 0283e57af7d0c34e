package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// estimatedCount はpg_classのプランナー統計からテーブル行数の概算値を取得する。
// VACUUM/ANALYZE前のテーブルでは-1になるため0に丸める。
// ダッシュボード向けの結果整合的な推定であり、厳密な件数が必要な箇所では使わないこと。
func estimatedCount(ctx context.Context, db *sql.DB, table string) (int64, error) {
	var count int64
	err := db.QueryRowContext(ctx,
		`SELECT GREATEST(reltuples, 0)::bigint FROM pg_class WHERE relname = $1`,
		table,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get estimated count for %s: %w", table, err)
	}
	return count, nil
}
