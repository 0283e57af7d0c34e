package model

import "time"

// Payment は確定した決済レコードを表す。
// 決済確定（settlement）ごとに1件作成され、以後不変。削除されない。
// CartItemIDsは決済時点で存在したカートアイテムIDを参照する（決済後に
// 削除済みのIDを含みうる）。MenuItemIDsはカテゴリ別集計の結合キーとなる。
type Payment struct {
	ID            string
	Email         string
	Price         float64
	TransactionID string
	Status        string
	CartItemIDs   []string
	MenuItemIDs   []string
	CreatedAt     time.Time
}
