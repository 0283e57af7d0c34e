package model

import "time"

// MenuItem はメニュー項目を表す。
// 分析サービスからは読み取り専用（category、priceのみ参照）。
type MenuItem struct {
	ID        string
	Name      string
	Category  string
	Price     float64
	Image     string
	Recipe    string
	CreatedAt time.Time
}
