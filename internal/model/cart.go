package model

import "time"

// CartItem はカート内の1アイテムを表す。
// 明示的な削除、または決済確定時の一括削除で消滅する。
type CartItem struct {
	ID         string
	Email      string
	MenuItemID string
	Name       string
	Image      string
	Price      float64
	CreatedAt  time.Time
}
