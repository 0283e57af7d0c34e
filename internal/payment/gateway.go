// Package payment は外部決済ゲートウェイとの連携を提供する。
package payment

import (
	"context"
	"math"
)

// Gateway は決済ゲートウェイのインターフェース。
// 指定金額の決済インテントを作成し、クライアントが決済確定に使う
// シークレットを返す。金額は最小通貨単位で指定する。
type Gateway interface {
	CreateIntent(ctx context.Context, amountMinorUnits int64, currency string) (clientSecret string, err error)
}

// AmountMinorUnits は小数表現の価格を最小通貨単位に変換する。
// 2桁小数通貨（USD等）を想定し、価格を100倍して四捨五入する。
func AmountMinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}
