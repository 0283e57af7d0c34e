package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeGateway はStripeを使用したGateway実装。
// カード決済のPaymentIntentを作成し、client_secretを返す。
type StripeGateway struct {
	api *client.API
}

// NewStripeGateway はStripeGatewayを生成する。
// secretKeyはStripeのシークレットキー（sk_xxx）を指定する。
func NewStripeGateway(secretKey string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api}
}

// CreateIntent は指定金額・通貨のPaymentIntentを作成し、client_secretを返す。
// 失敗時はリトライせず、そのままエラーを返す。
func (g *StripeGateway) CreateIntent(ctx context.Context, amountMinorUnits int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{
			Context: ctx,
		},
		Amount:             stripe.Int64(amountMinorUnits),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create payment intent: %w", err)
	}

	return intent.ClientSecret, nil
}

// compile-time interface check
var _ Gateway = (*StripeGateway)(nil)
