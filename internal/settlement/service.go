// Package settlement はカート内容を確定済み決済へ変換するワークフローを提供する。
package settlement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/bistro/internal/model"
	"github.com/hitoshi/bistro/internal/repository"
)

// Recorder は決済確定メトリクスの記録に必要なインターフェース。
// metrics.Recorderの部分集合として定義する。
type Recorder interface {
	RecordSettlement()
	RecordInconsistentSettlement()
}

// Input は決済確定の入力を表す。
// Emailは認証済みアイデンティティから渡すこと。リクエストボディを信用しない。
type Input struct {
	Email         string
	Price         float64
	TransactionID string
	Status        string
	CartItemIDs   []string
	MenuItemIDs   []string
}

// Result は決済確定の結果を表す。両フェーズの結果を観測可能にするため、
// 挿入された決済レコードIDと削除されたカートアイテム件数の両方を返す。
type Result struct {
	PaymentID        string
	DeletedCartItems int64
}

// Service は決済確定のビジネスロジックを提供する。
//
// ストアはコレクション横断のトランザクションを提供しないため、確定は
// 非トランザクションの2フェーズで行う。フェーズ1（決済レコード挿入）が
// 耐久性ポイントであり、成功した時点で購入は成立したものとする。
// フェーズ2（カート一括削除）は冪等であり、部分的に失敗しても
// ロールバックしない。決済レコードが取引の正であり、カート状態の
// ずれは帯域外で照合する方針。
type Service struct {
	payments repository.PaymentRepository
	carts    repository.CartItemRepository
	recorder Recorder
}

// NewService はServiceを生成する。
func NewService(payments repository.PaymentRepository, carts repository.CartItemRepository, recorder Recorder) *Service {
	return &Service{
		payments: payments,
		carts:    carts,
		recorder: recorder,
	}
}

// Settle は決済を確定する。決済レコードを挿入し、参照されたカートアイテムを
// 一括削除する。既に存在しないIDは黙って無視される。空のID集合も有効な
// 決済確定であり、削除フェーズはno-opになる。
//
// 削除件数が入力集合のサイズと一致しない場合もエラーにはせず、
// ログとメトリクスで観測可能にする。
func (s *Service) Settle(ctx context.Context, input Input) (*Result, error) {
	payment := &model.Payment{
		ID:            uuid.New().String(),
		Email:         input.Email,
		Price:         input.Price,
		TransactionID: input.TransactionID,
		Status:        input.Status,
		CartItemIDs:   input.CartItemIDs,
		MenuItemIDs:   input.MenuItemIDs,
		CreatedAt:     time.Now(),
	}

	// フェーズ1: 決済レコードの挿入（耐久性ポイント）
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	s.recorder.RecordSettlement()

	// フェーズ2: カートアイテムの一括削除（冪等、失敗してもロールバックしない）
	deleted, err := s.carts.DeleteByIDs(ctx, input.CartItemIDs)
	if err != nil {
		s.recorder.RecordInconsistentSettlement()
		slog.Error("settlement recorded but cart cleanup failed",
			slog.String("payment_id", payment.ID),
			slog.String("email", input.Email),
			slog.Int("cart_item_count", len(input.CartItemIDs)),
			slog.String("error", err.Error()),
		)
		return &Result{PaymentID: payment.ID, DeletedCartItems: 0}, nil
	}

	if deleted != int64(len(input.CartItemIDs)) {
		s.recorder.RecordInconsistentSettlement()
		slog.Warn("settlement cart cleanup did not match input set",
			slog.String("payment_id", payment.ID),
			slog.String("email", input.Email),
			slog.Int("cart_item_count", len(input.CartItemIDs)),
			slog.Int64("deleted", deleted),
		)
	}

	return &Result{PaymentID: payment.ID, DeletedCartItems: deleted}, nil
}
