package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/bistro/internal/middleware"
	"github.com/hitoshi/bistro/internal/model"
	"github.com/hitoshi/bistro/internal/payment"
	"github.com/hitoshi/bistro/internal/repository"
	"github.com/hitoshi/bistro/internal/settlement"
)

// SettlementServiceInterface は決済ハンドラーが必要とするサービスインターフェース。
type SettlementServiceInterface interface {
	// Settle は決済レコードを挿入し、参照されたカートアイテムを一括削除する。
	Settle(ctx context.Context, input settlement.Input) (*settlement.Result, error)
}

// PaymentIntentRecorder は決済インテント発行メトリクスの記録インターフェース。
type PaymentIntentRecorder interface {
	RecordPaymentIntent()
}

// PaymentHandler は決済のHTTPハンドラー。
type PaymentHandler struct {
	gateway  payment.Gateway
	settle   SettlementServiceInterface
	payments repository.PaymentRepository
	recorder PaymentIntentRecorder
	currency string
}

// NewPaymentHandler はPaymentHandlerを生成する。
func NewPaymentHandler(gateway payment.Gateway, settle SettlementServiceInterface, payments repository.PaymentRepository, recorder PaymentIntentRecorder, currency string) *PaymentHandler {
	return &PaymentHandler{
		gateway:  gateway,
		settle:   settle,
		payments: payments,
		recorder: recorder,
		currency: currency,
	}
}

// createIntentRequest は決済インテント作成リクエストのボディ。
type createIntentRequest struct {
	Price float64 `json:"price"`
}

// createIntentResponse は決済インテント作成レスポンス。
type createIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// settleRequest は決済確定リクエストのボディ。
// emailはボディではなく認証済みコンテキストから取得する。
type settleRequest struct {
	Price         float64  `json:"price"`
	TransactionID string   `json:"transactionId"`
	Status        string   `json:"status"`
	CartItemIDs   []string `json:"cartItemIds"`
	MenuItemIDs   []string `json:"menuItemIds"`
}

// settleResponse は決済確定レスポンス。両フェーズの結果を返す。
type settleResponse struct {
	PaymentID        string `json:"paymentId"`
	DeletedCartItems int64  `json:"deletedCartItems"`
}

// CreatePaymentIntent は決済ゲートウェイにインテントを作成しクライアントシークレットを返す。
// 金額は最小通貨単位（USDならセント）に変換して渡す。
// POST /create-payment-intent
func (h *PaymentHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req createIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	if req.Price <= 0 {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("priceは正の値である必要があります"))
		return
	}

	clientSecret, err := h.gateway.CreateIntent(r.Context(), payment.AmountMinorUnits(req.Price), h.currency)
	if err != nil {
		handleServiceError(w, model.NewUpstreamFailureError(err.Error()))
		return
	}
	h.recorder.RecordPaymentIntent()

	writeJSONResponse(w, http.StatusOK, createIntentResponse{ClientSecret: clientSecret})
}

// SettlePayment は決済を確定する。決済レコード挿入とカート一括削除の
// 両フェーズの結果を返す。
// POST /payments
func (h *PaymentHandler) SettlePayment(w http.ResponseWriter, r *http.Request) {
	email, err := middleware.EmailFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	var req settleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	result, err := h.settle.Settle(r.Context(), settlement.Input{
		Email:         email,
		Price:         req.Price,
		TransactionID: req.TransactionID,
		Status:        req.Status,
		CartItemIDs:   req.CartItemIDs,
		MenuItemIDs:   req.MenuItemIDs,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, settleResponse{
		PaymentID:        result.PaymentID,
		DeletedCartItems: result.DeletedCartItems,
	})
}

// ListPayments は全決済レコードを返す。管理者専用。
// GET /payments
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.payments.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	type paymentResponse struct {
		ID            string   `json:"id"`
		Email         string   `json:"email"`
		Price         float64  `json:"price"`
		TransactionID string   `json:"transactionId"`
		Status        string   `json:"status"`
		CartItemIDs   []string `json:"cartItemIds"`
		MenuItemIDs   []string `json:"menuItemIds"`
	}
	results := make([]paymentResponse, len(payments))
	for i, p := range payments {
		results[i] = paymentResponse{
			ID:            p.ID,
			Email:         p.Email,
			Price:         p.Price,
			TransactionID: p.TransactionID,
			Status:        p.Status,
			CartItemIDs:   p.CartItemIDs,
			MenuItemIDs:   p.MenuItemIDs,
		}
	}
	writeJSONResponse(w, http.StatusOK, results)
}
