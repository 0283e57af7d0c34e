package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hitoshi/bistro/internal/middleware"
	"github.com/hitoshi/bistro/internal/model"
	"github.com/hitoshi/bistro/internal/repository"
)

// CartHandler はカート管理のHTTPハンドラー。
type CartHandler struct {
	repo repository.CartItemRepository
}

// NewCartHandler はCartHandlerを生成する。
func NewCartHandler(repo repository.CartItemRepository) *CartHandler {
	return &CartHandler{repo: repo}
}

// createCartItemRequest はカート追加リクエストのボディ。
type createCartItemRequest struct {
	Email      string  `json:"email"`
	MenuItemID string  `json:"menu_item_id"`
	Name       string  `json:"name"`
	Image      string  `json:"image"`
	Price      float64 `json:"price"`
}

// cartItemResponse はカートアイテムのAPIレスポンス。
type cartItemResponse struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	MenuItemID string  `json:"menu_item_id"`
	Name       string  `json:"name"`
	Image      string  `json:"image,omitempty"`
	Price      float64 `json:"price"`
}

// ListCartItems は認証済みユーザー自身のカートアイテム一覧を返す。
// クエリのemailがトークンのsubjectと一致しない場合は403。
// emailクエリが無い場合は空のリストを返す（エラーにしない）。
// GET /carts?email=
func (h *CartHandler) ListCartItems(w http.ResponseWriter, r *http.Request) {
	callerEmail, err := middleware.EmailFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	email := r.URL.Query().Get("email")
	if email == "" {
		writeJSONResponse(w, http.StatusOK, []cartItemResponse{})
		return
	}
	if email != callerEmail {
		middleware.WriteErrorResponse(w, http.StatusForbidden, model.NewForbiddenError())
		return
	}

	items, err := h.repo.ListByEmail(r.Context(), email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]cartItemResponse, len(items))
	for i, item := range items {
		results[i] = cartItemResponse{
			ID:         item.ID,
			Email:      item.Email,
			MenuItemID: item.MenuItemID,
			Name:       item.Name,
			Image:      item.Image,
			Price:      item.Price,
		}
	}
	writeJSONResponse(w, http.StatusOK, results)
}

// CreateCartItem はカートにアイテムを追加する。
// POST /carts
func (h *CartHandler) CreateCartItem(w http.ResponseWriter, r *http.Request) {
	var req createCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	if req.Email == "" || req.MenuItemID == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("emailとmenu_item_idは必須です"))
		return
	}

	item := &model.CartItem{
		ID:         uuid.New().String(),
		Email:      req.Email,
		MenuItemID: req.MenuItemID,
		Name:       req.Name,
		Image:      req.Image,
		Price:      req.Price,
		CreatedAt:  time.Now(),
	}
	if err := h.repo.Create(r.Context(), item); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, cartItemResponse{
		ID:         item.ID,
		Email:      item.Email,
		MenuItemID: item.MenuItemID,
		Name:       item.Name,
		Image:      item.Image,
		Price:      item.Price,
	})
}

// DeleteCartItem はカートからアイテムを削除する。
// DELETE /carts/{id}
func (h *CartHandler) DeleteCartItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.DeleteByID(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
