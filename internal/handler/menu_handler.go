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

// MenuHandler はメニュー管理のHTTPハンドラー。
// ビジネスロジックを持たない薄いCRUDのため、リポジトリを直接参照する。
type MenuHandler struct {
	repo repository.MenuItemRepository
}

// NewMenuHandler はMenuHandlerを生成する。
func NewMenuHandler(repo repository.MenuItemRepository) *MenuHandler {
	return &MenuHandler{repo: repo}
}

// createMenuItemRequest はメニュー項目作成リクエストのボディ。
type createMenuItemRequest struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Recipe   string  `json:"recipe"`
}

// menuItemResponse はメニュー項目のAPIレスポンス。
type menuItemResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Image    string  `json:"image,omitempty"`
	Recipe   string  `json:"recipe,omitempty"`
}

// ListMenuItems は全メニュー項目を返す。
// GET /menu
func (h *MenuHandler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]menuItemResponse, len(items))
	for i, item := range items {
		results[i] = toMenuItemResponse(item)
	}
	writeJSONResponse(w, http.StatusOK, results)
}

// CreateMenuItem はメニュー項目を作成する。管理者専用。
// POST /menu
func (h *MenuHandler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req createMenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	if req.Name == "" || req.Category == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("nameとcategoryは必須です"))
		return
	}
	if req.Price < 0 {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("priceは0以上である必要があります"))
		return
	}

	item := &model.MenuItem{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Category:  req.Category,
		Price:     req.Price,
		Image:     req.Image,
		Recipe:    req.Recipe,
		CreatedAt: time.Now(),
	}
	if err := h.repo.Create(r.Context(), item); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, toMenuItemResponse(item))
}

// DeleteMenuItem はメニュー項目を削除する。管理者専用。
// DELETE /menu/{id}
func (h *MenuHandler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.DeleteByID(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// toMenuItemResponse はmodel.MenuItemからAPIレスポンスに変換する。
func toMenuItemResponse(item *model.MenuItem) menuItemResponse {
	return menuItemResponse{
		ID:       item.ID,
		Name:     item.Name,
		Category: item.Category,
		Price:    item.Price,
		Image:    item.Image,
		Recipe:   item.Recipe,
	}
}
