package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/bistro/internal/middleware"
	"github.com/hitoshi/bistro/internal/model"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// EnsureUser は初回サインイン時のユーザー登録を行う。登録済みなら何もしない。
	EnsureUser(ctx context.Context, email, name string) (bool, error)
	// ListUsers は全ユーザーを返す。
	ListUsers(ctx context.Context) ([]*model.User, error)
	// IsAdmin は指定emailのユーザーが管理者かどうかを返す。
	IsAdmin(ctx context.Context, email string) (bool, error)
	// ElevateToAdmin は指定IDのユーザーに管理者ロールを付与する。
	ElevateToAdmin(ctx context.Context, id string) error
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// createUserRequest はユーザー登録リクエストのボディ。
type createUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// userResponse はユーザー情報のAPIレスポンス。
type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// adminProbeResponse は管理者判定レスポンス。
type adminProbeResponse struct {
	Admin bool `json:"admin"`
}

// CreateUser は初回サインイン時のユーザー登録を処理する。
// 登録済みのemailに対しては何もせず200を返す。
// POST /users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	if req.Email == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("emailが空です"))
		return
	}

	created, err := h.service.EnsureUser(r.Context(), req.Email, req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if !created {
		writeJSONResponse(w, http.StatusOK, map[string]any{
			"message": "user already exists",
		})
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// ListUsers は全ユーザーの一覧を返す。管理者専用。
// GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]userResponse, len(users))
	for i, u := range users {
		results[i] = userResponse{
			ID:        u.ID,
			Email:     u.Email,
			Name:      u.Name,
			Role:      u.Role,
			CreatedAt: u.CreatedAt,
		}
	}
	writeJSONResponse(w, http.StatusOK, results)
}

// ProbeAdmin は認証済みユーザー自身が管理者かどうかを返す。
// パスのemailがトークンのsubjectと一致しない場合は、エラーではなく
// admin:falseを返す（他ユーザーの存在・権限を漏らさない）。
// GET /users/admin/{email}
func (h *UserHandler) ProbeAdmin(w http.ResponseWriter, r *http.Request) {
	callerEmail, err := middleware.EmailFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	email := chi.URLParam(r, "email")
	if email != callerEmail {
		writeJSONResponse(w, http.StatusOK, adminProbeResponse{Admin: false})
		return
	}

	admin, err := h.service.IsAdmin(r.Context(), email)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, adminProbeResponse{Admin: admin})
}

// ElevateToAdmin は指定ユーザーに管理者ロールを付与する。管理者専用。
// PATCH /users/admin/{id}
func (h *UserHandler) ElevateToAdmin(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.ElevateToAdmin(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
