package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/bistro/internal/middleware"
	"github.com/hitoshi/bistro/internal/model"
)

// --- モック定義 ---

// mockUserService はUserServiceInterfaceのモック実装。
type mockUserService struct {
	ensureUserFn     func(ctx context.Context, email, name string) (bool, error)
	listUsersFn      func(ctx context.Context) ([]*model.User, error)
	isAdminFn        func(ctx context.Context, email string) (bool, error)
	elevateToAdminFn func(ctx context.Context, id string) error
}

func (m *mockUserService) EnsureUser(ctx context.Context, email, name string) (bool, error) {
	if m.ensureUserFn != nil {
		return m.ensureUserFn(ctx, email, name)
	}
	return true, nil
}

func (m *mockUserService) ListUsers(ctx context.Context) ([]*model.User, error) {
	if m.listUsersFn != nil {
		return m.listUsersFn(ctx)
	}
	return nil, nil
}

func (m *mockUserService) IsAdmin(ctx context.Context, email string) (bool, error) {
	if m.isAdminFn != nil {
		return m.isAdminFn(ctx, email)
	}
	return false, nil
}

func (m *mockUserService) ElevateToAdmin(ctx context.Context, id string) error {
	if m.elevateToAdminFn != nil {
		return m.elevateToAdminFn(ctx, id)
	}
	return nil
}

// withEmail はリクエストコンテキストに認証済みemailを注入する。
func withEmail(req *http.Request, email string) *http.Request {
	return req.WithContext(middleware.ContextWithEmail(req.Context(), email))
}

// withURLParam はchiのURLパラメータを注入する。
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// --- POST /users テスト ---

func TestUserHandler_CreateUser_NewUser_ReturnsCreated(t *testing.T) {
	svc := &mockUserService{
		ensureUserFn: func(ctx context.Context, email, name string) (bool, error) {
			if email != "new@example.com" {
				t.Errorf("email = %q, want %q", email, "new@example.com")
			}
			return true, nil
		},
	}
	h := NewUserHandler(svc)

	body := strings.NewReader(`{"email":"new@example.com","name":"New"}`)
	req := httptest.NewRequest(http.MethodPost, "/users", body)
	w := httptest.NewRecorder()

	h.CreateUser(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
}

func TestUserHandler_CreateUser_ExistingUser_ReturnsOK(t *testing.T) {
	svc := &mockUserService{
		ensureUserFn: func(ctx context.Context, email, name string) (bool, error) {
			return false, nil
		},
	}
	h := NewUserHandler(svc)

	body := strings.NewReader(`{"email":"existing@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/users", body)
	w := httptest.NewRecorder()

	h.CreateUser(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}

func TestUserHandler_CreateUser_EmptyEmail_ReturnsBadRequest(t *testing.T) {
	h := NewUserHandler(&mockUserService{})

	body := strings.NewReader(`{"name":"NoEmail"}`)
	req := httptest.NewRequest(http.MethodPost, "/users", body)
	w := httptest.NewRecorder()

	h.CreateUser(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

// --- GET /users テスト ---

func TestUserHandler_ListUsers_ReturnsAllUsers(t *testing.T) {
	svc := &mockUserService{
		listUsersFn: func(ctx context.Context) ([]*model.User, error) {
			return []*model.User{
				{ID: "u1", Email: "a@example.com", Role: model.RoleAdmin},
				{ID: "u2", Email: "b@example.com"},
			}, nil
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	w := httptest.NewRecorder()

	h.ListUsers(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var got []userResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 users, got %d", len(got))
	}
	if got[0].Role != model.RoleAdmin {
		t.Errorf("role = %q, want %q", got[0].Role, model.RoleAdmin)
	}
}

// --- GET /users/admin/{email} テスト ---

func TestUserHandler_ProbeAdmin_OwnEmail_ReturnsAdminStatus(t *testing.T) {
	svc := &mockUserService{
		isAdminFn: func(ctx context.Context, email string) (bool, error) {
			return true, nil
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/users/admin/admin@example.com", nil)
	req = withEmail(req, "admin@example.com")
	req = withURLParam(req, "email", "admin@example.com")
	w := httptest.NewRecorder()

	h.ProbeAdmin(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var got adminProbeResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !got.Admin {
		t.Error("expected admin = true")
	}
}

// 他ユーザーのemailを問い合わせた場合はエラーではなくadmin:falseを返す。
// 対象emailの存在や権限を漏らさないための仕様。
func TestUserHandler_ProbeAdmin_OtherEmail_ReturnsFalseWithoutError(t *testing.T) {
	isAdminCalled := false
	svc := &mockUserService{
		isAdminFn: func(ctx context.Context, email string) (bool, error) {
			isAdminCalled = true
			return true, nil
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/users/admin/other@example.com", nil)
	req = withEmail(req, "caller@example.com")
	req = withURLParam(req, "email", "other@example.com")
	w := httptest.NewRecorder()

	h.ProbeAdmin(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var got adminProbeResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Admin {
		t.Error("expected admin = false for other user's email")
	}
	if isAdminCalled {
		t.Error("expected store lookup to be skipped for other user's email")
	}
}

func TestUserHandler_ProbeAdmin_NoAuthContext_ReturnsUnauthorized(t *testing.T) {
	h := NewUserHandler(&mockUserService{})

	req := httptest.NewRequest(http.MethodGet, "/users/admin/x@example.com", nil)
	req = withURLParam(req, "email", "x@example.com")
	w := httptest.NewRecorder()

	h.ProbeAdmin(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}

// --- PATCH /users/admin/{id} テスト ---

func TestUserHandler_ElevateToAdmin_Success(t *testing.T) {
	var gotID string
	svc := &mockUserService{
		elevateToAdminFn: func(ctx context.Context, id string) error {
			gotID = id
			return nil
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodPatch, "/users/admin/user-9", nil)
	req = withURLParam(req, "id", "user-9")
	w := httptest.NewRecorder()

	h.ElevateToAdmin(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	if gotID != "user-9" {
		t.Errorf("id = %q, want %q", gotID, "user-9")
	}
}

func TestUserHandler_ElevateToAdmin_NotFound(t *testing.T) {
	svc := &mockUserService{
		elevateToAdminFn: func(ctx context.Context, id string) error {
			return model.NewNotFoundError("user")
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodPatch, "/users/admin/missing", nil)
	req = withURLParam(req, "id", "missing")
	w := httptest.NewRecorder()

	h.ElevateToAdmin(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}
