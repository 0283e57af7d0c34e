package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hitoshi/bistro/internal/middleware"
	"github.com/hitoshi/bistro/internal/model"
	"github.com/hitoshi/bistro/internal/token"
)

// TokenIssuer はトークンハンドラーが必要とする発行インターフェース。
type TokenIssuer interface {
	// Issue はクレームに署名したトークン文字列を返す。
	Issue(claims token.Claims) (string, error)
}

// TokenHandler はアクセストークン発行のHTTPハンドラー。
type TokenHandler struct {
	issuer TokenIssuer
}

// NewTokenHandler はTokenHandlerを生成する。
func NewTokenHandler(issuer TokenIssuer) *TokenHandler {
	return &TokenHandler{issuer: issuer}
}

// issueTokenRequest はトークン発行リクエストのボディ。
type issueTokenRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// issueTokenResponse はトークン発行レスポンス。
type issueTokenResponse struct {
	Token string `json:"token"`
}

// IssueToken はサインインペイロードからアクセストークンを発行する。
// POST /jwt
func (h *TokenHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req issueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	if req.Email == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("emailが空です"))
		return
	}

	signed, err := h.issuer.Issue(token.Claims{
		Email: req.Email,
		Name:  req.Name,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, issueTokenResponse{Token: signed})
}
