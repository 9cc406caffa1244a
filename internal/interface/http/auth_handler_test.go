package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"go-auth-service/internal/application"
	"go-auth-service/internal/infrastructure/memory"
	"go-auth-service/internal/interface/middleware"
	"go-auth-service/pkg/hashing"
	"go-auth-service/pkg/token"
	"go-auth-service/pkg/validation"
)

const testSecret = "handler-test-secret"

var initOnce sync.Once

func newTestAuthHandler() *AuthHandler {
	hasher := hashing.NewWithParams(hashing.Params{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	tokens := token.NewManager(testSecret, 1)
	svc := application.NewService(memory.NewUserRepository(), hasher, tokens, nil)
	return NewAuthHandler(svc, nil)
}

func newTestRouter(t *testing.T) (*gin.Engine, *application.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	initOnce.Do(validation.Init)

	h := newTestAuthHandler()
	svc := h.Svc
	tokens := svc.Tokens

	r := gin.New()
	r.Use(middleware.BodyLimit(2 << 20))
	api := r.Group("/api/v1")
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)

	protected := api.Group("", middleware.RequireAuth(tokens, nil))
	protected.GET("/auth/me", h.Me)
	protected.PUT("/auth/password", h.ChangePassword)
	protected.DELETE("/auth/me", h.DeleteMe)
	return r, svc
}

func doJSON(r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, r *gin.Engine, email, username string) (userID, tok string) {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/v1/auth/register", gin.H{
		"email":    email,
		"username": username,
		"password": "correct horse battery",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		User  userResponse `json:"user"`
		Token string       `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.User.ID, resp.Token
}

func TestRegisterReturnsUserAndToken(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/auth/register", gin.H{
		"email":    "alice@example.com",
		"username": "alice",
		"password": "correct horse battery",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Contains(t, resp, "user")
	require.Contains(t, resp, "token")

	var u map[string]any
	require.NoError(t, json.Unmarshal(resp["user"], &u))
	require.Equal(t, "alice@example.com", u["email"])
	require.Equal(t, "alice", u["username"])
	require.NotEmpty(t, u["id"])
	require.NotEmpty(t, u["created_at"])
	require.NotContains(t, u, "password")
	require.NotContains(t, u, "password_hash")
}

func TestRegisterValidationDetails(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/auth/register", gin.H{
		"email":    "not-an-email",
		"username": "ab",
		"password": "short",
	}, nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	var resp struct {
		ErrorID   string            `json:"error_id"`
		ErrorCode string            `json:"error_code"`
		Error     string            `json:"error"`
		Details   map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "VALIDATION_ERROR", resp.ErrorCode)
	require.NotEmpty(t, resp.ErrorID)
	require.Contains(t, resp.Details, "email")
	require.Contains(t, resp.Details, "username")
	require.Contains(t, resp.Details, "password")
}

func TestRegisterBodyTooLarge(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)
	initOnce.Do(validation.Init)

	h := newTestAuthHandler()
	r := gin.New()
	r.POST("/api/v1/auth/register", middleware.BodyLimit(64), h.Register)

	big := gin.H{
		"email":    "big@example.com",
		"username": "bigbody",
		"password": strings.Repeat("x", 256),
	}

	// Declared length over the cap never reaches the handler.
	w := doJSON(r, http.MethodPost, "/api/v1/auth/register", big, nil)
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code, w.Body.String())

	var resp struct {
		ErrorCode string `json:"error_code"`
		Error     string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "PAYLOAD_TOO_LARGE", resp.ErrorCode)
	require.Equal(t, "request body too large", resp.Error)

	// A body streamed without a declared length hits the cap mid-read.
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(big))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", &buf)
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = -1
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	require.Equal(t, http.StatusRequestEntityTooLarge, w2.Code, w2.Body.String())
}

func TestRegisterDuplicateIsBadRequest(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)
	registerUser(t, r, "bob@example.com", "bob")

	// Same email, different username.
	w := doJSON(r, http.MethodPost, "/api/v1/auth/register", gin.H{
		"email":    "bob@example.com",
		"username": "robert",
		"password": "correct horse battery",
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	var resp struct {
		ErrorCode string `json:"error_code"`
		Error     string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "BAD_REQUEST", resp.ErrorCode)
	require.Equal(t, "account with this email or username already exists", resp.Error)
}

// Both unknown email and wrong password must yield the same status, code and
// message, so an attacker cannot tell which accounts exist.
func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)
	registerUser(t, r, "carol@example.com", "carol")

	type errBody struct {
		ErrorID   string `json:"error_id"`
		ErrorCode string `json:"error_code"`
		Error     string `json:"error"`
	}

	wUnknown := doJSON(r, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "nobody@example.com",
		"password": "whatever-password",
	}, nil)
	wWrong := doJSON(r, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "carol@example.com",
		"password": "wrong-password",
	}, nil)

	require.Equal(t, http.StatusUnauthorized, wUnknown.Code)
	require.Equal(t, http.StatusUnauthorized, wWrong.Code)

	var a, b errBody
	require.NoError(t, json.Unmarshal(wUnknown.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(wWrong.Body.Bytes(), &b))
	require.Equal(t, a.ErrorCode, b.ErrorCode)
	require.Equal(t, a.Error, b.Error)
	require.NotEqual(t, a.ErrorID, b.ErrorID)
}

func TestMeWithoutToken(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/api/v1/auth/me", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "missing authorization header", resp.Error)
}

func TestMeWithMalformedHeader(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/api/v1/auth/me", nil, map[string]string{
		"Authorization": "Token abc123",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "invalid authorization header format", resp.Error)
}

func TestMeWithToken(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)
	userID, tok := registerUser(t, r, "dave@example.com", "dave")

	w := doJSON(r, http.MethodGet, "/api/v1/auth/me", nil, map[string]string{
		"Authorization": "Bearer " + tok,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var u userResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	require.Equal(t, userID, u.ID)
	require.Equal(t, "dave@example.com", u.Email)
	require.Equal(t, "dave", u.Username)
}

func TestMeWithExpiredToken(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)

	// Hand-signed token with the router's secret but an exp in the past.
	past := time.Now().Add(-time.Hour)
	claims := &token.Claims{
		Email:    "gone@example.com",
		Username: "gone",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "00000000-0000-0000-0000-000000000001",
			IssuedAt:  jwt.NewNumericDate(past.Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(past),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	w := doJSON(r, http.MethodGet, "/api/v1/auth/me", nil, map[string]string{
		"Authorization": "Bearer " + signed,
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "invalid token", resp.Error)
}

func TestChangePasswordThenLogin(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)
	_, tok := registerUser(t, r, "erin@example.com", "erin")

	w := doJSON(r, http.MethodPut, "/api/v1/auth/password", gin.H{
		"current_password": "correct horse battery",
		"new_password":     "an even longer phrase",
	}, map[string]string{"Authorization": "Bearer " + tok})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Old password no longer works.
	w = doJSON(r, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "erin@example.com",
		"password": "correct horse battery",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "erin@example.com",
		"password": "an even longer phrase",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestDeleteAccount(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)
	_, tok := registerUser(t, r, "frank@example.com", "frank")

	w := doJSON(r, http.MethodDelete, "/api/v1/auth/me", nil, map[string]string{
		"Authorization": "Bearer " + tok,
	})
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Empty(t, w.Body.String())

	// The token still parses but the account is gone.
	w = doJSON(r, http.MethodGet, "/api/v1/auth/me", nil, map[string]string{
		"Authorization": "Bearer " + tok,
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserListPagination(t *testing.T) {
	t.Parallel()
	r, svc := newTestRouter(t)
	uh := NewUserHandler(svc, nil)
	r.GET("/api/v1/users", uh.List)

	for i := 0; i < 5; i++ {
		registerUser(t, r, fmt.Sprintf("user%d@example.com", i), fmt.Sprintf("user%d", i))
	}

	w := doJSON(r, http.MethodGet, "/api/v1/users?page=2&per_page=2", nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data       []userResponse `json:"data"`
		Pagination struct {
			Page       int64 `json:"page"`
			PerPage    int64 `json:"per_page"`
			Total      int64 `json:"total"`
			TotalPages int64 `json:"total_pages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	require.EqualValues(t, 2, resp.Pagination.Page)
	require.EqualValues(t, 5, resp.Pagination.Total)
	require.EqualValues(t, 3, resp.Pagination.TotalPages)
}
