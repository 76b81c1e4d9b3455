package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hl-ecommerce/utils"
)

func init() {
	utils.JwtKey = []byte("test-secret")
}

func protectedHandler(t *testing.T, called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(UserContextKey).(*utils.Claims)
		require.True(t, ok)
		assert.NotEmpty(t, claims.UserID)
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddlewareWithCookie(t *testing.T) {
	token, err := utils.GenerateJWT("64f000000000000000000001", "user")
	require.NoError(t, err)

	called := false
	req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	rec := httptest.NewRecorder()

	AuthMiddleware(protectedHandler(t, &called)).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestAuthMiddlewareWithBearerHeader(t *testing.T) {
	token, err := utils.GenerateJWT("64f000000000000000000001", "user")
	require.NoError(t, err)

	called := false
	req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	AuthMiddleware(protectedHandler(t, &called)).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	called := false
	req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
	rec := httptest.NewRecorder()

	AuthMiddleware(protectedHandler(t, &called)).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestAuthMiddlewareRejectsGarbageToken(t *testing.T) {
	called := false
	req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "not-a-jwt"})
	rec := httptest.NewRecorder()

	AuthMiddleware(protectedHandler(t, &called)).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestAdminMiddleware(t *testing.T) {
	adminToken, err := utils.GenerateJWT("64f000000000000000000002", "admin")
	require.NoError(t, err)
	userToken, err := utils.GenerateJWT("64f000000000000000000003", "user")
	require.NoError(t, err)

	handler := AuthMiddleware(AdminMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodDelete, "/api/user/users/1", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: adminToken})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/user/users/1", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: userToken})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
