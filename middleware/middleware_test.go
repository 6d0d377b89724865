package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanmayshinde-006/ProjexFlow/middleware"
	"github.com/tanmayshinde-006/ProjexFlow/utils"
	"github.com/tanmayshinde-006/ProjexFlow/web"
)

func authedMux(t *testing.T, jwtService *utils.JWTService) (http.Handler, *bool) {
	t.Helper()
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true

		userID, ok := middleware.UserID(r)
		assert.True(t, ok)
		assert.Equal(t, "652f1f77bcf86cd799439011", userID)

		role, ok := middleware.Role(r)
		assert.True(t, ok)
		assert.Equal(t, "member", role)

		w.WriteHeader(http.StatusOK)
	})
	return middleware.JWTAuth(jwtService)(next), &called
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	jwtService := utils.NewJWTService("test-secret", time.Hour)
	handler, called := authedMux(t, jwtService)

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)

	// The 401 body uses the same envelope as every handler response.
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body web.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.NotEmpty(t, body.Message)
	assert.Nil(t, body.Data)
}

func TestJWTAuth_MissingBearerPrefix(t *testing.T) {
	jwtService := utils.NewJWTService("test-secret", time.Hour)
	handler, called := authedMux(t, jwtService)

	token, err := jwtService.GenerateToken("652f1f77bcf86cd799439011", "member")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Authorization", token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	jwtService := utils.NewJWTService("test-secret", time.Hour)
	handler, called := authedMux(t, jwtService)

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)
}

func TestJWTAuth_ValidToken(t *testing.T) {
	jwtService := utils.NewJWTService("test-secret", time.Hour)
	handler, called := authedMux(t, jwtService)

	token, err := jwtService.GenerateToken("652f1f77bcf86cd799439011", "member")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *called)
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	jwtService := utils.NewJWTService("test-secret", -time.Minute)
	handler, called := authedMux(t, jwtService)

	token, err := jwtService.GenerateToken("652f1f77bcf86cd799439011", "member")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)
}
