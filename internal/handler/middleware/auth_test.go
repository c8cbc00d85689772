//go:build unit

package middleware_test

import (
	"net/http"
	"testing"
	"time"

	"palmgrove-bookings/internal/handler/middleware"
	"palmgrove-bookings/internal/pkg/jwt"
	"palmgrove-bookings/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *jwt.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := jwt.NewService("test-secret", time.Hour)
	auth := middleware.NewAuthMiddleware(tokens)

	whoami := func(c *gin.Context) {
		contactID, _ := middleware.GetContactID(c)
		c.JSON(http.StatusOK, gin.H{"contact_id": contactID})
	}

	router := gin.New()
	router.GET("/required", auth.RequireAuth(), whoami)
	router.GET("/optional", auth.OptionalAuth(), whoami)
	return router, tokens
}

func TestRequireAuth(t *testing.T) {
	t.Run("valid bearer token resolves the contact identity", func(t *testing.T) {
		router, tokens := newAuthRouter(t)
		token, err := tokens.GenerateToken("asha@example.com", "Asha Nair")
		require.NoError(t, err)

		rec := httptest.PerformRequest(t, router, http.MethodGet, "/required", nil, token)

		var body map[string]string
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		assert.Equal(t, "asha@example.com", body["contact_id"])
	})

	t.Run("missing token is rejected", func(t *testing.T) {
		router, _ := newAuthRouter(t)
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/required", nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		router, _ := newAuthRouter(t)
		forged, err := jwt.NewService("other-secret", time.Hour).GenerateToken("asha@example.com", "Asha Nair")
		require.NoError(t, err)

		rec := httptest.PerformRequest(t, router, http.MethodGet, "/required", nil, forged)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		router, _ := newAuthRouter(t)
		expired, err := jwt.NewService("test-secret", -time.Minute).GenerateToken("asha@example.com", "Asha Nair")
		require.NoError(t, err)

		rec := httptest.PerformRequest(t, router, http.MethodGet, "/required", nil, expired)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	t.Run("request without a token passes through anonymously", func(t *testing.T) {
		router, _ := newAuthRouter(t)
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/optional", nil, "")

		var body map[string]string
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		assert.Empty(t, body["contact_id"])
	})

	t.Run("valid token enriches the request", func(t *testing.T) {
		router, tokens := newAuthRouter(t)
		token, err := tokens.GenerateToken("asha@example.com", "Asha Nair")
		require.NoError(t, err)

		rec := httptest.PerformRequest(t, router, http.MethodGet, "/optional", nil, token)

		var body map[string]string
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		assert.Equal(t, "asha@example.com", body["contact_id"])
	})
}
