package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"palmgrove-bookings/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware resolves the guest contact identity from a bearer token
// minted by the guest portal. There are no roles; every authenticated caller
// is a guest acting on their own bookings.
type AuthMiddleware struct {
	tokens *jwt.Service
}

const (
	ctxContactIDKey = "contact_id"
	ctxGuestNameKey = "guest_name"
)

func NewAuthMiddleware(tokens *jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[len("Bearer "):])
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxContactIDKey, claims.ContactID)
		c.Set(ctxGuestNameKey, claims.GuestName)
		c.Next()
	}
}

// OptionalAuth binds the contact identity when a valid token is present but
// never aborts; creation and quoting are open to first-time guests.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			c.Next()
			return
		}

		c.Set(ctxContactIDKey, claims.ContactID)
		c.Set(ctxGuestNameKey, claims.GuestName)
		c.Next()
	}
}

func GetContactID(c *gin.Context) (string, bool) {
	contactID, exists := c.Get(ctxContactIDKey)
	if !exists {
		return "", false
	}

	id, ok := contactID.(string)
	return id, ok && id != ""
}
