package middleware

import (
	"strings"

	"blog-cms/helper"
	"blog-cms/services"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
)

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(tokens services.TokenService, h *helper.HTTPHelper) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			h.SendUnauthorizedError(c, "Authorization header required", h.EmptyJsonMap())
			c.Abort()
			return
		}

		tokenString, ok := bearerToken(authHeader)
		if !ok {
			h.SendUnauthorizedError(c, "Bearer token required", h.EmptyJsonMap())
			c.Abort()
			return
		}

		identity, err := tokens.Verify(tokenString)
		if err != nil {
			h.SendUnauthorizedError(c, err.Error(), h.EmptyJsonMap())
			c.Abort()
			return
		}

		attach(c, identity)
		c.Next()
	}
}

// OptionalAuth attaches the identity when a valid bearer token is present and
// lets every request through. Operations that need an identity check for it.
func OptionalAuth(tokens services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if identity, err := tokens.Verify(tokenString); err == nil {
				attach(c, identity)
			}
		}
		c.Next()
	}
}

// Identity returns the identity attached by AuthMiddleware or OptionalAuth.
func Identity(c *gin.Context) *services.Identity {
	return services.IdentityFrom(c.Request.Context())
}

func attach(c *gin.Context, identity *services.Identity) {
	c.Set(ContextUserID, identity.UserID)
	c.Set(ContextUsername, identity.Username)
	c.Request = c.Request.WithContext(services.WithIdentity(c.Request.Context(), identity))
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
