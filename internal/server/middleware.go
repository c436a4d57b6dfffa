package server

import (
	"net/http"
	"strings"
	"time"

	"reverse-auction/internal/auth"
	model "reverse-auction/internal/models"
	"reverse-auction/services/auction/helpers"
	"reverse-auction/utils"

	"github.com/gin-gonic/gin"
)

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	utils.Info("HTTP Request", map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	})
}

// RequireAuth verifies the bearer credential and stores its claims on the
// context. Authorization runs before any business-rule validation.
func RequireAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Unauthorized")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims, err := tokens.Verify(tokenString)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "Invalid token")
			c.Abort()
			return
		}

		c.Set(helpers.ContextClaimsKey, claims)
		c.Next()
	}
}

// RequireRole rejects callers whose verified claims carry a different role
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := helpers.CurrentClaims(c)
		if !ok || claims.Role != role {
			utils.JSONError(c, http.StatusForbidden, "Access denied")
			c.Abort()
			return
		}
		c.Next()
	}
}
