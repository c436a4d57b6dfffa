package helpers

import (
	"errors"
	"net/http"

	"reverse-auction/internal/auctionerrors"
	"reverse-auction/internal/auth"
	"reverse-auction/utils"

	"github.com/gin-gonic/gin"
)

// ContextClaimsKey is the gin context key under which the auth middleware
// stores the verified bearer claims.
const ContextClaimsKey = "authClaims"

// CurrentClaims returns the verified claims stored by the auth middleware
func CurrentClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(ContextClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	utils.JSONError(c, http.StatusBadRequest, "Missing required fields")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrAuctionNotFound):
		return http.StatusNotFound, "Auction not found"
	case errors.Is(err, auctionerrors.ErrAuctionClosed):
		return http.StatusConflict, "Auction is closed"
	case errors.Is(err, auctionerrors.ErrNotOwner):
		return http.StatusForbidden, "Access denied"
	case errors.Is(err, auctionerrors.ErrInvalidRequest):
		return http.StatusBadRequest, "Missing required fields"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
