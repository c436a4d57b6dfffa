package utils

import (
	"github.com/gin-gonic/gin"
)

// JSONError sends the error response shape shared by all endpoints:
// a short human-readable message under the "error" key.
func JSONError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
