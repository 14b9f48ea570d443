package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/matchpoint-app/server/social"
)

// writeError maps a social service error to an HTTP response. Unrecognized
// errors become a generic 500 so driver details never leak to clients.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, social.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, social.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, social.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "relationship already exists"})
	case errors.Is(err, social.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "invalid status transition"})
	case errors.Is(err, social.ErrSelfReference):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot reference yourself"})
	case errors.Is(err, social.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid argument"})
	case errors.Is(err, social.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporarily unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
