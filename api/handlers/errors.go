package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"folio/logger"
	"folio/services"
)

// writeError maps the service error taxonomy onto HTTP statuses. Store
// failures stay generic so internals never leak to the public surface.
func writeError(c *gin.Context, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Reason})
	case errors.Is(err, services.ErrSlugExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Slug already exists"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	default:
		logger.ErrorWithFields("request failed", logger.Fields{"path": c.FullPath(), "error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
