package handlers

import (
	"errors"
	"net/http"

	"github.com/animehub/backend/internal/services"
	"github.com/gin-gonic/gin"
)

// serviceError maps the service failure taxonomy onto HTTP statuses.
func serviceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, services.ErrInvalidOperation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrIntegrityAnomaly):
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
