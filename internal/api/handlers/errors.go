package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/peace-adamu/inventory-management-system/internal/analysis"
	"github.com/peace-adamu/inventory-management-system/internal/api/middleware"
	"github.com/peace-adamu/inventory-management-system/internal/command"
	"github.com/peace-adamu/inventory-management-system/internal/economics"
	"github.com/peace-adamu/inventory-management-system/internal/importer"
	"github.com/peace-adamu/inventory-management-system/internal/inventory"
	"github.com/peace-adamu/inventory-management-system/internal/transaction"
)

// StatusFor maps domain errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, inventory.ErrProductNotFound), errors.Is(err, analysis.ErrNoProducts):
		return http.StatusNotFound
	case errors.Is(err, inventory.ErrProductExists),
		errors.Is(err, inventory.ErrVersionConflict),
		errors.Is(err, transaction.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, inventory.ErrReadOnly):
		return http.StatusForbidden
	case errors.Is(err, inventory.ErrInvalidProduct),
		errors.Is(err, economics.ErrInvalidInput),
		errors.Is(err, transaction.ErrInvalidQuantity),
		errors.Is(err, transaction.ErrInvalidPrice),
		errors.Is(err, transaction.ErrProductRequired),
		errors.Is(err, command.ErrIncomplete),
		errors.Is(err, importer.ErrUnsupportedFile):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error", "details"}; message describes the failed action.
func respondError(c *gin.Context, err error, message string) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("request_id", middleware.GetRequestID(c)).Msg(message)
	}
	c.JSON(status, gin.H{"error": message, "details": err.Error()})
}

func badRequest(c *gin.Context, message string, err error) {
	body := gin.H{"error": message}
	if err != nil {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusBadRequest, body)
}
