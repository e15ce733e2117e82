package handlers

import (
	"errors"
	"net/http"

	"licencias_flow_go/models"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// jsonError maps service errors onto HTTP responses. Validation
// failures are the caller's fault; everything else is a 500.
func jsonError(c echo.Context, err error) error {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{
			"field": validationErr.Field,
			"error": validationErr.Message,
		})
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
