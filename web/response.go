// ABOUTME: JSON response envelope and error-to-status mapping for the HTTP API
// ABOUTME: Every handler answers through Success, Error, or RespondError
package web

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/harperreed/voss/drafts"
	"github.com/harperreed/voss/importer"
	"github.com/harperreed/voss/models"
)

// APIResponse describes the standard envelope returned by the API.
type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func Success(c echo.Context, status int, message string, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	return c.JSON(status, APIResponse{Status: "success", Message: message, Data: data})
}

func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, APIResponse{Status: "error", Message: message})
}

// StatusFor maps domain errors onto HTTP status codes.
func StatusFor(err error) int {
	var csvErr importer.CSVValidationError
	switch {
	case models.IsValidation(err), errors.As(err, &csvErr):
		return http.StatusBadRequest
	case models.IsNotFound(err):
		return http.StatusNotFound
	case models.IsInvalidState(err):
		return http.StatusConflict
	case models.IsDataUnavailable(err),
		errors.Is(err, drafts.ErrNotConfigured),
		errors.Is(err, drafts.ErrUnavailable),
		errors.Is(err, drafts.ErrInvalidOutput):
		return http.StatusServiceUnavailable
	case errors.Is(err, drafts.ErrTimeout):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// RespondError writes err with its mapped status. Internal errors are logged
// and answered with a generic message.
func (s *Server) RespondError(c echo.Context, err error) error {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"request_id", RequestIDFromContext(c), "path", c.Path(), "error", err)
		return Error(c, status, "internal server error")
	}
	return Error(c, status, err.Error())
}
