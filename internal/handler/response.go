package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"declarant/internal/domain"
	"declarant/internal/middleware"
)

// statusClientClosedRequest is the nginx code for a caller that went away
// before the response was ready.
const statusClientClosedRequest = 499

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondAccepted sends a 202 success response.
func RespondAccepted(c *gin.Context, data interface{}) {
	c.JSON(http.StatusAccepted, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
// Messages come from domain.UserMessage and never carry internal detail.
func MapDomainError(err error) (status int, code, msg string) {
	var (
		valErr   *domain.ValidationError
		readErr  *domain.ReadError
		unsupErr *domain.UnsupportedFormatError
		unavErr  *domain.OracleUnavailableError
		respErr  *domain.OracleResponseError
	)
	switch {
	case errors.As(err, &valErr):
		return http.StatusUnprocessableEntity, "VALIDATION_FAILED", valErr.UserMessage()
	case errors.As(err, &readErr):
		return http.StatusUnprocessableEntity, "READ_FAILED", readErr.UserMessage()
	case errors.As(err, &unsupErr):
		return http.StatusUnsupportedMediaType, "UNSUPPORTED_FILE_TYPE", unsupErr.Error()
	case errors.As(err, &unavErr):
		return http.StatusServiceUnavailable, "ORACLE_UNAVAILABLE", unavErr.UserMessage()
	case errors.As(err, &respErr):
		return http.StatusBadGateway, "ORACLE_BAD_RESPONSE", respErr.UserMessage()
	case errors.Is(err, domain.ErrAnalysisInProgress):
		return http.StatusConflict, "ANALYSIS_IN_PROGRESS", domain.UserMessage(err)
	case errors.Is(err, domain.ErrNoResult):
		return http.StatusConflict, "NO_RESULT", domain.UserMessage(err)
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "SESSION_NOT_FOUND", "session not found"
	case errors.Is(err, domain.ErrUnknownRole):
		return http.StatusBadRequest, "UNKNOWN_ROLE", "unknown document role; allowed: contract, invoice, description, packing"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest, "REQUEST_CANCELED", "request canceled"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	log := middleware.LoggerFrom(c)
	switch {
	case status >= 500:
		log.Error("request failed", zap.String("code", code), zap.Error(err))
	case status >= 400:
		log.Debug("request rejected", zap.String("code", code), zap.Error(err))
	}
	RespondError(c, status, code, msg)
}
