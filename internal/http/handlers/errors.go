package handlers

import (
	"errors"
	"net/http"

	"sessiondesk/internal/domain"
	"sessiondesk/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Message   string `json:"message,omitempty"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.JSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Message:   message,
		Details:   details,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses. Remote bodies are
// passed through as details so the dashboard can show them.
func RespondDomainError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case domain.IsRefreshFailed(err):
		respondError(c, http.StatusBadGateway, domain.CodeRefreshFailed,
			"changes were saved but reloading sessions failed, please refresh", nil)
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), validationDetails(err))
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsInconsistentState(err):
		respondError(c, http.StatusConflict, "inconsistent_state", err.Error(), nil)
	case domain.IsRemote(err):
		var re domain.RemoteError
		errors.As(err, &re)
		respondError(c, http.StatusBadGateway, "remote_error", err.Error(), gin.H{"status": re.Status, "body": re.Body})
	case domain.IsNetwork(err):
		respondError(c, http.StatusServiceUnavailable, "network_error", "remote service unreachable", nil)
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
	}
}

func validationDetails(err error) any {
	var ve domain.ValidationError
	if errors.As(err, &ve) && ve.Field != "" {
		return gin.H{"field": ve.Field}
	}
	return nil
}
