// Package httputil provides the error envelope shared by handlers and middleware.
package httputil

import "github.com/gin-gonic/gin"

// RequestIDKey is the gin context key holding the canonical request ID.
const RequestIDKey = "request_id"

// Error codes carried in ErrorResponse.Code.
const (
	CodeInvalidRequest  = "invalid_request"
	CodeValidation      = "validation_error"
	CodeNotFound        = "not_found"
	CodeUnauthorized    = "unauthorized"
	CodeRateLimited     = "rate_limited"
	CodePayloadTooLarge = "payload_too_large"
	CodeInternal        = "internal_error"
)

// ErrorResponse is the body of every error response. The client SDK decodes
// it into client.APIError.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// RespondError aborts the request with status and an ErrorResponse.
func RespondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Code:      code,
		Message:   message,
		RequestID: c.GetString(RequestIDKey),
	})
}
