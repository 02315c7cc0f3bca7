package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphboard/internal/httputil"
	"github.com/persistorai/graphboard/internal/metrics"
)

// Error codes used by the board handlers.
const (
	ErrCodeInvalidRequest  = httputil.CodeInvalidRequest
	ErrCodeNotFound        = httputil.CodeNotFound
	ErrCodeInternalError   = httputil.CodeInternal
	ErrCodeValidationError = httputil.CodeValidation
)

// respondError counts the error and writes the shared error envelope.
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// respondInternal logs err under msg and answers with an opaque 500. Store
// details never reach the client.
func respondInternal(c *gin.Context, log *logrus.Logger, msg string, err error) {
	log.WithError(err).WithField("request_id", c.GetString(httputil.RequestIDKey)).Error(msg)
	respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
}
