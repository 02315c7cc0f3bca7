package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/persistorai/graphboard/internal/httputil"
)

// MaxBodySize rejects requests that declare a Content-Length above maxBytes
// with 413 and caps the readable body of the rest. Handlers that overrun
// the cap see a read error from the JSON binder.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			respondError(c, http.StatusRequestEntityTooLarge, httputil.CodePayloadTooLarge, "request body too large")
			return
		}

		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
