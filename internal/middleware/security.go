package middleware

import "github.com/gin-gonic/gin"

// hstsValue is only sent on TLS connections; the server usually listens on
// plain localhost HTTP.
const hstsValue = "max-age=63072000; includeSubDomains"

// SecurityHeaders sets the response headers shared by every API route. The
// board API serves JSON and images only, so nothing may be framed or
// embedded cross-origin.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Cross-Origin-Resource-Policy", "same-site")
		h.Set("Cache-Control", "no-store")

		if c.Request.TLS != nil {
			h.Set("Strict-Transport-Security", hstsValue)
		}

		c.Next()
	}
}
