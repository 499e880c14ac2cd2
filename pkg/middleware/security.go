package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mo-amir99/lms-progress-server-go/pkg/apperrors"
	"github.com/mo-amir99/lms-progress-server-go/pkg/response"
)

// SecurityHeaders sets the response headers for a JSON-only API. HSTS is sent
// only when the server is reachable over TLS. Responses carry per-learner
// progress, so intermediaries must not store them.
func SecurityHeaders(hsts bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cache-Control", "no-store")
		if hsts {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// RequestSizeLimit rejects bodies over maxBytes with the API's error envelope.
// Bodies without a declared length are capped while they are read.
func RequestSizeLimit(maxBytes int64) gin.HandlerFunc {
	tooLarge := apperrors.New(
		fmt.Sprintf("request body exceeds %d bytes", maxBytes),
		http.StatusRequestEntityTooLarge,
		apperrors.ErrPayloadTooLarge,
		nil,
	)

	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.AppError(c, tooLarge)
			c.Abort()
			return
		}

		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
