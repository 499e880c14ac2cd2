package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs failed and slow requests. Successful fast requests are
// left to the metrics middleware.
func RequestLogger(logger *slog.Logger, slowThreshold time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		attrs := []any{
			slog.String("request_id", GetRequestID(c)),
			slog.String("method", c.Request.Method),
			slog.String("route", c.FullPath()),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", latency),
		}

		switch {
		case status >= 500:
			logger.Error("http_request_error", attrs...)
		case status >= 400:
			logger.Warn("http_request_warning", attrs...)
		case slowThreshold > 0 && latency > slowThreshold:
			logger.Warn("http_request_slow", attrs...)
		}
	}
}
