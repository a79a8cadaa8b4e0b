package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	auditUsecase "github.com/allisson/vaultd/internal/audit/usecase"
)

// AuditContextMiddleware stashes the request id (set upstream by
// gin-contrib/requestid) and client IP into the request context using the
// audit package's own accessors, so any usecase call made while handling
// this request picks them up automatically when it records an audit entry
// (internal/audit/usecase/context.go).
func AuditContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if rid := c.Writer.Header().Get("X-Request-Id"); rid != "" {
			ctx = auditUsecase.WithCorrelationID(ctx, rid)
		}
		ctx = auditUsecase.WithIPAddress(ctx, c.ClientIP())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// CustomLoggerMiddleware logs each request through slog instead of Gin's
// default writer, matching the teacher's structured-logging convention.
func CustomLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("http request",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}
