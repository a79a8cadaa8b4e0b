// Package http provides the thin ambient HTTP surface: process health,
// readiness, and a read-only seal-status probe. The full request/response
// business routing for secrets/transit/policy/lease is explicitly out of
// scope (spec.md §1 — "HTTP surface ... treated as external collaborators");
// what lives here is only the ops-facing surface plus the request-scoped
// context wiring (request id, client IP) that feeds the audit trail whenever
// a caller-facing layer built on top of this core invokes a usecase.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/vaultd/internal/config"
	"github.com/allisson/vaultd/internal/metrics"
	"github.com/allisson/vaultd/internal/seal"
)

// Server is the ambient HTTP process surface.
type Server struct {
	db     *sql.DB
	seal   *seal.Service
	server *http.Server
	logger *slog.Logger
	router *gin.Engine
}

// NewServer builds a Server bound to host:port.
func NewServer(db *sql.DB, sealSvc *seal.Service, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		seal:   sealSvc,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter wires middleware and the ops-facing routes.
func (s *Server) SetupRouter(cfg *config.Config, metricsProvider *metrics.Provider, metricsNamespace string) {
	router := gin.New()
	router.Use(gin.Recovery())

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))
	router.Use(AuditContextMiddleware())

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), metricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)
	router.GET("/v1/seal/status", s.sealStatusHandler)

	s.router = router
}

// GetHandler exposes the underlying http.Handler, for tests.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start runs the server until it errors or is closed by Shutdown.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not initialized - call SetupRouter first")
	}
	s.server.Handler = s.router
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "ok"
	statusCode := http.StatusOK
	if s.db == nil {
		dbStatus = "error"
		statusCode = http.StatusServiceUnavailable
	} else if err := s.db.PingContext(ctx); err != nil {
		s.logger.Error("readiness check failed", slog.Any("error", err))
		dbStatus = "error"
		statusCode = http.StatusServiceUnavailable
	}

	body := gin.H{"components": gin.H{"database": dbStatus}}
	if statusCode == http.StatusOK {
		body["status"] = "ready"
	} else {
		body["status"] = "not_ready"
	}
	c.JSON(statusCode, body)
}

// sealStatusHandler reports the seal/unseal state machine's status. It is a
// read, not a data-plane operation, so it deliberately bypasses
// seal.Service.RequireUnsealed: operators need to query seal state precisely
// when the vault is sealed.
func (s *Server) sealStatusHandler(c *gin.Context) {
	status := s.seal.Status()
	c.JSON(http.StatusOK, gin.H{
		"state":           status.State,
		"collected_count": status.CollectedCount,
		"threshold":       status.Threshold,
		"total":           status.Total,
		"unsealed_at":     status.UnsealedAt,
	})
}
