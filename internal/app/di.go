// Package app provides the dependency-injection container that assembles
// every component described in SPEC_FULL.md: infrastructure (db, tx
// manager, logger, crypto/seal services), the per-domain repository/usecase
// graphs wrapped in the seal-gate/audit/metrics decorator stack, the
// rotation and lease schedulers, and the ambient HTTP surface.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/allisson/vaultd/internal/config"
	"github.com/allisson/vaultd/internal/crypto"
	"github.com/allisson/vaultd/internal/database"
	vaultdhttp "github.com/allisson/vaultd/internal/http"
	"github.com/allisson/vaultd/internal/metrics"
	"github.com/allisson/vaultd/internal/seal"

	auditUsecase "github.com/allisson/vaultd/internal/audit/usecase"
	leaseUsecase "github.com/allisson/vaultd/internal/lease/usecase"
	policyUsecase "github.com/allisson/vaultd/internal/policy/usecase"
	rotationUsecase "github.com/allisson/vaultd/internal/rotation/usecase"
	secretsUsecase "github.com/allisson/vaultd/internal/secrets/usecase"
	transitUsecase "github.com/allisson/vaultd/internal/transit/usecase"
)

// Container holds every application dependency and lazily builds each one
// on first access (the teacher's `sync.Once`-gated accessor pattern), so
// CLI commands that only need a narrow slice of the graph (e.g.
// generate-master-key needs no database) never pay for the rest.
type Container struct {
	config *config.Config

	logger *slog.Logger
	db     *sql.DB

	txManager database.TxManager

	masterKey *crypto.MasterKey
	cryptoSvc *crypto.Service
	sealSvc   *seal.Service

	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	auditRepo    auditUsecase.AuditRepository
	auditUseCase auditUsecase.AuditUseCase

	secretRepo   secretsUsecase.SecretRepository
	versionRepo  secretsUsecase.SecretVersionRepository
	metadataRepo secretsUsecase.SecretMetadataRepository
	secretUC     secretsUsecase.SecretUseCase

	transitRepo transitUsecase.TransitKeyRepository
	transitUC   transitUsecase.TransitKeyUseCase

	policyRepo  policyUsecase.PolicyRepository
	bindingRepo policyUsecase.PolicyBindingRepository
	policyUC    policyUsecase.PolicyUseCase

	rotationPolicyRepo  rotationUsecase.RotationPolicyRepository
	rotationHistoryRepo rotationUsecase.RotationHistoryRepository
	rotationUC          rotationUsecase.RotationUseCase
	rotationScheduler    *rotationUsecase.Scheduler

	leaseRepo      leaseUsecase.LeaseRepository
	leaseUC        leaseUsecase.LeaseUseCase
	leaseScheduler *leaseUsecase.Scheduler

	httpServer *vaultdhttp.Server

	mu sync.Mutex

	loggerInit          sync.Once
	dbInit              sync.Once
	txManagerInit       sync.Once
	masterKeyInit       sync.Once
	cryptoSvcInit       sync.Once
	sealSvcInit         sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	auditUseCaseInit    sync.Once
	secretRepoInit      sync.Once
	secretUCInit        sync.Once
	transitRepoInit     sync.Once
	transitUCInit       sync.Once
	policyRepoInit      sync.Once
	policyUCInit        sync.Once
	rotationRepoInit    sync.Once
	rotationUCInit      sync.Once
	rotationSchedInit   sync.Once
	leaseRepoInit       sync.Once
	leaseUCInit         sync.Once
	leaseSchedInit      sync.Once
	httpServerInit      sync.Once

	initErrors map[string]error
}

// NewContainer creates an empty container bound to cfg. Nothing is
// initialized until first accessed.
func NewContainer(cfg *config.Config) *Container {
	return &Container{config: cfg, initErrors: make(map[string]error)}
}

// Config returns the loaded configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the structured logger, built from Config.LogLevel.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the process-wide *sql.DB pool.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := database.Connect(database.Config{
			Driver:             c.config.DBDriver,
			ConnectionString:   c.config.DBConnectionString,
			MaxOpenConnections: c.config.DBMaxOpenConnections,
			MaxIdleConnections: c.config.DBMaxIdleConnections,
			ConnMaxLifetime:    c.config.DBConnMaxLifetime,
		})
		if err != nil {
			c.initErrors["db"] = fmt.Errorf("failed to connect to database: %w", err)
			return
		}
		c.db = db
	})
	if err, ok := c.initErrors["db"]; ok {
		return nil, err
	}
	return c.db, nil
}

// TxManager returns the transaction manager wrapping DB.
func (c *Container) TxManager() (database.TxManager, error) {
	c.txManagerInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["txManager"] = err
			return
		}
		c.txManager = database.NewTxManager(db)
	})
	if err, ok := c.initErrors["txManager"]; ok {
		return nil, err
	}
	return c.txManager, nil
}

// MasterKey returns the validated master key loaded from Config.MasterKey.
func (c *Container) MasterKey() (*crypto.MasterKey, error) {
	c.masterKeyInit.Do(func() {
		mk, err := crypto.NewMasterKey(c.config.MasterKey)
		if err != nil {
			c.initErrors["masterKey"] = fmt.Errorf("failed to load master key: %w", err)
			return
		}
		c.masterKey = mk
	})
	if err, ok := c.initErrors["masterKey"]; ok {
		return nil, err
	}
	return c.masterKey, nil
}

// CryptoService returns the envelope-encryption service, running its
// mandatory startup self-test (SPEC_FULL.md §4.1) on first build: a failed
// round-trip is treated as fatal configuration, exactly like the teacher
// eagerly validating its KEK chain before serving.
func (c *Container) CryptoService() (*crypto.Service, error) {
	c.cryptoSvcInit.Do(func() {
		mk, err := c.MasterKey()
		if err != nil {
			c.initErrors["cryptoSvc"] = err
			return
		}
		svc := crypto.NewService(mk)
		if err := svc.SelfTest(); err != nil {
			c.initErrors["cryptoSvc"] = fmt.Errorf("crypto self-test failed: %w", err)
			return
		}
		c.cryptoSvc = svc
	})
	if err, ok := c.initErrors["cryptoSvc"]; ok {
		return nil, err
	}
	return c.cryptoSvc, nil
}

// SealService returns the process-global seal/unseal state machine.
func (c *Container) SealService() *seal.Service {
	c.sealSvcInit.Do(func() {
		c.sealSvc = seal.NewService(
			c.config.MasterKey,
			c.config.SealShares,
			c.config.SealThreshold,
			c.config.SealAutoUnseal,
		)
	})
	return c.sealSvc
}

// MetricsProvider returns the OpenTelemetry/Prometheus provider.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		p, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = fmt.Errorf("failed to create metrics provider: %w", err)
			return
		}
		c.metricsProvider = p
	})
	if err, ok := c.initErrors["metricsProvider"]; ok {
		return nil, err
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the decorator-facing metrics recorder. Falls back
// to a no-op implementation if the provider could not be built, so a
// metrics outage never blocks the data plane.
func (c *Container) BusinessMetrics() metrics.BusinessMetrics {
	c.businessMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.Logger().Warn("metrics provider unavailable, using no-op metrics", slog.Any("error", err))
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}
		bm, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.Logger().Warn("failed to create business metrics, using no-op metrics", slog.Any("error", err))
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}
		c.businessMetrics = bm
	})
	return c.businessMetrics
}

// HTTPServer returns the ambient HTTP server (health/ready/seal-status).
func (c *Container) HTTPServer() (*vaultdhttp.Server, error) {
	c.httpServerInit.Do(func() {
		c.httpServer, c.initErrors["httpServer"] = c.initHTTPServer()
	})
	if err, ok := c.initErrors["httpServer"]; ok && err != nil {
		return nil, err
	}
	return c.httpServer, nil
}

func (c *Container) initHTTPServer() (*vaultdhttp.Server, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	server := vaultdhttp.NewServer(db, c.SealService(), c.config.ServerHost, c.config.ServerPort, c.Logger())

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		c.Logger().Warn("metrics provider unavailable, serving without http metrics", slog.Any("error", err))
		metricsProvider = nil
	}

	server.SetupRouter(c.config, metricsProvider, c.config.MetricsNamespace)
	return server, nil
}

// Shutdown releases every initialized resource. Safe to call even if only
// some components were ever built.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
		}
	}
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database close: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	return nil
}

func (c *Container) initLogger() *slog.Logger {
	var level slog.Level
	switch c.config.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
