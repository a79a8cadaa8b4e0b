package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/urfave/cli/v3"

	"github.com/allisson/vaultd/internal/app"
	"github.com/allisson/vaultd/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server and background schedulers",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return runServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return runMigrations()
			},
		},
	}
}

func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

func closeMigrate(m *migrate.Migrate, logger *slog.Logger) {
	sourceErr, dbErr := m.Close()
	if sourceErr != nil || dbErr != nil {
		logger.Error("failed to close the migrate instance",
			slog.Any("source_error", sourceErr),
			slog.Any("database_error", dbErr),
		)
	}
}

// runServer starts the HTTP surface and the rotation/lease schedulers,
// exactly mirroring the teacher's signal.NotifyContext graceful-shutdown
// shape, extended with the two background tickers this service adds.
func runServer(ctx context.Context, version string) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting vaultd", slog.String("version", version))
	defer closeContainer(container, logger)

	if _, err := container.CryptoService(); err != nil {
		return fmt.Errorf("crypto self-test failed: %w", err)
	}

	server, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	rotationScheduler, err := container.RotationScheduler()
	if err != nil {
		return fmt.Errorf("failed to initialize rotation scheduler: %w", err)
	}

	leaseScheduler, err := container.LeaseScheduler()
	if err != nil {
		return fmt.Errorf("failed to initialize lease scheduler: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 3)
	go func() {
		if err := server.Start(ctx); err != nil {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		if err := rotationScheduler.Start(ctx); err != nil {
			errCh <- fmt.Errorf("rotation scheduler: %w", err)
		}
	}()
	go func() {
		if err := leaseScheduler.Start(ctx); err != nil {
			errCh <- fmt.Errorf("lease scheduler: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.DBConnMaxLifetime)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
	case err := <-errCh:
		return err
	}

	return nil
}

func runMigrations() error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	logger.Info("running database migrations", slog.String("driver", cfg.DBDriver))

	migrationsPath := "file://migrations/postgresql"
	if cfg.DBDriver == "mysql" {
		migrationsPath = "file://migrations/mysql"
	}

	m, err := migrate.New(migrationsPath, cfg.DBConnectionString)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}
