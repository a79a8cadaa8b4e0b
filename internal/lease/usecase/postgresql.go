package usecase

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	apperrors "github.com/allisson/vaultd/internal/errors"
)

// PostgreSQLBackendDriver provisions dynamic-lease users against a target
// PostgreSQL database, per spec §4.6's contractual statement set.
type PostgreSQLBackendDriver struct {
	connectTimeoutSeconds int
}

// NewPostgreSQLBackendDriver builds a PostgreSQLBackendDriver bounding every
// connection attempt by connectTimeout (LEASE_BACKEND_TIMEOUT).
func NewPostgreSQLBackendDriver(connectTimeoutSeconds int) *PostgreSQLBackendDriver {
	return &PostgreSQLBackendDriver{connectTimeoutSeconds: connectTimeoutSeconds}
}

func (d *PostgreSQLBackendDriver) dsn(conn ConnectionParams) string {
	return fmt.Sprintf(
		"host=%s port=%s dbname=%s user=%s password=%s sslmode=disable connect_timeout=%d",
		conn.Host, conn.Port, conn.Database, conn.AdminUser, conn.AdminPassword, d.connectTimeoutSeconds,
	)
}

func (d *PostgreSQLBackendDriver) CreateUser(ctx context.Context, conn ConnectionParams, username, password string) error {
	db, err := sql.Open("postgres", d.dsn(conn))
	if err != nil {
		return apperrors.Wrap(err, "failed to open postgresql backend connection")
	}
	defer db.Close()

	statements := []string{
		fmt.Sprintf(`CREATE ROLE "%s" WITH LOGIN PASSWORD '%s'`, username, password),
		fmt.Sprintf(`GRANT CONNECT ON DATABASE "%s" TO "%s"`, conn.Database, username),
		fmt.Sprintf(`GRANT USAGE ON SCHEMA public TO "%s"`, username),
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return apperrors.Wrap(err, "failed to provision postgresql backend user")
		}
	}
	return nil
}

func (d *PostgreSQLBackendDriver) DropUser(ctx context.Context, conn ConnectionParams, username string) error {
	db, err := sql.Open("postgres", d.dsn(conn))
	if err != nil {
		return apperrors.Wrap(err, "failed to open postgresql backend connection")
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, fmt.Sprintf(`DROP ROLE IF EXISTS "%s"`, username))
	if err != nil {
		return apperrors.Wrap(err, "failed to drop postgresql backend user")
	}
	return nil
}
