package usecase

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	apperrors "github.com/allisson/vaultd/internal/errors"
)

// MySQLBackendDriver provisions dynamic-lease users against a target MySQL
// database, per spec §4.6's contractual statement set.
type MySQLBackendDriver struct {
	connectTimeoutSeconds int
}

// NewMySQLBackendDriver builds a MySQLBackendDriver bounding every
// connection attempt by connectTimeout (LEASE_BACKEND_TIMEOUT).
func NewMySQLBackendDriver(connectTimeoutSeconds int) *MySQLBackendDriver {
	return &MySQLBackendDriver{connectTimeoutSeconds: connectTimeoutSeconds}
}

func (d *MySQLBackendDriver) dsn(conn ConnectionParams) string {
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?timeout=%ds",
		conn.AdminUser, conn.AdminPassword, conn.Host, conn.Port, conn.Database, d.connectTimeoutSeconds,
	)
}

func (d *MySQLBackendDriver) CreateUser(ctx context.Context, conn ConnectionParams, username, password string) error {
	db, err := sql.Open("mysql", d.dsn(conn))
	if err != nil {
		return apperrors.Wrap(err, "failed to open mysql backend connection")
	}
	defer db.Close()

	statements := []string{
		fmt.Sprintf(`CREATE USER '%s'@'%%' IDENTIFIED BY '%s'`, username, password),
		fmt.Sprintf(`GRANT SELECT, INSERT, UPDATE, DELETE ON %s.* TO '%s'@'%%'`, conn.Database, username),
		`FLUSH PRIVILEGES`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return apperrors.Wrap(err, "failed to provision mysql backend user")
		}
	}
	return nil
}

func (d *MySQLBackendDriver) DropUser(ctx context.Context, conn ConnectionParams, username string) error {
	db, err := sql.Open("mysql", d.dsn(conn))
	if err != nil {
		return apperrors.Wrap(err, "failed to open mysql backend connection")
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, fmt.Sprintf(`DROP USER IF EXISTS '%s'@'%%'`, username))
	if err != nil {
		return apperrors.Wrap(err, "failed to drop mysql backend user")
	}
	return nil
}
