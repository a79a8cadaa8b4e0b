package usecase

import "context"

// BackendDriver provisions and tears down a short-lived database user on a
// target backend. One implementation per supported BackendType
// (postgresql, mysql); CreateUser/DropUser open their own connection to the
// target database using the admin credentials carried on the source
// Secret's metadata — never the vault's own *sql.DB.
type BackendDriver interface {
	// CreateUser connects to the target database with adminUser/adminPassword
	// and provisions username/password per the backend's contractual
	// statements (spec §4.6).
	CreateUser(ctx context.Context, conn ConnectionParams, username, password string) error
	// DropUser connects and drops the previously provisioned username.
	// Best-effort: callers log failures and continue rather than propagate.
	DropUser(ctx context.Context, conn ConnectionParams, username string) error
}

// ConnectionParams carries the target database's address and admin
// credentials, sourced from a DYNAMIC secret's metadata map.
type ConnectionParams struct {
	Host          string
	Port          string
	Database      string
	AdminUser     string
	AdminPassword string
}
