package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/allisson/vaultd/internal/database"
	apperrors "github.com/allisson/vaultd/internal/errors"
	leaseDomain "github.com/allisson/vaultd/internal/lease/domain"
)

// MySQLLeaseRepository implements LeaseRepository for MySQL.
type MySQLLeaseRepository struct {
	db *sql.DB
}

// NewMySQLLeaseRepository creates a new MySQL DynamicLease repository.
func NewMySQLLeaseRepository(db *sql.DB) *MySQLLeaseRepository {
	return &MySQLLeaseRepository{db: db}
}

func (m *MySQLLeaseRepository) Create(ctx context.Context, lease *leaseDomain.DynamicLease) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO dynamic_leases
		(id, secret_id, secret_path, backend_type, encrypted_credentials, status,
		 ttl_seconds, expires_at, revoked_at, revoked_by_user_id, requested_by_user_id,
		 metadata_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(ctx, query,
		lease.ID, lease.SecretID, lease.SecretPath, lease.BackendType, lease.EncryptedCredentials,
		lease.Status, lease.TTLSeconds, lease.ExpiresAt, lease.RevokedAt, lease.RevokedByUserID,
		lease.RequestedByUserID, lease.MetadataJSON, lease.CreatedAt, lease.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "lease id already exists")
		}
		return apperrors.Wrap(err, "failed to create dynamic lease")
	}
	return nil
}

func (m *MySQLLeaseRepository) Update(ctx context.Context, lease *leaseDomain.DynamicLease) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE dynamic_leases SET
		status = ?, revoked_at = ?, revoked_by_user_id = ?, updated_at = ?
		WHERE id = ?`

	res, err := querier.ExecContext(ctx, query,
		lease.Status, lease.RevokedAt, lease.RevokedByUserID, lease.UpdatedAt, lease.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update dynamic lease")
	}
	return requireRowsAffected(res)
}

func (m *MySQLLeaseRepository) GetByID(ctx context.Context, id string) (*leaseDomain.DynamicLease, error) {
	querier := database.GetTx(ctx, m.db)
	query := `SELECT ` + leaseColumns + ` FROM dynamic_leases WHERE id = ?`
	return scanLease(querier.QueryRowContext(ctx, query, id))
}

func (m *MySQLLeaseRepository) ListExpired(
	ctx context.Context,
	now time.Time,
) ([]*leaseDomain.DynamicLease, error) {
	querier := database.GetTx(ctx, m.db)
	query := `SELECT ` + leaseColumns + ` FROM dynamic_leases
		WHERE status = ? AND expires_at < ?
		ORDER BY expires_at ASC`
	rows, err := querier.QueryContext(ctx, query, leaseDomain.StatusActive, now)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list expired dynamic leases")
	}
	defer rows.Close()
	return scanLeases(rows)
}

func (m *MySQLLeaseRepository) ListBySecretID(
	ctx context.Context,
	secretID string,
) ([]*leaseDomain.DynamicLease, error) {
	querier := database.GetTx(ctx, m.db)
	query := `SELECT ` + leaseColumns + ` FROM dynamic_leases WHERE secret_id = ? ORDER BY created_at DESC`
	rows, err := querier.QueryContext(ctx, query, secretID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list dynamic leases by secret")
	}
	defer rows.Close()
	return scanLeases(rows)
}
