package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/allisson/vaultd/internal/database"
	apperrors "github.com/allisson/vaultd/internal/errors"
	leaseDomain "github.com/allisson/vaultd/internal/lease/domain"
)

// PostgreSQLLeaseRepository implements LeaseRepository for PostgreSQL.
type PostgreSQLLeaseRepository struct {
	db *sql.DB
}

// NewPostgreSQLLeaseRepository creates a new PostgreSQL DynamicLease repository.
func NewPostgreSQLLeaseRepository(db *sql.DB) *PostgreSQLLeaseRepository {
	return &PostgreSQLLeaseRepository{db: db}
}

func (p *PostgreSQLLeaseRepository) Create(ctx context.Context, lease *leaseDomain.DynamicLease) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO dynamic_leases
		(id, secret_id, secret_path, backend_type, encrypted_credentials, status,
		 ttl_seconds, expires_at, revoked_at, revoked_by_user_id, requested_by_user_id,
		 metadata_json, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

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

func (p *PostgreSQLLeaseRepository) Update(ctx context.Context, lease *leaseDomain.DynamicLease) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE dynamic_leases SET
		status = $1, revoked_at = $2, revoked_by_user_id = $3, updated_at = $4
		WHERE id = $5`

	res, err := querier.ExecContext(ctx, query,
		lease.Status, lease.RevokedAt, lease.RevokedByUserID, lease.UpdatedAt, lease.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update dynamic lease")
	}
	return requireRowsAffected(res)
}

func (p *PostgreSQLLeaseRepository) GetByID(ctx context.Context, id string) (*leaseDomain.DynamicLease, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + leaseColumns + ` FROM dynamic_leases WHERE id = $1`
	return scanLease(querier.QueryRowContext(ctx, query, id))
}

func (p *PostgreSQLLeaseRepository) ListExpired(
	ctx context.Context,
	now time.Time,
) ([]*leaseDomain.DynamicLease, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + leaseColumns + ` FROM dynamic_leases
		WHERE status = $1 AND expires_at < $2
		ORDER BY expires_at ASC`
	rows, err := querier.QueryContext(ctx, query, leaseDomain.StatusActive, now)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list expired dynamic leases")
	}
	defer rows.Close()
	return scanLeases(rows)
}

func (p *PostgreSQLLeaseRepository) ListBySecretID(
	ctx context.Context,
	secretID string,
) ([]*leaseDomain.DynamicLease, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + leaseColumns + ` FROM dynamic_leases WHERE secret_id = $1 ORDER BY created_at DESC`
	rows, err := querier.QueryContext(ctx, query, secretID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list dynamic leases by secret")
	}
	defer rows.Close()
	return scanLeases(rows)
}
