// Package repository implements data persistence for the secret domain:
// PostgreSQL and MySQL implementations of SecretRepository,
// SecretVersionRepository, and SecretMetadataRepository.
package repository

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/vaultd/internal/database"
	apperrors "github.com/allisson/vaultd/internal/errors"
	secretsDomain "github.com/allisson/vaultd/internal/secrets/domain"
)

// PostgreSQLSecretRepository implements SecretRepository for PostgreSQL.
type PostgreSQLSecretRepository struct {
	db *sql.DB
}

// NewPostgreSQLSecretRepository creates a new PostgreSQL Secret repository.
func NewPostgreSQLSecretRepository(db *sql.DB) *PostgreSQLSecretRepository {
	return &PostgreSQLSecretRepository{db: db}
}

func (p *PostgreSQLSecretRepository) Create(ctx context.Context, secret *secretsDomain.Secret) error {
	querier := database.GetTx(ctx, p.db)

	if secret.ID == "" {
		secret.ID = uuid.NewString()
	}

	query := `INSERT INTO secrets
		(id, team_id, path, name, description, type, current_version, max_versions,
		 retention_days, expires_at, owner_user_id, reference_arn, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := querier.ExecContext(ctx, query,
		secret.ID, secret.TeamID, secret.Path, secret.Name, secret.Description, secret.Type,
		secret.CurrentVersion, secret.MaxVersions, secret.RetentionDays, secret.ExpiresAt,
		secret.OwnerUserID, secret.ReferenceArn, secret.IsActive, secret.CreatedAt, secret.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return secretsDomain.ErrSecretAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create secret")
	}
	return nil
}

func (p *PostgreSQLSecretRepository) Update(ctx context.Context, secret *secretsDomain.Secret) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE secrets SET
		name = $1, description = $2, current_version = $3, max_versions = $4,
		retention_days = $5, expires_at = $6, last_accessed_at = $7, last_rotated_at = $8,
		is_active = $9, updated_at = $10
		WHERE id = $11 AND team_id = $12`

	res, err := querier.ExecContext(ctx, query,
		secret.Name, secret.Description, secret.CurrentVersion, secret.MaxVersions,
		secret.RetentionDays, secret.ExpiresAt, secret.LastAccessedAt, secret.LastRotatedAt,
		secret.IsActive, secret.UpdatedAt, secret.ID, secret.TeamID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update secret")
	}
	return requireRowsAffected(res)
}

func (p *PostgreSQLSecretRepository) GetByID(ctx context.Context, teamID, id string) (*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, p.db)
	return scanSecret(querier.QueryRowContext(ctx, secretSelectByIDQuery, teamID, id))
}

func (p *PostgreSQLSecretRepository) GetByIDUnscoped(ctx context.Context, id string) (*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + secretColumns + ` FROM secrets WHERE id = $1`
	return scanSecret(querier.QueryRowContext(ctx, query, id))
}

func (p *PostgreSQLSecretRepository) GetByPath(
	ctx context.Context,
	teamID, path string,
) (*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, p.db)
	return scanSecret(querier.QueryRowContext(ctx, secretSelectByPathQuery, teamID, path))
}

func (p *PostgreSQLSecretRepository) SoftDelete(ctx context.Context, teamID, id string) error {
	querier := database.GetTx(ctx, p.db)
	query := `UPDATE secrets SET is_active = false, updated_at = $1 WHERE id = $2 AND team_id = $3`
	res, err := querier.ExecContext(ctx, query, time.Now().UTC(), id, teamID)
	if err != nil {
		return apperrors.Wrap(err, "failed to soft delete secret")
	}
	return requireRowsAffected(res)
}

func (p *PostgreSQLSecretRepository) HardDelete(ctx context.Context, teamID, id string) error {
	querier := database.GetTx(ctx, p.db)
	query := `DELETE FROM secrets WHERE id = $1 AND team_id = $2`
	res, err := querier.ExecContext(ctx, query, id, teamID)
	if err != nil {
		return apperrors.Wrap(err, "failed to hard delete secret")
	}
	return requireRowsAffected(res)
}

func (p *PostgreSQLSecretRepository) List(
	ctx context.Context,
	teamID string,
	filter secretsDomain.ListFilter,
) ([]*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, p.db)

	query := "SELECT " + secretColumns + " FROM secrets WHERE team_id = $1"
	args := []any{teamID}

	switch {
	case filter.SecretType != "":
		query += " AND type = $2"
		args = append(args, filter.SecretType)
	case filter.PathPrefix != "":
		query += " AND path LIKE $2"
		args = append(args, filter.PathPrefix+"%")
	case filter.ActiveOnly:
		query += " AND is_active = true"
	}

	if filter.NameSearch != "" {
		query += " AND name ILIKE " + placeholder(len(args)+1)
		args = append(args, "%"+filter.NameSearch+"%")
	}
	query += " ORDER BY path ASC"

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secrets")
	}
	defer rows.Close()
	return scanSecrets(rows)
}

func (p *PostgreSQLSecretRepository) ListPaths(ctx context.Context, teamID, pathPrefix string) ([]string, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT DISTINCT path FROM secrets
		WHERE team_id = $1 AND is_active = true AND path LIKE $2 ORDER BY path ASC`
	rows, err := querier.QueryContext(ctx, query, teamID, pathPrefix+"%")
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secret paths")
	}
	defer rows.Close()
	return scanPaths(rows)
}

func (p *PostgreSQLSecretRepository) ListExpiring(
	ctx context.Context,
	teamID string,
	withinHours int,
) ([]*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + secretColumns + ` FROM secrets
		WHERE team_id = $1 AND is_active = true
		AND expires_at >= $2 AND expires_at < $3
		ORDER BY expires_at ASC`
	now := time.Now().UTC()
	rows, err := querier.QueryContext(ctx, query, teamID, now, now.Add(time.Duration(withinHours)*time.Hour))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list expiring secrets")
	}
	defer rows.Close()
	return scanSecrets(rows)
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique")
}

func requireRowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read rows affected")
	}
	if n == 0 {
		return secretsDomain.ErrSecretNotFound
	}
	return nil
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}
