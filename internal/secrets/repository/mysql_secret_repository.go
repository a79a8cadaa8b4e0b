package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/vaultd/internal/database"
	apperrors "github.com/allisson/vaultd/internal/errors"
	secretsDomain "github.com/allisson/vaultd/internal/secrets/domain"
)

// MySQLSecretRepository implements SecretRepository for MySQL.
type MySQLSecretRepository struct {
	db *sql.DB
}

// NewMySQLSecretRepository creates a new MySQL Secret repository.
func NewMySQLSecretRepository(db *sql.DB) *MySQLSecretRepository {
	return &MySQLSecretRepository{db: db}
}

func (m *MySQLSecretRepository) Create(ctx context.Context, secret *secretsDomain.Secret) error {
	querier := database.GetTx(ctx, m.db)
	if secret.ID == "" {
		secret.ID = uuid.NewString()
	}
	query := `INSERT INTO secrets
		(id, team_id, path, name, description, type, current_version, max_versions,
		 retention_days, expires_at, owner_user_id, reference_arn, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
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

func (m *MySQLSecretRepository) Update(ctx context.Context, secret *secretsDomain.Secret) error {
	querier := database.GetTx(ctx, m.db)
	query := `UPDATE secrets SET
		name = ?, description = ?, current_version = ?, max_versions = ?,
		retention_days = ?, expires_at = ?, last_accessed_at = ?, last_rotated_at = ?,
		is_active = ?, updated_at = ?
		WHERE id = ? AND team_id = ?`
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

func (m *MySQLSecretRepository) GetByID(ctx context.Context, teamID, id string) (*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, m.db)
	query := `SELECT ` + secretColumns + ` FROM secrets WHERE team_id = ? AND id = ?`
	return scanSecret(querier.QueryRowContext(ctx, query, teamID, id))
}

func (m *MySQLSecretRepository) GetByIDUnscoped(ctx context.Context, id string) (*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, m.db)
	query := `SELECT ` + secretColumns + ` FROM secrets WHERE id = ?`
	return scanSecret(querier.QueryRowContext(ctx, query, id))
}

func (m *MySQLSecretRepository) GetByPath(ctx context.Context, teamID, path string) (*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, m.db)
	query := `SELECT ` + secretColumns + ` FROM secrets WHERE team_id = ? AND path = ?`
	return scanSecret(querier.QueryRowContext(ctx, query, teamID, path))
}

func (m *MySQLSecretRepository) SoftDelete(ctx context.Context, teamID, id string) error {
	querier := database.GetTx(ctx, m.db)
	query := `UPDATE secrets SET is_active = false, updated_at = ? WHERE id = ? AND team_id = ?`
	res, err := querier.ExecContext(ctx, query, time.Now().UTC(), id, teamID)
	if err != nil {
		return apperrors.Wrap(err, "failed to soft delete secret")
	}
	return requireRowsAffected(res)
}

func (m *MySQLSecretRepository) HardDelete(ctx context.Context, teamID, id string) error {
	querier := database.GetTx(ctx, m.db)
	query := `DELETE FROM secrets WHERE id = ? AND team_id = ?`
	res, err := querier.ExecContext(ctx, query, id, teamID)
	if err != nil {
		return apperrors.Wrap(err, "failed to hard delete secret")
	}
	return requireRowsAffected(res)
}

func (m *MySQLSecretRepository) List(
	ctx context.Context,
	teamID string,
	filter secretsDomain.ListFilter,
) ([]*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, m.db)

	query := "SELECT " + secretColumns + " FROM secrets WHERE team_id = ?"
	args := []any{teamID}

	switch {
	case filter.SecretType != "":
		query += " AND type = ?"
		args = append(args, filter.SecretType)
	case filter.PathPrefix != "":
		query += " AND path LIKE ?"
		args = append(args, filter.PathPrefix+"%")
	case filter.ActiveOnly:
		query += " AND is_active = true"
	}

	if filter.NameSearch != "" {
		query += " AND LOWER(name) LIKE ?"
		args = append(args, "%"+strings.ToLower(filter.NameSearch)+"%")
	}
	query += " ORDER BY path ASC"

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secrets")
	}
	defer rows.Close()
	return scanSecrets(rows)
}

func (m *MySQLSecretRepository) ListPaths(ctx context.Context, teamID, pathPrefix string) ([]string, error) {
	querier := database.GetTx(ctx, m.db)
	query := `SELECT DISTINCT path FROM secrets
		WHERE team_id = ? AND is_active = true AND path LIKE ? ORDER BY path ASC`
	rows, err := querier.QueryContext(ctx, query, teamID, pathPrefix+"%")
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secret paths")
	}
	defer rows.Close()
	return scanPaths(rows)
}

func (m *MySQLSecretRepository) ListExpiring(
	ctx context.Context,
	teamID string,
	withinHours int,
) ([]*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, m.db)
	query := `SELECT ` + secretColumns + ` FROM secrets
		WHERE team_id = ? AND is_active = true AND expires_at >= ? AND expires_at < ?
		ORDER BY expires_at ASC`
	now := time.Now().UTC()
	rows, err := querier.QueryContext(ctx, query, teamID, now, now.Add(time.Duration(withinHours)*time.Hour))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list expiring secrets")
	}
	defer rows.Close()
	return scanSecrets(rows)
}
