package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/vaultd/internal/database"
	apperrors "github.com/allisson/vaultd/internal/errors"
	secretsDomain "github.com/allisson/vaultd/internal/secrets/domain"
)

const versionColumns = `id, secret_id, version_number, encrypted_value, encryption_key_id,
	change_description, created_by_user_id, is_destroyed, created_at`

// PostgreSQLSecretVersionRepository implements SecretVersionRepository for PostgreSQL.
type PostgreSQLSecretVersionRepository struct {
	db *sql.DB
}

// NewPostgreSQLSecretVersionRepository creates a new PostgreSQL SecretVersion repository.
func NewPostgreSQLSecretVersionRepository(db *sql.DB) *PostgreSQLSecretVersionRepository {
	return &PostgreSQLSecretVersionRepository{db: db}
}

func (p *PostgreSQLSecretVersionRepository) Create(ctx context.Context, v *secretsDomain.SecretVersion) error {
	querier := database.GetTx(ctx, p.db)
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	query := `INSERT INTO secret_versions
		(id, secret_id, version_number, encrypted_value, encryption_key_id,
		 change_description, created_by_user_id, is_destroyed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := querier.ExecContext(ctx, query,
		v.ID, v.SecretID, v.VersionNumber, v.EncryptedValue, v.EncryptionKeyID,
		v.ChangeDescription, v.CreatedByUserID, v.IsDestroyed, v.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create secret version")
	}
	return nil
}

func (p *PostgreSQLSecretVersionRepository) GetByVersionNumber(
	ctx context.Context,
	secretID string,
	versionNumber int,
) (*secretsDomain.SecretVersion, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + versionColumns + ` FROM secret_versions WHERE secret_id = $1 AND version_number = $2`
	v, err := scanVersion(querier.QueryRowContext(ctx, query, secretID, versionNumber))
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (p *PostgreSQLSecretVersionRepository) ListNonDestroyedDesc(
	ctx context.Context,
	secretID string,
) ([]*secretsDomain.SecretVersion, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + versionColumns + ` FROM secret_versions
		WHERE secret_id = $1 AND is_destroyed = false ORDER BY version_number DESC`
	rows, err := querier.QueryContext(ctx, query, secretID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secret versions")
	}
	defer rows.Close()
	return scanVersions(rows)
}

func (p *PostgreSQLSecretVersionRepository) ListOlderThan(
	ctx context.Context,
	secretID string,
	cutoff time.Time,
) ([]*secretsDomain.SecretVersion, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + versionColumns + ` FROM secret_versions
		WHERE secret_id = $1 AND is_destroyed = false AND created_at < $2 ORDER BY version_number ASC`
	rows, err := querier.QueryContext(ctx, query, secretID, cutoff)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list old secret versions")
	}
	defer rows.Close()
	return scanVersions(rows)
}

func (p *PostgreSQLSecretVersionRepository) Destroy(ctx context.Context, versionID string) error {
	querier := database.GetTx(ctx, p.db)
	query := `UPDATE secret_versions SET is_destroyed = true, encrypted_value = $1 WHERE id = $2`
	_, err := querier.ExecContext(ctx, query, secretsDomain.DestroyedSentinel(), versionID)
	if err != nil {
		return apperrors.Wrap(err, "failed to destroy secret version")
	}
	return nil
}

func scanVersion(row rowScanner) (*secretsDomain.SecretVersion, error) {
	var v secretsDomain.SecretVersion
	err := row.Scan(
		&v.ID, &v.SecretID, &v.VersionNumber, &v.EncryptedValue, &v.EncryptionKeyID,
		&v.ChangeDescription, &v.CreatedByUserID, &v.IsDestroyed, &v.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, secretsDomain.ErrVersionMissing
		}
		return nil, apperrors.Wrap(err, "failed to scan secret version")
	}
	return &v, nil
}

func scanVersions(rows *sql.Rows) ([]*secretsDomain.SecretVersion, error) {
	var out []*secretsDomain.SecretVersion
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate secret versions")
	}
	return out, nil
}

// PostgreSQLSecretMetadataRepository implements SecretMetadataRepository for PostgreSQL.
type PostgreSQLSecretMetadataRepository struct {
	db *sql.DB
}

// NewPostgreSQLSecretMetadataRepository creates a new PostgreSQL SecretMetadata repository.
func NewPostgreSQLSecretMetadataRepository(db *sql.DB) *PostgreSQLSecretMetadataRepository {
	return &PostgreSQLSecretMetadataRepository{db: db}
}

func (p *PostgreSQLSecretMetadataRepository) Replace(
	ctx context.Context,
	secretID string,
	metadata map[string]string,
) error {
	querier := database.GetTx(ctx, p.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM secret_metadata WHERE secret_id = $1`, secretID); err != nil {
		return apperrors.Wrap(err, "failed to clear secret metadata")
	}
	for k, v := range metadata {
		_, err := querier.ExecContext(ctx,
			`INSERT INTO secret_metadata (secret_id, key, value) VALUES ($1, $2, $3)`, secretID, k, v)
		if err != nil {
			return apperrors.Wrap(err, "failed to insert secret metadata")
		}
	}
	return nil
}

func (p *PostgreSQLSecretMetadataRepository) Get(ctx context.Context, secretID string) (map[string]string, error) {
	querier := database.GetTx(ctx, p.db)
	rows, err := querier.QueryContext(ctx, `SELECT key, value FROM secret_metadata WHERE secret_id = $1`, secretID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get secret metadata")
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan secret metadata")
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate secret metadata")
	}
	return out, nil
}
