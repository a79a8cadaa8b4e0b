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

// MySQLSecretVersionRepository implements SecretVersionRepository for MySQL.
type MySQLSecretVersionRepository struct {
	db *sql.DB
}

// NewMySQLSecretVersionRepository creates a new MySQL SecretVersion repository.
func NewMySQLSecretVersionRepository(db *sql.DB) *MySQLSecretVersionRepository {
	return &MySQLSecretVersionRepository{db: db}
}

func (m *MySQLSecretVersionRepository) Create(ctx context.Context, v *secretsDomain.SecretVersion) error {
	querier := database.GetTx(ctx, m.db)
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	query := `INSERT INTO secret_versions
		(id, secret_id, version_number, encrypted_value, encryption_key_id,
		 change_description, created_by_user_id, is_destroyed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := querier.ExecContext(ctx, query,
		v.ID, v.SecretID, v.VersionNumber, v.EncryptedValue, v.EncryptionKeyID,
		v.ChangeDescription, v.CreatedByUserID, v.IsDestroyed, v.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create secret version")
	}
	return nil
}

func (m *MySQLSecretVersionRepository) GetByVersionNumber(
	ctx context.Context,
	secretID string,
	versionNumber int,
) (*secretsDomain.SecretVersion, error) {
	querier := database.GetTx(ctx, m.db)
	query := `SELECT ` + versionColumns + ` FROM secret_versions WHERE secret_id = ? AND version_number = ?`
	return scanVersion(querier.QueryRowContext(ctx, query, secretID, versionNumber))
}

func (m *MySQLSecretVersionRepository) ListNonDestroyedDesc(
	ctx context.Context,
	secretID string,
) ([]*secretsDomain.SecretVersion, error) {
	querier := database.GetTx(ctx, m.db)
	query := `SELECT ` + versionColumns + ` FROM secret_versions
		WHERE secret_id = ? AND is_destroyed = false ORDER BY version_number DESC`
	rows, err := querier.QueryContext(ctx, query, secretID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secret versions")
	}
	defer rows.Close()
	return scanVersions(rows)
}

func (m *MySQLSecretVersionRepository) ListOlderThan(
	ctx context.Context,
	secretID string,
	cutoff time.Time,
) ([]*secretsDomain.SecretVersion, error) {
	querier := database.GetTx(ctx, m.db)
	query := `SELECT ` + versionColumns + ` FROM secret_versions
		WHERE secret_id = ? AND is_destroyed = false AND created_at < ? ORDER BY version_number ASC`
	rows, err := querier.QueryContext(ctx, query, secretID, cutoff)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list old secret versions")
	}
	defer rows.Close()
	return scanVersions(rows)
}

func (m *MySQLSecretVersionRepository) Destroy(ctx context.Context, versionID string) error {
	querier := database.GetTx(ctx, m.db)
	query := `UPDATE secret_versions SET is_destroyed = true, encrypted_value = ? WHERE id = ?`
	_, err := querier.ExecContext(ctx, query, secretsDomain.DestroyedSentinel(), versionID)
	if err != nil {
		return apperrors.Wrap(err, "failed to destroy secret version")
	}
	return nil
}

// MySQLSecretMetadataRepository implements SecretMetadataRepository for MySQL.
type MySQLSecretMetadataRepository struct {
	db *sql.DB
}

// NewMySQLSecretMetadataRepository creates a new MySQL SecretMetadata repository.
func NewMySQLSecretMetadataRepository(db *sql.DB) *MySQLSecretMetadataRepository {
	return &MySQLSecretMetadataRepository{db: db}
}

func (m *MySQLSecretMetadataRepository) Replace(
	ctx context.Context,
	secretID string,
	metadata map[string]string,
) error {
	querier := database.GetTx(ctx, m.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM secret_metadata WHERE secret_id = ?`, secretID); err != nil {
		return apperrors.Wrap(err, "failed to clear secret metadata")
	}
	insertQuery := "INSERT INTO secret_metadata (secret_id, `key`, value) VALUES (?, ?, ?)"
	for k, v := range metadata {
		_, err := querier.ExecContext(ctx, insertQuery, secretID, k, v)
		if err != nil {
			return apperrors.Wrap(err, "failed to insert secret metadata")
		}
	}
	return nil
}

func (m *MySQLSecretMetadataRepository) Get(ctx context.Context, secretID string) (map[string]string, error) {
	querier := database.GetTx(ctx, m.db)
	selectQuery := "SELECT `key`, value FROM secret_metadata WHERE secret_id = ?"
	rows, err := querier.QueryContext(ctx, selectQuery, secretID)
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
