package repository

import (
	"database/sql"

	apperrors "github.com/allisson/vaultd/internal/errors"
	secretsDomain "github.com/allisson/vaultd/internal/secrets/domain"
)

const secretColumns = `id, team_id, path, name, description, type, current_version, max_versions,
	retention_days, expires_at, last_accessed_at, last_rotated_at, owner_user_id,
	reference_arn, is_active, created_at, updated_at`

const secretSelectByIDQuery = `SELECT ` + secretColumns + ` FROM secrets WHERE team_id = $1 AND id = $2`
const secretSelectByPathQuery = `SELECT ` + secretColumns + ` FROM secrets WHERE team_id = $1 AND path = $2`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSecret(row rowScanner) (*secretsDomain.Secret, error) {
	var s secretsDomain.Secret
	err := row.Scan(
		&s.ID, &s.TeamID, &s.Path, &s.Name, &s.Description, &s.Type, &s.CurrentVersion,
		&s.MaxVersions, &s.RetentionDays, &s.ExpiresAt, &s.LastAccessedAt, &s.LastRotatedAt,
		&s.OwnerUserID, &s.ReferenceArn, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, secretsDomain.ErrSecretNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan secret")
	}
	return &s, nil
}

func scanSecrets(rows *sql.Rows) ([]*secretsDomain.Secret, error) {
	var out []*secretsDomain.Secret
	for rows.Next() {
		s, err := scanSecret(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate secrets")
	}
	return out, nil
}

func scanPaths(rows *sql.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan secret path")
		}
		out = append(out, path)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate secret paths")
	}
	return out, nil
}
