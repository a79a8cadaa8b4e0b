// Package repository implements data persistence for the transit domain:
// PostgreSQL and MySQL implementations of TransitKeyRepository.
package repository

import (
	"database/sql"
	"strings"

	apperrors "github.com/allisson/vaultd/internal/errors"
	transitDomain "github.com/allisson/vaultd/internal/transit/domain"
)

const transitKeyColumns = `id, team_id, name, current_version, min_decryption_version, key_material,
	algorithm, is_deletable, is_exportable, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransitKey(row rowScanner) (*transitDomain.TransitKey, error) {
	var k transitDomain.TransitKey
	err := row.Scan(
		&k.ID, &k.TeamID, &k.Name, &k.CurrentVersion, &k.MinDecryptionVersion, &k.KeyMaterial,
		&k.Algorithm, &k.IsDeletable, &k.IsExportable, &k.IsActive, &k.CreatedAt, &k.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, transitDomain.ErrTransitKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan transit key")
	}
	return &k, nil
}

func scanTransitKeys(rows *sql.Rows) ([]*transitDomain.TransitKey, error) {
	var out []*transitDomain.TransitKey
	for rows.Next() {
		k, err := scanTransitKey(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate transit keys")
	}
	return out, nil
}

func requireRowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read rows affected")
	}
	if n == 0 {
		return transitDomain.ErrTransitKeyNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique")
}
