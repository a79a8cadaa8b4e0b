package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/allisson/vaultd/internal/database"
	apperrors "github.com/allisson/vaultd/internal/errors"
	transitDomain "github.com/allisson/vaultd/internal/transit/domain"
)

// MySQLTransitKeyRepository implements TransitKeyRepository for MySQL.
type MySQLTransitKeyRepository struct {
	db *sql.DB
}

// NewMySQLTransitKeyRepository creates a new MySQL TransitKey repository.
func NewMySQLTransitKeyRepository(db *sql.DB) *MySQLTransitKeyRepository {
	return &MySQLTransitKeyRepository{db: db}
}

func (m *MySQLTransitKeyRepository) Create(ctx context.Context, key *transitDomain.TransitKey) error {
	querier := database.GetTx(ctx, m.db)
	if key.ID == "" {
		key.ID = uuid.NewString()
	}

	query := `INSERT INTO transit_keys
		(id, team_id, name, current_version, min_decryption_version, key_material,
		 algorithm, is_deletable, is_exportable, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := querier.ExecContext(ctx, query,
		key.ID, key.TeamID, key.Name, key.CurrentVersion, key.MinDecryptionVersion, key.KeyMaterial,
		key.Algorithm, key.IsDeletable, key.IsExportable, key.IsActive, key.CreatedAt, key.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return transitDomain.ErrTransitKeyAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create transit key")
	}
	return nil
}

func (m *MySQLTransitKeyRepository) Update(ctx context.Context, key *transitDomain.TransitKey) error {
	querier := database.GetTx(ctx, m.db)
	query := `UPDATE transit_keys SET
		current_version = ?, min_decryption_version = ?, key_material = ?,
		is_active = ?, updated_at = ?
		WHERE id = ? AND team_id = ?`
	res, err := querier.ExecContext(ctx, query,
		key.CurrentVersion, key.MinDecryptionVersion, key.KeyMaterial,
		key.IsActive, key.UpdatedAt, key.ID, key.TeamID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update transit key")
	}
	return requireRowsAffected(res)
}

func (m *MySQLTransitKeyRepository) GetByID(ctx context.Context, teamID, id string) (*transitDomain.TransitKey, error) {
	querier := database.GetTx(ctx, m.db)
	query := `SELECT ` + transitKeyColumns + ` FROM transit_keys WHERE team_id = ? AND id = ?`
	return scanTransitKey(querier.QueryRowContext(ctx, query, teamID, id))
}

func (m *MySQLTransitKeyRepository) GetByIDUnscoped(ctx context.Context, id string) (*transitDomain.TransitKey, error) {
	querier := database.GetTx(ctx, m.db)
	query := `SELECT ` + transitKeyColumns + ` FROM transit_keys WHERE id = ?`
	return scanTransitKey(querier.QueryRowContext(ctx, query, id))
}

func (m *MySQLTransitKeyRepository) GetByName(
	ctx context.Context,
	teamID, name string,
) (*transitDomain.TransitKey, error) {
	querier := database.GetTx(ctx, m.db)
	query := `SELECT ` + transitKeyColumns + ` FROM transit_keys WHERE team_id = ? AND name = ?`
	return scanTransitKey(querier.QueryRowContext(ctx, query, teamID, name))
}

func (m *MySQLTransitKeyRepository) Delete(ctx context.Context, teamID, id string) error {
	querier := database.GetTx(ctx, m.db)
	query := `DELETE FROM transit_keys WHERE id = ? AND team_id = ?`
	res, err := querier.ExecContext(ctx, query, id, teamID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete transit key")
	}
	return requireRowsAffected(res)
}

func (m *MySQLTransitKeyRepository) List(ctx context.Context, teamID string) ([]*transitDomain.TransitKey, error) {
	querier := database.GetTx(ctx, m.db)
	query := `SELECT ` + transitKeyColumns + ` FROM transit_keys WHERE team_id = ? ORDER BY name ASC`
	rows, err := querier.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list transit keys")
	}
	defer rows.Close()
	return scanTransitKeys(rows)
}
