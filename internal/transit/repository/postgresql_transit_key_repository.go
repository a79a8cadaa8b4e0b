package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/allisson/vaultd/internal/database"
	apperrors "github.com/allisson/vaultd/internal/errors"
	transitDomain "github.com/allisson/vaultd/internal/transit/domain"
)

// PostgreSQLTransitKeyRepository implements TransitKeyRepository for PostgreSQL.
type PostgreSQLTransitKeyRepository struct {
	db *sql.DB
}

// NewPostgreSQLTransitKeyRepository creates a new PostgreSQL TransitKey repository.
func NewPostgreSQLTransitKeyRepository(db *sql.DB) *PostgreSQLTransitKeyRepository {
	return &PostgreSQLTransitKeyRepository{db: db}
}

func (p *PostgreSQLTransitKeyRepository) Create(ctx context.Context, key *transitDomain.TransitKey) error {
	querier := database.GetTx(ctx, p.db)
	if key.ID == "" {
		key.ID = uuid.NewString()
	}

	query := `INSERT INTO transit_keys
		(id, team_id, name, current_version, min_decryption_version, key_material,
		 algorithm, is_deletable, is_exportable, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
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

func (p *PostgreSQLTransitKeyRepository) Update(ctx context.Context, key *transitDomain.TransitKey) error {
	querier := database.GetTx(ctx, p.db)
	query := `UPDATE transit_keys SET
		current_version = $1, min_decryption_version = $2, key_material = $3,
		is_active = $4, updated_at = $5
		WHERE id = $6 AND team_id = $7`
	res, err := querier.ExecContext(ctx, query,
		key.CurrentVersion, key.MinDecryptionVersion, key.KeyMaterial,
		key.IsActive, key.UpdatedAt, key.ID, key.TeamID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update transit key")
	}
	return requireRowsAffected(res)
}

func (p *PostgreSQLTransitKeyRepository) GetByID(ctx context.Context, teamID, id string) (*transitDomain.TransitKey, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + transitKeyColumns + ` FROM transit_keys WHERE team_id = $1 AND id = $2`
	return scanTransitKey(querier.QueryRowContext(ctx, query, teamID, id))
}

func (p *PostgreSQLTransitKeyRepository) GetByIDUnscoped(ctx context.Context, id string) (*transitDomain.TransitKey, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + transitKeyColumns + ` FROM transit_keys WHERE id = $1`
	return scanTransitKey(querier.QueryRowContext(ctx, query, id))
}

func (p *PostgreSQLTransitKeyRepository) GetByName(
	ctx context.Context,
	teamID, name string,
) (*transitDomain.TransitKey, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + transitKeyColumns + ` FROM transit_keys WHERE team_id = $1 AND name = $2`
	return scanTransitKey(querier.QueryRowContext(ctx, query, teamID, name))
}

func (p *PostgreSQLTransitKeyRepository) Delete(ctx context.Context, teamID, id string) error {
	querier := database.GetTx(ctx, p.db)
	query := `DELETE FROM transit_keys WHERE id = $1 AND team_id = $2`
	res, err := querier.ExecContext(ctx, query, id, teamID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete transit key")
	}
	return requireRowsAffected(res)
}

func (p *PostgreSQLTransitKeyRepository) List(ctx context.Context, teamID string) ([]*transitDomain.TransitKey, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + transitKeyColumns + ` FROM transit_keys WHERE team_id = $1 ORDER BY name ASC`
	rows, err := querier.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list transit keys")
	}
	defer rows.Close()
	return scanTransitKeys(rows)
}
