package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/allisson/vaultd/internal/database"
	apperrors "github.com/allisson/vaultd/internal/errors"
	policyDomain "github.com/allisson/vaultd/internal/policy/domain"
)

// PostgreSQLPolicyRepository implements PolicyRepository for PostgreSQL.
type PostgreSQLPolicyRepository struct {
	db *sql.DB
}

// NewPostgreSQLPolicyRepository creates a new PostgreSQL AccessPolicy repository.
func NewPostgreSQLPolicyRepository(db *sql.DB) *PostgreSQLPolicyRepository {
	return &PostgreSQLPolicyRepository{db: db}
}

func (p *PostgreSQLPolicyRepository) Create(ctx context.Context, policy *policyDomain.AccessPolicy) error {
	querier := database.GetTx(ctx, p.db)
	if policy.ID == "" {
		policy.ID = uuid.NewString()
	}

	query := `INSERT INTO access_policies
		(id, team_id, name, path_pattern, permissions, is_deny_policy, is_active, created_by_user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := querier.ExecContext(ctx, query,
		policy.ID, policy.TeamID, policy.Name, policy.PathPattern, encodePermissions(policy.Permissions),
		policy.IsDenyPolicy, policy.IsActive, policy.CreatedByUserID, policy.CreatedAt, policy.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return policyDomain.ErrPolicyAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create access policy")
	}
	return nil
}

func (p *PostgreSQLPolicyRepository) Update(ctx context.Context, policy *policyDomain.AccessPolicy) error {
	querier := database.GetTx(ctx, p.db)
	query := `UPDATE access_policies SET
		path_pattern = $1, permissions = $2, is_deny_policy = $3, is_active = $4, updated_at = $5
		WHERE id = $6 AND team_id = $7`
	res, err := querier.ExecContext(ctx, query,
		policy.PathPattern, encodePermissions(policy.Permissions), policy.IsDenyPolicy,
		policy.IsActive, policy.UpdatedAt, policy.ID, policy.TeamID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update access policy")
	}
	return requireRowsAffected(res)
}

func (p *PostgreSQLPolicyRepository) GetByID(ctx context.Context, teamID, id string) (*policyDomain.AccessPolicy, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + policyColumns + ` FROM access_policies WHERE team_id = $1 AND id = $2`
	return scanPolicy(querier.QueryRowContext(ctx, query, teamID, id))
}

func (p *PostgreSQLPolicyRepository) GetByName(ctx context.Context, teamID, name string) (*policyDomain.AccessPolicy, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + policyColumns + ` FROM access_policies WHERE team_id = $1 AND name = $2`
	return scanPolicy(querier.QueryRowContext(ctx, query, teamID, name))
}

func (p *PostgreSQLPolicyRepository) Delete(ctx context.Context, teamID, id string) error {
	querier := database.GetTx(ctx, p.db)
	query := `DELETE FROM access_policies WHERE id = $1 AND team_id = $2`
	res, err := querier.ExecContext(ctx, query, id, teamID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete access policy")
	}
	return requireRowsAffected(res)
}

func (p *PostgreSQLPolicyRepository) List(ctx context.Context, teamID string, activeOnly bool) ([]*policyDomain.AccessPolicy, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + policyColumns + ` FROM access_policies WHERE team_id = $1`
	args := []any{teamID}
	if activeOnly {
		query += ` AND is_active = true`
	}
	query += ` ORDER BY name ASC`

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list access policies")
	}
	defer rows.Close()
	return scanPolicies(rows)
}

func requireRowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read rows affected")
	}
	if n == 0 {
		return policyDomain.ErrPolicyNotFound
	}
	return nil
}
