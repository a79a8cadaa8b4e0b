package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/allisson/vaultd/internal/database"
	apperrors "github.com/allisson/vaultd/internal/errors"
	policyDomain "github.com/allisson/vaultd/internal/policy/domain"
)

// MySQLPolicyRepository implements PolicyRepository for MySQL.
type MySQLPolicyRepository struct {
	db *sql.DB
}

// NewMySQLPolicyRepository creates a new MySQL AccessPolicy repository.
func NewMySQLPolicyRepository(db *sql.DB) *MySQLPolicyRepository {
	return &MySQLPolicyRepository{db: db}
}

func (m *MySQLPolicyRepository) Create(ctx context.Context, policy *policyDomain.AccessPolicy) error {
	querier := database.GetTx(ctx, m.db)
	if policy.ID == "" {
		policy.ID = uuid.NewString()
	}
	query := `INSERT INTO access_policies
		(id, team_id, name, path_pattern, permissions, is_deny_policy, is_active, created_by_user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
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

func (m *MySQLPolicyRepository) Update(ctx context.Context, policy *policyDomain.AccessPolicy) error {
	querier := database.GetTx(ctx, m.db)
	query := `UPDATE access_policies SET
		path_pattern = ?, permissions = ?, is_deny_policy = ?, is_active = ?, updated_at = ?
		WHERE id = ? AND team_id = ?`
	res, err := querier.ExecContext(ctx, query,
		policy.PathPattern, encodePermissions(policy.Permissions), policy.IsDenyPolicy,
		policy.IsActive, policy.UpdatedAt, policy.ID, policy.TeamID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update access policy")
	}
	return requireRowsAffected(res)
}

func (m *MySQLPolicyRepository) GetByID(ctx context.Context, teamID, id string) (*policyDomain.AccessPolicy, error) {
	querier := database.GetTx(ctx, m.db)
	query := `SELECT ` + policyColumns + ` FROM access_policies WHERE team_id = ? AND id = ?`
	return scanPolicy(querier.QueryRowContext(ctx, query, teamID, id))
}

func (m *MySQLPolicyRepository) GetByName(ctx context.Context, teamID, name string) (*policyDomain.AccessPolicy, error) {
	querier := database.GetTx(ctx, m.db)
	query := `SELECT ` + policyColumns + ` FROM access_policies WHERE team_id = ? AND name = ?`
	return scanPolicy(querier.QueryRowContext(ctx, query, teamID, name))
}

func (m *MySQLPolicyRepository) Delete(ctx context.Context, teamID, id string) error {
	querier := database.GetTx(ctx, m.db)
	query := `DELETE FROM access_policies WHERE id = ? AND team_id = ?`
	res, err := querier.ExecContext(ctx, query, id, teamID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete access policy")
	}
	return requireRowsAffected(res)
}

func (m *MySQLPolicyRepository) List(ctx context.Context, teamID string, activeOnly bool) ([]*policyDomain.AccessPolicy, error) {
	querier := database.GetTx(ctx, m.db)
	query := `SELECT ` + policyColumns + ` FROM access_policies WHERE team_id = ?`
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
