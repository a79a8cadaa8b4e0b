// Package repository implements data persistence for the policy domain:
// PostgreSQL and MySQL implementations of PolicyRepository and
// PolicyBindingRepository.
package repository

import (
	"database/sql"
	"sort"
	"strings"

	apperrors "github.com/allisson/vaultd/internal/errors"
	policyDomain "github.com/allisson/vaultd/internal/policy/domain"
)

const policyColumns = `id, team_id, name, path_pattern, permissions, is_deny_policy,
	is_active, created_by_user_id, created_at, updated_at`

const bindingColumns = `id, policy_id, binding_type, binding_target_id, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// encodePermissions renders a PermissionSet as the canonical sorted,
// comma-separated wire form.
func encodePermissions(set policyDomain.PermissionSet) string {
	names := make([]string, 0, len(set))
	for p := range set {
		names = append(names, string(p))
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

// decodePermissions parses the canonical comma-separated wire form back
// into a PermissionSet.
func decodePermissions(s string) policyDomain.PermissionSet {
	set := make(policyDomain.PermissionSet)
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			set[policyDomain.Permission(name)] = struct{}{}
		}
	}
	return set
}

func scanPolicy(row rowScanner) (*policyDomain.AccessPolicy, error) {
	var p policyDomain.AccessPolicy
	var permissions string
	err := row.Scan(
		&p.ID, &p.TeamID, &p.Name, &p.PathPattern, &permissions, &p.IsDenyPolicy,
		&p.IsActive, &p.CreatedByUserID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, policyDomain.ErrPolicyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan access policy")
	}
	p.Permissions = decodePermissions(permissions)
	return &p, nil
}

func scanPolicies(rows *sql.Rows) ([]*policyDomain.AccessPolicy, error) {
	var out []*policyDomain.AccessPolicy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate access policies")
	}
	return out, nil
}

func scanBinding(row rowScanner) (*policyDomain.PolicyBinding, error) {
	var b policyDomain.PolicyBinding
	err := row.Scan(&b.ID, &b.PolicyID, &b.BindingType, &b.BindingTargetID, &b.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, policyDomain.ErrBindingNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan policy binding")
	}
	return &b, nil
}

func scanBindings(rows *sql.Rows) ([]*policyDomain.PolicyBinding, error) {
	var out []*policyDomain.PolicyBinding
	for rows.Next() {
		b, err := scanBinding(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate policy bindings")
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique")
}
