// Package domain defines the core domain models for the access-policy engine:
// wildcard path-matched, deny-overrides-allow permission evaluation over
// policies bound to users, teams, or services.
package domain

import "time"

// Permission is a single capability a policy may grant or deny.
type Permission string

const (
	PermissionRead   Permission = "READ"
	PermissionWrite  Permission = "WRITE"
	PermissionList   Permission = "LIST"
	PermissionDelete Permission = "DELETE"
	PermissionRotate Permission = "ROTATE"
)

// PermissionSet is a set of Permission values, modelled as a map for O(1)
// membership tests. On the wire it is a canonical comma-separated string.
type PermissionSet map[Permission]struct{}

// NewPermissionSet builds a PermissionSet from a variadic list of permissions.
func NewPermissionSet(perms ...Permission) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Has reports whether the set contains the given permission.
func (s PermissionSet) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// AccessPolicy is identified by (TeamID, Name) and grants or denies a set of
// permissions over paths matching PathPattern to whatever subjects it is
// bound to via PolicyBinding rows.
type AccessPolicy struct {
	ID              string
	TeamID          string
	Name            string
	PathPattern     string
	Permissions     PermissionSet
	IsDenyPolicy    bool
	IsActive        bool
	CreatedByUserID string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BindingType identifies the kind of subject a PolicyBinding attaches a
// policy to.
type BindingType string

const (
	BindingTypeUser    BindingType = "USER"
	BindingTypeTeam    BindingType = "TEAM"
	BindingTypeService BindingType = "SERVICE"
)

// PolicyBinding is a child of exactly one AccessPolicy, attaching it to one
// subject. (PolicyID, BindingType, BindingTargetID) is unique.
type PolicyBinding struct {
	ID              string
	PolicyID        string
	BindingType     BindingType
	BindingTargetID string
	CreatedAt       time.Time
}

// Subject describes the caller an evaluation is performed for: either a user
// (with their team) or a service (scoped to a team).
type Subject struct {
	UserID    string
	ServiceID string
	TeamID    string
}

// bindingKeys returns the (type, target) pairs a binding must match for this
// subject to be granted the policy it attaches to. A user subject matches
// (USER, userId) and (TEAM, teamId); a service subject matches
// (SERVICE, serviceId) and (TEAM, teamId).
func (s Subject) bindingKeys() [][2]string {
	if s.ServiceID != "" {
		return [][2]string{
			{string(BindingTypeService), s.ServiceID},
			{string(BindingTypeTeam), s.TeamID},
		}
	}
	return [][2]string{
		{string(BindingTypeUser), s.UserID},
		{string(BindingTypeTeam), s.TeamID},
	}
}

// Matches reports whether binding attaches a policy to this subject.
func (s Subject) Matches(b *PolicyBinding) bool {
	for _, key := range s.bindingKeys() {
		if key[0] == string(b.BindingType) && key[1] == b.BindingTargetID {
			return true
		}
	}
	return false
}

// DecisionOutcome is the result of evaluating a permission request.
type DecisionOutcome string

const (
	OutcomeDenied       DecisionOutcome = "DENIED"
	OutcomeAllowed      DecisionOutcome = "ALLOWED"
	OutcomeDefaultDenied DecisionOutcome = "DEFAULT_DENIED"
)

// Decision is the outcome of evaluating one (subject, path, permission)
// request against the candidate policy set.
type Decision struct {
	Outcome        DecisionOutcome
	Reason         string
	DecidingPolicy *AccessPolicy
}

// Allowed reports whether the decision permits the request.
func (d Decision) Allowed() bool {
	return d.Outcome == OutcomeAllowed
}
