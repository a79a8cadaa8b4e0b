package usecase

import (
	"fmt"

	policyDomain "github.com/allisson/vaultd/internal/policy/domain"
)

// Evaluate implements the deny-overrides-allow decision algorithm of
// SPEC_FULL.md §4.5: filter the candidate set to policies whose PathPattern
// matches path, then in two passes check deny policies first, then allow
// policies. The deny and allow passes both read from the same filtered
// slice, so a caller evaluating one request sees one consistent view of the
// candidate set even if bindings changed concurrently (§5).
func Evaluate(policies []*policyDomain.AccessPolicy, path string, permission policyDomain.Permission) policyDomain.Decision {
	matching := make([]*policyDomain.AccessPolicy, 0, len(policies))
	for _, p := range policies {
		if !p.IsActive {
			continue
		}
		if MatchPath(p.PathPattern, path) {
			matching = append(matching, p)
		}
	}

	for _, p := range matching {
		if p.IsDenyPolicy && p.Permissions.Has(permission) {
			policy := p
			return policyDomain.Decision{
				Outcome:        policyDomain.OutcomeDenied,
				Reason:         fmt.Sprintf("denied by %q", policy.Name),
				DecidingPolicy: policy,
			}
		}
	}

	for _, p := range matching {
		if !p.IsDenyPolicy && p.Permissions.Has(permission) {
			policy := p
			return policyDomain.Decision{
				Outcome:        policyDomain.OutcomeAllowed,
				Reason:         fmt.Sprintf("allowed by %q", policy.Name),
				DecidingPolicy: policy,
			}
		}
	}

	return policyDomain.Decision{
		Outcome: policyDomain.OutcomeDefaultDenied,
		Reason:  "no matching allow policy",
	}
}

// CandidatePolicies collects, from all of a team's active policies and
// bindings, the set of policies bound (directly or via team/service) to
// subject. A policy contributes to the candidate set only if it is itself
// active; a stale read of the binding set between collection and decision
// is acceptable (§5), but CandidatePolicies and Evaluate must be called with
// the same slice for one evaluation.
func CandidatePolicies(
	policies []*policyDomain.AccessPolicy,
	bindings []*policyDomain.PolicyBinding,
	subject policyDomain.Subject,
) []*policyDomain.AccessPolicy {
	byID := make(map[string]*policyDomain.AccessPolicy, len(policies))
	for _, p := range policies {
		byID[p.ID] = p
	}

	seen := make(map[string]struct{}, len(bindings))
	var out []*policyDomain.AccessPolicy
	for _, b := range bindings {
		if !subject.Matches(b) {
			continue
		}
		policy, ok := byID[b.PolicyID]
		if !ok || !policy.IsActive {
			continue
		}
		if _, dup := seen[policy.ID]; dup {
			continue
		}
		seen[policy.ID] = struct{}{}
		out = append(out, policy)
	}
	return out
}
