package visit

import "sort"

type edge struct {
	from Status
	to   Status
}

type rule struct {
	// requiresAssessments gates the edge on both assessments existing.
	requiresAssessments bool
	// reopen marks the admin correction workflow edge; it is checked
	// against the reopen role set instead of the forward set.
	reopen bool
}

// transitions is the authoritative edge table. Absent pairs are invalid,
// including any same-state pair; cancelled has no outgoing edges.
var transitions = map[edge]rule{
	{StatusOpen, StatusInProgress}:       {},
	{StatusOpen, StatusCancelled}:        {},
	{StatusOpen, StatusCompleted}:        {requiresAssessments: true},
	{StatusInProgress, StatusCancelled}:  {},
	{StatusInProgress, StatusCompleted}:  {requiresAssessments: true},
	{StatusCompleted, StatusOpen}:        {reopen: true},
}

// Policy decides whether a (current, target, role) triple is allowed. The
// edge table is fixed; the role sets are configuration.
type Policy struct {
	forwardRoles map[string]bool
	reopenRoles  map[string]bool
}

// NewPolicy builds a Policy from the configured role lists.
func NewPolicy(forwardRoles, reopenRoles []string) Policy {
	return Policy{
		forwardRoles: roleSet(forwardRoles),
		reopenRoles:  roleSet(reopenRoles),
	}
}

func roleSet(roles []string) map[string]bool {
	set := make(map[string]bool, len(roles))
	for _, r := range roles {
		set[r] = true
	}
	return set
}

// ForwardRoles returns the configured forward role list, sorted.
func (p Policy) ForwardRoles() []string { return sortedRoles(p.forwardRoles) }

// ReopenRoles returns the configured reopen role list, sorted.
func (p Policy) ReopenRoles() []string { return sortedRoles(p.reopenRoles) }

func sortedRoles(set map[string]bool) []string {
	roles := make([]string, 0, len(set))
	for r := range set {
		roles = append(roles, r)
	}
	sort.Strings(roles)
	return roles
}

// Check validates the edge and the acting role. On success it returns the
// matched rule so the caller knows whether the assessment gate applies.
func (p Policy) Check(from, to Status, role string) (rule, error) {
	r, ok := transitions[edge{from, to}]
	if !ok {
		return rule{}, &InvalidTransitionError{From: from, To: to}
	}

	allowed := p.forwardRoles
	if r.reopen {
		allowed = p.reopenRoles
	}
	if !allowed[role] {
		return rule{}, &ForbiddenError{Role: role, From: from, To: to}
	}

	return r, nil
}
