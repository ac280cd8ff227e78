package visit

import (
	"errors"
	"fmt"
	"strings"
)

// Names of the assessments a visit needs before it may complete, as carried
// by PreconditionFailedError.
const (
	MissingNursingAssessment   = "nursing_assessment"
	MissingRadiologyAssessment = "radiology_assessment"
)

var (
	// ErrNotFound indicates the visit id is unknown.
	ErrNotFound = errors.New("visit not found")

	// ErrConflict indicates a concurrent modification was detected by the
	// repository's optimistic status check. Safe to retry.
	ErrConflict = errors.New("visit modified concurrently")

	// ErrNotOpen indicates a content change was attempted on a visit that
	// is no longer open.
	ErrNotOpen = errors.New("visit is not open")
)

// InvalidTransitionError indicates the requested status edge does not exist
// in the transition table. Requesting the current status is also invalid;
// no-op transitions are never silently accepted.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

// PreconditionFailedError indicates a transition to completed was attempted
// while one or both required assessments are missing.
type PreconditionFailedError struct {
	Missing []string
}

func (e *PreconditionFailedError) Error() string {
	return fmt.Sprintf("visit cannot be completed, missing: %s", strings.Join(e.Missing, ", "))
}

// ForbiddenError indicates the acting role is not permitted to perform the
// requested edge.
type ForbiddenError struct {
	Role string
	From Status
	To   Status
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("role %q may not transition visit from %s to %s", e.Role, e.From, e.To)
}
