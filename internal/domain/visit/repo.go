package visit

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, v *Visit) error
	GetByID(ctx context.Context, id uuid.UUID) (*Visit, error)
	Update(ctx context.Context, v *Visit) error

	// UpdateStatus applies newStatus only if the stored status still equals
	// expectedCurrent (optimistic compare-and-swap). Returns ErrConflict
	// when the row has moved on, ErrNotFound when the id is unknown.
	UpdateStatus(ctx context.Context, id uuid.UUID, newStatus, expectedCurrent Status, changedBy uuid.UUID) (*Visit, error)

	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Visit, int, error)
	ListByStatus(ctx context.Context, status Status, limit, offset int) ([]*Visit, int, error)
	ListRecent(ctx context.Context, limit int) ([]*Visit, error)
	ListToday(ctx context.Context) ([]*Visit, error)
	CountOpen(ctx context.Context) (int, error)

	AddStatusHistory(ctx context.Context, h *StatusHistory) error
	GetStatusHistory(ctx context.Context, visitID uuid.UUID) ([]*StatusHistory, error)
}

// AssessmentChecker is the narrow read contract the state machine needs from
// the assessment store to evaluate the completion gate.
type AssessmentChecker interface {
	HasNursingAssessment(ctx context.Context, visitID uuid.UUID) (bool, error)
	HasRadiologyAssessment(ctx context.Context, visitID uuid.UUID) (bool, error)
}
