package visit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service owns the visit lifecycle. All status changes go through
// RequestTransition, which enforces the edge table, the role policy, and the
// assessment completion gate.
type Service struct {
	repo        Repository
	assessments AssessmentChecker
	policy      Policy
}

func NewService(repo Repository, assessments AssessmentChecker, policy Policy) *Service {
	return &Service{repo: repo, assessments: assessments, policy: policy}
}

func (s *Service) Create(ctx context.Context, v *Visit, actor Actor) error {
	if v.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if v.VisitDate.IsZero() {
		v.VisitDate = time.Now().UTC()
	}
	if v.VisitDate.After(time.Now().Add(time.Minute)) {
		return fmt.Errorf("visit_date may not be in the future")
	}
	v.Status = StatusOpen
	v.CreatedBy = actor.ID
	return s.repo.Create(ctx, v)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Visit, error) {
	return s.repo.GetByID(ctx, id)
}

// Update amends a visit's content (chief complaint, notes). Status is not
// touched here and the visit must still be open.
func (s *Service) Update(ctx context.Context, id uuid.UUID, chiefComplaint, notes *string, actor Actor) (*Visit, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !v.IsOpen() {
		return nil, ErrNotOpen
	}
	if chiefComplaint != nil {
		v.ChiefComplaint = chiefComplaint
	}
	if notes != nil {
		v.Notes = notes
	}
	v.UpdatedBy = &actor.ID
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// RequestTransition moves a visit to target if the edge exists, the acting
// role is permitted, and — for completion — both assessments exist. The
// existence reads and the status write are made atomic per visit by the
// repository's compare-and-swap; on a detected race the transition is
// re-evaluated once against a fresh read before ErrConflict is surfaced.
func (s *Service) RequestTransition(ctx context.Context, visitID uuid.UUID, target Status, actor Actor) (*Visit, error) {
	if !ValidStatus(target) {
		return nil, &InvalidTransitionError{From: "", To: target}
	}

	v, err := s.repo.GetByID(ctx, visitID)
	if err != nil {
		return nil, err
	}

	updated, err := s.tryTransition(ctx, v, target, actor)
	if errors.Is(err, ErrConflict) {
		v, err = s.repo.GetByID(ctx, visitID)
		if err != nil {
			return nil, err
		}
		if v.Status == target {
			// The concurrent request already applied this transition;
			// report the race rather than a bogus same-state edge.
			return nil, ErrConflict
		}
		updated, err = s.tryTransition(ctx, v, target, actor)
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) tryTransition(ctx context.Context, v *Visit, target Status, actor Actor) (*Visit, error) {
	rule, err := s.policy.Check(v.Status, target, actor.Role)
	if err != nil {
		return nil, err
	}

	if rule.requiresAssessments {
		if err := s.checkCompletionGate(ctx, v.ID); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.UpdateStatus(ctx, v.ID, target, v.Status, actor.ID)
	if err != nil {
		return nil, err
	}

	history := &StatusHistory{
		VisitID:    v.ID,
		FromStatus: v.Status,
		ToStatus:   target,
		ChangedBy:  actor.ID,
		ChangedAt:  time.Now().UTC(),
	}
	if err := s.repo.AddStatusHistory(ctx, history); err != nil {
		return nil, fmt.Errorf("add status history: %w", err)
	}

	return updated, nil
}

func (s *Service) checkCompletionGate(ctx context.Context, visitID uuid.UUID) error {
	hasNursing, err := s.assessments.HasNursingAssessment(ctx, visitID)
	if err != nil {
		return fmt.Errorf("check nursing assessment: %w", err)
	}
	hasRadiology, err := s.assessments.HasRadiologyAssessment(ctx, visitID)
	if err != nil {
		return fmt.Errorf("check radiology assessment: %w", err)
	}

	var missing []string
	if !hasNursing {
		missing = append(missing, MissingNursingAssessment)
	}
	if !hasRadiology {
		missing = append(missing, MissingRadiologyAssessment)
	}
	if len(missing) > 0 {
		return &PreconditionFailedError{Missing: missing}
	}
	return nil
}

// Complete is a convenience wrapper for the transition to completed.
func (s *Service) Complete(ctx context.Context, visitID uuid.UUID, actor Actor) (*Visit, error) {
	return s.RequestTransition(ctx, visitID, StatusCompleted, actor)
}

// Cancel is a convenience wrapper for the transition to cancelled.
func (s *Service) Cancel(ctx context.Context, visitID uuid.UUID, actor Actor) (*Visit, error) {
	return s.RequestTransition(ctx, visitID, StatusCancelled, actor)
}

// Reopen is the correction workflow: completed back to open.
func (s *Service) Reopen(ctx context.Context, visitID uuid.UUID, actor Actor) (*Visit, error) {
	return s.RequestTransition(ctx, visitID, StatusOpen, actor)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Visit, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListByStatus(ctx context.Context, status Status, limit, offset int) ([]*Visit, int, error) {
	if !ValidStatus(status) {
		return nil, 0, fmt.Errorf("invalid status: %s", status)
	}
	return s.repo.ListByStatus(ctx, status, limit, offset)
}

func (s *Service) ListRecent(ctx context.Context, limit int) ([]*Visit, error) {
	return s.repo.ListRecent(ctx, limit)
}

// ListToday returns the visits dated within the current day, for the
// front-desk worklist.
func (s *Service) ListToday(ctx context.Context) ([]*Visit, error) {
	return s.repo.ListToday(ctx)
}

func (s *Service) CountOpen(ctx context.Context) (int, error) {
	return s.repo.CountOpen(ctx)
}

func (s *Service) GetStatusHistory(ctx context.Context, visitID uuid.UUID) ([]*StatusHistory, error) {
	return s.repo.GetStatusHistory(ctx, visitID)
}
