package assessment

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/careflow/careflow/internal/domain/visit"
)

// VisitReader is the slice of the visit repository the assessment workflow
// needs: reads only, to enforce the open-visit rule.
type VisitReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*visit.Visit, error)
}

const adultAge = 18

// Service owns assessment submission. It also serves as the state machine's
// assessment-existence source, closing the completion-gate loop.
type Service struct {
	repo             Repository
	visits           VisitReader
	strictCategories bool
	logger           zerolog.Logger
}

// NewService builds the assessment service. With strictCategories set,
// submissions carrying unrecognized fall-risk category values are rejected
// instead of silently scoring the lowest-weight branch.
func NewService(repo Repository, visits VisitReader, strictCategories bool, logger zerolog.Logger) *Service {
	return &Service{repo: repo, visits: visits, strictCategories: strictCategories, logger: logger}
}

// SubmitNursingAssessment validates, scores and persists the nursing record
// for an open visit. subjectAge selects the pediatric scale: minors get the
// Humpty Dumpty score in addition to the adult score.
func (s *Service) SubmitNursingAssessment(ctx context.Context, visitID uuid.UUID, a *NursingAssessment, subjectAge int, actor visit.Actor) (*NursingAssessment, error) {
	v, err := s.visits.GetByID(ctx, visitID)
	if err != nil {
		return nil, err
	}
	if !v.IsOpen() {
		return nil, visit.ErrNotOpen
	}

	if _, err := s.repo.GetNursingByVisit(ctx, visitID); err == nil {
		return nil, ErrDuplicate
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	a.VisitID = visitID
	a.AssessedBy = actor.ID
	if err := s.enrich(a, subjectAge); err != nil {
		return nil, err
	}

	if err := s.repo.CreateNursing(ctx, a); err != nil {
		return nil, err
	}
	if a.CriticalVitals {
		s.logger.Warn().
			Str("visit_id", visitID.String()).
			Int("fall_risk_score", a.FallRiskScore).
			Msg("nursing assessment recorded critical vitals")
	}
	return a, nil
}

// AmendNursingAssessment replaces the mutable content of an existing nursing
// record and re-derives every computed field. Only allowed while the visit
// is still open.
func (s *Service) AmendNursingAssessment(ctx context.Context, visitID uuid.UUID, a *NursingAssessment, subjectAge int, actor visit.Actor) (*NursingAssessment, error) {
	v, err := s.visits.GetByID(ctx, visitID)
	if err != nil {
		return nil, err
	}
	if !v.IsOpen() {
		return nil, visit.ErrNotOpen
	}

	existing, err := s.repo.GetNursingByVisit(ctx, visitID)
	if err != nil {
		return nil, err
	}

	a.ID = existing.ID
	a.VisitID = visitID
	a.AssessedBy = existing.AssessedBy
	a.CreatedAt = existing.CreatedAt
	if err := s.enrich(a, subjectAge); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateNursing(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// enrich validates the inputs and fills every derived field. Derived values
// arriving from the caller are discarded.
func (s *Service) enrich(a *NursingAssessment, subjectAge int) error {
	result := ValidateVitals(a.Vitals)
	if s.strictCategories {
		result.Errors = append(result.Errors, UnknownAdultCategories(a.AdultFallRiskInput)...)
		if subjectAge < adultAge {
			result.Errors = append(result.Errors, UnknownPediatricCategories(a.PediatricFallRiskInput)...)
			// The pediatric scale's lowest band starts at 6. Permissive mode
			// scores younger subjects at that band; strict mode makes the
			// caller route them to a different instrument.
			if subjectAge < 6 {
				result.Errors = append(result.Errors, FieldError{
					Field:   "subject_age",
					Message: "below the pediatric scale's minimum age of 6",
				})
			}
		}
	}
	if !result.Valid() {
		return &ValidationError{Errors: result.Errors}
	}

	adult := ScoreAdultFallRisk(a.AdultFallRiskInput)
	a.FallRiskScore = adult.Score
	a.FallRiskLevel = adult.Level

	a.PediatricFallScore = nil
	a.PediatricFallRisk = nil
	if subjectAge < adultAge {
		a.Age = subjectAge
		ped := ScorePediatricFallRisk(a.PediatricFallRiskInput)
		a.PediatricFallScore = &ped.Score
		a.PediatricFallRisk = &ped.Level
	}

	a.BMI = ComputeBMI(a.Vitals)
	a.CriticalVitals = CriticalVitals(a.Vitals)
	return nil
}

// SubmitRadiologyAssessment persists the radiology record for an open
// visit. Findings is required.
func (s *Service) SubmitRadiologyAssessment(ctx context.Context, visitID uuid.UUID, a *RadiologyAssessment, actor visit.Actor) (*RadiologyAssessment, error) {
	v, err := s.visits.GetByID(ctx, visitID)
	if err != nil {
		return nil, err
	}
	if !v.IsOpen() {
		return nil, visit.ErrNotOpen
	}

	a.Findings = strings.TrimSpace(a.Findings)
	if a.Findings == "" {
		return nil, &ValidationError{Errors: []FieldError{
			{Field: "findings", Message: "findings are required"},
		}}
	}

	if _, err := s.repo.GetRadiologyByVisit(ctx, visitID); err == nil {
		return nil, ErrDuplicate
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	a.VisitID = visitID
	a.AssessedBy = actor.ID
	return a, s.repo.CreateRadiology(ctx, a)
}

// GetVisitAssessments returns both records for a visit, with the presence
// flags the completion gate evaluates.
func (s *Service) GetVisitAssessments(ctx context.Context, visitID uuid.UUID) (*VisitAssessments, error) {
	if _, err := s.visits.GetByID(ctx, visitID); err != nil {
		return nil, err
	}

	out := &VisitAssessments{}
	nursing, err := s.repo.GetNursingByVisit(ctx, visitID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err == nil {
		out.Nursing = nursing
		out.HasNursing = true
	}

	radiology, err := s.repo.GetRadiologyByVisit(ctx, visitID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err == nil {
		out.Radiology = radiology
		out.HasRadiology = true
	}

	out.Complete = out.HasNursing && out.HasRadiology
	return out, nil
}

// HasNursingAssessment satisfies the state machine's precondition contract.
func (s *Service) HasNursingAssessment(ctx context.Context, visitID uuid.UUID) (bool, error) {
	return s.repo.HasNursing(ctx, visitID)
}

// HasRadiologyAssessment satisfies the state machine's precondition contract.
func (s *Service) HasRadiologyAssessment(ctx context.Context, visitID uuid.UUID) (bool, error) {
	return s.repo.HasRadiology(ctx, visitID)
}
