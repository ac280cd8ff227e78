package assessment

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/careflow/careflow/internal/domain/visit"
)

// -- Mock Assessment Repository --

type mockAssessmentRepo struct {
	nursing   map[uuid.UUID]*NursingAssessment
	radiology map[uuid.UUID]*RadiologyAssessment
}

func newMockAssessmentRepo() *mockAssessmentRepo {
	return &mockAssessmentRepo{
		nursing:   make(map[uuid.UUID]*NursingAssessment),
		radiology: make(map[uuid.UUID]*RadiologyAssessment),
	}
}

func (m *mockAssessmentRepo) CreateNursing(_ context.Context, a *NursingAssessment) error {
	if _, ok := m.nursing[a.VisitID]; ok {
		return ErrDuplicate
	}
	a.ID = uuid.New()
	cp := *a
	m.nursing[a.VisitID] = &cp
	return nil
}

func (m *mockAssessmentRepo) GetNursingByVisit(_ context.Context, visitID uuid.UUID) (*NursingAssessment, error) {
	a, ok := m.nursing[visitID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockAssessmentRepo) UpdateNursing(_ context.Context, a *NursingAssessment) error {
	if _, ok := m.nursing[a.VisitID]; !ok {
		return ErrNotFound
	}
	cp := *a
	m.nursing[a.VisitID] = &cp
	return nil
}

func (m *mockAssessmentRepo) CreateRadiology(_ context.Context, a *RadiologyAssessment) error {
	if _, ok := m.radiology[a.VisitID]; ok {
		return ErrDuplicate
	}
	a.ID = uuid.New()
	cp := *a
	m.radiology[a.VisitID] = &cp
	return nil
}

func (m *mockAssessmentRepo) GetRadiologyByVisit(_ context.Context, visitID uuid.UUID) (*RadiologyAssessment, error) {
	a, ok := m.radiology[visitID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockAssessmentRepo) HasNursing(_ context.Context, visitID uuid.UUID) (bool, error) {
	_, ok := m.nursing[visitID]
	return ok, nil
}

func (m *mockAssessmentRepo) HasRadiology(_ context.Context, visitID uuid.UUID) (bool, error) {
	_, ok := m.radiology[visitID]
	return ok, nil
}

// -- Mock Visit Reader --

type mockVisitReader struct {
	visits map[uuid.UUID]*visit.Visit
}

func (m *mockVisitReader) GetByID(_ context.Context, id uuid.UUID) (*visit.Visit, error) {
	v, ok := m.visits[id]
	if !ok {
		return nil, visit.ErrNotFound
	}
	return v, nil
}

func (m *mockVisitReader) add(status visit.Status) uuid.UUID {
	id := uuid.New()
	m.visits[id] = &visit.Visit{ID: id, PatientID: uuid.New(), Status: status}
	return id
}

var nurseActor = visit.Actor{ID: uuid.New(), Role: "nurse"}

func newTestService(strict bool) (*Service, *mockVisitReader, *mockAssessmentRepo) {
	repo := newMockAssessmentRepo()
	visits := &mockVisitReader{visits: make(map[uuid.UUID]*visit.Visit)}
	svc := NewService(repo, visits, strict, zerolog.Nop())
	return svc, visits, repo
}

func adultSubmission() *NursingAssessment {
	return &NursingAssessment{
		Vitals: normalVitals(),
		AdultFallRiskInput: AdultFallRiskInput{
			PreviousFall:  true,
			AmbulatoryAid: AidNone,
			Gait:          GaitNormal,
			MentalStatus:  MentalAware,
		},
	}
}

// -- Nursing submission --

func TestSubmitNursingAssessment(t *testing.T) {
	svc, visits, _ := newTestService(false)
	visitID := visits.add(visit.StatusOpen)

	a, err := svc.SubmitNursingAssessment(context.Background(), visitID, adultSubmission(), 40, nurseActor)
	if err != nil {
		t.Fatalf("SubmitNursingAssessment: %v", err)
	}
	if a.FallRiskScore != 25 || a.FallRiskLevel != RiskModerate {
		t.Errorf("score = %d/%s, want 25/moderate", a.FallRiskScore, a.FallRiskLevel)
	}
	if a.PediatricFallScore != nil {
		t.Error("adult subject must not carry a pediatric score")
	}
	if a.BMI == nil || *a.BMI != 22.9 {
		t.Errorf("BMI = %v, want 22.9", a.BMI)
	}
	if a.CriticalVitals {
		t.Error("normal vitals flagged critical")
	}
	if a.AssessedBy != nurseActor.ID {
		t.Error("assessment not attributed to actor")
	}
}

func TestSubmitNursingScoresPediatricForMinor(t *testing.T) {
	svc, visits, _ := newTestService(false)
	visitID := visits.add(visit.StatusOpen)

	input := adultSubmission()
	input.PediatricFallRiskInput = PediatricFallRiskInput{
		Gender:        GenderMale,
		Diagnosis:     DiagnosisNeurological,
		Cognitive:     CognitiveForgets,
		Environmental: EnvHistoryFall,
		Surgery:       SurgeryWithin24h,
		Medication:    MedicationMultiple,
	}
	a, err := svc.SubmitNursingAssessment(context.Background(), visitID, input, 8, nurseActor)
	if err != nil {
		t.Fatalf("SubmitNursingAssessment: %v", err)
	}
	if a.Age != 8 {
		t.Errorf("pediatric age = %d, want 8", a.Age)
	}
	if a.PediatricFallScore == nil || *a.PediatricFallScore != 20 {
		t.Errorf("pediatric score = %v, want 20", a.PediatricFallScore)
	}
	if a.PediatricFallRisk == nil || *a.PediatricFallRisk != RiskHigh {
		t.Errorf("pediatric level = %v, want high", a.PediatricFallRisk)
	}
}

func TestSubmitNursingRejectsInvalidVitals(t *testing.T) {
	svc, visits, repo := newTestService(false)
	visitID := visits.add(visit.StatusOpen)

	input := adultSubmission()
	input.TemperatureCelsius = f(55.0)
	_, err := svc.SubmitNursingAssessment(context.Background(), visitID, input, 40, nurseActor)

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("got %v, want ValidationError", err)
	}
	if len(validation.Errors) != 1 || validation.Errors[0].Field != "temperature_celsius" {
		t.Errorf("errors = %v", validation.Errors)
	}
	if len(repo.nursing) != 0 {
		t.Error("invalid assessment must not be persisted")
	}
}

func TestSubmitNursingVisitNotOpen(t *testing.T) {
	svc, visits, _ := newTestService(false)

	for _, status := range []visit.Status{visit.StatusCompleted, visit.StatusCancelled} {
		visitID := visits.add(status)
		_, err := svc.SubmitNursingAssessment(context.Background(), visitID, adultSubmission(), 40, nurseActor)
		if !errors.Is(err, visit.ErrNotOpen) {
			t.Errorf("submit on %s visit: got %v, want ErrNotOpen", status, err)
		}
	}
}

func TestSubmitNursingVisitInProgressAllowed(t *testing.T) {
	svc, visits, _ := newTestService(false)
	visitID := visits.add(visit.StatusInProgress)

	if _, err := svc.SubmitNursingAssessment(context.Background(), visitID, adultSubmission(), 40, nurseActor); err != nil {
		t.Errorf("submit on in_progress visit: %v", err)
	}
}

func TestSubmitNursingUnknownVisit(t *testing.T) {
	svc, _, _ := newTestService(false)
	_, err := svc.SubmitNursingAssessment(context.Background(), uuid.New(), adultSubmission(), 40, nurseActor)
	if !errors.Is(err, visit.ErrNotFound) {
		t.Errorf("got %v, want visit.ErrNotFound", err)
	}
}

func TestSubmitNursingDuplicate(t *testing.T) {
	svc, visits, _ := newTestService(false)
	visitID := visits.add(visit.StatusOpen)

	if _, err := svc.SubmitNursingAssessment(context.Background(), visitID, adultSubmission(), 40, nurseActor); err != nil {
		t.Fatalf("first submission: %v", err)
	}
	_, err := svc.SubmitNursingAssessment(context.Background(), visitID, adultSubmission(), 40, nurseActor)
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("got %v, want ErrDuplicate", err)
	}
}

func TestSubmitNursingStrictCategoriesRejected(t *testing.T) {
	svc, visits, _ := newTestService(true)
	visitID := visits.add(visit.StatusOpen)

	input := adultSubmission()
	input.Gait = "shuffling"
	_, err := svc.SubmitNursingAssessment(context.Background(), visitID, input, 40, nurseActor)

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("got %v, want ValidationError", err)
	}
	if len(validation.Errors) != 1 || validation.Errors[0].Field != "gait_status" {
		t.Errorf("errors = %v", validation.Errors)
	}
}

func TestSubmitNursingStrictRejectsUnderSix(t *testing.T) {
	svc, visits, _ := newTestService(true)
	visitID := visits.add(visit.StatusOpen)

	_, err := svc.SubmitNursingAssessment(context.Background(), visitID, adultSubmission(), 4, nurseActor)
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("got %v, want ValidationError", err)
	}
	if len(validation.Errors) != 1 || validation.Errors[0].Field != "subject_age" {
		t.Errorf("errors = %v", validation.Errors)
	}
}

func TestSubmitNursingPermissiveScoresUnderSix(t *testing.T) {
	svc, visits, _ := newTestService(false)
	visitID := visits.add(visit.StatusOpen)

	a, err := svc.SubmitNursingAssessment(context.Background(), visitID, adultSubmission(), 4, nurseActor)
	if err != nil {
		t.Fatalf("SubmitNursingAssessment: %v", err)
	}
	// Under-6 subjects score the youngest age band, never lower.
	if a.PediatricFallScore == nil || *a.PediatricFallScore < 9 {
		t.Errorf("pediatric score = %v, want at least 9", a.PediatricFallScore)
	}
}

func TestSubmitNursingPermissiveCategoriesAccepted(t *testing.T) {
	svc, visits, _ := newTestService(false)
	visitID := visits.add(visit.StatusOpen)

	input := adultSubmission()
	input.PreviousFall = false
	input.Gait = "shuffling"
	a, err := svc.SubmitNursingAssessment(context.Background(), visitID, input, 40, nurseActor)
	if err != nil {
		t.Fatalf("permissive mode rejected unknown category: %v", err)
	}
	if a.FallRiskScore != 0 {
		t.Errorf("unknown gait scored %d, want lowest-weight 0", a.FallRiskScore)
	}
}

func TestSubmitNursingCriticalVitalsFlagged(t *testing.T) {
	svc, visits, _ := newTestService(false)
	visitID := visits.add(visit.StatusOpen)

	input := adultSubmission()
	input.OxygenSaturationPercent = f(85)
	a, err := svc.SubmitNursingAssessment(context.Background(), visitID, input, 40, nurseActor)
	if err != nil {
		t.Fatalf("SubmitNursingAssessment: %v", err)
	}
	if !a.CriticalVitals {
		t.Error("O2 saturation 85 must flag critical vitals")
	}
}

// -- Amend --

func TestAmendNursingAssessment(t *testing.T) {
	svc, visits, _ := newTestService(false)
	visitID := visits.add(visit.StatusOpen)

	created, err := svc.SubmitNursingAssessment(context.Background(), visitID, adultSubmission(), 40, nurseActor)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	amended := adultSubmission()
	amended.IVTherapy = true
	got, err := svc.AmendNursingAssessment(context.Background(), visitID, amended, 40, nurseActor)
	if err != nil {
		t.Fatalf("amend: %v", err)
	}
	if got.ID != created.ID {
		t.Error("amend must keep the original record id")
	}
	if got.FallRiskScore != 45 {
		t.Errorf("rescored = %d, want 45", got.FallRiskScore)
	}
}

func TestAmendNursingClosedVisit(t *testing.T) {
	svc, visits, _ := newTestService(false)
	visitID := visits.add(visit.StatusOpen)
	if _, err := svc.SubmitNursingAssessment(context.Background(), visitID, adultSubmission(), 40, nurseActor); err != nil {
		t.Fatalf("submit: %v", err)
	}

	visits.visits[visitID].Status = visit.StatusCompleted
	_, err := svc.AmendNursingAssessment(context.Background(), visitID, adultSubmission(), 40, nurseActor)
	if !errors.Is(err, visit.ErrNotOpen) {
		t.Errorf("got %v, want ErrNotOpen", err)
	}
}

// -- Radiology --

func TestSubmitRadiologyAssessment(t *testing.T) {
	svc, visits, _ := newTestService(false)
	visitID := visits.add(visit.StatusOpen)

	a, err := svc.SubmitRadiologyAssessment(context.Background(), visitID, &RadiologyAssessment{
		Findings: "No acute cardiopulmonary abnormality.",
	}, nurseActor)
	if err != nil {
		t.Fatalf("SubmitRadiologyAssessment: %v", err)
	}
	if a.VisitID != visitID || a.AssessedBy != nurseActor.ID {
		t.Error("radiology record not wired to visit and actor")
	}
}

func TestSubmitRadiologyEmptyFindings(t *testing.T) {
	svc, visits, repo := newTestService(false)
	visitID := visits.add(visit.StatusOpen)

	for _, findings := range []string{"", "   \n\t"} {
		_, err := svc.SubmitRadiologyAssessment(context.Background(), visitID, &RadiologyAssessment{
			Findings: findings,
		}, nurseActor)
		var validation *ValidationError
		if !errors.As(err, &validation) {
			t.Errorf("findings %q: got %v, want ValidationError", findings, err)
		}
	}
	if len(repo.radiology) != 0 {
		t.Error("rejected findings must not be persisted")
	}
}

func TestSubmitRadiologyDuplicate(t *testing.T) {
	svc, visits, _ := newTestService(false)
	visitID := visits.add(visit.StatusOpen)

	record := func() *RadiologyAssessment {
		return &RadiologyAssessment{Findings: "Fracture of the distal radius."}
	}
	if _, err := svc.SubmitRadiologyAssessment(context.Background(), visitID, record(), nurseActor); err != nil {
		t.Fatalf("first submission: %v", err)
	}
	_, err := svc.SubmitRadiologyAssessment(context.Background(), visitID, record(), nurseActor)
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("got %v, want ErrDuplicate", err)
	}
}

// -- Reads and the completion gate --

func TestGetVisitAssessments(t *testing.T) {
	svc, visits, _ := newTestService(false)
	visitID := visits.add(visit.StatusOpen)

	out, err := svc.GetVisitAssessments(context.Background(), visitID)
	if err != nil {
		t.Fatalf("GetVisitAssessments: %v", err)
	}
	if out.HasNursing || out.HasRadiology || out.Complete {
		t.Errorf("empty visit flags = %+v", out)
	}

	if _, err := svc.SubmitNursingAssessment(context.Background(), visitID, adultSubmission(), 40, nurseActor); err != nil {
		t.Fatalf("submit nursing: %v", err)
	}
	out, _ = svc.GetVisitAssessments(context.Background(), visitID)
	if !out.HasNursing || out.HasRadiology || out.Complete {
		t.Errorf("nursing-only flags = %+v", out)
	}

	if _, err := svc.SubmitRadiologyAssessment(context.Background(), visitID, &RadiologyAssessment{
		Findings: "Unremarkable study.",
	}, nurseActor); err != nil {
		t.Fatalf("submit radiology: %v", err)
	}
	out, _ = svc.GetVisitAssessments(context.Background(), visitID)
	if !out.Complete {
		t.Errorf("both-present flags = %+v", out)
	}
}

func TestCheckerContract(t *testing.T) {
	svc, visits, _ := newTestService(false)
	visitID := visits.add(visit.StatusOpen)

	// The service doubles as the state machine's precondition source.
	var checker visit.AssessmentChecker = svc

	has, err := checker.HasNursingAssessment(context.Background(), visitID)
	if err != nil || has {
		t.Errorf("HasNursingAssessment = %v, %v; want false, nil", has, err)
	}

	if _, err := svc.SubmitNursingAssessment(context.Background(), visitID, adultSubmission(), 40, nurseActor); err != nil {
		t.Fatalf("submit: %v", err)
	}
	has, _ = checker.HasNursingAssessment(context.Background(), visitID)
	if !has {
		t.Error("HasNursingAssessment = false after submission")
	}
	has, _ = checker.HasRadiologyAssessment(context.Background(), visitID)
	if has {
		t.Error("HasRadiologyAssessment = true without a record")
	}
}
