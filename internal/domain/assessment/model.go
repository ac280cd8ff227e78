package assessment

import (
	"time"

	"github.com/google/uuid"
)

// Vitals carries a nursing assessment's measured vital signs. All fields are
// optional; absent measurements are nil and skipped by validation.
type Vitals struct {
	TemperatureCelsius      *float64 `db:"temperature_celsius" json:"temperature_celsius,omitempty"`
	PulseBpm                *int     `db:"pulse_bpm" json:"pulse_bpm,omitempty"`
	BloodPressureSystolic   *int     `db:"blood_pressure_systolic" json:"blood_pressure_systolic,omitempty"`
	BloodPressureDiastolic  *int     `db:"blood_pressure_diastolic" json:"blood_pressure_diastolic,omitempty"`
	RespiratoryRatePerMin   *int     `db:"respiratory_rate_per_min" json:"respiratory_rate_per_min,omitempty"`
	OxygenSaturationPercent *float64 `db:"oxygen_saturation_percent" json:"oxygen_saturation_percent,omitempty"`
	WeightKg                *float64 `db:"weight_kg" json:"weight_kg,omitempty"`
	HeightCm                *float64 `db:"height_cm" json:"height_cm,omitempty"`
}

// AdultFallRiskInput is the Morse-scale input set.
type AdultFallRiskInput struct {
	PreviousFall       bool   `db:"previous_fall" json:"previous_fall"`
	SecondaryDiagnosis bool   `db:"secondary_diagnosis" json:"secondary_diagnosis"`
	AmbulatoryAid      string `db:"ambulatory_aid" json:"ambulatory_aid"`
	IVTherapy          bool   `db:"iv_therapy" json:"iv_therapy"`
	Gait               string `db:"gait_status" json:"gait_status"`
	MentalStatus       string `db:"mental_status" json:"mental_status"`
}

// PediatricFallRiskInput is the Humpty-Dumpty-scale input set, scored in
// addition to the adult scale when the subject is a minor.
type PediatricFallRiskInput struct {
	Age           int    `db:"pediatric_age" json:"pediatric_age"`
	Gender        string `db:"pediatric_gender" json:"pediatric_gender"`
	Diagnosis     string `db:"pediatric_diagnosis" json:"pediatric_diagnosis"`
	Cognitive     string `db:"pediatric_cognitive" json:"pediatric_cognitive"`
	Environmental string `db:"pediatric_environmental" json:"pediatric_environmental"`
	Surgery       string `db:"pediatric_surgery" json:"pediatric_surgery"`
	Medication    string `db:"pediatric_medication" json:"pediatric_medication"`
}

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

// FallRisk is the derived result of either scale.
type FallRisk struct {
	Score int       `json:"score"`
	Level RiskLevel `json:"level"`
}

// NursingAssessment is the nursing intake record, one per visit. The score,
// level, BMI and critical-vitals fields are derived at submission time and
// never accepted from input.
type NursingAssessment struct {
	ID      uuid.UUID `db:"id" json:"id"`
	VisitID uuid.UUID `db:"visit_id" json:"visit_id"`

	Vitals
	ChiefComplaint *string `db:"chief_complaint" json:"chief_complaint,omitempty"`

	AdultFallRiskInput
	PediatricFallRiskInput

	FallRiskScore      int        `db:"fall_risk_score" json:"fall_risk_score"`
	FallRiskLevel      RiskLevel  `db:"fall_risk_level" json:"fall_risk_level"`
	PediatricFallScore *int       `db:"pediatric_fall_score" json:"pediatric_fall_score,omitempty"`
	PediatricFallRisk  *RiskLevel `db:"pediatric_fall_risk" json:"pediatric_fall_risk,omitempty"`
	BMI                *float64   `db:"bmi" json:"bmi,omitempty"`
	CriticalVitals     bool       `db:"critical_vitals" json:"critical_vitals"`

	AssessedBy uuid.UUID `db:"assessed_by" json:"assessed_by"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// RadiologyAssessment is the radiology/physician record, one per visit.
// Findings is the only required field.
type RadiologyAssessment struct {
	ID      uuid.UUID `db:"id" json:"id"`
	VisitID uuid.UUID `db:"visit_id" json:"visit_id"`

	Findings        string  `db:"findings" json:"findings"`
	Diagnosis       *string `db:"diagnosis" json:"diagnosis,omitempty"`
	Recommendations *string `db:"recommendations" json:"recommendations,omitempty"`
	Modality        *string `db:"modality" json:"modality,omitempty"`
	BodyRegion      *string `db:"body_region" json:"body_region,omitempty"`

	AssessedBy uuid.UUID `db:"assessed_by" json:"assessed_by"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// VisitAssessments bundles both records for the read endpoint. Complete
// mirrors the completion gate: true only when both records exist.
type VisitAssessments struct {
	Nursing      *NursingAssessment   `json:"nursing,omitempty"`
	Radiology    *RadiologyAssessment `json:"radiology,omitempty"`
	HasNursing   bool                 `json:"has_nursing"`
	HasRadiology bool                 `json:"has_radiology"`
	Complete     bool                 `json:"complete"`
}
