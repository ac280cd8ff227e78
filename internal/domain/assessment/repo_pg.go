package assessment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const uniqueViolation = "23505"

func isDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

const nursingCols = `id, visit_id,
	temperature_celsius, pulse_bpm, blood_pressure_systolic, blood_pressure_diastolic,
	respiratory_rate_per_min, oxygen_saturation_percent, weight_kg, height_cm,
	chief_complaint,
	previous_fall, secondary_diagnosis, ambulatory_aid, iv_therapy, gait_status, mental_status,
	pediatric_age, pediatric_gender, pediatric_diagnosis, pediatric_cognitive,
	pediatric_environmental, pediatric_surgery, pediatric_medication,
	fall_risk_score, fall_risk_level, pediatric_fall_score, pediatric_fall_risk,
	bmi, critical_vitals, assessed_by, created_at, updated_at`

func (r *repoPG) CreateNursing(ctx context.Context, a *NursingAssessment) error {
	a.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO nursing_assessments (id, visit_id,
			temperature_celsius, pulse_bpm, blood_pressure_systolic, blood_pressure_diastolic,
			respiratory_rate_per_min, oxygen_saturation_percent, weight_kg, height_cm,
			chief_complaint,
			previous_fall, secondary_diagnosis, ambulatory_aid, iv_therapy, gait_status, mental_status,
			pediatric_age, pediatric_gender, pediatric_diagnosis, pediatric_cognitive,
			pediatric_environmental, pediatric_surgery, pediatric_medication,
			fall_risk_score, fall_risk_level, pediatric_fall_score, pediatric_fall_risk,
			bmi, critical_vitals, assessed_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31)`,
		a.ID, a.VisitID,
		a.TemperatureCelsius, a.PulseBpm, a.BloodPressureSystolic, a.BloodPressureDiastolic,
		a.RespiratoryRatePerMin, a.OxygenSaturationPercent, a.WeightKg, a.HeightCm,
		a.ChiefComplaint,
		a.PreviousFall, a.SecondaryDiagnosis, a.AmbulatoryAid, a.IVTherapy, a.Gait, a.MentalStatus,
		a.Age, a.Gender, a.Diagnosis, a.Cognitive,
		a.Environmental, a.Surgery, a.Medication,
		a.FallRiskScore, a.FallRiskLevel, a.PediatricFallScore, a.PediatricFallRisk,
		a.BMI, a.CriticalVitals, a.AssessedBy,
	)
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

func (r *repoPG) GetNursingByVisit(ctx context.Context, visitID uuid.UUID) (*NursingAssessment, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+nursingCols+` FROM nursing_assessments WHERE visit_id = $1`, visitID)

	var a NursingAssessment
	err := row.Scan(
		&a.ID, &a.VisitID,
		&a.TemperatureCelsius, &a.PulseBpm, &a.BloodPressureSystolic, &a.BloodPressureDiastolic,
		&a.RespiratoryRatePerMin, &a.OxygenSaturationPercent, &a.WeightKg, &a.HeightCm,
		&a.ChiefComplaint,
		&a.PreviousFall, &a.SecondaryDiagnosis, &a.AmbulatoryAid, &a.IVTherapy, &a.Gait, &a.MentalStatus,
		&a.Age, &a.Gender, &a.Diagnosis, &a.Cognitive,
		&a.Environmental, &a.Surgery, &a.Medication,
		&a.FallRiskScore, &a.FallRiskLevel, &a.PediatricFallScore, &a.PediatricFallRisk,
		&a.BMI, &a.CriticalVitals, &a.AssessedBy, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repoPG) UpdateNursing(ctx context.Context, a *NursingAssessment) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE nursing_assessments SET
			temperature_celsius=$2, pulse_bpm=$3, blood_pressure_systolic=$4, blood_pressure_diastolic=$5,
			respiratory_rate_per_min=$6, oxygen_saturation_percent=$7, weight_kg=$8, height_cm=$9,
			chief_complaint=$10,
			previous_fall=$11, secondary_diagnosis=$12, ambulatory_aid=$13, iv_therapy=$14,
			gait_status=$15, mental_status=$16,
			pediatric_age=$17, pediatric_gender=$18, pediatric_diagnosis=$19, pediatric_cognitive=$20,
			pediatric_environmental=$21, pediatric_surgery=$22, pediatric_medication=$23,
			fall_risk_score=$24, fall_risk_level=$25, pediatric_fall_score=$26, pediatric_fall_risk=$27,
			bmi=$28, critical_vitals=$29, updated_at=NOW()
		WHERE id = $1`,
		a.ID,
		a.TemperatureCelsius, a.PulseBpm, a.BloodPressureSystolic, a.BloodPressureDiastolic,
		a.RespiratoryRatePerMin, a.OxygenSaturationPercent, a.WeightKg, a.HeightCm,
		a.ChiefComplaint,
		a.PreviousFall, a.SecondaryDiagnosis, a.AmbulatoryAid, a.IVTherapy, a.Gait, a.MentalStatus,
		a.Age, a.Gender, a.Diagnosis, a.Cognitive,
		a.Environmental, a.Surgery, a.Medication,
		a.FallRiskScore, a.FallRiskLevel, a.PediatricFallScore, a.PediatricFallRisk,
		a.BMI, a.CriticalVitals,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) CreateRadiology(ctx context.Context, a *RadiologyAssessment) error {
	a.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO radiology_assessments (id, visit_id, findings, diagnosis, recommendations,
			modality, body_region, assessed_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.VisitID, a.Findings, a.Diagnosis, a.Recommendations,
		a.Modality, a.BodyRegion, a.AssessedBy,
	)
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

func (r *repoPG) GetRadiologyByVisit(ctx context.Context, visitID uuid.UUID) (*RadiologyAssessment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, visit_id, findings, diagnosis, recommendations, modality, body_region,
			assessed_by, created_at, updated_at
		FROM radiology_assessments WHERE visit_id = $1`, visitID)

	var a RadiologyAssessment
	err := row.Scan(
		&a.ID, &a.VisitID, &a.Findings, &a.Diagnosis, &a.Recommendations, &a.Modality, &a.BodyRegion,
		&a.AssessedBy, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repoPG) HasNursing(ctx context.Context, visitID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM nursing_assessments WHERE visit_id = $1)`, visitID).Scan(&exists)
	return exists, err
}

func (r *repoPG) HasRadiology(ctx context.Context, visitID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM radiology_assessments WHERE visit_id = $1)`, visitID).Scan(&exists)
	return exists, err
}
