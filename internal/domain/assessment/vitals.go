package assessment

import (
	"fmt"
	"math"
)

// ValidationResult lists every vital-sign field outside its accepted range.
// An empty Errors slice means the input is valid.
type ValidationResult struct {
	Errors []FieldError `json:"errors"`
}

func (r ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// ValidateVitals range-checks every provided field. Nil fields are skipped.
// It never fails outright; all problems come back keyed by field name.
func ValidateVitals(v Vitals) ValidationResult {
	var result ValidationResult

	checkFloat := func(field string, val *float64, min, max float64) {
		if val != nil && (*val < min || *val > max) {
			result.Errors = append(result.Errors, FieldError{
				Field:   field,
				Message: fmt.Sprintf("must be between %g and %g", min, max),
			})
		}
	}
	checkInt := func(field string, val *int, min, max int) {
		if val != nil && (*val < min || *val > max) {
			result.Errors = append(result.Errors, FieldError{
				Field:   field,
				Message: fmt.Sprintf("must be between %d and %d", min, max),
			})
		}
	}
	checkPositive := func(field string, val *float64) {
		if val != nil && *val <= 0 {
			result.Errors = append(result.Errors, FieldError{
				Field:   field,
				Message: "must be greater than 0",
			})
		}
	}

	checkFloat("temperature_celsius", v.TemperatureCelsius, 30.0, 45.0)
	checkInt("pulse_bpm", v.PulseBpm, 30, 200)
	checkInt("blood_pressure_systolic", v.BloodPressureSystolic, 70, 250)
	checkInt("blood_pressure_diastolic", v.BloodPressureDiastolic, 40, 150)
	checkInt("respiratory_rate_per_min", v.RespiratoryRatePerMin, 8, 60)
	checkFloat("oxygen_saturation_percent", v.OxygenSaturationPercent, 70.0, 100.0)
	checkPositive("weight_kg", v.WeightKg)
	checkPositive("height_cm", v.HeightCm)

	if v.BloodPressureSystolic != nil && v.BloodPressureDiastolic != nil &&
		*v.BloodPressureSystolic <= *v.BloodPressureDiastolic {
		result.Errors = append(result.Errors, FieldError{
			Field:   "blood_pressure_systolic",
			Message: "must be greater than diastolic",
		})
	}

	return result
}

// CriticalVitals reports whether any provided vital sign sits in the
// critical band that warrants immediate clinical attention. These bands are
// narrower than the validation ranges; a reading can be plausible yet
// critical.
func CriticalVitals(v Vitals) bool {
	if v.TemperatureCelsius != nil && (*v.TemperatureCelsius < 35.0 || *v.TemperatureCelsius > 40.0) {
		return true
	}
	if v.PulseBpm != nil && (*v.PulseBpm < 50 || *v.PulseBpm > 150) {
		return true
	}
	if v.OxygenSaturationPercent != nil && *v.OxygenSaturationPercent < 90.0 {
		return true
	}
	return false
}

// ComputeBMI derives body mass index to one decimal place when both weight
// and height are present. Returns nil otherwise.
func ComputeBMI(v Vitals) *float64 {
	if v.WeightKg == nil || v.HeightCm == nil || *v.WeightKg <= 0 || *v.HeightCm <= 0 {
		return nil
	}
	heightM := *v.HeightCm / 100
	bmi := math.Round(*v.WeightKg/(heightM*heightM)*10) / 10
	return &bmi
}
