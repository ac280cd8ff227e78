package assessment

// Adult (Morse) category values.
const (
	AidNone               = "none"
	AidCrutchesCaneWalker = "crutches_cane_walker"
	AidFurniture          = "furniture"
	AidWheelchair         = "wheelchair"
	AidNurseAssist        = "nurse_assist"

	GaitNormal     = "normal"
	GaitBedrest    = "bedrest"
	GaitWheelchair = "wheelchair"
	GaitWeak       = "weak"
	GaitImpaired   = "impaired"

	MentalAware         = "aware"
	MentalOverestimates = "overestimates"
)

// Pediatric (Humpty Dumpty) category values.
const (
	GenderMale = "male"

	DiagnosisNeurological = "neurological"
	DiagnosisOxygenation  = "oxygenation"
	DiagnosisBehavioral   = "behavioral"
	DiagnosisOther        = "other"

	CognitiveUnaware  = "unaware"
	CognitiveForgets  = "forgets"
	CognitiveOriented = "oriented"

	EnvHistoryFall      = "history_fall"
	EnvAssistiveDevices = "assistive_devices"
	EnvInfantBed        = "infant_bed"
	EnvOutpatient       = "outpatient"

	SurgeryWithin24h = "within_24h"
	SurgeryWithin48h = "within_48h"
	SurgeryNone      = "none"

	MedicationMultiple = "multiple"
	MedicationOne      = "one"
	MedicationNone     = "none"
)

// ScoreAdultFallRisk computes the Morse fall scale. Unrecognized category
// values fall through to the zero-weight branch, keeping the function total;
// strict rejection happens upstream in the service when configured.
func ScoreAdultFallRisk(in AdultFallRiskInput) FallRisk {
	score := 0
	if in.PreviousFall {
		score += 25
	}
	if in.SecondaryDiagnosis {
		score += 15
	}
	switch in.AmbulatoryAid {
	case AidFurniture:
		score += 30
	case AidCrutchesCaneWalker:
		score += 15
	}
	if in.IVTherapy {
		score += 20
	}
	switch in.Gait {
	case GaitImpaired:
		score += 20
	case GaitWeak:
		score += 10
	}
	if in.MentalStatus == MentalOverestimates {
		score += 15
	}

	return FallRisk{Score: score, Level: adultRiskLevel(score)}
}

func adultRiskLevel(score int) RiskLevel {
	switch {
	case score >= 50:
		return RiskHigh
	case score >= 25:
		return RiskModerate
	default:
		return RiskLow
	}
}

// ScorePediatricFallRisk computes the Humpty Dumpty scale: the sum of seven
// category weights. Subjects younger than six score the youngest band.
func ScorePediatricFallRisk(in PediatricFallRiskInput) FallRisk {
	score := pediatricAgeWeight(in.Age)

	if in.Gender == GenderMale {
		score += 2
	} else {
		score++
	}

	switch in.Diagnosis {
	case DiagnosisNeurological:
		score += 4
	case DiagnosisOxygenation:
		score += 3
	case DiagnosisBehavioral:
		score += 2
	default:
		score++
	}

	switch in.Cognitive {
	case CognitiveUnaware:
		score += 3
	case CognitiveForgets:
		score += 2
	default:
		score++
	}

	switch in.Environmental {
	case EnvHistoryFall:
		score += 4
	case EnvAssistiveDevices:
		score += 3
	case EnvInfantBed:
		score += 2
	default:
		score++
	}

	switch in.Surgery {
	case SurgeryWithin24h:
		score += 3
	case SurgeryWithin48h:
		score += 2
	default:
		score++
	}

	switch in.Medication {
	case MedicationMultiple:
		score += 3
	case MedicationOne:
		score += 2
	default:
		score++
	}

	return FallRisk{Score: score, Level: pediatricRiskLevel(score)}
}

func pediatricRiskLevel(score int) RiskLevel {
	switch {
	case score >= 12:
		return RiskHigh
	case score >= 7:
		return RiskModerate
	default:
		return RiskLow
	}
}

func pediatricAgeWeight(age int) int {
	switch {
	case age < 7:
		return 3
	case age < 13:
		return 2
	default:
		return 1
	}
}

var (
	adultAidValues = map[string]bool{
		"": true, AidNone: true, AidCrutchesCaneWalker: true, AidFurniture: true,
		AidWheelchair: true, AidNurseAssist: true,
	}
	adultGaitValues = map[string]bool{
		"": true, GaitNormal: true, GaitBedrest: true, GaitWheelchair: true,
		GaitWeak: true, GaitImpaired: true,
	}
	adultMentalValues = map[string]bool{
		"": true, MentalAware: true, MentalOverestimates: true,
	}
	pediatricDiagnosisValues = map[string]bool{
		"": true, DiagnosisNeurological: true, DiagnosisOxygenation: true,
		DiagnosisBehavioral: true, DiagnosisOther: true,
	}
	pediatricCognitiveValues = map[string]bool{
		"": true, CognitiveUnaware: true, CognitiveForgets: true, CognitiveOriented: true,
	}
	pediatricEnvValues = map[string]bool{
		"": true, EnvHistoryFall: true, EnvAssistiveDevices: true,
		EnvInfantBed: true, EnvOutpatient: true,
	}
	pediatricSurgeryValues = map[string]bool{
		"": true, SurgeryWithin24h: true, SurgeryWithin48h: true, SurgeryNone: true,
	}
	pediatricMedicationValues = map[string]bool{
		"": true, MedicationMultiple: true, MedicationOne: true, MedicationNone: true,
	}
)

// UnknownAdultCategories reports category fields carrying values outside the
// documented enums. Used by the strict submission mode; the scorers
// themselves never reject.
func UnknownAdultCategories(in AdultFallRiskInput) []FieldError {
	var errs []FieldError
	if !adultAidValues[in.AmbulatoryAid] {
		errs = append(errs, FieldError{Field: "ambulatory_aid", Message: "unrecognized category"})
	}
	if !adultGaitValues[in.Gait] {
		errs = append(errs, FieldError{Field: "gait_status", Message: "unrecognized category"})
	}
	if !adultMentalValues[in.MentalStatus] {
		errs = append(errs, FieldError{Field: "mental_status", Message: "unrecognized category"})
	}
	return errs
}

// UnknownPediatricCategories is the pediatric counterpart of
// UnknownAdultCategories. Gender is intentionally unconstrained.
func UnknownPediatricCategories(in PediatricFallRiskInput) []FieldError {
	var errs []FieldError
	if !pediatricDiagnosisValues[in.Diagnosis] {
		errs = append(errs, FieldError{Field: "pediatric_diagnosis", Message: "unrecognized category"})
	}
	if !pediatricCognitiveValues[in.Cognitive] {
		errs = append(errs, FieldError{Field: "pediatric_cognitive", Message: "unrecognized category"})
	}
	if !pediatricEnvValues[in.Environmental] {
		errs = append(errs, FieldError{Field: "pediatric_environmental", Message: "unrecognized category"})
	}
	if !pediatricSurgeryValues[in.Surgery] {
		errs = append(errs, FieldError{Field: "pediatric_surgery", Message: "unrecognized category"})
	}
	if !pediatricMedicationValues[in.Medication] {
		errs = append(errs, FieldError{Field: "pediatric_medication", Message: "unrecognized category"})
	}
	return errs
}
