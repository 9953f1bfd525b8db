package types

// ReportSourceE2BR2Medwatch marks every canonical record produced from this
// intake format.
const ReportSourceE2BR2Medwatch = "E2B_R2_MEDWATCH"

// CanonicalReport is the downstream record. Absent optionals serialize as
// JSON null, never as a zero that could pass for real data.
type CanonicalReport struct {
	ReportIdentifier    string            `json:"report_identifier"`
	ReportSource        string            `json:"report_source"`
	IsSerious           bool              `json:"is_serious"`
	PatientDemographics Demographics      `json:"patient_demographics"`
	Medications         []Medication      `json:"medications"`
	AdverseReactions    []AdverseReaction `json:"adverse_reactions"`
}

type Demographics struct {
	AgeValue *string  `json:"age_value"`
	Gender   string   `json:"gender"`
	WeightKg *float64 `json:"weight_kg"`
}

type Medication struct {
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	Indication *string `json:"indication"`
}

type AdverseReaction struct {
	Term       string  `json:"term"`
	MeddraCode *string `json:"meddra_code"`
}
