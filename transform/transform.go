package transform

import (
	"thinktrends.com/icsr/types"
)

// Build produces the canonical record from a structurally valid document.
// It is total and deterministic: business-rule findings never prevent the
// record from existing, and nothing here can fail. Medication and reaction
// order follows the source (the reporter lists the primary suspect first),
// and reviewer-visible values, including invalid role strings, pass through
// unmodified.
func Build(doc *types.IcsrDocument) types.CanonicalReport {
	report := types.CanonicalReport{
		ReportIdentifier: doc.Report.ReportID,
		ReportSource:     types.ReportSourceE2BR2Medwatch,
		IsSerious:        doc.Report.Seriousness.Any(),
		PatientDemographics: types.Demographics{
			AgeValue: optional(doc.Patient.AgeValue),
			Gender:   string(doc.Patient.Sex),
			WeightKg: copyFloat(doc.Patient.WeightKg),
		},
		Medications:      make([]types.Medication, 0, len(doc.Drugs)),
		AdverseReactions: make([]types.AdverseReaction, 0, len(doc.Reactions)),
	}
	for _, drug := range doc.Drugs {
		report.Medications = append(report.Medications, types.Medication{
			Name:       drug.Name,
			Role:       string(drug.Role),
			Indication: optional(drug.Indication),
		})
	}
	for _, reaction := range doc.Reactions {
		report.AdverseReactions = append(report.AdverseReactions, types.AdverseReaction{
			Term:       reaction.Term,
			MeddraCode: optional(reaction.MeddraCode),
		})
	}
	return report
}

// optional maps an empty string to an explicit null, never to a sentinel.
func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func copyFloat(value *float64) *float64 {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
