package validate

import (
	"thinktrends.com/icsr/types"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

// Business-rule validation. Check never mutates the document and never
// fails: it accumulates every finding so the caller sees the complete
// defect set in one pass. Rule order is fixed: presence, date format,
// MedDRA codes, plausibility ranges, drug characterization.

// Both receive dates and MedDRA PT codes are transmitted as exactly eight
// digits.
var eightDigits = regexp.MustCompile(`^[0-9]{8}$`)

const receiveDateLayout = "20060102"

func Check(doc *types.IcsrDocument, profile types.Profile) []types.ValidationFinding {
	var findings []types.ValidationFinding
	findings = checkRequired(doc, findings)
	findings = checkReceiveDate(doc, findings)
	findings = checkMeddraCodes(doc, findings)
	findings = checkRanges(doc, profile, findings)
	findings = checkDrugRoles(doc, findings)
	return findings
}

func checkRequired(doc *types.IcsrDocument, findings []types.ValidationFinding) []types.ValidationFinding {
	if doc.Report.ReportID == "" {
		findings = append(findings, missing("safetyreportid", "safety report identifier is empty"))
	}
	if !doc.Report.ReportType.Valid() {
		msg := fmt.Sprintf("report type %q is not one of spontaneous, study, other-source, not-available", doc.Report.ReportType)
		if doc.Report.ReportType == "" {
			msg = "report type is missing"
		}
		findings = append(findings, missing("reporttype", msg))
	}
	if doc.Report.ReceiveDate == "" {
		findings = append(findings, missing("receivedate", "receive date is missing"))
	}
	if len(doc.Reactions) == 0 {
		findings = append(findings, missing("reactions", "at least one reaction is required"))
	}
	return findings
}

func checkReceiveDate(doc *types.IcsrDocument, findings []types.ValidationFinding) []types.ValidationFinding {
	raw := doc.Report.ReceiveDate
	if raw == "" {
		return findings
	}
	if !eightDigits.MatchString(raw) {
		return append(findings, finding(
			types.CategoryInvalidFormat,
			"receivedate",
			fmt.Sprintf("receive date %q is not an 8-digit yyyymmdd value", raw),
		))
	}
	if _, err := time.Parse(receiveDateLayout, raw); err != nil {
		return append(findings, finding(
			types.CategoryInvalidFormat,
			"receivedate",
			fmt.Sprintf("receive date %q is not a real calendar date", raw),
		))
	}
	return findings
}

func checkMeddraCodes(doc *types.IcsrDocument, findings []types.ValidationFinding) []types.ValidationFinding {
	for i, reaction := range doc.Reactions {
		if reaction.MeddraCode == "" {
			continue
		}
		if !eightDigits.MatchString(reaction.MeddraCode) {
			findings = append(findings, finding(
				types.CategoryInvalidCode,
				fmt.Sprintf("reactions[%d].reactionmeddraptcode", i),
				fmt.Sprintf("MedDRA code %q is not an 8-digit numeric code", reaction.MeddraCode),
			))
		}
	}
	return findings
}

func checkRanges(doc *types.IcsrDocument, profile types.Profile, findings []types.ValidationFinding) []types.ValidationFinding {
	if raw := doc.Patient.AgeValue; raw != "" {
		// ParseFloat accepts "NaN" and "Inf"; every comparison against a
		// NaN is false, so a non-finite age would slip past the range check.
		age, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(age) || math.IsInf(age, 0) {
			findings = append(findings, finding(
				types.CategoryInvalidFormat,
				"patient.patientonsetage",
				fmt.Sprintf("patient age %q is not a finite number", raw),
			))
		} else {
			years := age * types.AgeUnitToYears(doc.Patient.AgeUnit)
			if years < profile.AgeYearsMin || years > profile.AgeYearsMax {
				findings = append(findings, finding(
					types.CategoryOutOfRange,
					"patient.patientonsetage",
					fmt.Sprintf("patient age %.4g years is outside the plausible range [%v, %v]",
						years, profile.AgeYearsMin, profile.AgeYearsMax),
				))
			}
		}
	}
	if doc.Patient.WeightRaw != "" && doc.Patient.WeightKg == nil {
		findings = append(findings, finding(
			types.CategoryInvalidFormat,
			"patient.patientweight",
			fmt.Sprintf("patient weight %q is not a decimal number", doc.Patient.WeightRaw),
		))
	}
	if kg := doc.Patient.WeightKg; kg != nil {
		if math.IsNaN(*kg) || math.IsInf(*kg, 0) {
			findings = append(findings, finding(
				types.CategoryInvalidFormat,
				"patient.patientweight",
				fmt.Sprintf("patient weight %v is not a finite number", *kg),
			))
		} else if *kg < profile.WeightKgMin || *kg > profile.WeightKgMax {
			findings = append(findings, finding(
				types.CategoryOutOfRange,
				"patient.patientweight",
				fmt.Sprintf("patient weight %.4g kg is outside the plausible range [%v, %v]",
					*kg, profile.WeightKgMin, profile.WeightKgMax),
			))
		}
	}
	return findings
}

func checkDrugRoles(doc *types.IcsrDocument, findings []types.ValidationFinding) []types.ValidationFinding {
	for i, drug := range doc.Drugs {
		if drug.Role.Valid() {
			continue
		}
		msg := fmt.Sprintf("drug role %q is not one of suspect, concomitant, interacting", drug.Role)
		if drug.Role == "" {
			msg = "drug characterization is missing"
		}
		findings = append(findings, finding(
			types.CategoryInvalidCode,
			fmt.Sprintf("drugs[%d].drugcharacterization", i),
			msg,
		))
	}
	return findings
}

func missing(path string, message string) types.ValidationFinding {
	return finding(types.CategoryMissingRequiredField, path, message)
}

func finding(category types.Category, path string, message string) types.ValidationFinding {
	return types.ValidationFinding{
		Severity: types.SeverityBusiness,
		Category: category,
		Path:     path,
		Message:  message,
	}
}
