package mapper

import (
	"thinktrends.com/icsr/types"
	"thinktrends.com/icsr/xmltree"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// E2B(R2) container element names.
const (
	tagMessageHeader = "ichicsrmessageheader"
	tagSafetyReport  = "safetyreport"
	tagPatient       = "patient"
	tagDrug          = "drug"
	tagReaction      = "reaction"
)

// Map walks the generic tree and builds the typed intermediate document.
// A missing required container aborts with StructuralViolationError naming
// its path; nothing partial is ever returned. Malformed individual drug or
// reaction entries are excluded and reported as structural-severity findings
// without aborting the rest of the document.
func Map(root *xmltree.Node) (*types.IcsrDocument, []types.ValidationFinding, error) {
	header := locate(root, tagMessageHeader)
	if header == nil {
		return nil, nil, missingContainer(tagMessageHeader)
	}
	report := locate(root, tagSafetyReport)
	if report == nil {
		return nil, nil, missingContainer(tagSafetyReport)
	}
	patient := report.Find(tagPatient)
	if patient == nil {
		return nil, nil, missingContainer(tagSafetyReport + "." + tagPatient)
	}

	doc := types.IcsrDocument{
		Header:  mapHeader(header),
		Report:  mapSafetyReport(report),
		Patient: mapPatient(patient),
	}

	var findings []types.ValidationFinding
	doc.Drugs, findings = mapDrugs(report, findings)
	doc.Reactions, findings = mapReactions(report, findings)
	return &doc, findings, nil
}

func locate(root *xmltree.Node, tag string) *xmltree.Node {
	if root.Tag == tag {
		return root
	}
	return root.Find(tag)
}

func missingContainer(path string) error {
	return &types.StructuralViolationError{
		Path:    path,
		Message: "required container is missing",
	}
}

func mapHeader(node *xmltree.Node) types.MessageHeader {
	return types.MessageHeader{
		MessageType:      text(node, "messagetype"),
		FormatVersion:    text(node, "messageformatversion"),
		SenderID:         text(node, "messagesenderidentifier"),
		ReceiverID:       text(node, "messagereceiveridentifier"),
		TransmissionDate: text(node, "messagedate"),
	}
}

func mapSafetyReport(node *xmltree.Node) types.SafetyReport {
	report := types.SafetyReport{
		ReportID:    text(node, "safetyreportid"),
		ReceiveDate: text(node, "receivedate"),
		Seriousness: types.Seriousness{
			Death:             flagSet(node, "seriousnessdeath"),
			LifeThreatening:   flagSet(node, "seriousnesslifethreatening"),
			Hospitalization:   flagSet(node, "seriousnesshospitalization"),
			Disabling:         flagSet(node, "seriousnessdisabling"),
			CongenitalAnomaly: flagSet(node, "seriousnesscongenitalanomali"),
			Other:             flagSet(node, "seriousnessother"),
		},
	}
	if raw, ok := node.ChildText("reporttype"); ok {
		report.ReportType = types.DecodeReportType(raw)
	}
	if narrative := node.Find("narrativeincludeclinical"); narrative != nil {
		report.Narrative = narrative.Text
	}
	return report
}

func mapPatient(node *xmltree.Node) types.Patient {
	patient := types.Patient{
		AgeValue: text(node, "patientonsetage"),
		AgeUnit:  text(node, "patientonsetageunit"),
		Sex:      types.DecodeSex(text(node, "patientsex")),
	}
	// Weight is optional. An unparsable or non-finite value is not
	// substituted with a default: the raw text stays on the model and the
	// validator reports it. ParseFloat accepts "NaN" and "Inf", which are
	// never plausible weights and would not survive JSON marshaling.
	if raw, ok := node.ChildText("patientweight"); ok && raw != "" {
		patient.WeightRaw = raw
		if kg, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && !math.IsNaN(kg) && !math.IsInf(kg, 0) {
			patient.WeightKg = &kg
		}
	}
	return patient
}

func mapDrugs(report *xmltree.Node, findings []types.ValidationFinding) ([]types.Drug, []types.ValidationFinding) {
	nodes := report.FindAll(tagDrug)
	drugs := make([]types.Drug, 0, len(nodes))
	for i, node := range nodes {
		name := text(node, "medicinalproduct")
		if name == "" {
			findings = append(findings, entryExcluded(
				fmt.Sprintf("drugs[%d].medicinalproduct", i),
				"drug entry has no medicinal product name",
			))
			continue
		}
		drug := types.Drug{
			Name:       name,
			Role:       types.DecodeDrugRole(text(node, "drugcharacterization")),
			Indication: text(node, "drugindication"),
		}
		// Dosage sub-fields may sit directly on the drug element or inside
		// a drugdosage wrapper, depending on the sender.
		dosage := types.DrugDosage{
			Text:      findText(node, "drugdosagetext"),
			Form:      findText(node, "drugdosageform"),
			Route:     findText(node, "drugadministrationroute"),
			StartDate: findText(node, "drugstartdate"),
			EndDate:   findText(node, "drugenddate"),
		}
		if !dosage.IsEmpty() {
			drug.Dosage = &dosage
		}
		drugs = append(drugs, drug)
	}
	return drugs, findings
}

func mapReactions(report *xmltree.Node, findings []types.ValidationFinding) ([]types.Reaction, []types.ValidationFinding) {
	nodes := report.FindAll(tagReaction)
	reactions := make([]types.Reaction, 0, len(nodes))
	for i, node := range nodes {
		term := firstText(node, "primarysourcereaction", "reactionmeddrapt", "reactionmeddrallt")
		if term == "" {
			findings = append(findings, entryExcluded(
				fmt.Sprintf("reactions[%d].primarysourcereaction", i),
				"reaction entry has no coded term text",
			))
			continue
		}
		reactions = append(reactions, types.Reaction{
			Term:       term,
			MeddraCode: text(node, "reactionmeddraptcode"),
			Outcome:    decodeOutcome(node),
		})
	}
	return reactions, findings
}

func decodeOutcome(node *xmltree.Node) types.ReactionOutcome {
	raw, ok := node.ChildText("reactionoutcome")
	if !ok || raw == "" {
		return ""
	}
	return types.DecodeReactionOutcome(raw)
}

func entryExcluded(path string, message string) types.ValidationFinding {
	return types.ValidationFinding{
		Severity: types.SeverityStructural,
		Category: types.CategoryStructuralViolation,
		Path:     path,
		Message:  message + "; entry excluded from the document",
	}
}

func text(node *xmltree.Node, tag string) string {
	value, _ := node.ChildText(tag)
	return strings.TrimSpace(value)
}

func findText(node *xmltree.Node, tag string) string {
	if found := node.Find(tag); found != nil {
		return strings.TrimSpace(found.Text)
	}
	return ""
}

func firstText(node *xmltree.Node, tags ...string) string {
	for _, tag := range tags {
		if value := text(node, tag); value != "" {
			return value
		}
	}
	return ""
}

func flagSet(node *xmltree.Node, tag string) bool {
	return text(node, tag) == "1"
}
