package pipeline

import (
	"thinktrends.com/icsr/types"
)

type Disposition string

const (
	DispositionAccepted             Disposition = "accepted"
	DispositionAcceptedWithFindings Disposition = "accepted_with_findings"
	DispositionRejected             Disposition = "rejected"
)

type RejectReason string

const (
	ReasonMalformedDocument    RejectReason = "malformed_document"
	ReasonStructuralViolation  RejectReason = "structural_violation"
	ReasonMissingRequiredField RejectReason = "missing_required_field"
)

// Result is the single discriminated value the core returns per document.
// It carries everything the orchestrator needs to route the record without
// inspecting internal stage state: the disposition, the rejection reason and
// location when rejected, every finding, and the canonical report when one
// was produced.
type Result struct {
	Tid               string                    `json:"tid"`
	SourceFingerprint string                    `json:"source_fingerprint"`
	Disposition       Disposition               `json:"disposition"`
	Reason            RejectReason              `json:"reason,omitempty"`
	Path              string                    `json:"path,omitempty"`
	Message           string                    `json:"message,omitempty"`
	Findings          []types.ValidationFinding `json:"findings,omitempty"`
	Report            *types.CanonicalReport    `json:"report,omitempty"`
}

func rejectedMalformed(tid string, fingerprint string, err *types.MalformedDocumentError) Result {
	return Result{
		Tid:               tid,
		SourceFingerprint: fingerprint,
		Disposition:       DispositionRejected,
		Reason:            ReasonMalformedDocument,
		Message:           err.Error(),
	}
}

func rejectedStructural(tid string, fingerprint string, err *types.StructuralViolationError) Result {
	return Result{
		Tid:               tid,
		SourceFingerprint: fingerprint,
		Disposition:       DispositionRejected,
		Reason:            ReasonStructuralViolation,
		Path:              err.Path,
		Message:           err.Message,
	}
}

// classify folds the validator's outcome and the canonical report into the
// final discriminated result. Any blocking finding routes the document to
// rejection; non-blocking findings travel with the accepted record so a
// reviewer sees specifics without the record being dropped.
func classify(tid string, fingerprint string, report types.CanonicalReport, findings []types.ValidationFinding) Result {
	result := Result{
		Tid:               tid,
		SourceFingerprint: fingerprint,
		Findings:          findings,
	}
	switch {
	case types.HasBlocking(findings):
		result.Disposition = DispositionRejected
		result.Reason = ReasonMissingRequiredField
	case len(findings) > 0:
		result.Disposition = DispositionAcceptedWithFindings
		result.Report = &report
	default:
		result.Disposition = DispositionAccepted
		result.Report = &report
	}
	return result
}
