package types

type Severity string

const (
	SeverityStructural Severity = "structural"
	SeverityBusiness   Severity = "business-rule"
)

type Category string

const (
	CategoryStructuralViolation  Category = "StructuralViolation"
	CategoryMissingRequiredField Category = "MissingRequiredField"
	CategoryInvalidFormat        Category = "InvalidFormat"
	CategoryInvalidCode          Category = "InvalidCode"
	CategoryOutOfRange           Category = "OutOfRange"
)

// ValidationFinding is pure data describing one defect. Path uses the E2B
// element names with bracket indices (e.g. "drugs[1].drugcharacterization")
// so a reviewer can locate the field without re-parsing the source.
type ValidationFinding struct {
	Severity Severity `json:"severity"`
	Category Category `json:"category"`
	Path     string   `json:"path"`
	Message  string   `json:"message"`
}

// Blocking reports whether the finding routes the whole document to
// rejection. Only missing required fields block; everything else goes to
// manual review alongside the canonical output.
func (f ValidationFinding) Blocking() bool {
	return f.Category == CategoryMissingRequiredField
}

func HasBlocking(findings []ValidationFinding) bool {
	for _, f := range findings {
		if f.Blocking() {
			return true
		}
	}
	return false
}
