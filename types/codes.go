package types

// E2B(R2) transmits most enumerations as small numeric codes. The decoders
// below translate known codes to their domain names and pass unknown values
// through verbatim: a wrong code is a reviewable data-quality finding, not
// something to silently rewrite.

type ReportType string

const (
	ReportTypeSpontaneous  ReportType = "spontaneous"
	ReportTypeStudy        ReportType = "study"
	ReportTypeOtherSource  ReportType = "other-source"
	ReportTypeNotAvailable ReportType = "not-available"
)

func (t ReportType) Valid() bool {
	switch t {
	case ReportTypeSpontaneous, ReportTypeStudy, ReportTypeOtherSource, ReportTypeNotAvailable:
		return true
	}
	return false
}

func DecodeReportType(code string) ReportType {
	switch code {
	case "1":
		return ReportTypeSpontaneous
	case "2":
		return ReportTypeStudy
	case "3":
		return ReportTypeOtherSource
	case "4":
		return ReportTypeNotAvailable
	}
	return ReportType(code)
}

type Sex string

const (
	SexMale    Sex = "M"
	SexFemale  Sex = "F"
	SexUnknown Sex = "U"
)

func DecodeSex(code string) Sex {
	switch code {
	case "1":
		return SexMale
	case "2":
		return SexFemale
	}
	return SexUnknown
}

type DrugRole string

const (
	DrugRoleSuspect     DrugRole = "suspect"
	DrugRoleConcomitant DrugRole = "concomitant"
	DrugRoleInteracting DrugRole = "interacting"
)

func (r DrugRole) Valid() bool {
	switch r {
	case DrugRoleSuspect, DrugRoleConcomitant, DrugRoleInteracting:
		return true
	}
	return false
}

// DecodeDrugRole maps drugcharacterization codes. Unknown text is preserved
// so reviewers see exactly what the reporter sent.
func DecodeDrugRole(code string) DrugRole {
	switch code {
	case "1":
		return DrugRoleSuspect
	case "2":
		return DrugRoleConcomitant
	case "3":
		return DrugRoleInteracting
	}
	return DrugRole(code)
}

type ReactionOutcome string

const (
	OutcomeRecovered         ReactionOutcome = "recovered"
	OutcomeRecovering        ReactionOutcome = "recovering"
	OutcomeNotRecovered      ReactionOutcome = "not-recovered"
	OutcomeRecoveredSequelae ReactionOutcome = "recovered-with-sequelae"
	OutcomeFatal             ReactionOutcome = "fatal"
	OutcomeUnknown           ReactionOutcome = "unknown"
)

func DecodeReactionOutcome(code string) ReactionOutcome {
	switch code {
	case "1":
		return OutcomeRecovered
	case "2":
		return OutcomeRecovering
	case "3":
		return OutcomeNotRecovered
	case "4":
		return OutcomeRecoveredSequelae
	case "5":
		return OutcomeFatal
	case "6":
		return OutcomeUnknown
	}
	return ReactionOutcome(code)
}

// Age unit codes (E2B table for patientonsetageunit), expressed as the
// factor converting one unit to years.
func AgeUnitToYears(code string) float64 {
	switch code {
	case "800": // decade
		return 10
	case "801", "": // year; empty defaults to years
		return 1
	case "802": // month
		return 1.0 / 12
	case "803": // week
		return 1.0 / 52
	case "804": // day
		return 1.0 / 365
	case "805": // hour
		return 1.0 / 8760
	}
	return 1
}
