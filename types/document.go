package types

// MessageHeader carries the E2B(R2) transmission envelope. Exactly one per
// document; field values are kept as transmitted.
type MessageHeader struct {
	MessageType      string `json:"message_type"`
	FormatVersion    string `json:"format_version"`
	SenderID         string `json:"sender_id"`
	ReceiverID       string `json:"receiver_id"`
	TransmissionDate string `json:"transmission_date"`
}

// Seriousness is the set of regulatory seriousness criteria claimed by the
// report. An element value of "1" in the source marks the criterion as set.
type Seriousness struct {
	Death             bool `json:"death"`
	LifeThreatening   bool `json:"life_threatening"`
	Hospitalization   bool `json:"hospitalization"`
	Disabling         bool `json:"disabling"`
	CongenitalAnomaly bool `json:"congenital_anomaly"`
	Other             bool `json:"other"`
}

func (s Seriousness) Any() bool {
	return s.Death || s.LifeThreatening || s.Hospitalization || s.Disabling || s.CongenitalAnomaly || s.Other
}

type SafetyReport struct {
	ReportID    string      `json:"report_id"`
	ReportType  ReportType  `json:"report_type"`
	ReceiveDate string      `json:"receive_date"`
	Seriousness Seriousness `json:"seriousness"`
	Narrative   string      `json:"narrative,omitempty"`
}

// Patient demographics. Age and weight stay close to their source encoding:
// AgeValue is the raw transmitted string (E2B sends ages as text), WeightKg
// is only set when the source text parsed as a decimal. When it did not,
// WeightRaw keeps the original text so the validator can report it.
type Patient struct {
	AgeValue  string   `json:"age_value,omitempty"`
	AgeUnit   string   `json:"age_unit,omitempty"`
	Sex       Sex      `json:"sex"`
	WeightKg  *float64 `json:"weight_kg,omitempty"`
	WeightRaw string   `json:"weight_raw,omitempty"`
}

type DrugDosage struct {
	Text      string `json:"text,omitempty"`
	Form      string `json:"form,omitempty"`
	Route     string `json:"route,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

func (d DrugDosage) IsEmpty() bool {
	return d == DrugDosage{}
}

type Drug struct {
	Name       string      `json:"name"`
	Role       DrugRole    `json:"role"`
	Indication string      `json:"indication,omitempty"`
	Dosage     *DrugDosage `json:"dosage,omitempty"`
}

type Reaction struct {
	Term       string          `json:"term"`
	MeddraCode string          `json:"meddra_code,omitempty"`
	Outcome    ReactionOutcome `json:"outcome,omitempty"`
}

// IcsrDocument is the intermediate model passed between mapper, validator
// and transformer. It is only ever constructed with all three required
// containers present; drug and reaction order follows the source document.
type IcsrDocument struct {
	Header    MessageHeader `json:"header"`
	Report    SafetyReport  `json:"report"`
	Patient   Patient       `json:"patient"`
	Drugs     []Drug        `json:"drugs"`
	Reactions []Reaction    `json:"reactions"`
}
