package pipeline

// Request is one document's journey: the transaction id used for log
// correlation plus the raw XML bytes.
type Request struct {
	Tid  string `json:"tid"`
	Data []byte `json:"-"`
}
