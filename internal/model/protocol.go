package model

// MaxListRows caps the number of rows a list response may carry.
const MaxListRows = 1000

// Request is either a ListRequest or a DetailRequest.
type Request interface {
	// Kind returns "list" or "detail".
	Kind() string
	isRequest()
}

// ListRequest asks for object summaries matching optional substring filters.
// An empty field imposes no constraint.
type ListRequest struct {
	Label      string `json:"label" yaml:"label"`
	Classifier string `json:"classifier" yaml:"classifier"`
	Agent      string `json:"agent" yaml:"agent"`
	Date       string `json:"date" yaml:"date"`
}

// DetailRequest asks for the full record of one object.
type DetailRequest struct {
	ID int64 `json:"id" yaml:"id"`
}

func (ListRequest) Kind() string   { return "list" }
func (DetailRequest) Kind() string { return "detail" }

func (ListRequest) isRequest()   {}
func (DetailRequest) isRequest() {}

// ListResponse carries at most MaxListRows summaries ordered by label, then date.
type ListResponse struct {
	Rows []ObjectSummary `json:"rows" yaml:"rows"`
}

// DetailResponse is the composite record for one object.
//
// When Summary is nil the object was not found and the remaining fields carry
// no meaning.
type DetailResponse struct {
	Summary         *DetailSummary `json:"summary" yaml:"summary"`
	Label           string         `json:"label" yaml:"label"`
	Productions     []Production   `json:"productions" yaml:"productions"`
	Classifications []string       `json:"classifications" yaml:"classifications"`
	References      []Reference    `json:"references" yaml:"references"`
}

// Found reports whether the requested object exists.
func (d *DetailResponse) Found() bool {
	return d != nil && d.Summary != nil
}

// Response is the wire envelope: exactly one of List or Details is set.
type Response struct {
	List    *ListResponse   `json:"list,omitempty" yaml:"list,omitempty"`
	Details *DetailResponse `json:"details,omitempty" yaml:"details,omitempty"`
}

// Kind returns "list", "detail", or "" for an empty envelope.
func (r *Response) Kind() string {
	switch {
	case r == nil:
		return ""
	case r.List != nil:
		return "list"
	case r.Details != nil:
		return "detail"
	}
	return ""
}
