package codec

import (
	"errors"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/luxcatalog/lux/internal/model"
)

// wireRequest is the only shape a request may take on the wire. The presence
// of "id" selects a detail request; otherwise it is a list request and absent
// filters mean "no constraint".
type wireRequest struct {
	ID         *int64  `cbor:"id,omitempty"`
	Label      *string `cbor:"label,omitempty"`
	Classifier *string `cbor:"classifier,omitempty"`
	Agent      *string `cbor:"agent,omitempty"`
	Date       *string `cbor:"date,omitempty"`
}

var (
	errNotMap       = errors.New("request must be a map")
	errIDNotInteger = errors.New("request id must be an integer")
)

// ReadRequest decodes exactly one request from r.
func ReadRequest(r io.Reader) (model.Request, error) {
	var raw cbor.RawMessage
	if err := NewDecoder(r).Decode(&raw); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return DecodeRequest(raw)
}

// DecodeRequest decodes one encoded request.
func DecodeRequest(data []byte) (model.Request, error) {
	if len(data) == 0 || data[0]>>5 != 5 {
		return nil, &DecodeError{Err: errNotMap}
	}
	var w wireRequest
	if err := strictDecMode.Unmarshal(data, &w); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if w.ID != nil {
		return model.DetailRequest{ID: *w.ID}, nil
	}
	// A null id decodes to a nil pointer; the key alone selects a detail
	// request, so it must carry an integer.
	var keys map[string]cbor.RawMessage
	if err := decMode.Unmarshal(data, &keys); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if _, ok := keys["id"]; ok {
		return nil, &DecodeError{Err: errIDNotInteger}
	}
	return model.ListRequest{
		Label:      deref(w.Label),
		Classifier: deref(w.Classifier),
		Agent:      deref(w.Agent),
		Date:       deref(w.Date),
	}, nil
}

// EncodeRequest encodes req in its wire shape. List requests always carry
// all four filter keys.
func EncodeRequest(req model.Request) ([]byte, error) {
	var w wireRequest
	switch r := req.(type) {
	case model.DetailRequest:
		w.ID = &r.ID
	case model.ListRequest:
		w.Label, w.Classifier, w.Agent, w.Date = &r.Label, &r.Classifier, &r.Agent, &r.Date
	default:
		return nil, errors.New("codec: unknown request type")
	}
	return encMode.Marshal(w)
}

// WriteRequest encodes req to w.
func WriteRequest(w io.Writer, req model.Request) error {
	data, err := EncodeRequest(req)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteResponse encodes resp to w.
func WriteResponse(w io.Writer, resp *model.Response) error {
	data, err := marshal(resp)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ReadResponse decodes exactly one response from r.
func ReadResponse(r io.Reader) (*model.Response, error) {
	var resp model.Response
	if err := NewDecoder(r).Decode(&resp); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if resp.Kind() == "" {
		return nil, &DecodeError{Err: errors.New("response carries neither list nor details")}
	}
	return &resp, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
