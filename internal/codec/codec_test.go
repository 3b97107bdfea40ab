package codec

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/luxcatalog/lux/internal/model"
)

func TestValueRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{name: "null", value: nil},
		{name: "true", value: true},
		{name: "false", value: false},
		{name: "zero", value: int64(0)},
		{name: "negative int", value: int64(-42)},
		{name: "large int", value: int64(1 << 40)},
		{name: "float", value: 3.25},
		{name: "integral float stays float", value: 2.0},
		{name: "string", value: "Jane Doe (artist)"},
		{name: "empty string", value: ""},
		{name: "empty sequence", value: []any{}},
		{name: "empty mapping", value: map[string]any{}},
		{
			name: "nested",
			value: map[string]any{
				"list": []any{
					[]any{int64(1), "Untitled", "1920", nil, 1.5},
					map[string]any{"ok": true},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.value)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			got, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.value) {
				t.Fatalf("round trip = %#v, want %#v", got, tt.value)
			}
		})
	}
}

func TestEncodeWidensIntegers(t *testing.T) {
	data, err := Encode([]any{7, uint16(8), float32(0.5)})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := []any{int64(7), int64(8), 0.5}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Decode() = %#v, want %#v", got, want)
	}
}

func TestEncodeRejectsValuesOutsideUnion(t *testing.T) {
	for _, v := range []any{
		[]byte("raw"),
		struct{ A int }{1},
		map[int]any{1: "x"},
		[]any{"ok", make(chan int)},
	} {
		if _, err := Encode(v); err == nil {
			t.Errorf("Encode(%T) succeeded, want error", v)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	valid, err := Encode(map[string]any{"label": "vase"})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "truncated", data: valid[:len(valid)-2]},
		{name: "trailing bytes", data: append(append([]byte{}, valid...), 0x01)},
		{name: "reserved additional info", data: []byte{0x1c}},
		{name: "byte string", data: []byte{0x43, 'a', 'b', 'c'}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if err == nil {
				t.Fatal("Decode() succeeded, want error")
			}
			if !IsDecodeError(err) {
				t.Fatalf("Decode() error = %T, want *DecodeError", err)
			}
		})
	}
}

func TestDecodeRequest(t *testing.T) {
	mustEncode := func(v any) []byte {
		t.Helper()
		data, err := Encode(v)
		if err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		return data
	}

	tests := []struct {
		name    string
		data    []byte
		want    model.Request
		wantErr bool
	}{
		{
			name: "detail",
			data: mustEncode(map[string]any{"id": int64(17)}),
			want: model.DetailRequest{ID: 17},
		},
		{
			name: "full list",
			data: mustEncode(map[string]any{"label": "vase", "classifier": "ceramic", "agent": "doe", "date": "19"}),
			want: model.ListRequest{Label: "vase", Classifier: "ceramic", Agent: "doe", Date: "19"},
		},
		{
			name: "missing filters default to no constraint",
			data: mustEncode(map[string]any{"agent": "doe"}),
			want: model.ListRequest{Agent: "doe"},
		},
		{
			name: "null filter is absent",
			data: mustEncode(map[string]any{"label": nil}),
			want: model.ListRequest{},
		},
		{
			name: "empty map is an unfiltered list",
			data: mustEncode(map[string]any{}),
			want: model.ListRequest{},
		},
		{name: "unknown key", data: mustEncode(map[string]any{"sql": "DROP TABLE objects"}), wantErr: true},
		{name: "null id", data: []byte{0xa1, 0x62, 'i', 'd', 0xf6}, wantErr: true},
		{name: "null id with filters", data: mustEncode(map[string]any{"id": nil, "label": "vase"}), wantErr: true},
		{name: "string id", data: mustEncode(map[string]any{"id": "17"}), wantErr: true},
		{name: "float id", data: mustEncode(map[string]any{"id": 1.5}), wantErr: true},
		{name: "numeric filter", data: mustEncode(map[string]any{"label": int64(3)}), wantErr: true},
		{name: "sequence", data: mustEncode([]any{"id", int64(1)}), wantErr: true},
		{name: "scalar", data: mustEncode("list"), wantErr: true},
		{name: "garbage", data: []byte{0xff, 0x00}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeRequest(tt.data)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("DecodeRequest() = %#v, want error", got)
				}
				if !IsDecodeError(err) {
					t.Fatalf("DecodeRequest() error = %T, want *DecodeError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeRequest() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("DecodeRequest() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestRequestStreamRoundTrip(t *testing.T) {
	for _, req := range []model.Request{
		model.DetailRequest{ID: 9},
		model.ListRequest{Label: "bowl"},
		model.ListRequest{},
	} {
		var buf bytes.Buffer
		if err := WriteRequest(&buf, req); err != nil {
			t.Fatalf("WriteRequest(%#v) error = %v", req, err)
		}
		got, err := ReadRequest(&buf)
		if err != nil {
			t.Fatalf("ReadRequest() error = %v", err)
		}
		if !reflect.DeepEqual(got, req) {
			t.Fatalf("ReadRequest() = %#v, want %#v", got, req)
		}
	}
}

func TestReadRequestEmptyStream(t *testing.T) {
	_, err := ReadRequest(bytes.NewReader(nil))
	if !IsDecodeError(err) {
		t.Fatalf("ReadRequest() error = %v, want *DecodeError", err)
	}
	if !errors.Is(err, io.EOF) {
		t.Fatalf("ReadRequest() error = %v, want wrapped io.EOF", err)
	}
}

func TestResponseStreamRoundTrip(t *testing.T) {
	detail := &model.Response{Details: &model.DetailResponse{
		Summary: &model.DetailSummary{
			AccessionNo: "1961.18.2",
			Date:        "1890",
			Places:      []string{"New York"},
			Department:  "Prints and Drawings",
		},
		Label: "Harbor at dusk",
		Productions: []model.Production{
			{Part: "artist", AgentName: "Jane Doe", Timespan: "1920-1985", Nationalities: "French, American"},
		},
		Classifications: []string{"etching"},
		References:      []model.Reference{{Type: "Provenance", Content: "Gift of the artist"}},
	}}

	var buf bytes.Buffer
	if err := WriteResponse(&buf, detail); err != nil {
		t.Fatalf("WriteResponse() error = %v", err)
	}
	got, err := ReadResponse(&buf)
	if err != nil {
		t.Fatalf("ReadResponse() error = %v", err)
	}
	if !reflect.DeepEqual(got, detail) {
		t.Fatalf("ReadResponse() = %#v, want %#v", got, detail)
	}
}

func TestResponseEmptySequencesSurvive(t *testing.T) {
	resp := &model.Response{List: &model.ListResponse{}}

	var buf bytes.Buffer
	if err := WriteResponse(&buf, resp); err != nil {
		t.Fatalf("WriteResponse() error = %v", err)
	}
	generic, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := map[string]any{"list": map[string]any{"rows": []any{}}}
	if !reflect.DeepEqual(generic, want) {
		t.Fatalf("wire value = %#v, want %#v", generic, want)
	}
}

func TestNotFoundSummaryIsNull(t *testing.T) {
	resp := &model.Response{Details: &model.DetailResponse{}}
	data, err := marshal(resp)
	if err != nil {
		t.Fatalf("marshal() error = %v", err)
	}
	generic, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	details := generic.(map[string]any)["details"].(map[string]any)
	summary, ok := details["summary"]
	if !ok || summary != nil {
		t.Fatalf("summary = %#v (present %v), want explicit null", summary, ok)
	}

	var back model.Response
	if err := unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal() error = %v", err)
	}
	if back.Details.Found() {
		t.Fatal("Found() = true for absent summary")
	}
}
