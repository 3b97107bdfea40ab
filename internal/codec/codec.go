// Package codec is lux's wire encoding.
//
// Requests and responses travel as single CBOR data items (RFC 8949). CBOR is
// self-delimiting, so one connection carries exactly one item in each
// direction with no extra framing. The encoder uses Core Deterministic
// Encoding: sorted map keys, smallest integer encoding, no indefinite-length
// items.
//
// Decoding is schema-constrained. Requests decode into a fixed Go struct that
// rejects unknown keys and mistyped values, so nothing but the documented
// request shapes can be produced from wire bytes.
package codec

import (
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

var (
	encMode cbor.EncMode

	// decMode is used for responses and generic values. Unknown struct
	// fields are ignored.
	decMode cbor.DecMode

	// strictDecMode is used for requests.
	strictDecMode cbor.DecMode
)

func init() {
	encOptions := cbor.CoreDetEncOptions()
	// Empty sequences stay sequences on the wire instead of collapsing to null.
	encOptions.NilContainers = cbor.NilContainerAsEmpty
	var err error
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decOptions := cbor.DecOptions{
		DupMapKey:      cbor.DupMapKeyEnforcedAPF,
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		IntDec:         cbor.IntDecConvertSigned,
	}
	decMode, err = decOptions.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}

	decOptions.ExtraReturnErrors = cbor.ExtraDecErrorUnknownField
	strictDecMode, err = decOptions.DecMode()
	if err != nil {
		panic("codec: strict CBOR decoder initialization failed: " + err.Error())
	}
}

// DecodeError reports truncated, malformed or unrecognized input.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "decode: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsDecodeError reports whether err is or wraps a *DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// marshal encodes v using the deterministic encoder. Structs are encoded
// through their `json` tags.
func marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// unmarshal decodes one data item into v. Any failure is a *DecodeError.
func unmarshal(data []byte, v any) error {
	if err := decMode.Unmarshal(data, v); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

// Encode encodes a generic value: nil, bool, integer, float, string,
// []any, or map[string]any, nested arbitrarily. Other types are rejected.
func Encode(v any) ([]byte, error) {
	normalized, err := normalize(v)
	if err != nil {
		return nil, err
	}
	return encMode.Marshal(normalized)
}

// Decode is the inverse of Encode. Integers come back as int64, floats as
// float64, sequences as []any and mappings as map[string]any.
func Decode(data []byte) (any, error) {
	var v any
	if err := decMode.Unmarshal(data, &v); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if _, err := normalize(v); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return v, nil
}

// normalize checks that v belongs to the value union and widens numeric
// types to int64/float64.
func normalize(v any) (any, error) {
	switch x := v.(type) {
	case nil, bool, string, int64, float64:
		return x, nil
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint:
		return uintToInt64(uint64(x))
	case uint64:
		return uintToInt64(x)
	case float32:
		return float64(x), nil
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			n, err := normalize(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = n
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(x))
		for key, item := range x {
			n, err := normalize(item)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			out[key] = n
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value type %T", v)
}

func uintToInt64(u uint64) (any, error) {
	if u > math.MaxInt64 {
		return nil, fmt.Errorf("integer %d overflows int64", u)
	}
	return int64(u), nil
}

// NewDecoder returns a stream decoder reading from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}
