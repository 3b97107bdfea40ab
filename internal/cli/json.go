package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Response is the standard JSON envelope for all CLI output.
type Response struct {
	OK    bool       `json:"ok"`
	Data  any        `json:"data,omitempty"`
	Error *ErrorInfo `json:"error,omitempty"`
	Meta  *Meta      `json:"meta,omitempty"`
}

// ErrorInfo contains structured error information.
type ErrorInfo struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Meta contains metadata about the response.
type Meta struct {
	Count       int    `json:"count"`
	Source      string `json:"source,omitempty"`
	QueryTimeMs int64  `json:"query_time_ms"`
}

func outputJSON(w io.Writer, resp Response) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(resp)
}

func outputSuccess(w io.Writer, data any, meta *Meta) {
	outputJSON(w, Response{OK: true, Data: data, Meta: meta})
}

func outputError(w io.Writer, code, message, suggestion string) {
	outputJSON(w, Response{
		OK:    false,
		Error: &ErrorInfo{Code: code, Message: message, Suggestion: suggestion},
	})
}

// outputYAML writes data as a YAML document.
func outputYAML(w io.Writer, data any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// handleError reports err in the current output mode. In JSON mode the error
// goes to stdout as an envelope and nil is returned so cobra stays quiet.
func (a *app) handleError(w io.Writer, code string, err error) error {
	if a.jsonOutput {
		outputError(w, code, err.Error(), errorSuggestion(code))
		return nil
	}
	if hint := errorSuggestion(code); hint != "" {
		return fmt.Errorf("%w\n\n%s", err, hint)
	}
	return err
}
