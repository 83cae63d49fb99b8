// Package normalize turns flexible wire fields into native domain values.
//
// A flexible field may arrive as native JSON, as a JSON-encoded string, as a
// string encoded twice, or not at all. Every decode helper returns a
// *DecodeError; the exported functions discard it into the field's default
// after logging, so callers never see a failure.
package normalize

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"flight_logbook/internal/models"
)

// maxDecodePasses bounds how many string layers are peeled off a field
const maxDecodePasses = 2

// DecodeError describes why a flexible field fell back to its default
type DecodeError struct {
	Field  string
	Kind   models.RawKind
	Passes int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s (%s, %d passes): %v", e.Field, e.Kind, e.Passes, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// unwrap peels JSON string layers off raw until it reaches a non-string
// value. It gives up after maxDecodePasses.
func unwrap(field string, raw models.RawField) ([]byte, error) {
	kind := raw.Kind()
	b := raw.Bytes()
	passes := 0
	for len(b) > 0 && b[0] == '"' {
		if passes == maxDecodePasses {
			return nil, &DecodeError{Field: field, Kind: kind, Passes: passes, Err: fmt.Errorf("still encoded after %d passes", passes)}
		}
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil, &DecodeError{Field: field, Kind: kind, Passes: passes, Err: err}
		}
		passes++
		b = trimSpace([]byte(s))
		if len(b) == 0 {
			return nil, nil
		}
		if !json.Valid(b) {
			return nil, &DecodeError{Field: field, Kind: kind, Passes: passes, Err: fmt.Errorf("invalid json %q", truncate(s))}
		}
	}
	return b, nil
}

func trimSpace(b []byte) []byte {
	start, end := 0, len(b)
	for start < end && isSpace(b[start]) {
		start++
	}
	for end > start && isSpace(b[end-1]) {
		end--
	}
	return b[start:end]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func truncate(s string) string {
	if len(s) > 64 {
		return s[:64] + "..."
	}
	return s
}

// report logs a recoverable decode failure
func report(err error) {
	if err == nil {
		return
	}
	slog.Warn("Flexible field fell back to default", "error", err)
}
