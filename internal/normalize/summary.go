package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"flight_logbook/internal/models"
)

// Summary decodes a flight-time summary. Unknown metric codes and values
// that are not finite non-negative numbers are dropped.
func Summary(raw models.RawField) models.Summary {
	s, err := decodeSummary(raw)
	if err != nil {
		report(err)
		return models.Summary{}
	}
	return s
}

func decodeSummary(raw models.RawField) (models.Summary, error) {
	b, err := unwrap("summary", raw)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 || string(b) == "null" {
		return models.Summary{}, nil
	}
	// The backend serializes an empty map as []
	if string(b) == "[]" {
		return models.Summary{}, nil
	}
	if b[0] != '{' {
		return nil, &DecodeError{Field: "summary", Kind: raw.Kind(), Err: fmt.Errorf("expected object, got %q", b[0])}
	}

	var values map[string]json.RawMessage
	if err := json.Unmarshal(b, &values); err != nil {
		return nil, &DecodeError{Field: "summary", Kind: raw.Kind(), Err: err}
	}

	summary := make(models.Summary, len(values))
	for code, v := range values {
		if !models.IsMetricCode(code) {
			continue
		}
		hours, ok := metricValue(v)
		if !ok {
			continue
		}
		summary[models.MetricCode(code)] = hours
	}
	return summary, nil
}

// metricValue accepts a JSON number or a numeric string
func metricValue(v json.RawMessage) (float64, bool) {
	if string(v) == "null" {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(v, &f); err != nil {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}
