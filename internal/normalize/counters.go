package normalize

import (
	"encoding/json"
	"fmt"
	"math"

	"flight_logbook/internal/models"
)

// Counters decodes a day/night counter pair. The boolean is false when the
// field was absent, empty ([] or {}), or undecodable, so callers can tell a
// real zero/zero echo from a missing one.
func Counters(raw models.RawField) (models.Counters, bool) {
	c, ok, err := decodeCounters(raw)
	if err != nil {
		report(err)
		return models.Counters{}, false
	}
	return c, ok
}

func decodeCounters(raw models.RawField) (models.Counters, bool, error) {
	b, err := unwrap("counters", raw)
	if err != nil {
		return models.Counters{}, false, err
	}
	if len(b) == 0 || string(b) == "null" || string(b) == "[]" {
		return models.Counters{}, false, nil
	}
	if b[0] != '{' {
		return models.Counters{}, false, &DecodeError{Field: "counters", Kind: raw.Kind(), Err: fmt.Errorf("expected object, got %q", b[0])}
	}

	var values map[string]json.RawMessage
	if err := json.Unmarshal(b, &values); err != nil {
		return models.Counters{}, false, &DecodeError{Field: "counters", Kind: raw.Kind(), Err: err}
	}
	if len(values) == 0 {
		return models.Counters{}, false, nil
	}

	var c models.Counters
	present := false
	if v, ok := values["day"]; ok {
		if n, ok := counterValue(v); ok {
			c.Day = n
			present = true
		}
	}
	if v, ok := values["night"]; ok {
		if n, ok := counterValue(v); ok {
			c.Night = n
			present = true
		}
	}
	return c, present, nil
}

// counterValue accepts whole non-negative counts only. A fractional
// landing count is rejected like any other bad value, not rounded.
func counterValue(v json.RawMessage) (int, bool) {
	f, ok := metricValue(v)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
