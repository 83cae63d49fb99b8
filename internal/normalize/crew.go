package normalize

import (
	"encoding/json"
	"fmt"
	"strings"

	"flight_logbook/internal/models"
)

// Crew decodes a crew roster. Anything that does not decode to an array
// yields an empty, non-nil roster.
func Crew(raw models.RawField) []models.CrewMember {
	crew, err := decodeCrew(raw)
	if err != nil {
		report(err)
		return []models.CrewMember{}
	}
	return crew
}

func decodeCrew(raw models.RawField) ([]models.CrewMember, error) {
	b, err := unwrap("crew", raw)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 || string(b) == "null" {
		return []models.CrewMember{}, nil
	}
	if b[0] != '[' {
		return nil, &DecodeError{Field: "crew", Kind: raw.Kind(), Err: fmt.Errorf("expected array, got %q", b[0])}
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, &DecodeError{Field: "crew", Kind: raw.Kind(), Err: err}
	}

	crew := make([]models.CrewMember, 0, len(entries))
	for _, e := range entries {
		var m models.CrewMember
		if err := json.Unmarshal(e, &m); err != nil {
			// Non-object entries are skipped, the rest of the roster survives
			report(&DecodeError{Field: "crew entry", Kind: raw.Kind(), Err: err})
			continue
		}
		m.Name = strings.TrimSpace(m.Name)
		m.Role = strings.TrimSpace(m.Role)
		if m.Name == "" {
			continue
		}
		crew = append(crew, m)
	}
	return crew, nil
}
