// Package merge reconciles a just-submitted flight update with the record
// the backend echoed back.
package merge

import (
	"log/slog"

	"flight_logbook/internal/models"
	"flight_logbook/internal/normalize"

	"github.com/mohae/deepcopy"
)

// Merge produces the record that replaces the cached one after an update.
//
// The backend does not reliably echo structured fields, so:
//   - crew and summary come from submitted (the user just edited them); the
//     echo is used only when submitted carries no value at all
//   - departure/landing counters come from the echo when it is non-empty,
//     otherwise from submitted
//   - everything else comes from the echo, except a missing echo id
//
// The result shares no slices or maps with submitted.
func Merge(submitted models.FlightRecord, echoed models.FlightWire) models.FlightRecord {
	server := normalize.Flight(echoed)
	merged := server

	if merged.ID == 0 {
		merged.ID = submitted.ID
	}

	if submitted.Crew != nil {
		merged.Crew = deepcopy.Copy(submitted.Crew).([]models.CrewMember)
	}
	if submitted.Summary != nil {
		merged.Summary = deepcopy.Copy(submitted.Summary).(models.Summary)
	}

	if departures, ok := normalize.Counters(echoed.Departure); ok {
		merged.Departures = departures
	} else {
		merged.Departures = submitted.Departures
	}
	if landings, ok := normalize.Counters(echoed.Landing); ok {
		merged.Landings = landings
	} else {
		merged.Landings = submitted.Landings
	}

	if len(server.Crew) != len(merged.Crew) || len(server.Summary) != len(merged.Summary) {
		slog.Debug("Server echo differs from submitted flight",
			"flight_id", merged.ID,
			"echo_crew", len(server.Crew),
			"submitted_crew", len(merged.Crew),
			"echo_summary", len(server.Summary),
			"submitted_summary", len(merged.Summary),
		)
	}

	return merged
}
