package normalize

import (
	"log/slog"
	"strings"
	"time"

	"flight_logbook/internal/models"
)

// timestampLayouts are tried in order; zone-less values are taken as UTC
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Timestamp parses an ISO-8601 instant and converts it to UTC
func Timestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Flight converts a wire flight into its normalized record. It never fails:
// unparseable timestamps stay zero and flexible fields fall back to defaults.
func Flight(w models.FlightWire) models.FlightRecord {
	f := models.FlightRecord{
		ID:                 w.ID,
		AircraftID:         w.AircraftID,
		DepartureAirportID: w.DepartureAirportID,
		ArrivalAirportID:   w.ArrivalAirportID,
		Crew:               Crew(w.Crew),
		Summary:            Summary(w.Summary),
	}
	f.Departures, _ = Counters(w.Departure)
	f.Landings, _ = Counters(w.Landing)

	if t, ok := Timestamp(w.DepartureAt); ok {
		f.DepartureAt = t
	} else if w.DepartureAt != "" {
		slog.Warn("Unparseable departure timestamp", "flight_id", w.ID, "value", w.DepartureAt)
	}
	if t, ok := Timestamp(w.ArrivalAt); ok {
		f.ArrivalAt = t
	} else if w.ArrivalAt != "" {
		slog.Warn("Unparseable arrival timestamp", "flight_id", w.ID, "value", w.ArrivalAt)
	}
	if w.Signature != nil {
		f.Signature = *w.Signature
	}
	return f
}

// Wire is the inverse of Flight, producing native (not string-encoded) flexible fields
func Wire(f models.FlightRecord) models.FlightWire {
	w := models.FlightWire{
		ID:                 f.ID,
		AircraftID:         f.AircraftID,
		DepartureAirportID: f.DepartureAirportID,
		ArrivalAirportID:   f.ArrivalAirportID,
		Departure:          models.RawFrom(f.Departures),
		Landing:            models.RawFrom(f.Landings),
		Crew:               models.RawFrom(f.Crew),
		Summary:            models.RawFrom(f.Summary),
	}
	if !f.DepartureAt.IsZero() {
		w.DepartureAt = f.DepartureAt.UTC().Format(time.RFC3339)
	}
	if !f.ArrivalAt.IsZero() {
		w.ArrivalAt = f.ArrivalAt.UTC().Format(time.RFC3339)
	}
	if f.Signature != "" {
		sig := f.Signature
		w.Signature = &sig
	}
	return w
}
