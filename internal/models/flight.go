package models

import (
	"sort"
	"time"
)

// Counters is a day/night breakdown of departures or landings
type Counters struct {
	Day   int `json:"day"`
	Night int `json:"night"`
}

// IsZero reports whether both counters are zero
func (c Counters) IsZero() bool {
	return c.Day == 0 && c.Night == 0
}

// Total returns day plus night
func (c Counters) Total() int {
	return c.Day + c.Night
}

// Summary maps a metric code to flight time in hours
type Summary map[MetricCode]float64

// Codes returns the codes present in the summary, in MetricCodes order
func (s Summary) Codes() []MetricCode {
	codes := make([]MetricCode, 0, len(s))
	for c := range s {
		codes = append(codes, c)
	}
	order := make(map[MetricCode]int, len(MetricCodes))
	for i, c := range MetricCodes {
		order[c] = i
	}
	sort.Slice(codes, func(i, j int) bool { return order[codes[i]] < order[codes[j]] })
	return codes
}

// FlightRecord is one logbook entry in its normalized, in-memory form.
// Crew and Summary are always native values, never encoded strings.
type FlightRecord struct {
	ID                 int64        `json:"id"`
	AircraftID         int64        `json:"aircraft_id"`
	DepartureAirportID int64        `json:"departure_airport_id"`
	ArrivalAirportID   int64        `json:"arrival_airport_id"`
	DepartureAt        time.Time    `json:"departure_at"`
	ArrivalAt          time.Time    `json:"arrival_at"`
	Departures         Counters     `json:"departure"`
	Landings           Counters     `json:"landing"`
	Crew               []CrewMember `json:"crew"`
	Summary            Summary      `json:"summary"`
	Signature          string       `json:"signature,omitempty"`
}

func (f FlightRecord) Identity() int64 { return f.ID }

// FlightWire is a flight exactly as the backend sends it. The flexible
// fields may be native JSON, JSON-encoded strings, or missing.
type FlightWire struct {
	ID                 int64    `json:"id"`
	AircraftID         int64    `json:"aircraft_id"`
	DepartureAirportID int64    `json:"departure_airport_id"`
	ArrivalAirportID   int64    `json:"arrival_airport_id"`
	DepartureAt        string   `json:"departure_at"`
	ArrivalAt          string   `json:"arrival_at"`
	Departure          RawField `json:"departure"`
	Landing            RawField `json:"landing"`
	Crew               RawField `json:"crew"`
	Summary            RawField `json:"summary"`
	Signature          *string  `json:"signature"`
}
