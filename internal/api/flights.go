package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"flight_logbook/internal/models"
	"flight_logbook/internal/normalize"
)

// flightPayload is the write shape of a flight. The backend's validation
// layer requires the structured fields as JSON-encoded strings.
type flightPayload struct {
	AircraftID         int64   `json:"aircraft_id"`
	DepartureAirportID int64   `json:"departure_airport_id"`
	ArrivalAirportID   int64   `json:"arrival_airport_id"`
	DepartureAt        string  `json:"departure_at"`
	ArrivalAt          string  `json:"arrival_at"`
	Departure          string  `json:"departure"`
	Landing            string  `json:"landing"`
	Crew               string  `json:"crew"`
	Summary            string  `json:"summary"`
	Signature          *string `json:"signature,omitempty"`
}

func encodeString(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func encodeFlight(f models.FlightRecord) (flightPayload, error) {
	crew := f.Crew
	if crew == nil {
		crew = []models.CrewMember{}
	}
	summary := f.Summary
	if summary == nil {
		summary = models.Summary{}
	}

	p := flightPayload{
		AircraftID:         f.AircraftID,
		DepartureAirportID: f.DepartureAirportID,
		ArrivalAirportID:   f.ArrivalAirportID,
		DepartureAt:        f.DepartureAt.UTC().Format(time.RFC3339),
		ArrivalAt:          f.ArrivalAt.UTC().Format(time.RFC3339),
	}
	var err error
	if p.Departure, err = encodeString(f.Departures); err != nil {
		return p, fmt.Errorf("failed to encode departures: %w", err)
	}
	if p.Landing, err = encodeString(f.Landings); err != nil {
		return p, fmt.Errorf("failed to encode landings: %w", err)
	}
	if p.Crew, err = encodeString(crew); err != nil {
		return p, fmt.Errorf("failed to encode crew: %w", err)
	}
	if p.Summary, err = encodeString(summary); err != nil {
		return p, fmt.Errorf("failed to encode summary: %w", err)
	}
	if f.Signature != "" {
		sig := f.Signature
		p.Signature = &sig
	}
	return p, nil
}

// decodeRecord reads a single-record response, either {"data": {...}} or a bare object
func decodeRecord(body []byte) (models.FlightWire, error) {
	var w models.FlightWire
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return w, fmt.Errorf("empty response body")
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return w, fmt.Errorf("failed to decode flight response: %w", err)
	}
	if data, ok := envelope["data"]; ok && len(bytes.TrimSpace(data)) > 0 && bytes.TrimSpace(data)[0] == '{' {
		body = data
	}
	if err := json.Unmarshal(body, &w); err != nil {
		return w, fmt.Errorf("failed to decode flight: %w", err)
	}
	return w, nil
}

// CreateFlight submits a new flight and returns it as stored by the backend
func (c *Client) CreateFlight(ctx context.Context, f models.FlightRecord) (models.FlightRecord, error) {
	payload, err := encodeFlight(f)
	if err != nil {
		return models.FlightRecord{}, err
	}
	body, _, err := c.do(ctx, http.MethodPost, string(models.ResourceFlights), nil, payload)
	if err != nil {
		return models.FlightRecord{}, err
	}
	w, err := decodeRecord(body)
	if err != nil {
		return models.FlightRecord{}, err
	}
	return normalize.Flight(w), nil
}

// UpdateFlight replaces the full record for f.ID and returns the backend's
// echo verbatim, since its structured fields may be incomplete
func (c *Client) UpdateFlight(ctx context.Context, f models.FlightRecord) (models.FlightWire, error) {
	if f.ID == 0 {
		return models.FlightWire{}, fmt.Errorf("flight id is required for update")
	}
	payload, err := encodeFlight(f)
	if err != nil {
		return models.FlightWire{}, err
	}
	path := string(models.ResourceFlights) + "/" + strconv.FormatInt(f.ID, 10)
	body, _, err := c.do(ctx, http.MethodPut, path, nil, payload)
	if err != nil {
		return models.FlightWire{}, err
	}
	return decodeRecord(body)
}

// DeleteFlight removes a flight permanently
func (c *Client) DeleteFlight(ctx context.Context, id int64) error {
	path := string(models.ResourceFlights) + "/" + strconv.FormatInt(id, 10)
	_, _, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	return err
}
