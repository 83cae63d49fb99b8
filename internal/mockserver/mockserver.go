// Package mockserver is an in-memory stand-in for the logbook backend. Each
// collection answers in a different pagination shape, the way the real
// backend does:
//
//	/flights   {"data": [...], "current_page": n, "last_page": m, "total": t}
//	/aircraft  {"data": {"current_page": n, "last_page": m, "data": [...]}}
//	/airports  [...]  (no metadata)
//
// Flight crew and summary go out as JSON-encoded strings, and update echoes
// return crew and counters as empty arrays.
package mockserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"flight_logbook/internal/models"

	"github.com/gorilla/mux"
)

// Server holds the mock backend's records
type Server struct {
	mu       sync.Mutex
	flights  map[int64]models.FlightRecord
	aircraft []models.AircraftRecord
	airports []models.AirportRecord
	roles    []string
	nextID   int64
	token    string // when set, requests must carry it as a bearer token
}

// Seed is the initial data set
type Seed struct {
	Flights  []models.FlightRecord
	Aircraft []models.AircraftRecord
	Airports []models.AirportRecord
	Roles    []string
	Token    string
}

// New creates a server with the given seed
func New(seed Seed) *Server {
	s := &Server{
		flights:  make(map[int64]models.FlightRecord, len(seed.Flights)),
		aircraft: append([]models.AircraftRecord(nil), seed.Aircraft...),
		airports: append([]models.AirportRecord(nil), seed.Airports...),
		roles:    append([]string(nil), seed.Roles...),
		token:    seed.Token,
	}
	for _, f := range seed.Flights {
		s.flights[f.ID] = f
		if f.ID > s.nextID {
			s.nextID = f.ID
		}
	}
	return s
}

// Start binds addr (e.g. ":8086") and serves the mock backend in the
// background. It returns the *http.Server so the caller can shut it down.
func (s *Server) Start(addr string) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	srv := &http.Server{Handler: s.Router(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		slog.Info("Mock backend listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("Mock backend stopped", "error", err)
		}
	}()
	return srv, nil
}

// Router returns the backend routes
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.auth)

	r.HandleFunc("/flights", s.listFlights).Methods("GET")
	r.HandleFunc("/flights", s.createFlight).Methods("POST")
	r.HandleFunc("/flights/{id:[0-9]+}", s.updateFlight).Methods("PUT")
	r.HandleFunc("/flights/{id:[0-9]+}", s.deleteFlight).Methods("DELETE")
	r.HandleFunc("/aircraft", s.listAircraft).Methods("GET")
	r.HandleFunc("/airports", s.listAirports).Methods("GET")
	r.HandleFunc("/roles", s.listRoles).Methods("GET")

	return r
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" && r.Header.Get("Authorization") != "Bearer "+s.token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthenticated."})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to write mock response", "error", err)
	}
}

// pageParams reads page and per_page. Invalid values get a plain-text 400,
// mirroring the backend's framework error pages.
func pageParams(w http.ResponseWriter, r *http.Request) (page, perPage int, ok bool) {
	page, perPage = 1, 15
	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "invalid page parameter", http.StatusBadRequest)
			return 0, 0, false
		}
		page = n
	}
	if v := r.URL.Query().Get("per_page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "invalid per_page parameter", http.StatusBadRequest)
			return 0, 0, false
		}
		perPage = n
	}
	return page, perPage, true
}

// window returns the slice bounds for page and the last page number
func window(total, page, perPage int) (start, end, lastPage int) {
	lastPage = (total + perPage - 1) / perPage
	if lastPage == 0 {
		lastPage = 1
	}
	start = (page - 1) * perPage
	if start > total {
		start = total
	}
	end = start + perPage
	if end > total {
		end = total
	}
	return start, end, lastPage
}

func matches(search string, fields ...string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

// wireFlight renders a flight the way the backend sends it in listings
func wireFlight(f models.FlightRecord) map[string]any {
	crew, _ := json.Marshal(f.Crew)
	summary, _ := json.Marshal(f.Summary)
	out := map[string]any{
		"id":                   f.ID,
		"aircraft_id":          f.AircraftID,
		"departure_airport_id": f.DepartureAirportID,
		"arrival_airport_id":   f.ArrivalAirportID,
		"departure_at":         f.DepartureAt.UTC().Format(time.RFC3339),
		"arrival_at":           f.ArrivalAt.UTC().Format(time.RFC3339),
		"departure":            f.Departures,
		"landing":              f.Landings,
		"crew":                 string(crew),
		"summary":              string(summary),
	}
	if f.Signature != "" {
		out["signature"] = f.Signature
	}
	return out
}

func (s *Server) sortedFlights(search string) []models.FlightRecord {
	out := make([]models.FlightRecord, 0, len(s.flights))
	for _, f := range s.flights {
		names := make([]string, 0, len(f.Crew))
		for _, m := range f.Crew {
			names = append(names, m.Name)
		}
		if matches(search, append(names, f.Signature)...) {
			out = append(out, f)
		}
	}
	// Newest first, as the logbook lists them
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DepartureAt.Equal(out[j].DepartureAt) {
			return out[i].DepartureAt.After(out[j].DepartureAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *Server) listFlights(w http.ResponseWriter, r *http.Request) {
	page, perPage, ok := pageParams(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	flights := s.sortedFlights(r.URL.Query().Get("search"))
	s.mu.Unlock()

	start, end, lastPage := window(len(flights), page, perPage)
	data := make([]map[string]any, 0, end-start)
	for _, f := range flights[start:end] {
		data = append(data, wireFlight(f))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":         data,
		"current_page": page,
		"last_page":    lastPage,
		"per_page":     perPage,
		"total":        len(flights),
	})
}

// flightInput is the write payload; structured fields must be JSON-encoded strings
type flightInput struct {
	AircraftID         int64   `json:"aircraft_id"`
	DepartureAirportID int64   `json:"departure_airport_id"`
	ArrivalAirportID   int64   `json:"arrival_airport_id"`
	DepartureAt        string  `json:"departure_at"`
	ArrivalAt          string  `json:"arrival_at"`
	Departure          string  `json:"departure"`
	Landing            string  `json:"landing"`
	Crew               string  `json:"crew"`
	Summary            string  `json:"summary"`
	Signature          *string `json:"signature"`
}

func parseFlight(r *http.Request) (models.FlightRecord, error) {
	var in flightInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return models.FlightRecord{}, fmt.Errorf("The given data was invalid: %v", err)
	}

	f := models.FlightRecord{
		AircraftID:         in.AircraftID,
		DepartureAirportID: in.DepartureAirportID,
		ArrivalAirportID:   in.ArrivalAirportID,
	}
	var err error
	if f.DepartureAt, err = time.Parse(time.RFC3339, in.DepartureAt); err != nil {
		return f, errors.New("The departure at field must be a valid date.")
	}
	if f.ArrivalAt, err = time.Parse(time.RFC3339, in.ArrivalAt); err != nil {
		return f, errors.New("The arrival at field must be a valid date.")
	}
	if err := json.Unmarshal([]byte(in.Departure), &f.Departures); err != nil {
		return f, errors.New("The departure field must be a valid JSON string.")
	}
	if err := json.Unmarshal([]byte(in.Landing), &f.Landings); err != nil {
		return f, errors.New("The landing field must be a valid JSON string.")
	}
	if err := json.Unmarshal([]byte(in.Crew), &f.Crew); err != nil {
		return f, errors.New("The crew field must be a valid JSON string.")
	}
	if err := json.Unmarshal([]byte(in.Summary), &f.Summary); err != nil {
		return f, errors.New("The summary field must be a valid JSON string.")
	}
	if in.Signature != nil {
		f.Signature = *in.Signature
	}
	return f, nil
}

func (s *Server) createFlight(w http.ResponseWriter, r *http.Request) {
	f, err := parseFlight(r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": err.Error()})
		return
	}

	s.mu.Lock()
	s.nextID++
	f.ID = s.nextID
	s.flights[f.ID] = f
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{"data": wireFlight(f)})
}

func (s *Server) updateFlight(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	f, err := parseFlight(r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": err.Error()})
		return
	}

	s.mu.Lock()
	_, exists := s.flights[id]
	if exists {
		f.ID = id
		s.flights[id] = f
	}
	s.mu.Unlock()

	if !exists {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Flight not found."})
		return
	}

	// The update echo drops the structured fields
	echo := wireFlight(f)
	echo["crew"] = []any{}
	echo["departure"] = []any{}
	echo["landing"] = []any{}
	writeJSON(w, http.StatusOK, map[string]any{"data": echo})
}

func (s *Server) deleteFlight(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	s.mu.Lock()
	_, exists := s.flights[id]
	delete(s.flights, id)
	s.mu.Unlock()

	if !exists {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Flight not found."})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listAircraft(w http.ResponseWriter, r *http.Request) {
	page, perPage, ok := pageParams(w, r)
	if !ok {
		return
	}
	search := r.URL.Query().Get("search")

	s.mu.Lock()
	var filtered []models.AircraftRecord
	for _, a := range s.aircraft {
		if matches(search, a.Registration, a.Type) {
			filtered = append(filtered, a)
		}
	}
	s.mu.Unlock()

	start, end, lastPage := window(len(filtered), page, perPage)
	writeJSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"current_page": page,
			"last_page":    lastPage,
			"data":         append([]models.AircraftRecord{}, filtered[start:end]...),
		},
	})
}

func (s *Server) listAirports(w http.ResponseWriter, r *http.Request) {
	page, perPage, ok := pageParams(w, r)
	if !ok {
		return
	}
	search := r.URL.Query().Get("search")
	std := models.StandardICAO
	if v := r.URL.Query().Get("standard"); v != "" {
		parsed, err := models.ParseStandard(v)
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "The selected standard is invalid."})
			return
		}
		std = parsed
	}

	s.mu.Lock()
	var filtered []models.AirportRecord
	for _, a := range s.airports {
		if matches(search, a.Name, a.Country, a.Code(std)) {
			filtered = append(filtered, a)
		}
	}
	s.mu.Unlock()

	start, end, _ := window(len(filtered), page, perPage)
	writeJSON(w, http.StatusOK, append([]models.AirportRecord{}, filtered[start:end]...))
}

func (s *Server) listRoles(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	data := make([]map[string]string, 0, len(s.roles))
	for _, role := range s.roles {
		data = append(data, map[string]string{"name": role})
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

// Flight returns the stored flight with id
func (s *Server) Flight(id int64) (models.FlightRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flights[id]
	return f, ok
}

// AddFlight stores f as if another device had logged it
func (s *Server) AddFlight(f models.FlightRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flights[f.ID] = f
	if f.ID > s.nextID {
		s.nextID = f.ID
	}
}
