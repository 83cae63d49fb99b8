package mockserver

import (
	"fmt"
	"time"

	"flight_logbook/internal/models"
)

var seedAirports = []models.AirportRecord{
	{ID: 1, Name: "Frankfurt Main", Country: "DE", ICAO: "EDDF", IATA: "FRA", EASA: "EDDF"},
	{ID: 2, Name: "London Heathrow", Country: "GB", ICAO: "EGLL", IATA: "LHR", CAA: "EGLL"},
	{ID: 3, Name: "San Francisco Intl", Country: "US", ICAO: "KSFO", IATA: "SFO", FAA: "SFO"},
	{ID: 4, Name: "Indira Gandhi Intl", Country: "IN", ICAO: "VIDP", IATA: "DEL", DGCA: "VIDP"},
	{ID: 5, Name: "Palo Alto", Country: "US", ICAO: "KPAO", IATA: "PAO", FAA: "PAO"},
	{ID: 6, Name: "Egelsbach", Country: "DE", ICAO: "EDFE", EASA: "EDFE"},
	{ID: 7, Name: "Shoreham", Country: "GB", ICAO: "EGKA", IATA: "ESH", CAA: "EGKA"},
}

var seedAircraft = []models.AircraftRecord{
	{ID: 1, Registration: "D-EABC", IsAircraft: true, Type: "C172", Engine: models.EnginePiston},
	{ID: 2, Registration: "D-KXYZ", IsAircraft: true, Type: "ASK21", Engine: models.EngineGlider},
	{ID: 3, Registration: "N123PA", IsAircraft: true, Type: "PA-34", Engine: models.EnginePiston, MultiEngine: true},
	{ID: 4, Registration: "D-AIBL", IsAircraft: true, Type: "A319", Engine: models.EngineJet, MultiEngine: true, MultiPilot: true},
	{ID: 5, Registration: "FNPT-II", IsSimulator: true, Type: "ALSIM AL42", Engine: models.EnginePiston, Remarks: "Club simulator"},
	{ID: 6, Registration: "G-OTBP", IsAircraft: true, Type: "King Air 350", Engine: models.EngineTurboprop, MultiEngine: true},
}

// DefaultSeed returns a deterministic logbook with n flights spread over
// the seed aircraft and airports, one per day going back from 2024-06-30
func DefaultSeed(n int) Seed {
	flights := make([]models.FlightRecord, 0, n)
	base := time.Date(2024, 6, 30, 8, 0, 0, 0, time.UTC)
	pilots := []string{"A. Jensen", "B. Okafor", "C. Moreau", "D. Singh"}

	for i := 0; i < n; i++ {
		dep := base.AddDate(0, 0, -i).Add(time.Duration(i%12) * time.Hour)
		blockMinutes := 35 + (i*17)%180
		arr := dep.Add(time.Duration(blockMinutes) * time.Minute)
		hours := float64(blockMinutes) / 60

		night := (i%5 == 0)
		landings := models.Counters{Day: 1}
		if night {
			landings = models.Counters{Night: 1}
		}
		summary := models.Summary{models.MetricTotal: hours, models.MetricPIC: hours}
		if night {
			summary[models.MetricNight] = hours
		}

		flights = append(flights, models.FlightRecord{
			ID:                 int64(i + 1),
			AircraftID:         seedAircraft[i%len(seedAircraft)].ID,
			DepartureAirportID: seedAirports[i%len(seedAirports)].ID,
			ArrivalAirportID:   seedAirports[(i+1)%len(seedAirports)].ID,
			DepartureAt:        dep,
			ArrivalAt:          arr,
			Departures:         landings,
			Landings:           landings,
			Crew:               []models.CrewMember{{Name: pilots[i%len(pilots)], Role: "PIC"}},
			Summary:            summary,
			Signature:          fmt.Sprintf("sig-%d", i+1),
		})
	}

	return Seed{
		Flights:  flights,
		Aircraft: append([]models.AircraftRecord(nil), seedAircraft...),
		Airports: append([]models.AirportRecord(nil), seedAirports...),
		Roles:    []string{"PIC", "SIC", "Instructor", "Student", "Examiner"},
	}
}
