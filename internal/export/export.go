// Package export writes the logbook in flat formats for printing and archiving.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"flight_logbook/internal/duration"
	"flight_logbook/internal/models"

	"github.com/jszwec/csvutil"
)

// Lookup resolves the aircraft and airports a flight references
type Lookup interface {
	Aircraft(id int64) (models.AircraftRecord, bool, error)
	Airport(id int64) (models.AirportRecord, bool, error)
}

type flightRow struct {
	Date          string `csv:"date"`
	OffBlock      string `csv:"off_block"`
	OnBlock       string `csv:"on_block"`
	From          string `csv:"from"`
	To            string `csv:"to"`
	Aircraft      string `csv:"aircraft"`
	Type          string `csv:"type"`
	Duration      string `csv:"duration"`
	Total         string `csv:"total"`
	PIC           string `csv:"pic"`
	SIC           string `csv:"sic"`
	Dual          string `csv:"dual"`
	Instructor    string `csv:"instructor"`
	Night         string `csv:"night"`
	IFR           string `csv:"ifr"`
	CrossCountry  string `csv:"xc"`
	Simulator     string `csv:"sim"`
	Crew          string `csv:"crew"`
	DayLandings   int    `csv:"landings_day"`
	NightLandings int    `csv:"landings_night"`
	Signature     string `csv:"signature"`
}

// WriteFlightsCSV writes one row per flight with a header line. Airport
// codes follow std; references lookup cannot resolve are left blank.
func WriteFlightsCSV(w io.Writer, flights []models.FlightRecord, lookup Lookup, std models.Standard) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)

	if len(flights) == 0 {
		if err := enc.EncodeHeader(flightRow{}); err != nil {
			return fmt.Errorf("failed to write csv header: %w", err)
		}
	}

	for _, f := range flights {
		row, err := toRow(f, lookup, std)
		if err != nil {
			return err
		}
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("failed to encode flight %d: %w", f.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func toRow(f models.FlightRecord, lookup Lookup, std models.Standard) (flightRow, error) {
	row := flightRow{
		Date:          f.DepartureAt.UTC().Format("2006-01-02"),
		OffBlock:      f.DepartureAt.UTC().Format("15:04"),
		OnBlock:       f.ArrivalAt.UTC().Format("15:04"),
		Duration:      duration.Compute(f.DepartureAt, f.ArrivalAt),
		Total:         hours(f.Summary, models.MetricTotal),
		PIC:           hours(f.Summary, models.MetricPIC),
		SIC:           hours(f.Summary, models.MetricSIC),
		Dual:          hours(f.Summary, models.MetricDual),
		Instructor:    hours(f.Summary, models.MetricInst),
		Night:         hours(f.Summary, models.MetricNight),
		IFR:           hours(f.Summary, models.MetricIFR),
		CrossCountry:  hours(f.Summary, models.MetricXC),
		Simulator:     hours(f.Summary, models.MetricSim),
		Crew:          crewList(f.Crew),
		DayLandings:   f.Landings.Day,
		NightLandings: f.Landings.Night,
		Signature:     f.Signature,
	}

	if lookup == nil {
		return row, nil
	}

	ac, ok, err := lookup.Aircraft(f.AircraftID)
	if err != nil {
		return row, fmt.Errorf("failed to resolve aircraft for flight %d: %w", f.ID, err)
	}
	if ok {
		row.Aircraft, row.Type = ac.Registration, ac.Type
	} else if f.AircraftID != 0 {
		slog.Debug("Aircraft not found for export", "flight_id", f.ID, "aircraft_id", f.AircraftID)
	}

	if row.From, err = airportCode(lookup, f.DepartureAirportID, std); err != nil {
		return row, fmt.Errorf("failed to resolve departure airport for flight %d: %w", f.ID, err)
	}
	if row.To, err = airportCode(lookup, f.ArrivalAirportID, std); err != nil {
		return row, fmt.Errorf("failed to resolve arrival airport for flight %d: %w", f.ID, err)
	}
	return row, nil
}

func airportCode(lookup Lookup, id int64, std models.Standard) (string, error) {
	if id == 0 {
		return "", nil
	}
	ap, ok, err := lookup.Airport(id)
	if err != nil || !ok {
		return "", err
	}
	return ap.Code(std), nil
}

func hours(s models.Summary, code models.MetricCode) string {
	v, ok := s[code]
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func crewList(crew []models.CrewMember) string {
	parts := make([]string, 0, len(crew))
	for _, m := range crew {
		if m.Role == "" {
			parts = append(parts, m.Name)
			continue
		}
		parts = append(parts, m.Name+" ("+m.Role+")")
	}
	return strings.Join(parts, "; ")
}
