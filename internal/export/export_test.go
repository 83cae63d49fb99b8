package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"flight_logbook/internal/models"

	"github.com/jszwec/csvutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapLookup struct {
	aircraft map[int64]models.AircraftRecord
	airports map[int64]models.AirportRecord
	err      error
}

func (m mapLookup) Aircraft(id int64) (models.AircraftRecord, bool, error) {
	a, ok := m.aircraft[id]
	return a, ok, m.err
}

func (m mapLookup) Airport(id int64) (models.AirportRecord, bool, error) {
	a, ok := m.airports[id]
	return a, ok, m.err
}

func testLookup() mapLookup {
	return mapLookup{
		aircraft: map[int64]models.AircraftRecord{
			1: {ID: 1, Registration: "D-EABC", Type: "C172"},
		},
		airports: map[int64]models.AirportRecord{
			1: {ID: 1, ICAO: "EDDF", IATA: "FRA"},
			2: {ID: 2, ICAO: "EDFE"},
		},
	}
}

func TestWriteFlightsCSV(t *testing.T) {
	flights := []models.FlightRecord{
		{
			ID:                 1,
			AircraftID:         1,
			DepartureAirportID: 1,
			ArrivalAirportID:   2,
			DepartureAt:        time.Date(2024, 6, 30, 8, 0, 0, 0, time.UTC),
			ArrivalAt:          time.Date(2024, 6, 30, 8, 20, 0, 0, time.UTC),
			Landings:           models.Counters{Day: 2},
			Crew:               []models.CrewMember{{Name: "A. Jensen", Role: "PIC"}, {Name: "B. Okafor", Role: "Student"}},
			Summary:            models.Summary{models.MetricTotal: 0.333, models.MetricPIC: 0.333},
			Signature:          "sig-1",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteFlightsCSV(&buf, flights, testLookup(), models.StandardIATA))

	var rows []flightRow
	require.NoError(t, csvutil.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "2024-06-30", row.Date)
	assert.Equal(t, "08:00", row.OffBlock)
	assert.Equal(t, "08:20", row.OnBlock)
	assert.Equal(t, "0:20", row.Duration)
	assert.Equal(t, "FRA", row.From)
	// No IATA code: falls back to ICAO
	assert.Equal(t, "EDFE", row.To)
	assert.Equal(t, "D-EABC", row.Aircraft)
	assert.Equal(t, "C172", row.Type)
	assert.Equal(t, "0.33", row.Total)
	assert.Equal(t, "", row.Night)
	assert.Equal(t, "A. Jensen (PIC); B. Okafor (Student)", row.Crew)
	assert.Equal(t, 2, row.DayLandings)
	assert.Equal(t, "sig-1", row.Signature)
}

func TestWriteFlightsCSV_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFlightsCSV(&buf, nil, nil, models.StandardICAO))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "date,off_block,on_block,from,to,aircraft"))
}

func TestWriteFlightsCSV_UnresolvedReferences(t *testing.T) {
	flights := []models.FlightRecord{{
		ID:                 9,
		AircraftID:         42,
		DepartureAirportID: 42,
		DepartureAt:        time.Date(2024, 6, 30, 10, 0, 0, 0, time.UTC),
		ArrivalAt:          time.Date(2024, 6, 30, 9, 0, 0, 0, time.UTC),
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteFlightsCSV(&buf, flights, testLookup(), models.StandardICAO))

	var rows []flightRow
	require.NoError(t, csvutil.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].Aircraft)
	assert.Empty(t, rows[0].From)
	assert.Empty(t, rows[0].To)
	assert.Equal(t, "00:00", rows[0].Duration)
}

func TestWriteFlightsCSV_LookupError(t *testing.T) {
	lookup := testLookup()
	lookup.err = assert.AnError

	flights := []models.FlightRecord{{ID: 1, AircraftID: 1}}
	err := WriteFlightsCSV(&bytes.Buffer{}, flights, lookup, models.StandardICAO)
	assert.ErrorIs(t, err, assert.AnError)
}
