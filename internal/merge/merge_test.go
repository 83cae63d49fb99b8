package merge

import (
	"testing"
	"time"

	"flight_logbook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raw(s string) models.RawField {
	return models.RawBytes([]byte(s))
}

func submittedFlight() models.FlightRecord {
	return models.FlightRecord{
		ID:          7,
		AircraftID:  2,
		DepartureAt: time.Date(2024, 1, 1, 23, 50, 0, 0, time.UTC),
		ArrivalAt:   time.Date(2024, 1, 2, 0, 10, 0, 0, time.UTC),
		Departures:  models.Counters{Day: 1, Night: 0},
		Landings:    models.Counters{Day: 0, Night: 1},
		Crew:        []models.CrewMember{{Name: "A", Role: "PIC"}},
		Summary:     models.Summary{models.MetricTotal: 0.3, models.MetricPIC: 0.3},
		Signature:   "A",
	}
}

func TestMerge_EmptyEchoKeepsSubmitted(t *testing.T) {
	submitted := submittedFlight()
	echo := models.FlightWire{
		ID:          7,
		AircraftID:  2,
		DepartureAt: "2024-01-01T23:50:00Z",
		ArrivalAt:   "2024-01-02T00:10:00Z",
		Crew:        raw(`[]`),
		Summary:     raw(`[]`),
		Departure:   raw(`[]`),
		Landing:     raw(`[]`),
	}

	merged := Merge(submitted, echo)

	assert.Equal(t, []models.CrewMember{{Name: "A", Role: "PIC"}}, merged.Crew)
	assert.Equal(t, models.Counters{Day: 1, Night: 0}, merged.Departures)
	assert.Equal(t, models.Counters{Night: 1}, merged.Landings)
	assert.Equal(t, submitted.Summary, merged.Summary)
	// Echo wins for plain fields, and it carried no signature
	assert.Empty(t, merged.Signature)
	assert.Equal(t, submitted.DepartureAt, merged.DepartureAt)
}

func TestMerge_NonEmptyEchoCountersWin(t *testing.T) {
	echo := models.FlightWire{
		ID:        7,
		Crew:      models.RawFrom(`[{"name":"Server","role":"SIC"}]`),
		Summary:   raw(`{"total":9}`),
		Departure: models.RawFrom(`{"day":0,"night":2}`),
		Landing:   raw(`{}`),
	}

	merged := Merge(submittedFlight(), echo)

	assert.Equal(t, []models.CrewMember{{Name: "A", Role: "PIC"}}, merged.Crew)
	assert.Equal(t, models.Summary{models.MetricTotal: 0.3, models.MetricPIC: 0.3}, merged.Summary)
	assert.Equal(t, models.Counters{Night: 2}, merged.Departures)
	assert.Equal(t, models.Counters{Night: 1}, merged.Landings)
}

func TestMerge_PlainFieldsFromEcho(t *testing.T) {
	sig := "server signature"
	echo := models.FlightWire{
		ID:                 7,
		AircraftID:         5,
		DepartureAirportID: 11,
		ArrivalAirportID:   12,
		DepartureAt:        "2024-01-01T22:00:00Z",
		Signature:          &sig,
	}

	merged := Merge(submittedFlight(), echo)
	assert.Equal(t, int64(5), merged.AircraftID)
	assert.Equal(t, int64(11), merged.DepartureAirportID)
	assert.Equal(t, int64(12), merged.ArrivalAirportID)
	assert.Equal(t, time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC), merged.DepartureAt)
	assert.True(t, merged.ArrivalAt.IsZero())
	assert.Equal(t, "server signature", merged.Signature)
}

func TestMerge_MissingEchoIDFallsBack(t *testing.T) {
	merged := Merge(submittedFlight(), models.FlightWire{})
	assert.Equal(t, int64(7), merged.ID)
}

func TestMerge_NilSubmittedUsesNormalizedEcho(t *testing.T) {
	submitted := submittedFlight()
	submitted.Crew = nil
	submitted.Summary = nil
	echo := models.FlightWire{
		ID:      7,
		Crew:    models.RawFrom(`"[{\"name\":\"B\",\"role\":\"SIC\"}]"`),
		Summary: models.RawFrom(`{"night":1.1}`),
	}

	merged := Merge(submitted, echo)
	assert.Equal(t, []models.CrewMember{{Name: "B", Role: "SIC"}}, merged.Crew)
	assert.Equal(t, models.Summary{models.MetricNight: 1.1}, merged.Summary)
}

func TestMerge_NoAliasing(t *testing.T) {
	submitted := submittedFlight()
	merged := Merge(submitted, models.FlightWire{ID: 7})
	require.Len(t, merged.Crew, 1)

	submitted.Crew[0].Name = "mutated"
	submitted.Summary[models.MetricTotal] = 99

	assert.Equal(t, "A", merged.Crew[0].Name)
	assert.Equal(t, 0.3, merged.Summary[models.MetricTotal])
}
