package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestDecodePage(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantErr   bool
		checkFunc func(*testing.T, *Page[AircraftRecord])
	}{
		{
			name: "top-level metadata",
			body: `{"data":[{"id":1,"registration":"D-EABC"},{"id":2}],"current_page":1,"last_page":3,"total":5}`,
			checkFunc: func(t *testing.T, p *Page[AircraftRecord]) {
				require.NotNil(t, p)
				assert.Len(t, p.Items, 2)
				assert.Equal(t, "D-EABC", p.Items[0].Registration)
				require.True(t, p.Meta.Top.Complete())
				assert.Equal(t, 1, *p.Meta.Top.CurrentPage)
				assert.Equal(t, 3, *p.Meta.Top.LastPage)
				assert.Nil(t, p.Meta.Nested)
			},
		},
		{
			name: "metadata nested in data object",
			body: `{"data":{"current_page":2,"last_page":2,"data":[{"id":7}]}}`,
			checkFunc: func(t *testing.T, p *Page[AircraftRecord]) {
				require.NotNil(t, p)
				assert.Len(t, p.Items, 1)
				assert.Nil(t, p.Meta.Top)
				require.True(t, p.Meta.Nested.Complete())
				assert.Equal(t, 2, *p.Meta.Nested.CurrentPage)
			},
		},
		{
			name: "metadata under meta key",
			body: `{"data":[{"id":7}],"meta":{"current_page":1,"last_page":4}}`,
			checkFunc: func(t *testing.T, p *Page[AircraftRecord]) {
				require.NotNil(t, p)
				assert.Nil(t, p.Meta.Top)
				assert.Equal(t, 4, *p.Meta.Nested.LastPage)
			},
		},
		{
			name: "bare array",
			body: ` [{"id":1},{"id":2},{"id":3}] `,
			checkFunc: func(t *testing.T, p *Page[AircraftRecord]) {
				require.NotNil(t, p)
				assert.Len(t, p.Items, 3)
				assert.Nil(t, p.Meta.Top)
				assert.Nil(t, p.Meta.Nested)
			},
		},
		{
			name: "null body",
			body: `null`,
			checkFunc: func(t *testing.T, p *Page[AircraftRecord]) {
				assert.Nil(t, p)
			},
		},
		{
			name: "envelope without data",
			body: `{"current_page":1,"last_page":1}`,
			checkFunc: func(t *testing.T, p *Page[AircraftRecord]) {
				require.NotNil(t, p)
				assert.Empty(t, p.Items)
				assert.True(t, p.Meta.Top.Complete())
			},
		},
		{name: "empty body", body: "  ", wantErr: true},
		{name: "malformed json", body: `{"data":[`, wantErr: true},
		{name: "scalar data", body: `{"data":5}`, wantErr: true},
		{name: "plain text", body: `Service Unavailable`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := DecodePage[AircraftRecord]([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, page)
				return
			}
			require.NoError(t, err)
			tt.checkFunc(t, page)
		})
	}
}

func TestBoundsComplete(t *testing.T) {
	var nilBounds *Bounds
	assert.False(t, nilBounds.Complete())
	assert.False(t, (&Bounds{CurrentPage: intPtr(1)}).Complete())
	assert.True(t, (&Bounds{CurrentPage: intPtr(1), LastPage: intPtr(1)}).Complete())
}

func TestRawFieldKind(t *testing.T) {
	var absent RawField
	assert.Equal(t, RawAbsent, absent.Kind())
	assert.Equal(t, RawNull, RawBytes([]byte("null")).Kind())
	assert.Equal(t, RawString, RawBytes([]byte(`"x"`)).Kind())
	assert.Equal(t, RawObject, RawBytes([]byte(` {"a":1}`)).Kind())
	assert.Equal(t, RawArray, RawFrom([]int{1}).Kind())
	assert.Equal(t, RawOther, RawFrom(12).Kind())
	assert.Equal(t, RawAbsent, RawFrom(nil).Kind())
}

func TestFlightWireUnmarshal(t *testing.T) {
	var w FlightWire
	err := jsonUnmarshal(`{"id":9,"crew":"[]","summary":{"total":1},"landing":null}`, &w)
	require.NoError(t, err)
	assert.Equal(t, int64(9), w.ID)
	assert.Equal(t, RawString, w.Crew.Kind())
	assert.Equal(t, RawObject, w.Summary.Kind())
	assert.Equal(t, RawNull, w.Landing.Kind())
	assert.Equal(t, RawAbsent, w.Departure.Kind())
}

func TestAirportCode(t *testing.T) {
	ap := AirportRecord{ICAO: "EDDF", IATA: "FRA"}
	assert.Equal(t, "FRA", ap.Code(StandardIATA))
	assert.Equal(t, "EDDF", ap.Code(StandardFAA))

	iataOnly := AirportRecord{IATA: "XYZ"}
	assert.Equal(t, "XYZ", iataOnly.Code(StandardICAO))
}

func TestParseStandardAndEngine(t *testing.T) {
	std, err := ParseStandard(" IATA ")
	require.NoError(t, err)
	assert.Equal(t, StandardIATA, std)
	_, err = ParseStandard("nato")
	assert.Error(t, err)

	eng, err := ParseEngineCategory("turboprop")
	require.NoError(t, err)
	assert.Equal(t, EngineTurboprop, eng)
	_, err = ParseEngineCategory("rocket")
	assert.Error(t, err)
}

func TestRoleSet(t *testing.T) {
	roles := NewRoleSet([]string{"PIC", " SIC ", "pic", "", "Instructor"})
	assert.Equal(t, []string{"PIC", "SIC", "Instructor"}, roles.Labels())
	assert.True(t, roles.Contains("instructor"))
	assert.False(t, roles.Contains("Purser"))

	unknown := roles.UnknownRoles([]CrewMember{{Name: "A", Role: "PIC"}, {Name: "B", Role: "Purser"}})
	assert.Equal(t, []string{"Purser"}, unknown)
}

func TestSummaryCodesOrdered(t *testing.T) {
	s := Summary{MetricSim: 1, MetricTotal: 2, MetricNight: 0.5}
	assert.Equal(t, []MetricCode{MetricTotal, MetricNight, MetricSim}, s.Codes())
	assert.True(t, IsMetricCode("ifrs"))
	assert.False(t, IsMetricCode("solo"))
}

func jsonUnmarshal(s string, v any) error {
	return json.Unmarshal([]byte(s), v)
}
