package models

// AirportRecord is an airport with one code per naming standard, any of which may be empty
type AirportRecord struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	ICAO    string `json:"icao,omitempty"`
	IATA    string `json:"iata,omitempty"`
	FAA     string `json:"faa,omitempty"`
	EASA    string `json:"easa,omitempty"`
	CAA     string `json:"caa,omitempty"`
	DGCA    string `json:"dgca,omitempty"`
}

func (a AirportRecord) Identity() int64 { return a.ID }

// Code returns the airport code for the given standard, falling back to ICAO
// and then IATA when the airport has no code in that standard
func (a AirportRecord) Code(std Standard) string {
	var code string
	switch std {
	case StandardICAO:
		code = a.ICAO
	case StandardIATA:
		code = a.IATA
	case StandardFAA:
		code = a.FAA
	case StandardEASA:
		code = a.EASA
	case StandardCAA:
		code = a.CAA
	case StandardDGCA:
		code = a.DGCA
	}
	if code == "" {
		code = a.ICAO
	}
	if code == "" {
		code = a.IATA
	}
	return code
}
