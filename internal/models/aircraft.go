package models

// AircraftRecord is an aircraft or simulator in the operator's fleet list
type AircraftRecord struct {
	ID           int64          `json:"id"`
	Registration string         `json:"registration"` // Unique per operator, not globally
	IsAircraft   bool           `json:"aircraft"`
	IsSimulator  bool           `json:"simulator"`
	Type         string         `json:"type"`
	Engine       EngineCategory `json:"engine"`
	MultiEngine  bool           `json:"multi_engine"`
	MultiPilot   bool           `json:"multi_pilot"`
	Remarks      string         `json:"remarks,omitempty"`
	Image        string         `json:"image,omitempty"`
}

func (a AircraftRecord) Identity() int64 { return a.ID }
