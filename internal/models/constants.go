package models

import (
	"fmt"
	"strings"
)

// MetricCode identifies one flight-time bucket in a flight summary
type MetricCode string

// Summary metric codes
const (
	MetricTotal MetricCode = "total" // Total block time
	MetricPIC   MetricCode = "pic"   // Pilot in command
	MetricSIC   MetricCode = "sic"   // Second in command
	MetricPICUS MetricCode = "picus" // PIC under supervision
	MetricDual  MetricCode = "dual"  // Dual instruction received
	MetricInst  MetricCode = "inst"  // Instructor time
	MetricMulti MetricCode = "multi" // Multi-engine
	MetricNight MetricCode = "night"
	MetricIFR   MetricCode = "ifr"  // Instrument flight rules
	MetricIFRI  MetricCode = "ifri" // Actual instrument
	MetricIFRS  MetricCode = "ifrs" // Simulated instrument
	MetricXC    MetricCode = "xc"   // Cross-country
	MetricRP    MetricCode = "rp"   // Relief pilot
	MetricSim   MetricCode = "sim"  // Simulator
)

// MetricCodes lists every summary metric in display order
var MetricCodes = []MetricCode{
	MetricTotal, MetricPIC, MetricSIC, MetricPICUS, MetricDual, MetricInst, MetricMulti,
	MetricNight, MetricIFR, MetricIFRI, MetricIFRS, MetricXC, MetricRP, MetricSim,
}

// IsMetricCode reports whether code belongs to the fixed metric set
func IsMetricCode(code string) bool {
	for _, c := range MetricCodes {
		if string(c) == code {
			return true
		}
	}
	return false
}

// EngineCategory is the propulsion class of an aircraft
type EngineCategory string

const (
	EngineGlider    EngineCategory = "Glider"
	EngineTurboprop EngineCategory = "Turboprop"
	EnginePiston    EngineCategory = "Piston"
	EngineJet       EngineCategory = "Jet"
)

// ParseEngineCategory matches s case-insensitively against the known categories
func ParseEngineCategory(s string) (EngineCategory, error) {
	for _, c := range []EngineCategory{EngineGlider, EngineTurboprop, EnginePiston, EngineJet} {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown engine category: %q", s)
}

// Standard is an airport naming standard
type Standard string

const (
	StandardICAO Standard = "icao"
	StandardIATA Standard = "iata"
	StandardFAA  Standard = "faa"
	StandardEASA Standard = "easa"
	StandardCAA  Standard = "caa"
	StandardDGCA Standard = "dgca"
)

// ParseStandard returns the naming standard for s, case-insensitive
func ParseStandard(s string) (Standard, error) {
	switch Standard(strings.ToLower(strings.TrimSpace(s))) {
	case StandardICAO:
		return StandardICAO, nil
	case StandardIATA:
		return StandardIATA, nil
	case StandardFAA:
		return StandardFAA, nil
	case StandardEASA:
		return StandardEASA, nil
	case StandardCAA:
		return StandardCAA, nil
	case StandardDGCA:
		return StandardDGCA, nil
	default:
		return "", fmt.Errorf("unknown naming standard: %q", s)
	}
}

// Resource names a paginated backend collection
type Resource string

const (
	ResourceFlights  Resource = "flights"
	ResourceAircraft Resource = "aircraft"
	ResourceAirports Resource = "airports"
)
