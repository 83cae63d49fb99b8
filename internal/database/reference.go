package database

import (
	"database/sql"
	"fmt"

	"flight_logbook/internal/models"
)

// ReferenceRepository keeps a local copy of the aircraft and airports that
// flights point at, so exports can resolve ids without going online.
type ReferenceRepository interface {
	UpsertAircraft(aircraft []models.AircraftRecord) error
	UpsertAirports(airports []models.AirportRecord) error
	Aircraft(id int64) (models.AircraftRecord, bool, error)
	Airport(id int64) (models.AirportRecord, bool, error)
	IsPopulated() (bool, error)
}

type referenceRepository struct {
	db *sql.DB
}

func NewReferenceRepository(db *sql.DB) ReferenceRepository {
	return &referenceRepository{db: db}
}

// UpsertAircraft writes aircraft records in a single transaction
func (r *referenceRepository) UpsertAircraft(aircraft []models.AircraftRecord) error {
	if len(aircraft) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO aircraft (
		id, registration, type, engine, is_aircraft, is_simulator,
		multi_engine, multi_pilot, remarks, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, ac := range aircraft {
		if _, err := stmt.Exec(
			ac.ID, ac.Registration, ac.Type, string(ac.Engine),
			ac.IsAircraft, ac.IsSimulator, ac.MultiEngine, ac.MultiPilot, ac.Remarks,
		); err != nil {
			return fmt.Errorf("failed to insert aircraft %d: %w", ac.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// UpsertAirports writes airport records in a single transaction
func (r *referenceRepository) UpsertAirports(airports []models.AirportRecord) error {
	if len(airports) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO airports (
		id, name, country, icao, iata, faa, easa, caa, dgca, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, ap := range airports {
		if _, err := stmt.Exec(
			ap.ID, ap.Name, ap.Country, ap.ICAO, ap.IATA, ap.FAA, ap.EASA, ap.CAA, ap.DGCA,
		); err != nil {
			return fmt.Errorf("failed to insert airport %d: %w", ap.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *referenceRepository) Aircraft(id int64) (models.AircraftRecord, bool, error) {
	var (
		ac      models.AircraftRecord
		engine  string
		typ     sql.NullString
		remarks sql.NullString
	)
	err := r.db.QueryRow(`SELECT id, registration, type, engine, is_aircraft, is_simulator,
		multi_engine, multi_pilot, remarks FROM aircraft WHERE id = ?`, id).Scan(
		&ac.ID, &ac.Registration, &typ, &engine, &ac.IsAircraft, &ac.IsSimulator,
		&ac.MultiEngine, &ac.MultiPilot, &remarks,
	)
	if err == sql.ErrNoRows {
		return models.AircraftRecord{}, false, nil
	}
	if err != nil {
		return models.AircraftRecord{}, false, fmt.Errorf("failed to load aircraft %d: %w", id, err)
	}
	ac.Type = typ.String
	ac.Engine = models.EngineCategory(engine)
	ac.Remarks = remarks.String
	return ac, true, nil
}

func (r *referenceRepository) Airport(id int64) (models.AirportRecord, bool, error) {
	var (
		ap     models.AirportRecord
		fields [8]sql.NullString
	)
	err := r.db.QueryRow(`SELECT id, name, country, icao, iata, faa, easa, caa, dgca
		FROM airports WHERE id = ?`, id).Scan(
		&ap.ID, &fields[0], &fields[1], &fields[2], &fields[3], &fields[4], &fields[5], &fields[6], &fields[7],
	)
	if err == sql.ErrNoRows {
		return models.AirportRecord{}, false, nil
	}
	if err != nil {
		return models.AirportRecord{}, false, fmt.Errorf("failed to load airport %d: %w", id, err)
	}
	ap.Name, ap.Country = fields[0].String, fields[1].String
	ap.ICAO, ap.IATA, ap.FAA = fields[2].String, fields[3].String, fields[4].String
	ap.EASA, ap.CAA, ap.DGCA = fields[5].String, fields[6].String, fields[7].String
	return ap, true, nil
}

// IsPopulated reports whether any aircraft has been stored yet
func (r *referenceRepository) IsPopulated() (bool, error) {
	var ignored int
	err := r.db.QueryRow("SELECT 1 FROM aircraft LIMIT 1").Scan(&ignored)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check aircraft table: %w", err)
	}
	return true, nil
}
