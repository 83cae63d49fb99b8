package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB is the local SQLite store for state that survives restarts: the signed-in
// session, user settings, crew role labels and reference records.
type DB struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and ensures the schema exists
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := optimizeSQLite(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to optimize database: %w", err)
	}

	database := &DB{db: db}

	if err := database.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return database, nil
}

func optimizeSQLite(db *sql.DB) error {
	// WAL lets the background tasks read while a write is in progress
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA cache_size=-16000"); err != nil {
		return fmt.Errorf("failed to set cache size: %w", err)
	}

	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA temp_store=MEMORY"); err != nil {
		return fmt.Errorf("failed to set temp_store: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

// initSchema creates the tables if they don't exist
func (d *DB) initSchema() error {
	schemas := []struct {
		table string
		ddl   string
	}{
		{"session", `CREATE TABLE IF NOT EXISTS session (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			token TEXT NOT NULL,
			user_id INTEGER NOT NULL,
			standard TEXT NOT NULL DEFAULT 'icao',
			signed_in_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`},
		{"settings", `CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`},
		{"crew_roles", `CREATE TABLE IF NOT EXISTS crew_roles (
			position INTEGER NOT NULL,
			label TEXT NOT NULL UNIQUE COLLATE NOCASE
		);`},
		{"aircraft", `CREATE TABLE IF NOT EXISTS aircraft (
			id INTEGER PRIMARY KEY,
			registration TEXT NOT NULL,
			type TEXT,
			engine TEXT,
			is_aircraft INTEGER NOT NULL DEFAULT 1,
			is_simulator INTEGER NOT NULL DEFAULT 0,
			multi_engine INTEGER NOT NULL DEFAULT 0,
			multi_pilot INTEGER NOT NULL DEFAULT 0,
			remarks TEXT,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`},
		{"airports", `CREATE TABLE IF NOT EXISTS airports (
			id INTEGER PRIMARY KEY,
			name TEXT,
			country TEXT,
			icao TEXT,
			iata TEXT,
			faa TEXT,
			easa TEXT,
			caa TEXT,
			dgca TEXT,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`},
	}

	for _, s := range schemas {
		if _, err := d.db.Exec(s.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", s.table, err)
		}
	}

	if _, err := d.db.Exec(`CREATE INDEX IF NOT EXISTS idx_aircraft_registration ON aircraft(registration)`); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}

// SessionRepository returns the repository for the persisted session
func (d *DB) SessionRepository() SessionRepository {
	return NewSessionRepository(d.db)
}

// SettingsRepository returns the key/value settings repository
func (d *DB) SettingsRepository() SettingsRepository {
	return NewSettingsRepository(d.db)
}

// RoleRepository returns the crew role label repository
func (d *DB) RoleRepository() RoleRepository {
	return NewRoleRepository(d.db)
}

// ReferenceRepository returns the repository for aircraft and airport records
func (d *DB) ReferenceRepository() ReferenceRepository {
	return NewReferenceRepository(d.db)
}
