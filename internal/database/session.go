package database

import (
	"database/sql"
	"fmt"
)

// SessionRow is the single persisted sign-in
type SessionRow struct {
	Token    string
	UserID   int64
	Standard string
}

type SessionRepository interface {
	Load() (SessionRow, bool, error)
	Save(row SessionRow) error
	Clear() error
}

type sessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Load returns the stored session; ok is false when nobody is signed in
func (r *sessionRepository) Load() (SessionRow, bool, error) {
	var row SessionRow
	err := r.db.QueryRow(`SELECT token, user_id, standard FROM session WHERE id = 1`).
		Scan(&row.Token, &row.UserID, &row.Standard)
	if err == sql.ErrNoRows {
		return SessionRow{}, false, nil
	}
	if err != nil {
		return SessionRow{}, false, fmt.Errorf("failed to load session: %w", err)
	}
	return row, true, nil
}

// Save replaces the stored session
func (r *sessionRepository) Save(row SessionRow) error {
	_, err := r.db.Exec(`INSERT OR REPLACE INTO session (id, token, user_id, standard, signed_in_at)
		VALUES (1, ?, ?, ?, CURRENT_TIMESTAMP)`, row.Token, row.UserID, row.Standard)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *sessionRepository) Clear() error {
	if _, err := r.db.Exec(`DELETE FROM session`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
