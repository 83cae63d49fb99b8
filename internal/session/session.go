// Package session holds the signed-in user's state. It is created once at
// startup and torn down on sign-out; nothing else keeps credentials.
package session

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"flight_logbook/internal/database"
	"flight_logbook/internal/models"
)

// State is the current sign-in
type State struct {
	Token    string
	UserID   int64
	Standard models.Standard
}

// SignedIn reports whether the state carries a token
func (s State) SignedIn() bool {
	return s.Token != ""
}

// Manager owns the session and persists it through repo
type Manager struct {
	mu              sync.RWMutex
	repo            database.SessionRepository
	state           State
	defaultStandard models.Standard
}

// NewManager creates a manager with no session loaded yet
func NewManager(repo database.SessionRepository, defaultStandard models.Standard) *Manager {
	if defaultStandard == "" {
		defaultStandard = models.StandardICAO
	}
	return &Manager{
		repo:            repo,
		defaultStandard: defaultStandard,
		state:           State{Standard: defaultStandard},
	}
}

// Load restores the persisted session, if any
func (m *Manager) Load() (State, error) {
	row, ok, err := m.repo.Load()
	if err != nil {
		return State{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !ok {
		m.state = State{Standard: m.defaultStandard}
		return m.state, nil
	}

	std, err := models.ParseStandard(row.Standard)
	if err != nil {
		slog.Warn("Stored session has an unknown standard, using default", "standard", row.Standard, "default", m.defaultStandard)
		std = m.defaultStandard
	}
	m.state = State{Token: row.Token, UserID: row.UserID, Standard: std}
	slog.Info("Session restored", "user_id", row.UserID, "standard", std)
	return m.state, nil
}

// SignIn stores a new session, replacing any existing one
func (m *Manager) SignIn(token string, userID int64, std models.Standard) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token is required")
	}
	if std == "" {
		std = m.defaultStandard
	}
	if _, err := models.ParseStandard(string(std)); err != nil {
		return err
	}

	if err := m.repo.Save(database.SessionRow{Token: token, UserID: userID, Standard: string(std)}); err != nil {
		return err
	}

	m.mu.Lock()
	m.state = State{Token: token, UserID: userID, Standard: std}
	m.mu.Unlock()

	slog.Info("Signed in", "user_id", userID, "standard", std)
	return nil
}

// SignOut clears the session in memory and on disk
func (m *Manager) SignOut() error {
	m.mu.Lock()
	m.state = State{Standard: m.defaultStandard}
	m.mu.Unlock()

	if err := m.repo.Clear(); err != nil {
		return err
	}
	slog.Info("Signed out")
	return nil
}

// SetStandard changes the airport code standard of the current session
func (m *Manager) SetStandard(std models.Standard) error {
	if _, err := models.ParseStandard(string(std)); err != nil {
		return err
	}

	m.mu.Lock()
	m.state.Standard = std
	state := m.state
	m.mu.Unlock()

	if !state.SignedIn() {
		return nil
	}
	return m.repo.Save(database.SessionRow{Token: state.Token, UserID: state.UserID, Standard: string(std)})
}

// State returns a copy of the current session
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Token returns the bearer token, empty when signed out
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Token
}
