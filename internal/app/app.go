// Package app wires the logbook client together: local store, session,
// backend client, list caches and background tasks.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"flight_logbook/internal/api"
	"flight_logbook/internal/config"
	"flight_logbook/internal/database"
	"flight_logbook/internal/export"
	"flight_logbook/internal/listcache"
	"flight_logbook/internal/merge"
	"flight_logbook/internal/models"
	"flight_logbook/internal/normalize"
	"flight_logbook/internal/pagination"
	"flight_logbook/internal/scheduler"
	"flight_logbook/internal/session"
	"flight_logbook/internal/tasks"
)

type (
	FlightCache   = listcache.Cache[models.FlightWire, models.FlightRecord]
	AircraftCache = listcache.Cache[models.AircraftRecord, models.AircraftRecord]
	AirportCache  = listcache.Cache[models.AirportRecord, models.AirportRecord]
)

// App is the application state. It is created once at startup and owns
// everything that must be torn down on sign-out or exit.
type App struct {
	ctx       context.Context
	cancel    context.CancelFunc
	cfg       *config.Config
	db        *database.DB
	session   *session.Manager
	client    *api.Client
	scheduler *scheduler.Scheduler
	reference *tasks.ReferenceSyncTask

	Flights  *FlightCache
	Aircraft *AircraftCache
	Airports *AirportCache
}

// New opens the local store and builds the client stack. Nothing runs
// until Start.
func New(cfg *config.Config) (*App, error) {
	db, err := database.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	sess := session.NewManager(db.SessionRepository(), cfg.Standard)

	client, err := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, cfg.API.PerPage, sess)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create api client: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		ctx:       ctx,
		cancel:    cancel,
		cfg:       cfg,
		db:        db,
		session:   sess,
		client:    client,
		scheduler: scheduler.New(ctx),
		Flights:   listcache.New(models.ResourceFlights, client.PerPage(), client.FlightFetcher(), normalize.Flight),
		Aircraft:  listcache.New(models.ResourceAircraft, client.PerPage(), client.AircraftFetcher(), listcache.Identity[models.AircraftRecord]),
		Airports:  listcache.New(models.ResourceAirports, client.PerPage(), client.AirportFetcher(), listcache.Identity[models.AirportRecord]),
	}

	signedIn := func() bool { return sess.State().SignedIn() }
	a.reference = tasks.NewReferenceSyncTask(client, db.ReferenceRepository(), signedIn, 100, cfg.RoleSyncInterval)

	a.scheduler.AddTask(tasks.NewRevalidateTask(cfg.RevalidateInterval, a.Flights, a.Aircraft, a.Airports))
	a.scheduler.AddTask(tasks.NewRoleSyncTask(client, db.RoleRepository(), db.SettingsRepository(), signedIn, cfg.RoleSyncInterval))
	a.scheduler.AddTask(a.reference)

	return a, nil
}

// Start restores the session and starts the background tasks. A token in
// the configuration signs in when no session is stored.
func (a *App) Start() error {
	state, err := a.session.Load()
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if !state.SignedIn() && a.cfg.API.Token != "" {
		if err := a.session.SignIn(a.cfg.API.Token, 0, a.cfg.Standard); err != nil {
			return fmt.Errorf("failed to sign in with configured token: %w", err)
		}
	}

	a.scheduler.Start()
	slog.Info("Logbook client started", "api", a.cfg.API.BaseURL, "signed_in", a.session.State().SignedIn())
	return nil
}

// Stop stops the background tasks and closes the local store
func (a *App) Stop() error {
	a.cancel()
	a.scheduler.Stop()

	if err := a.db.Close(); err != nil {
		slog.Error("Error closing database", "error", err)
	}

	slog.Info("Logbook client stopped")
	return nil
}

// Session returns the current session
func (a *App) Session() session.State {
	return a.session.State()
}

// SignIn starts a session. Lists cached for a previous user are dropped.
func (a *App) SignIn(token string, userID int64, std models.Standard) error {
	a.discardLists()
	return a.session.SignIn(token, userID, std)
}

// SignOut ends the session and clears everything cached for the user
func (a *App) SignOut() error {
	a.discardLists()
	if err := a.db.RoleRepository().ReplaceAll(models.NewRoleSet(nil)); err != nil {
		return err
	}
	return a.session.SignOut()
}

// SetStandard changes the airport code standard used for lookups and exports
func (a *App) SetStandard(std models.Standard) error {
	return a.session.SetStandard(std)
}

func (a *App) discardLists() {
	a.Flights.DiscardAll()
	a.Aircraft.DiscardAll()
	a.Airports.DiscardAll()
}

// Roles returns the crew role labels last synced from the backend
func (a *App) Roles() (models.RoleSet, error) {
	return a.db.RoleRepository().List()
}

// FlightKey returns the flights list key for search
func (a *App) FlightKey(search string) listcache.Key {
	return listcache.NewKey(models.ResourceFlights, search, "")
}

// AirportKey returns the airports list key for search in the session's standard
func (a *App) AirportKey(search string) listcache.Key {
	return listcache.NewKey(models.ResourceAirports, search, a.session.State().Standard)
}

// CreateFlight submits a new flight and refreshes the flight lists so it
// shows up at the top
func (a *App) CreateFlight(ctx context.Context, f models.FlightRecord) (models.FlightRecord, error) {
	created, err := a.client.CreateFlight(ctx, f)
	if err != nil {
		return models.FlightRecord{}, fmt.Errorf("failed to create flight: %w", err)
	}
	for _, key := range a.Flights.ActiveKeys() {
		if err := a.Flights.Revalidate(ctx, key); err != nil {
			slog.Warn("Failed to refresh list after create", "key", key.String(), "error", err)
		}
	}
	return created, nil
}

// UpdateFlight submits f and swaps the reconciled record into every list
// holding it
func (a *App) UpdateFlight(ctx context.Context, f models.FlightRecord) (models.FlightRecord, error) {
	echo, err := a.client.UpdateFlight(ctx, f)
	if err != nil {
		return models.FlightRecord{}, fmt.Errorf("failed to update flight %d: %w", f.ID, err)
	}
	merged := merge.Merge(f, echo)
	n := a.Flights.ReplaceItem(merged)
	slog.Debug("Flight updated", "flight_id", merged.ID, "lists", n)
	return merged, nil
}

// DeleteFlight deletes a flight and drops it from every list
func (a *App) DeleteFlight(ctx context.Context, id int64) error {
	if err := a.client.DeleteFlight(ctx, id); err != nil {
		return fmt.Errorf("failed to delete flight %d: %w", id, err)
	}
	n := a.Flights.RemoveItem(id)
	slog.Debug("Flight deleted", "flight_id", id, "lists", n)
	return nil
}

// ExportFlights writes the whole logbook as CSV. Reference data is synced
// first when the local store has none.
func (a *App) ExportFlights(ctx context.Context, w io.Writer) error {
	refs := a.db.ReferenceRepository()
	populated, err := refs.IsPopulated()
	if err != nil {
		return err
	}
	if !populated {
		if err := a.reference.Run(ctx); err != nil {
			return err
		}
	}

	flights, err := a.allFlights(ctx)
	if err != nil {
		return err
	}
	return export.WriteFlightsCSV(w, flights, refs, a.session.State().Standard)
}

// maxExportPages bounds the export walk against a backend that never
// reports an end
const maxExportPages = 1000

// allFlights pages through the full logbook outside the list caches. The
// walk stops early when the cursor fails to move past the page just read.
func (a *App) allFlights(ctx context.Context) ([]models.FlightRecord, error) {
	var out []models.FlightRecord
	seen := make(map[int64]bool)
	next := 1
	for loaded := 1; loaded <= maxExportPages; loaded++ {
		page, err := a.client.ListFlights(ctx, api.Query{}, next)
		if err != nil {
			return nil, fmt.Errorf("failed to list flights: %w", err)
		}
		if page != nil {
			for _, w := range page.Items {
				f := normalize.Flight(w)
				if seen[f.ID] {
					continue
				}
				seen[f.ID] = true
				out = append(out, f)
			}
		}
		cursor := pagination.Resolve(page, loaded, a.client.PerPage())
		if !cursor.HasMore {
			return out, nil
		}
		if cursor.Next <= next {
			slog.Warn("Flight pages stopped advancing, ending export walk", "page", next, "next", cursor.Next)
			return out, nil
		}
		next = cursor.Next
	}
	slog.Warn("Reached export page limit", "pages", maxExportPages, "flights", len(out))
	return out, nil
}
