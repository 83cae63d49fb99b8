package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"flight_logbook/internal/database"
	"flight_logbook/internal/models"
	"flight_logbook/internal/pagination"
)

// maxReferencePages stops a walk whose backend never reports an end
const maxReferencePages = 200

// ReferenceSource lists the aircraft and airports that flights reference
type ReferenceSource interface {
	PerPage() int
	FetchAircraftPage(ctx context.Context, page int) (*models.Page[models.AircraftRecord], error)
	FetchAirportPage(ctx context.Context, page int) (*models.Page[models.AirportRecord], error)
}

// ReferenceSyncTask copies every aircraft and airport into the local store,
// committing in batches
type ReferenceSyncTask struct {
	source    ReferenceSource
	repo      database.ReferenceRepository
	signedIn  func() bool
	batchSize int
	interval  time.Duration
}

func NewReferenceSyncTask(source ReferenceSource, repo database.ReferenceRepository, signedIn func() bool, batchSize int, interval time.Duration) *ReferenceSyncTask {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &ReferenceSyncTask{
		source:    source,
		repo:      repo,
		signedIn:  signedIn,
		batchSize: batchSize,
		interval:  interval,
	}
}

func (t *ReferenceSyncTask) Name() string { return "reference_sync" }

func (t *ReferenceSyncTask) Interval() time.Duration { return t.interval }

func (t *ReferenceSyncTask) Run(ctx context.Context) error {
	if t.signedIn != nil && !t.signedIn() {
		return nil
	}

	aircraft, err := walk(ctx, t.source.PerPage(), t.batchSize, t.source.FetchAircraftPage, t.repo.UpsertAircraft)
	if err != nil {
		return fmt.Errorf("failed to sync aircraft: %w", err)
	}
	airports, err := walk(ctx, t.source.PerPage(), t.batchSize, t.source.FetchAirportPage, t.repo.UpsertAirports)
	if err != nil {
		return fmt.Errorf("failed to sync airports: %w", err)
	}

	slog.Info("Synced reference data", "aircraft", aircraft, "airports", airports)
	return nil
}

// walk fetches pages until the cursor reports the end, flushing every
// batchSize records to store
func walk[T any](
	ctx context.Context,
	perPage, batchSize int,
	fetch func(ctx context.Context, page int) (*models.Page[T], error),
	store func([]T) error,
) (int, error) {
	batch := make([]T, 0, batchSize)
	total := 0

	flushBatch := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := store(batch); err != nil {
			return err
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	next := 1
	for pages := 0; pages < maxReferencePages; pages++ {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		p, err := fetch(ctx, next)
		if err != nil {
			return total, err
		}
		if p != nil {
			for _, item := range p.Items {
				batch = append(batch, item)
				if len(batch) >= batchSize {
					if err := flushBatch(); err != nil {
						return total, err
					}
				}
			}
		}

		cursor := pagination.Resolve(p, next, perPage)
		if !cursor.HasMore {
			break
		}
		next = cursor.Next
	}

	if err := flushBatch(); err != nil {
		return total, err
	}
	return total, nil
}
