package tasks

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"flight_logbook/internal/listcache"
	"flight_logbook/internal/models"
)

// Revalidator is a list cache whose live keys can be refreshed
type Revalidator interface {
	Resource() models.Resource
	ActiveKeys() []listcache.Key
	Revalidate(ctx context.Context, key listcache.Key) error
}

// RevalidateTask refreshes the first page of every live list so records
// changed elsewhere show up without the user pulling to refresh
type RevalidateTask struct {
	caches   []Revalidator
	interval time.Duration
}

func NewRevalidateTask(interval time.Duration, caches ...Revalidator) *RevalidateTask {
	return &RevalidateTask{caches: caches, interval: interval}
}

func (t *RevalidateTask) Name() string { return "revalidate_lists" }

func (t *RevalidateTask) Interval() time.Duration { return t.interval }

// Run revalidates every key; one failing key doesn't stop the others
func (t *RevalidateTask) Run(ctx context.Context) error {
	var errs []error
	refreshed := 0
	for _, c := range t.caches {
		for _, key := range c.ActiveKeys() {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err := c.Revalidate(ctx, key); err != nil {
				errs = append(errs, err)
				continue
			}
			refreshed++
		}
	}
	if refreshed > 0 {
		slog.Debug("Revalidated lists", "count", refreshed, "failed", len(errs))
	}
	return errors.Join(errs...)
}
