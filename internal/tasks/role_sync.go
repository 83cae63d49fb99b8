package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"flight_logbook/internal/database"
	"flight_logbook/internal/models"
)

// RoleSource fetches the user's crew role labels
type RoleSource interface {
	ListRoles(ctx context.Context) (models.RoleSet, error)
}

// RoleSyncTask mirrors the backend's crew role labels into the local store
type RoleSyncTask struct {
	source   RoleSource
	repo     database.RoleRepository
	settings database.SettingsRepository
	signedIn func() bool
	interval time.Duration
	now      func() time.Time
}

func NewRoleSyncTask(source RoleSource, repo database.RoleRepository, settings database.SettingsRepository, signedIn func() bool, interval time.Duration) *RoleSyncTask {
	return &RoleSyncTask{
		source:   source,
		repo:     repo,
		settings: settings,
		signedIn: signedIn,
		interval: interval,
		now:      time.Now,
	}
}

func (t *RoleSyncTask) Name() string { return "role_sync" }

func (t *RoleSyncTask) Interval() time.Duration { return t.interval }

func (t *RoleSyncTask) Run(ctx context.Context) error {
	if t.signedIn != nil && !t.signedIn() {
		return nil
	}

	roles, err := t.source.ListRoles(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch crew roles: %w", err)
	}
	if err := t.repo.ReplaceAll(roles); err != nil {
		return fmt.Errorf("failed to store crew roles: %w", err)
	}
	if err := t.settings.Set(database.SettingLastRoleSync, t.now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	slog.Info("Synced crew roles", "count", len(roles.Labels()))
	return nil
}
