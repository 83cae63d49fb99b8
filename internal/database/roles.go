package database

import (
	"database/sql"
	"fmt"

	"flight_logbook/internal/models"
)

type RoleRepository interface {
	ReplaceAll(roles models.RoleSet) error
	List() (models.RoleSet, error)
}

type roleRepository struct {
	db *sql.DB
}

func NewRoleRepository(db *sql.DB) RoleRepository {
	return &roleRepository{db: db}
}

// ReplaceAll swaps the stored labels for roles in a single transaction
func (r *roleRepository) ReplaceAll(roles models.RoleSet) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM crew_roles`); err != nil {
		return fmt.Errorf("failed to clear crew roles: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO crew_roles (position, label) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, label := range roles.Labels() {
		if _, err := stmt.Exec(i, label); err != nil {
			return fmt.Errorf("failed to insert crew role: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// List returns the stored labels in their original order
func (r *roleRepository) List() (models.RoleSet, error) {
	rows, err := r.db.Query(`SELECT label FROM crew_roles ORDER BY position`)
	if err != nil {
		return models.RoleSet{}, fmt.Errorf("failed to query crew roles: %w", err)
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return models.RoleSet{}, fmt.Errorf("failed to scan crew role: %w", err)
		}
		labels = append(labels, label)
	}
	if err := rows.Err(); err != nil {
		return models.RoleSet{}, fmt.Errorf("failed to read crew roles: %w", err)
	}
	return models.NewRoleSet(labels), nil
}
