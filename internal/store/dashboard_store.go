package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/homestash/internal/domain"
)

type DashboardStore struct {
	db *sql.DB
}

func NewDashboardStore(db *sql.DB) *DashboardStore {
	return &DashboardStore{db: db}
}

func (s *DashboardStore) Create(ctx context.Context, name, description string, userID *string) (*domain.Dashboard, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dashboards (id, name, description, user_id, timestamp) VALUES (?, ?, ?, ?, ?)
	`, id, name, description, userID, time.Now().UTC().UnixNano())
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *DashboardStore) GetByID(ctx context.Context, id string) (*domain.Dashboard, error) {
	d := &domain.Dashboard{}
	var ts int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, user_id, timestamp FROM dashboards WHERE id = ?
	`, id).Scan(&d.ID, &d.Name, &d.Description, &d.UserID, &ts)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard: %w", err)
	}

	d.Timestamp = time.Unix(0, ts).UTC()
	return d, nil
}

// List returns dashboards ordered by name. A non-nil owner scopes the result
// to rows owned by that user plus shared (null-owner) rows; nil returns
// everything.
func (s *DashboardStore) List(ctx context.Context, owner *string) ([]*domain.Dashboard, error) {
	query := `SELECT id, name, description, user_id, timestamp FROM dashboards ORDER BY name ASC`
	var args []any
	if owner != nil {
		query = `SELECT id, name, description, user_id, timestamp FROM dashboards
			WHERE user_id = ? OR user_id IS NULL ORDER BY name ASC`
		args = append(args, *owner)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list dashboards: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var dashboards []*domain.Dashboard
	for rows.Next() {
		d := &domain.Dashboard{}
		var ts int64
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.UserID, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan dashboard: %w", err)
		}
		d.Timestamp = time.Unix(0, ts).UTC()
		dashboards = append(dashboards, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dashboards: %w", err)
	}

	return dashboards, nil
}

func (s *DashboardStore) Update(ctx context.Context, id, name, description string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE dashboards SET name = ?, description = ?, timestamp = ? WHERE id = ?
	`, name, description, time.Now().UTC().UnixNano(), id)
	if err != nil {
		return fmt.Errorf("failed to update dashboard: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("dashboard %w", domain.ErrNotFound)
	}

	return nil
}

// Delete removes the dashboard and reassigns every storage location stamped
// with it to the unassigned sentinel. Both writes commit in one transaction
// so readers never observe the dashboard gone while locations still point at
// it.
func (s *DashboardStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
		UPDATE storage_locations SET dashboard_id = ? WHERE dashboard_id = ?
	`, domain.UnassignedID, id)
	if err != nil {
		return fmt.Errorf("failed to reassign storage locations: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		DELETE FROM dashboards WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete dashboard: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("dashboard %w", domain.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit dashboard delete: %w", err)
	}

	return nil
}
