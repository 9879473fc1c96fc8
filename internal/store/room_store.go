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

type RoomStore struct {
	db *sql.DB
}

func NewRoomStore(db *sql.DB) *RoomStore {
	return &RoomStore{db: db}
}

func (s *RoomStore) Create(ctx context.Context, name, description, dashboardID string, userID *string) (*domain.Room, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rooms (id, name, description, dashboard_id, user_id, timestamp) VALUES (?, ?, ?, ?, ?, ?)
	`, id, name, description, dashboardID, userID, time.Now().UTC().UnixNano())
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *RoomStore) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	r := &domain.Room{}
	var ts int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, dashboard_id, user_id, timestamp FROM rooms WHERE id = ?
	`, id).Scan(&r.ID, &r.Name, &r.Description, &r.DashboardID, &r.UserID, &ts)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	r.Timestamp = time.Unix(0, ts).UTC()
	return r, nil
}

func (s *RoomStore) ListByDashboard(ctx context.Context, dashboardID string, owner *string) ([]*domain.Room, error) {
	query := `SELECT id, name, description, dashboard_id, user_id, timestamp FROM rooms
		WHERE dashboard_id = ? ORDER BY name ASC`
	args := []any{dashboardID}
	if owner != nil {
		query = `SELECT id, name, description, dashboard_id, user_id, timestamp FROM rooms
			WHERE dashboard_id = ? AND (user_id = ? OR user_id IS NULL) ORDER BY name ASC`
		args = append(args, *owner)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var rooms []*domain.Room
	for rows.Next() {
		r := &domain.Room{}
		var ts int64
		if err := rows.Scan(&r.ID, &r.Name, &r.Description, &r.DashboardID, &r.UserID, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		r.Timestamp = time.Unix(0, ts).UTC()
		rooms = append(rooms, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rooms: %w", err)
	}

	return rooms, nil
}

func (s *RoomStore) Update(ctx context.Context, id, name, description string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE rooms SET name = ?, description = ?, timestamp = ? WHERE id = ?
	`, name, description, time.Now().UTC().UnixNano(), id)
	if err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("room %w", domain.ErrNotFound)
	}

	return nil
}

// Delete removes the room and hard-deletes every storage location under it,
// in one transaction. Items under those locations are intentionally left in
// place with their now-dangling storageLocationId; readers tolerate the
// broken reference.
func (s *RoomStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM storage_locations WHERE room_id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete storage locations: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		DELETE FROM rooms WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("room %w", domain.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit room delete: %w", err)
	}

	return nil
}
