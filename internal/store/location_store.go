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

type LocationStore struct {
	db *sql.DB
}

func NewLocationStore(db *sql.DB) *LocationStore {
	return &LocationStore{db: db}
}

// Create inserts a storage location. dashboardID is the denormalized copy of
// the parent room's dashboard; callers pass nil when the room could not be
// resolved.
func (s *LocationStore) Create(ctx context.Context, name, description, photoURI, roomID string, dashboardID, userID *string) (*domain.StorageLocation, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO storage_locations (id, name, description, photoURI, room_id, dashboard_id, user_id, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, name, description, photoURI, roomID, dashboardID, userID, time.Now().UTC().UnixNano())
	if err != nil {
		return nil, fmt.Errorf("failed to create storage location: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *LocationStore) GetByID(ctx context.Context, id string) (*domain.StorageLocation, error) {
	return s.getOne(ctx, `WHERE id = ?`, id)
}

// GetByName returns the first location with the given exact name, or nil.
func (s *LocationStore) GetByName(ctx context.Context, name string) (*domain.StorageLocation, error) {
	return s.getOne(ctx, `WHERE name = ? ORDER BY timestamp ASC LIMIT 1`, name)
}

// GetByPhotoURI returns the location holding the given photo reference, or nil.
func (s *LocationStore) GetByPhotoURI(ctx context.Context, photoURI string) (*domain.StorageLocation, error) {
	return s.getOne(ctx, `WHERE photoURI = ? LIMIT 1`, photoURI)
}

func (s *LocationStore) getOne(ctx context.Context, where string, args ...any) (*domain.StorageLocation, error) {
	l := &domain.StorageLocation{}
	var ts int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, photoURI, room_id, dashboard_id, user_id, timestamp
		FROM storage_locations `+where,
		args...,
	).Scan(&l.ID, &l.Name, &l.Description, &l.PhotoURI, &l.RoomID, &l.DashboardID, &l.UserID, &ts)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get storage location: %w", err)
	}

	l.Timestamp = time.Unix(0, ts).UTC()
	return l, nil
}

func (s *LocationStore) List(ctx context.Context, owner *string) ([]*domain.StorageLocation, error) {
	if owner != nil {
		return s.list(ctx, `WHERE user_id = ? OR user_id IS NULL`, *owner)
	}
	return s.list(ctx, ``)
}

func (s *LocationStore) ListByRoom(ctx context.Context, roomID string, owner *string) ([]*domain.StorageLocation, error) {
	if owner != nil {
		return s.list(ctx, `WHERE room_id = ? AND (user_id = ? OR user_id IS NULL)`, roomID, *owner)
	}
	return s.list(ctx, `WHERE room_id = ?`, roomID)
}

func (s *LocationStore) ListByDashboard(ctx context.Context, dashboardID string, owner *string) ([]*domain.StorageLocation, error) {
	if owner != nil {
		return s.list(ctx, `WHERE dashboard_id = ? AND (user_id = ? OR user_id IS NULL)`, dashboardID, *owner)
	}
	return s.list(ctx, `WHERE dashboard_id = ?`, dashboardID)
}

func (s *LocationStore) list(ctx context.Context, where string, args ...any) ([]*domain.StorageLocation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, photoURI, room_id, dashboard_id, user_id, timestamp
		FROM storage_locations `+where+` ORDER BY name ASC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list storage locations: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var locations []*domain.StorageLocation
	for rows.Next() {
		l := &domain.StorageLocation{}
		var ts int64
		if err := rows.Scan(&l.ID, &l.Name, &l.Description, &l.PhotoURI, &l.RoomID, &l.DashboardID, &l.UserID, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan storage location: %w", err)
		}
		l.Timestamp = time.Unix(0, ts).UTC()
		locations = append(locations, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating storage locations: %w", err)
	}

	return locations, nil
}

func (s *LocationStore) Update(ctx context.Context, id, name, description, photoURI, roomID string, dashboardID *string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE storage_locations SET name = ?, description = ?, photoURI = ?, room_id = ?, dashboard_id = ?, timestamp = ?
		WHERE id = ?
	`, name, description, photoURI, roomID, dashboardID, time.Now().UTC().UnixNano(), id)
	if err != nil {
		return fmt.Errorf("failed to update storage location: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("storage location %w", domain.ErrNotFound)
	}

	return nil
}

// SetPhotoURI replaces only the photo reference, refreshing the timestamp.
func (s *LocationStore) SetPhotoURI(ctx context.Context, id, photoURI string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE storage_locations SET photoURI = ?, timestamp = ? WHERE id = ?
	`, photoURI, time.Now().UTC().UnixNano(), id)
	if err != nil {
		return fmt.Errorf("failed to set photo reference: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("storage location %w", domain.ErrNotFound)
	}

	return nil
}

// Delete removes the location and reassigns its items to the unassigned
// sentinel, in one transaction: no reader ever sees the location gone while
// items still point at it.
func (s *LocationStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
		UPDATE items SET storageLocationId = ? WHERE storageLocationId = ?
	`, domain.UnassignedID, id)
	if err != nil {
		return fmt.Errorf("failed to reassign items: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		DELETE FROM storage_locations WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete storage location: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("storage location %w", domain.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit storage location delete: %w", err)
	}

	return nil
}
