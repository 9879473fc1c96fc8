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

type ItemStore struct {
	db *sql.DB
}

func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

// Create inserts item, assigning its id and timestamp, and returns the
// stored row. RoomID and DashboardID are stored exactly as given: they are a
// creation-time snapshot of the ancestor chain.
func (s *ItemStore) Create(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO items (id, name, category, description, quantity, photoURI, storageLocationId, roomId, dashboardId, user_id, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, item.Name, item.Category, item.Description, item.Quantity, item.PhotoURI,
		item.StorageLocationID, item.RoomID, item.DashboardID, item.UserID, time.Now().UTC().UnixNano())
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *ItemStore) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	item := &domain.Item{}
	var ts int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, category, description, quantity, photoURI, storageLocationId, roomId, dashboardId, user_id, timestamp
		FROM items WHERE id = ?
	`, id).Scan(&item.ID, &item.Name, &item.Category, &item.Description, &item.Quantity, &item.PhotoURI,
		&item.StorageLocationID, &item.RoomID, &item.DashboardID, &item.UserID, &ts)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	item.Timestamp = time.Unix(0, ts).UTC()
	return item, nil
}

// List returns items newest-first. A non-nil owner scopes to that user's
// rows plus shared (null-owner) rows.
func (s *ItemStore) List(ctx context.Context, owner *string) ([]*domain.Item, error) {
	if owner != nil {
		return s.list(ctx, `WHERE user_id = ? OR user_id IS NULL`, *owner)
	}
	return s.list(ctx, ``)
}

func (s *ItemStore) ListByStorageLocation(ctx context.Context, locationID string, owner *string) ([]*domain.Item, error) {
	if owner != nil {
		return s.list(ctx, `WHERE storageLocationId = ? AND (user_id = ? OR user_id IS NULL)`, locationID, *owner)
	}
	return s.list(ctx, `WHERE storageLocationId = ?`, locationID)
}

func (s *ItemStore) list(ctx context.Context, where string, args ...any) ([]*domain.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, description, quantity, photoURI, storageLocationId, roomId, dashboardId, user_id, timestamp
		FROM items `+where+` ORDER BY timestamp DESC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var items []*domain.Item
	for rows.Next() {
		item := &domain.Item{}
		var ts int64
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.Description, &item.Quantity, &item.PhotoURI,
			&item.StorageLocationID, &item.RoomID, &item.DashboardID, &item.UserID, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		item.Timestamp = time.Unix(0, ts).UTC()
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

func (s *ItemStore) Update(ctx context.Context, id, name, category, description string, quantity int, photoURI, storageLocationID string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE items SET name = ?, category = ?, description = ?, quantity = ?, photoURI = ?, storageLocationId = ?, timestamp = ?
		WHERE id = ?
	`, name, category, description, quantity, photoURI, storageLocationID, time.Now().UTC().UnixNano(), id)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("item %w", domain.ErrNotFound)
	}

	return nil
}

func (s *ItemStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM items WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("item %w", domain.ErrNotFound)
	}

	return nil
}
