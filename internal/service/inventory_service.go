package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/vbonduro/homestash/internal/domain"
)

// dashboardRepository is the subset of store.DashboardStore that Inventory requires.
type dashboardRepository interface {
	Create(ctx context.Context, name, description string, userID *string) (*domain.Dashboard, error)
	GetByID(ctx context.Context, id string) (*domain.Dashboard, error)
	List(ctx context.Context, owner *string) ([]*domain.Dashboard, error)
	Update(ctx context.Context, id, name, description string) error
	Delete(ctx context.Context, id string) error
}

// roomRepository is the subset of store.RoomStore that Inventory requires.
type roomRepository interface {
	Create(ctx context.Context, name, description, dashboardID string, userID *string) (*domain.Room, error)
	GetByID(ctx context.Context, id string) (*domain.Room, error)
	ListByDashboard(ctx context.Context, dashboardID string, owner *string) ([]*domain.Room, error)
	Update(ctx context.Context, id, name, description string) error
	Delete(ctx context.Context, id string) error
}

// locationRepository is the subset of store.LocationStore that Inventory requires.
type locationRepository interface {
	Create(ctx context.Context, name, description, photoURI, roomID string, dashboardID, userID *string) (*domain.StorageLocation, error)
	GetByID(ctx context.Context, id string) (*domain.StorageLocation, error)
	GetByName(ctx context.Context, name string) (*domain.StorageLocation, error)
	GetByPhotoURI(ctx context.Context, photoURI string) (*domain.StorageLocation, error)
	List(ctx context.Context, owner *string) ([]*domain.StorageLocation, error)
	ListByRoom(ctx context.Context, roomID string, owner *string) ([]*domain.StorageLocation, error)
	ListByDashboard(ctx context.Context, dashboardID string, owner *string) ([]*domain.StorageLocation, error)
	Update(ctx context.Context, id, name, description, photoURI, roomID string, dashboardID *string) error
	SetPhotoURI(ctx context.Context, id, photoURI string) error
	Delete(ctx context.Context, id string) error
}

// itemRepository is the subset of store.ItemStore that Inventory requires.
type itemRepository interface {
	Create(ctx context.Context, item *domain.Item) (*domain.Item, error)
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	List(ctx context.Context, owner *string) ([]*domain.Item, error)
	ListByStorageLocation(ctx context.Context, locationID string, owner *string) ([]*domain.Item, error)
	Update(ctx context.Context, id, name, category, description string, quantity int, photoURI, storageLocationID string) error
	Delete(ctx context.Context, id string) error
}

// Inventory owns the four collections and all cascade, scoping and search
// behavior behind one contract.
type Inventory struct {
	dashboards dashboardRepository
	rooms      roomRepository
	locations  locationRepository
	items      itemRepository
	logger     *slog.Logger
}

func NewInventory(
	dashboards dashboardRepository,
	rooms roomRepository,
	locations locationRepository,
	items itemRepository,
	logger *slog.Logger,
) *Inventory {
	return &Inventory{
		dashboards: dashboards,
		rooms:      rooms,
		locations:  locations,
		items:      items,
		logger:     logger,
	}
}

// validateName trims name and rejects it if nothing remains. Runs before any
// write, so a rejected call leaves no trace.
func validateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	return trimmed, nil
}

// parseQuantity turns free-form quantity input into a positive count,
// defaulting to 1 when absent, non-numeric, or non-positive.
func parseQuantity(quantity string) int {
	n, err := strconv.Atoi(strings.TrimSpace(quantity))
	if err != nil || n <= 0 {
		return 1
	}
	return n
}

// Dashboards.

func (s *Inventory) CreateDashboard(ctx context.Context, name, description string, userID *string) (*domain.Dashboard, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	return s.dashboards.Create(ctx, name, description, userID)
}

func (s *Inventory) GetAllDashboards(ctx context.Context, owner *string) ([]*domain.Dashboard, error) {
	return s.dashboards.List(ctx, owner)
}

func (s *Inventory) GetDashboardByID(ctx context.Context, id string) (*domain.Dashboard, error) {
	return s.dashboards.GetByID(ctx, id)
}

func (s *Inventory) UpdateDashboard(ctx context.Context, id, name, description string) (*domain.Dashboard, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	if err := s.dashboards.Update(ctx, id, name, description); err != nil {
		return nil, err
	}
	return s.dashboards.GetByID(ctx, id)
}

func (s *Inventory) DeleteDashboard(ctx context.Context, id string) error {
	return s.dashboards.Delete(ctx, id)
}

// Rooms.

func (s *Inventory) CreateRoom(ctx context.Context, name, description, dashboardID string, userID *string) (*domain.Room, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	// Parent existence is deliberately not checked: a dashboard deleted
	// concurrently yields an orphan room, not a failed create.
	return s.rooms.Create(ctx, name, description, dashboardID, userID)
}

func (s *Inventory) GetRoomsByDashboard(ctx context.Context, dashboardID string, owner *string) ([]*domain.Room, error) {
	return s.rooms.ListByDashboard(ctx, dashboardID, owner)
}

func (s *Inventory) GetRoomByID(ctx context.Context, id string) (*domain.Room, error) {
	return s.rooms.GetByID(ctx, id)
}

func (s *Inventory) UpdateRoom(ctx context.Context, id, name, description string) (*domain.Room, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	if err := s.rooms.Update(ctx, id, name, description); err != nil {
		return nil, err
	}
	return s.rooms.GetByID(ctx, id)
}

func (s *Inventory) DeleteRoom(ctx context.Context, id string) error {
	return s.rooms.Delete(ctx, id)
}

// Storage locations.

// stampDashboard resolves the parent room's dashboard id for denormalization
// onto the location row. Best-effort: a missing room or a failed lookup
// stamps nil and never fails the write.
func (s *Inventory) stampDashboard(ctx context.Context, roomID string) *string {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		s.logger.Warn("dashboard stamp lookup failed", "room_id", roomID, "error", err)
		return nil
	}
	if room == nil {
		return nil
	}
	id := room.DashboardID
	return &id
}

func (s *Inventory) CreateStorageLocation(ctx context.Context, name, description, photoURI, roomID string, userID *string) (*domain.StorageLocation, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	return s.locations.Create(ctx, name, description, photoURI, roomID, s.stampDashboard(ctx, roomID), userID)
}

func (s *Inventory) GetAllStorageLocations(ctx context.Context, owner *string) ([]*domain.StorageLocation, error) {
	return s.locations.List(ctx, owner)
}

func (s *Inventory) GetStorageLocationByID(ctx context.Context, id string) (*domain.StorageLocation, error) {
	return s.locations.GetByID(ctx, id)
}

func (s *Inventory) GetStorageLocationByName(ctx context.Context, name string) (*domain.StorageLocation, error) {
	return s.locations.GetByName(ctx, name)
}

func (s *Inventory) GetStorageLocationsByRoom(ctx context.Context, roomID string, owner *string) ([]*domain.StorageLocation, error) {
	return s.locations.ListByRoom(ctx, roomID, owner)
}

func (s *Inventory) GetStorageLocationsByDashboard(ctx context.Context, dashboardID string, owner *string) ([]*domain.StorageLocation, error) {
	return s.locations.ListByDashboard(ctx, dashboardID, owner)
}

func (s *Inventory) UpdateStorageLocation(ctx context.Context, id, name, description, photoURI, roomID string) (*domain.StorageLocation, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	if err := s.locations.Update(ctx, id, name, description, photoURI, roomID, s.stampDashboard(ctx, roomID)); err != nil {
		return nil, err
	}
	return s.locations.GetByID(ctx, id)
}

func (s *Inventory) DeleteStorageLocation(ctx context.Context, id string) error {
	return s.locations.Delete(ctx, id)
}

// Items.

// AddItemInput carries the caller-shaped item fields. Quantity arrives as
// free text and is parsed with a default of 1. RoomID and DashboardID are the
// ancestor snapshot recorded as-is at creation time.
type AddItemInput struct {
	Name              string
	Category          string
	Description       string
	Quantity          string
	PhotoURI          string
	StorageLocationID string
	RoomID            string
	DashboardID       string
	UserID            *string
}

func (s *Inventory) AddItem(ctx context.Context, in AddItemInput) (*domain.Item, error) {
	name, err := validateName(in.Name)
	if err != nil {
		return nil, err
	}
	return s.items.Create(ctx, &domain.Item{
		Name:              name,
		Category:          in.Category,
		Description:       in.Description,
		Quantity:          parseQuantity(in.Quantity),
		PhotoURI:          in.PhotoURI,
		StorageLocationID: in.StorageLocationID,
		RoomID:            in.RoomID,
		DashboardID:       in.DashboardID,
		UserID:            in.UserID,
	})
}

func (s *Inventory) GetAllItems(ctx context.Context, owner *string) ([]*domain.Item, error) {
	return s.items.List(ctx, owner)
}

func (s *Inventory) GetItemByID(ctx context.Context, id string) (*domain.Item, error) {
	return s.items.GetByID(ctx, id)
}

func (s *Inventory) GetItemsByStorageLocation(ctx context.Context, locationID string, owner *string) ([]*domain.Item, error) {
	return s.items.ListByStorageLocation(ctx, locationID, owner)
}

func (s *Inventory) UpdateItem(ctx context.Context, id, name, category, description, quantity, photoURI, storageLocationID string) (*domain.Item, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	if err := s.items.Update(ctx, id, name, strings.TrimSpace(category), description, parseQuantity(quantity), photoURI, storageLocationID); err != nil {
		return nil, err
	}
	return s.items.GetByID(ctx, id)
}

func (s *Inventory) DeleteItem(ctx context.Context, id string) error {
	return s.items.Delete(ctx, id)
}

// Search.

// SearchItemsByNameOrCategory fetches the full owner-scoped item set and
// keeps items whose name or category contains the query, case-insensitively.
// Survivors are enriched with ancestor names; result order preserves the
// newest-first fetch order.
func (s *Inventory) SearchItemsByNameOrCategory(ctx context.Context, query string, owner *string) ([]*domain.EnrichedItem, error) {
	items, err := s.items.List(ctx, owner)
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(query)
	results := make([]*domain.EnrichedItem, 0)
	for _, item := range items {
		if !strings.Contains(strings.ToLower(item.Name), term) &&
			!strings.Contains(strings.ToLower(item.Category), term) {
			continue
		}
		results = append(results, s.enrich(ctx, item))
	}

	return results, nil
}

// enrich attaches location, room and dashboard names to an item. Each level
// is resolved independently and best-effort: a miss or failure leaves that
// level's fields nil and stops the climb, but never fails the item.
func (s *Inventory) enrich(ctx context.Context, item *domain.Item) *domain.EnrichedItem {
	out := &domain.EnrichedItem{Item: *item}

	location, err := s.locations.GetByID(ctx, item.StorageLocationID)
	if err != nil {
		s.logger.Warn("search enrichment: location lookup failed", "item_id", item.ID, "error", err)
		return out
	}
	if location == nil {
		return out
	}
	out.LocationName = &location.Name
	out.LocationDescription = &location.Description

	room, err := s.rooms.GetByID(ctx, location.RoomID)
	if err != nil {
		s.logger.Warn("search enrichment: room lookup failed", "item_id", item.ID, "error", err)
		return out
	}
	if room == nil {
		return out
	}
	out.RoomName = &room.Name
	out.RoomDescription = &room.Description

	dashboard, err := s.dashboards.GetByID(ctx, room.DashboardID)
	if err != nil {
		s.logger.Warn("search enrichment: dashboard lookup failed", "item_id", item.ID, "error", err)
		return out
	}
	if dashboard == nil {
		return out
	}
	out.DashboardName = &dashboard.Name
	out.DashboardDescription = &dashboard.Description

	return out
}

// SearchItemsByLocation lists the items of the storage location holding the
// given photo reference. An unknown reference yields an empty result, not an
// error.
func (s *Inventory) SearchItemsByLocation(ctx context.Context, locationPhotoURI string, owner *string) ([]*domain.Item, error) {
	location, err := s.locations.GetByPhotoURI(ctx, locationPhotoURI)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return []*domain.Item{}, nil
	}
	return s.items.ListByStorageLocation(ctx, location.ID, owner)
}
