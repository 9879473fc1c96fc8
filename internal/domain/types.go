package domain

import "time"

// UnassignedID is the sentinel parent id written by soft cascades. It is the
// literal value existing stored data carries, so it must not change.
const UnassignedID = "default"

// Dashboard is the root of the hierarchy. A nil UserID means the row is
// shared default data visible to everyone.
type Dashboard struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	UserID      *string   `json:"user_id"`
	Timestamp   time.Time `json:"timestamp"`
}

type Room struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	DashboardID string    `json:"dashboard_id"`
	UserID      *string   `json:"user_id"`
	Timestamp   time.Time `json:"timestamp"`
}

// StorageLocation belongs to a room. DashboardID is a denormalized copy
// stamped from the parent room at write time; it is nil when the room could
// not be resolved and is what the dashboard-delete cascade reassigns.
type StorageLocation struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PhotoURI    string    `json:"photoURI"`
	RoomID      string    `json:"room_id"`
	DashboardID *string   `json:"dashboard_id"`
	UserID      *string   `json:"user_id"`
	Timestamp   time.Time `json:"timestamp"`
}

// Item's RoomID and DashboardID are snapshots of the ancestor chain taken at
// creation time. They are not re-stamped if the storage location later moves
// to a different room, so treat them as hints, not live references.
type Item struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Category          string    `json:"category"`
	Description       string    `json:"description"`
	Quantity          int       `json:"quantity"`
	PhotoURI          string    `json:"photoURI"`
	StorageLocationID string    `json:"storageLocationId"`
	RoomID            string    `json:"roomId"`
	DashboardID       string    `json:"dashboardId"`
	UserID            *string   `json:"user_id"`
	Timestamp         time.Time `json:"timestamp"`
}

// EnrichedItem is a search result carrying ancestor names resolved at query
// time. Each level is independent: a missing location, room or dashboard
// leaves that level's fields nil without affecting the others.
type EnrichedItem struct {
	Item
	LocationName         *string `json:"locationName,omitempty"`
	LocationDescription  *string `json:"locationDescription,omitempty"`
	RoomName             *string `json:"roomName,omitempty"`
	RoomDescription      *string `json:"roomDescription,omitempty"`
	DashboardName        *string `json:"dashboardName,omitempty"`
	DashboardDescription *string `json:"dashboardDescription,omitempty"`
}

type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}
