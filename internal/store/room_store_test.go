package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/homestash/internal/domain"
)

func TestRoomStoreCreate(t *testing.T) {
	d := openTestDB(t)
	store := NewRoomStore(d)
	ctx := context.Background()

	room, err := store.Create(ctx, "Kitchen", "ground floor", "dash-1", strPtr("user-1"))
	require.NoError(t, err)
	assert.NotEmpty(t, room.ID)
	assert.Equal(t, "Kitchen", room.Name)
	assert.Equal(t, "dash-1", room.DashboardID)
	require.NotNil(t, room.UserID)
	assert.Equal(t, "user-1", *room.UserID)
}

func TestRoomStoreGetByIDMissing(t *testing.T) {
	d := openTestDB(t)
	store := NewRoomStore(d)

	room, err := store.GetByID(context.Background(), "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, room)
}

func TestRoomStoreListByDashboard(t *testing.T) {
	d := openTestDB(t)
	store := NewRoomStore(d)
	ctx := context.Background()

	_, err := store.Create(ctx, "Pantry", "", "dash-1", nil)
	require.NoError(t, err)
	_, err = store.Create(ctx, "Garage", "", "dash-1", nil)
	require.NoError(t, err)
	_, err = store.Create(ctx, "Office", "", "dash-2", nil)
	require.NoError(t, err)

	rooms, err := store.ListByDashboard(ctx, "dash-1", nil)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "Garage", rooms[0].Name)
	assert.Equal(t, "Pantry", rooms[1].Name)
}

func TestRoomStoreListByDashboardOwnerScope(t *testing.T) {
	d := openTestDB(t)
	store := NewRoomStore(d)
	ctx := context.Background()

	_, err := store.Create(ctx, "Mine", "", "dash-1", strPtr("user-1"))
	require.NoError(t, err)
	_, err = store.Create(ctx, "Shared", "", "dash-1", nil)
	require.NoError(t, err)
	_, err = store.Create(ctx, "Theirs", "", "dash-1", strPtr("user-2"))
	require.NoError(t, err)

	rooms, err := store.ListByDashboard(ctx, "dash-1", strPtr("user-1"))
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "Mine", rooms[0].Name)
	assert.Equal(t, "Shared", rooms[1].Name)
}

func TestRoomStoreUpdateMissing(t *testing.T) {
	d := openTestDB(t)
	store := NewRoomStore(d)

	err := store.Update(context.Background(), "no-such-id", "Name", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRoomStoreDeleteRemovesLocationsLeavesItems(t *testing.T) {
	d := openTestDB(t)
	rooms := NewRoomStore(d)
	locations := NewLocationStore(d)
	items := NewItemStore(d)
	ctx := context.Background()

	room, err := rooms.Create(ctx, "Kitchen", "", "dash-1", nil)
	require.NoError(t, err)

	location, err := locations.Create(ctx, "Cupboard", "", "", room.ID, nil, nil)
	require.NoError(t, err)

	item, err := items.Create(ctx, &domain.Item{
		Name:              "Flour",
		Quantity:          1,
		StorageLocationID: location.ID,
		RoomID:            room.ID,
	})
	require.NoError(t, err)

	err = rooms.Delete(ctx, room.ID)
	require.NoError(t, err)

	goneRoom, err := rooms.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Nil(t, goneRoom)

	goneLocation, err := locations.GetByID(ctx, location.ID)
	require.NoError(t, err)
	assert.Nil(t, goneLocation)

	// The item survives with its reference to the deleted location intact.
	orphan, err := items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, orphan)
	assert.Equal(t, location.ID, orphan.StorageLocationID)
}

func TestRoomStoreDeleteMissing(t *testing.T) {
	d := openTestDB(t)
	store := NewRoomStore(d)

	err := store.Delete(context.Background(), "no-such-id")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
