package store

import (
	"context"
	"errors"
	"testing"

	"github.com/janmarn/selitev/internal/db"
)

func TestCreateAndGetRoom(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	userID := newTestUser(t, database, "ana@example.com")
	move := newTestMove(t, database, userID)

	room, err := CreateRoom(ctx, database, move.ID, userID, "Kitchen", "Ground floor")
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	got, err := GetRoom(ctx, database, room.ID, userID)
	if err != nil {
		t.Fatalf("GetRoom: %v", err)
	}
	if got.Name != "Kitchen" || got.Description != "Ground floor" {
		t.Errorf("expected room round-trip, got %+v", got)
	}
}

func TestCreateRoomValidation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	userID := newTestUser(t, database, "ana@example.com")
	move := newTestMove(t, database, userID)

	if _, err := CreateRoom(ctx, database, move.ID, userID, "", ""); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for empty name, got %v", err)
	}
	if _, err := CreateRoom(ctx, database, 9999, userID, "Kitchen", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing move, got %v", err)
	}
}

func TestListRoomsByName(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	userID := newTestUser(t, database, "ana@example.com")
	move := newTestMove(t, database, userID)

	CreateRoom(ctx, database, move.ID, userID, "Kitchen", "")
	CreateRoom(ctx, database, move.ID, userID, "Attic", "")

	rooms, err := ListRooms(ctx, database, move.ID, userID)
	if err != nil {
		t.Fatalf("ListRooms: %v", err)
	}
	if len(rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(rooms))
	}
	if rooms[0].Name != "Attic" {
		t.Errorf("expected alphabetical order, got %q first", rooms[0].Name)
	}
}

func TestDeleteRoomClearsItemReference(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	userID := newTestUser(t, database, "ana@example.com")
	move := newTestMove(t, database, userID)

	room, _ := CreateRoom(ctx, database, move.ID, userID, "Kitchen", "")
	item, _ := CreateItem(ctx, database, move.ID, userID, CreateItemParams{Name: "Plates", RoomID: &room.ID})

	if err := DeleteRoom(ctx, database, room.ID, userID); err != nil {
		t.Fatalf("DeleteRoom: %v", err)
	}

	// The item survives with its room cleared.
	got, err := GetItem(ctx, database, item.ID, userID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.RoomID != nil {
		t.Errorf("expected room reference cleared, got %v", *got.RoomID)
	}
}

func TestRoomStats(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	userID := newTestUser(t, database, "ana@example.com")
	move := newTestMove(t, database, userID)

	kitchen, _ := CreateRoom(ctx, database, move.ID, userID, "Kitchen", "")
	CreateRoom(ctx, database, move.ID, userID, "Attic", "")
	box, _ := CreateBox(ctx, database, move.ID, userID, CreateBoxParams{Label: "K1"})

	value := 120.0
	CreateItem(ctx, database, move.ID, userID, CreateItemParams{Name: "Plates", RoomID: &kitchen.ID, BoxID: &box.ID, EstimatedValue: &value})
	CreateItem(ctx, database, move.ID, userID, CreateItemParams{Name: "Pans", RoomID: &kitchen.ID})

	stats, err := GetRoomStats(ctx, database, move.ID, userID)
	if err != nil {
		t.Fatalf("GetRoomStats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected stats for 2 rooms, got %d", len(stats))
	}

	for _, s := range stats {
		switch s.RoomName {
		case "Kitchen":
			if s.ItemCount != 2 || s.PackedItems != 1 || s.TotalValue != 120.0 {
				t.Errorf("unexpected kitchen stats: %+v", s)
			}
		case "Attic":
			if s.ItemCount != 0 || s.TotalValue != 0 {
				t.Errorf("expected empty attic stats, got %+v", s)
			}
		}
	}
}
