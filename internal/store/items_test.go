package store

import (
	"context"
	"errors"
	"testing"

	"github.com/janmarn/selitev/internal/db"
)

func TestCreateAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	userID := newTestUser(t, database, "ana@example.com")
	move := newTestMove(t, database, userID)

	value := 450.0
	item, err := CreateItem(ctx, database, move.ID, userID, CreateItemParams{
		Name:           "TV",
		Description:    "55 inch",
		EstimatedValue: &value,
		Category:       "electronics",
		IsFragile:      true,
		Properties:     map[string]any{"brand": "LG", "inches": 55.0},
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.MoveID != move.ID {
		t.Errorf("expected item in move %d, got %d", move.ID, item.MoveID)
	}

	got, err := GetItem(ctx, database, item.ID, userID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if !got.IsFragile {
		t.Error("expected fragile flag round-trip")
	}
	if got.Properties["brand"] != "LG" || got.Properties["inches"] != 55.0 {
		t.Errorf("expected properties round-trip, got %v", got.Properties)
	}
}

func TestCreateItemValidation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	userID := newTestUser(t, database, "ana@example.com")
	move := newTestMove(t, database, userID)

	if _, err := CreateItem(ctx, database, move.ID, userID, CreateItemParams{}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for empty name, got %v", err)
	}
	if _, err := CreateItem(ctx, database, move.ID, userID, CreateItemParams{Name: "Mug", Condition: "broken"}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for unknown condition, got %v", err)
	}
}

func TestCreateItemReferences(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	userID := newTestUser(t, database, "ana@example.com")
	move := newTestMove(t, database, userID)
	otherMove := newTestMove(t, database, userID)

	room, _ := CreateRoom(ctx, database, otherMove.ID, userID, "Kitchen", "")

	// Room from a different move is rejected.
	_, err := CreateItem(ctx, database, move.ID, userID, CreateItemParams{Name: "Plates", RoomID: &room.ID})
	if !errors.Is(err, ErrInvalidReference) {
		t.Errorf("expected ErrInvalidReference for cross-move room, got %v", err)
	}

	missing := int64(9999)
	_, err = CreateItem(ctx, database, move.ID, userID, CreateItemParams{Name: "Plates", BoxID: &missing})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing box, got %v", err)
	}
}

func TestListItemsFiltersAndSort(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	userID := newTestUser(t, database, "ana@example.com")
	move := newTestMove(t, database, userID)

	low := 10.0
	high := 500.0
	CreateItem(ctx, database, move.ID, userID, CreateItemParams{Name: "Mug", Category: "kitchen", EstimatedValue: &low})
	CreateItem(ctx, database, move.ID, userID, CreateItemParams{Name: "TV", Category: "electronics", EstimatedValue: &high, IsFragile: true})

	fragile := true
	items, err := ListItems(ctx, database, move.ID, userID, ItemFilters{IsFragile: &fragile})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 1 || items[0].Name != "TV" {
		t.Errorf("expected only the fragile item, got %d items", len(items))
	}

	byValue, _ := ListItems(ctx, database, move.ID, userID, ItemFilters{SortBy: "estimated_value", SortOrder: "desc"})
	if len(byValue) != 2 || byValue[0].Name != "TV" {
		t.Errorf("expected most valuable first, got %+v", byValue)
	}

	// Unknown sort column falls back to name.
	byName, _ := ListItems(ctx, database, move.ID, userID, ItemFilters{SortBy: "evil; DROP TABLE items"})
	if len(byName) != 2 || byName[0].Name != "Mug" {
		t.Errorf("expected name order fallback, got %+v", byName)
	}
}

func TestMoveItemBetweenBoxes(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	userID := newTestUser(t, database, "ana@example.com")
	move := newTestMove(t, database, userID)
	otherMove := newTestMove(t, database, userID)

	box, _ := CreateBox(ctx, database, move.ID, userID, CreateBoxParams{Label: "B1"})
	foreignBox, _ := CreateBox(ctx, database, otherMove.ID, userID, CreateBoxParams{Label: "F1"})
	item, _ := CreateItem(ctx, database, move.ID, userID, CreateItemParams{Name: "Plates"})

	moved, err := MoveItemToBox(ctx, database, item.ID, box.ID, userID)
	if err != nil {
		t.Fatalf("MoveItemToBox: %v", err)
	}
	if moved.BoxID == nil || *moved.BoxID != box.ID {
		t.Errorf("expected item in box %d, got %v", box.ID, moved.BoxID)
	}

	// A box from another move is rejected.
	if _, err := MoveItemToBox(ctx, database, item.ID, foreignBox.ID, userID); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("expected ErrInvalidReference for cross-move box, got %v", err)
	}

	removed, err := RemoveItemFromBox(ctx, database, item.ID, userID)
	if err != nil {
		t.Fatalf("RemoveItemFromBox: %v", err)
	}
	if removed.BoxID != nil {
		t.Errorf("expected box cleared, got %v", *removed.BoxID)
	}
}

func TestUpdateItemClearReferences(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	userID := newTestUser(t, database, "ana@example.com")
	move := newTestMove(t, database, userID)

	room, _ := CreateRoom(ctx, database, move.ID, userID, "Kitchen", "")
	item, _ := CreateItem(ctx, database, move.ID, userID, CreateItemParams{Name: "Plates", RoomID: &room.ID})

	// SetRoom with a nil id clears; leaving SetRoom false keeps it.
	name := "Dinner plates"
	kept, err := UpdateItem(ctx, database, item.ID, userID, UpdateItemParams{Name: &name})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if kept.RoomID == nil {
		t.Error("expected room kept when not set")
	}

	cleared, err := UpdateItem(ctx, database, item.ID, userID, UpdateItemParams{SetRoom: true})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if cleared.RoomID != nil {
		t.Errorf("expected room cleared, got %v", *cleared.RoomID)
	}
}

func TestItemStatsAndCategories(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	userID := newTestUser(t, database, "ana@example.com")
	move := newTestMove(t, database, userID)

	box, _ := CreateBox(ctx, database, move.ID, userID, CreateBoxParams{Label: "B1"})
	v1, v2 := 100.0, 300.0
	CreateItem(ctx, database, move.ID, userID, CreateItemParams{Name: "Mug", Category: "kitchen", EstimatedValue: &v1, BoxID: &box.ID})
	CreateItem(ctx, database, move.ID, userID, CreateItemParams{Name: "TV", Category: "electronics", EstimatedValue: &v2, IsFragile: true})
	CreateItem(ctx, database, move.ID, userID, CreateItemParams{Name: "Pans", Category: "kitchen"})

	stats, err := GetItemStats(ctx, database, move.ID, userID)
	if err != nil {
		t.Fatalf("GetItemStats: %v", err)
	}
	if stats.TotalItems != 3 || stats.PackedItems != 1 || stats.FragileItems != 1 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	if stats.TotalValue != 400.0 {
		t.Errorf("expected total value 400, got %v", stats.TotalValue)
	}

	categories, err := GetItemsByCategory(ctx, database, move.ID, userID)
	if err != nil {
		t.Fatalf("GetItemsByCategory: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}
	for _, c := range categories {
		if c.Category == "kitchen" && c.ItemCount != 2 {
			t.Errorf("expected 2 kitchen items, got %d", c.ItemCount)
		}
	}
}
