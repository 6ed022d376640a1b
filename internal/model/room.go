package model

import "time"

// Room groups items within a move. Deleting a room clears the room reference
// on its items; the items survive.
type Room struct {
	ID          int64     `json:"id"`
	MoveID      int64     `json:"move_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RoomStats summarizes the items assigned to one room.
type RoomStats struct {
	RoomID      int64   `json:"room_id"`
	RoomName    string  `json:"room_name"`
	ItemCount   int     `json:"item_count"`
	PackedItems int     `json:"packed_items"`
	TotalValue  float64 `json:"total_value"`
}
