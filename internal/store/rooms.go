package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/janmarn/selitev/internal/model"
)

// CreateRoom creates a room within a move.
func CreateRoom(ctx context.Context, db *sql.DB, moveID, userID int64, name, description string) (*model.Room, error) {
	if _, err := MoveForUser(ctx, db, moveID, userID); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("room name required: %w", ErrValidation)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO rooms (move_id, name, description) VALUES (?, ?, ?)`,
		moveID, name, nullIfEmpty(description),
	)
	if err != nil {
		return nil, fmt.Errorf("creating room: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting room id: %w", err)
	}

	return GetRoom(ctx, db, id, userID)
}

// GetRoom returns a room owned (through its move) by userID.
func GetRoom(ctx context.Context, db *sql.DB, roomID, userID int64) (*model.Room, error) {
	r := &model.Room{}
	var description sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT r.id, r.move_id, r.name, r.description, r.created_at, r.updated_at
		 FROM rooms r
		 JOIN moves m ON m.id = r.move_id
		 WHERE r.id = ? AND m.user_id = ?`, roomID, userID,
	).Scan(&r.ID, &r.MoveID, &r.Name, &description, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("room: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting room: %w", err)
	}
	r.Description = description.String
	return r, nil
}

// ListRooms returns all rooms of a move, ordered by name.
func ListRooms(ctx context.Context, db *sql.DB, moveID, userID int64) ([]model.Room, error) {
	if _, err := MoveForUser(ctx, db, moveID, userID); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, move_id, name, description, created_at, updated_at
		 FROM rooms WHERE move_id = ? ORDER BY name`, moveID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}
	defer rows.Close()

	var rooms []model.Room
	for rows.Next() {
		var r model.Room
		var description sql.NullString
		if err := rows.Scan(&r.ID, &r.MoveID, &r.Name, &description, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning room: %w", err)
		}
		r.Description = description.String
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}

// UpdateRoomParams holds the optional fields of a room update.
type UpdateRoomParams struct {
	Name        *string
	Description *string
}

// UpdateRoom applies a partial update to a room.
func UpdateRoom(ctx context.Context, db *sql.DB, roomID, userID int64, p UpdateRoomParams) (*model.Room, error) {
	if p.Name != nil && *p.Name == "" {
		return nil, fmt.Errorf("room name required: %w", ErrValidation)
	}

	set := `updated_at = CURRENT_TIMESTAMP`
	var args []any

	if p.Name != nil {
		set += `, name = ?`
		args = append(args, *p.Name)
	}
	if p.Description != nil {
		set += `, description = ?`
		args = append(args, nullIfEmpty(*p.Description))
	}

	args = append(args, roomID, userID)
	result, err := db.ExecContext(ctx,
		`UPDATE rooms SET `+set+` WHERE id = ? AND move_id IN `+ownedMoves, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("updating room: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("room: %w", ErrNotFound)
	}

	return GetRoom(ctx, db, roomID, userID)
}

// DeleteRoom hard-deletes a room. Items assigned to the room survive with
// their room reference cleared; boxes destined for it lose the destination.
func DeleteRoom(ctx context.Context, db *sql.DB, roomID, userID int64) error {
	result, err := db.ExecContext(ctx,
		`DELETE FROM rooms WHERE id = ? AND move_id IN `+ownedMoves, roomID, userID,
	)
	if err != nil {
		return fmt.Errorf("deleting room: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("room: %w", ErrNotFound)
	}
	return nil
}

// GetRoomStats returns, per room of the move, how many items it holds, how
// many of those are boxed, and their combined estimated value.
func GetRoomStats(ctx context.Context, db *sql.DB, moveID, userID int64) ([]model.RoomStats, error) {
	if _, err := MoveForUser(ctx, db, moveID, userID); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT r.id, r.name,
		        COUNT(i.id),
		        COUNT(CASE WHEN i.box_id IS NOT NULL THEN 1 END),
		        COALESCE(SUM(i.estimated_value), 0)
		 FROM rooms r
		 LEFT JOIN items i ON i.room_id = r.id
		 WHERE r.move_id = ?
		 GROUP BY r.id, r.name
		 ORDER BY r.name`, moveID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting room stats: %w", err)
	}
	defer rows.Close()

	var stats []model.RoomStats
	for rows.Next() {
		var s model.RoomStats
		if err := rows.Scan(&s.RoomID, &s.RoomName, &s.ItemCount, &s.PackedItems, &s.TotalValue); err != nil {
			return nil, fmt.Errorf("scanning room stats: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
