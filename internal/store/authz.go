package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/janmarn/selitev/internal/model"
)

// MoveForUser resolves a move and confirms it belongs to userID. A move that
// exists under another account is reported exactly like a missing one.
func MoveForUser(ctx context.Context, db *sql.DB, moveID, userID int64) (*model.Move, error) {
	m, err := scanMove(db.QueryRowContext(ctx,
		`SELECT id, user_id, start_location, end_location, move_date, status,
		        household_size, inventory_size_estimate, created_at, updated_at
		 FROM moves WHERE id = ? AND user_id = ?`, moveID, userID,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("move: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("resolving move: %w", err)
	}
	return m, nil
}

// roomMoveID resolves the move a room belongs to, under the ownership guard.
func roomMoveID(ctx context.Context, db *sql.DB, roomID, userID int64) (int64, error) {
	var moveID int64
	err := db.QueryRowContext(ctx,
		`SELECT r.move_id FROM rooms r
		 JOIN moves m ON m.id = r.move_id
		 WHERE r.id = ? AND m.user_id = ?`, roomID, userID,
	).Scan(&moveID)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("room: %w", ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("resolving room: %w", err)
	}
	return moveID, nil
}

// boxMoveID resolves the move a box belongs to, under the ownership guard.
func boxMoveID(ctx context.Context, db *sql.DB, boxID, userID int64) (int64, error) {
	var moveID int64
	err := db.QueryRowContext(ctx,
		`SELECT b.move_id FROM boxes b
		 JOIN moves m ON m.id = b.move_id
		 WHERE b.id = ? AND m.user_id = ?`, boxID, userID,
	).Scan(&moveID)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("box: %w", ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("resolving box: %w", err)
	}
	return moveID, nil
}

// checkRoomInMove verifies that a referenced room resolves, under the
// ownership guard, to the same move as the resource referencing it.
func checkRoomInMove(ctx context.Context, db *sql.DB, roomID, moveID, userID int64) error {
	gotMove, err := roomMoveID(ctx, db, roomID, userID)
	if err != nil {
		return err
	}
	if gotMove != moveID {
		return fmt.Errorf("room belongs to a different move: %w", ErrInvalidReference)
	}
	return nil
}

// checkBoxInMove is checkRoomInMove for box references.
func checkBoxInMove(ctx context.Context, db *sql.DB, boxID, moveID, userID int64) error {
	gotMove, err := boxMoveID(ctx, db, boxID, userID)
	if err != nil {
		return err
	}
	if gotMove != moveID {
		return fmt.Errorf("box belongs to a different move: %w", ErrInvalidReference)
	}
	return nil
}

// ownedMoves is the subquery used to scope nested-resource mutations to the
// requesting user in a single conditional statement.
const ownedMoves = `(SELECT id FROM moves WHERE user_id = ?)`
