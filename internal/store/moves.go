package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/janmarn/selitev/internal/model"
)

// dateOnly is the storage format for date columns.
const dateOnly = "2006-01-02"

// CreateMove creates a new move for a user.
func CreateMove(ctx context.Context, db *sql.DB, userID int64, start, end model.Location, moveDate time.Time, householdSize *int, sizeEstimate string) (*model.Move, error) {
	startJSON, err := json.Marshal(start)
	if err != nil {
		return nil, fmt.Errorf("encoding start location: %w", err)
	}
	endJSON, err := json.Marshal(end)
	if err != nil {
		return nil, fmt.Errorf("encoding end location: %w", err)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO moves (user_id, start_location, end_location, move_date, household_size, inventory_size_estimate)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		userID, string(startJSON), string(endJSON), moveDate.Format(dateOnly), householdSize, nullIfEmpty(sizeEstimate),
	)
	if err != nil {
		return nil, fmt.Errorf("creating move: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting move id: %w", err)
	}

	return MoveForUser(ctx, db, id, userID)
}

// ListMoves returns all moves for a user, newest first.
func ListMoves(ctx context.Context, db *sql.DB, userID int64) ([]model.Move, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, user_id, start_location, end_location, move_date, status,
		        household_size, inventory_size_estimate, created_at, updated_at
		 FROM moves WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing moves: %w", err)
	}
	defer rows.Close()

	var moves []model.Move
	for rows.Next() {
		m, err := scanMove(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning move: %w", err)
		}
		moves = append(moves, *m)
	}
	return moves, rows.Err()
}

// UpdateMoveParams holds the optional fields of a move update. Nil fields are
// left untouched.
type UpdateMoveParams struct {
	StartLocation         *model.Location
	EndLocation           *model.Location
	MoveDate              *time.Time
	HouseholdSize         *int
	InventorySizeEstimate *string
}

// UpdateMove applies a partial update to a move owned by userID.
func UpdateMove(ctx context.Context, db *sql.DB, moveID, userID int64, p UpdateMoveParams) (*model.Move, error) {
	set := `updated_at = CURRENT_TIMESTAMP`
	var args []any

	if p.StartLocation != nil {
		data, err := json.Marshal(p.StartLocation)
		if err != nil {
			return nil, fmt.Errorf("encoding start location: %w", err)
		}
		set += `, start_location = ?`
		args = append(args, string(data))
	}
	if p.EndLocation != nil {
		data, err := json.Marshal(p.EndLocation)
		if err != nil {
			return nil, fmt.Errorf("encoding end location: %w", err)
		}
		set += `, end_location = ?`
		args = append(args, string(data))
	}
	if p.MoveDate != nil {
		set += `, move_date = ?`
		args = append(args, p.MoveDate.Format(dateOnly))
	}
	if p.HouseholdSize != nil {
		set += `, household_size = ?`
		args = append(args, *p.HouseholdSize)
	}
	if p.InventorySizeEstimate != nil {
		set += `, inventory_size_estimate = ?`
		args = append(args, nullIfEmpty(*p.InventorySizeEstimate))
	}

	args = append(args, moveID, userID)
	result, err := db.ExecContext(ctx,
		`UPDATE moves SET `+set+` WHERE id = ? AND user_id = ?`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("updating move: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("move: %w", ErrNotFound)
	}

	return MoveForUser(ctx, db, moveID, userID)
}

// UpdateMoveStatus sets a move's status.
func UpdateMoveStatus(ctx context.Context, db *sql.DB, moveID, userID int64, status string) (*model.Move, error) {
	if !model.ValidMoveStatus(status) {
		return nil, fmt.Errorf("unknown move status %q: %w", status, ErrValidation)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE moves SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND user_id = ?`,
		status, moveID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating move status: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("move: %w", ErrNotFound)
	}

	return MoveForUser(ctx, db, moveID, userID)
}

// DeleteMove hard-deletes a move. Foreign keys cascade the delete to the
// move's tasks, rooms, boxes and items.
func DeleteMove(ctx context.Context, db *sql.DB, moveID, userID int64) error {
	result, err := db.ExecContext(ctx,
		`DELETE FROM moves WHERE id = ? AND user_id = ?`, moveID, userID,
	)
	if err != nil {
		return fmt.Errorf("deleting move: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("move: %w", ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMove(row rowScanner) (*model.Move, error) {
	m := &model.Move{}
	var startJSON, endJSON string
	var householdSize sql.NullInt64
	var sizeEstimate sql.NullString
	err := row.Scan(&m.ID, &m.UserID, &startJSON, &endJSON, &m.MoveDate, &m.Status,
		&householdSize, &sizeEstimate, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(startJSON), &m.StartLocation); err != nil {
		return nil, fmt.Errorf("decoding start location: %w", err)
	}
	if err := json.Unmarshal([]byte(endJSON), &m.EndLocation); err != nil {
		return nil, fmt.Errorf("decoding end location: %w", err)
	}
	if householdSize.Valid {
		size := int(householdSize.Int64)
		m.HouseholdSize = &size
	}
	m.InventorySizeEstimate = sizeEstimate.String
	return m, nil
}

// nullIfEmpty maps "" to NULL so optional text columns stay NULL instead of
// accumulating empty strings.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
