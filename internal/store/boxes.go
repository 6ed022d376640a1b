package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/janmarn/selitev/internal/model"
)

// qrCodePrefix starts every generated box QR code.
const qrCodePrefix = "BOX-"

// newQRCode mints a globally-unique box QR code.
func newQRCode() string {
	return qrCodePrefix + uuid.NewString()
}

// CreateBoxParams holds the fields of a new box.
type CreateBoxParams struct {
	Label             string
	DestinationRoomID *int64
	BoxType           string
	Notes             string
}

// CreateBox creates a box within a move and mints its QR code. An empty box
// type defaults to standard; a destination room must belong to the same move.
func CreateBox(ctx context.Context, db *sql.DB, moveID, userID int64, p CreateBoxParams) (*model.Box, error) {
	if _, err := MoveForUser(ctx, db, moveID, userID); err != nil {
		return nil, err
	}
	if p.Label == "" {
		return nil, fmt.Errorf("box label required: %w", ErrValidation)
	}
	if p.BoxType == "" {
		p.BoxType = model.BoxTypeStandard
	}
	if !model.ValidBoxType(p.BoxType) {
		return nil, fmt.Errorf("unknown box type %q: %w", p.BoxType, ErrValidation)
	}
	if p.DestinationRoomID != nil {
		if err := checkRoomInMove(ctx, db, *p.DestinationRoomID, moveID, userID); err != nil {
			return nil, err
		}
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO boxes (move_id, label, qr_code, destination_room_id, box_type, notes)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		moveID, p.Label, newQRCode(), p.DestinationRoomID, p.BoxType, nullIfEmpty(p.Notes),
	)
	if err != nil {
		return nil, fmt.Errorf("creating box: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting box id: %w", err)
	}

	return GetBox(ctx, db, id, userID)
}

const boxColumns = `b.id, b.move_id, b.label, b.qr_code, b.destination_room_id,
	b.box_type, b.notes, b.is_packed, b.is_loaded, b.is_delivered,
	b.packed_at, b.loaded_at, b.delivered_at, b.created_at, b.updated_at,
	r.name`

// GetBox returns a box owned (through its move) by userID, with the
// destination room name joined in.
func GetBox(ctx context.Context, db *sql.DB, boxID, userID int64) (*model.Box, error) {
	b, err := scanBox(db.QueryRowContext(ctx,
		`SELECT `+boxColumns+`
		 FROM boxes b
		 JOIN moves m ON m.id = b.move_id
		 LEFT JOIN rooms r ON r.id = b.destination_room_id
		 WHERE b.id = ? AND m.user_id = ?`, boxID, userID,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("box: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting box: %w", err)
	}
	return b, nil
}

// BoxFilters narrows and orders a box listing. Zero values mean no filtering;
// SortBy defaults to label ascending.
type BoxFilters struct {
	BoxType           string
	IsPacked          *bool
	IsLoaded          *bool
	IsDelivered       *bool
	DestinationRoomID *int64
	Search            string
	SortBy            string
	SortOrder         string
}

// boxSortColumns whitelists the sortable columns.
var boxSortColumns = map[string]string{
	"label":        "b.label",
	"box_type":     "b.box_type",
	"created_at":   "b.created_at",
	"packed_at":    "b.packed_at",
	"loaded_at":    "b.loaded_at",
	"delivered_at": "b.delivered_at",
}

// ListBoxes returns the boxes of a move filtered and sorted per f.
func ListBoxes(ctx context.Context, db *sql.DB, moveID, userID int64, f BoxFilters) ([]model.Box, error) {
	if _, err := MoveForUser(ctx, db, moveID, userID); err != nil {
		return nil, err
	}

	query := `SELECT ` + boxColumns + `
	          FROM boxes b
	          LEFT JOIN rooms r ON r.id = b.destination_room_id
	          WHERE b.move_id = ?`
	args := []any{moveID}

	if f.BoxType != "" {
		query += ` AND b.box_type = ?`
		args = append(args, f.BoxType)
	}
	if f.IsPacked != nil {
		query += ` AND b.is_packed = ?`
		args = append(args, *f.IsPacked)
	}
	if f.IsLoaded != nil {
		query += ` AND b.is_loaded = ?`
		args = append(args, *f.IsLoaded)
	}
	if f.IsDelivered != nil {
		query += ` AND b.is_delivered = ?`
		args = append(args, *f.IsDelivered)
	}
	if f.DestinationRoomID != nil {
		query += ` AND b.destination_room_id = ?`
		args = append(args, *f.DestinationRoomID)
	}
	if f.Search != "" {
		query += ` AND (b.label LIKE '%' || ? || '%' COLLATE NOCASE
		           OR b.notes LIKE '%' || ? || '%' COLLATE NOCASE)`
		args = append(args, f.Search, f.Search)
	}

	sortCol, ok := boxSortColumns[f.SortBy]
	if !ok {
		sortCol = "b.label"
	}
	dir := "ASC"
	if f.SortOrder == "desc" {
		dir = "DESC"
	}
	query += fmt.Sprintf(` ORDER BY %s %s, b.id ASC`, sortCol, dir)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing boxes: %w", err)
	}
	defer rows.Close()

	var boxes []model.Box
	for rows.Next() {
		b, err := scanBox(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning box: %w", err)
		}
		boxes = append(boxes, *b)
	}
	return boxes, rows.Err()
}

// UpdateBoxParams holds the optional fields of a box update. SetDestination
// distinguishes "leave alone" from "clear".
type UpdateBoxParams struct {
	Label             *string
	SetDestination    bool
	DestinationRoomID *int64
	BoxType           *string
	Notes             *string
}

// UpdateBox applies a partial update to a box. Milestones are set through the
// Mark functions, not here.
func UpdateBox(ctx context.Context, db *sql.DB, boxID, userID int64, p UpdateBoxParams) (*model.Box, error) {
	box, err := GetBox(ctx, db, boxID, userID)
	if err != nil {
		return nil, err
	}

	if p.Label != nil && *p.Label == "" {
		return nil, fmt.Errorf("box label required: %w", ErrValidation)
	}
	if p.BoxType != nil && !model.ValidBoxType(*p.BoxType) {
		return nil, fmt.Errorf("unknown box type %q: %w", *p.BoxType, ErrValidation)
	}
	if p.SetDestination && p.DestinationRoomID != nil {
		if err := checkRoomInMove(ctx, db, *p.DestinationRoomID, box.MoveID, userID); err != nil {
			return nil, err
		}
	}

	set := `updated_at = CURRENT_TIMESTAMP`
	var args []any

	if p.Label != nil {
		set += `, label = ?`
		args = append(args, *p.Label)
	}
	if p.SetDestination {
		set += `, destination_room_id = ?`
		args = append(args, p.DestinationRoomID)
	}
	if p.BoxType != nil {
		set += `, box_type = ?`
		args = append(args, *p.BoxType)
	}
	if p.Notes != nil {
		set += `, notes = ?`
		args = append(args, nullIfEmpty(*p.Notes))
	}

	args = append(args, boxID, userID)
	result, err := db.ExecContext(ctx,
		`UPDATE boxes SET `+set+` WHERE id = ? AND move_id IN `+ownedMoves, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("updating box: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("box: %w", ErrNotFound)
	}

	return GetBox(ctx, db, boxID, userID)
}

// DeleteBox hard-deletes a box. Items in the box survive with their box
// reference cleared.
func DeleteBox(ctx context.Context, db *sql.DB, boxID, userID int64) error {
	result, err := db.ExecContext(ctx,
		`DELETE FROM boxes WHERE id = ? AND move_id IN `+ownedMoves, boxID, userID,
	)
	if err != nil {
		return fmt.Errorf("deleting box: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("box: %w", ErrNotFound)
	}
	return nil
}

// MarkBoxPacked sets the packed milestone. Re-marking an already-packed box
// just re-stamps packed_at.
func MarkBoxPacked(ctx context.Context, db *sql.DB, boxID, userID int64) (*model.Box, error) {
	return setMilestone(ctx, db, boxID, userID, "is_packed", "packed_at")
}

// MarkBoxLoaded sets the loaded milestone.
func MarkBoxLoaded(ctx context.Context, db *sql.DB, boxID, userID int64) (*model.Box, error) {
	return setMilestone(ctx, db, boxID, userID, "is_loaded", "loaded_at")
}

// MarkBoxDelivered sets the delivered milestone.
func MarkBoxDelivered(ctx context.Context, db *sql.DB, boxID, userID int64) (*model.Box, error) {
	return setMilestone(ctx, db, boxID, userID, "is_delivered", "delivered_at")
}

func setMilestone(ctx context.Context, db *sql.DB, boxID, userID int64, flagCol, atCol string) (*model.Box, error) {
	result, err := db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE boxes SET %s = 1, %s = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND move_id IN %s`, flagCol, atCol, ownedMoves),
		boxID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("marking box %s: %w", flagCol, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("box: %w", ErrNotFound)
	}

	return GetBox(ctx, db, boxID, userID)
}

// GenerateBoxQRCode returns a box's QR code, minting and persisting one if
// the box has none.
func GenerateBoxQRCode(ctx context.Context, db *sql.DB, boxID, userID int64) (string, error) {
	box, err := GetBox(ctx, db, boxID, userID)
	if err != nil {
		return "", err
	}
	if box.QRCode != "" {
		return box.QRCode, nil
	}

	code := newQRCode()
	_, err = db.ExecContext(ctx,
		`UPDATE boxes SET qr_code = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND move_id IN `+ownedMoves, code, boxID, userID,
	)
	if err != nil {
		return "", fmt.Errorf("storing qr code: %w", err)
	}
	return code, nil
}

// GetBoxContents returns the items assigned to a box, ordered by name, with
// their properties parsed.
func GetBoxContents(ctx context.Context, db *sql.DB, boxID, userID int64) ([]model.Item, error) {
	if _, err := GetBox(ctx, db, boxID, userID); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+`
		 FROM items i
		 LEFT JOIN rooms r ON r.id = i.room_id
		 LEFT JOIN boxes b ON b.id = i.box_id
		 WHERE i.box_id = ?
		 ORDER BY i.name, i.id`, boxID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting box contents: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning box item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// GetBoxStats counts a move's boxes per milestone. A box can land in several
// buckets at once.
func GetBoxStats(ctx context.Context, db *sql.DB, moveID, userID int64) (*model.BoxStats, error) {
	if _, err := MoveForUser(ctx, db, moveID, userID); err != nil {
		return nil, err
	}

	stats := &model.BoxStats{}
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COUNT(CASE WHEN is_packed = 1 THEN 1 END),
		        COUNT(CASE WHEN is_loaded = 1 THEN 1 END),
		        COUNT(CASE WHEN is_delivered = 1 THEN 1 END)
		 FROM boxes WHERE move_id = ?`, moveID,
	).Scan(&stats.TotalBoxes, &stats.PackedBoxes, &stats.LoadedBoxes, &stats.DeliveredBoxes)
	if err != nil {
		return nil, fmt.Errorf("getting box stats: %w", err)
	}
	return stats, nil
}

// GetBoxesByType returns box counts grouped by type.
func GetBoxesByType(ctx context.Context, db *sql.DB, moveID, userID int64) ([]model.BoxTypeCount, error) {
	if _, err := MoveForUser(ctx, db, moveID, userID); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT box_type, COUNT(*) FROM boxes WHERE move_id = ?
		 GROUP BY box_type ORDER BY box_type`, moveID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting boxes by type: %w", err)
	}
	defer rows.Close()

	var groups []model.BoxTypeCount
	for rows.Next() {
		var g model.BoxTypeCount
		if err := rows.Scan(&g.BoxType, &g.BoxCount); err != nil {
			return nil, fmt.Errorf("scanning box type group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func scanBox(row rowScanner) (*model.Box, error) {
	b := &model.Box{}
	var qrCode, notes, roomName sql.NullString
	err := row.Scan(&b.ID, &b.MoveID, &b.Label, &qrCode, &b.DestinationRoomID,
		&b.BoxType, &notes, &b.IsPacked, &b.IsLoaded, &b.IsDelivered,
		&b.PackedAt, &b.LoadedAt, &b.DeliveredAt, &b.CreatedAt, &b.UpdatedAt,
		&roomName)
	if err != nil {
		return nil, err
	}
	b.QRCode = qrCode.String
	b.Notes = notes.String
	b.DestinationRoomName = roomName.String
	return b, nil
}
