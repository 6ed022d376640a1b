package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/janmarn/selitev/internal/model"
)

// CreateItemParams holds the fields of a new item.
type CreateItemParams struct {
	RoomID                  *int64
	BoxID                   *int64
	Name                    string
	Description             string
	PhotoURL                string
	EstimatedValue          *float64
	Properties              map[string]any
	Condition               string
	Category                string
	IsFragile               bool
	RequiresSpecialHandling bool
}

// CreateItem creates an item within a move. Room and box references must
// resolve, under the ownership guard, to the same move.
func CreateItem(ctx context.Context, db *sql.DB, moveID, userID int64, p CreateItemParams) (*model.Item, error) {
	if _, err := MoveForUser(ctx, db, moveID, userID); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, fmt.Errorf("item name required: %w", ErrValidation)
	}
	if p.Condition != "" && !model.ValidCondition(p.Condition) {
		return nil, fmt.Errorf("unknown condition %q: %w", p.Condition, ErrValidation)
	}
	if p.RoomID != nil {
		if err := checkRoomInMove(ctx, db, *p.RoomID, moveID, userID); err != nil {
			return nil, err
		}
	}
	if p.BoxID != nil {
		if err := checkBoxInMove(ctx, db, *p.BoxID, moveID, userID); err != nil {
			return nil, err
		}
	}

	properties, err := encodeProperties(p.Properties)
	if err != nil {
		return nil, err
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO items (move_id, room_id, box_id, name, description, photo_url,
		                    estimated_value, properties, condition, category,
		                    is_fragile, requires_special_handling)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		moveID, p.RoomID, p.BoxID, p.Name, nullIfEmpty(p.Description), nullIfEmpty(p.PhotoURL),
		p.EstimatedValue, properties, nullIfEmpty(p.Condition), nullIfEmpty(p.Category),
		p.IsFragile, p.RequiresSpecialHandling,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id, userID)
}

const itemColumns = `i.id, i.move_id, i.room_id, i.box_id, i.name, i.description,
	i.photo_url, i.estimated_value, i.properties, i.condition, i.category,
	i.is_fragile, i.requires_special_handling, i.created_at, i.updated_at,
	r.name, b.label`

// GetItem returns an item owned (through its move) by userID, with the room
// name and box label joined in.
func GetItem(ctx context.Context, db *sql.DB, itemID, userID int64) (*model.Item, error) {
	it, err := scanItem(db.QueryRowContext(ctx,
		`SELECT `+itemColumns+`
		 FROM items i
		 JOIN moves m ON m.id = i.move_id
		 LEFT JOIN rooms r ON r.id = i.room_id
		 LEFT JOIN boxes b ON b.id = i.box_id
		 WHERE i.id = ? AND m.user_id = ?`, itemID, userID,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("item: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return it, nil
}

// ItemFilters narrows and orders an item listing. Zero values mean no
// filtering; SortBy defaults to name ascending.
type ItemFilters struct {
	RoomID    *int64
	BoxID     *int64
	Category  string
	Condition string
	IsFragile *bool
	Search    string
	SortBy    string
	SortOrder string
}

// itemSortColumns whitelists the sortable columns.
var itemSortColumns = map[string]string{
	"name":            "i.name",
	"category":        "i.category",
	"estimated_value": "i.estimated_value",
	"created_at":      "i.created_at",
}

// ListItems returns the items of a move filtered and sorted per f.
func ListItems(ctx context.Context, db *sql.DB, moveID, userID int64, f ItemFilters) ([]model.Item, error) {
	if _, err := MoveForUser(ctx, db, moveID, userID); err != nil {
		return nil, err
	}

	query := `SELECT ` + itemColumns + `
	          FROM items i
	          LEFT JOIN rooms r ON r.id = i.room_id
	          LEFT JOIN boxes b ON b.id = i.box_id
	          WHERE i.move_id = ?`
	args := []any{moveID}

	if f.RoomID != nil {
		query += ` AND i.room_id = ?`
		args = append(args, *f.RoomID)
	}
	if f.BoxID != nil {
		query += ` AND i.box_id = ?`
		args = append(args, *f.BoxID)
	}
	if f.Category != "" {
		query += ` AND i.category = ?`
		args = append(args, f.Category)
	}
	if f.Condition != "" {
		query += ` AND i.condition = ?`
		args = append(args, f.Condition)
	}
	if f.IsFragile != nil {
		query += ` AND i.is_fragile = ?`
		args = append(args, *f.IsFragile)
	}
	if f.Search != "" {
		query += ` AND (i.name LIKE '%' || ? || '%' COLLATE NOCASE
		           OR i.description LIKE '%' || ? || '%' COLLATE NOCASE)`
		args = append(args, f.Search, f.Search)
	}

	sortCol, ok := itemSortColumns[f.SortBy]
	if !ok {
		sortCol = "i.name"
	}
	dir := "ASC"
	if f.SortOrder == "desc" {
		dir = "DESC"
	}
	query += fmt.Sprintf(` ORDER BY %s %s, i.id ASC`, sortCol, dir)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// UpdateItemParams holds the optional fields of an item update. Nil fields
// are left untouched. SetRoom/SetBox distinguish "leave alone" from "clear".
type UpdateItemParams struct {
	SetRoom                 bool
	RoomID                  *int64
	SetBox                  bool
	BoxID                   *int64
	Name                    *string
	Description             *string
	PhotoURL                *string
	EstimatedValue          *float64
	Properties              map[string]any
	SetProperties           bool
	Condition               *string
	Category                *string
	IsFragile               *bool
	RequiresSpecialHandling *bool
}

// UpdateItem applies a partial update to an item. Updated room and box
// references are checked against the item's own move.
func UpdateItem(ctx context.Context, db *sql.DB, itemID, userID int64, p UpdateItemParams) (*model.Item, error) {
	item, err := GetItem(ctx, db, itemID, userID)
	if err != nil {
		return nil, err
	}

	if p.Name != nil && *p.Name == "" {
		return nil, fmt.Errorf("item name required: %w", ErrValidation)
	}
	if p.Condition != nil && *p.Condition != "" && !model.ValidCondition(*p.Condition) {
		return nil, fmt.Errorf("unknown condition %q: %w", *p.Condition, ErrValidation)
	}
	if p.SetRoom && p.RoomID != nil {
		if err := checkRoomInMove(ctx, db, *p.RoomID, item.MoveID, userID); err != nil {
			return nil, err
		}
	}
	if p.SetBox && p.BoxID != nil {
		if err := checkBoxInMove(ctx, db, *p.BoxID, item.MoveID, userID); err != nil {
			return nil, err
		}
	}

	set := `updated_at = CURRENT_TIMESTAMP`
	var args []any

	if p.SetRoom {
		set += `, room_id = ?`
		args = append(args, p.RoomID)
	}
	if p.SetBox {
		set += `, box_id = ?`
		args = append(args, p.BoxID)
	}
	if p.Name != nil {
		set += `, name = ?`
		args = append(args, *p.Name)
	}
	if p.Description != nil {
		set += `, description = ?`
		args = append(args, nullIfEmpty(*p.Description))
	}
	if p.PhotoURL != nil {
		set += `, photo_url = ?`
		args = append(args, nullIfEmpty(*p.PhotoURL))
	}
	if p.EstimatedValue != nil {
		set += `, estimated_value = ?`
		args = append(args, *p.EstimatedValue)
	}
	if p.SetProperties {
		properties, err := encodeProperties(p.Properties)
		if err != nil {
			return nil, err
		}
		set += `, properties = ?`
		args = append(args, properties)
	}
	if p.Condition != nil {
		set += `, condition = ?`
		args = append(args, nullIfEmpty(*p.Condition))
	}
	if p.Category != nil {
		set += `, category = ?`
		args = append(args, nullIfEmpty(*p.Category))
	}
	if p.IsFragile != nil {
		set += `, is_fragile = ?`
		args = append(args, *p.IsFragile)
	}
	if p.RequiresSpecialHandling != nil {
		set += `, requires_special_handling = ?`
		args = append(args, *p.RequiresSpecialHandling)
	}

	args = append(args, itemID, userID)
	result, err := db.ExecContext(ctx,
		`UPDATE items SET `+set+` WHERE id = ? AND move_id IN `+ownedMoves, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("item: %w", ErrNotFound)
	}

	return GetItem(ctx, db, itemID, userID)
}

// DeleteItem hard-deletes an item.
func DeleteItem(ctx context.Context, db *sql.DB, itemID, userID int64) error {
	result, err := db.ExecContext(ctx,
		`DELETE FROM items WHERE id = ? AND move_id IN `+ownedMoves, itemID, userID,
	)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("item: %w", ErrNotFound)
	}
	return nil
}

// MoveItemToBox assigns an item to a box. The box must belong to the same
// move as the item; a box from another move of the same user is rejected.
func MoveItemToBox(ctx context.Context, db *sql.DB, itemID, boxID, userID int64) (*model.Item, error) {
	item, err := GetItem(ctx, db, itemID, userID)
	if err != nil {
		return nil, err
	}
	if err := checkBoxInMove(ctx, db, boxID, item.MoveID, userID); err != nil {
		return nil, err
	}

	_, err = db.ExecContext(ctx,
		`UPDATE items SET box_id = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND move_id IN `+ownedMoves, boxID, itemID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("moving item to box: %w", err)
	}

	return GetItem(ctx, db, itemID, userID)
}

// RemoveItemFromBox clears an item's box assignment.
func RemoveItemFromBox(ctx context.Context, db *sql.DB, itemID, userID int64) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET box_id = NULL, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND move_id IN `+ownedMoves, itemID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("removing item from box: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("item: %w", ErrNotFound)
	}

	return GetItem(ctx, db, itemID, userID)
}

// GetItemStats summarizes a move's items. Null estimated values count as 0;
// the average is 0 when the move has no items.
func GetItemStats(ctx context.Context, db *sql.DB, moveID, userID int64) (*model.ItemStats, error) {
	if _, err := MoveForUser(ctx, db, moveID, userID); err != nil {
		return nil, err
	}

	stats := &model.ItemStats{}
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COUNT(CASE WHEN box_id IS NOT NULL THEN 1 END),
		        COUNT(CASE WHEN is_fragile = 1 THEN 1 END),
		        COUNT(CASE WHEN requires_special_handling = 1 THEN 1 END),
		        COALESCE(SUM(estimated_value), 0),
		        COALESCE(AVG(estimated_value), 0)
		 FROM items WHERE move_id = ?`, moveID,
	).Scan(&stats.TotalItems, &stats.PackedItems, &stats.FragileItems,
		&stats.SpecialHandlingItems, &stats.TotalValue, &stats.AverageValue)
	if err != nil {
		return nil, fmt.Errorf("getting item stats: %w", err)
	}
	return stats, nil
}

// GetItemsByCategory returns item counts and summed values grouped by
// category. Items without a category form their own group (empty string).
func GetItemsByCategory(ctx context.Context, db *sql.DB, moveID, userID int64) ([]model.CategoryCount, error) {
	if _, err := MoveForUser(ctx, db, moveID, userID); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT COALESCE(category, ''), COUNT(*), COALESCE(SUM(estimated_value), 0)
		 FROM items WHERE move_id = ?
		 GROUP BY COALESCE(category, '')
		 ORDER BY COALESCE(category, '')`, moveID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting items by category: %w", err)
	}
	defer rows.Close()

	var groups []model.CategoryCount
	for rows.Next() {
		var g model.CategoryCount
		if err := rows.Scan(&g.Category, &g.ItemCount, &g.TotalValue); err != nil {
			return nil, fmt.Errorf("scanning category group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// encodeProperties serializes the opaque properties map, or NULL for nil.
func encodeProperties(props map[string]any) (any, error) {
	if props == nil {
		return nil, nil
	}
	data, err := json.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("encoding properties: %w", err)
	}
	return string(data), nil
}

func scanItem(row rowScanner) (*model.Item, error) {
	it := &model.Item{}
	var description, photoURL, properties, condition, category, roomName, boxLabel sql.NullString
	var estimatedValue sql.NullFloat64
	err := row.Scan(&it.ID, &it.MoveID, &it.RoomID, &it.BoxID, &it.Name, &description,
		&photoURL, &estimatedValue, &properties, &condition, &category,
		&it.IsFragile, &it.RequiresSpecialHandling, &it.CreatedAt, &it.UpdatedAt,
		&roomName, &boxLabel)
	if err != nil {
		return nil, err
	}
	it.Description = description.String
	it.PhotoURL = photoURL.String
	it.Condition = condition.String
	it.Category = category.String
	it.RoomName = roomName.String
	it.BoxLabel = boxLabel.String
	if estimatedValue.Valid {
		v := estimatedValue.Float64
		it.EstimatedValue = &v
	}
	if properties.Valid && properties.String != "" {
		if err := json.Unmarshal([]byte(properties.String), &it.Properties); err != nil {
			return nil, fmt.Errorf("decoding properties: %w", err)
		}
	}
	return it, nil
}
