package model

import "time"

// Item is a single inventoried object within a move. Room and box references
// are optional and cleared (not cascaded) when the referenced row is deleted.
// Properties is an opaque key-value map stored as JSON text and round-tripped
// verbatim.
type Item struct {
	ID                      int64          `json:"id"`
	MoveID                  int64          `json:"move_id"`
	RoomID                  *int64         `json:"room_id,omitempty"`
	BoxID                   *int64         `json:"box_id,omitempty"`
	Name                    string         `json:"name"`
	Description             string         `json:"description,omitempty"`
	PhotoURL                string         `json:"photo_url,omitempty"`
	EstimatedValue          *float64       `json:"estimated_value,omitempty"`
	Properties              map[string]any `json:"properties,omitempty"`
	Condition               string         `json:"condition,omitempty"`
	Category                string         `json:"category,omitempty"`
	IsFragile               bool           `json:"is_fragile"`
	RequiresSpecialHandling bool           `json:"requires_special_handling"`
	CreatedAt               time.Time      `json:"created_at"`
	UpdatedAt               time.Time      `json:"updated_at"`

	// Joined fields (not always populated).
	RoomName string `json:"room_name,omitempty"`
	BoxLabel string `json:"box_label,omitempty"`
}

// Item conditions.
const (
	ConditionNew  = "new"
	ConditionGood = "good"
	ConditionFair = "fair"
	ConditionPoor = "poor"
)

// ValidCondition reports whether c is a known item condition.
func ValidCondition(c string) bool {
	switch c {
	case ConditionNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// ItemStats summarizes the items of a move.
type ItemStats struct {
	TotalItems           int     `json:"total_items"`
	PackedItems          int     `json:"packed_items"`
	FragileItems         int     `json:"fragile_items"`
	SpecialHandlingItems int     `json:"special_handling_items"`
	TotalValue           float64 `json:"total_value"`
	AverageValue         float64 `json:"average_value"`
}

// CategoryCount is one group of the items-by-category breakdown. Category is
// empty for items with no category.
type CategoryCount struct {
	Category   string  `json:"category"`
	ItemCount  int     `json:"item_count"`
	TotalValue float64 `json:"total_value"`
}
