package model

import "time"

// Box is a packing box within a move. The three milestones (packed, loaded,
// delivered) are independent booleans; the data model does not force the
// packed → loaded → delivered order.
type Box struct {
	ID                int64      `json:"id"`
	MoveID            int64      `json:"move_id"`
	Label             string     `json:"label"`
	QRCode            string     `json:"qr_code"`
	DestinationRoomID *int64     `json:"destination_room_id,omitempty"`
	BoxType           string     `json:"box_type"`
	Notes             string     `json:"notes,omitempty"`
	IsPacked          bool       `json:"is_packed"`
	IsLoaded          bool       `json:"is_loaded"`
	IsDelivered       bool       `json:"is_delivered"`
	PackedAt          *time.Time `json:"packed_at,omitempty"`
	LoadedAt          *time.Time `json:"loaded_at,omitempty"`
	DeliveredAt       *time.Time `json:"delivered_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	// Joined fields (not always populated).
	DestinationRoomName string `json:"destination_room_name,omitempty"`
}

// Box types.
const (
	BoxTypeStandard = "standard"
	BoxTypeFragile  = "fragile"
	BoxTypeHeavy    = "heavy"
	BoxTypeClothing = "clothing"
	BoxTypeBooks    = "books"
	BoxTypeKitchen  = "kitchen"
	BoxTypeBathroom = "bathroom"
	BoxTypeOther    = "other"
)

// ValidBoxType reports whether t is a known box type.
func ValidBoxType(t string) bool {
	switch t {
	case BoxTypeStandard, BoxTypeFragile, BoxTypeHeavy, BoxTypeClothing,
		BoxTypeBooks, BoxTypeKitchen, BoxTypeBathroom, BoxTypeOther:
		return true
	}
	return false
}

// BoxStats counts boxes per milestone for a move. The buckets are not
// mutually exclusive.
type BoxStats struct {
	TotalBoxes     int `json:"total_boxes"`
	PackedBoxes    int `json:"packed_boxes"`
	LoadedBoxes    int `json:"loaded_boxes"`
	DeliveredBoxes int `json:"delivered_boxes"`
}

// BoxTypeCount is one group of the boxes-by-type breakdown.
type BoxTypeCount struct {
	BoxType  string `json:"box_type"`
	BoxCount int    `json:"box_count"`
}
