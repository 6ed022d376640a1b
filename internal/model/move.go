package model

import "time"

// Location is a structured address attached to a move.
type Location struct {
	Address string   `json:"address"`
	City    string   `json:"city"`
	State   string   `json:"state"`
	ZipCode string   `json:"zip_code"`
	Country string   `json:"country"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

// Move is the top-level household-relocation project owned by one user.
// Deleting a move cascades to its tasks, rooms, boxes and items.
type Move struct {
	ID                    int64     `json:"id"`
	UserID                int64     `json:"user_id"`
	StartLocation         Location  `json:"start_location"`
	EndLocation           Location  `json:"end_location"`
	MoveDate              time.Time `json:"move_date"`
	Status                string    `json:"status"`
	HouseholdSize         *int      `json:"household_size,omitempty"`
	InventorySizeEstimate string    `json:"inventory_size_estimate,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// Move statuses.
const (
	MoveStatusPlanning   = "planning"
	MoveStatusInProgress = "in_progress"
	MoveStatusCompleted  = "completed"
	MoveStatusCancelled  = "cancelled"
)

// ValidMoveStatus reports whether s is a known move status.
func ValidMoveStatus(s string) bool {
	switch s {
	case MoveStatusPlanning, MoveStatusInProgress, MoveStatusCompleted, MoveStatusCancelled:
		return true
	}
	return false
}
