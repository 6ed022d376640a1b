package model

import "time"

// Task is a checklist entry scoped to a move. OrderIndex defines the manual
// display position within the move; ties break by priority desc, then
// creation time asc.
type Task struct {
	ID          int64      `json:"id"`
	MoveID      int64      `json:"move_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Status      string     `json:"status"`
	Category    string     `json:"category"`
	Priority    int        `json:"priority"`
	OrderIndex  int        `json:"order_index"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Task statuses.
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusCancelled  = "cancelled"
)

// ValidTaskStatus reports whether s is a known task status.
func ValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// TaskStats summarizes the tasks of a move by status.
type TaskStats struct {
	Total          int `json:"total"`
	Pending        int `json:"pending"`
	InProgress     int `json:"in_progress"`
	Completed      int `json:"completed"`
	Cancelled      int `json:"cancelled"`
	CompletionRate int `json:"completion_rate"`
}

// BulkTaskResult reports the outcome of a bulk task operation. Ids that do not
// belong to the move count as failed, not as errors.
type BulkTaskResult struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
}
