package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/janmarn/selitev/internal/model"
)

// CreateTaskParams holds the fields of a new task.
type CreateTaskParams struct {
	Name        string
	Description string
	DueDate     *time.Time
	Category    string
	Priority    int
}

// CreateTask creates a task at the end of the move's list. The first task of
// a move gets order_index 1; later tasks get max(order_index)+1, assigned in
// the same statement so concurrent creates cannot reuse an index.
func CreateTask(ctx context.Context, db *sql.DB, moveID, userID int64, p CreateTaskParams) (*model.Task, error) {
	if _, err := MoveForUser(ctx, db, moveID, userID); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, fmt.Errorf("task name required: %w", ErrValidation)
	}
	if p.Category == "" {
		return nil, fmt.Errorf("task category required: %w", ErrValidation)
	}

	var dueDate any
	if p.DueDate != nil {
		dueDate = p.DueDate.Format(dateOnly)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO tasks (move_id, name, description, due_date, category, priority, order_index)
		 VALUES (?, ?, ?, ?, ?, ?,
		         (SELECT COALESCE(MAX(order_index), 0) + 1 FROM tasks WHERE move_id = ?))`,
		moveID, p.Name, nullIfEmpty(p.Description), dueDate, p.Category, p.Priority, moveID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting task id: %w", err)
	}

	return GetTask(ctx, db, id, userID)
}

// GetTask returns a task owned (through its move) by userID.
func GetTask(ctx context.Context, db *sql.DB, taskID, userID int64) (*model.Task, error) {
	t, err := scanTask(db.QueryRowContext(ctx,
		`SELECT t.id, t.move_id, t.name, t.description, t.due_date, t.status,
		        t.category, t.priority, t.order_index, t.created_at, t.updated_at
		 FROM tasks t
		 JOIN moves m ON m.id = t.move_id
		 WHERE t.id = ? AND m.user_id = ?`, taskID, userID,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting task: %w", err)
	}
	return t, nil
}

// TaskFilters narrows a task listing. Zero values mean no filtering.
type TaskFilters struct {
	Status   string
	Category string
	Search   string
}

// ListTasks returns the tasks of a move in display order: order_index asc,
// with ties broken by priority desc, then creation time asc.
func ListTasks(ctx context.Context, db *sql.DB, moveID, userID int64, f TaskFilters) ([]model.Task, error) {
	if _, err := MoveForUser(ctx, db, moveID, userID); err != nil {
		return nil, err
	}

	query := `SELECT t.id, t.move_id, t.name, t.description, t.due_date, t.status,
	                 t.category, t.priority, t.order_index, t.created_at, t.updated_at
	          FROM tasks t
	          WHERE t.move_id = ?`
	args := []any{moveID}

	if f.Status != "" {
		query += ` AND t.status = ?`
		args = append(args, f.Status)
	}
	if f.Category != "" {
		query += ` AND t.category = ?`
		args = append(args, f.Category)
	}
	if f.Search != "" {
		query += ` AND (t.name LIKE '%' || ? || '%' COLLATE NOCASE
		           OR t.description LIKE '%' || ? || '%' COLLATE NOCASE)`
		args = append(args, f.Search, f.Search)
	}

	query += ` ORDER BY t.order_index ASC, t.priority DESC, t.created_at ASC, t.id ASC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// UpdateTaskParams holds the optional fields of a task update. Nil fields are
// left untouched.
type UpdateTaskParams struct {
	Name        *string
	Description *string
	DueDate     *time.Time
	Status      *string
	Category    *string
	Priority    *int
	OrderIndex  *int
}

// UpdateTask applies a partial update to a task. Any status may be set to any
// other status; no transition order is enforced.
func UpdateTask(ctx context.Context, db *sql.DB, taskID, userID int64, p UpdateTaskParams) (*model.Task, error) {
	if p.Name != nil && *p.Name == "" {
		return nil, fmt.Errorf("task name required: %w", ErrValidation)
	}
	if p.Category != nil && *p.Category == "" {
		return nil, fmt.Errorf("task category required: %w", ErrValidation)
	}
	if p.Status != nil && !model.ValidTaskStatus(*p.Status) {
		return nil, fmt.Errorf("unknown task status %q: %w", *p.Status, ErrValidation)
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
	if p.DueDate != nil {
		set += `, due_date = ?`
		args = append(args, p.DueDate.Format(dateOnly))
	}
	if p.Status != nil {
		set += `, status = ?`
		args = append(args, *p.Status)
	}
	if p.Category != nil {
		set += `, category = ?`
		args = append(args, *p.Category)
	}
	if p.Priority != nil {
		set += `, priority = ?`
		args = append(args, *p.Priority)
	}
	if p.OrderIndex != nil {
		set += `, order_index = ?`
		args = append(args, *p.OrderIndex)
	}

	args = append(args, taskID, userID)
	result, err := db.ExecContext(ctx,
		`UPDATE tasks SET `+set+` WHERE id = ? AND move_id IN `+ownedMoves, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("updating task: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("task: %w", ErrNotFound)
	}

	return GetTask(ctx, db, taskID, userID)
}

// DeleteTask hard-deletes a task.
func DeleteTask(ctx context.Context, db *sql.DB, taskID, userID int64) error {
	result, err := db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND move_id IN `+ownedMoves, taskID, userID,
	)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("task: %w", ErrNotFound)
	}
	return nil
}

// ReorderTasks assigns order_index 0, 1, 2, ... following the submitted id
// sequence. Ids that do not belong to the move are silently skipped. Returns
// the move's full task list in the new order.
func ReorderTasks(ctx context.Context, db *sql.DB, moveID, userID int64, taskIDs []int64) ([]model.Task, error) {
	if _, err := MoveForUser(ctx, db, moveID, userID); err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for i, taskID := range taskIDs {
		_, err := tx.ExecContext(ctx,
			`UPDATE tasks SET order_index = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ? AND move_id = ?`,
			i, taskID, moveID,
		)
		if err != nil {
			return nil, fmt.Errorf("reordering task %d: %w", taskID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing reorder: %w", err)
	}

	return ListTasks(ctx, db, moveID, userID, TaskFilters{})
}

// Bulk task operations.
const (
	BulkOpComplete = "complete"
	BulkOpCancel   = "cancel"
	BulkOpDelete   = "delete"
)

// BulkTaskOperation applies op to every given task that belongs to the move.
// Each id is handled independently; ids outside the move (and ids whose
// update fails) count as failed without aborting the batch.
func BulkTaskOperation(ctx context.Context, db *sql.DB, moveID, userID int64, taskIDs []int64, op string) (*model.BulkTaskResult, error) {
	if _, err := MoveForUser(ctx, db, moveID, userID); err != nil {
		return nil, err
	}

	var query string
	switch op {
	case BulkOpComplete:
		query = `UPDATE tasks SET status = 'completed', updated_at = CURRENT_TIMESTAMP
		         WHERE id = ? AND move_id = ?`
	case BulkOpCancel:
		query = `UPDATE tasks SET status = 'cancelled', updated_at = CURRENT_TIMESTAMP
		         WHERE id = ? AND move_id = ?`
	case BulkOpDelete:
		query = `DELETE FROM tasks WHERE id = ? AND move_id = ?`
	default:
		return nil, fmt.Errorf("unknown bulk operation %q: %w", op, ErrValidation)
	}

	res := &model.BulkTaskResult{}
	for _, taskID := range taskIDs {
		result, err := db.ExecContext(ctx, query, taskID, moveID)
		if err != nil {
			res.Failed++
			continue
		}
		if n, _ := result.RowsAffected(); n > 0 {
			res.Success++
		} else {
			res.Failed++
		}
	}
	return res, nil
}

// ApplyTaskTemplates instantiates tasks from the built-in template catalog.
// Unknown template ids are silently ignored.
func ApplyTaskTemplates(ctx context.Context, db *sql.DB, moveID, userID int64, templateIDs []string) ([]model.Task, error) {
	if _, err := MoveForUser(ctx, db, moveID, userID); err != nil {
		return nil, err
	}

	var tasks []model.Task
	for _, id := range templateIDs {
		tpl := model.TaskTemplateByID(id)
		if tpl == nil {
			continue
		}
		task, err := CreateTask(ctx, db, moveID, userID, CreateTaskParams{
			Name:        tpl.Name,
			Description: tpl.Description,
			Category:    tpl.Category,
			Priority:    tpl.Priority,
		})
		if err != nil {
			return nil, fmt.Errorf("applying template %s: %w", id, err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, nil
}

// GetTaskStats summarizes a move's tasks by status. CompletionRate is a
// rounded percentage and 0 for an empty list.
func GetTaskStats(ctx context.Context, db *sql.DB, moveID, userID int64) (*model.TaskStats, error) {
	if _, err := MoveForUser(ctx, db, moveID, userID); err != nil {
		return nil, err
	}

	stats := &model.TaskStats{}
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COUNT(CASE WHEN status = 'pending' THEN 1 END),
		        COUNT(CASE WHEN status = 'in_progress' THEN 1 END),
		        COUNT(CASE WHEN status = 'completed' THEN 1 END),
		        COUNT(CASE WHEN status = 'cancelled' THEN 1 END)
		 FROM tasks WHERE move_id = ?`, moveID,
	).Scan(&stats.Total, &stats.Pending, &stats.InProgress, &stats.Completed, &stats.Cancelled)
	if err != nil {
		return nil, fmt.Errorf("getting task stats: %w", err)
	}

	if stats.Total > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}
	return stats, nil
}

func scanTask(row rowScanner) (*model.Task, error) {
	t := &model.Task{}
	var description sql.NullString
	var dueDate sql.NullTime
	err := row.Scan(&t.ID, &t.MoveID, &t.Name, &description, &dueDate, &t.Status,
		&t.Category, &t.Priority, &t.OrderIndex, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Description = description.String
	if dueDate.Valid {
		d := dueDate.Time
		t.DueDate = &d
	}
	return t, nil
}
