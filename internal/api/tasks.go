package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/janmarn/selitev/internal/model"
	"github.com/janmarn/selitev/internal/store"
)

// TasksHandler handles the task endpoints.
type TasksHandler struct {
	DB *sql.DB
}

type createTaskRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date"`
	Category    string  `json:"category"`
	Priority    int     `json:"priority"`
}

type updateTaskRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Status      *string `json:"status"`
	Category    *string `json:"category"`
	Priority    *int    `json:"priority"`
	OrderIndex  *int    `json:"order_index"`
}

type reorderTasksRequest struct {
	TaskIDs []int64 `json:"task_ids"`
}

type bulkTasksRequest struct {
	TaskIDs   []int64 `json:"task_ids"`
	Operation string  `json:"operation"`
}

type applyTemplatesRequest struct {
	TemplateIDs []string `json:"template_ids"`
}

func parseDueDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create handles POST /api/moves/{moveId}/tasks.
func (h *TasksHandler) Create(w http.ResponseWriter, r *http.Request) {
	moveID, err := pathID(r, "moveId")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid move id")
		return
	}

	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "due_date must be YYYY-MM-DD")
		return
	}

	task, err := store.CreateTask(r.Context(), h.DB, moveID, userID(r), store.CreateTaskParams{
		Name:        req.Name,
		Description: req.Description,
		DueDate:     dueDate,
		Category:    req.Category,
		Priority:    req.Priority,
	})
	if err != nil {
		storeError(w, err, "failed to create task")
		return
	}

	slog.Info("task created", "task", task.ID, "move", moveID)
	jsonResponse(w, http.StatusCreated, task)
}

// List handles GET /api/moves/{moveId}/tasks.
func (h *TasksHandler) List(w http.ResponseWriter, r *http.Request) {
	moveID, err := pathID(r, "moveId")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid move id")
		return
	}

	q := r.URL.Query()
	tasks, err := store.ListTasks(r.Context(), h.DB, moveID, userID(r), store.TaskFilters{
		Status:   q.Get("status"),
		Category: q.Get("category"),
		Search:   q.Get("search"),
	})
	if err != nil {
		storeError(w, err, "failed to list tasks")
		return
	}
	jsonResponse(w, http.StatusOK, tasks)
}

// Get handles GET /api/tasks/{id}.
func (h *TasksHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	task, err := store.GetTask(r.Context(), h.DB, id, userID(r))
	if err != nil {
		storeError(w, err, "failed to get task")
		return
	}
	jsonResponse(w, http.StatusOK, task)
}

// Update handles PUT /api/tasks/{id}.
func (h *TasksHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var req updateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "due_date must be YYYY-MM-DD")
		return
	}

	task, err := store.UpdateTask(r.Context(), h.DB, id, userID(r), store.UpdateTaskParams{
		Name:        req.Name,
		Description: req.Description,
		DueDate:     dueDate,
		Status:      req.Status,
		Category:    req.Category,
		Priority:    req.Priority,
		OrderIndex:  req.OrderIndex,
	})
	if err != nil {
		storeError(w, err, "failed to update task")
		return
	}

	slog.Info("task updated", "task", task.ID)
	jsonResponse(w, http.StatusOK, task)
}

// Delete handles DELETE /api/tasks/{id}.
func (h *TasksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := store.DeleteTask(r.Context(), h.DB, id, userID(r)); err != nil {
		storeError(w, err, "failed to delete task")
		return
	}

	slog.Info("task deleted", "task", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "task deleted"})
}

// Reorder handles POST /api/moves/{moveId}/tasks/reorder.
func (h *TasksHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	moveID, err := pathID(r, "moveId")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid move id")
		return
	}

	var req reorderTasksRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.TaskIDs) == 0 {
		jsonError(w, http.StatusBadRequest, "task_ids required")
		return
	}

	tasks, err := store.ReorderTasks(r.Context(), h.DB, moveID, userID(r), req.TaskIDs)
	if err != nil {
		storeError(w, err, "failed to reorder tasks")
		return
	}

	slog.Info("tasks reordered", "move", moveID, "count", len(req.TaskIDs))
	jsonResponse(w, http.StatusOK, tasks)
}

// Bulk handles POST /api/moves/{moveId}/tasks/bulk.
func (h *TasksHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	moveID, err := pathID(r, "moveId")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid move id")
		return
	}

	var req bulkTasksRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.TaskIDs) == 0 {
		jsonError(w, http.StatusBadRequest, "task_ids required")
		return
	}

	result, err := store.BulkTaskOperation(r.Context(), h.DB, moveID, userID(r), req.TaskIDs, req.Operation)
	if err != nil {
		storeError(w, err, "failed to apply bulk operation")
		return
	}

	slog.Info("bulk task operation", "move", moveID, "op", req.Operation,
		"success", result.Success, "failed", result.Failed)
	jsonResponse(w, http.StatusOK, result)
}

// ApplyTemplates handles POST /api/moves/{moveId}/tasks/templates.
func (h *TasksHandler) ApplyTemplates(w http.ResponseWriter, r *http.Request) {
	moveID, err := pathID(r, "moveId")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid move id")
		return
	}

	var req applyTemplatesRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.TemplateIDs) == 0 {
		jsonError(w, http.StatusBadRequest, "template_ids required")
		return
	}

	tasks, err := store.ApplyTaskTemplates(r.Context(), h.DB, moveID, userID(r), req.TemplateIDs)
	if err != nil {
		storeError(w, err, "failed to apply templates")
		return
	}

	slog.Info("task templates applied", "move", moveID, "count", len(tasks))
	jsonResponse(w, http.StatusCreated, tasks)
}

// Stats handles GET /api/moves/{moveId}/tasks/stats.
func (h *TasksHandler) Stats(w http.ResponseWriter, r *http.Request) {
	moveID, err := pathID(r, "moveId")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid move id")
		return
	}

	stats, err := store.GetTaskStats(r.Context(), h.DB, moveID, userID(r))
	if err != nil {
		storeError(w, err, "failed to get task stats")
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}

// Templates handles GET /api/task-templates.
func (h *TasksHandler) Templates(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, model.TaskTemplates())
}
