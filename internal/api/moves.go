package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/janmarn/selitev/internal/model"
	"github.com/janmarn/selitev/internal/store"
)

// MovesHandler handles the move endpoints.
type MovesHandler struct {
	DB *sql.DB
}

type createMoveRequest struct {
	StartLocation         model.Location `json:"start_location"`
	EndLocation           model.Location `json:"end_location"`
	MoveDate              string         `json:"move_date"`
	HouseholdSize         *int           `json:"household_size"`
	InventorySizeEstimate string         `json:"inventory_size_estimate"`
}

type updateMoveRequest struct {
	StartLocation         *model.Location `json:"start_location"`
	EndLocation           *model.Location `json:"end_location"`
	MoveDate              *string         `json:"move_date"`
	HouseholdSize         *int            `json:"household_size"`
	InventorySizeEstimate *string         `json:"inventory_size_estimate"`
}

type updateMoveStatusRequest struct {
	Status string `json:"status"`
}

// Create handles POST /api/moves.
func (h *MovesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMoveRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.StartLocation.Address == "" || req.EndLocation.Address == "" {
		jsonError(w, http.StatusBadRequest, "start and end locations required")
		return
	}
	moveDate, err := time.Parse("2006-01-02", req.MoveDate)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "move_date must be YYYY-MM-DD")
		return
	}

	move, err := store.CreateMove(r.Context(), h.DB, userID(r),
		req.StartLocation, req.EndLocation, moveDate, req.HouseholdSize, req.InventorySizeEstimate)
	if err != nil {
		storeError(w, err, "failed to create move")
		return
	}

	slog.Info("move created", "move", move.ID, "user", move.UserID)
	jsonResponse(w, http.StatusCreated, move)
}

// List handles GET /api/moves.
func (h *MovesHandler) List(w http.ResponseWriter, r *http.Request) {
	moves, err := store.ListMoves(r.Context(), h.DB, userID(r))
	if err != nil {
		storeError(w, err, "failed to list moves")
		return
	}
	jsonResponse(w, http.StatusOK, moves)
}

// Get handles GET /api/moves/{id}.
func (h *MovesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid move id")
		return
	}

	move, err := store.MoveForUser(r.Context(), h.DB, id, userID(r))
	if err != nil {
		storeError(w, err, "failed to get move")
		return
	}
	jsonResponse(w, http.StatusOK, move)
}

// Update handles PUT /api/moves/{id}.
func (h *MovesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid move id")
		return
	}

	var req updateMoveRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params := store.UpdateMoveParams{
		StartLocation:         req.StartLocation,
		EndLocation:           req.EndLocation,
		HouseholdSize:         req.HouseholdSize,
		InventorySizeEstimate: req.InventorySizeEstimate,
	}
	if req.MoveDate != nil {
		moveDate, err := time.Parse("2006-01-02", *req.MoveDate)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "move_date must be YYYY-MM-DD")
			return
		}
		params.MoveDate = &moveDate
	}

	move, err := store.UpdateMove(r.Context(), h.DB, id, userID(r), params)
	if err != nil {
		storeError(w, err, "failed to update move")
		return
	}

	slog.Info("move updated", "move", move.ID, "user", move.UserID)
	jsonResponse(w, http.StatusOK, move)
}

// UpdateStatus handles PUT /api/moves/{id}/status.
func (h *MovesHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid move id")
		return
	}

	var req updateMoveStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	move, err := store.UpdateMoveStatus(r.Context(), h.DB, id, userID(r), req.Status)
	if err != nil {
		storeError(w, err, "failed to update move status")
		return
	}

	slog.Info("move status updated", "move", move.ID, "status", move.Status)
	jsonResponse(w, http.StatusOK, move)
}

// Delete handles DELETE /api/moves/{id}.
func (h *MovesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid move id")
		return
	}

	if err := store.DeleteMove(r.Context(), h.DB, id, userID(r)); err != nil {
		storeError(w, err, "failed to delete move")
		return
	}

	slog.Info("move deleted", "move", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "move deleted"})
}
