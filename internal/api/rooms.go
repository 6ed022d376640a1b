package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/janmarn/selitev/internal/store"
)

// RoomsHandler handles the room endpoints.
type RoomsHandler struct {
	DB *sql.DB
}

type createRoomRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateRoomRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Create handles POST /api/moves/{moveId}/rooms.
func (h *RoomsHandler) Create(w http.ResponseWriter, r *http.Request) {
	moveID, err := pathID(r, "moveId")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid move id")
		return
	}

	var req createRoomRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	room, err := store.CreateRoom(r.Context(), h.DB, moveID, userID(r), req.Name, req.Description)
	if err != nil {
		storeError(w, err, "failed to create room")
		return
	}

	slog.Info("room created", "room", room.ID, "move", moveID)
	jsonResponse(w, http.StatusCreated, room)
}

// List handles GET /api/moves/{moveId}/rooms.
func (h *RoomsHandler) List(w http.ResponseWriter, r *http.Request) {
	moveID, err := pathID(r, "moveId")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid move id")
		return
	}

	rooms, err := store.ListRooms(r.Context(), h.DB, moveID, userID(r))
	if err != nil {
		storeError(w, err, "failed to list rooms")
		return
	}
	jsonResponse(w, http.StatusOK, rooms)
}

// Get handles GET /api/rooms/{id}.
func (h *RoomsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid room id")
		return
	}

	room, err := store.GetRoom(r.Context(), h.DB, id, userID(r))
	if err != nil {
		storeError(w, err, "failed to get room")
		return
	}
	jsonResponse(w, http.StatusOK, room)
}

// Update handles PUT /api/rooms/{id}.
func (h *RoomsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid room id")
		return
	}

	var req updateRoomRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	room, err := store.UpdateRoom(r.Context(), h.DB, id, userID(r), store.UpdateRoomParams{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		storeError(w, err, "failed to update room")
		return
	}

	slog.Info("room updated", "room", room.ID)
	jsonResponse(w, http.StatusOK, room)
}

// Delete handles DELETE /api/rooms/{id}. Items that referenced the room
// survive with the reference cleared.
func (h *RoomsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid room id")
		return
	}

	if err := store.DeleteRoom(r.Context(), h.DB, id, userID(r)); err != nil {
		storeError(w, err, "failed to delete room")
		return
	}

	slog.Info("room deleted", "room", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "room deleted"})
}

// Stats handles GET /api/moves/{moveId}/rooms/stats.
func (h *RoomsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	moveID, err := pathID(r, "moveId")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid move id")
		return
	}

	stats, err := store.GetRoomStats(r.Context(), h.DB, moveID, userID(r))
	if err != nil {
		storeError(w, err, "failed to get room stats")
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}
