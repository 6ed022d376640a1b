package api

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/janmarn/selitev/internal/model"
	"github.com/janmarn/selitev/internal/store"
)

// BoxesHandler handles the box endpoints.
type BoxesHandler struct {
	DB *sql.DB
}

type createBoxRequest struct {
	Label             string `json:"label"`
	DestinationRoomID *int64 `json:"destination_room_id"`
	BoxType           string `json:"box_type"`
	Notes             string `json:"notes"`
}

type updateBoxRequest struct {
	Label             *string    `json:"label"`
	DestinationRoomID nullableID `json:"destination_room_id"`
	BoxType           *string    `json:"box_type"`
	Notes             *string    `json:"notes"`
}

// Create handles POST /api/moves/{moveId}/boxes.
func (h *BoxesHandler) Create(w http.ResponseWriter, r *http.Request) {
	moveID, err := pathID(r, "moveId")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid move id")
		return
	}

	var req createBoxRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	box, err := store.CreateBox(r.Context(), h.DB, moveID, userID(r), store.CreateBoxParams{
		Label:             req.Label,
		DestinationRoomID: req.DestinationRoomID,
		BoxType:           req.BoxType,
		Notes:             req.Notes,
	})
	if err != nil {
		storeError(w, err, "failed to create box")
		return
	}

	slog.Info("box created", "box", box.ID, "move", moveID)
	jsonResponse(w, http.StatusCreated, box)
}

// List handles GET /api/moves/{moveId}/boxes.
func (h *BoxesHandler) List(w http.ResponseWriter, r *http.Request) {
	moveID, err := pathID(r, "moveId")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid move id")
		return
	}

	q := r.URL.Query()
	filters := store.BoxFilters{
		BoxType:   q.Get("box_type"),
		Search:    q.Get("search"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}
	if v := q.Get("is_packed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid is_packed filter")
			return
		}
		filters.IsPacked = &b
	}
	if v := q.Get("is_loaded"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid is_loaded filter")
			return
		}
		filters.IsLoaded = &b
	}
	if v := q.Get("is_delivered"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid is_delivered filter")
			return
		}
		filters.IsDelivered = &b
	}
	if v := q.Get("destination_room_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid destination_room_id filter")
			return
		}
		filters.DestinationRoomID = &id
	}

	boxes, err := store.ListBoxes(r.Context(), h.DB, moveID, userID(r), filters)
	if err != nil {
		storeError(w, err, "failed to list boxes")
		return
	}
	jsonResponse(w, http.StatusOK, boxes)
}

// Get handles GET /api/boxes/{id}.
func (h *BoxesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid box id")
		return
	}

	box, err := store.GetBox(r.Context(), h.DB, id, userID(r))
	if err != nil {
		storeError(w, err, "failed to get box")
		return
	}
	jsonResponse(w, http.StatusOK, box)
}

// Update handles PUT /api/boxes/{id}.
func (h *BoxesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid box id")
		return
	}

	var req updateBoxRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	box, err := store.UpdateBox(r.Context(), h.DB, id, userID(r), store.UpdateBoxParams{
		Label:             req.Label,
		SetDestination:    req.DestinationRoomID.Set,
		DestinationRoomID: req.DestinationRoomID.Value,
		BoxType:           req.BoxType,
		Notes:             req.Notes,
	})
	if err != nil {
		storeError(w, err, "failed to update box")
		return
	}

	slog.Info("box updated", "box", box.ID)
	jsonResponse(w, http.StatusOK, box)
}

// Delete handles DELETE /api/boxes/{id}. Items that were in the box survive
// with the reference cleared.
func (h *BoxesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid box id")
		return
	}

	if err := store.DeleteBox(r.Context(), h.DB, id, userID(r)); err != nil {
		storeError(w, err, "failed to delete box")
		return
	}

	slog.Info("box deleted", "box", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "box deleted"})
}

// MarkPacked handles PUT /api/boxes/{id}/packed.
func (h *BoxesHandler) MarkPacked(w http.ResponseWriter, r *http.Request) {
	h.markMilestone(w, r, "packed", store.MarkBoxPacked)
}

// MarkLoaded handles PUT /api/boxes/{id}/loaded.
func (h *BoxesHandler) MarkLoaded(w http.ResponseWriter, r *http.Request) {
	h.markMilestone(w, r, "loaded", store.MarkBoxLoaded)
}

// MarkDelivered handles PUT /api/boxes/{id}/delivered.
func (h *BoxesHandler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	h.markMilestone(w, r, "delivered", store.MarkBoxDelivered)
}

func (h *BoxesHandler) markMilestone(w http.ResponseWriter, r *http.Request, name string,
	mark func(ctx context.Context, db *sql.DB, boxID, userID int64) (*model.Box, error)) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid box id")
		return
	}

	box, err := mark(r.Context(), h.DB, id, userID(r))
	if err != nil {
		storeError(w, err, "failed to mark box "+name)
		return
	}

	slog.Info("box milestone set", "box", box.ID, "milestone", name)
	jsonResponse(w, http.StatusOK, box)
}

// QRCode handles POST /api/boxes/{id}/qr.
func (h *BoxesHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid box id")
		return
	}

	code, err := store.GenerateBoxQRCode(r.Context(), h.DB, id, userID(r))
	if err != nil {
		storeError(w, err, "failed to generate qr code")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"qr_code": code})
}

// Contents handles GET /api/boxes/{id}/contents.
func (h *BoxesHandler) Contents(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid box id")
		return
	}

	items, err := store.GetBoxContents(r.Context(), h.DB, id, userID(r))
	if err != nil {
		storeError(w, err, "failed to get box contents")
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Stats handles GET /api/moves/{moveId}/boxes/stats.
func (h *BoxesHandler) Stats(w http.ResponseWriter, r *http.Request) {
	moveID, err := pathID(r, "moveId")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid move id")
		return
	}

	stats, err := store.GetBoxStats(r.Context(), h.DB, moveID, userID(r))
	if err != nil {
		storeError(w, err, "failed to get box stats")
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}

// Types handles GET /api/moves/{moveId}/boxes/types.
func (h *BoxesHandler) Types(w http.ResponseWriter, r *http.Request) {
	moveID, err := pathID(r, "moveId")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid move id")
		return
	}

	counts, err := store.GetBoxesByType(r.Context(), h.DB, moveID, userID(r))
	if err != nil {
		storeError(w, err, "failed to get box type counts")
		return
	}
	jsonResponse(w, http.StatusOK, counts)
}
