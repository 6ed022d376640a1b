package api

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/janmarn/selitev/internal/store"
)

// ItemsHandler handles the item endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

type createItemRequest struct {
	RoomID                  *int64         `json:"room_id"`
	BoxID                   *int64         `json:"box_id"`
	Name                    string         `json:"name"`
	Description             string         `json:"description"`
	PhotoURL                string         `json:"photo_url"`
	EstimatedValue          *float64       `json:"estimated_value"`
	Properties              map[string]any `json:"properties"`
	Condition               string         `json:"condition"`
	Category                string         `json:"category"`
	IsFragile               bool           `json:"is_fragile"`
	RequiresSpecialHandling bool           `json:"requires_special_handling"`
}

type updateItemRequest struct {
	RoomID                  nullableID      `json:"room_id"`
	BoxID                   nullableID      `json:"box_id"`
	Name                    *string         `json:"name"`
	Description             *string         `json:"description"`
	PhotoURL                *string         `json:"photo_url"`
	EstimatedValue          *float64        `json:"estimated_value"`
	Properties              json.RawMessage `json:"properties"`
	Condition               *string         `json:"condition"`
	Category                *string         `json:"category"`
	IsFragile               *bool           `json:"is_fragile"`
	RequiresSpecialHandling *bool           `json:"requires_special_handling"`
}

type moveItemToBoxRequest struct {
	BoxID int64 `json:"box_id"`
}

// Create handles POST /api/moves/{moveId}/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	moveID, err := pathID(r, "moveId")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid move id")
		return
	}

	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, moveID, userID(r), store.CreateItemParams{
		RoomID:                  req.RoomID,
		BoxID:                   req.BoxID,
		Name:                    req.Name,
		Description:             req.Description,
		PhotoURL:                req.PhotoURL,
		EstimatedValue:          req.EstimatedValue,
		Properties:              req.Properties,
		Condition:               req.Condition,
		Category:                req.Category,
		IsFragile:               req.IsFragile,
		RequiresSpecialHandling: req.RequiresSpecialHandling,
	})
	if err != nil {
		storeError(w, err, "failed to create item")
		return
	}

	slog.Info("item created", "item", item.ID, "move", moveID)
	jsonResponse(w, http.StatusCreated, item)
}

// List handles GET /api/moves/{moveId}/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	moveID, err := pathID(r, "moveId")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid move id")
		return
	}

	q := r.URL.Query()
	filters := store.ItemFilters{
		Category:  q.Get("category"),
		Condition: q.Get("condition"),
		Search:    q.Get("search"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}
	if v := q.Get("room_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid room_id filter")
			return
		}
		filters.RoomID = &id
	}
	if v := q.Get("box_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid box_id filter")
			return
		}
		filters.BoxID = &id
	}
	if v := q.Get("is_fragile"); v != "" {
		fragile, err := strconv.ParseBool(v)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid is_fragile filter")
			return
		}
		filters.IsFragile = &fragile
	}

	items, err := store.ListItems(r.Context(), h.DB, moveID, userID(r), filters)
	if err != nil {
		storeError(w, err, "failed to list items")
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id, userID(r))
	if err != nil {
		storeError(w, err, "failed to get item")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params := store.UpdateItemParams{
		SetRoom:                 req.RoomID.Set,
		RoomID:                  req.RoomID.Value,
		SetBox:                  req.BoxID.Set,
		BoxID:                   req.BoxID.Value,
		Name:                    req.Name,
		Description:             req.Description,
		PhotoURL:                req.PhotoURL,
		EstimatedValue:          req.EstimatedValue,
		Condition:               req.Condition,
		Category:                req.Category,
		IsFragile:               req.IsFragile,
		RequiresSpecialHandling: req.RequiresSpecialHandling,
	}
	if len(req.Properties) > 0 {
		params.SetProperties = true
		if string(req.Properties) != "null" {
			if err := json.Unmarshal(req.Properties, &params.Properties); err != nil {
				jsonError(w, http.StatusBadRequest, "properties must be a JSON object")
				return
			}
		}
	}

	item, err := store.UpdateItem(r.Context(), h.DB, id, userID(r), params)
	if err != nil {
		storeError(w, err, "failed to update item")
		return
	}

	slog.Info("item updated", "item", item.ID)
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := store.DeleteItem(r.Context(), h.DB, id, userID(r)); err != nil {
		storeError(w, err, "failed to delete item")
		return
	}

	slog.Info("item deleted", "item", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// MoveToBox handles PUT /api/items/{id}/box.
func (h *ItemsHandler) MoveToBox(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req moveItemToBoxRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.BoxID == 0 {
		jsonError(w, http.StatusBadRequest, "box_id required")
		return
	}

	item, err := store.MoveItemToBox(r.Context(), h.DB, id, req.BoxID, userID(r))
	if err != nil {
		storeError(w, err, "failed to move item to box")
		return
	}

	slog.Info("item moved to box", "item", item.ID, "box", req.BoxID)
	jsonResponse(w, http.StatusOK, item)
}

// RemoveFromBox handles DELETE /api/items/{id}/box.
func (h *ItemsHandler) RemoveFromBox(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.RemoveItemFromBox(r.Context(), h.DB, id, userID(r))
	if err != nil {
		storeError(w, err, "failed to remove item from box")
		return
	}

	slog.Info("item removed from box", "item", item.ID)
	jsonResponse(w, http.StatusOK, item)
}

// Stats handles GET /api/moves/{moveId}/items/stats.
func (h *ItemsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	moveID, err := pathID(r, "moveId")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid move id")
		return
	}

	stats, err := store.GetItemStats(r.Context(), h.DB, moveID, userID(r))
	if err != nil {
		storeError(w, err, "failed to get item stats")
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}

// Categories handles GET /api/moves/{moveId}/items/categories.
func (h *ItemsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	moveID, err := pathID(r, "moveId")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid move id")
		return
	}

	categories, err := store.GetItemsByCategory(r.Context(), h.DB, moveID, userID(r))
	if err != nil {
		storeError(w, err, "failed to get item categories")
		return
	}
	jsonResponse(w, http.StatusOK, categories)
}
