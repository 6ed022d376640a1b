package api

import (
	"database/sql"
	"net/http"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	movesHandler := &MovesHandler{DB: db}
	tasksHandler := &TasksHandler{DB: db}
	roomsHandler := &RoomsHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db}
	boxesHandler := &BoxesHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)

	// Public: registration and login.
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Session.
	mux.Handle("GET /api/auth/me", authMW(http.HandlerFunc(authHandler.Me)))
	mux.Handle("PUT /api/auth/profile", authMW(http.HandlerFunc(authHandler.UpdateProfile)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Moves.
	mux.Handle("POST /api/moves", authMW(http.HandlerFunc(movesHandler.Create)))
	mux.Handle("GET /api/moves", authMW(http.HandlerFunc(movesHandler.List)))
	mux.Handle("GET /api/moves/{id}", authMW(http.HandlerFunc(movesHandler.Get)))
	mux.Handle("PUT /api/moves/{id}", authMW(http.HandlerFunc(movesHandler.Update)))
	mux.Handle("PUT /api/moves/{id}/status", authMW(http.HandlerFunc(movesHandler.UpdateStatus)))
	mux.Handle("DELETE /api/moves/{id}", authMW(http.HandlerFunc(movesHandler.Delete)))

	// Tasks.
	mux.Handle("POST /api/moves/{moveId}/tasks", authMW(http.HandlerFunc(tasksHandler.Create)))
	mux.Handle("GET /api/moves/{moveId}/tasks", authMW(http.HandlerFunc(tasksHandler.List)))
	mux.Handle("GET /api/moves/{moveId}/tasks/stats", authMW(http.HandlerFunc(tasksHandler.Stats)))
	mux.Handle("POST /api/moves/{moveId}/tasks/reorder", authMW(http.HandlerFunc(tasksHandler.Reorder)))
	mux.Handle("POST /api/moves/{moveId}/tasks/bulk", authMW(http.HandlerFunc(tasksHandler.Bulk)))
	mux.Handle("POST /api/moves/{moveId}/tasks/templates", authMW(http.HandlerFunc(tasksHandler.ApplyTemplates)))
	mux.Handle("GET /api/tasks/{id}", authMW(http.HandlerFunc(tasksHandler.Get)))
	mux.Handle("PUT /api/tasks/{id}", authMW(http.HandlerFunc(tasksHandler.Update)))
	mux.Handle("DELETE /api/tasks/{id}", authMW(http.HandlerFunc(tasksHandler.Delete)))
	mux.Handle("GET /api/task-templates", authMW(http.HandlerFunc(tasksHandler.Templates)))

	// Rooms.
	mux.Handle("POST /api/moves/{moveId}/rooms", authMW(http.HandlerFunc(roomsHandler.Create)))
	mux.Handle("GET /api/moves/{moveId}/rooms", authMW(http.HandlerFunc(roomsHandler.List)))
	mux.Handle("GET /api/moves/{moveId}/rooms/stats", authMW(http.HandlerFunc(roomsHandler.Stats)))
	mux.Handle("GET /api/rooms/{id}", authMW(http.HandlerFunc(roomsHandler.Get)))
	mux.Handle("PUT /api/rooms/{id}", authMW(http.HandlerFunc(roomsHandler.Update)))
	mux.Handle("DELETE /api/rooms/{id}", authMW(http.HandlerFunc(roomsHandler.Delete)))

	// Items.
	mux.Handle("POST /api/moves/{moveId}/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("GET /api/moves/{moveId}/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("GET /api/moves/{moveId}/items/stats", authMW(http.HandlerFunc(itemsHandler.Stats)))
	mux.Handle("GET /api/moves/{moveId}/items/categories", authMW(http.HandlerFunc(itemsHandler.Categories)))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PUT /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("DELETE /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))
	mux.Handle("PUT /api/items/{id}/box", authMW(http.HandlerFunc(itemsHandler.MoveToBox)))
	mux.Handle("DELETE /api/items/{id}/box", authMW(http.HandlerFunc(itemsHandler.RemoveFromBox)))

	// Boxes.
	mux.Handle("POST /api/moves/{moveId}/boxes", authMW(http.HandlerFunc(boxesHandler.Create)))
	mux.Handle("GET /api/moves/{moveId}/boxes", authMW(http.HandlerFunc(boxesHandler.List)))
	mux.Handle("GET /api/moves/{moveId}/boxes/stats", authMW(http.HandlerFunc(boxesHandler.Stats)))
	mux.Handle("GET /api/moves/{moveId}/boxes/types", authMW(http.HandlerFunc(boxesHandler.Types)))
	mux.Handle("GET /api/boxes/{id}", authMW(http.HandlerFunc(boxesHandler.Get)))
	mux.Handle("PUT /api/boxes/{id}", authMW(http.HandlerFunc(boxesHandler.Update)))
	mux.Handle("DELETE /api/boxes/{id}", authMW(http.HandlerFunc(boxesHandler.Delete)))
	mux.Handle("PUT /api/boxes/{id}/packed", authMW(http.HandlerFunc(boxesHandler.MarkPacked)))
	mux.Handle("PUT /api/boxes/{id}/loaded", authMW(http.HandlerFunc(boxesHandler.MarkLoaded)))
	mux.Handle("PUT /api/boxes/{id}/delivered", authMW(http.HandlerFunc(boxesHandler.MarkDelivered)))
	mux.Handle("POST /api/boxes/{id}/qr", authMW(http.HandlerFunc(boxesHandler.QRCode)))
	mux.Handle("GET /api/boxes/{id}/contents", authMW(http.HandlerFunc(boxesHandler.Contents)))

	return mux
}
