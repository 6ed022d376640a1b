package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/janmarn/selitev/internal/db"
	"github.com/janmarn/selitev/internal/model"
)

const testJWTSecret = "test-secret"

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	database := db.NewTestDB(t)
	router := NewRouter(database, testJWTSecret)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

// registerUser registers a fresh account and returns its token.
func registerUser(t *testing.T, server *httptest.Server, email string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"email":      email,
		"password":   "password123",
		"first_name": "Ana",
		"last_name":  "Novak",
	})
	resp, err := http.Post(server.URL+"/api/auth/register", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("register request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register failed: %d", resp.StatusCode)
	}

	var registerResp struct {
		Token string `json:"token"`
	}
	json.NewDecoder(resp.Body).Decode(&registerResp)
	if registerResp.Token == "" {
		t.Fatal("empty token from register")
	}
	return registerResp.Token
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// createMove creates a move over the API and returns its id.
func createMove(t *testing.T, server *httptest.Server, token string) int64 {
	t.Helper()
	req, _ := authRequest("POST", server.URL+"/api/moves", token, map[string]any{
		"start_location": map[string]string{"address": "Pot 1", "city": "Ljubljana"},
		"end_location":   map[string]string{"address": "Cesta 2", "city": "Maribor"},
		"move_date":      "2026-10-01",
	})
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("create move request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create move failed: %d", resp.StatusCode)
	}
	var move model.Move
	json.NewDecoder(resp.Body).Decode(&move)
	return move.ID
}

func TestRegisterAndLogin(t *testing.T) {
	server := setupTestServer(t)
	registerUser(t, server, "ana@example.com")

	// Duplicate registration is rejected.
	body, _ := json.Marshal(map[string]string{
		"email": "ana@example.com", "password": "password123",
		"first_name": "Ana", "last_name": "Novak",
	})
	resp, _ := http.Post(server.URL+"/api/auth/register", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for duplicate email, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Login with the right password.
	body, _ = json.Marshal(map[string]string{"email": "ana@example.com", "password": "password123"})
	resp, _ = http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for login, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Wrong password.
	body, _ = json.Marshal(map[string]string{"email": "ana@example.com", "password": "wrong"})
	resp, _ = http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestUnauthenticatedAccess(t *testing.T) {
	server := setupTestServer(t)

	resp, _ := http.Get(server.URL + "/api/moves")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for unauthenticated request, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestLogoutRevokesToken(t *testing.T) {
	server := setupTestServer(t)
	token := registerUser(t, server, "ana@example.com")

	req, _ := authRequest("POST", server.URL+"/api/auth/logout", token, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for logout, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// The token no longer works.
	req, _ = authRequest("GET", server.URL+"/api/auth/me", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestMovesAPIFlow(t *testing.T) {
	server := setupTestServer(t)
	token := registerUser(t, server, "ana@example.com")

	moveID := createMove(t, server, token)

	// List moves.
	req, _ := authRequest("GET", server.URL+"/api/moves", token, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var moves []model.Move
	json.NewDecoder(resp.Body).Decode(&moves)
	resp.Body.Close()
	if len(moves) != 1 {
		t.Errorf("expected 1 move, got %d", len(moves))
	}

	// Update status.
	req, _ = authRequest("PUT", fmt.Sprintf("%s/api/moves/%d/status", server.URL, moveID), token,
		map[string]string{"status": "in_progress"})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Unknown status is rejected.
	req, _ = authRequest("PUT", fmt.Sprintf("%s/api/moves/%d/status", server.URL, moveID), token,
		map[string]string{"status": "shipped"})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown status, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestCrossUserIsolation(t *testing.T) {
	server := setupTestServer(t)
	ownerToken := registerUser(t, server, "owner@example.com")
	otherToken := registerUser(t, server, "other@example.com")

	moveID := createMove(t, server, ownerToken)

	// Another user's move reads as missing, not forbidden.
	req, _ := authRequest("GET", fmt.Sprintf("%s/api/moves/%d", server.URL, moveID), otherToken, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for other user's move, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ = authRequest("DELETE", fmt.Sprintf("%s/api/moves/%d", server.URL, moveID), otherToken, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 deleting other user's move, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestTasksAPIFlow(t *testing.T) {
	server := setupTestServer(t)
	token := registerUser(t, server, "ana@example.com")
	moveID := createMove(t, server, token)

	// Create two tasks.
	var taskIDs []int64
	for _, name := range []string{"Pack kitchen", "Book movers"} {
		req, _ := authRequest("POST", fmt.Sprintf("%s/api/moves/%d/tasks", server.URL, moveID), token,
			map[string]any{"name": name, "category": "packing"})
		resp, _ := http.DefaultClient.Do(req)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d", resp.StatusCode)
		}
		var task model.Task
		json.NewDecoder(resp.Body).Decode(&task)
		resp.Body.Close()
		taskIDs = append(taskIDs, task.ID)
	}

	// Reorder them.
	req, _ := authRequest("POST", fmt.Sprintf("%s/api/moves/%d/tasks/reorder", server.URL, moveID), token,
		map[string]any{"task_ids": []int64{taskIDs[1], taskIDs[0]}})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for reorder, got %d", resp.StatusCode)
	}
	var tasks []model.Task
	json.NewDecoder(resp.Body).Decode(&tasks)
	resp.Body.Close()
	if len(tasks) != 2 || tasks[0].ID != taskIDs[1] {
		t.Errorf("expected reordered list, got %+v", tasks)
	}

	// Bulk complete.
	req, _ = authRequest("POST", fmt.Sprintf("%s/api/moves/%d/tasks/bulk", server.URL, moveID), token,
		map[string]any{"task_ids": taskIDs, "operation": "complete"})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for bulk, got %d", resp.StatusCode)
	}
	var result model.BulkTaskResult
	json.NewDecoder(resp.Body).Decode(&result)
	resp.Body.Close()
	if result.Success != 2 || result.Failed != 0 {
		t.Errorf("expected 2 success / 0 failed, got %+v", result)
	}

	// Stats reflect completion.
	req, _ = authRequest("GET", fmt.Sprintf("%s/api/moves/%d/tasks/stats", server.URL, moveID), token, nil)
	resp, _ = http.DefaultClient.Do(req)
	var stats model.TaskStats
	json.NewDecoder(resp.Body).Decode(&stats)
	resp.Body.Close()
	if stats.Total != 2 || stats.CompletionRate != 100 {
		t.Errorf("expected 2 tasks at 100%%, got %+v", stats)
	}
}

func TestTaskTemplatesEndpoint(t *testing.T) {
	server := setupTestServer(t)
	token := registerUser(t, server, "ana@example.com")

	req, _ := authRequest("GET", server.URL+"/api/task-templates", token, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var templates []model.TaskTemplate
	json.NewDecoder(resp.Body).Decode(&templates)
	resp.Body.Close()
	if len(templates) != 10 {
		t.Errorf("expected 10 templates, got %d", len(templates))
	}
}

func TestBoxesAndItemsAPIFlow(t *testing.T) {
	server := setupTestServer(t)
	token := registerUser(t, server, "ana@example.com")
	moveID := createMove(t, server, token)

	// Create a box.
	req, _ := authRequest("POST", fmt.Sprintf("%s/api/moves/%d/boxes", server.URL, moveID), token,
		map[string]any{"label": "Kitchen 1", "box_type": "kitchen"})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for box, got %d", resp.StatusCode)
	}
	var box model.Box
	json.NewDecoder(resp.Body).Decode(&box)
	resp.Body.Close()

	// Create an item and put it in the box.
	req, _ = authRequest("POST", fmt.Sprintf("%s/api/moves/%d/items", server.URL, moveID), token,
		map[string]any{"name": "Plates", "category": "kitchen", "properties": map[string]any{"count": 12}})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for item, got %d", resp.StatusCode)
	}
	var item model.Item
	json.NewDecoder(resp.Body).Decode(&item)
	resp.Body.Close()

	req, _ = authRequest("PUT", fmt.Sprintf("%s/api/items/%d/box", server.URL, item.ID), token,
		map[string]any{"box_id": box.ID})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 moving item to box, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Box contents show the item.
	req, _ = authRequest("GET", fmt.Sprintf("%s/api/boxes/%d/contents", server.URL, box.ID), token, nil)
	resp, _ = http.DefaultClient.Do(req)
	var contents []model.Item
	json.NewDecoder(resp.Body).Decode(&contents)
	resp.Body.Close()
	if len(contents) != 1 || contents[0].Name != "Plates" {
		t.Errorf("expected item in box contents, got %+v", contents)
	}

	// Mark the box packed.
	req, _ = authRequest("PUT", fmt.Sprintf("%s/api/boxes/%d/packed", server.URL, box.ID), token, nil)
	resp, _ = http.DefaultClient.Do(req)
	var packed model.Box
	json.NewDecoder(resp.Body).Decode(&packed)
	resp.Body.Close()
	if !packed.IsPacked {
		t.Error("expected box marked packed")
	}

	// Item stats count the packed item.
	req, _ = authRequest("GET", fmt.Sprintf("%s/api/moves/%d/items/stats", server.URL, moveID), token, nil)
	resp, _ = http.DefaultClient.Do(req)
	var stats model.ItemStats
	json.NewDecoder(resp.Body).Decode(&stats)
	resp.Body.Close()
	if stats.TotalItems != 1 || stats.PackedItems != 1 {
		t.Errorf("unexpected item stats: %+v", stats)
	}
}

func TestRoomsAPIFlow(t *testing.T) {
	server := setupTestServer(t)
	token := registerUser(t, server, "ana@example.com")
	moveID := createMove(t, server, token)

	req, _ := authRequest("POST", fmt.Sprintf("%s/api/moves/%d/rooms", server.URL, moveID), token,
		map[string]string{"name": "Kitchen"})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for room, got %d", resp.StatusCode)
	}
	var room model.Room
	json.NewDecoder(resp.Body).Decode(&room)
	resp.Body.Close()

	req, _ = authRequest("GET", fmt.Sprintf("%s/api/moves/%d/rooms/stats", server.URL, moveID), token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for room stats, got %d", resp.StatusCode)
	}
	var stats []model.RoomStats
	json.NewDecoder(resp.Body).Decode(&stats)
	resp.Body.Close()
	if len(stats) != 1 || stats[0].RoomName != "Kitchen" {
		t.Errorf("unexpected room stats: %+v", stats)
	}
}
