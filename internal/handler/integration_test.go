package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mcairns/taskdeck/internal/handler"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	users, tasks, idp, userRepo := newTestServices(t)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, users, tasks, idp, userRepo)

	srv := httptest.NewServer(handler.SecurityHeaders(mux))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

func provisionUser(t *testing.T, srv *httptest.Server, email string) string {
	t.Helper()
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/users", "", map[string]string{"email": email})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("provision %s: expected 201, got %d", email, resp.StatusCode)
	}
	var body struct {
		Token   string `json:"token"`
		Created bool   `json:"created"`
	}
	decodeBody(t, resp, &body)
	if !body.Created || body.Token == "" {
		t.Fatalf("provision %s: unexpected body %+v", email, body)
	}
	return body.Token
}

func TestIntegration_ProvisionAndExists(t *testing.T) {
	srv := newTestServer(t)

	// Unknown email.
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/users/exists/nobody@example.com", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("exists: expected 200, got %d", resp.StatusCode)
	}
	var existsBody struct {
		Exists bool   `json:"exists"`
		Email  string `json:"email"`
	}
	decodeBody(t, resp, &existsBody)
	if existsBody.Exists {
		t.Fatal("expected exists=false before provisioning")
	}

	provisionUser(t, srv, "integ@example.com")

	// Re-provisioning the same email returns 200 with created=false.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/users", "", map[string]string{"email": "integ@example.com"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("re-provision: expected 200, got %d", resp.StatusCode)
	}
	var provBody struct {
		Token   string `json:"token"`
		Created bool   `json:"created"`
	}
	decodeBody(t, resp, &provBody)
	if provBody.Created {
		t.Fatal("expected created=false on re-provision")
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/users/exists/integ@example.com", "", nil)
	decodeBody(t, resp, &existsBody)
	if !existsBody.Exists || existsBody.Email != "integ@example.com" {
		t.Fatalf("expected exists=true for integ@example.com, got %+v", existsBody)
	}
}

func TestIntegration_ProvisionInvalidEmail(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/users", "", map[string]string{"email": "not-an-email"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid email, got %d", resp.StatusCode)
	}
}

func TestIntegration_TaskLifecycle(t *testing.T) {
	srv := newTestServer(t)

	token := provisionUser(t, srv, "lifecycle@example.com")

	// Create.
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/tasks", token, map[string]string{"title": "Buy milk"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create task: expected 201, got %d", resp.StatusCode)
	}
	var task struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Completed   bool   `json:"completed"`
		CreatedAt   string `json:"createdAt"`
		UserID      string `json:"userId"`
	}
	decodeBody(t, resp, &task)
	if task.ID == "" {
		t.Fatal("expected non-empty task id")
	}
	if task.Title != "Buy milk" || task.Description != "" || task.Completed {
		t.Fatalf("unexpected task body: %+v", task)
	}
	if task.CreatedAt == "" {
		t.Fatal("expected createdAt timestamp in response")
	}

	// Update: completed only; other fields unchanged.
	resp = doJSON(t, http.MethodPut, srv.URL+"/api/tasks/"+task.ID, token, map[string]bool{"completed": true})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update task: expected 200, got %d", resp.StatusCode)
	}
	var updated struct {
		Title     string `json:"title"`
		Completed bool   `json:"completed"`
		UserID    string `json:"userId"`
	}
	decodeBody(t, resp, &updated)
	if !updated.Completed || updated.Title != "Buy milk" || updated.UserID != task.UserID {
		t.Fatalf("unexpected updated task: %+v", updated)
	}

	// List.
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/tasks", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list tasks: expected 200, got %d", resp.StatusCode)
	}
	var list []json.RawMessage
	decodeBody(t, resp, &list)
	if len(list) != 1 {
		t.Fatalf("expected 1 task, got %d", len(list))
	}

	// Delete.
	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/tasks/"+task.ID, token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete task: expected 204, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/tasks", token, nil)
	decodeBody(t, resp, &list)
	if len(list) != 0 {
		t.Fatalf("expected empty list after delete, got %d", len(list))
	}
}

func TestIntegration_NonOwnerGetsForbidden(t *testing.T) {
	srv := newTestServer(t)

	ownerToken := provisionUser(t, srv, "owner@example.com")
	otherToken := provisionUser(t, srv, "other@example.com")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/tasks", ownerToken, map[string]string{"title": "Private"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create task: expected 201, got %d", resp.StatusCode)
	}
	var task struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &task)

	resp = doJSON(t, http.MethodPut, srv.URL+"/api/tasks/"+task.ID, otherToken, map[string]bool{"completed": true})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("non-owner update: expected 403, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/tasks/"+task.ID, otherToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("non-owner delete: expected 403, got %d", resp.StatusCode)
	}

	// The owner's task list must not leak to the other user either.
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/tasks", otherToken, nil)
	var list []json.RawMessage
	decodeBody(t, resp, &list)
	if len(list) != 0 {
		t.Fatalf("expected other user to see no tasks, got %d", len(list))
	}
}

func TestIntegration_UnknownTaskGets404(t *testing.T) {
	srv := newTestServer(t)

	token := provisionUser(t, srv, "missing@example.com")

	resp := doJSON(t, http.MethodDelete, srv.URL+"/api/tasks/unknown-id", token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("delete unknown: expected 404, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPut, srv.URL+"/api/tasks/unknown-id", token, map[string]bool{"completed": true})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("update unknown: expected 404, got %d", resp.StatusCode)
	}
}

func TestIntegration_TasksRequireAuth(t *testing.T) {
	srv := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/tasks"},
		{http.MethodGet, "/api/tasks"},
		{http.MethodPut, "/api/tasks/t1"},
		{http.MethodDelete, "/api/tasks/t1"},
	} {
		resp := doJSON(t, tc.method, srv.URL+tc.path, "", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", tc.method, tc.path, resp.StatusCode)
		}
	}
}

func TestIntegration_PasswordLogin(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/users", "",
		map[string]string{"email": "pw@example.com", "password": "password123"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("provision: expected 201, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/users/login", "",
		map[string]string{"email": "pw@example.com", "password": "password123"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)
	if body.Token == "" {
		t.Fatal("expected token from login")
	}

	// The login token works against protected routes.
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/tasks", body.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list with login token: expected 200, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/users/login", "",
		map[string]string{"email": "pw@example.com", "password": "wrong"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login: expected 401, got %d", resp.StatusCode)
	}
}

func TestIntegration_Healthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("expected security headers, got %q", fmt.Sprintf("X-Content-Type-Options=%s", got))
	}
}
