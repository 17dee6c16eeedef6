package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mcairns/taskdeck/internal/domain"
	"github.com/mcairns/taskdeck/internal/service"
)

// TaskHandler handles task CRUD HTTP requests. All routes require an
// authenticated user in the request context.
type TaskHandler struct {
	tasks *service.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// HandleCreate creates a task owned by the authenticated user.
// POST /api/tasks
// Request:  {"title":"...","description":"..."}
// Response: 201 task
func (h *TaskHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	task, err := h.tasks.Create(r.Context(), user.ID, req.Title, req.Description)
	if err != nil {
		writeTaskError(w, "create task", err)
		return
	}

	writeJSON(w, http.StatusCreated, toTaskDTO(task))
}

// HandleList returns the authenticated user's tasks, oldest first.
// GET /api/tasks
// Response: 200 [task...]
func (h *TaskHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}

	tasks, err := h.tasks.ListByOwner(r.Context(), user.ID)
	if err != nil {
		writeTaskError(w, "list tasks", err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskDTOs(tasks))
}

// HandleUpdate applies a partial update to a task owned by the
// authenticated user.
// PUT /api/tasks/{taskID}
// Request:  {"title":"...","description":"...","completed":true} (all optional)
// Response: 200 task
func (h *TaskHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}

	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Completed   *bool   `json:"completed"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	patch := domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
	task, err := h.tasks.Update(r.Context(), user.ID, r.PathValue("taskID"), patch)
	if err != nil {
		writeTaskError(w, "update task", err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskDTO(task))
}

// HandleDelete deletes a task owned by the authenticated user.
// DELETE /api/tasks/{taskID}
// Response: 204 No Content
func (h *TaskHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}

	if err := h.tasks.Delete(r.Context(), user.ID, r.PathValue("taskID")); err != nil {
		writeTaskError(w, "delete task", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeTaskError maps use-case errors to transport responses:
// not-found 404, unauthorized 403, validation 400, anything else 500.
func writeTaskError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusForbidden, "You do not have access to this task.")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error(op, "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
	}
}
