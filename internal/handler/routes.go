package handler

import (
	"net/http"

	"github.com/mcairns/taskdeck/internal/domain"
	"github.com/mcairns/taskdeck/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(
	mux *http.ServeMux,
	userService *service.UserService,
	taskService *service.TaskService,
	idp domain.IdentityProvider,
	users domain.UserRepository,
) {
	userHandler := NewUserHandler(userService)
	taskHandler := NewTaskHandler(taskService)

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.HandleFunc("POST /api/users", userHandler.HandleProvision)
	mux.HandleFunc("POST /api/users/login", userHandler.HandleLogin)
	mux.HandleFunc("GET /api/users/exists/{email}", userHandler.HandleExists)

	mux.Handle("POST /api/tasks", RequireAuth(idp, users, http.HandlerFunc(taskHandler.HandleCreate)))
	mux.Handle("GET /api/tasks", RequireAuth(idp, users, http.HandlerFunc(taskHandler.HandleList)))
	mux.Handle("PUT /api/tasks/{taskID}", RequireAuth(idp, users, http.HandlerFunc(taskHandler.HandleUpdate)))
	mux.Handle("DELETE /api/tasks/{taskID}", RequireAuth(idp, users, http.HandlerFunc(taskHandler.HandleDelete)))
}
