package api

import (
	"github.com/gorilla/mux"

	"github.com/projectdesk/projectdesk-api/internal/handlers"
	"github.com/projectdesk/projectdesk-api/internal/middleware"
	"github.com/projectdesk/projectdesk-api/internal/models"
)

// SetupRoutes configures all API routes
func SetupRoutes(
	router *mux.Router,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	projectHandler *handlers.ProjectHandler,
	dashboardHandler *handlers.DashboardHandler,
) {
	v1 := router.PathPrefix("/api/v1").Subrouter()

	// Liveness check (public)
	v1.HandleFunc("/health", handlers.Health).Methods("GET")

	// Authentication routes (public)
	v1.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	v1.HandleFunc("/auth/google-login", authHandler.GoogleLogin).Methods("POST")
	v1.HandleFunc("/auth/me", authMiddleware.Authenticate(authHandler.Me)).Methods("GET")

	// User management (SuperAdmin except the role listing, which Managers
	// need to pick Staff for assignment)
	v1.HandleFunc("/users", authMiddleware.Authenticate(userHandler.ListUsers, models.PermViewAllUsers)).Methods("GET")
	v1.HandleFunc("/users", authMiddleware.Authenticate(userHandler.CreateUser, models.PermCreateUser)).Methods("POST")
	v1.HandleFunc("/users/role/{role}", authMiddleware.Authenticate(userHandler.ListUsersByRole)).Methods("GET")
	v1.HandleFunc("/users/{id}", authMiddleware.Authenticate(userHandler.GetUserByID, models.PermViewAllUsers)).Methods("GET")
	v1.HandleFunc("/users/{id}/role", authMiddleware.Authenticate(userHandler.ChangeUserRole, models.PermChangeUserRole)).Methods("PUT")
	v1.HandleFunc("/users/{id}/toggle-active", authMiddleware.Authenticate(userHandler.ToggleUserActive, models.PermToggleUserActive)).Methods("PUT")

	// Project requests. List and single-view are authentication-only here;
	// the scope filter and ownership policy restrict them per role.
	v1.HandleFunc("/projects", authMiddleware.Authenticate(projectHandler.CreateProject, models.PermCreateProject)).Methods("POST")
	v1.HandleFunc("/projects", authMiddleware.Authenticate(projectHandler.GetProjects)).Methods("GET")
	v1.HandleFunc("/projects/{id}", authMiddleware.Authenticate(projectHandler.GetProjectByID)).Methods("GET")
	v1.HandleFunc("/projects/{id}/status", authMiddleware.Authenticate(projectHandler.UpdateProjectStatus, models.PermUpdateProjectStatus)).Methods("PUT")
	v1.HandleFunc("/projects/{id}/assign", authMiddleware.Authenticate(projectHandler.AssignProject, models.PermAssignProject)).Methods("PUT")

	// Dashboard (role branch in the service)
	v1.HandleFunc("/dashboard", authMiddleware.Authenticate(dashboardHandler.GetDashboard)).Methods("GET")
}
