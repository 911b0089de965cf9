package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/projectdesk/projectdesk-api/api"
	"github.com/projectdesk/projectdesk-api/internal/config"
	"github.com/projectdesk/projectdesk-api/internal/database"
	"github.com/projectdesk/projectdesk-api/internal/handlers"
	"github.com/projectdesk/projectdesk-api/internal/middleware"
	"github.com/projectdesk/projectdesk-api/internal/services"
)

func main() {
	// 1. Load configuration
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// 2. Connect to MongoDB
	client, err := database.ConnectMongoDB(cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatalf("Error connecting to MongoDB: %v", err)
	}
	defer func() {
		if err = client.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	db := client.Database(cfg.DBName)

	// 3. Indexes and bootstrap SuperAdmin
	if err := database.EnsureIndexes(db); err != nil {
		log.Fatalf("Error creating indexes: %v", err)
	}
	if err := database.SeedSuperAdmin(db, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("Error seeding SuperAdmin: %v", err)
	}

	// 4. Initialize services
	var identityVerifier services.IdentityVerifier
	if cfg.GoogleClientID != "" {
		identityVerifier = services.NewGoogleVerifier(cfg.GoogleClientID)
	}
	userService := services.NewUserService(db)
	authService := services.NewAuthService(userService, identityVerifier, []byte(cfg.JWTSecret))
	projectService := services.NewProjectService(db, userService)
	dashboardService := services.NewDashboardService(db, userService, projectService)

	// 5. Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// 6. Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware([]byte(cfg.JWTSecret), userService)

	// 7. Setup router
	router := mux.NewRouter()
	api.SetupRoutes(router, authMiddleware, authHandler, userHandler, projectHandler, dashboardHandler)

	c := cors.AllowAll()
	handlerWithCORS := c.Handler(router)

	// 8. Start HTTP server
	log.Printf("Server starting on port %s", cfg.Port)
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handlerWithCORS,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", cfg.Port, err)
	}
}
