package router

import (
	"log"

	"github.com/gearworks/motorhub/backend/internal/handlers"
	"github.com/gearworks/motorhub/backend/internal/middleware"
	"github.com/gearworks/motorhub/backend/internal/models"
	"github.com/gearworks/motorhub/backend/internal/repositories"
	"github.com/gearworks/motorhub/backend/pkg/config"
	"github.com/gearworks/motorhub/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *config.DB, fb *firebase.App, logger *zap.Logger) {
	// AutoMigrate PostgreSQL models
	if err := db.Postgres.AutoMigrate(&models.Connection{}); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewMongoUserRepository(db.Mongo)
	vehicleRepo := repositories.NewMongoVehicleRepository(db.Mongo)
	partRepo := repositories.NewMongoPartRepository(db.Mongo)
	imageRepo := repositories.NewMongoImageRepository(db.Mongo)
	postRepo := repositories.NewMongoPostRepository(db.Mongo)
	commentRepo := repositories.NewMongoCommentThreadRepository(db.Mongo)
	entityRepo := repositories.NewMongoEntityRepository(db.Mongo)
	notificationRepo := repositories.NewMongoNotificationRepository(db.Mongo)
	connectionRepo := repositories.NewPostgresConnectionRepository(db.Postgres)

	notifier := handlers.NewNotifier(notificationRepo, connectionRepo, userRepo, fb, logger)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, fb.AuthClient)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterUserRoutes(api)
	log.Println("User routes configured.")

	// Vehicle routes
	vehicleHandler := handlers.NewVehicleHandler(vehicleRepo, notifier)
	vehicleHandler.RegisterVehicleRoutes(api)
	log.Println("Vehicle routes configured.")

	// Part routes
	partHandler := handlers.NewPartHandler(partRepo, vehicleRepo, notifier)
	partHandler.RegisterPartRoutes(api)
	log.Println("Part routes configured.")

	// Image routes
	imageHandler := handlers.NewImageHandler(imageRepo, vehicleRepo, userRepo, notifier)
	imageHandler.RegisterImageRoutes(api)
	log.Println("Image routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo, vehicleRepo, userRepo, notifier)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(commentRepo, entityRepo, userRepo, notifier)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	// Connection routes
	connectionHandler := handlers.NewConnectionHandler(connectionRepo, userRepo, vehicleRepo, postRepo, notifier)
	connectionHandler.RegisterConnectionRoutes(api)
	log.Println("Connection routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")
}
