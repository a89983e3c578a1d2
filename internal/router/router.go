package router

import (
	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/otakusphere/backend/internal/handlers"
	"github.com/otakusphere/backend/internal/middleware"
	"github.com/otakusphere/backend/internal/models"
	"github.com/otakusphere/backend/internal/policy"
	"github.com/otakusphere/backend/internal/repositories"
	"github.com/otakusphere/backend/pkg/config"
	"github.com/otakusphere/backend/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(middleware.Metrics())
	logger.L().Info("global middleware configured")
}

// SetupRoutes migrates the schema, wires dependencies, and registers every
// route. firebaseAuthClient may be nil; Firebase login is then unavailable.
func SetupRoutes(e *echo.Echo, db *gorm.DB, firebaseAuthClient *auth.Client, cfg *config.Config) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Genre{},
		&models.Post{},
		&models.PostMedia{},
		&models.Comment{},
		&models.PostLike{},
		&models.Friendship{},
		&models.Notification{},
	); err != nil {
		return err
	}
	logger.L().Info("auto-migrations completed")

	store := repositories.NewStore(db)
	pol, err := policy.New()
	if err != nil {
		return err
	}

	// Always accessible
	e.GET("/health", handlers.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Unprotected routes for authentication
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(store, firebaseAuthClient, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)

	// Protected routes (require JWT authentication)
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))

	userHandler := handlers.NewUserHandler(store)
	userHandler.RegisterUserRoutes(api)

	postHandler := handlers.NewPostHandler(store, pol, cfg.PostsPerPage)
	postHandler.RegisterPostRoutes(api)

	commentHandler := handlers.NewCommentHandler(store, pol)
	commentHandler.RegisterCommentRoutes(api)

	likeHandler := handlers.NewLikeHandler(store)
	likeHandler.RegisterLikeRoutes(api)

	friendshipHandler := handlers.NewFriendshipHandler(store)
	friendshipHandler.RegisterFriendshipRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(store)
	notificationHandler.RegisterNotificationRoutes(api)

	adminHandler := handlers.NewAdminHandler(store, pol, cfg.PostsPerPage)
	adminHandler.RegisterAdminRoutes(api)

	logger.L().Info("all routes configured")
	return nil
}
