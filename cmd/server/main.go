package main

import (
	"context"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/otakusphere/backend/internal/router"
	"github.com/otakusphere/backend/pkg/config"
	"github.com/otakusphere/backend/pkg/firebase"
	"github.com/otakusphere/backend/pkg/logger"
	"github.com/otakusphere/backend/validators"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	defer logger.L().Sync() //nolint:errcheck

	db, err := config.InitDB(cfg)
	if err != nil {
		logger.L().Fatal("failed to initialize database", zap.Error(err))
	}
	defer config.CloseDB(db) //nolint:errcheck

	// Firebase login is optional; the server runs without it.
	var firebaseAuthClient *auth.Client
	if cfg.FirebaseCredentialsPath != "" {
		app, err := firebase.InitFirebase(context.Background(), cfg.FirebaseCredentialsPath)
		if err != nil {
			logger.L().Fatal("failed to initialize Firebase", zap.Error(err))
		}
		firebaseAuthClient = app.AuthClient
	}

	e := echo.New()
	e.Validator = validators.NewValidator()

	router.SetupMiddleware(e)
	if err := router.SetupRoutes(e, db, firebaseAuthClient, cfg); err != nil {
		logger.L().Fatal("failed to set up routes", zap.Error(err))
	}

	logger.L().Info("starting server", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
