package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clashart/backend/internal/handlers"
	"github.com/clashart/backend/internal/moderation"
	"github.com/clashart/backend/internal/router"
	"github.com/clashart/backend/pkg/config"
	"github.com/clashart/backend/pkg/firebase"
	"github.com/clashart/backend/pkg/logger"
	"github.com/clashart/backend/validators"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, envFile, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if !envFile {
		log.Info("No .env file found, using environment variables")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connections
	db, err := config.InitDB(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB()

	// Firebase login is optional
	var firebaseAuth handlers.IDTokenVerifier
	if cfg.FirebaseCredentialsPath != "" {
		app, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, log)
		if err != nil {
			log.Fatal("Failed to initialize Firebase", zap.Error(err))
		}
		firebaseAuth = app.AuthClient
	}

	moderator := buildModerator(ctx, cfg, log)

	var mongoDB *mongo.Database
	if db.Mongo != nil {
		mongoDB = db.Mongo.Database(cfg.MongoDatabase)
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	config.SetupMiddleware(e, log)

	err = router.SetupRoutes(ctx, e, router.Dependencies{
		SQL:               db.SQL,
		Mongo:             mongoDB,
		Redis:             db.Redis,
		FollowingCacheTTL: cfg.FollowingCacheTTL,
		JWTSecret:         cfg.JWTSecret,
		JWTTTL:            cfg.JWTTTL,
		FirebaseAuth:      firebaseAuth,
		Moderator:         moderator,
		SeedDemoData:      cfg.SeedDemoData,
		Logger:            log,
	})
	if err != nil {
		log.Fatal("Failed to set up routes", zap.Error(err))
	}

	go func() {
		log.Info("Starting HTTP server", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
}

// buildModerator chains the local word list with Gemini when an API key is set
func buildModerator(ctx context.Context, cfg *config.Config, log *zap.Logger) moderation.Moderator {
	chain := moderation.Chain{moderation.NewWordList(moderation.DefaultBlockedWords)}
	if cfg.GeminiAPIKey == "" {
		log.Info("GEMINI_API_KEY not set, using the word list only")
		return chain
	}
	client, err := moderation.NewGeminiClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		log.Warn("Gemini moderation disabled", zap.Error(err))
		return chain
	}
	return append(chain, moderation.NewGemini(client.Models, cfg.GeminiModel, cfg.ModerationTimeout, log))
}
