package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/clashart/backend/internal/handlers"
	"github.com/clashart/backend/internal/middleware"
	"github.com/clashart/backend/internal/moderation"
	"github.com/clashart/backend/internal/repositories"
	"github.com/clashart/backend/internal/seed"
	"github.com/clashart/backend/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the collaborators SetupRoutes wires into the handlers.
// Mongo, Redis and FirebaseAuth are optional.
type Dependencies struct {
	SQL               *gorm.DB
	Mongo             *mongo.Database
	Redis             *redis.Client
	FollowingCacheTTL time.Duration
	JWTSecret         string
	JWTTTL            time.Duration
	FirebaseAuth      handlers.IDTokenVerifier
	Moderator         moderation.Moderator
	SeedDemoData      bool
	Logger            *zap.Logger
}

// SetupRoutes migrates the schema, builds repositories and services, and
// registers every route on e.
func SetupRoutes(ctx context.Context, e *echo.Echo, deps Dependencies) error {
	log := deps.Logger

	if err := repositories.AutoMigrate(deps.SQL); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Info("Relational auto-migrations completed")

	e.GET("/health", handlers.HealthCheck)
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "ClashArt API"})
	})

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(deps.SQL)
	commentRepo := repositories.NewPostgresCommentRepository(deps.SQL)
	likeRepo := repositories.NewPostgresLikeRepository(deps.SQL)
	themeRepo := repositories.NewPostgresThemeRepository(deps.SQL)
	notificationRepo := repositories.NewPostgresNotificationRepository(deps.SQL)

	var followRepo repositories.FollowRepository = repositories.NewPostgresFollowRepository(deps.SQL)
	if deps.Redis != nil {
		followRepo = repositories.NewCachedFollowRepository(followRepo, deps.Redis, deps.FollowingCacheTTL, log)
		log.Info("Following-set cache enabled", zap.Duration("ttl", deps.FollowingCacheTTL))
	}

	var postRepo repositories.PostRepository
	if deps.Mongo != nil {
		mongoPosts := repositories.NewMongoPostRepository(deps.Mongo)
		if err := mongoPosts.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("ensure post indexes: %w", err)
		}
		postRepo = mongoPosts
	} else {
		postRepo = repositories.NewMemoryPostRepository()
		log.Warn("MongoDB not configured, posts are kept in memory")
	}

	// --- Initialize Services ---
	notificationService := services.NewNotificationService(notificationRepo, log)
	graphService := services.NewGraphService(followRepo, userRepo, notificationService, log)
	themeService := services.NewThemeService(themeRepo)
	feedService := services.NewFeedService(graphService, userRepo, postRepo, log)
	postService := services.NewPostService(postRepo, likeRepo, commentRepo, userRepo, graphService, themeService, deps.Moderator, log)
	likeService := services.NewLikeService(likeRepo, postService, postRepo, notificationService, log)
	commentService := services.NewCommentService(commentRepo, postService, postRepo, deps.Moderator, notificationService, log)
	profileService := services.NewProfileService(userRepo, graphService, postService, postRepo, likeRepo, commentRepo, notificationRepo, log)

	if _, err := themeService.EnsureFreestyle(ctx); err != nil {
		return fmt.Errorf("ensure freestyle theme: %w", err)
	}
	if deps.SeedDemoData {
		if _, err := seed.NewSeeder(userRepo, themeRepo, postRepo, log).Run(ctx); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	// --- Unprotected routes for authentication ---
	authHandler := handlers.NewAuthHandler(userRepo, deps.FirebaseAuth, deps.JWTSecret, deps.JWTTTL, log)
	authHandler.RegisterAuthRoutes(e.Group("/api/v1/auth"))
	log.Info("Auth routes configured", zap.Bool("firebase", deps.FirebaseAuth != nil))

	// Anonymous viewers are allowed here; a bad token is still rejected
	public := e.Group("/api/v1", middleware.OptionalJWTAuth(deps.JWTSecret))
	// Bound per route by echo, so both groups can share the prefix
	api := e.Group("/api/v1", middleware.JWTAuthMiddleware(deps.JWTSecret))

	userHandler := handlers.NewUserHandler(profileService, postService)
	userHandler.RegisterPublicRoutes(public)
	userHandler.RegisterProfileRoutes(api)

	followHandler := handlers.NewFollowHandler(graphService)
	followHandler.RegisterPublicRoutes(public)
	followHandler.RegisterFollowRoutes(api)

	feedHandler := handlers.NewFeedHandler(feedService, likeService)
	feedHandler.RegisterFeedRoutes(public)

	postHandler := handlers.NewPostHandler(postService)
	postHandler.RegisterPublicRoutes(public)
	postHandler.RegisterPostRoutes(api)

	likeHandler := handlers.NewLikeHandler(likeService)
	likeHandler.RegisterLikeRoutes(api)

	commentHandler := handlers.NewCommentHandler(commentService)
	commentHandler.RegisterPublicRoutes(public)
	commentHandler.RegisterCommentRoutes(api)

	themeHandler := handlers.NewThemeHandler(themeService)
	themeHandler.RegisterPublicRoutes(public)
	themeHandler.RegisterAdminRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notificationService, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)

	log.Info("All routes configured", zap.Int("routes", len(e.Routes())))
	return nil
}
