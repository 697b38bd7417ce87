package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-messaging/internal/infra/config"
	"github.com/arklim/social-platform-messaging/internal/transport/http/handlers"
	"github.com/arklim/social-platform-messaging/internal/transport/http/middleware"
	"github.com/arklim/social-platform-messaging/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth         *usecase.AuthService
	Registration *usecase.RegistrationService
	Users        *usecase.UserService
	Messages     *usecase.MessageService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config   *config.AppConfig
	Logger   *zap.Logger
	Services ServiceSet
	Metrics  *middleware.HTTPMetrics
	Database DatabaseChecker
	Cache    CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config != nil && deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))

	if deps.Config != nil && len(deps.Config.HTTP.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(deps.Config.HTTP.AllowedOrigins))
	}

	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	authMiddleware := middleware.RequireAuth(deps.Services.Auth)
	selfOnly := middleware.RequireSelf("username")

	healthOptions := make([]handlers.HealthOption, 0, 2)

	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}

	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}

	healthHandler := handlers.NewHealthHandler(healthOptions...)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		authHandler := handlers.NewAuthHandler(deps.Services.Auth, deps.Services.Registration)
		authHandler.RegisterRoutes(authGroup)

		userHandler := handlers.NewUserHandler(deps.Services.Users)
		userGroup := api.Group("/users")
		userGroup.Use(authMiddleware)
		userGroup.GET("", userHandler.List)
		userGroup.GET("/:username", selfOnly, userHandler.Get)
		userGroup.GET("/:username/from", selfOnly, userHandler.MessagesFrom)
		userGroup.GET("/:username/to", selfOnly, userHandler.MessagesTo)

		messageHandler := handlers.NewMessageHandler(deps.Services.Messages)
		messageGroup := api.Group("/messages")
		messageGroup.Use(authMiddleware)
		messageGroup.POST("", messageHandler.Send)
		messageGroup.GET("/:id", messageHandler.Get)
		messageGroup.POST("/:id/read", messageHandler.MarkRead)
	}

	return r
}
