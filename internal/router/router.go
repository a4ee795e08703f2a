package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jibe0123/mysteryfactory/internal/config"
	"github.com/jibe0123/mysteryfactory/internal/handlers"
	"github.com/jibe0123/mysteryfactory/internal/middleware"
	"github.com/jibe0123/mysteryfactory/internal/models"
	"github.com/jibe0123/mysteryfactory/internal/worker"
	"github.com/jibe0123/mysteryfactory/pkg/db"
	"github.com/jibe0123/mysteryfactory/pkg/logger"
	"github.com/jibe0123/mysteryfactory/pkg/metrics"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Repositories bundles the store-backed CRUD repositories the HTTP layer
// depends on, so New doesn't need a long positional argument list.
type Repositories struct {
	Users        models.UserRepository
	Sources      models.SourceRepository
	Topics       models.TopicRepository
	StoredVideos models.StoredVideoRepository
}

// New creates a new Gin router with all routes and middleware configured.
func New(cfg *config.Config, log *logger.Logger, database *db.DB, m *metrics.Metrics, repos Repositories, w *worker.Worker) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(middleware.RateLimiter())
	r.Use(m.HTTPMiddleware())

	r.GET("/health", handlers.HealthCheck(database))
	r.GET("/ready", handlers.ReadinessCheck(database))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.Environment != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := handlers.NewAuthHandler(cfg, log, database, repos.Users)
	sourceHandler := handlers.NewSourceHandler(cfg, log, database, repos.Sources)
	topicHandler := handlers.NewTopicHandler(cfg, log, database, repos.Topics)
	videoHandler := handlers.NewStoredVideoHandler(cfg, log, database, repos.StoredVideos)
	cycleHandler := handlers.NewCycleHandler(cfg, log, database, w)

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.JWTAuth(cfg.JWTSecret), authHandler.GetProfile)
		}

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(cfg.JWTSecret))
		{
			sources := protected.Group("/sources")
			{
				sources.GET("", sourceHandler.ListSources)
				sources.POST("", sourceHandler.CreateSource)
				sources.GET("/:id", sourceHandler.GetSource)
				sources.PUT("/:id", sourceHandler.UpdateSource)
				sources.DELETE("/:id", sourceHandler.DeleteSource)
			}

			topics := protected.Group("/topics")
			{
				topics.GET("", topicHandler.ListTopics)
				topics.POST("", topicHandler.CreateTopic)
				topics.GET("/:id", topicHandler.GetTopic)
				topics.PUT("/:id", topicHandler.UpdateTopic)
				topics.DELETE("/:id", topicHandler.DeleteTopic)
			}

			videos := protected.Group("/stored-videos")
			{
				videos.GET("", videoHandler.ListStoredVideos)
				videos.GET("/:id", videoHandler.GetStoredVideo)
			}

			stats := protected.Group("/stats")
			{
				stats.GET("/cycles", cycleHandler.GetCycleStats)
			}

			workerGroup := protected.Group("/worker")
			workerGroup.Use(middleware.RequireRole("admin"))
			{
				workerGroup.POST("/run", cycleHandler.TriggerCycle)
			}
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "The requested resource was not found",
			"path":    c.Request.URL.Path,
		})
	})

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error":   "Method Not Allowed",
			"message": "The requested method is not allowed for this resource",
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
		})
	})

	return r
}
