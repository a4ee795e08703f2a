package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jibe0123/mysteryfactory/internal/classifier"
	"github.com/jibe0123/mysteryfactory/internal/config"
	"github.com/jibe0123/mysteryfactory/internal/models"
	"github.com/jibe0123/mysteryfactory/internal/platforms"
	"github.com/jibe0123/mysteryfactory/internal/platforms/instagram"
	"github.com/jibe0123/mysteryfactory/internal/platforms/tiktok"
	"github.com/jibe0123/mysteryfactory/internal/platforms/youtube"
	"github.com/jibe0123/mysteryfactory/internal/router"
	"github.com/jibe0123/mysteryfactory/internal/store/gormstore"
	"github.com/jibe0123/mysteryfactory/internal/worker"
	"github.com/jibe0123/mysteryfactory/pkg/aws"
	"github.com/jibe0123/mysteryfactory/pkg/db"
	"github.com/jibe0123/mysteryfactory/pkg/logger"
	"github.com/jibe0123/mysteryfactory/pkg/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// @title Short Video Trend Detector API
// @version 1.0
// @description Ingests recent uploads from tracked creator accounts, scores viral potential, and persists the winners.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.mysteryfactory.io/support
// @contact.email support@mysteryfactory.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel := cfg.LogLevel
	if cfg.Debug {
		logLevel = "debug"
	}
	appLogger := logger.New(logLevel, cfg.Environment)
	defer appLogger.Sync()

	tp, err := initTracer(cfg.ServiceName, cfg.JaegerEndpoint)
	if err != nil {
		appLogger.Fatal("Failed to initialize tracer", "error", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			appLogger.Error("Error shutting down tracer provider", "error", err)
		}
	}()

	m := metrics.New()

	database, err := db.New(cfg.DatabaseDSN)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close()

	if err := database.AutoMigrate(); err != nil {
		appLogger.Fatal("Failed to run auto-migrations", "error", err)
	}

	if err := db.Seed(database.GetDB(), cfg); err != nil {
		appLogger.Fatal("Failed to seed database", "error", err)
	}

	repos := router.Repositories{
		Users:        gormstore.NewUserRepository(database.GetDB()),
		Sources:      gormstore.NewSourceRepository(database.GetDB()),
		Topics:       gormstore.NewTopicRepository(database.GetDB()),
		StoredVideos: gormstore.NewStoredVideoRepository(database.GetDB()),
	}

	st := gormstore.New(database.GetDB())
	adapters := buildAdapters(cfg, appLogger)
	cl := buildClassifier(cfg, appLogger, m)

	w := worker.New(st, cl, adapters, appLogger, cfg.DryRun, cfg.WorkerIntervalMinutes)
	if err := w.Start(context.Background()); err != nil {
		appLogger.Fatal("Failed to start worker", "error", err)
	}
	defer w.Stop()

	r := router.New(cfg, appLogger, database, m, repos, w)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}

	go func() {
		appLogger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", "error", err)
	}

	appLogger.Info("Server exited")
}

// buildAdapters constructs one adapter per enabled platform, per the
// *_ENABLED flags (spec.md §6). Instagram and TikTok may each register
// both their native and hosted backends at once; the worker merges their
// output.
func buildAdapters(cfg *config.Config, log *logger.Logger) map[models.Platform][]platforms.Adapter {
	adapterCfg := platforms.Config{
		MaxResults:     cfg.MaxResultsPerPlatform,
		RequestTimeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		RetryCount:     cfg.RetryCount,
		RetryDelay:     time.Duration(cfg.RetryDelaySeconds) * time.Second,
	}

	out := make(map[models.Platform][]platforms.Adapter)

	if cfg.TikTokEnabled {
		a, err := tiktok.New(cfg.TikTokAppID, cfg.TikTokAppSecret, cfg.TikTokAccessToken, adapterCfg, log)
		if err != nil {
			log.Error("Failed to initialize TikTok adapter", "error", err)
		} else {
			out[models.PlatformTikTok] = append(out[models.PlatformTikTok], a)
		}
	}
	if cfg.TikTokHostedEnabled {
		out[models.PlatformTikTok] = append(out[models.PlatformTikTok], tiktok.NewHosted(cfg.TikTokScraperURL, cfg.TikTokScraperToken, adapterCfg, log))
	}

	if cfg.InstagramNativeEnabled {
		out[models.PlatformReels] = append(out[models.PlatformReels], instagram.NewNative(cfg.InstagramAccessToken, adapterCfg, log))
	}
	if cfg.InstagramHostedEnabled {
		out[models.PlatformReels] = append(out[models.PlatformReels], instagram.NewHosted(cfg.InstagramScraperURL, cfg.InstagramScraperToken, adapterCfg, log))
	}

	if cfg.YouTubeEnabled {
		a, err := youtube.New(context.Background(), cfg.YouTubeAPIKey, adapterCfg, log)
		if err != nil {
			log.Error("Failed to initialize YouTube adapter", "error", err)
		} else {
			out[models.PlatformYouTube] = append(out[models.PlatformYouTube], a)
		}
	}

	return out
}

// buildClassifier selects the quality classifier backend per
// CLASSIFIER_BACKEND (spec.md §4.7): pass_through (default), heuristic,
// or bedrock.
func buildClassifier(cfg *config.Config, log *logger.Logger, m *metrics.Metrics) classifier.Classifier {
	switch cfg.ClassifierBackend {
	case "heuristic":
		return classifier.Heuristic{}
	case "bedrock":
		client, err := aws.NewBedrockClient(&aws.BedrockConfig{Region: cfg.AWSRegion}, log)
		if err != nil {
			log.Error("Failed to initialize Bedrock client, falling back to pass-through", "error", err)
			return classifier.PassThrough{}
		}
		model := aws.ModelClaude4Haiku
		if cfg.BedrockModelID != "" {
			model = aws.FoundationModel(cfg.BedrockModelID)
		}
		return classifier.NewBedrock(client, model, log, m)
	default:
		return classifier.PassThrough{}
	}
}

// initTracer creates a new trace provider instance and registers it as global trace provider.
func initTracer(serviceName, jaegerEndpoint string) (*tracesdk.TracerProvider, error) {
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(jaegerEndpoint)))
	if err != nil {
		return nil, err
	}

	tp := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exp),
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		)),
	)

	otel.SetTracerProvider(tp)

	return tp, nil
}
