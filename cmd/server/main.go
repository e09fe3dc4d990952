package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alcyxob/tritrack/internal/api"
	"alcyxob/tritrack/internal/config"
	"alcyxob/tritrack/internal/inference"
	"alcyxob/tritrack/internal/logging"
	"alcyxob/tritrack/internal/metrics"
	"alcyxob/tritrack/internal/nutrition"
	"alcyxob/tritrack/internal/repository/mongo"
	"alcyxob/tritrack/internal/service"
	"alcyxob/tritrack/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
)

// @title TriTrack API
// @version 1.0
// @description Triathlon training plans, workouts, nutrition and AI coaching.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the Supabase access token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   cfg.Log.Stdout,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
	})
	log.Infof("starting tritrack server, gin mode %s", cfg.Server.Mode)

	if cfg.JWT.Secret == "" {
		log.Fatal("jwt.secret (JWT_SECRET) must be set to the Supabase JWT secret")
	}

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Info("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Errorf("failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		mongo.EnsureIndexes(ctx, appDB)
	}()

	// --- Storage ---
	fileStorage := storage.NewNoopStorage()
	if cfg.S3.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		fileStorage, err = storage.NewS3Storage(ctx, cfg.S3)
		cancel()
		if err != nil {
			log.Fatalf("failed to initialize S3 storage: %v", err)
		}
	} else {
		log.Warn("S3 storage disabled, plan photos will not be kept")
	}

	// --- Metrics ---
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metricsManager := metrics.NewManager("tritrack", "server", promRegistry)

	// --- Rate limiting ---
	var rateLimiter api.RequestRateLimiter
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Errorf("failed to close redis client: %v", err)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warnf("redis ping failed, rate limiting may error: %v", err)
		}
		cancel()
		rateLimiter = redis_rate.NewLimiter(rdb)
		log.Infof("AI endpoints limited to %d requests per minute", cfg.RateLimit.AIPerMinute)
	}

	// --- Clients ---
	groqClient := inference.NewClient(cfg.Groq)
	if !groqClient.Configured() {
		log.Warn("groq API key not configured, AI endpoints will answer 500")
	}
	foodClient := nutrition.NewClient(cfg.CalorieNinjas, metricsManager)

	// --- Repositories ---
	profileRepo := mongo.NewMongoProfileRepository(appDB)
	mealRepo := mongo.NewMongoMealRepository(appDB)
	planRepo := mongo.NewMongoTrainingPlanRepository(appDB)
	plannedRepo := mongo.NewMongoPlannedWorkoutRepository(appDB)
	actualRepo := mongo.NewMongoActualWorkoutRepository(appDB)
	sessionRepo := mongo.NewMongoCoachingSessionRepository(appDB)

	// --- Services ---
	services := api.Services{
		Profile:   service.NewProfileService(profileRepo),
		Nutrition: service.NewNutritionService(mealRepo, profileRepo, foodClient, metricsManager),
		Plan:      service.NewPlanService(planRepo, plannedRepo, groqClient, fileStorage, metricsManager),
		Workout:   service.NewWorkoutService(actualRepo, plannedRepo, planRepo),
		Coach:     service.NewCoachService(sessionRepo, profileRepo, actualRepo, mealRepo, groqClient, metricsManager),
	}

	// --- Gin Engine ---
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	if err := api.RegisterValidators(); err != nil {
		log.Fatalf("failed to register validators: %v", err)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	api.SetupRoutes(router, api.RouteOptions{
		JWTSecret:    cfg.JWT.Secret,
		AIConfigured: groqClient.Configured(),
		Metrics:      metricsManager,
		Gatherer:     promRegistry,
		RateLimiter:  rateLimiter,
		AIPerMinute:  cfg.RateLimit.AIPerMinute,
	}, services)

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen and serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("server forced to shutdown: %v", err)
	}
	log.Info("server exiting")
}
