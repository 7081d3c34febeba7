package main

import (
	"alcyxob/fitness-tracker/internal/api"
	"alcyxob/fitness-tracker/internal/config"
	"alcyxob/fitness-tracker/internal/logging"
	"alcyxob/fitness-tracker/internal/metrics"
	"alcyxob/fitness-tracker/internal/repository/mongo"
	redisrepo "alcyxob/fitness-tracker/internal/repository/redis"
	"alcyxob/fitness-tracker/internal/service"
	"alcyxob/fitness-tracker/internal/storage"
	"alcyxob/fitness-tracker/internal/tracker"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
)

// @title Fitness Tracker API
// @version 1.0
// @description API behind the 30-day workout tracker page: workouts, progress, missed-workout alerts and stopwatches.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("could not load config: %s", err)
	}
	logging.Setup(logging.SetupParams{
		Level:            cfg.Log.Level,
		FormatJSON:       cfg.Log.JSON,
		Environment:      cfg.Log.Environment,
		SentryDSN:        cfg.Log.SentryDSN,
		SentryServerName: "fitness-tracker",
	})
	defer sentry.Flush(2 * time.Second)
	log.Info("starting fitness tracker server")

	if cfg.JWT.Secret == "" {
		log.Fatal("jwt secret is not set (JWT_SECRET)")
	}
	gin.SetMode(cfg.Server.GinMode)

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("could not connect to mongodb: %s", err)
	}
	defer func() {
		log.Info("disconnecting mongodb")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Errorf("failed to disconnect mongodb: %s", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Debugf("connected to database %s", cfg.Database.Name)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureWorkoutIndexes(ctx, appDB.Collection("workouts"))
		log.Debug("index creation completed")
	}()

	// --- Session Store ---
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client: %s", err)
		}
	}()
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		pingCancel()
		log.Fatalf("could not reach redis at %s: %s", cfg.Redis.Addr, err)
	}
	pingCancel()

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(context.Background(), cfg.S3)
	if err != nil {
		log.Fatalf("failed to initialize s3 storage: %s", err)
	}

	// --- Repositories & Services ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	sessionRepo := redisrepo.NewRedisSessionRepository(redisClient)

	authService := service.NewAuthService(userRepo, sessionRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	exportService := service.NewExportService(workoutRepo, fileStorage)

	// --- Metrics ---
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricsManager := metrics.NewManager("fitness", "tracker", reg)

	stopwatches := tracker.NewStopwatchRegistry(nil)

	router := gin.New()
	router.Use(gin.Recovery())
	rateLimiter := redis_rate.NewLimiter(redisClient)
	api.SetupRoutes(
		router,
		authService,
		exportService,
		workoutRepo,
		stopwatches,
		metricsManager,
		reg,
		rateLimiter,
		cfg.Server.AuthRequestsPerMinute,
	)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen and serve: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	// in-flight requests get 5 seconds to finish
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("server forced to shutdown: %s", err)
	}

	log.Info("server exiting")
}
