package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/evyataryagoni/schoolfinder/internal/config"
	"github.com/evyataryagoni/schoolfinder/internal/handler"
	"github.com/evyataryagoni/schoolfinder/internal/limiter"
	"github.com/evyataryagoni/schoolfinder/internal/logger"
	"github.com/evyataryagoni/schoolfinder/internal/metrics"
	"github.com/evyataryagoni/schoolfinder/internal/router"
	"github.com/evyataryagoni/schoolfinder/internal/service"
	"github.com/evyataryagoni/schoolfinder/internal/store"
	"github.com/prometheus/client_golang/prometheus"
)

// startupTimeout bounds connecting to the datastore and the limiter backend
const startupTimeout = 15 * time.Second

// @title           School Finder API
// @version         1.0
// @description     Register schools and list them by distance from a point.

// @license.name  MIT
// @license.url   http://opensource.org/licenses/MIT

// @host      localhost:5000
// @BasePath  /
func main() {
	appConfig := config.Load()

	appLogger := setupLogger(appConfig)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dataStore := setupDataStore(ctx, appConfig, appLogger)
	rateLimiter := setupRateLimiter(ctx, appConfig, appLogger)
	defer rateLimiter.Close()

	metricsCollector := metrics.New(prometheus.DefaultRegisterer)

	schoolService := service.NewSchoolService(dataStore, metricsCollector, appLogger)
	defer schoolService.Close()

	appRouter := router.SetupRouter(router.Dependencies{
		SchoolHandler: handler.NewSchoolHandler(schoolService),
		Health:        schoolService,
		Limiter:       rateLimiter,
		Metrics:       metricsCollector,
		Logger:        appLogger,
	})

	if err := runServer(ctx, appConfig, appRouter, appLogger); err != nil {
		appLogger.Error().Err(err).Msg("Server stopped with error")
	}
}

// setupLogger initializes the structured logger
func setupLogger(appConfig *config.Config) *logger.Logger {
	appLogger := logger.New(logger.Config{
		Level:  appConfig.LogLevel,
		Pretty: appConfig.LogPretty,
	})

	appLogger.Info().Msg("Starting School Finder server...")
	appLogger.Info().
		Str("port", appConfig.Port).
		Str("rate_limiter_type", appConfig.RateLimitType).
		Int("rate_limit", appConfig.RateLimit).
		Int("rate_limit_window", appConfig.RateLimitWindow).
		Str("datastore_type", appConfig.DatastoreType).
		Str("datastore_path", appConfig.DatastorePath).
		Msg("Configuration loaded")

	return appLogger
}

// setupDataStore opens the configured store
// A Redis store is seeded from DATASTORE_PATH when it is empty
func setupDataStore(ctx context.Context, appConfig *config.Config, log *logger.Logger) store.Store {
	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	dataStore, err := store.Open(ctx, store.Config{
		Type:             appConfig.DatastoreType,
		SeedPath:         appConfig.DatastorePath,
		MySQLDSN:         appConfig.MySQLDSN,
		MySQLAutoMigrate: appConfig.MySQLAutoMigrate,
		RedisAddr:        appConfig.RedisAddr,
		RedisPassword:    appConfig.RedisPassword,
		RedisDB:          appConfig.RedisDB,
	})
	if err != nil {
		log.Fatal().Err(err).Str("type", appConfig.DatastoreType).Msg("Failed to initialize datastore")
	}

	if redisStore, ok := dataStore.(*store.RedisStore); ok && appConfig.DatastorePath != "" {
		seedRedisIfEmpty(ctx, redisStore, appConfig.DatastorePath, log)
	}

	log.Info().Str("type", appConfig.DatastoreType).Msg("Datastore initialized")
	return dataStore
}

// seedRedisIfEmpty loads the CSV seed file into an empty Redis store
func seedRedisIfEmpty(ctx context.Context, redisStore *store.RedisStore, csvPath string, log *logger.Logger) {
	isEmpty, err := redisStore.IsEmpty(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to check if Redis is empty")
		return
	}
	if !isEmpty {
		return
	}

	schools, err := store.ReadSchoolsCSV(csvPath)
	if err != nil {
		log.Warn().Err(err).Str("path", csvPath).Msg("Failed to read seed data")
		return
	}

	loaded, err := redisStore.LoadSchools(ctx, schools)
	if err != nil {
		log.Warn().Err(err).Int("loaded", loaded).Msg("Failed to load seed data")
		return
	}
	log.Info().Int("schools", loaded).Str("path", csvPath).Msg("Redis seeded from CSV")
}

// setupRateLimiter initializes the rate limiter
func setupRateLimiter(ctx context.Context, appConfig *config.Config, log *logger.Logger) limiter.Limiter {
	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	effectiveRate := appConfig.RequestsPerSecond()

	rateLimiter, err := limiter.NewLimiter(ctx, limiter.LimiterConfig{
		Type:              appConfig.RateLimitType,
		RequestsPerSecond: effectiveRate,
		RedisAddr:         appConfig.RedisAddr,
		RedisPassword:     appConfig.RedisPassword,
		RedisDB:           appConfig.RedisDB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize rate limiter")
	}

	log.Info().
		Str("type", appConfig.RateLimitType).
		Float64("requests_per_second", effectiveRate).
		Msg("Rate limiter initialized")

	return rateLimiter
}

// runServer serves until ctx is cancelled, then drains in-flight requests
func runServer(ctx context.Context, appConfig *config.Config, appRouter http.Handler, log *logger.Logger) error {
	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           appRouter,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		base := "http://localhost:" + appConfig.Port
		log.Info().
			Str("port", appConfig.Port).
			Str("api_endpoint", base+"/v1/schools").
			Str("health_check", base+"/health").
			Str("metrics", base+"/metrics").
			Str("swagger", base+"/swagger/index.html").
			Msg("Server is running")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Dur("timeout", appConfig.ShutdownTimeout).Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info().Msg("Server stopped")
	return nil
}
