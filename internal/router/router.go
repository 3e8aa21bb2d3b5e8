package router

import (
	"context"
	"net/http"
	"time"

	_ "github.com/evyataryagoni/schoolfinder/docs" // Swagger docs
	"github.com/evyataryagoni/schoolfinder/internal/handler"
	"github.com/evyataryagoni/schoolfinder/internal/limiter"
	"github.com/evyataryagoni/schoolfinder/internal/logger"
	"github.com/evyataryagoni/schoolfinder/internal/metrics"
	custommiddleware "github.com/evyataryagoni/schoolfinder/internal/middleware"
	v1 "github.com/evyataryagoni/schoolfinder/internal/router/v1"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// healthCheckTimeout bounds the datastore ping behind /health
const healthCheckTimeout = 2 * time.Second

// HealthChecker reports whether the backing datastore is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Dependencies groups what the router wires into handlers and middleware
type Dependencies struct {
	SchoolHandler *handler.SchoolHandler
	Health        HealthChecker
	Limiter       limiter.Limiter
	Metrics       *metrics.Metrics
	Gatherer      prometheus.Gatherer // served on /metrics, defaults to prometheus.DefaultGatherer
	Logger        *logger.Logger
}

// SetupRouter creates the chi router with all middleware and routes
func SetupRouter(deps Dependencies) chi.Router {
	r := chi.NewRouter()

	// Order matters: request ID before logging, recovery before anything that can panic
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.LoggingMiddleware(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(custommiddleware.RateLimitMiddleware(deps.Limiter, deps.Metrics))
	r.Use(custommiddleware.MetricsMiddleware(deps.Metrics))

	r.Get("/", rootHandler)

	r.Mount("/v1", v1.SetupRoutes(deps.SchoolHandler))

	// Unversioned paths kept for existing clients
	r.Post("/addSchool", deps.SchoolHandler.AddSchool)
	r.Get("/listSchools", deps.SchoolHandler.ListSchools)

	r.Get("/health", healthCheckHandler(deps.Health, deps.Logger))

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// http://localhost:5000/swagger/index.html
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return r
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("School API is working"))
}

// healthCheckHandler answers 200 when the datastore responds to a ping, 503 otherwise
func healthCheckHandler(hc HealthChecker, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := hc.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("Health check failed")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("UNAVAILABLE"))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}
