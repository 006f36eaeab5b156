package api

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/santosa/bandarlab/internal/api/handlers"
	"github.com/santosa/bandarlab/pkg/logger"
	"github.com/santosa/bandarlab/pkg/redis"
)

// RouterConfig holds the router collaborators.
type RouterConfig struct {
	Analysis *handlers.AnalysisHandler
	Backtest *handlers.BacktestHandler
	Limiter  *redis.RateLimiter
	// Requests per client per minute on /api routes, 0 disables
	RateLimit int
	Logger    *logger.Logger
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	analysisHandler := cfg.Analysis
	backtestHandler := cfg.Backtest
	log := cfg.Logger

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()
	if cfg.Limiter != nil && cfg.RateLimit > 0 {
		api.Use(rateLimitMiddleware(cfg.Limiter, cfg.RateLimit, log))
	}

	// Analysis endpoints
	api.HandleFunc("/analysis/{symbol}", analysisHandler.GetFullAnalysis).Methods("GET")
	api.HandleFunc("/analysis/{symbol}/technical", analysisHandler.GetTechnical).Methods("GET")
	api.HandleFunc("/analysis/{symbol}/fundamental", analysisHandler.GetFundamental).Methods("GET")
	api.HandleFunc("/analysis/{symbol}/bandarmology", analysisHandler.GetBandarmology).Methods("GET")
	api.HandleFunc("/analysis/{symbol}/prediction", analysisHandler.GetPrediction).Methods("GET")

	// Backtest
	api.HandleFunc("/backtest", backtestHandler.Run).Methods("POST")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "bandarlab-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// rateLimitMiddleware enforces a per-client request budget on API routes.
// Clients are keyed by IP; the sliding window lives in Redis so the limit
// holds across replicas.
func rateLimitMiddleware(limiter *redis.RateLimiter, perMinute int, log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, _, err := limiter.Allow(r.Context(), redis.RateLimitConfig{
				Key:    "api:" + clientIP(r),
				Limit:  perMinute,
				Window: time.Minute,
			})
			if err != nil {
				// A broken limiter must not take the API down
				log.WithField("error", err.Error()).Warn("Rate limit check failed")
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "Rate limit exceeded",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the caller address, honoring X-Forwarded-For
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
