package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/natemoovs/salesops-api/internal/config"
	"github.com/natemoovs/salesops-api/internal/database"
	"github.com/natemoovs/salesops-api/internal/http/handler"
	"github.com/natemoovs/salesops-api/internal/http/middleware"
)

type Router struct {
	cfg              *config.Config
	logger           *zap.Logger
	db               *gorm.DB
	rateLimiter      *middleware.RateLimiter
	dealHandler      *handler.DealHandler
	stageHandler     *handler.StageHandler
	ownerHandler     *handler.OwnerHandler
	analyticsHandler *handler.AnalyticsHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	rateLimiter *middleware.RateLimiter,
	dealHandler *handler.DealHandler,
	stageHandler *handler.StageHandler,
	ownerHandler *handler.OwnerHandler,
	analyticsHandler *handler.AnalyticsHandler,
) *Router {
	return &Router{
		cfg:              cfg,
		logger:           logger,
		db:               db,
		rateLimiter:      rateLimiter,
		dealHandler:      dealHandler,
		stageHandler:     stageHandler,
		ownerHandler:     ownerHandler,
		analyticsHandler: analyticsHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with pool stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
			},
		})
	})

	// Combined readiness check
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		status := "healthy"
		code := http.StatusOK
		if !allHealthy {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Deals
		r.Route("/deals", func(r chi.Router) {
			r.Get("/", rt.dealHandler.List)
			r.Post("/", rt.dealHandler.Create)
			r.Get("/{id}", rt.dealHandler.Get)
			r.Put("/{id}", rt.dealHandler.Update)
			r.Delete("/{id}", rt.dealHandler.Delete)

			// Lifecycle endpoints
			r.Post("/{id}/move", rt.dealHandler.MoveStage)
			r.Post("/{id}/win", rt.dealHandler.Win)
			r.Post("/{id}/lose", rt.dealHandler.Lose)
			r.Post("/{id}/reopen", rt.dealHandler.Reopen)

			r.Get("/{id}/history", rt.dealHandler.GetStageHistory)
		})

		// Stages
		r.Route("/stages", func(r chi.Router) {
			r.Get("/", rt.stageHandler.List)
			r.Post("/", rt.stageHandler.Create)
			r.Put("/{id}", rt.stageHandler.Update)
			r.Delete("/{id}", rt.stageHandler.Delete)
		})

		// Owners
		r.Route("/owners", func(r chi.Router) {
			r.Get("/", rt.ownerHandler.List)
			r.Post("/", rt.ownerHandler.Create)
			r.Get("/{id}", rt.ownerHandler.Get)
			r.Put("/{id}", rt.ownerHandler.Update)
		})

		// Analytics
		r.Route("/analytics", func(r chi.Router) {
			r.Get("/pipeline", rt.analyticsHandler.GetPipelineReport)
		})
	})

	return r
}
