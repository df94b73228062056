package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/chadillac/order-tracker/internal/api/handlers"
	"github.com/chadillac/order-tracker/internal/api/middleware"
	"github.com/chadillac/order-tracker/internal/auth"
	"github.com/chadillac/order-tracker/internal/catalog"
	"github.com/chadillac/order-tracker/internal/orders"
	"github.com/chadillac/order-tracker/internal/stages"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB             *gorm.DB
	Redis          *redis.Client
	Logger         *slog.Logger
	JWTService     *auth.JWTService
	AuthService    *auth.Service
	OrderService   *orders.Service
	StageRegistry  *stages.Registry
	CatalogService *catalog.Service
	AllowedOrigins []string // CORS allowed origins
	RateLimitReqs  int      // Rate limit requests per window
	RateLimitSecs  int      // Rate limit window in seconds
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	// Rate limiting - applied globally to prevent abuse
	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	// CORS - restrict to configured origins, or allow all in development
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		// Default to localhost for development - configure in production
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	authHandler := handlers.NewAuthHandler(cfg.AuthService)
	orderHandler := handlers.NewOrderHandler(cfg.OrderService)
	dashboardHandler := handlers.NewDashboardHandler(cfg.OrderService)
	stageHandler := handlers.NewStageHandler(cfg.StageRegistry)
	catalogHandler := handlers.NewCatalogHandler(cfg.CatalogService)
	userHandler := handlers.NewUserHandler(cfg.AuthService)
	resetHandler := handlers.NewResetHandler(cfg.AuthService)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/reset-requests", authHandler.RequestReset)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTService))

			r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
				userID := middleware.GetUserID(r.Context())
				user, err := cfg.AuthService.GetUserByID(r.Context(), userID)
				if err != nil {
					http.Error(w, "User not found", http.StatusNotFound)
					return
				}
				writeJSON(w, http.StatusOK, user)
			})

			r.Get("/dashboard", dashboardHandler.Index)

			// Lookup data needed by the order forms
			r.Get("/catalog", catalogHandler.ListEntries)
			r.Get("/fields", catalogHandler.ListFields)
			r.Get("/templates", orderHandler.Templates)

			// Orders endpoints
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", orderHandler.List)
				r.Post("/", orderHandler.Create)
				r.Get("/{id}", orderHandler.Get)
				r.Post("/{id}/services", orderHandler.AddService)
				r.Put("/{id}/stage", orderHandler.MoveStage)
				r.Post("/{id}/archive", orderHandler.Archive)
				r.Post("/{id}/restore", orderHandler.Restore)
			})

			// Admin endpoints
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Route("/stages", func(r chi.Router) {
					r.Get("/", stageHandler.List)
					r.Post("/", stageHandler.Create)
					r.Put("/{id}", stageHandler.Rename)
				})

				r.Route("/catalog", func(r chi.Router) {
					r.Get("/", catalogHandler.ListEntries)
					r.Post("/", catalogHandler.CreateEntry)
				})

				r.Route("/fields", func(r chi.Router) {
					r.Get("/", catalogHandler.ListFields)
					r.Post("/", catalogHandler.CreateField)
				})

				r.Route("/users", func(r chi.Router) {
					r.Get("/", userHandler.List)
					r.Post("/", userHandler.Create)
				})

				r.Route("/reset-requests", func(r chi.Router) {
					r.Get("/", resetHandler.List)
					r.Post("/{id}/approve", resetHandler.Approve)
				})
			})
		})
	})

	return &Router{r}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
