package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"catalog-api/internal/cache"
	"catalog-api/internal/config"
	custommiddleware "catalog-api/internal/middleware"
	"catalog-api/internal/repository"
	"catalog-api/internal/service"
	"catalog-api/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

// NewServer wires the catalog stack: store, optional cache, service,
// handler, and the middleware chain. db may be nil when the memory store
// driver is configured.
func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env == "development"))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize the catalog store
	var repo repository.ProductRepository
	if cfg.Catalog.StoreDriver == "memory" {
		logger.Warn("Using in-memory catalog store; data will not survive restarts")
		repo = repository.NewMemoryRepository()
	} else {
		repo = repository.NewProductRepository(db)
	}

	// Redis backs the read cache and rate limiting when enabled.
	var redisClient *redis.Client
	var productCache *cache.ProductCache
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		productCache = cache.New(redisClient, "catalog:product:", cfg.Catalog.CacheTTL, logger)
	}

	// Initialize services
	catalogService := service.NewCatalogService(repo, productCache)

	// Initialize handlers
	productHandler := transport.NewProductHandler(catalogService, logger)

	// Middleware protecting mutation routes
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	roleMiddleware := custommiddleware.RequireRole([]string{"vendor", "admin"}, logger)

	mutationMiddleware := []func(http.Handler) http.Handler{roleMiddleware}
	if redisClient != nil {
		mutationMiddleware = append(mutationMiddleware, custommiddleware.RateLimitMiddleware(
			redisClient,
			custommiddleware.RateLimitConfig{
				RequestsPerWindow: cfg.RateLimit.RequestsPerWindow,
				Window:            cfg.RateLimit.Window,
				KeyPrefix:         "catalog:ratelimit",
			},
			logger,
		))
	}

	// Register routes
	productHandler.RegisterRoutes(router, authMiddleware, mutationMiddleware...)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
