package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"shop-admin/internal/config"
	"shop-admin/internal/database"
	"shop-admin/internal/domain"
	"shop-admin/internal/imagestore"
	custommiddleware "shop-admin/internal/middleware"
	"shop-admin/internal/repository"
	"shop-admin/internal/service"
	"shop-admin/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
	redis  *redis.Client
}

// NewServer wires repositories, services and handlers onto one router.
// images is the remote image host; redisClient may be nil when rate limiting is disabled.
func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service, redisClient *redis.Client, images imagestore.Store) *Server {
	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, !cfg.Server.IsProduction()))

	sqlDB := db.DB()

	// Initialize repositories
	userRepo := repository.NewUserRepository(sqlDB)
	roleRepo := repository.NewRoleRepository(sqlDB)
	productRepo := repository.NewProductRepository(sqlDB)
	imageRepo := repository.NewProductImageRepository(sqlDB)
	cartRepo := repository.NewCartItemRepository(sqlDB)
	brandRepo := repository.NewBrandRepository(sqlDB)
	categoryRepo := repository.NewCategoryRepository(sqlDB)
	sliderRepo := repository.NewSliderRepository(sqlDB)
	tx := repository.NewTransactor(sqlDB)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, time.Duration(cfg.JWT.AccessExpiry)*time.Minute, logger)
	userService := service.NewUserService(userRepo, roleRepo, tx, logger)
	productService := service.NewProductService(productRepo, imageRepo, cartRepo, brandRepo, categoryRepo, tx, images, logger)
	catalogService := service.NewCatalogService(brandRepo, categoryRepo, logger)
	sliderService := service.NewSliderService(sliderRepo, images, logger)

	// Every request may carry a token; route groups decide whether one is required
	router.Use(custommiddleware.OptionalAuthMiddleware(authService, logger))

	if cfg.RateLimit.Enabled && redisClient != nil {
		router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.RequestsPerWindow,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "ratelimit",
			MutatingOnly:      true,
		}, logger))
	}

	guards := transport.Guards{
		Authenticated: custommiddleware.RequireRole([]string{domain.RoleUser, domain.RoleAdmin}, logger),
		Admin:         custommiddleware.RequireAdmin(logger),
	}
	maxUpload := int64(cfg.Server.MaxUploadMB) << 20

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := db.Health()
		status := http.StatusOK
		if health["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		custommiddleware.RespondWithJSON(w, status, health)
	})

	// Register routes
	transport.NewAuthHandler(authService, logger).RegisterRoutes(router)
	transport.NewUserHandler(userService, logger).RegisterRoutes(router, guards)
	transport.NewProductHandler(productService, maxUpload, logger).RegisterRoutes(router, guards)
	transport.NewCatalogHandler(catalogService, sliderService, maxUpload, logger).RegisterRoutes(router, guards)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

// NewRedisClient connects to the configured Redis and pings it
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	_ = s.logger.Sync()
	return nil
}
