package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/cookup/gateway/config"
	"github.com/cookup/gateway/internal/api"
	"github.com/cookup/gateway/internal/database"
	"github.com/cookup/gateway/internal/mealdb"
	"github.com/cookup/gateway/internal/middleware"
	"github.com/cookup/gateway/internal/service"
)

const shutdownTimeout = 5 * time.Second

// Server represents the HTTP server
type Server struct {
	router   *gin.Engine
	http     *http.Server
	db       *gorm.DB
	redis    *redis.Client
	logger   *log.Logger
	resolver *service.Resolver
}

// New wires the meal sources, services and routes for cfg. An unreachable
// Redis is not fatal: rate limiting falls back to the in-process limiter.
func New(cfg *config.Config, db *gorm.DB, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{db: db, logger: logger}

	s.resolver = NewResolver(cfg, logger)

	router := gin.New()
	router.Use(
		middleware.RequestLogger(logger.With("component", "http")),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORSOrigins),
		middleware.Reauthenticate(),
	)

	api.RegisterRoutes(router, api.Dependencies{
		DB:        db,
		Resolver:  s.resolver,
		Favorites: service.NewFavoriteService(db),
		Ratings:   service.NewRatingService(db),
		Planner:   service.NewPlannerService(db, s.resolver, logger),
		Validator: middleware.NewJWTValidator(cfg.JWTSecret),
		Limiter:   s.limiter(cfg),
		Logger:    logger,
	})

	s.router = router
	s.http = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// NewResolver builds the primary-then-fallback resolver described by cfg.
// The primary acts with the caller's bearer token and flags the response for
// re-authentication when it rejects it.
func NewResolver(cfg *config.Config, logger *log.Logger) *service.Resolver {
	primary := mealdb.NewPrimaryClient(cfg.PrimaryAPIURL,
		mealdb.WithTimeout(cfg.RequestTimeout),
		mealdb.WithTokenSupplier(mealdb.ContextToken),
		mealdb.WithUnauthorizedHandler(middleware.MarkReauthenticate),
		mealdb.WithLogger(logger),
	)
	fallback := mealdb.NewFallbackClient(cfg.FallbackAPIURL,
		mealdb.WithTimeout(cfg.RequestTimeout),
		mealdb.WithLogger(logger),
	)
	return service.NewResolver(primary, fallback, logger)
}

func (s *Server) limiter(cfg *config.Config) middleware.Limiter {
	if cfg.RateLimit <= 0 {
		s.logger.Info("rate limiting disabled")
		return nil
	}
	limits := middleware.PerMinute(cfg.RateLimit)

	if cfg.RedisURL != "" {
		client, err := database.NewRedisClient(cfg.RedisURL, s.logger)
		if err == nil {
			s.redis = client
			return middleware.NewRateLimiter(client, limits)
		}
		s.logger.Warn("redis unavailable, using in-process rate limiter", "err", err)
	}
	return middleware.NewLocalLimiter(limits)
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Stop(shutdownCtx)
}

// Stop gracefully stops the HTTP server and releases the Redis connection
func (s *Server) Stop(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	if s.redis != nil {
		err = errors.Join(err, s.redis.Close())
	}
	return err
}
