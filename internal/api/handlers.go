package api

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/cookup/gateway/internal/database"
	"github.com/cookup/gateway/internal/middleware"
	"github.com/cookup/gateway/internal/service"
)

// Version is reported by the health endpoint
const Version = "v1.0.0"

// Dependencies are the services and middleware the routes are built from.
// A nil Limiter disables rate limiting.
type Dependencies struct {
	DB        *gorm.DB
	Resolver  service.IResolver
	Favorites service.IFavoriteService
	Ratings   service.IRatingService
	Planner   service.IPlannerService
	Validator middleware.TokenValidator
	Limiter   middleware.Limiter
	Logger    *log.Logger
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/health", HealthCheck(deps.DB))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	optional := []gin.HandlerFunc{middleware.OptionalAuth(deps.Validator)}
	required := []gin.HandlerFunc{middleware.AuthMiddleware(deps.Validator)}
	if deps.Limiter != nil {
		limit := middleware.RateLimitMiddleware(deps.Limiter, deps.Logger)
		optional = append(optional, limit)
		required = append(required, limit)
	}

	v1 := router.Group("/api/v1")
	NewMealHandler(deps.Resolver).RegisterRoutes(v1, optional...)
	NewFavoriteHandler(deps.Favorites).RegisterRoutes(v1, required...)
	NewRatingHandler(deps.Ratings).RegisterRoutes(v1, required...)
	NewPlannerHandler(deps.Planner).RegisterRoutes(v1, required...)
	if deps.Limiter != nil {
		RegisterRateLimitRoutes(v1, deps.Limiter, middleware.OptionalAuth(deps.Validator))
	}
}

// RegisterRateLimitRoutes registers the endpoint reporting the caller's rate
// limit status. Checking it does not count against the limit.
func RegisterRateLimitRoutes(router *gin.RouterGroup, limiter middleware.Limiter, auth gin.HandlerFunc) {
	window := limiter.Config().Window
	router.GET("/rate-limit", auth, func(c *gin.Context) {
		d, err := limiter.Peek(c.Request.Context(), middleware.RateLimitKey(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check rate limit"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"limit":      d.Limit,
			"remaining":  d.Remaining,
			"reset_time": d.Reset.Unix(),
			"window":     window.String(),
		})
	})
}

// HealthCheck returns the health status of the API. A database that does not
// answer a ping turns it into a 503.
func HealthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		body := gin.H{
			"status":  "healthy",
			"message": "CookUp gateway is running",
			"version": Version,
		}

		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := database.HealthCheck(ctx, db); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "unhealthy"
				body["database"] = err.Error()
			}
		}

		c.JSON(status, body)
	}
}
