package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cookup/gateway/internal/middleware"
	"github.com/cookup/gateway/internal/service"
	"github.com/cookup/gateway/internal/types"
)

type RatingHandler struct {
	ratings service.IRatingService
}

func NewRatingHandler(ratings service.IRatingService) *RatingHandler {
	return &RatingHandler{ratings: ratings}
}

func (h *RatingHandler) RegisterRoutes(router *gin.RouterGroup, auth ...gin.HandlerFunc) {
	ratings := router.Group("/ratings", auth...)
	{
		ratings.GET("", h.ListRatings)
		ratings.POST("", h.RateMeal)
		ratings.DELETE("/:id", h.RemoveRating)
	}
}

func (h *RatingHandler) ListRatings(c *gin.Context) {
	ratings, err := h.ratings.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ratings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ratings": ratings})
}

func (h *RatingHandler) RateMeal(c *gin.Context) {
	var req types.RateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rating, err := h.ratings.Rate(c.Request.Context(), middleware.UserID(c), service.RatingInput{
		MealID:  req.MealID,
		Name:    req.Name,
		Score:   req.Score,
		Comment: req.Comment,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidID) || errors.Is(err, service.ErrInvalidScore) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save rating"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rating": rating})
}

func (h *RatingHandler) RemoveRating(c *gin.Context) {
	err := h.ratings.Remove(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrRatingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove rating"})
		return
	}
	c.Status(http.StatusNoContent)
}
