package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cookup/gateway/internal/middleware"
	"github.com/cookup/gateway/internal/service"
	"github.com/cookup/gateway/internal/types"
)

type PlannerHandler struct {
	planner service.IPlannerService
}

func NewPlannerHandler(planner service.IPlannerService) *PlannerHandler {
	return &PlannerHandler{planner: planner}
}

func (h *PlannerHandler) RegisterRoutes(router *gin.RouterGroup, auth ...gin.HandlerFunc) {
	planner := router.Group("/planner", auth...)
	{
		planner.GET("", h.GetWeek)
		planner.POST("", h.AddMeal)
		planner.DELETE("", h.ClearWeek)
		planner.GET("/shopping-list", h.ShoppingList)
		planner.DELETE("/:day/:index", h.RemoveMeal)
	}
}

func (h *PlannerHandler) GetWeek(c *gin.Context) {
	week, err := h.planner.Week(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load week plan"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"week": week, "totalMeals": week.TotalMeals()})
}

func (h *PlannerHandler) AddMeal(c *gin.Context) {
	var req types.AddPlannedMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.planner.Add(c.Request.Context(), middleware.UserID(c), service.PlannerInput{
		Day:     req.Day,
		Title:   req.Title,
		Cuisine: req.Cuisine,
		Type:    req.Type,
		MealID:  req.MealID,
	})
	if err != nil {
		if isPlannerInputError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add meal"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

func (h *PlannerHandler) RemoveMeal(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be a number"})
		return
	}

	err = h.planner.Remove(c.Request.Context(), middleware.UserID(c), c.Param("day"), index)
	switch {
	case errors.Is(err, service.ErrInvalidDay):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEntryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case err != nil:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove meal"})
	default:
		c.Status(http.StatusNoContent)
	}
}

func (h *PlannerHandler) ClearWeek(c *gin.Context) {
	if err := h.planner.ClearWeek(c.Request.Context(), middleware.UserID(c)); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear week plan"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PlannerHandler) ShoppingList(c *gin.Context) {
	list, err := h.planner.ShoppingList(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build shopping list"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func isPlannerInputError(err error) bool {
	return errors.Is(err, service.ErrEmptyTitle) ||
		errors.Is(err, service.ErrInvalidDay) ||
		errors.Is(err, service.ErrInvalidMealType)
}
