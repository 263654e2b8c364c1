package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cookup/gateway/internal/service"
	"github.com/cookup/gateway/internal/types"
)

const (
	msgSearchUnreachable = "network error, backend may be down"
	msgDetailUnreachable = "could not load details"
)

// MealHandler serves search and detail over the primary-then-fallback resolver
type MealHandler struct {
	resolver service.IResolver
}

func NewMealHandler(resolver service.IResolver) *MealHandler {
	return &MealHandler{resolver: resolver}
}

func (h *MealHandler) RegisterRoutes(router *gin.RouterGroup, auth ...gin.HandlerFunc) {
	meals := router.Group("/meals")
	meals.GET("/filters", h.Filters)

	resolved := meals.Group("", auth...)
	{
		resolved.GET("/search", h.Search)
		resolved.GET("/meal/:id", h.GetMeal)
	}
}

// Search resolves q and applies the cuisine and diet filters to the result
func (h *MealHandler) Search(c *gin.Context) {
	res, err := h.resolver.ResolveSearch(c.Request.Context(), c.Query("q"))
	if err != nil {
		if errors.Is(err, service.ErrUnreachable) {
			c.JSON(http.StatusBadGateway, gin.H{"error": msgSearchUnreachable})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	items := service.Filter(res.Items, c.Query("cuisine"), c.Query("diet"))
	c.JSON(http.StatusOK, types.SearchResponse{
		Items:        items,
		Source:       res.Source,
		Empty:        res.Empty(),
		Total:        len(items),
		RequestToken: res.Token,
	})
}

func (h *MealHandler) GetMeal(c *gin.Context) {
	meal, err := h.resolver.ResolveDetail(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, service.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, service.ErrUnreachable):
		c.JSON(http.StatusBadGateway, gin.H{"error": msgDetailUnreachable})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgDetailUnreachable})
		return
	}

	c.JSON(http.StatusOK, gin.H{"meal": meal})
}

// Filters lists the options the client offers for the filter stage
func (h *MealHandler) Filters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"cuisines": service.Cuisines,
		"diets":    service.Diets,
	})
}
