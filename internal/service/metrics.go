package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomePrimary  = "primary"
	outcomeFallback = "fallback"
	outcomeFailed   = "failed"
	outcomeSkipped  = "skipped"
)

var (
	// resolutionsTotal counts finished resolutions by operation and the state they ended in
	resolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cookup_resolutions_total",
		Help: "Meal resolutions by operation and outcome",
	}, []string{"operation", "outcome"})

	// shoppingUnresolved counts planned meals left out of a shopping list
	shoppingUnresolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cookup_shopping_list_unresolved_total",
		Help: "Planned meals whose details could not be loaded for a shopping list",
	})
)
