package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/cookup/gateway/internal/model"
	"github.com/cookup/gateway/internal/types"
)

// maxConcurrentLookups bounds the detail resolutions in flight for one shopping list
const maxConcurrentLookups = 4

// ShoppingItem is one aggregated ingredient of the week
type ShoppingItem struct {
	Ingredient string   `json:"ingredient"`
	Quantities []string `json:"quantities"`
	Meals      []string `json:"meals"`
}

// ShoppingList is the ingredient list derived from the linked meals of a week plan
type ShoppingList struct {
	Items      []ShoppingItem `json:"items"`
	Unresolved []string       `json:"unresolved"`
}

// ShoppingList resolves every distinct linked meal of the user's plan and
// merges their ingredients by name, walking the week from mon to sun. A meal
// planned more than once adds its quantities once per entry. Meals that cannot
// be loaded are listed in Unresolved instead of failing the whole list.
func (s *PlannerService) ShoppingList(ctx context.Context, userID string) (*ShoppingList, error) {
	var entries []model.PlannedMeal
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND meal_id <> ''", userID).
		Order("position ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("load planned meals: %w", err)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return model.DayIndex(entries[i].Day) < model.DayIndex(entries[j].Day)
	})

	var mealIDs []string
	seen := make(map[string]bool)
	for _, e := range entries {
		if !seen[e.MealID] {
			seen[e.MealID] = true
			mealIDs = append(mealIDs, e.MealID)
		}
	}

	var (
		mu         sync.Mutex
		resolved   = make(map[string]*types.MealDetail, len(mealIDs))
		unresolved []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for _, id := range mealIDs {
		id := id
		g.Go(func() error {
			meal, err := s.resolver.ResolveDetail(gctx, id)
			if err != nil {
				if errors.Is(err, ErrUnreachable) {
					s.logger.Warn("skipping meal for shopping list", "meal_id", id, "err", err)
					shoppingUnresolved.Inc()
					mu.Lock()
					unresolved = append(unresolved, id)
					mu.Unlock()
					return nil
				}
				return err
			}
			mu.Lock()
			resolved[id] = meal
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resolve planned meals: %w", err)
	}

	details := make([]*types.MealDetail, 0, len(entries))
	for _, e := range entries {
		if meal := resolved[e.MealID]; meal != nil {
			details = append(details, meal)
		}
	}

	sort.Strings(unresolved)
	return &ShoppingList{
		Items:      aggregateIngredients(details),
		Unresolved: append([]string{}, unresolved...),
	}, nil
}

// aggregateIngredients groups ingredients by case-insensitive name, keeping the
// first spelling seen and every non-empty quantity in the order the meals
// are given. Each meal name is recorded once per ingredient.
func aggregateIngredients(meals []*types.MealDetail) []ShoppingItem {
	index := make(map[string]int)
	var items []ShoppingItem

	for _, meal := range meals {
		if meal == nil {
			continue
		}
		for _, ing := range meal.Ingredients {
			name := strings.TrimSpace(ing.Name)
			key := strings.ToLower(name)
			if key == "" {
				continue
			}

			pos, ok := index[key]
			if !ok {
				pos = len(items)
				index[key] = pos
				items = append(items, ShoppingItem{Ingredient: name, Quantities: []string{}, Meals: []string{}})
			}
			item := &items[pos]
			if q := strings.TrimSpace(ing.Quantity); q != "" {
				item.Quantities = append(item.Quantities, q)
			}
			if !contains(item.Meals, meal.Name) {
				item.Meals = append(item.Meals, meal.Name)
			}
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].Ingredient) < strings.ToLower(items[j].Ingredient)
	})
	if items == nil {
		items = []ShoppingItem{}
	}
	return items
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
