package mealdb

import (
	"context"
	"net/url"

	"github.com/cookup/gateway/internal/types"
)

// TheMealDBURL is the public catalog queried when the primary backend is unreachable
const TheMealDBURL = "https://www.themealdb.com/api/json/v1/1"

// FallbackClient talks to the public TheMealDB catalog. It never sends credentials.
type FallbackClient struct {
	src *httpSource
}

// NewFallbackClient creates a catalog client; an empty baseURL selects TheMealDBURL
func NewFallbackClient(baseURL string, opts ...Option) *FallbackClient {
	if baseURL == "" {
		baseURL = TheMealDBURL
	}
	src := newHTTPSource("fallback", baseURL, opts)
	src.tokens = nil
	src.onUnauthorized = nil
	return &FallbackClient{src: src}
}

// Search runs GET /search.php?s=<query>
func (c *FallbackClient) Search(ctx context.Context, query string) ([]types.MealSummary, error) {
	body, err := c.src.get(ctx, "search", "/search.php", url.Values{"s": {query}})
	if err != nil {
		return nil, err
	}

	items, err := normalizeSummaries(body)
	if err != nil {
		return nil, c.src.decodeErr("search", err)
	}
	return items, nil
}

// Lookup runs GET /lookup.php?i=<id> and uses the first element of "meals"
func (c *FallbackClient) Lookup(ctx context.Context, id string) (*types.MealDetail, error) {
	body, err := c.src.get(ctx, "lookup", "/lookup.php", url.Values{"i": {id}})
	if err != nil {
		return nil, c.src.lookupErr(err)
	}

	meal, err := normalizeDetail(body)
	if err != nil {
		return nil, c.src.decodeErr("lookup", err)
	}
	return meal, nil
}
