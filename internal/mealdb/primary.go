package mealdb

import (
	"context"
	"net/url"

	"github.com/cookup/gateway/internal/types"
)

// PrimaryClient talks to the application's own recipe backend
type PrimaryClient struct {
	src *httpSource
}

// NewPrimaryClient creates a client for the backend rooted at baseURL (e.g. "https://cookup.example/api")
func NewPrimaryClient(baseURL string, opts ...Option) *PrimaryClient {
	return &PrimaryClient{src: newHTTPSource("primary", baseURL, opts)}
}

// Search runs GET /meals/search?q=<query>. Only a 2xx answer counts; an empty
// array is the no-match result.
func (c *PrimaryClient) Search(ctx context.Context, query string) ([]types.MealSummary, error) {
	body, err := c.src.get(ctx, "search", "/meals/search", url.Values{"q": {query}})
	if err != nil {
		return nil, err
	}

	items, err := normalizeSummaries(body)
	if err != nil {
		return nil, c.src.decodeErr("search", err)
	}
	return items, nil
}

// Lookup runs GET /meals/meal/<id>
func (c *PrimaryClient) Lookup(ctx context.Context, id string) (*types.MealDetail, error) {
	body, err := c.src.get(ctx, "lookup", "/meals/meal/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, c.src.lookupErr(err)
	}

	meal, err := normalizeDetail(body)
	if err != nil {
		return nil, c.src.decodeErr("lookup", err)
	}
	return meal, nil
}
