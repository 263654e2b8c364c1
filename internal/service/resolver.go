package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/cookup/gateway/internal/types"
)

var (
	// ErrUnreachable is matched by every UnreachableError
	ErrUnreachable = errors.New("all meal sources unreachable")
	// ErrInvalidID is returned for a blank meal id
	ErrInvalidID = errors.New("meal id is required")
)

// UnreachableError reports that the primary and the fallback source both failed
type UnreachableError struct {
	Op          string
	Key         string
	PrimaryErr  error
	FallbackErr error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("%s %q: primary: %v; fallback: %v", e.Op, e.Key, e.PrimaryErr, e.FallbackErr)
}

func (e *UnreachableError) Is(target error) bool {
	return target == ErrUnreachable
}

func (e *UnreachableError) Unwrap() []error {
	return []error{e.PrimaryErr, e.FallbackErr}
}

// Resolver turns a query or meal id into meal data by trying the primary
// source once and, only if that fails, the fallback source once.
type Resolver struct {
	primary  MealSource
	fallback MealSource
	logger   *log.Logger
	tokens   atomic.Uint64
}

// NewResolver creates a Resolver over the two sources
func NewResolver(primary, fallback MealSource, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{
		primary:  primary,
		fallback: fallback,
		logger:   logger.With("component", "resolver"),
	}
}

// NextToken returns a monotonically increasing request token. Callers holding
// several in-flight resolutions keep only the result with the highest token.
func (r *Resolver) NextToken() uint64 {
	return r.tokens.Add(1)
}

// ResolveSearch searches the primary source, falling back to the catalog when
// the primary fails. A blank query resolves to no items without any call.
func (r *Resolver) ResolveSearch(ctx context.Context, query string) (*types.ResolutionResult, error) {
	token := r.NextToken()
	query = strings.TrimSpace(query)
	if query == "" {
		resolutionsTotal.WithLabelValues("search", outcomeSkipped).Inc()
		return &types.ResolutionResult{Items: []types.MealSummary{}, Token: token}, nil
	}

	logger := r.logger.With("op", "search", "query", query, "token", token)
	logger.Debug("attempting primary")
	items, primaryErr := r.primary.Search(ctx, query)
	if primaryErr == nil {
		resolutionsTotal.WithLabelValues("search", outcomePrimary).Inc()
		return &types.ResolutionResult{Items: nonNil(items), Source: types.SourcePrimary, Token: token}, nil
	}

	logger.Warn("primary failed, attempting fallback", "err", primaryErr)
	items, fallbackErr := r.fallback.Search(ctx, query)
	if fallbackErr == nil {
		resolutionsTotal.WithLabelValues("search", outcomeFallback).Inc()
		return &types.ResolutionResult{Items: nonNil(items), Source: types.SourceFallback, Token: token}, nil
	}

	logger.Error("search failed on both sources", "err", fallbackErr)
	resolutionsTotal.WithLabelValues("search", outcomeFailed).Inc()
	return nil, &UnreachableError{Op: "search", Key: query, PrimaryErr: primaryErr, FallbackErr: fallbackErr}
}

// ResolveDetail looks a meal up by id with the same primary-then-fallback
// order. A primary "not found" also moves on to the fallback.
func (r *Resolver) ResolveDetail(ctx context.Context, id string) (*types.MealDetail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		resolutionsTotal.WithLabelValues("detail", outcomeSkipped).Inc()
		return nil, ErrInvalidID
	}

	logger := r.logger.With("op", "detail", "id", id)
	logger.Debug("attempting primary")
	meal, primaryErr := r.primary.Lookup(ctx, id)
	if primaryErr == nil {
		resolutionsTotal.WithLabelValues("detail", outcomePrimary).Inc()
		return meal, nil
	}

	logger.Warn("primary failed, attempting fallback", "err", primaryErr)
	meal, fallbackErr := r.fallback.Lookup(ctx, id)
	if fallbackErr == nil {
		resolutionsTotal.WithLabelValues("detail", outcomeFallback).Inc()
		return meal, nil
	}

	logger.Error("detail failed on both sources", "err", fallbackErr)
	resolutionsTotal.WithLabelValues("detail", outcomeFailed).Inc()
	return nil, &UnreachableError{Op: "detail", Key: id, PrimaryErr: primaryErr, FallbackErr: fallbackErr}
}

func nonNil(items []types.MealSummary) []types.MealSummary {
	if items == nil {
		return []types.MealSummary{}
	}
	return items
}
