package mealdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultTimeout bounds every outbound call
const DefaultTimeout = 15 * time.Second

// maxBodyBytes caps how much of a response body is read
const maxBodyBytes = 4 << 20

// Option configures a source client
type Option func(*httpSource)

// WithHTTPClient sets the underlying HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(s *httpSource) {
		if c != nil {
			s.client = c
		}
	}
}

// WithTimeout overrides the per-call timeout
func WithTimeout(d time.Duration) Option {
	return func(s *httpSource) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithTokenSupplier sets the accessor consulted for a bearer token on every call.
// The fallback client ignores it.
func WithTokenSupplier(fn TokenSupplier) Option {
	return func(s *httpSource) { s.tokens = fn }
}

// WithUnauthorizedHandler sets the callback invoked when the source answers 401
func WithUnauthorizedHandler(fn UnauthorizedFunc) Option {
	return func(s *httpSource) { s.onUnauthorized = fn }
}

// WithLogger sets the logger used for request tracing
func WithLogger(l *log.Logger) Option {
	return func(s *httpSource) {
		if l != nil {
			s.logger = l
		}
	}
}

// httpSource holds what the primary and fallback clients share: one GET per
// call, bounded by a timeout, with optional bearer auth.
type httpSource struct {
	name           string
	baseURL        string
	client         *http.Client
	timeout        time.Duration
	tokens         TokenSupplier
	onUnauthorized UnauthorizedFunc
	logger         *log.Logger
}

func newHTTPSource(name, baseURL string, opts []Option) *httpSource {
	s := &httpSource{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  http.DefaultClient,
		timeout: DefaultTimeout,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("source", name)
	return s
}

// get performs the call and returns the body of a 2xx response. Every
// failure, a 404 included, is a *TransportError.
func (s *httpSource) get(ctx context.Context, op, path string, query url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	target := s.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &TransportError{Source: s.name, Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if s.tokens != nil {
		if token := s.tokens(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Debug("request failed", "op", op, "err", err, "elapsed", time.Since(start))
		return nil, &TransportError{Source: s.name, Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Source: s.name, Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	s.logger.Debug("request done", "op", op, "status", resp.StatusCode, "elapsed", time.Since(start))

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if s.onUnauthorized != nil {
			s.onUnauthorized(ctx)
		}
		return nil, &TransportError{Source: s.name, Op: op, StatusCode: resp.StatusCode, Err: ErrUnauthorized}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &TransportError{Source: s.name, Op: op, StatusCode: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}
	return body, nil
}

// lookupErr reports a 404 on a single-meal lookup as ErrNotFound. Searches
// keep the TransportError so the resolver can move on to the next source.
func (s *httpSource) lookupErr(err error) error {
	var te *TransportError
	if errors.As(err, &te) && te.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s lookup: %w", s.name, ErrNotFound)
	}
	return err
}

func (s *httpSource) decodeErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%s %s: %w", s.name, op, err)
	}
	return &TransportError{Source: s.name, Op: op, Err: err}
}
