// Package provider talks to the API-Sports football API: header auth,
// page-numbered pagination and the get/parameters/errors/response
// envelope every endpoint shares.
package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"football-sync/core/engine"
	"football-sync/core/ratelimit"
)

// Response bodies above this size are cut off rather than buffered.
const maxBodyBytes = 8 << 20

// Registry maps entity kinds onto the provider's wire surface: which
// endpoint serves a kind, how a filter becomes query parameters and
// how response items become records.
type Registry interface {
	// Path returns the endpoint path for the kind, or false when the
	// provider has no endpoint for it.
	Path(kind engine.EntityKind) (string, bool)
	// Query translates the filter into endpoint query parameters.
	Query(kind engine.EntityKind, filter engine.Filter) url.Values
	// Parse turns the envelope's response items into records.
	Parse(kind engine.EntityKind, items []json.RawMessage, filter engine.Filter) ([]engine.Record, error)
}

// Client fetches entity records from API-Sports. It implements the
// sync engine's Source.
type Client struct {
	http       *http.Client
	baseURL    string
	key        string
	maxRetries int
	retryDelay time.Duration
	registry   Registry
	limiter    *ratelimit.Limiter
	logger     *zap.Logger
}

// New builds a client. The limiter may be nil to disable throttling.
func New(cfg Config, registry Registry, limiter *ratelimit.Limiter, logger *zap.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://v3.football.api-sports.io"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeout,
	}

	return &Client{
		http:       &http.Client{Timeout: timeout, Transport: transport},
		baseURL:    baseURL,
		key:        strings.TrimSpace(cfg.Key),
		maxRetries: cfg.MaxRetries,
		retryDelay: time.Second,
		registry:   registry,
		limiter:    limiter,
		logger:     logger,
	}
}

// Fetch retrieves one page of records for the kind. The cursor is the
// page number handed back by the previous call; an empty cursor starts
// at the filter's pinned page or at page one.
func (c *Client) Fetch(ctx context.Context, kind engine.EntityKind, filter engine.Filter, cursor string) ([]engine.Record, string, error) {
	path, ok := c.registry.Path(kind)
	if !ok {
		return nil, "", &Error{Kind: ErrorSchema, Message: fmt.Sprintf("no endpoint serves kind %s", kind)}
	}

	query := c.registry.Query(kind, filter)
	if query == nil {
		query = url.Values{}
	}
	page := cursor
	if page == "" && filter.Page > 0 {
		page = strconv.Itoa(filter.Page)
	}
	if page != "" {
		query.Set("page", page)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, "", &Error{Kind: ErrorRateLimited, Message: "local request budget exhausted", Err: err}
		}
	}

	env, err := c.get(ctx, path, query)
	if err != nil {
		return nil, "", err
	}

	records, err := c.registry.Parse(kind, env.Response, filter)
	if err != nil {
		return nil, "", err
	}

	next := ""
	if env.Paging.Current > 0 && env.Paging.Current < env.Paging.Total {
		next = strconv.Itoa(env.Paging.Current + 1)
	}
	return records, next, nil
}

// get runs one GET with retries for recoverable failures.
func (c *Client) get(ctx context.Context, path string, query url.Values) (*envelope, error) {
	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(time.Duration(attempt) * c.retryDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, &Error{Kind: ErrorNetwork, Message: "request cancelled", Err: ctx.Err()}
			case <-timer.C:
			}
		}

		env, err := c.once(ctx, fullURL)
		if err == nil {
			return env, nil
		}
		lastErr = err

		var pe *Error
		if !errors.As(err, &pe) || !pe.Retryable() {
			return nil, err
		}
		c.logger.Warn("provider request failed",
			zap.String("url", fullURL),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}
	return nil, lastErr
}

func (c *Client) once(ctx context.Context, fullURL string) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, &Error{Kind: ErrorSchema, Message: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-apisports-key", c.key)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Kind: ErrorNetwork, Message: "send request", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{Kind: ErrorNetwork, Message: "read response body", Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &Error{Kind: ErrorRateLimited, Status: resp.StatusCode, Message: "provider rate limit hit"}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &Error{Kind: ErrorAuth, Status: resp.StatusCode, Message: "provider rejected credentials"}
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, &Error{Kind: ErrorNetwork, Status: resp.StatusCode, Message: "provider unavailable"}
	case resp.StatusCode != http.StatusOK:
		return nil, &Error{Kind: ErrorSchema, Status: resp.StatusCode, Message: abbreviate(raw)}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &Error{Kind: ErrorSchema, Message: "malformed provider payload", Err: err}
	}
	if err := env.apiError(); err != nil {
		return nil, err
	}
	return &env, nil
}

// envelope is the response wrapper every API-Sports endpoint shares.
type envelope struct {
	Get        string            `json:"get"`
	Parameters map[string]string `json:"parameters"`
	Errors     json.RawMessage   `json:"errors"`
	Results    int               `json:"results"`
	Paging     paging            `json:"paging"`
	Response   []json.RawMessage `json:"response"`
}

type paging struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// apiError surfaces provider-reported errors. The errors field is an
// empty array when all is well and a key-to-message object otherwise.
func (e *envelope) apiError() error {
	trimmed := strings.TrimSpace(string(e.Errors))
	if trimmed == "" || trimmed == "[]" || trimmed == "null" || trimmed == "{}" {
		return nil
	}

	var keyed map[string]string
	if err := json.Unmarshal(e.Errors, &keyed); err != nil || len(keyed) == 0 {
		return &Error{Kind: ErrorSchema, Message: abbreviate(e.Errors)}
	}

	for key, message := range keyed {
		switch strings.ToLower(key) {
		case "token", "access", "plan":
			return &Error{Kind: ErrorAuth, Message: message}
		case "requests", "ratelimit", "rate_limit":
			return &Error{Kind: ErrorRateLimited, Message: message}
		}
	}
	for key, message := range keyed {
		return &Error{Kind: ErrorSchema, Message: fmt.Sprintf("%s: %s", key, message)}
	}
	return nil
}

func abbreviate(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
