// Package erpclient wraps the Mietwerk REST API behind a caching HTTP
// client. GET responses for cacheable paths are served from an attached
// respcache.Store; mutations bypass the cache and invalidate the read paths
// they affect through a declarative rule table. An authorization failure
// flushes the whole cache so a later login starts cold.
package erpclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mietwerk/mietwerk-go/respcache"
)

type Client struct {
	resty  *resty.Client
	cache  respcache.Store
	policy respcache.TTLPolicy
	rules  []InvalidationRule
	log    zerolog.Logger

	mu    sync.RWMutex
	token string
}

func New(opts ...ClientOption) *Client {
	cfg := defaultClientOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	rc := resty.New()
	if cfg.BaseURL != "" {
		rc.SetBaseURL(cfg.BaseURL)
	}
	if cfg.Timeout > 0 {
		rc.SetTimeout(cfg.Timeout)
	}
	if len(cfg.Headers) > 0 {
		rc.SetHeaders(cfg.Headers)
	}

	return &Client{
		resty:  rc,
		cache:  cfg.Cache,
		policy: cfg.Policy,
		rules:  cfg.Rules,
		log:    cfg.Logger,
		token:  cfg.Token,
	}
}

// SetToken replaces the bearer credential used for every outgoing request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = strings.TrimSpace(token)
	c.mu.Unlock()
}

// Token returns the current bearer credential, empty if none is set.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Response is the uniform result shape for cached and live calls alike.
// FromCache is a diagnostics tag; callers that only care about the payload
// can ignore it.
type Response struct {
	StatusCode int
	Body       json.RawMessage
	FromCache  bool
	RequestID  string
}

type RequestOption func(*resty.Request)

// WithRequestHeaders sets headers on a single request.
func WithRequestHeaders(headers map[string]string) RequestOption {
	return func(r *resty.Request) {
		if len(headers) == 0 {
			return
		}
		r.SetHeaders(headers)
	}
}

// Get fetches path with the given query parameters, serving from cache when
// the path is cacheable and an unexpired entry exists. On a miss the live
// 200 response is stored under the TTL the policy resolves for the path.
func (c *Client) Get(ctx context.Context, path string, params map[string]string, result any, opts ...RequestOption) (*Response, error) {
	cacheable := c.cache != nil && c.policy.Cacheable(path)
	if cacheable {
		if raw, ok := c.cache.Get(path, params); ok {
			if err := decodeInto(raw, result); err == nil {
				c.log.Debug().Str("path", path).Msg("cache hit")
				return &Response{StatusCode: http.StatusOK, Body: raw, FromCache: true}, nil
			}
			// An undecodable entry behaves like a miss; the refetch below
			// overwrites it.
		}
		c.log.Debug().Str("path", path).Msg("cache miss")
	}

	resp, err := c.do(ctx, resty.MethodGet, path, params, nil, result, opts...)
	if err != nil {
		return resp, err
	}
	if cacheable && resp.StatusCode == http.StatusOK {
		c.cache.Set(path, params, resp.Body, c.policy.Resolve(path))
	}
	return resp, nil
}

// Post sends a mutation and applies the invalidation table on success.
func (c *Client) Post(ctx context.Context, path string, body any, result any, opts ...RequestOption) (*Response, error) {
	resp, err := c.do(ctx, resty.MethodPost, path, nil, body, result, opts...)
	if err == nil {
		c.invalidateFor(path)
	}
	return resp, err
}

// Put sends a mutation and applies the invalidation table on success.
func (c *Client) Put(ctx context.Context, path string, body any, result any, opts ...RequestOption) (*Response, error) {
	resp, err := c.do(ctx, resty.MethodPut, path, nil, body, result, opts...)
	if err == nil {
		c.invalidateFor(path)
	}
	return resp, err
}

// Delete sends a mutation and applies the invalidation table on success.
func (c *Client) Delete(ctx context.Context, path string, result any, opts ...RequestOption) (*Response, error) {
	resp, err := c.do(ctx, resty.MethodDelete, path, nil, nil, result, opts...)
	if err == nil {
		c.invalidateFor(path)
	}
	return resp, err
}

// InvalidateCache evicts every cached entry whose path contains the given
// substring, for callers that mutate state outside this client.
func (c *Client) InvalidateCache(pathSubstring string) int {
	if c.cache == nil {
		return 0
	}
	return c.cache.Invalidate(pathSubstring)
}

// FlushCache drops every cached entry.
func (c *Client) FlushCache() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

func (c *Client) do(ctx context.Context, method, path string, params map[string]string, body any, result any, opts ...RequestOption) (*Response, error) {
	req := c.resty.R().SetContext(ctx)
	requestID := uuid.NewString()
	req.SetHeader("X-Request-ID", requestID)
	if token := c.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	if len(params) > 0 {
		req.SetQueryParams(params)
	}
	for _, opt := range opts {
		if opt != nil {
			opt(req)
		}
	}
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		c.log.Error().Err(err).Str("method", method).Str("path", path).Str("request_id", requestID).Msg("transport failure")
		return nil, errors.Join(ErrUnreachable, err)
	}

	status := resp.StatusCode()
	out := &Response{
		StatusCode: status,
		Body:       json.RawMessage(resp.Body()),
		RequestID:  requestID,
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		if c.cache != nil {
			c.cache.Clear()
			c.log.Warn().Int("status", status).Str("path", path).Msg("auth failure, response cache flushed")
		}
		return out, ErrUnauthorized
	case resp.IsError():
		return out, &APIError{Status: status, Message: strings.TrimSpace(resp.String()), RequestID: requestID}
	}
	return out, nil
}

func (c *Client) invalidateFor(path string) {
	if c.cache == nil {
		return
	}
	for _, rule := range c.rules {
		if !strings.HasPrefix(path, rule.MutationPrefix) {
			continue
		}
		for _, read := range rule.ReadPrefixes {
			if removed := c.cache.Invalidate(read); removed > 0 {
				c.log.Debug().Str("mutation", path).Str("read", read).Int("removed", removed).Msg("cache invalidated")
			}
		}
	}
}

func decodeInto(raw json.RawMessage, result any) error {
	if result == nil {
		return nil
	}
	return json.Unmarshal(raw, result)
}
