package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/pkgporter/pkg/buildinfo"
	"github.com/matzehuels/pkgporter/pkg/cache"
	"github.com/matzehuels/pkgporter/pkg/httputil"
	"github.com/matzehuels/pkgporter/pkg/observability"
)

const httpTimeout = 30 * time.Second

// Client provides shared HTTP functionality for registry JSON APIs.
// It handles retries, optional response caching and common headers.
type Client struct {
	http     *http.Client
	cache    cache.Cache
	cacheTTL time.Duration
	headers  map[string]string
}

// NewClient creates a Client. A nil cache disables caching.
func NewClient(c cache.Cache, cacheTTL time.Duration) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		http:     &http.Client{Timeout: httpTimeout},
		cache:    c,
		cacheTTL: cacheTTL,
		headers: map[string]string{
			"Accept":     "application/json",
			"User-Agent": buildinfo.UserAgent(),
		},
	}
}

// Cached retrieves a JSON value from the cache or calls fetch and stores
// the result. fetch populates v; transient failures are retried.
func (c *Client) Cached(ctx context.Context, key string, v any, fetch func() error) error {
	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		if json.Unmarshal(data, v) == nil {
			observability.Cache().OnCacheHit(ctx, key)
			return nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, key)

	if err := httputil.RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		if c.cache.Set(ctx, key, data, c.cacheTTL) == nil {
			observability.Cache().OnCacheSet(ctx, key, len(data))
		}
	}
	return nil
}

// Credentials are HTTP basic-auth credentials for a registry request.
type Credentials struct {
	Username string
	Password string
}

// GetJSON performs a GET request and decodes the JSON response into v.
// A 404 yields [ErrNotFound]; connection failures and 5xx responses yield
// a retryable [ErrNetwork].
func (c *Client) GetJSON(ctx context.Context, rawURL string, creds *Credentials, v any) error {
	body, err := c.do(ctx, rawURL, creds)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("decode response from %s: %w", rawURL, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, rawURL string, creds *Credentials) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if creds != nil {
		req.SetBasicAuth(creds.Username, creds.Password)
	}

	host, path := hostPath(rawURL)
	observability.HTTP().OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, req.Method, host, path, err)
		return nil, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	observability.HTTP().OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests || code >= 500:
		return httputil.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

func hostPath(rawURL string) (string, string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", rawURL
	}
	return u.Host, u.Path
}
