package rest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"github.com/segmentio/encoding/json"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/quorumfeed/marketdata/internal/core"
)

// RunnerConfig carries the REST adapter's configuration options.
type RunnerConfig struct {
	TimeoutMs     int
	MaxRetries    int
	BaseBackoffMs int
	RatePerSecond float64
	RateBurst     int
}

func (c RunnerConfig) withDefaults() RunnerConfig {
	if c.TimeoutMs == 0 {
		c.TimeoutMs = 10_000
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.BaseBackoffMs == 0 {
		c.BaseBackoffMs = 250
	}
	if c.RatePerSecond == 0 {
		c.RatePerSecond = 10
	}
	if c.RateBurst == 0 {
		c.RateBurst = 20
	}
	return c
}

// Runner executes spec+adapter+params against a pooled HTTP client with
// connection reuse, per-host rate limiting, a per-host circuit breaker, and
// bounded retries with exponential backoff honoring Retry-After on 429.
type Runner struct {
	client  *retryablehttp.Client
	cfg     RunnerConfig
	log     zerolog.Logger
	baseURL string

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewRunner builds a runner targeting baseURL (e.g. "https://api.binance.com").
func NewRunner(baseURL string, cfg RunnerConfig, log zerolog.Logger) *Runner {
	cfg = cfg.withDefaults()
	client := retryablehttp.NewClient()
	client.RetryMax = cfg.MaxRetries
	client.RetryWaitMin = time.Duration(cfg.BaseBackoffMs) * time.Millisecond
	client.RetryWaitMax = time.Duration(cfg.BaseBackoffMs*8) * time.Millisecond
	client.HTTPClient.Timeout = time.Duration(cfg.TimeoutMs) * time.Millisecond
	client.Logger = nil // zerolog is the logging stack; suppress retryablehttp's own logger

	return &Runner{
		client:   client,
		cfg:      cfg,
		log:      log,
		baseURL:  baseURL,
		limiters: make(map[string]*rate.Limiter),
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
}

func (r *Runner) limiterFor(host string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.limiters[host]
	if !ok {
		l = rate.NewLimiter(rate.Limit(r.cfg.RatePerSecond), r.cfg.RateBurst)
		r.limiters[host] = l
	}
	return l
}

func (r *Runner) breakerFor(host string) *gobreaker.CircuitBreaker {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.breakers[host]
	if !ok {
		b = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        host,
			MaxRequests: 1,
			Interval:    30 * time.Second,
			Timeout:     15 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.Requests >= 10 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
			},
		})
		r.breakers[host] = b
	}
	return b
}

// Do executes one request built from spec+params, then delegates body
// parsing to adapter.
func (r *Runner) Do(ctx context.Context, spec EndpointSpec, adapter ResponseAdapter, params Params) (any, error) {
	if err := r.limiterFor(r.baseURL).Wait(ctx); err != nil {
		return nil, err
	}

	breaker := r.breakerFor(r.baseURL)
	result, err := breaker.Execute(func() (any, error) {
		return r.doOnce(ctx, spec, params)
	})
	if err != nil {
		return nil, err
	}
	body := result.([]byte)
	parsed, err := adapter.Parse(body, params)
	if err != nil {
		return nil, &core.ProviderError{Message: fmt.Sprintf("adapter parse failed for %s: %v", spec.ID, err), Cause: err}
	}
	return parsed, nil
}

func (r *Runner) doOnce(ctx context.Context, spec EndpointSpec, params Params) ([]byte, error) {
	path, err := spec.BuildPath(params)
	if err != nil {
		return nil, &core.ProviderError{Message: fmt.Sprintf("build_path failed for %s: %v", spec.ID, err), Cause: err}
	}
	query, err := spec.BuildQuery(params)
	if err != nil {
		return nil, &core.ProviderError{Message: fmt.Sprintf("build_query failed for %s: %v", spec.ID, err), Cause: err}
	}

	u := r.baseURL + path
	if len(query) > 0 {
		q := make([]byte, 0, 64)
		first := true
		for k, v := range query {
			if first {
				q = append(q, '?')
				first = false
			} else {
				q = append(q, '&')
			}
			q = append(q, []byte(k+"="+v)...)
		}
		u += string(q)
	}

	method := spec.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &core.ProviderError{Message: fmt.Sprintf("request to %s failed: %v", spec.ID, err), Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &core.ProviderError{Message: "reading response body failed", Cause: err}
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := 60
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if n, err := strconv.Atoi(ra); err == nil {
				retryAfter = n
			}
		}
		return nil, core.NewRateLimitError(fmt.Sprintf("rate limited by %s", spec.ID), retryAfter)
	}
	if resp.StatusCode >= 400 {
		return nil, &core.ProviderError{
			Message:    fmt.Sprintf("%s returned HTTP %d: %s", spec.ID, resp.StatusCode, truncate(body, 256)),
			StatusCode: resp.StatusCode,
		}
	}
	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// DecodeJSON is a small convenience wrapper so adapters use the same fast
// JSON decoder the runner imports, rather than reaching for encoding/json.
func DecodeJSON(body []byte, v any) error {
	return json.Unmarshal(body, v)
}
