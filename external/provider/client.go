package provider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/riskibarqy/court-spotter/internal/platform/logging"
	"github.com/riskibarqy/court-spotter/internal/platform/resilience"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultTimeout    = 30 * time.Second
	defaultUserAgent  = "court-spotter/1.0"
	maxResponseBytes  = 8 << 20
	maxLoggedBodySize = 256
)

type ClientConfig struct {
	// Name labels logs, spans and failure messages, e.g. "KlubyOrg".
	Name           string
	BaseURL        string
	HTTPClient     *http.Client
	Timeout        time.Duration
	MaxRetries     int
	UserAgent      string
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client is the HTTP transport shared by booking-site adapters.
type Client struct {
	name           string
	baseURL        string
	userAgent      string
	httpClient     *http.Client
	maxRetries     int
	initialBackoff time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = DefaultTimeout
	}
	if _, traced := httpClient.Transport.(*otelhttp.Transport); !traced {
		base := httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		httpClient.Transport = otelhttp.NewTransport(base,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return cfg.Name + " " + r.Method + " " + r.URL.Path
			}),
		)
	}

	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		name:           cfg.Name,
		baseURL:        strings.TrimSpace(cfg.BaseURL),
		userAgent:      userAgent,
		httpClient:     httpClient,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		initialBackoff: 500 * time.Millisecond,
		logger:         logger.Named(strings.ToLower(cfg.Name)),
		breaker:        resilience.NewCircuitBreaker(cfg.CircuitBreaker),
	}
}

func (c *Client) Name() string {
	return c.name
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// Get fetches target (absolute, or relative to BaseURL) and returns the body.
// Transient statuses and transport errors are retried with exponential backoff.
func (c *Client) Get(ctx context.Context, target string, accept string) ([]byte, error) {
	fullURL, err := c.resolve(target)
	if err != nil {
		return nil, err
	}

	var raw []byte
	err = c.breaker.Execute(ctx, func(ctx context.Context) error {
		var reqErr error
		raw, reqErr = backoff.Retry(ctx, func() ([]byte, error) {
			return c.executeGet(ctx, fullURL, accept)
		},
			backoff.WithBackOff(c.newBackOff()),
			backoff.WithMaxTries(uint(c.maxRetries+1)),
			backoff.WithNotify(func(err error, next time.Duration) {
				c.logger.DebugContext(ctx, "retrying provider request", "url", fullURL, "next_in", next, "error", err)
			}),
		)
		return reqErr
	}, IsTransportFailure)
	if err != nil {
		c.logger.WarnContext(ctx, "provider request failed", "url", fullURL, "error", err)
		return nil, err
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: GET %s", ErrEmptyResponse, fullURL)
	}
	return raw, nil
}

// PostForm submits an urlencoded form once; the response body is discarded.
func (c *Client) PostForm(ctx context.Context, target string, form url.Values) error {
	fullURL, err := c.resolve(target)
	if err != nil {
		return err
	}

	return c.breaker.Execute(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, strings.NewReader(form.Encode()))
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%w: send request: %w", ErrTransient, err)
		}
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		_ = resp.Body.Close()

		if resp.StatusCode >= http.StatusBadRequest {
			return statusError(resp.StatusCode, nil)
		}
		return nil
	}, IsTransportFailure)
}

func (c *Client) executeGet(ctx context.Context, fullURL string, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("build request: %w", err))
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(fmt.Errorf("%w: send request: %w", ErrTransient, err))
		}
		return nil, fmt.Errorf("%w: send request: %w", ErrTransient, err)
	}
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, fmt.Errorf("%w: read response body: %w", ErrTransient, readErr)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}
	if isRetryableStatus(resp.StatusCode) {
		return nil, statusError(resp.StatusCode, raw)
	}
	return nil, backoff.Permanent(statusError(resp.StatusCode, raw))
}

func (c *Client) resolve(target string) (string, error) {
	target = strings.TrimSpace(target)
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return target, nil
	}
	if c.baseURL == "" {
		return "", fmt.Errorf("relative url %q without base url", target)
	}
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	ref, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", target, err)
	}
	return base.ResolveReference(ref).String(), nil
}

func (c *Client) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialBackoff
	b.MaxInterval = 5 * time.Second
	return b
}

func statusError(code int, body []byte) error {
	if isRetryableStatus(code) {
		return fmt.Errorf("%w: provider status=%d body=%s", ErrTransient, code, abbreviateBody(body))
	}
	return fmt.Errorf("%w: provider status=%d body=%s", ErrUnexpectedStatus, code, abbreviateBody(body))
}

func isRetryableStatus(code int) bool {
	return code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) <= maxLoggedBodySize {
		return body
	}
	return body[:maxLoggedBodySize] + "..."
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
