package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Fetcher loads a URL and returns the parsed HTML document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// Options configures a Client.
type Options struct {
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	Delay      time.Duration
	// HTTPClient overrides the default client. Its Timeout is replaced by Timeout when set.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client is the Fetcher used against the live sites. All requests go through
// one lock and one rate limiter, so at most one request is in flight at a time
// and consecutive requests are at least Delay apart.
type Client struct {
	http       *http.Client
	limiter    *RateLimiter
	userAgent  string
	maxRetries int
	logger     *slog.Logger

	mu       sync.Mutex
	requests int
}

// NewClient creates a Client from opts.
func NewClient(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	if opts.Timeout > 0 {
		c := *hc
		c.Timeout = opts.Timeout
		hc = &c
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		http:       hc,
		limiter:    NewRateLimiter(opts.Delay),
		userAgent:  opts.UserAgent,
		maxRetries: max(opts.MaxRetries, 0),
		logger:     logger,
	}
}

// Requests returns the number of HTTP requests issued so far, failed ones included.
func (c *Client) Requests() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requests
}

// Fetch GETs url, retrying transient failures up to MaxRetries times.
func (c *Client) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		doc, err := c.get(ctx, url, attempt)
		if err == nil {
			return doc, nil
		}

		var te *TransientError
		if !errors.As(err, &te) || ctx.Err() != nil {
			return nil, err
		}
		lastErr = err
		c.logger.Warn("request failed", "url", url, "attempt", attempt+1, "err", err)
	}
	return nil, fmt.Errorf("giving up after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *Client) get(ctx context.Context, url string, attempt int) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.requests++
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransientError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("GET", "url", url, "status", resp.StatusCode, "attempt", attempt+1)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransientError{URL: url, StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &TransientError{URL: url, Err: fmt.Errorf("reading body: %w", err)}
	}
	return doc, nil
}
