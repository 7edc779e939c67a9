package dexscreener

// Navigation client: turns a pair id into an interactive page.
// Acts as transport layer - it knows nothing about traders, only how to reach
// a page that survived the anti-bot interstitial.

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"top-traders/internal/infra/log"
	"top-traders/internal/infra/retry"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL - public DexScreener web UI
	DefaultBaseURL = "https://dexscreener.com"
	DefaultChain   = "solana"
)

// NavigationError means the page never became interactive.
type NavigationError struct {
	URL     string
	Attempt int
	Err     error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation to %s failed (attempt %d): %v", e.URL, e.Attempt+1, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// Temporary lets the retry layer reconnect unless the caller gave up.
func (e *NavigationError) Temporary() bool {
	return !errors.Is(e.Err, context.Canceled) && !errors.Is(e.Err, context.DeadlineExceeded)
}

type ClientOptions struct {
	BaseURL string
	Chain   string

	// ReadyLocator must match once the app shell has rendered past any
	// interstitial.
	ReadyLocator  string
	ReadyTimeout  time.Duration
	ReadyInterval time.Duration

	MaxReconnects  int
	ReconnectDelay time.Duration

	// NavigationInterval paces consecutive sessions; zero disables pacing.
	NavigationInterval time.Duration
	// FailureThreshold consecutive failed sessions open the circuit breaker.
	FailureThreshold uint32
}

// Client opens pair pages. One Client may open many sessions in sequence
// (a multi-pair scan) but every session is a separate Page.
type Client struct {
	launcher       Launcher
	opts           ClientOptions
	rateLimiter    *rate.Limiter
	circuitBreaker *gobreaker.CircuitBreaker
}

func NewClient(launcher Launcher, opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Chain == "" {
		opts.Chain = DefaultChain
	}
	if opts.ReadyInterval <= 0 {
		opts.ReadyInterval = 500 * time.Millisecond
	}
	if opts.ReadyTimeout <= 0 {
		opts.ReadyTimeout = 15 * time.Second
	}

	var limiter *rate.Limiter
	if opts.NavigationInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.NavigationInterval), 1)
	}

	threshold := opts.FailureThreshold
	if threshold == 0 {
		threshold = 3
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "DexScreenerNavigation",
		MaxRequests: 1,
		Interval:    0,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			// a cancelled run says nothing about the site
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &Client{
		launcher:       launcher,
		opts:           opts,
		rateLimiter:    limiter,
		circuitBreaker: breaker,
	}
}

// PairURL builds https://<site>/<chain>/<pair>.
func PairURL(baseURL, chain, pair string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(baseURL, "/"), chain, pair)
}

func (c *Client) PairURL(pair string) string {
	return PairURL(c.opts.BaseURL, c.opts.Chain, pair)
}

// OpenPair launches a session and navigates it to the pair page. On success
// the caller owns the returned Page and must Close it.
func (c *Client) OpenPair(ctx context.Context, pair string) (Page, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("navigation pacing wait failed: %w", err)
		}
	}

	result, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		return c.open(ctx, pair)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			log.LogError("Circuit breaker rejected navigation", zap.String("pair", pair), zap.Error(err))
		}
		return nil, err
	}
	return result.(Page), nil
}

func (c *Client) open(ctx context.Context, pair string) (Page, error) {
	sessionID := log.GenerateRequestID()
	url := c.PairURL(pair)
	startTime := time.Now()

	page, err := c.launcher.Launch(ctx)
	if err != nil {
		log.LogNavigationResult(sessionID, url, err, time.Since(startTime).Milliseconds())
		return nil, &NavigationError{URL: url, Err: err}
	}

	retryOpts := retry.Options{
		MaxRetries: c.opts.MaxReconnects,
		BaseDelay:  c.opts.ReconnectDelay,
		MaxDelay:   4 * c.opts.ReconnectDelay,
	}
	err = retry.Do(ctx, retryOpts, func(attempt int) error {
		log.LogNavigation(sessionID, url, attempt)
		if err := page.Navigate(ctx, url); err != nil {
			return &NavigationError{URL: url, Attempt: attempt, Err: err}
		}
		if err := page.WaitUntil(ctx, c.ready(page), c.opts.ReadyInterval, c.opts.ReadyTimeout); err != nil {
			return &NavigationError{URL: url, Attempt: attempt, Err: fmt.Errorf("page not interactive: %w", err)}
		}
		return nil
	})

	duration := time.Since(startTime).Milliseconds()
	log.LogNavigationResult(sessionID, url, err, duration)
	if err != nil {
		if closeErr := page.Close(); closeErr != nil {
			log.LogWarn("Failed to close browser session", zap.String("session_id", sessionID), zap.Error(closeErr))
		}
		return nil, err
	}

	log.LogDebug("Pair page ready", zap.String("pair", pair), zap.String("session_id", sessionID), zap.Int64("duration_ms", duration))
	return page, nil
}

func (c *Client) ready(page Page) Condition {
	return func(ctx context.Context) (bool, error) {
		if c.opts.ReadyLocator == "" {
			return true, nil
		}
		found, err := page.FindAll(ctx, c.opts.ReadyLocator)
		if err != nil {
			return false, err
		}
		return len(found) > 0, nil
	}
}
