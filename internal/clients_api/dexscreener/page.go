package dexscreener

// Package dexscreener drives a browser session against the DexScreener web UI.
// This file holds the narrow page capability the scraper depends on; the
// playwright-backed implementation lives in playwright.go.

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrWaitTimeout is returned by WaitUntil when the condition never held
// within the budget.
var ErrWaitTimeout = errors.New("wait timed out")

// Element is a node matched by Page.FindAll.
type Element interface {
	Text(ctx context.Context) (string, error)
	Attribute(ctx context.Context, name string) (string, error)
}

// Condition is polled by WaitUntil.
type Condition func(ctx context.Context) (bool, error)

// Page is one exclusively owned browser tab. Locators use playwright selector
// syntax ("xpath=..." or CSS).
type Page interface {
	Navigate(ctx context.Context, url string) error
	// Click dispatches a programmatic click on the first match of locator,
	// bypassing visibility and overlay checks.
	Click(ctx context.Context, locator string) error
	FindAll(ctx context.Context, locator string) ([]Element, error)
	WaitUntil(ctx context.Context, cond Condition, interval, timeout time.Duration) error
	// Content returns the current serialized DOM.
	Content(ctx context.Context) (string, error)
	// Close releases the tab and everything launched for it.
	Close() error
}

// WaitUntil polls cond every interval until it reports true or the deadline
// (now + timeout) would be passed by the next poll. Errors from cond count as
// "not yet"; the last one is attached to the timeout error.
func WaitUntil(ctx context.Context, cond Condition, interval, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	var lastErr error

	for {
		ok, err := cond(ctx)
		if err != nil {
			lastErr = err
		} else if ok {
			return nil
		}

		if time.Now().Add(interval).After(deadline) {
			if lastErr != nil {
				return fmt.Errorf("%w after %v: %v", ErrWaitTimeout, timeout, lastErr)
			}
			return fmt.Errorf("%w after %v", ErrWaitTimeout, timeout)
		}

		if err := Sleep(ctx, interval); err != nil {
			return err
		}
	}
}

// Sleep pauses for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
