package dexscreener

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeElement struct{}

func (fakeElement) Text(context.Context) (string, error)              { return "", nil }
func (fakeElement) Attribute(context.Context, string) (string, error) { return "", nil }

// fakePage becomes ready once readyAfter navigations have happened.
type fakePage struct {
	readyAfter  int
	navigations int
	navigateErr error
	closed      bool
}

func (p *fakePage) Navigate(ctx context.Context, url string) error {
	p.navigations++
	return p.navigateErr
}

func (p *fakePage) Click(context.Context, string) error { return nil }

func (p *fakePage) FindAll(ctx context.Context, locator string) ([]Element, error) {
	if p.navigations >= p.readyAfter {
		return []Element{fakeElement{}}, nil
	}
	return nil, nil
}

func (p *fakePage) WaitUntil(ctx context.Context, cond Condition, interval, timeout time.Duration) error {
	return WaitUntil(ctx, cond, interval, timeout)
}

func (p *fakePage) Content(context.Context) (string, error) { return "", nil }

func (p *fakePage) Close() error {
	p.closed = true
	return nil
}

type fakeLauncher struct {
	page     *fakePage
	err      error
	launches int
}

func (l *fakeLauncher) Launch(context.Context) (Page, error) {
	l.launches++
	if l.err != nil {
		return nil, l.err
	}
	return l.page, nil
}

func testOptions() ClientOptions {
	return ClientOptions{
		ReadyLocator:     "#root",
		ReadyTimeout:     5 * time.Millisecond,
		ReadyInterval:    time.Millisecond,
		MaxReconnects:    2,
		ReconnectDelay:   time.Millisecond,
		FailureThreshold: 2,
	}
}

func TestClient_PairURL(t *testing.T) {
	c := NewClient(&fakeLauncher{}, ClientOptions{BaseURL: "https://dexscreener.com/"})
	assert.Equal(t, "https://dexscreener.com/solana/abc", c.PairURL("abc"))
}

func TestClient_OpenPair_ReconnectsUntilReady(t *testing.T) {
	page := &fakePage{readyAfter: 2}
	c := NewClient(&fakeLauncher{page: page}, testOptions())

	got, err := c.OpenPair(context.Background(), "pair")
	require.NoError(t, err)
	assert.Same(t, page, got)
	assert.Equal(t, 2, page.navigations)
	assert.False(t, page.closed)
}

func TestClient_OpenPair_NavigationError(t *testing.T) {
	page := &fakePage{readyAfter: 100}
	c := NewClient(&fakeLauncher{page: page}, testOptions())

	_, err := c.OpenPair(context.Background(), "pair")
	require.Error(t, err)

	var navErr *NavigationError
	require.True(t, errors.As(err, &navErr))
	assert.Equal(t, "https://dexscreener.com/solana/pair", navErr.URL)
	assert.ErrorIs(t, err, ErrWaitTimeout)
	assert.Equal(t, 3, page.navigations)
	assert.True(t, page.closed, "session must be released on failure")
}

func TestClient_OpenPair_CircuitBreakerOpens(t *testing.T) {
	launcher := &fakeLauncher{err: errors.New("chromium crashed")}
	c := NewClient(launcher, testOptions())

	for i := 0; i < 2; i++ {
		_, err := c.OpenPair(context.Background(), "pair")
		require.Error(t, err)
	}

	_, err := c.OpenPair(context.Background(), "pair")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, launcher.launches)
}

func TestWaitUntil(t *testing.T) {
	t.Run("returns as soon as the condition holds", func(t *testing.T) {
		calls := 0
		err := WaitUntil(context.Background(), func(context.Context) (bool, error) {
			calls++
			return calls == 3, nil
		}, time.Millisecond, time.Second)
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("times out with the last condition error", func(t *testing.T) {
		err := WaitUntil(context.Background(), func(context.Context) (bool, error) {
			return false, errors.New("detached")
		}, time.Millisecond, 5*time.Millisecond)
		assert.ErrorIs(t, err, ErrWaitTimeout)
		assert.Contains(t, err.Error(), "detached")
	})

	t.Run("honours cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := WaitUntil(ctx, func(context.Context) (bool, error) { return false, nil }, time.Second, time.Minute)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
