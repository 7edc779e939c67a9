package top_traders

// Page stabilization: get the top traders panel on screen for a given time
// period and make sure the rendered rows really belong to that period.
// The "active" class on a period button can flip before the client-side
// refetch lands, so a switch is confirmed against a fingerprint of the rows.

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"top-traders/internal/clients_api/dexscreener"
	"top-traders/internal/infra/log"

	"go.uber.org/zap"
)

// Timings are the independent budgets of every wait in a scrape.
type Timings struct {
	ElementTimeout     time.Duration
	ElementInterval    time.Duration
	PanelSettle        time.Duration
	ActivationInterval time.Duration
	ActivationTimeout  time.Duration
	ClickAttempts      int
	ClickRetryDelay    time.Duration
	ChangeInterval     time.Duration
	ChangeTimeout      time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		ElementTimeout:     10 * time.Second,
		ElementInterval:    500 * time.Millisecond,
		PanelSettle:        3 * time.Second,
		ActivationInterval: 500 * time.Millisecond,
		ActivationTimeout:  15 * time.Second,
		ClickAttempts:      3,
		ClickRetryDelay:    2 * time.Second,
		ChangeInterval:     time.Second,
		ChangeTimeout:      30 * time.Second,
	}
}

type Controller struct {
	extractor     *Extractor
	sel           Selectors
	timings       Timings
	defaultPeriod string
}

func NewController(extractor *Extractor, sel Selectors, timings Timings, defaultPeriod string) *Controller {
	if defaultPeriod == "" {
		defaultPeriod = DefaultTimePeriod
	}
	if timings.ClickAttempts < 1 {
		timings.ClickAttempts = 1
	}
	return &Controller{
		extractor:     extractor,
		sel:           sel,
		timings:       timings,
		defaultPeriod: defaultPeriod,
	}
}

func (c *Controller) DefaultPeriod() string { return c.defaultPeriod }

func (c *Controller) IsDefaultPeriod(period string) bool {
	return strings.EqualFold(period, c.defaultPeriod)
}

// OpenTopTradersPanel clicks the top traders tab and lets the panel settle.
func (c *Controller) OpenTopTradersPanel(ctx context.Context, page dexscreener.Page) error {
	err := page.WaitUntil(ctx, c.present(page, c.sel.TopTradersButton), c.timings.ElementInterval, c.timings.ElementTimeout)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: top traders button: %v", ErrElementNotFound, err)
	}

	if err := page.Click(ctx, c.sel.TopTradersButton); err != nil {
		return fmt.Errorf("failed to click top traders button: %w", err)
	}

	return dexscreener.Sleep(ctx, c.timings.PanelSettle)
}

// SelectTimePeriod switches the panel to period. nil means the panel now shows
// period; ErrElementNotFound or ErrSelectionTimeout mean the scrape must be
// abandoned. A data refresh that never shows up within the budget is not an
// error (the rows probably matched already).
func (c *Controller) SelectTimePeriod(ctx context.Context, page dexscreener.Page, period string) error {
	if c.IsDefaultPeriod(period) {
		return nil
	}

	before, err := c.snapshot(ctx, page)
	if err != nil {
		return fmt.Errorf("failed to capture wallet list before switching: %w", err)
	}

	locator := c.sel.TimePeriodLocator(period)
	controls, err := page.FindAll(ctx, locator)
	if err != nil {
		return fmt.Errorf("%w: time period %q: %v", ErrElementNotFound, period, err)
	}
	if len(controls) == 0 {
		return fmt.Errorf("%w: time period %q", ErrElementNotFound, period)
	}

	activated := false
	for attempt := 0; attempt < c.timings.ClickAttempts; attempt++ {
		if err := page.Click(ctx, locator); err != nil {
			log.LogWarn("Time period click failed", zap.String("period", period), zap.Int("attempt", attempt+1), zap.Error(err))
		} else if err := c.waitActive(ctx, page, locator); err == nil {
			activated = true
			break
		} else {
			log.LogDebug("Time period control not active yet", zap.String("period", period), zap.Int("attempt", attempt+1), zap.Error(err))
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt < c.timings.ClickAttempts-1 {
			if err := dexscreener.Sleep(ctx, c.timings.ClickRetryDelay); err != nil {
				return err
			}
		}
	}

	if activated {
		startTime := time.Now()
		err := page.WaitUntil(ctx, c.changedFrom(page, before), c.timings.ChangeInterval, c.timings.ChangeTimeout)
		switch {
		case err == nil:
			log.LogDebug("Wallet list refreshed", zap.String("period", period), zap.Int64("duration_ms", time.Since(startTime).Milliseconds()))
		case errors.Is(err, dexscreener.ErrWaitTimeout):
			log.LogWarn("No wallet list change observed, assuming it already matched", zap.String("period", period))
		default:
			return err
		}
	}

	if err := c.waitActive(ctx, page, locator); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %q: %v", ErrSelectionTimeout, period, err)
	}
	return nil
}

// Fingerprint captures the wallet rows currently rendered on page.
func (c *Controller) Fingerprint(ctx context.Context, page dexscreener.Page) (Fingerprint, error) {
	return c.snapshot(ctx, page)
}

func (c *Controller) snapshot(ctx context.Context, page dexscreener.Page) (Fingerprint, error) {
	html, err := page.Content(ctx)
	if err != nil {
		return 0, err
	}
	records, err := c.extractor.extract(html, "", false)
	if err != nil {
		return 0, err
	}
	return FingerprintRecords(records), nil
}

func (c *Controller) waitActive(ctx context.Context, page dexscreener.Page, locator string) error {
	return page.WaitUntil(ctx, c.active(page, locator), c.timings.ActivationInterval, c.timings.ActivationTimeout)
}

func (c *Controller) active(page dexscreener.Page, locator string) dexscreener.Condition {
	return func(ctx context.Context) (bool, error) {
		controls, err := page.FindAll(ctx, locator)
		if err != nil {
			return false, err
		}
		for _, control := range controls {
			class, err := control.Attribute(ctx, "class")
			if err != nil {
				continue
			}
			if c.sel.hasActiveClass(class) {
				return true, nil
			}
		}
		return false, nil
	}
}

func (c *Controller) present(page dexscreener.Page, locator string) dexscreener.Condition {
	return func(ctx context.Context) (bool, error) {
		found, err := page.FindAll(ctx, locator)
		if err != nil {
			return false, err
		}
		return len(found) > 0, nil
	}
}

func (c *Controller) changedFrom(page dexscreener.Page, before Fingerprint) dexscreener.Condition {
	return func(ctx context.Context) (bool, error) {
		current, err := c.snapshot(ctx, page)
		if err != nil {
			return false, err
		}
		return current != before, nil
	}
}
