package top_traders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController() *Controller {
	sel := DefaultSelectors()
	return NewController(NewExtractor(sel, true), sel, testTimings(), DefaultTimePeriod)
}

func TestController_OpenTopTradersPanel(t *testing.T) {
	c := newTestController()
	sel := DefaultSelectors()

	t.Run("clicks the tab", func(t *testing.T) {
		page, _ := panelPage(fixture(fullRow), "7d")
		require.NoError(t, c.OpenTopTradersPanel(context.Background(), page))
		assert.Equal(t, 1, page.clicks[sel.TopTradersButton])
	})

	t.Run("missing tab is ElementNotFound", func(t *testing.T) {
		page := newFakePage(fixture(fullRow))
		err := c.OpenTopTradersPanel(context.Background(), page)
		assert.ErrorIs(t, err, ErrElementNotFound)
	})
}

func TestController_SelectTimePeriod(t *testing.T) {
	sel := DefaultSelectors()
	before := fixture(dashRow, noSoldRow, fullRow)
	after := fixture(fullRow, dashRow)

	t.Run("default period is a no-op", func(t *testing.T) {
		c := newTestController()
		page, _ := panelPage(before, "30d")
		require.NoError(t, c.SelectTimePeriod(context.Background(), page, "30D"))
		assert.Empty(t, page.clicks)
	})

	t.Run("switches and waits for the rows to change", func(t *testing.T) {
		c := newTestController()
		page, control := panelPage(before, "7d")
		locator := sel.TimePeriodLocator("7d")
		page.onClick[locator] = func(int) {
			activate(control)
			page.html = after
		}

		require.NoError(t, c.SelectTimePeriod(context.Background(), page, "7d"))
		assert.Equal(t, 1, page.clicks[locator])
	})

	t.Run("retries the click until the control activates", func(t *testing.T) {
		c := newTestController()
		page, control := panelPage(before, "7d")
		locator := sel.TimePeriodLocator("7d")
		page.onClick[locator] = func(clicks int) {
			if clicks == 3 {
				activate(control)
				page.html = after
			}
		}

		require.NoError(t, c.SelectTimePeriod(context.Background(), page, "7d"))
		assert.Equal(t, 3, page.clicks[locator])
	})

	t.Run("unchanged rows after activation still succeed", func(t *testing.T) {
		c := newTestController()
		page, control := panelPage(before, "7d")
		page.onClick[sel.TimePeriodLocator("7d")] = func(int) { activate(control) }

		assert.NoError(t, c.SelectTimePeriod(context.Background(), page, "7d"))
	})

	t.Run("control that never activates is a SelectionTimeout", func(t *testing.T) {
		c := newTestController()
		page, _ := panelPage(before, "7d")

		err := c.SelectTimePeriod(context.Background(), page, "7d")
		assert.ErrorIs(t, err, ErrSelectionTimeout)
		assert.Equal(t, 3, page.clicks[sel.TimePeriodLocator("7d")], "no more than three click attempts")
	})

	t.Run("unknown period is ElementNotFound", func(t *testing.T) {
		c := newTestController()
		page, _ := panelPage(before, "7d")

		err := c.SelectTimePeriod(context.Background(), page, "1h")
		assert.ErrorIs(t, err, ErrElementNotFound)
		assert.Empty(t, page.clicks)
	})
}

func TestController_Fingerprint(t *testing.T) {
	c := newTestController()
	page := newFakePage(fixture(dashRow, fullRow))

	first, err := c.Fingerprint(context.Background(), page)
	require.NoError(t, err)

	page.html = fixture(fullRow, dashRow)
	second, err := c.Fingerprint(context.Background(), page)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestSelectors_TimePeriodLocator(t *testing.T) {
	loc := DefaultSelectors().TimePeriodLocator("7D")
	assert.Contains(t, loc, "='7d']")
	assert.Contains(t, loc, "xpath=//button[contains(@class, 'chakra-button')]")
}

func TestValidTimePeriod(t *testing.T) {
	assert.True(t, ValidTimePeriod("30d"))
	assert.True(t, ValidTimePeriod("24h"))
	assert.False(t, ValidTimePeriod(""))
	assert.False(t, ValidTimePeriod("7d']"))
}
