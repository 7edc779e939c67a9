package top_traders

import (
	"context"
	"errors"
	"strings"
	"time"

	"top-traders/internal/clients_api/dexscreener"
)

const (
	walletSOL  = "So11111111111111111111111111111111111111112"
	walletTKN  = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	walletUSDC = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
)

const layoutWrapper = `<div class="custom-1nvxwu0"><span class="chakra-text custom-1u3k8gl">Maker</span></div>`

// placeholder bought (dash marker), sold and negative pnl without "$"
var dashRow = `<div class="custom-1nvxwu0">
  <a href="/solana/account/` + walletSOL + `?maker=1">So11...</a>
  <span class="chakra-text custom-6qd5i2">-</span>
  <span class="chakra-text custom-rcecxm">1.2K</span>
  <span class="chakra-text custom-dv3t8y">$800</span>
  <span class="custom-1e9y0rl">-430</span>
</div>`

// no sold element at all
var noSoldRow = `<div class="custom-1nvxwu0">
  <a href="https://dexscreener.com/solana/account/` + walletTKN + `">Tokenkeg...</a>
  <span class="chakra-text custom-rcecxm">$5.1K</span>
  <span class="custom-1e9y0rl">$2.3K</span>
</div>`

var fullRow = `<div class="custom-1nvxwu0">
  <a href="/solana/account/` + walletUSDC + `">EPjF...</a>
  <span class="chakra-text custom-rcecxm"> 12.5M </span>
  <span class="chakra-text custom-dv3t8y">9.1M</span>
  <span class="custom-1e9y0rl">1.2M</span>
</div>`

func fixture(rows ...string) string {
	return `<html><body><div id="root"><main>` + strings.Join(rows, "\n") + `</main></div></body></html>`
}

func testTimings() Timings {
	return Timings{
		ElementTimeout:     20 * time.Millisecond,
		ElementInterval:    time.Millisecond,
		PanelSettle:        0,
		ActivationInterval: time.Millisecond,
		ActivationTimeout:  10 * time.Millisecond,
		ClickAttempts:      3,
		ClickRetryDelay:    time.Millisecond,
		ChangeInterval:     time.Millisecond,
		ChangeTimeout:      10 * time.Millisecond,
	}
}

type fakeControl struct {
	label string
	class string
}

func (c *fakeControl) Text(context.Context) (string, error) { return c.label, nil }

func (c *fakeControl) Attribute(_ context.Context, name string) (string, error) {
	if name == "class" {
		return c.class, nil
	}
	return "", nil
}

// fakePage serves canned markup; clicks run the registered side effects.
type fakePage struct {
	html       string
	elements   map[string][]dexscreener.Element
	onClick    map[string]func(clicks int)
	clicks     map[string]int
	contentErr error
	closed     bool
}

func newFakePage(html string) *fakePage {
	return &fakePage{
		html:     html,
		elements: map[string][]dexscreener.Element{},
		onClick:  map[string]func(int){},
		clicks:   map[string]int{},
	}
}

func (p *fakePage) Navigate(context.Context, string) error { return nil }

func (p *fakePage) Click(_ context.Context, locator string) error {
	if len(p.elements[locator]) == 0 {
		return errors.New("no element for " + locator)
	}
	p.clicks[locator]++
	if fn := p.onClick[locator]; fn != nil {
		fn(p.clicks[locator])
	}
	return nil
}

func (p *fakePage) FindAll(_ context.Context, locator string) ([]dexscreener.Element, error) {
	return p.elements[locator], nil
}

func (p *fakePage) WaitUntil(ctx context.Context, cond dexscreener.Condition, interval, timeout time.Duration) error {
	return dexscreener.WaitUntil(ctx, cond, interval, timeout)
}

func (p *fakePage) Content(context.Context) (string, error) {
	if p.contentErr != nil {
		return "", p.contentErr
	}
	return p.html, nil
}

func (p *fakePage) Close() error {
	p.closed = true
	return nil
}

// panelPage has the top traders button and one control for period.
func panelPage(html, period string) (*fakePage, *fakeControl) {
	sel := DefaultSelectors()
	page := newFakePage(html)
	page.elements[sel.TopTradersButton] = []dexscreener.Element{&fakeControl{label: "Top Traders"}}

	control := &fakeControl{label: strings.ToUpper(period), class: "chakra-button custom-vcltov"}
	page.elements[sel.TimePeriodLocator(period)] = []dexscreener.Element{control}
	page.elements[sel.TimePeriodButtons] = []dexscreener.Element{control}
	return page, control
}

func activate(control *fakeControl) {
	control.class += " custom-ymz8t5"
}

type fakeOpener struct {
	page  *fakePage
	err   error
	pairs []string
}

func (o *fakeOpener) OpenPair(_ context.Context, pair string) (dexscreener.Page, error) {
	o.pairs = append(o.pairs, pair)
	if o.err != nil {
		return nil, o.err
	}
	return o.page, nil
}

type fakeSnapshots struct {
	saved []string
}

func (s *fakeSnapshots) SaveSnapshot(pair, period, html string) (string, error) {
	name := pair + "_" + period + ".html"
	s.saved = append(s.saved, name)
	return name, nil
}
