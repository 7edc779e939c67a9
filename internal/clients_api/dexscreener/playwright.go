package dexscreener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Launcher opens a fresh, exclusively owned browser session.
type Launcher interface {
	Launch(ctx context.Context) (Page, error)
}

// PlaywrightLauncher starts a dedicated playwright driver and Chromium
// instance per session, so nothing is shared between scrapes.
type PlaywrightLauncher struct {
	Headless          bool
	UserAgent         string
	NavigationTimeout time.Duration
}

// DefaultUserAgent is a stock desktop Chrome; the headless default is
// rejected by the site's bot check.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

var launchArgs = []string{
	"--disable-blink-features=AutomationControlled",
	"--no-sandbox",
}

// Install downloads the playwright driver and Chromium.
func Install() error {
	return playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}})
}

func (l *PlaywrightLauncher) Launch(ctx context.Context) (Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(l.Headless),
		Args:     launchArgs,
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch chromium: %w", err)
	}

	pageOpts := playwright.BrowserNewPageOptions{}
	if l.UserAgent != "" {
		pageOpts.UserAgent = playwright.String(l.UserAgent)
	}
	page, err := browser.NewPage(pageOpts)
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &playwrightPage{
		pw:                pw,
		browser:           browser,
		page:              page,
		navigationTimeout: l.NavigationTimeout,
	}, nil
}

type playwrightPage struct {
	pw                *playwright.Playwright
	browser           playwright.Browser
	page              playwright.Page
	navigationTimeout time.Duration
}

func (p *playwrightPage) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opts := playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}
	if p.navigationTimeout > 0 {
		opts.Timeout = playwright.Float(float64(p.navigationTimeout.Milliseconds()))
	}
	if _, err := p.page.Goto(url, opts); err != nil {
		return fmt.Errorf("goto %s: %w", url, err)
	}
	return nil
}

func (p *playwrightPage) Click(ctx context.Context, locator string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := p.page.Locator(locator).First().Evaluate("el => el.click()", nil); err != nil {
		return fmt.Errorf("click %s: %w", locator, err)
	}
	return nil
}

func (p *playwrightPage) FindAll(ctx context.Context, locator string) ([]Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matches, err := p.page.Locator(locator).All()
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", locator, err)
	}
	elements := make([]Element, 0, len(matches))
	for _, m := range matches {
		elements = append(elements, locatorElement{m})
	}
	return elements, nil
}

func (p *playwrightPage) WaitUntil(ctx context.Context, cond Condition, interval, timeout time.Duration) error {
	return WaitUntil(ctx, cond, interval, timeout)
}

func (p *playwrightPage) Content(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.page.Content()
}

func (p *playwrightPage) Close() error {
	return errors.Join(p.page.Close(), p.browser.Close(), p.pw.Stop())
}

type locatorElement struct {
	loc playwright.Locator
}

func (e locatorElement) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.loc.InnerText()
}

func (e locatorElement) Attribute(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.loc.GetAttribute(name)
}
