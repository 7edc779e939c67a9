package top_traders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"top-traders/internal/clients_api/dexscreener"
	"top-traders/internal/infra/log"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// PairOpener hands out a ready page for a pair; the caller owns and closes it.
type PairOpener interface {
	OpenPair(ctx context.Context, pair string) (dexscreener.Page, error)
}

// SnapshotSink stores the page markup of a scrape that came back empty.
type SnapshotSink interface {
	SaveSnapshot(pair, period, html string) (string, error)
}

// Scraper runs the whole pipeline for one pair: open, stabilize, extract.
type Scraper struct {
	opener     PairOpener
	controller *Controller
	extractor  *Extractor
	snapshots  SnapshotSink
}

type Option func(*Scraper)

// WithSnapshots keeps the markup of failed or empty scrapes for debugging.
func WithSnapshots(sink SnapshotSink) Option {
	return func(s *Scraper) {
		s.snapshots = sink
	}
}

func NewScraper(opener PairOpener, controller *Controller, extractor *Extractor, opts ...Option) *Scraper {
	s := &Scraper{
		opener:     opener,
		controller: controller,
		extractor:  extractor,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scrape never fails: any whole-scrape failure is logged and yields an empty,
// non-nil slice. An empty period means the panel default.
func (s *Scraper) Scrape(ctx context.Context, pair, period string) (records []WalletRecord) {
	if period == "" {
		period = s.controller.DefaultPeriod()
	}

	defer func() {
		if r := recover(); r != nil {
			log.LogError("Scrape panicked", zap.String("pair", pair), zap.String("period", period), zap.Any("panic", r))
			records = []WalletRecord{}
		}
	}()

	records, err := s.scrape(ctx, pair, period)
	if err != nil {
		log.LogError(fmt.Sprintf("Error scraping %s: %v", pair, err), zap.String("pair", pair), zap.String("period", period))
		return []WalletRecord{}
	}
	return records
}

func (s *Scraper) scrape(ctx context.Context, pair, period string) ([]WalletRecord, error) {
	startTime := time.Now()
	log.LogInfo("Scraping top traders", zap.String("pair", pair), zap.String("period", period))

	page, err := s.opener.OpenPair(ctx, pair)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := page.Close(); err != nil {
			log.LogWarn("Failed to close browser session", zap.String("pair", pair), zap.Error(err))
		}
	}()

	if err := s.controller.OpenTopTradersPanel(ctx, page); err != nil {
		s.keepSnapshot(ctx, page, pair, period)
		return nil, err
	}

	if err := s.controller.SelectTimePeriod(ctx, page, period); err != nil {
		s.keepSnapshot(ctx, page, pair, period)
		return nil, fmt.Errorf("failed to switch to %s: %w", period, err)
	}

	html, err := page.Content(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read page markup: %w", err)
	}

	records, err := s.extractor.Extract(html, period)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		log.LogWarn("No wallets found on page", zap.String("pair", pair), zap.String("period", period))
		s.logDebugInfo(ctx, page, html)
		s.saveSnapshot(pair, period, html)
	}

	log.LogSuccess(fmt.Sprintf("Scraped %d wallets for %s (%s)", len(records), pair, period),
		zap.Int64("duration_ms", time.Since(startTime).Milliseconds()))
	return records, nil
}

func (s *Scraper) keepSnapshot(ctx context.Context, page dexscreener.Page, pair, period string) {
	if s.snapshots == nil || ctx.Err() != nil {
		return
	}
	html, err := page.Content(ctx)
	if err != nil {
		log.LogDebug("Could not read markup for snapshot", zap.Error(err))
		return
	}
	s.logDebugInfo(ctx, page, html)
	s.saveSnapshot(pair, period, html)
}

func (s *Scraper) saveSnapshot(pair, period, html string) {
	if s.snapshots == nil {
		return
	}
	path, err := s.snapshots.SaveSnapshot(pair, period, html)
	if err != nil {
		log.LogWarn("Failed to save page snapshot", zap.String("pair", pair), zap.Error(err))
		return
	}
	log.LogInfo("Saved page snapshot", zap.String("file", path))
}

// logDebugInfo summarizes what the page showed: row count, a few addresses
// and pnl values, and which period control was active.
func (s *Scraper) logDebugInfo(ctx context.Context, page dexscreener.Page, html string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return
	}

	var addresses, pnls []string
	containers := doc.Find(s.extractor.sel.WalletContainer)
	containers.Find(s.extractor.sel.AccountLink).EachWithBreak(func(i int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		addr := href[strings.LastIndex(href, s.extractor.sel.AccountMarker)+len(s.extractor.sel.AccountMarker):]
		if len(addr) > 10 {
			addr = addr[:10] + "..."
		}
		addresses = append(addresses, addr)
		return len(addresses) < 5
	})
	doc.Find(s.extractor.sel.PnL).EachWithBreak(func(i int, el *goquery.Selection) bool {
		pnls = append(pnls, strings.TrimSpace(el.Text()))
		return len(pnls) < 5
	})

	activePeriod := ""
	if controls, err := page.FindAll(ctx, s.controller.sel.TimePeriodButtons); err == nil {
		for _, control := range controls {
			class, err := control.Attribute(ctx, "class")
			if err != nil || !s.controller.sel.hasActiveClass(class) {
				continue
			}
			activePeriod, _ = control.Text(ctx)
			activePeriod = strings.TrimSpace(activePeriod)
			break
		}
	}

	log.LogDebug("Page debug info",
		zap.Int("num_containers", containers.Length()),
		zap.Strings("wallet_previews", addresses),
		zap.String("active_period", activePeriod),
		zap.Strings("pnl_previews", pnls))
}
