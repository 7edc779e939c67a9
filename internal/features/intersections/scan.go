package intersections

import (
	"context"
	"fmt"
	"strings"
	"time"

	"top-traders/internal/features/top_traders"
	"top-traders/internal/infra/log"

	"go.uber.org/zap"
)

type EventType string

const (
	PairComplete EventType = "pair_complete"
	PairError    EventType = "pair_error"
)

type ProgressEvent struct {
	Type        EventType
	Pair        string
	Completed   int
	Total       int
	WalletCount int
	Err         error
}

// PairScraper is satisfied by *top_traders.Scraper.
type PairScraper interface {
	Scrape(ctx context.Context, pair, period string) []top_traders.WalletRecord
}

// Scan scrapes pairs one after another, each within pairTimeout (zero means
// no per-pair limit). A pair that fails or times out contributes an empty
// wallet list; the scan only stops early when ctx is done. Duplicate pairs
// are scanned once.
func Scan(ctx context.Context, scraper PairScraper, pairs []string, period string, pairTimeout time.Duration, progress func(ProgressEvent)) []PairResult {
	pairs = uniquePairs(pairs)
	results := make([]PairResult, 0, len(pairs))

	for i, pair := range pairs {
		if ctx.Err() != nil {
			log.LogWarn("Scan interrupted", zap.Int("completed", i), zap.Int("total", len(pairs)))
			break
		}

		pairCtx, cancel := ctx, context.CancelFunc(func() {})
		if pairTimeout > 0 {
			pairCtx, cancel = context.WithTimeout(ctx, pairTimeout)
		}
		wallets := scraper.Scrape(pairCtx, pair, period)
		pairErr := pairCtx.Err()
		cancel()

		if wallets == nil {
			wallets = []top_traders.WalletRecord{}
		}
		results = append(results, PairResult{Pair: pair, Wallets: wallets})

		event := ProgressEvent{
			Type:        PairComplete,
			Pair:        pair,
			Completed:   i + 1,
			Total:       len(pairs),
			WalletCount: len(wallets),
		}
		if pairErr != nil {
			event.Type = PairError
			event.Err = fmt.Errorf("pair %s scan stopped: %w", pair, pairErr)
		}
		if progress != nil {
			progress(event)
		}
	}

	return results
}

func uniquePairs(pairs []string) []string {
	seen := make(map[string]bool, len(pairs))
	unique := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		pair = strings.TrimSpace(pair)
		if pair == "" || seen[pair] {
			continue
		}
		seen[pair] = true
		unique = append(unique, pair)
	}
	return unique
}

// LogProgress is the default progress callback.
func LogProgress(event ProgressEvent) {
	fields := []zap.Field{
		zap.String("pair", event.Pair),
		zap.Int("completed", event.Completed),
		zap.Int("total", event.Total),
	}
	if event.Type == PairError {
		log.LogError(fmt.Sprintf("Failed to scan %s", event.Pair), append(fields, zap.Error(event.Err))...)
		return
	}
	log.LogInfo(fmt.Sprintf("Scanned %s (%d/%d)", event.Pair, event.Completed, event.Total),
		append(fields, zap.Int("wallet_count", event.WalletCount))...)
}
