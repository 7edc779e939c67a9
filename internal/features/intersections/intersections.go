package intersections

import (
	"sort"
	"strings"

	"top-traders/internal/features/top_traders"
	"top-traders/internal/infra/fs"
	"top-traders/internal/infra/log"
	"top-traders/internal/money"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MaxIntersections caps the report.
const MaxIntersections = 100

const missingValue = "$0"

// PairResult is the outcome of scraping one pair; Wallets is empty when the
// scrape failed.
type PairResult struct {
	Pair    string                     `json:"pair"`
	Wallets []top_traders.WalletRecord `json:"wallets"`
}

type PairData struct {
	Bought string `json:"bought"`
	Sold   string `json:"sold"`
	PnL    string `json:"pnl"`
}

// WalletIntersection - a wallet seen among the top traders of several pairs.
type WalletIntersection struct {
	Address  string              `json:"address"`
	Count    int                 `json:"count"`
	Pairs    []string            `json:"pairs"`
	PairData map[string]PairData `json:"pair_data"`
	TotalPnL string              `json:"total_pnl"`

	totalPnL decimal.Decimal
}

// TotalPnLValue is the sum of the parseable pnl values across Pairs.
func (w WalletIntersection) TotalPnLValue() decimal.Decimal { return w.totalPnL }

// FindIntersections groups wallets by address across results. With more than
// one pair only wallets present in at least two of them are reported; with a
// single pair every wallet is. Entries are ordered by count, most shared
// first, ties keeping first-appearance order.
func FindIntersections(results []PairResult, ignored []string) []WalletIntersection {
	minCount := 1
	if len(results) > 1 {
		minCount = 2
	}

	byAddress := map[string]*WalletIntersection{}
	order := []string{}

	for _, result := range results {
		for _, wallet := range result.Wallets {
			address := strings.TrimSpace(wallet.Address)
			if address == "" {
				log.LogWarn("Wallet without address found", zap.String("pair", result.Pair))
				continue
			}
			if fs.IsWalletIgnored(address, ignored) {
				continue
			}

			entry, ok := byAddress[address]
			if !ok {
				entry = &WalletIntersection{Address: address, PairData: map[string]PairData{}}
				byAddress[address] = entry
				order = append(order, address)
			}
			if _, seen := entry.PairData[result.Pair]; seen {
				continue
			}

			entry.Count++
			entry.Pairs = append(entry.Pairs, result.Pair)
			entry.PairData[result.Pair] = PairData{
				Bought: orMissing(wallet.Bought),
				Sold:   orMissing(wallet.Sold),
				PnL:    orMissing(wallet.PnL),
			}
		}
	}

	intersections := []WalletIntersection{}
	for _, address := range order {
		entry := byAddress[address]
		if entry.Count < minCount {
			continue
		}
		pnls := make([]string, 0, len(entry.Pairs))
		for _, pair := range entry.Pairs {
			pnls = append(pnls, entry.PairData[pair].PnL)
		}
		total, _ := money.Sum(pnls...)
		entry.totalPnL = total
		entry.TotalPnL = money.Format(decimal.NewNullDecimal(total))
		intersections = append(intersections, *entry)
	}

	sort.SliceStable(intersections, func(i, j int) bool {
		return intersections[i].Count > intersections[j].Count
	})
	if len(intersections) > MaxIntersections {
		intersections = intersections[:MaxIntersections]
	}

	log.LogDebug("Found wallet intersections",
		zap.Int("pairs", len(results)),
		zap.Int("unique_wallets", len(order)),
		zap.Int("intersections", len(intersections)))

	return intersections
}

func orMissing(v string) string {
	if strings.TrimSpace(v) == "" {
		return missingValue
	}
	return v
}
