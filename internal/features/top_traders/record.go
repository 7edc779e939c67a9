package top_traders

import (
	"regexp"

	"top-traders/internal/money"

	"github.com/shopspring/decimal"
)

// DefaultTimePeriod is the window the top traders panel opens with.
const DefaultTimePeriod = "30d"

var timePeriodPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// ValidTimePeriod reports whether period is a plausible control label
// ("24h", "7d", "30d").
func ValidTimePeriod(period string) bool {
	return timePeriodPattern.MatchString(period)
}

// WalletRecord - one top trader's statistics for a pair and time window.
// Monetary fields keep the site's display format ("$1.2K", "-$430") or "0"
// when the value was not shown.
type WalletRecord struct {
	Address    string `json:"address"`
	Bought     string `json:"bought"`
	Sold       string `json:"sold"`
	PnL        string `json:"pnl"`
	TimePeriod string `json:"time_period"`
}

func (r WalletRecord) BoughtValue() decimal.NullDecimal { return money.Parse(r.Bought) }
func (r WalletRecord) SoldValue() decimal.NullDecimal   { return money.Parse(r.Sold) }
func (r WalletRecord) PnLValue() decimal.NullDecimal    { return money.Parse(r.PnL) }
