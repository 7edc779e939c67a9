package top_traders

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint identifies the wallet data visible at one instant. It is a
// structural proxy, not a semantic diff: the same rows in a different order
// give a different fingerprint.
type Fingerprint uint64

// FingerprintRecords hashes "address:bought:sold:pnl" lines joined by
// newlines, in the order given.
func FingerprintRecords(records []WalletRecord) Fingerprint {
	lines := make([]string, 0, len(records))
	for _, r := range records {
		lines = append(lines, strings.Join([]string{r.Address, r.Bought, r.Sold, r.PnL}, ":"))
	}
	return Fingerprint(xxhash.Sum64String(strings.Join(lines, "\n")))
}
