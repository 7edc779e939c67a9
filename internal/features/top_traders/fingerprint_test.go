package top_traders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintRecords(t *testing.T) {
	a := WalletRecord{Address: walletSOL, Bought: "0", Sold: "$800", PnL: "-$430"}
	b := WalletRecord{Address: walletUSDC, Bought: "$12.5M", Sold: "$9.1M", PnL: "$1.2M"}

	t.Run("same rows same order are equal", func(t *testing.T) {
		assert.Equal(t, FingerprintRecords([]WalletRecord{a, b}), FingerprintRecords([]WalletRecord{a, b}))
	})

	t.Run("time period tag is not part of the fingerprint", func(t *testing.T) {
		tagged := a
		tagged.TimePeriod = "7d"
		assert.Equal(t, FingerprintRecords([]WalletRecord{a}), FingerprintRecords([]WalletRecord{tagged}))
	})

	t.Run("reordered rows are a change", func(t *testing.T) {
		assert.NotEqual(t, FingerprintRecords([]WalletRecord{a, b}), FingerprintRecords([]WalletRecord{b, a}))
	})

	t.Run("a changed value is a change", func(t *testing.T) {
		changed := b
		changed.PnL = "$1.3M"
		assert.NotEqual(t, FingerprintRecords([]WalletRecord{a, b}), FingerprintRecords([]WalletRecord{a, changed}))
	})

	t.Run("dropped row is a change", func(t *testing.T) {
		assert.NotEqual(t, FingerprintRecords([]WalletRecord{a, b}), FingerprintRecords([]WalletRecord{a}))
	})
}
