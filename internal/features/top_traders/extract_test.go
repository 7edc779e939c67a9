package top_traders

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract(t *testing.T) {
	e := NewExtractor(DefaultSelectors(), true)

	records, err := e.Extract(fixture(layoutWrapper, dashRow, noSoldRow, fullRow), "7d")
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, WalletRecord{Address: walletSOL, Bought: "0", Sold: "$800", PnL: "-$430", TimePeriod: "7d"}, records[0])
	assert.Equal(t, WalletRecord{Address: walletTKN, Bought: "$5.1K", Sold: "0", PnL: "$2.3K", TimePeriod: "7d"}, records[1])
	assert.Equal(t, WalletRecord{Address: walletUSDC, Bought: "$12.5M", Sold: "$9.1M", PnL: "$1.2M", TimePeriod: "7d"}, records[2])
}

func TestExtractor_SkipsContainerWithoutAccountLink(t *testing.T) {
	e := NewExtractor(DefaultSelectors(), true)

	withLink, err := e.Extract(fixture(dashRow, noSoldRow, fullRow), "30d")
	require.NoError(t, err)

	unlinked := strings.Replace(noSoldRow, "/solana/account/", "/solana/token/", 1)
	withoutLink, err := e.Extract(fixture(dashRow, unlinked, fullRow), "30d")
	require.NoError(t, err)

	assert.Len(t, withoutLink, len(withLink)-1)
	assert.Equal(t, walletSOL, withoutLink[0].Address)
	assert.Equal(t, walletUSDC, withoutLink[1].Address)
}

func TestExtractor_AddressValidation(t *testing.T) {
	bad := strings.Replace(fullRow, walletUSDC, "not-a-wallet", 1)

	records, err := NewExtractor(DefaultSelectors(), true).Extract(fixture(dashRow, bad), "30d")
	require.NoError(t, err)
	require.Len(t, records, 1, "malformed row is skipped, the rest survives")
	assert.Equal(t, walletSOL, records[0].Address)

	records, err = NewExtractor(DefaultSelectors(), false).Extract(fixture(dashRow, bad), "30d")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "not-a-wallet", records[1].Address)
}

func TestExtractor_EmptyAccountPathIsSkipped(t *testing.T) {
	row := `<div class="custom-1nvxwu0"><a href="/solana/account/?x=1">?</a></div>`
	records, err := NewExtractor(DefaultSelectors(), false).Extract(fixture(row, fullRow), "30d")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, walletUSDC, records[0].Address)
}

func TestExtractor_NoContainers(t *testing.T) {
	records, err := NewExtractor(DefaultSelectors(), true).Extract("<html><body>checking your browser</body></html>", "30d")
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestSignedCurrency(t *testing.T) {
	cases := map[string]string{
		"-430":  "-$430",
		"$-430": "-$430",
		"-$430": "-$430",
		"430":   "$430",
		"$1.2K": "$1.2K",
	}
	for in, want := range cases {
		assert.Equal(t, want, signedCurrency(in), in)
	}
}

func TestWalletRecord_Values(t *testing.T) {
	r := WalletRecord{Bought: "0", Sold: "$1.2K", PnL: "-$430"}
	assert.True(t, r.BoughtValue().Decimal.IsZero())
	assert.Equal(t, "1200", r.SoldValue().Decimal.String())
	assert.Equal(t, "-430", r.PnLValue().Decimal.String())
}
