package fs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIgnoredWallets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ignored_wallets.json")

	wallets, err := LoadIgnoredWallets(path)
	require.NoError(t, err)
	assert.Empty(t, wallets)

	added, err := AddIgnoredWallet(path, " wallet1 ")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = AddIgnoredWallet(path, "wallet1")
	require.NoError(t, err)
	assert.False(t, added, "duplicates are not stored twice")

	_, err = AddIgnoredWallet(path, "wallet2")
	require.NoError(t, err)

	wallets, err = LoadIgnoredWallets(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"wallet1", "wallet2"}, wallets)
	assert.True(t, IsWalletIgnored("wallet2", wallets))
	assert.False(t, IsWalletIgnored("wallet3", wallets))

	require.NoError(t, RemoveIgnoredWallet(path, "wallet1"))
	wallets, err = LoadIgnoredWallets(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"wallet2"}, wallets)

	assert.Error(t, RemoveIgnoredWallet(path, "wallet1"))
	_, err = AddIgnoredWallet(path, "  ")
	assert.Error(t, err)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestLoadIgnoredWallets_EmptyAndBroken(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte("{}"), 0644))
	wallets, err := LoadIgnoredWallets(empty)
	require.NoError(t, err)
	assert.Empty(t, wallets)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{"), 0644))
	_, err = LoadIgnoredWallets(broken)
	assert.Error(t, err)
}

func TestSnapshotDir_SaveSnapshot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshots")
	s := NewSnapshotDir(dir)
	s.now = func() time.Time { return time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC) }

	path, err := s.SaveSnapshot("pair/../x", "7d", "<html></html>")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pair_x_7d_20250301T123000.html"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))
}

func TestSaveScanReport(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)

	path, err := SaveScanReport(dir, map[string]int{"pairA": 3}, at)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "scan_20250301T123000.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"pairA": 3}`, string(data))
}
