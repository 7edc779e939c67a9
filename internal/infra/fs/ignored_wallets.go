package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	logging "top-traders/internal/infra/log"

	"go.uber.org/zap"
)

const (
	DefaultIgnoredWalletsFile = "data_out/ignored_wallets.json"
)

type IgnoredWalletsData struct {
	Wallets []string `json:"wallets"`
}

// LoadIgnoredWallets returns the wallets excluded from intersection reports
// (routers, pool authorities, known bots). A missing file is an empty list.
func LoadIgnoredWallets(filePath string) ([]string, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		logging.LogDebug("Ignored wallets file does not exist, returning empty list", zap.String("file", filePath))
		return []string{}, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read ignored wallets file: %w", err)
	}

	if trimmed := strings.TrimSpace(string(data)); trimmed == "" || trimmed == "{}" {
		logging.LogDebug("Ignored wallets file is empty, returning empty list", zap.String("file", filePath))
		return []string{}, nil
	}

	var walletsData IgnoredWalletsData
	if err := json.Unmarshal(data, &walletsData); err != nil {
		return nil, fmt.Errorf("failed to parse ignored wallets JSON: %w", err)
	}
	if walletsData.Wallets == nil {
		walletsData.Wallets = []string{}
	}

	logging.LogDebug("Loaded ignored wallets from file",
		zap.String("file", filePath),
		zap.Int("count", len(walletsData.Wallets)))

	return walletsData.Wallets, nil
}

func SaveIgnoredWallets(filePath string, wallets []string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(IgnoredWalletsData{Wallets: wallets}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ignored wallets JSON: %w", err)
	}

	tempFilePath := filePath + ".tmp"
	if err := os.WriteFile(tempFilePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary ignored wallets file: %w", err)
	}

	if err := os.Rename(tempFilePath, filePath); err != nil {
		os.Remove(tempFilePath)
		return fmt.Errorf("failed to rename temporary file to ignored wallets file: %w", err)
	}

	logging.LogInfo("Saved ignored wallets to file",
		zap.String("file", filePath),
		zap.Int("count", len(wallets)))

	return nil
}

// AddIgnoredWallet appends wallet unless it is already listed. The returned
// bool reports whether the file changed.
func AddIgnoredWallet(filePath, wallet string) (bool, error) {
	wallet = strings.TrimSpace(wallet)
	if wallet == "" {
		return false, fmt.Errorf("wallet cannot be empty")
	}

	wallets, err := LoadIgnoredWallets(filePath)
	if err != nil {
		return false, fmt.Errorf("failed to load ignored wallets: %w", err)
	}

	if IsWalletIgnored(wallet, wallets) {
		logging.LogDebug("Wallet already in ignored list", zap.String("wallet", wallet))
		return false, nil
	}

	wallets = append(wallets, wallet)
	if err := SaveIgnoredWallets(filePath, wallets); err != nil {
		return false, fmt.Errorf("failed to save ignored wallets: %w", err)
	}
	return true, nil
}

func RemoveIgnoredWallet(filePath, wallet string) error {
	wallet = strings.TrimSpace(wallet)
	if wallet == "" {
		return fmt.Errorf("wallet cannot be empty")
	}

	wallets, err := LoadIgnoredWallets(filePath)
	if err != nil {
		return fmt.Errorf("failed to load ignored wallets: %w", err)
	}

	found := false
	updated := []string{}
	for _, w := range wallets {
		if strings.TrimSpace(w) == wallet {
			found = true
			continue
		}
		updated = append(updated, w)
	}
	if !found {
		return fmt.Errorf("wallet not found in list")
	}

	return SaveIgnoredWallets(filePath, updated)
}

func IsWalletIgnored(wallet string, ignored []string) bool {
	if wallet == "" || len(ignored) == 0 {
		return false
	}
	for _, w := range ignored {
		if strings.TrimSpace(w) == wallet {
			return true
		}
	}
	return false
}
