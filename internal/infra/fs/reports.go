package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// SaveScanReport writes report as indented JSON to
// <dir>/scan_<timestamp>.json, going through a temporary file so a reader
// never sees a partial report.
func SaveScanReport(dir string, report interface{}, at time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal scan report: %w", err)
	}

	fullPath := filepath.Join(dir, fmt.Sprintf("scan_%s.json", at.UTC().Format("20060102T150405")))
	tempPath := fullPath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save scan report: %w", err)
	}
	if err := os.Rename(tempPath, fullPath); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to save scan report: %w", err)
	}
	return fullPath, nil
}
