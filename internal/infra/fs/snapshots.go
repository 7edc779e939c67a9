package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// SnapshotDir keeps page markup of scrapes that came back empty so selector
// drift can be diagnosed after the fact.
type SnapshotDir struct {
	Dir string
	now func() time.Time
}

func NewSnapshotDir(dir string) *SnapshotDir {
	return &SnapshotDir{Dir: dir, now: time.Now}
}

// SaveSnapshot writes html to <dir>/<pair>_<period>_<timestamp>.html and
// returns the file path.
func (s *SnapshotDir) SaveSnapshot(pair, period, html string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s_%s.html",
		unsafeNameChars.ReplaceAllString(pair, "_"),
		unsafeNameChars.ReplaceAllString(period, "_"),
		s.now().UTC().Format("20060102T150405"))
	path := filepath.Join(s.Dir, name)

	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	return path, nil
}
