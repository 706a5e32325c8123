package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/phobologic/kaskara/internal/analysis"
	"github.com/phobologic/kaskara/internal/fingerprint"
	"github.com/phobologic/kaskara/internal/model"
)

// cacheEntry is the on-disk cache: the analysis document keyed by a digest
// of every analyzed file.
type cacheEntry struct {
	Fingerprint string          `json:"fingerprint"`
	Analysis    *model.Document `json:"analysis"`
}

// loadCache returns the cached analysis when its fingerprint still matches
// the files, or nil.
func loadCache(path, root string, files []string, salt string, logger *slog.Logger) *analysis.Analysis {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil || entry.Analysis == nil {
		logger.Warn("ignoring unreadable cache", "path", path)
		return nil
	}
	fp, err := fingerprint.Files(root, files, salt)
	if err != nil || fp != entry.Fingerprint {
		logger.Debug("cache is stale", "path", path)
		return nil
	}
	a, err := analysis.Build(root, entry.Analysis, analysis.Options{Logger: logger})
	if err != nil {
		logger.Warn("ignoring invalid cache", "path", path, "error", err)
		return nil
	}
	logger.Debug("using cached analysis", "path", path)
	return a
}

func saveCache(path, root string, files []string, salt string, a *analysis.Analysis) error {
	fp, err := fingerprint.Files(root, files, salt)
	if err != nil {
		return err
	}
	data, err := json.Marshal(cacheEntry{Fingerprint: fp, Analysis: a.Document()})
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
