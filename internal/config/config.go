// Package config resolves CLI defaults from the environment and optional
// dotenv files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultMaxFileSize is the size above which source files are skipped.
const DefaultMaxFileSize = 1_000_000 // 1 MB

// Config holds defaults that flags may override.
type Config struct {
	Languages   []string
	CachePath   string
	MaxFileSize int64
	Workers     int
	Verbose     bool
	Strict      bool
}

// Load reads the given dotenv files, missing ones ignored, and overlays the
// process environment. Later files do not override earlier ones, matching
// godotenv.Load.
func Load(files ...string) (*Config, error) {
	fileVals := map[string]string{}
	for _, f := range files {
		vals, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		for k, v := range vals {
			if _, ok := fileVals[k]; !ok {
				fileVals[k] = v
			}
		}
	}
	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(fileVals[key])
	}
	return parse(lookup)
}

func parse(lookup func(string) string) (*Config, error) {
	cfg := &Config{
		CachePath:   lookup("KASKARA_CACHE"),
		MaxFileSize: DefaultMaxFileSize,
	}

	if raw := lookup("KASKARA_LANGS"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.Languages = append(cfg.Languages, name)
			}
		}
	}
	if raw := lookup("KASKARA_MAX_FILE_SIZE"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("KASKARA_MAX_FILE_SIZE: invalid size %q", raw)
		}
		cfg.MaxFileSize = n
	}
	if raw := lookup("KASKARA_WORKERS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("KASKARA_WORKERS: invalid worker count %q", raw)
		}
		cfg.Workers = n
	}
	var err error
	if cfg.Verbose, err = parseBool("KASKARA_VERBOSE", lookup); err != nil {
		return nil, err
	}
	if cfg.Strict, err = parseBool("KASKARA_STRICT", lookup); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseBool(key string, lookup func(string) string) (bool, error) {
	raw := lookup(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, raw)
	}
	return v, nil
}
