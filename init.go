package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phobologic/kaskara/internal/config"
)

const (
	sentinelStart = "# kaskara:start"
	sentinelEnd   = "# kaskara:end"
)

// runInit implements the `kaskara init` subcommand, which writes (or updates)
// a block of KASKARA_* defaults in a dotenv file.
func runInit(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("kaskara init", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var dryRun bool
	fs.BoolVar(&dryRun, "dry-run", false, "print what would be written without modifying the file")

	fs.Usage = func() {
		fmt.Fprintf(stderr, `Usage: kaskara init [flags] [path-to-env-file]

Write a block of kaskara settings to a dotenv file. The block is wrapped in
sentinel comments so it can be updated in place on subsequent runs without
touching surrounding variables. Creates the file if it does not exist.

path-to-env-file defaults to ./.env.

Flags:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	section := generateSection()

	// --dry-run with no path: just print the section itself.
	if dryRun && fs.NArg() == 0 {
		_, _ = fmt.Fprintln(stdout, section)
		return nil
	}

	path := envFile
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	existing, _ := os.ReadFile(path)
	updated := applySection(string(existing), section)

	if dryRun {
		_, _ = fmt.Fprint(stdout, updated)
		return nil
	}

	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(stderr, "wrote kaskara settings to %s\n", path)
	return nil
}

// generateSection returns the sentinel-wrapped settings block. Every setting
// is commented out at its default so the file changes nothing until edited.
func generateSection() string {
	body := fmt.Sprintf(`# Defaults for kaskara flags. Flags given on the command line win.
# Comma-separated languages to analyze (python, go). Empty means all.
# KASKARA_LANGS=
# Cache file reused while the analyzed files are unchanged.
# KASKARA_CACHE=.kaskara-cache.json
# Skip source files larger than this many bytes.
# KASKARA_MAX_FILE_SIZE=%d
# Concurrent extraction workers; 0 uses every CPU.
# KASKARA_WORKERS=0
# Fail on the first unparsable file instead of skipping it.
# KASKARA_STRICT=false
# Log debug output to stderr.
# KASKARA_VERBOSE=false`, config.DefaultMaxFileSize)

	return sentinelStart + "\n" + body + "\n" + sentinelEnd
}

// applySection inserts section into content, replacing an existing sentinel
// block if present or appending if not. It is a pure function for easy testing.
func applySection(content, section string) string {
	start := strings.Index(content, sentinelStart)
	end := strings.Index(content, sentinelEnd)

	if start >= 0 && end > start {
		return content[:start] + section + content[end+len(sentinelEnd):]
	}

	// Append, ensuring a blank line separator.
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + "\n" + section + "\n"
}
