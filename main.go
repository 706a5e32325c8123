// kaskara builds a structural index of a project's functions, statements,
// loops and insertion points.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/phobologic/kaskara/internal/analysis"
	"github.com/phobologic/kaskara/internal/config"
	"github.com/phobologic/kaskara/internal/discover"
	"github.com/phobologic/kaskara/internal/extract"
	"github.com/phobologic/kaskara/internal/lang"
	"github.com/phobologic/kaskara/internal/toon"
)

var version = "dev"

// envFile is read for KASKARA_* defaults when present.
const envFile = ".env"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		switch args[0] {
		case "init":
			return runInit(args[1:], stdout, stderr)
		case "ingest":
			return runIngest(args[1:], stdout, stderr)
		case "query":
			return runQuery(args[1:], stdout, stderr)
		case "merge":
			return runMerge(args[1:], stdout, stderr)
		}
	}
	return runAnalyze(args, stdout, stderr)
}

func newLogger(stderr io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
}

func runAnalyze(args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("kaskara", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		langs       string
		cachePath   string
		maxFileSize int64
		workers     int
		strict      bool
		skipTests   bool
		format      string
		verbose     bool
		showVersion bool
	)

	fs.StringVar(&langs, "l", strings.Join(cfg.Languages, ","), "comma-separated languages to include")
	fs.StringVar(&langs, "langs", strings.Join(cfg.Languages, ","), "comma-separated languages to include")
	fs.StringVar(&cachePath, "cache", cfg.CachePath, "cache file path")
	fs.Int64Var(&maxFileSize, "max-file-size", cfg.MaxFileSize, "skip files larger than this many bytes")
	fs.IntVar(&workers, "j", cfg.Workers, "concurrent extraction workers (0 = GOMAXPROCS)")
	fs.IntVar(&workers, "workers", cfg.Workers, "concurrent extraction workers (0 = GOMAXPROCS)")
	fs.BoolVar(&strict, "strict", cfg.Strict, "fail on the first unparsable file instead of skipping it")
	fs.BoolVar(&skipTests, "skip-tests", false, "leave test files out of the analysis")
	fs.StringVar(&format, "format", "json", "output format: json or toon")
	fs.BoolVar(&verbose, "v", cfg.Verbose, "log debug output to stderr")
	fs.BoolVar(&showVersion, "V", false, "show version and exit")
	fs.BoolVar(&showVersion, "version", false, "show version and exit")

	if err := fs.Parse(reorderArgs(args)); err != nil {
		return err
	}

	if showVersion {
		_, _ = fmt.Fprintf(stdout, "kaskara %s\n", version)
		return nil
	}
	if err := checkFormat(format); err != nil {
		return err
	}

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}

	root, err = filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", root)
	}

	var langFilter []string
	if langs != "" {
		for _, name := range strings.Split(langs, ",") {
			name = strings.TrimSpace(name)
			if _, ok := lang.Languages[name]; !ok {
				return fmt.Errorf("unsupported language %q", name)
			}
			langFilter = append(langFilter, name)
		}
	}

	ctx := context.Background()
	logger := newLogger(stderr, verbose)

	files, err := discover.Files(ctx, root, discover.Options{
		Languages:   langFilter,
		MaxFileSize: maxFileSize,
		SkipTests:   skipTests,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no analyzable files found")
	}
	logger.Debug("discovered files", "root", root, "count", len(files))

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	salt := fmt.Sprintf("%s|strict=%t", version, strict)

	var a *analysis.Analysis
	if cachePath != "" {
		a = loadCache(cachePath, root, paths, salt, logger)
	}

	if a == nil {
		doc, err := extract.Project(ctx, root, files, extract.Options{
			Workers:     workers,
			Strict:      strict,
			MaxFileSize: maxFileSize,
			Logger:      logger,
		})
		if err != nil {
			return fmt.Errorf("extracting: %w", err)
		}
		if len(doc.Files) == 0 {
			return fmt.Errorf("no files could be parsed")
		}
		a, err = analysis.Build(root, doc, analysis.Options{Logger: logger})
		if err != nil {
			return fmt.Errorf("building analysis: %w", err)
		}
		if cachePath != "" {
			if err := saveCache(cachePath, root, paths, salt, a); err != nil {
				logger.Warn("writing cache", "path", cachePath, "error", err)
			}
		}
	}

	return writeAnalysis(stdout, a, format)
}

func checkFormat(format string) error {
	switch format {
	case "json", "toon":
		return nil
	}
	return fmt.Errorf("unknown format %q (want json or toon)", format)
}

func writeAnalysis(w io.Writer, a *analysis.Analysis, format string) error {
	if format == "toon" {
		_, err := fmt.Fprintln(w, toon.Encode(a))
		return err
	}
	return a.Save(w)
}

// flagsWithValue lists flags that take a value argument.
var flagsWithValue = map[string]bool{
	"-l": true, "--l": true,
	"-langs": true, "--langs": true,
	"-cache": true, "--cache": true,
	"-max-file-size": true, "--max-file-size": true,
	"-j": true, "--j": true,
	"-workers": true, "--workers": true,
	"-format": true, "--format": true,
	"-root": true, "--root": true,
	"-o": true, "--o": true,
	"-analysis": true, "--analysis": true,
}

// reorderArgs moves positional arguments after all flags so Go's flag package
// can parse them correctly (it stops at the first non-flag arg).
func reorderArgs(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if len(args[i]) > 0 && args[i][0] == '-' {
			flags = append(flags, args[i])
			if flagsWithValue[args[i]] && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		} else {
			positional = append(positional, args[i])
		}
	}
	return append(flags, positional...)
}
