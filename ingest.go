package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/phobologic/kaskara/internal/analysis"
	"github.com/phobologic/kaskara/internal/model"
)

// runIngest implements `kaskara ingest`, which builds an analysis from the
// record files an external extractor wrote into a directory.
func runIngest(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("kaskara ingest", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		root    string
		output  string
		format  string
		verbose bool
	)
	fs.StringVar(&root, "root", "", "project root that absolute record paths are made relative to")
	fs.StringVar(&output, "o", "", "write the analysis to this file instead of stdout")
	fs.StringVar(&format, "format", "json", "output format: json or toon")
	fs.BoolVar(&verbose, "v", false, "log debug output to stderr")

	fs.Usage = func() {
		fmt.Fprintf(stderr, `Usage: kaskara ingest [flags] <dir>

Build an analysis from functions.json, statements.json and loops.json in dir.
Each file holds a JSON array of records; missing files count as empty.

Flags:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(reorderArgs(args)); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("ingest: expected one directory")
	}
	if err := checkFormat(format); err != nil {
		return err
	}
	dir := fs.Arg(0)

	doc := &model.Document{}
	if err := readRecords(filepath.Join(dir, "functions.json"), &doc.Functions); err != nil {
		return err
	}
	if err := readRecords(filepath.Join(dir, "statements.json"), &doc.Statements); err != nil {
		return err
	}
	if err := readRecords(filepath.Join(dir, "loops.json"), &doc.Loops); err != nil {
		return err
	}

	a, err := analysis.Build(root, doc, analysis.Options{Logger: newLogger(stderr, verbose)})
	if err != nil {
		return fmt.Errorf("building analysis: %w", err)
	}
	return writeOutput(output, stdout, func(w io.Writer) error {
		return writeAnalysis(w, a, format)
	})
}

func readRecords[T any](path string, into *[]T) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// writeOutput runs write against path, or stdout when path is empty.
func writeOutput(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
