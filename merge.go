package main

import (
	"flag"
	"fmt"
	"io"
)

// runMerge implements `kaskara merge`, which combines saved analyses of the
// same project root.
func runMerge(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("kaskara merge", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		output string
		format string
	)
	fs.StringVar(&output, "o", "", "write the merged analysis to this file instead of stdout")
	fs.StringVar(&format, "format", "json", "output format: json or toon")

	fs.Usage = func() {
		fmt.Fprintf(stderr, `Usage: kaskara merge [-o out.json] a.json b.json...

Merge analyses saved by kaskara. All inputs must share a project root.

Flags:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(reorderArgs(args)); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("merge: expected at least one analysis")
	}
	if err := checkFormat(format); err != nil {
		return err
	}

	merged, err := loadAnalysis(fs.Arg(0))
	if err != nil {
		return err
	}
	for _, path := range fs.Args()[1:] {
		next, err := loadAnalysis(path)
		if err != nil {
			return err
		}
		if merged, err = merged.Merge(next); err != nil {
			return fmt.Errorf("merging %s: %w", path, err)
		}
	}

	return writeOutput(output, stdout, func(w io.Writer) error {
		return writeAnalysis(w, merged, format)
	})
}
