package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phobologic/kaskara/internal/analysis"
	"github.com/phobologic/kaskara/internal/location"
	"github.com/phobologic/kaskara/internal/statements"
)

// runQuery implements `kaskara query`, which answers structural questions
// about one location using a saved analysis.
func runQuery(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("kaskara query", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		analysisPath string
		fallsThrough bool
	)
	fs.StringVar(&analysisPath, "analysis", "", "saved analysis (JSON) to query")
	fs.BoolVar(&fallsThrough, "falls-through", false, "omit insertion points after return, raise, break and similar statements")

	fs.Usage = func() {
		fmt.Fprintf(stderr, `Usage: kaskara query -analysis <file> <file@line:col>

Report the enclosing function, loop and void-function status of a location,
and the statements and insertion points on its line.

Flags:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(reorderArgs(args)); err != nil {
		return err
	}
	if analysisPath == "" || fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("query: expected -analysis and one location")
	}

	loc, err := location.ParseFileLocation(fs.Arg(0))
	if err != nil {
		return err
	}
	a, err := loadAnalysis(analysisPath)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "location: %s\n", loc)
	if fn, ok := a.EnclosingFunction(loc); ok {
		_, _ = fmt.Fprintf(stdout, "function: %s %s\n", fn.Name, fn.Location)
	} else {
		_, _ = fmt.Fprintln(stdout, "function: none")
	}
	_, _ = fmt.Fprintf(stdout, "inside-loop: %t\n", a.IsInsideLoop(loc))
	_, _ = fmt.Fprintf(stdout, "inside-void-function: %t\n", a.IsInsideVoidFunction(loc))

	line := loc.FileLine()
	for _, s := range a.Statements().AtLine(line) {
		_, _ = fmt.Fprintf(stdout, "statement: %s %s %s\n", s.Location, s.Kind, s.Canonical)
	}

	ins := a.Insertions()
	if fallsThrough {
		ins = a.Statements().InsertionsAfter(statements.FallsThrough)
	}
	for _, p := range ins.AtLine(line) {
		_, _ = fmt.Fprintf(stdout, "insertion: %s %s\n", p.Location, p.Visible)
	}
	return nil
}

func loadAnalysis(path string) (*analysis.Analysis, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening analysis: %w", err)
	}
	defer f.Close()
	a, err := analysis.Load(f, analysis.Options{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}
