// Package toon implements TOON (Token-Oriented Object Notation) encoding of
// an analysis summary.
package toon

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/phobologic/kaskara/internal/analysis"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Encode converts an Analysis into TOON format.
func Encode(a *analysis.Analysis) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("root: %s", encodeValue(a.Root())))

	loopsPerFile := map[string]int{}
	for _, r := range a.Loops().Bodies() {
		loopsPerFile[r.Filename]++
	}
	stmtCounts := a.Statements().Counts()

	var fileRows [][]string
	for _, f := range a.Files() {
		fileRows = append(fileRows, []string{
			f,
			strconv.Itoa(len(a.Functions().InFile(f))),
			strconv.Itoa(stmtCounts[f]),
			strconv.Itoa(loopsPerFile[f]),
		})
	}
	parts = append(parts, formatTabular("files", []string{"path", "functions", "statements", "loops"}, fileRows))

	var fnRows [][]string
	for _, fn := range a.Functions().All() {
		fnRows = append(fnRows, []string{
			fn.Filename(),
			fn.Name,
			strconv.Itoa(fn.Location.Start.Line),
			strconv.Itoa(fn.Location.Stop.Line),
			fn.ReturnType,
		})
	}
	parts = append(parts, formatTabular("functions", []string{"file", "name", "start", "stop", "return"}, fnRows))

	var loopRows [][]string
	for _, r := range a.Loops().Bodies() {
		loopRows = append(loopRows, []string{
			r.Filename,
			strconv.Itoa(r.Start.Line),
			strconv.Itoa(r.Stop.Line),
		})
	}
	parts = append(parts, formatTabular("loops", []string{"file", "start", "stop"}, loopRows))

	var insRows [][]string
	for _, p := range a.Insertions().All() {
		insRows = append(insRows, []string{
			p.Location.Filename,
			strconv.Itoa(p.Location.Line),
			strconv.Itoa(p.Location.Column),
			strings.Join(p.Visible.Names(), " "),
		})
	}
	parts = append(parts, formatTabular("insertions", []string{"file", "line", "column", "visible"}, insRows))

	return strings.Join(parts, "\n")
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
