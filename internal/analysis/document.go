package analysis

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/phobologic/kaskara/internal/functions"
	"github.com/phobologic/kaskara/internal/loops"
	"github.com/phobologic/kaskara/internal/model"
	"github.com/phobologic/kaskara/internal/statements"
)

// Build converts extractor records into an analysis of root. Absolute
// filenames are made relative to root. Any malformed record aborts the build.
func Build(root string, doc *model.Document, opts Options) (*Analysis, error) {
	fnRecs, err := FunctionsFromRecords(root, doc.Functions)
	if err != nil {
		return nil, err
	}
	stmtRecs, err := StatementsFromRecords(root, doc.Statements)
	if err != nil {
		return nil, err
	}
	bodies, err := LoopsFromRecords(root, doc.Loops)
	if err != nil {
		return nil, err
	}

	fns, err := functions.New(root, fnRecs)
	if err != nil {
		return nil, fmt.Errorf("building function index: %w", err)
	}
	stmts, err := statements.New(root, stmtRecs)
	if err != nil {
		return nil, fmt.Errorf("building statement index: %w", err)
	}
	lps, err := loops.New(root, bodies)
	if err != nil {
		return nil, fmt.Errorf("building loop index: %w", err)
	}
	return New(root, doc.Files, fns, stmts, lps, opts)
}

// Document returns the records that rebuild a.
func (a *Analysis) Document() *model.Document {
	doc := &model.Document{
		Root:       a.root,
		Files:      append([]string{}, a.files...),
		Functions:  []model.FunctionRecord{},
		Statements: []model.StatementRecord{},
		Loops:      []model.LoopRecord{},
	}
	for _, f := range a.functions.All() {
		doc.Functions = append(doc.Functions, functionRecord(f))
	}
	for _, s := range a.statements.All() {
		doc.Statements = append(doc.Statements, statementRecord(s))
	}
	for _, r := range a.loops.Bodies() {
		doc.Loops = append(doc.Loops, model.LoopRecord{Body: r.String()})
	}
	return doc
}

// Save writes a as an indented JSON document.
func (a *Analysis) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a.Document()); err != nil {
		return fmt.Errorf("encoding analysis: %w", err)
	}
	return nil
}

// Load reads a document written by Save and rebuilds the analysis.
func Load(r io.Reader, opts Options) (*Analysis, error) {
	var doc model.Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding analysis: %w", err)
	}
	return Build(doc.Root, &doc, opts)
}
