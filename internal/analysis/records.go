package analysis

import (
	"errors"
	"fmt"

	"github.com/phobologic/kaskara/internal/functions"
	"github.com/phobologic/kaskara/internal/location"
	"github.com/phobologic/kaskara/internal/model"
	"github.com/phobologic/kaskara/internal/statements"
	"github.com/phobologic/kaskara/internal/symbol"
)

// ErrMalformedRecord is returned when an extractor record lacks a required
// field or carries an unparsable location.
var ErrMalformedRecord = errors.New("malformed record")

// RecordError pinpoints the record that could not be converted.
type RecordError struct {
	Kind  string // "function", "statement" or "loop"
	Index int
	Field string
	Err   error
}

func (e *RecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s #%d: %s: %v", ErrMalformedRecord, e.Kind, e.Index, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %s #%d: missing %s", ErrMalformedRecord, e.Kind, e.Index, e.Field)
}

func (e *RecordError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMalformedRecord, e.Err}
	}
	return []error{ErrMalformedRecord}
}

// parseRange parses a range field and relativizes it against root.
func parseRange(root, kind string, i int, field, value string) (location.FileLocationRange, error) {
	if value == "" {
		return location.FileLocationRange{}, &RecordError{Kind: kind, Index: i, Field: field}
	}
	r, err := location.ParseFileLocationRange(value)
	if err != nil {
		return location.FileLocationRange{}, &RecordError{Kind: kind, Index: i, Field: field, Err: err}
	}
	r, err = r.Normalize(root)
	if err != nil {
		return location.FileLocationRange{}, &RecordError{Kind: kind, Index: i, Field: field, Err: err}
	}
	return r, nil
}

// FunctionsFromRecords converts function records into Functions with
// root-relative locations.
func FunctionsFromRecords(root string, recs []model.FunctionRecord) ([]functions.Function, error) {
	out := make([]functions.Function, 0, len(recs))
	for i, rec := range recs {
		if rec.Name == "" {
			return nil, &RecordError{Kind: "function", Index: i, Field: "name"}
		}
		loc, err := parseRange(root, "function", i, "location", rec.Location)
		if err != nil {
			return nil, err
		}
		body, err := parseRange(root, "function", i, "body", rec.Body)
		if err != nil {
			return nil, err
		}
		if !loc.ContainsRange(body) {
			return nil, &RecordError{Kind: "function", Index: i, Field: "body",
				Err: fmt.Errorf("%s not within %s", body, loc)}
		}
		out = append(out, functions.Function{
			Name:       rec.Name,
			Location:   loc,
			Body:       body,
			ReturnType: rec.ReturnType,
			Global:     rec.Global,
			Pure:       rec.Pure,
		})
	}
	return out, nil
}

// StatementsFromRecords converts statement records into Statements with
// root-relative locations. Absent symbol lists become empty sets.
func StatementsFromRecords(root string, recs []model.StatementRecord) ([]statements.Statement, error) {
	out := make([]statements.Statement, 0, len(recs))
	for i, rec := range recs {
		if rec.Kind == "" {
			return nil, &RecordError{Kind: "statement", Index: i, Field: "kind"}
		}
		content := rec.Content
		if content == "" {
			content = rec.Source
		}
		if content == "" {
			return nil, &RecordError{Kind: "statement", Index: i, Field: "content"}
		}
		loc, err := parseRange(root, "statement", i, "location", rec.Location)
		if err != nil {
			return nil, err
		}
		out = append(out, statements.Statement{
			Kind:           rec.Kind,
			Content:        content,
			Canonical:      rec.Canonical,
			Location:       loc,
			Reads:          symbol.NewSet(rec.Reads...),
			Writes:         symbol.NewSet(rec.Writes...),
			Visible:        symbol.NewSet(rec.Visible...),
			Declares:       symbol.NewSet(rec.Decls...),
			LiveBefore:     symbol.NewSet(rec.LiveBefore...),
			LiveAfter:      symbol.NewSet(rec.LiveAfter...),
			RequiresSyntax: symbol.NewSet(rec.RequiresSyntax...),
		})
	}
	return out, nil
}

// LoopsFromRecords converts loop records into body ranges with root-relative
// locations.
func LoopsFromRecords(root string, recs []model.LoopRecord) ([]location.FileLocationRange, error) {
	out := make([]location.FileLocationRange, 0, len(recs))
	for i, rec := range recs {
		body, err := parseRange(root, "loop", i, "body", rec.Body)
		if err != nil {
			return nil, err
		}
		out = append(out, body)
	}
	return out, nil
}

func functionRecord(f functions.Function) model.FunctionRecord {
	return model.FunctionRecord{
		Name:       f.Name,
		Location:   f.Location.String(),
		Body:       f.Body.String(),
		ReturnType: f.ReturnType,
		Global:     f.Global,
		Pure:       f.Pure,
	}
}

func statementRecord(s statements.Statement) model.StatementRecord {
	return model.StatementRecord{
		Kind:           s.Kind,
		Content:        s.Content,
		Canonical:      s.Canonical,
		Location:       s.Location.String(),
		Reads:          nonEmpty(s.Reads),
		Writes:         nonEmpty(s.Writes),
		Visible:        nonEmpty(s.Visible),
		Decls:          nonEmpty(s.Declares),
		LiveBefore:     nonEmpty(s.LiveBefore),
		LiveAfter:      nonEmpty(s.LiveAfter),
		RequiresSyntax: nonEmpty(s.RequiresSyntax),
	}
}

func nonEmpty(s symbol.Set) []string {
	if s.IsEmpty() {
		return nil
	}
	return s.Names()
}
