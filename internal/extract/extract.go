// Package extract walks tree-sitter syntax trees and reports the functions,
// statements and loops of source files as analysis records.
package extract

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/kaskara/internal/lang"
	"github.com/phobologic/kaskara/internal/location"
	"github.com/phobologic/kaskara/internal/model"
	"github.com/phobologic/kaskara/internal/symbol"
)

// ErrSyntax is returned for sources the parser could only partially
// recover.
var ErrSyntax = errors.New("syntax error")

// File parses source and returns its records. Locations use filename,
// 1-based lines and 0-based byte columns.
func File(ctx context.Context, l *lang.Language, parser *sitter.Parser, source []byte, filename string) (*model.Document, error) {
	doc := &model.Document{Files: []string{filename}}
	if len(source) == 0 {
		return doc, nil
	}

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("parsing %s: %w", filename, ErrSyntax)
	}

	w := &walker{lang: l, source: source, filename: filename, doc: doc}
	w.walk(root, nil)
	return doc, nil
}

type walker struct {
	lang     *lang.Language
	source   []byte
	filename string
	doc      *model.Document

	// classScopes holds, innermost last, the scope each enclosing class
	// definition was bound in.
	classScopes [][]string
}

func (w *walker) span(node *sitter.Node) location.FileLocationRange {
	start, stop := node.StartPoint(), node.EndPoint()
	return location.FileLocationRange{
		Filename: w.filename,
		Start:    location.Location{Line: int(start.Row) + 1, Column: int(start.Column)},
		Stop:     location.Location{Line: int(stop.Row) + 1, Column: int(stop.Column)},
	}
}

// walk records node and its descendants. scope holds the names bound before
// node in enclosing blocks. It returns the names node binds for the
// statements after it.
func (w *walker) walk(node *sitter.Node, scope []string) []string {
	var decls []string
	locals := w.lang.LocalNames(node, w.source)
	inner := extend(scope, locals)

	if w.lang.IsStatement(node) {
		decls = w.lang.Declares(node, w.source)
		inner = extend(inner, decls)
		text := lang.NodeText(node, w.source)
		w.doc.Statements = append(w.doc.Statements, model.StatementRecord{
			Kind:      node.Type(),
			Content:   text,
			Canonical: lang.CollapseWhitespace(text),
			Location:  w.span(node).String(),
			Decls:     symbol.NewSet(extend(decls, locals)...).Names(),
			Visible:   symbol.NewSet(inner...).Names(),
		})
	}

	if w.lang.IsFunction(node) {
		w.doc.Functions = append(w.doc.Functions, model.FunctionRecord{
			Name:       w.lang.FunctionName(node, w.source),
			Location:   w.span(node).String(),
			Body:       w.span(node.ChildByFieldName("body")).String(),
			ReturnType: w.lang.ReturnType(node, w.source),
		})
		if n := len(w.classScopes); n > 0 && w.lang.IsMethod(node) {
			inner = w.classScopes[n-1]
		}
		inner = extend(inner, w.lang.Parameters(node, w.source))
	}

	if w.lang.IsLoop(node) {
		for _, body := range w.lang.LoopBodies(node) {
			w.doc.Loops = append(w.doc.Loops, model.LoopRecord{Body: w.span(body).String()})
		}
	}

	if w.lang.IsClass(node) {
		w.classScopes = append(w.classScopes, inner)
		defer func() { w.classScopes = w.classScopes[:len(w.classScopes)-1] }()
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		inner = extend(inner, w.walk(node.NamedChild(i), inner))
	}
	return decls
}

// extend returns scope plus names without touching scope's backing array.
func extend(scope, names []string) []string {
	if len(names) == 0 {
		return scope
	}
	out := make([]string, 0, len(scope)+len(names))
	out = append(out, scope...)
	return append(out, names...)
}
