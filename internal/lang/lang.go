// Package lang provides a language registry mapping file extensions to
// tree-sitter languages and the syntax tables the extractor walks them with.
package lang

import (
	"regexp"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Language holds tree-sitter configuration for a supported language.
type Language struct {
	Name       string
	Extensions []string
	lang       *sitter.Language

	functionKinds  map[string]bool
	loopKinds      map[string]bool
	statementKinds map[string]bool
	blockKinds     map[string]bool
	classKinds     map[string]bool

	// loopElseField names the loop child that holds an else clause, if the
	// language has one.
	loopElseField string

	// FunctionName returns the display name of a function node.
	FunctionName func(node *sitter.Node, source []byte) string

	// ReturnType returns the spelling of a function's return type, or ""
	// when the language does not declare one.
	ReturnType func(node *sitter.Node, source []byte) string

	// Parameters returns the names a function binds for its body.
	Parameters func(node *sitter.Node, source []byte) []string

	// Declares returns the names a statement binds in its scope.
	Declares func(node *sitter.Node, source []byte) []string

	// Locals returns the names node binds for its own children only, such
	// as a loop variable declared in the loop header. Nil means none.
	Locals func(node *sitter.Node, source []byte) []string
}

func kinds(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// GetLanguage returns the tree-sitter Language pointer.
func (l *Language) GetLanguage() *sitter.Language {
	return l.lang
}

// NewParser creates a fresh tree-sitter parser for this language.
// Each goroutine must use its own parser (not thread-safe).
func (l *Language) NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(l.lang)
	return p
}

// IsFunction reports whether node defines a function with a body.
func (l *Language) IsFunction(node *sitter.Node) bool {
	return l.functionKinds[node.Type()] && node.ChildByFieldName("body") != nil
}

// IsLoop reports whether node is a loop.
func (l *Language) IsLoop(node *sitter.Node) bool {
	return l.loopKinds[node.Type()]
}

// IsStatement reports whether node is a statement sitting directly in a
// block. Statements nested in other statements' clauses (an else-if, say)
// are reached through their own block.
func (l *Language) IsStatement(node *sitter.Node) bool {
	if !l.statementKinds[node.Type()] {
		return false
	}
	parent := node.Parent()
	return parent != nil && l.blockKinds[parent.Type()]
}

// IsClass reports whether node defines a class.
func (l *Language) IsClass(node *sitter.Node) bool {
	return l.classKinds[node.Type()]
}

// IsMethod reports whether the function node belongs directly to a class
// body. Such functions do not see the names bound in that body.
func (l *Language) IsMethod(node *sitter.Node) bool {
	if len(l.classKinds) == 0 {
		return false
	}
	for p := node.Parent(); p != nil; p = p.Parent() {
		if l.classKinds[p.Type()] {
			return true
		}
		if l.functionKinds[p.Type()] {
			return false
		}
	}
	return false
}

// LocalNames returns the names node binds for its children.
func (l *Language) LocalNames(node *sitter.Node, source []byte) []string {
	if l.Locals == nil {
		return nil
	}
	return l.Locals(node, source)
}

// LoopBodies returns the body of a loop node followed by its else clause
// body when that is present and non-empty.
func (l *Language) LoopBodies(node *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	if body := node.ChildByFieldName("body"); body != nil {
		out = append(out, body)
	}
	if l.loopElseField == "" {
		return out
	}
	if alt := node.ChildByFieldName(l.loopElseField); alt != nil {
		if body := alt.ChildByFieldName("body"); body != nil && body.NamedChildCount() > 0 {
			out = append(out, body)
		}
	}
	return out
}

// Languages maps language names to their configuration.
// Populated by init() functions in per-language files.
var Languages = map[string]*Language{}

// extensionMap is built lazily after all init() functions have run.
var extensionMap map[string]string
var extensionOnce sync.Once

func getExtensionMap() map[string]string {
	extensionOnce.Do(func() {
		extensionMap = make(map[string]string)
		for _, l := range Languages {
			for _, ext := range l.Extensions {
				extensionMap[ext] = l.Name
			}
		}
	})
	return extensionMap
}

// ForExtension returns the language name for a file extension, or "" if unsupported.
func ForExtension(ext string) string {
	return getExtensionMap()[ext]
}

// NodeText returns the source text of a tree-sitter node.
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// CollapseWhitespace replaces runs of whitespace with a single space and trims.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// fieldText returns the text of node's named field, or "".
func fieldText(node *sitter.Node, field string, source []byte) string {
	if c := node.ChildByFieldName(field); c != nil {
		return NodeText(c, source)
	}
	return ""
}

// identifiers collects the identifier nodes under node, not descending into
// any node whose type is in stop.
func identifiers(node *sitter.Node, source []byte, stop map[string]bool) []string {
	if node == nil {
		return nil
	}
	if node.Type() == "identifier" {
		return []string{NodeText(node, source)}
	}
	if stop[node.Type()] {
		return nil
	}
	var out []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		out = append(out, identifiers(node.NamedChild(i), source, stop)...)
	}
	return out
}
