package statements

import "strings"

// terminatorKinds lists statement kinds, as spelled by the supported
// backends, after which control never falls through.
var terminatorKinds = map[string]struct{}{
	// tree-sitter (python, go)
	"return_statement":      {},
	"raise_statement":       {},
	"break_statement":       {},
	"continue_statement":    {},
	"goto_statement":        {},
	"fallthrough_statement": {},
	// clang
	"ReturnStmt":   {},
	"BreakStmt":    {},
	"ContinueStmt": {},
	"GotoStmt":     {},
	"CXXThrowExpr": {},
	// spoon
	"Return":   {},
	"Throw":    {},
	"Break":    {},
	"Continue": {},
	// python ast
	"Raise": {},
}

// IsTerminator reports whether a statement of the given kind unconditionally
// transfers control elsewhere.
func IsTerminator(kind string) bool {
	_, ok := terminatorKinds[kind]
	if ok {
		return true
	}
	// spoon reports kinds as class names, e.g. "CtReturnImpl".
	k := strings.TrimSuffix(strings.TrimPrefix(kind, "Ct"), "Impl")
	_, ok = terminatorKinds[k]
	return ok
}

// FallsThrough is an InsertionsAfter filter that drops statements after
// which inserted code would be unreachable.
func FallsThrough(s Statement) bool {
	return !IsTerminator(s.Kind)
}
