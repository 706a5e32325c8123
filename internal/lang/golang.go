package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

func init() {
	Languages["go"] = &Language{
		Name:       "go",
		Extensions: []string{".go"},
		lang:       golang.GetLanguage(),
		functionKinds: kinds(
			"function_declaration", "method_declaration", "func_literal",
		),
		loopKinds: kinds("for_statement"),
		statementKinds: kinds(
			"expression_statement", "send_statement", "inc_statement",
			"dec_statement", "assignment_statement", "short_var_declaration",
			"return_statement", "go_statement", "defer_statement",
			"if_statement", "for_statement", "expression_switch_statement",
			"type_switch_statement", "select_statement", "labeled_statement",
			"fallthrough_statement", "break_statement", "continue_statement",
			"goto_statement", "var_declaration", "const_declaration",
			"type_declaration", "block",
		),
		blockKinds: kinds(
			"block", "statement_list", "expression_case", "default_case",
			"type_case", "communication_case",
		),
		FunctionName: goFunctionName,
		ReturnType:   goReturnType,
		Parameters:   goParameters,
		Declares:     goDeclares,
		Locals:       goLocals,
	}
}

// goFunctionName names functions and methods; methods are qualified with
// their receiver type ("T.M") and literals are "<anonymous>".
func goFunctionName(node *sitter.Node, source []byte) string {
	name := fieldText(node, "name", source)
	if name == "" {
		return "<anonymous>"
	}
	if node.Type() == "method_declaration" {
		if recv := goReceiverType(node, source); recv != "" {
			return recv + "." + name
		}
	}
	return name
}

// goReceiverType extracts the receiver type name from a method_declaration
// node, unwrapping a pointer and any type arguments.
// Navigates: method_declaration → parameter_list (receiver) → parameter_declaration → type.
func goReceiverType(node *sitter.Node, source []byte) string {
	recv := node.ChildByFieldName("receiver")
	if recv == nil {
		return ""
	}
	for i := 0; i < int(recv.NamedChildCount()); i++ {
		param := recv.NamedChild(i)
		if param.Type() != "parameter_declaration" {
			continue
		}
		typ := param.ChildByFieldName("type")
		for typ != nil {
			switch typ.Type() {
			case "type_identifier":
				return NodeText(typ, source)
			case "pointer_type":
				typ = typ.NamedChild(0)
			case "generic_type":
				typ = typ.ChildByFieldName("type")
			default:
				return CollapseWhitespace(NodeText(typ, source))
			}
		}
	}
	return ""
}

// goReturnType returns the declared result, or "void" when there is none.
func goReturnType(node *sitter.Node, source []byte) string {
	if result := node.ChildByFieldName("result"); result != nil {
		return CollapseWhitespace(NodeText(result, source))
	}
	return "void"
}

// goParameters returns receiver, parameter and named result names.
func goParameters(node *sitter.Node, source []byte) []string {
	var out []string
	for _, field := range []string{"receiver", "parameters", "result"} {
		list := node.ChildByFieldName(field)
		if list == nil || list.Type() != "parameter_list" {
			continue
		}
		for i := 0; i < int(list.NamedChildCount()); i++ {
			param := list.NamedChild(i)
			for j := 0; j < int(param.NamedChildCount()); j++ {
				if id := param.NamedChild(j); id.Type() == "identifier" {
					out = append(out, NodeText(id, source))
				}
			}
		}
	}
	return out
}

var goDeclStop = kinds("func_literal", "expression_list", "parameter_list")

// goDeclares returns the names introduced by a declaration statement.
func goDeclares(node *sitter.Node, source []byte) []string {
	switch node.Type() {
	case "short_var_declaration":
		return goNames(node.ChildByFieldName("left"), source)
	case "var_declaration", "const_declaration":
		return goSpecNames(node, source)
	case "type_declaration":
		var out []string
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if n := fieldText(node.NamedChild(i), "name", source); n != "" {
				out = append(out, n)
			}
		}
		return out
	}
	return nil
}

// goSpecNames collects the names of every var_spec or const_spec under node.
// A spec's names are its direct identifier children; its type and values sit
// in their own subtrees.
func goSpecNames(node *sitter.Node, source []byte) []string {
	var out []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "var_spec", "const_spec":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if id := child.NamedChild(j); id.Type() == "identifier" {
					out = append(out, NodeText(id, source))
				}
			}
		default:
			if !goDeclStop[child.Type()] {
				out = append(out, goSpecNames(child, source)...)
			}
		}
	}
	return out
}

// goLocals returns the names declared in a statement header: the
// initializer of if, switch and three-clause for statements, the := targets
// of a range clause and a type switch alias. They are scoped to the
// statement.
func goLocals(node *sitter.Node, source []byte) []string {
	switch node.Type() {
	case "if_statement", "expression_switch_statement":
		return goInitializerNames(node, source)
	case "type_switch_statement":
		out := goInitializerNames(node, source)
		if alias := node.ChildByFieldName("alias"); alias != nil {
			out = append(out, goNames(alias, source)...)
		}
		return out
	case "for_statement":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			switch clause := node.NamedChild(i); clause.Type() {
			case "for_clause":
				return goInitializerNames(clause, source)
			case "range_clause":
				if goDefines(clause) {
					return goNames(clause.ChildByFieldName("left"), source)
				}
			}
		}
	}
	return nil
}

func goInitializerNames(node *sitter.Node, source []byte) []string {
	initializer := node.ChildByFieldName("initializer")
	if initializer == nil || initializer.Type() != "short_var_declaration" {
		return nil
	}
	return goNames(initializer.ChildByFieldName("left"), source)
}

// goNames returns the identifiers under node, leaving out the blank
// identifier.
func goNames(node *sitter.Node, source []byte) []string {
	var out []string
	for _, name := range identifiers(node, source, nil) {
		if name != "_" {
			out = append(out, name)
		}
	}
	return out
}

// goDefines reports whether a range clause declares its targets with :=.
func goDefines(clause *sitter.Node) bool {
	for i := 0; i < int(clause.ChildCount()); i++ {
		if clause.Child(i).Type() == ":=" {
			return true
		}
	}
	return false
}
