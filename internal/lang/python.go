package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

func init() {
	Languages["python"] = &Language{
		Name:          "python",
		Extensions:    []string{".py"},
		lang:          python.GetLanguage(),
		functionKinds: kinds("function_definition"),
		loopKinds:     kinds("for_statement", "while_statement"),
		statementKinds: kinds(
			"expression_statement", "return_statement", "delete_statement",
			"raise_statement", "pass_statement", "break_statement",
			"continue_statement", "import_statement", "import_from_statement",
			"future_import_statement", "global_statement", "nonlocal_statement",
			"assert_statement", "print_statement", "exec_statement",
			"if_statement", "for_statement", "while_statement", "try_statement",
			"with_statement", "match_statement", "function_definition",
			"class_definition", "decorated_definition",
		),
		blockKinds:    kinds("module", "block"),
		classKinds:    kinds("class_definition"),
		loopElseField: "alternative",
		FunctionName:  pythonFunctionName,
		ReturnType:    func(*sitter.Node, []byte) string { return "" },
		Parameters:    pythonParameters,
		Declares:      pythonDeclares,
		Locals:        pythonLocals,
	}
}

// pythonFunctionName returns the function name, qualified with the class
// name for methods ("Class.method").
func pythonFunctionName(node *sitter.Node, source []byte) string {
	name := fieldText(node, "name", source)
	if cls := pythonFindEnclosingClass(node); cls != nil {
		if clsName := fieldText(cls, "name", source); clsName != "" {
			return clsName + "." + name
		}
	}
	return name
}

func pythonFindEnclosingClass(funcNode *sitter.Node) *sitter.Node {
	parent := funcNode.Parent()
	if parent == nil {
		return nil
	}

	// Direct: func -> block -> class_definition
	if parent.Type() == "block" && parent.Parent() != nil && parent.Parent().Type() == "class_definition" {
		return parent.Parent()
	}

	// Decorated: func -> decorated_definition -> block -> class_definition
	if parent.Type() == "decorated_definition" {
		gp := parent.Parent()
		if gp != nil && gp.Type() == "block" && gp.Parent() != nil && gp.Parent().Type() == "class_definition" {
			return gp.Parent()
		}
	}

	return nil
}

// pythonParameters returns the parameter names of a function_definition,
// splats included.
func pythonParameters(node *sitter.Node, source []byte) []string {
	params := node.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}
	var out []string
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case "identifier":
			out = append(out, NodeText(p, source))
		case "default_parameter", "typed_default_parameter":
			if n := fieldText(p, "name", source); n != "" {
				out = append(out, n)
			}
		case "typed_parameter", "list_splat_pattern", "dictionary_splat_pattern":
			for j := 0; j < int(p.NamedChildCount()); j++ {
				if id := p.NamedChild(j); id.Type() == "identifier" {
					out = append(out, NodeText(id, source))
					break
				}
			}
		}
	}
	return out
}

// Assignment targets that do not bind a plain name.
var pythonTargetStop = kinds("attribute", "subscript")

// pythonDeclares returns the names a statement binds: definitions, plain
// assignment targets, loop targets and import aliases.
func pythonDeclares(node *sitter.Node, source []byte) []string {
	switch node.Type() {
	case "function_definition", "class_definition":
		if n := fieldText(node, "name", source); n != "" {
			return []string{n}
		}
	case "decorated_definition":
		if def := node.ChildByFieldName("definition"); def != nil {
			return pythonDeclares(def, source)
		}
	case "for_statement":
		return identifiers(node.ChildByFieldName("left"), source, pythonTargetStop)
	case "expression_statement":
		var out []string
		for i := 0; i < int(node.NamedChildCount()); i++ {
			out = append(out, pythonAssigned(node.NamedChild(i), source)...)
		}
		return out
	case "import_statement", "import_from_statement":
		return pythonImported(node, source)
	case "with_statement":
		return pythonWithTargets(node, source)
	}
	return nil
}

// pythonLocals binds the exception name of an except clause, which Python
// unbinds when the handler ends.
func pythonLocals(node *sitter.Node, source []byte) []string {
	if node.Type() != "except_clause" {
		return nil
	}
	if alias := node.ChildByFieldName("alias"); alias != nil {
		return pythonTargetNames(alias, source)
	}
	var exprs []*sitter.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "block":
		case "as_pattern":
			return pythonTargetNames(child.ChildByFieldName("alias"), source)
		default:
			exprs = append(exprs, child)
		}
	}
	// except E, e
	if len(exprs) >= 2 {
		return pythonTargetNames(exprs[1], source)
	}
	return nil
}

// pythonWithTargets collects the "as" targets of every with item.
func pythonWithTargets(node *sitter.Node, source []byte) []string {
	var out []string
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if n.Type() == "block" {
			return
		}
		if n.Type() == "with_item" {
			if alias := n.ChildByFieldName("alias"); alias != nil {
				out = append(out, pythonTargetNames(alias, source)...)
			} else if v := n.ChildByFieldName("value"); v != nil && v.Type() == "as_pattern" {
				out = append(out, pythonTargetNames(v.ChildByFieldName("alias"), source)...)
			}
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			visit(n.NamedChild(i))
		}
	}
	visit(node)
	return out
}

// pythonTargetNames returns the plain names bound by a target expression.
func pythonTargetNames(node *sitter.Node, source []byte) []string {
	if node == nil {
		return nil
	}
	if node.Type() == "as_pattern_target" && node.NamedChildCount() == 0 {
		return []string{NodeText(node, source)}
	}
	return identifiers(node, source, pythonTargetStop)
}

// pythonAssigned follows chained assignments (a = b = 1) collecting targets.
func pythonAssigned(node *sitter.Node, source []byte) []string {
	if node.Type() != "assignment" {
		return nil
	}
	out := identifiers(node.ChildByFieldName("left"), source, pythonTargetStop)
	if right := node.ChildByFieldName("right"); right != nil {
		out = append(out, pythonAssigned(right, source)...)
	}
	return out
}

func pythonImported(node *sitter.Node, source []byte) []string {
	module := node.ChildByFieldName("module_name")
	var out []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if module != nil && child.StartByte() == module.StartByte() {
			continue
		}
		switch child.Type() {
		case "aliased_import":
			if a := fieldText(child, "alias", source); a != "" {
				out = append(out, a)
			}
		case "dotted_name":
			// "import a.b" binds a.
			if first := child.NamedChild(0); first != nil {
				out = append(out, NodeText(first, source))
			}
		}
	}
	return out
}
