package analyzer

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/viant/astgraph/graph"
	"github.com/viant/astgraph/parse"
)

// moduleContext is ModuleAnalyzer's per-module working state: the record
// buffer, the module-wide scope tracker, and the module's own Record (every
// top-level pass attaches CONTAINS edges back to it).
type moduleContext struct {
	buf           *Buffer
	scope         *ScopeTracker
	file          string
	module        *Record
	plugin        Plugin
	maxTraceDepth int
}

// newFunctionContext builds a FunctionBodyContext for fn carrying mc's
// configured AsyncErrorTracer depth (Config.MaxAsyncTraceDepth), so every
// pass that walks a function/method body honors WithMaxAsyncTraceDepth
// instead of silently falling back to the package default.
func newFunctionContext(mc *moduleContext, fn *Record, params []string) *FunctionBodyContext {
	ctx := NewFunctionBodyContext(mc.buf, mc.scope, mc.file, fn, params, mc.plugin)
	if mc.maxTraceDepth > 0 {
		ctx.maxTraceDepth = mc.maxTraceDepth
	}
	return ctx
}

// runModulePasses walks every top-level statement of the module's root
// program node through the 13 ordered passes spec §4.1 lists, in that fixed
// order. Each pass builds its own FunctionBodyContext, so the bindings one
// pass records (its vars/inits tables) are not visible to later passes.
func runModulePasses(mc *moduleContext, root *sitter.Node, src []byte) {
	children := topLevelStatements(root)

	passImportsExports(mc, children, src)
	passVariables(mc, children, src)
	passFunctions(mc, children, src)
	passAssignedFunctions(mc, children, src)
	passModuleUpdateExpressions(mc, children, src)
	passClasses(mc, children, src)
	passSupersetConstructs(mc, children, src)
	passInlineCallbacks(mc, children, src)
	passCallExpressions(mc, children, src)
	passTopLevelAwait(mc, children, src)
	passPropertyAccesses(mc, children, src)
	passNewExpressions(mc, children, src)
	passIfStatements(mc, children, src)
}

func topLevelStatements(root *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(root.NamedChildCount()); i++ {
		out = append(out, root.NamedChild(i))
	}
	return out
}

// passImportsExports emits IMPORT/EXPORT/EXTERNAL_MODULE nodes for every
// top-level import/export statement.
func passImportsExports(mc *moduleContext, stmts []*sitter.Node, src []byte) {
	for _, n := range stmts {
		switch n.Type() {
		case "import_statement":
			source := n.ChildByFieldName("source")
			modulePath := unquote(parse.Text(source, src))
			line, col := parse.Position(n)
			ext := NewLinkageRecord(graph.KindExternalModule, modulePath, mc.file, line, col, nil)
			mc.buf.AddWithID(ext, "EXTERNAL_MODULE#"+modulePath)

			for i := 0; i < int(n.NamedChildCount()); i++ {
				clause := n.NamedChild(i)
				if clause == nil || clause.Type() != "import_clause" {
					continue
				}
				for j := 0; j < int(clause.NamedChildCount()); j++ {
					spec := clause.NamedChild(j)
					names := importedNames(spec, src)
					for _, name := range names {
						imp := NewLinkageRecord(graph.KindImport, name, mc.file, line, col, map[string]interface{}{"from": modulePath})
						mc.buf.Add(imp, string(graph.KindImport), name, mc.scope.ScopePath())
						imp.LinkTo(ext, graph.EdgeImportsFrom, nil)
						mc.module.LinkTo(imp, graph.EdgeImports, nil)
					}
				}
			}

		case "export_statement":
			line, col := parse.Position(n)
			name := exportedName(n, src)
			exp := NewLinkageRecord(graph.KindExport, name, mc.file, line, col, nil)
			mc.buf.Add(exp, string(graph.KindExport), name, mc.scope.ScopePath())
			mc.module.LinkFrom(exp, graph.EdgeContains, nil)
		}
	}
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'' || s[0] == '`') {
		return s[1 : len(s)-1]
	}
	return s
}

func importedNames(spec *sitter.Node, src []byte) []string {
	if spec == nil {
		return nil
	}
	switch spec.Type() {
	case "identifier":
		return []string{parse.Text(spec, src)}
	case "named_imports":
		var names []string
		for i := 0; i < int(spec.NamedChildCount()); i++ {
			s := spec.NamedChild(i)
			if s == nil {
				continue
			}
			if alias := s.ChildByFieldName("alias"); alias != nil {
				names = append(names, parse.Text(alias, src))
			} else if nm := s.ChildByFieldName("name"); nm != nil {
				names = append(names, parse.Text(nm, src))
			}
		}
		return names
	case "namespace_import":
		if nm := spec.NamedChild(0); nm != nil {
			return []string{parse.Text(nm, src)}
		}
	}
	return nil
}

func exportedName(n *sitter.Node, src []byte) string {
	decl := n.ChildByFieldName("declaration")
	if decl == nil {
		return ""
	}
	if nm := decl.ChildByFieldName("name"); nm != nil {
		return parse.Text(nm, src)
	}
	return parse.Text(decl, src)
}

// passVariables emits top-level VARIABLE/CONSTANT nodes, reusing
// FunctionBodyContext's declaration handling by running it directly at
// module scope.
func passVariables(mc *moduleContext, stmts []*sitter.Node, src []byte) {
	ctx := newFunctionContext(mc, mc.module, nil)
	for _, n := range stmts {
		if n.Type() == "lexical_declaration" || n.Type() == "variable_declaration" {
			ctx.handleVariableDeclaration(n, src)
		}
	}
}

// passFunctions emits one FUNCTION record per top-level function
// declaration and runs FunctionBodyAnalyzer over its body.
func passFunctions(mc *moduleContext, stmts []*sitter.Node, src []byte) {
	for _, n := range stmts {
		if n.Type() != "function_declaration" && n.Type() != "generator_function_declaration" {
			continue
		}
		emitTopLevelFunction(mc, n, src, false)
	}
}

func emitTopLevelFunction(mc *moduleContext, n *sitter.Node, src []byte, isAssignment bool) *Record {
	nameNode := n.ChildByFieldName("name")
	name := parse.Text(nameNode, src)
	if name == "" {
		name = "<anonymous>"
	}
	line, col := parse.Position(n)
	async := hasLeadingKeyword(n, src, "async")
	generator := n.Type() == "generator_function_declaration"

	mc.scope.EnterScope(name, ScopeFunctionBody)
	defer mc.scope.ExitScope()

	fr := NewFunctionRecord(graph.KindFunction, name, mc.file, line, col)
	mc.buf.Add(fr, string(graph.KindFunction), name, mc.scope.ScopePath())
	fr.LinkFrom(mc.module, graph.EdgeContains, nil)

	params := paramNames(n, src)
	body := n.ChildByFieldName("body")
	ctx := newFunctionContext(mc, fr, params)
	ctx.async = async
	ctx.Walk(body, src)
	ctx.Finish(async, generator, false, isAssignment, false, mc.module.ID)
	return fr
}

// passAssignedFunctions handles `const x = function() {}` / `x =
// () => {}` forms at module scope, where the function is bound through an
// assignment rather than a declaration keyword.
func passAssignedFunctions(mc *moduleContext, stmts []*sitter.Node, src []byte) {
	for _, n := range stmts {
		if n.Type() != "expression_statement" {
			continue
		}
		expr := n.NamedChild(0)
		if expr == nil || expr.Type() != "assignment_expression" {
			continue
		}
		right := expr.ChildByFieldName("right")
		if right == nil {
			continue
		}
		if right.Type() == "function" || right.Type() == "arrow_function" || right.Type() == "generator_function" {
			left := expr.ChildByFieldName("left")
			name := parse.Text(left, src)
			emitAssignedFunction(mc, right, name, src)
		}
	}
}

func emitAssignedFunction(mc *moduleContext, n *sitter.Node, name string, src []byte) *Record {
	line, col := parse.Position(n)
	async := hasLeadingKeyword(n, src, "async")
	kind := graph.KindFunction

	mc.scope.EnterScope(name, ScopeFunctionBody)
	defer mc.scope.ExitScope()

	fr := NewFunctionRecord(kind, name, mc.file, line, col)
	mc.buf.Add(fr, string(kind), name, mc.scope.ScopePath())
	fr.LinkFrom(mc.module, graph.EdgeContains, nil)

	params := paramNames(n, src)
	body := n.ChildByFieldName("body")
	ctx := newFunctionContext(mc, fr, params)
	ctx.async = async
	ctx.Walk(body, src)
	ctx.Finish(async, false, n.Type() == "arrow_function", true, false, mc.module.ID)
	return fr
}

// passModuleUpdateExpressions catches bare `x++;` statements at module
// scope (function bodies handle their own via FunctionBodyContext).
func passModuleUpdateExpressions(mc *moduleContext, stmts []*sitter.Node, src []byte) {
	ctx := newFunctionContext(mc, mc.module, nil)
	for _, n := range stmts {
		if n.Type() == "expression_statement" {
			if expr := n.NamedChild(0); expr != nil && expr.Type() == "update_expression" {
				ctx.handleUpdateExpression(expr, src)
			}
		}
	}
}

// passClasses emits CLASS nodes with their METHOD members (each run through
// FunctionBodyAnalyzer) per spec §4.1.
func passClasses(mc *moduleContext, stmts []*sitter.Node, src []byte) {
	for _, n := range stmts {
		if n.Type() != "class_declaration" {
			continue
		}
		nameNode := n.ChildByFieldName("name")
		name := parse.Text(nameNode, src)
		line, col := parse.Position(n)

		cls := NewExpressionRecord(graph.KindClass, mc.file, line, col, map[string]interface{}{})
		mc.buf.Add(cls, string(graph.KindClass), name, mc.scope.ScopePath())
		cls.Name = name
		cls.LinkFrom(mc.module, graph.EdgeContains, nil)

		if heritage := n.ChildByFieldName("heritage"); heritage != nil {
			super := parse.Text(heritage, src)
			cls.Attrs["extends"] = super
		}

		mc.scope.EnterScope(name, ScopeFunctionBody)
		body := n.ChildByFieldName("body")
		for i := 0; i < int(body.NamedChildCount()); i++ {
			member := body.NamedChild(i)
			if member == nil || member.Type() != "method_definition" {
				continue
			}
			emitMethod(mc, cls, member, src)
		}
		mc.scope.ExitScope()
	}
}

func emitMethod(mc *moduleContext, cls *Record, n *sitter.Node, src []byte) {
	nameNode := n.ChildByFieldName("name")
	name := parse.Text(nameNode, src)
	line, col := parse.Position(n)
	async := hasLeadingKeyword(n, src, "async")

	mc.scope.EnterScope(name, ScopeFunctionBody)
	defer mc.scope.ExitScope()

	mr := NewFunctionRecord(graph.KindMethod, name, mc.file, line, col)
	mc.buf.Add(mr, string(graph.KindMethod), name, mc.scope.ScopePath())
	mr.LinkFrom(cls, graph.EdgeContains, nil)

	params := paramNames(n, src)
	body := n.ChildByFieldName("body")
	ctx := newFunctionContext(mc, mr, params)
	ctx.enclosingClass = cls.Name
	ctx.async = async
	ctx.Walk(body, src)
	ctx.Finish(async, false, false, false, false, cls.ID)
}

// passSupersetConstructs emits INTERFACE/TYPE/ENUM/DECORATOR nodes for
// top-level statements of those node types (spec §4.1, §6.2's "legacy
// decorators"). The javascript grammar parse.TreeSitterParser uses produces
// none of them as top-level statements: it has no interface, type-alias or
// enum declarations, and it attaches decorators to their class. With that
// parser this pass emits nothing.
func passSupersetConstructs(mc *moduleContext, stmts []*sitter.Node, src []byte) {
	for _, n := range stmts {
		switch n.Type() {
		case "interface_declaration":
			emitSupersetNode(mc, graph.KindInterface, n, src)
		case "type_alias_declaration":
			emitSupersetNode(mc, graph.KindType, n, src)
		case "enum_declaration":
			emitSupersetNode(mc, graph.KindEnum, n, src)
		case "decorator":
			emitSupersetNode(mc, graph.KindDecorator, n, src)
		}
	}
}

func emitSupersetNode(mc *moduleContext, kind graph.NodeKind, n *sitter.Node, src []byte) *Record {
	nameNode := n.ChildByFieldName("name")
	name := parse.Text(nameNode, src)
	line, col := parse.Position(n)
	r := NewExpressionRecord(kind, mc.file, line, col, map[string]interface{}{})
	r.Name = name
	mc.buf.Add(r, string(kind), name, mc.scope.ScopePath())
	r.LinkFrom(mc.module, graph.EdgeContains, nil)
	return r
}

// passInlineCallbacks handles module-level `foo(function() {...})` /
// `foo(() => {...})` statements: the call itself is handled by
// passCallExpressions, but its callback argument's body still needs a
// FunctionBodyAnalyzer pass, which this does directly via a throwaway
// FunctionBodyContext rooted at module scope.
func passInlineCallbacks(mc *moduleContext, stmts []*sitter.Node, src []byte) {
	for _, n := range stmts {
		if n.Type() != "expression_statement" {
			continue
		}
		expr := n.NamedChild(0)
		if expr == nil || expr.Type() != "call_expression" {
			continue
		}
		args := expr.ChildByFieldName("arguments")
		if args == nil {
			continue
		}
		for i := 0; i < int(args.NamedChildCount()); i++ {
			arg := args.NamedChild(i)
			if arg != nil && (arg.Type() == "arrow_function" || arg.Type() == "function") {
				ctx := newFunctionContext(mc, mc.module, nil)
				ctx.handleNestedFunction(arg, src, true)
			}
		}
	}
}

// passCallExpressions emits CALL/CONSTRUCTOR_CALL nodes for every
// statement-level call not already covered by an earlier pass (assigned
// functions, inline callbacks).
func passCallExpressions(mc *moduleContext, stmts []*sitter.Node, src []byte) {
	ctx := newFunctionContext(mc, mc.module, nil)
	for _, n := range stmts {
		if n.Type() == "expression_statement" {
			if expr := n.NamedChild(0); expr != nil && expr.Type() == "call_expression" {
				ctx.handleCallExpression(expr, src, false)
			}
		}
	}
}

// passTopLevelAwait flags modules using top-level await (spec's superset
// allows it outside async functions at module scope).
func passTopLevelAwait(mc *moduleContext, stmts []*sitter.Node, src []byte) {
	for _, n := range stmts {
		if containsAwait(n) {
			mc.module.Attrs["hasTopLevelAwait"] = true
			return
		}
	}
}

func containsAwait(n *sitter.Node) bool {
	if n == nil {
		return false
	}
	if n.Type() == "await_expression" {
		return true
	}
	if n.Type() == "function" || n.Type() == "arrow_function" || n.Type() == "function_declaration" {
		return false // nested function's own await isn't top-level
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if containsAwait(n.NamedChild(i)) {
			return true
		}
	}
	return false
}

// passPropertyAccesses emits standalone PROPERTY_ACCESS nodes for
// module-level member expressions not already owned by a call/new pass.
func passPropertyAccesses(mc *moduleContext, stmts []*sitter.Node, src []byte) {
	ctx := newFunctionContext(mc, mc.module, nil)
	for _, n := range stmts {
		if n.Type() == "expression_statement" {
			if expr := n.NamedChild(0); expr != nil && expr.Type() == "member_expression" {
				ctx.handlePropertyAccess(expr, src)
			}
		}
	}
}

// passNewExpressions emits CONSTRUCTOR_CALL nodes for module-level `new
// Foo()` statements, registering Promise-executor bodies the same way
// FunctionBodyContext does inside a function.
func passNewExpressions(mc *moduleContext, stmts []*sitter.Node, src []byte) {
	ctx := newFunctionContext(mc, mc.module, nil)
	for _, n := range stmts {
		if n.Type() == "expression_statement" {
			if expr := n.NamedChild(0); expr != nil && expr.Type() == "new_expression" {
				ctx.handleNewExpression(expr, src)
			}
		}
	}
}

// passIfStatements emits BRANCH nodes for module-level if/else statements
// and recurses FunctionBodyAnalyzer into their bodies.
func passIfStatements(mc *moduleContext, stmts []*sitter.Node, src []byte) {
	ctx := newFunctionContext(mc, mc.module, nil)
	for _, n := range stmts {
		if n.Type() == "if_statement" {
			ctx.handleIf(n, src)
		}
	}
}
