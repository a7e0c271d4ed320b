package analyzer

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/viant/astgraph/graph"
	"github.com/viant/astgraph/parse"
)

// FunctionBodyContext is the shared state one FunctionBodyAnalyzer pass
// over a single function/method body threads through every handler (spec
// §4.4): a dynamic scope stack (via ScopeTracker), monotonic counters for
// naming, a dedup set so a node reachable through more than one handler
// (e.g. a call expression's callee is also a member_expression) is only
// emitted once, the parameter name table HOF-invocation detection needs,
// and the running ControlFlow summary that is written back onto the
// enclosing FUNCTION/METHOD record when the walk finishes.
type FunctionBodyContext struct {
	buf    *Buffer
	scope  *ScopeTracker
	file   string
	fn     *Record
	plugin Plugin

	cf ControlFlow

	paramIndex    map[string]int
	invokedParams map[int]bool

	inits map[string]*sitter.Node
	vars  map[string]*Record

	visited map[[2]uint32]bool

	branchCount, loopCount, caseCount, logicalOpCount int

	// tryBlockDepth/loopDepth are the running nesting counters spec §4.4
	// assigns to FunctionBodyContext: tryBlockDepth increments entering a
	// try body and decrements on every exit path (catch/finally/normal),
	// loopDepth increments/decrements around a loop body, both net zero
	// once the function body walk returns (spec §3 invariant 6, §8).
	tryBlockDepth, loopDepth int

	// async marks whether the function this context walks is itself async,
	// so ThrowHandler can distinguish a sync throw from one that surfaces as
	// an implicit promise rejection (spec §4.4.3: "kind = sync_throw/async_throw").
	async bool

	// promiseCtor/resolveName/rejectName are set when this context is
	// walking a `new Promise((resolve, reject) => {...})` executor body, so
	// CallExpressionHandler can recognize resolve(...)/reject(...) calls and
	// link them back to the Promise's own CONSTRUCTOR_CALL (spec §4.4.8,
	// scenario 2).
	promiseCtor            *Record
	resolveName, rejectName string

	// maxTraceDepth bounds AsyncErrorTracer lookups from this context
	// (Config.MaxAsyncTraceDepth); defaults to asyncErrorTraceDepth.
	maxTraceDepth int

	// enclosingClass is the name of the class this context's method belongs
	// to, set by passes.go's emitMethod and propagated to every nested
	// function/callback context created from it, so a `this.foo` call
	// argument can be resolved to its enclosing class without reusing
	// ScopeFunctionBody (ambiguously shared between class and method scopes)
	// as a stand-in class marker.
	enclosingClass string

	// baseScopeDepth is the ScopeTracker stack depth at the moment this
	// context was created (i.e. the function body's own scope, not any
	// scope pushed while walking it). ReturnYieldHandler uses it to test
	// whether a return/yield sits inside a conditional ancestor without
	// reaching into an outer function's scopes via KindsAbove.
	baseScopeDepth int
}

// NewFunctionBodyContext prepares a traversal context for one function
// body. params lists the parameter names in declaration order, used for
// HOF-style "this callback argument is itself invoked" detection (spec
// §4.4.8).
func NewFunctionBodyContext(buf *Buffer, scope *ScopeTracker, file string, fn *Record, params []string, plugin Plugin) *FunctionBodyContext {
	c := &FunctionBodyContext{
		buf: buf, scope: scope, file: file, fn: fn, plugin: plugin,
		paramIndex:     map[string]int{},
		invokedParams:  map[int]bool{},
		inits:          map[string]*sitter.Node{},
		vars:           map[string]*Record{},
		visited:        map[[2]uint32]bool{},
		maxTraceDepth:  asyncErrorTraceDepth,
		baseScopeDepth: scope.Depth(),
	}
	for i, p := range params {
		c.paramIndex[p] = i
	}
	return c
}

// InitializerOf implements Initializer for AsyncErrorTracer.
func (c *FunctionBodyContext) InitializerOf(name string) *sitter.Node { return c.inits[name] }

// Finish writes the accumulated ControlFlow summary onto the enclosing
// function record. Call once after Walk returns.
func (c *FunctionBodyContext) Finish(async, generator, arrow, isAssignment, isCallback bool, parentScopeID string) {
	c.cf.HasBranches = c.branchCount > 0
	c.cf.HasLoops = c.loopCount > 0
	complexity := 1 + c.branchCount + c.loopCount + c.caseCount + c.logicalOpCount
	c.cf.CyclomaticComplexity = complexity

	invoked := make([]int, 0, len(c.invokedParams))
	for idx := range c.invokedParams {
		invoked = append(invoked, idx)
	}
	c.fn.SetFunctionAttrs(async, generator, arrow, isAssignment, isCallback, parentScopeID, c.cf, invoked)
}

func (c *FunctionBodyContext) markVisited(n *sitter.Node) bool {
	key := [2]uint32{n.StartByte(), n.EndByte()}
	if c.visited[key] {
		return false
	}
	c.visited[key] = true
	return true
}

func (c *FunctionBodyContext) add(r *Record, kind, name string) *Record {
	if c.plugin != nil && !c.plugin.BeforeNode(r) {
		return nil
	}
	id := c.buf.Add(r, kind, name, c.scope.ScopePath())
	if c.plugin != nil {
		c.plugin.AfterIdentifier(r, r.ID)
	}
	_ = id
	return r
}

// addWithID registers r under an already-computed, coordinate-based id
// (spec §6.5's EXPRESSION/CONSTRUCTOR_CALL forms), bypassing semantic id
// generation entirely since those ids are stable by construction and never
// need collision resolution.
func (c *FunctionBodyContext) addWithID(r *Record, id string) *Record {
	if c.plugin != nil && !c.plugin.BeforeNode(r) {
		return nil
	}
	c.buf.AddWithID(r, id)
	if c.plugin != nil {
		c.plugin.AfterIdentifier(r, r.ID)
	}
	return r
}

// Walk traverses a function body statement block, dispatching each
// statement/expression kind to the matching spec §4.4 handler. Node types
// with no dedicated handling fall through to a generic recursive descent so
// nothing nested is silently skipped.
func (c *FunctionBodyContext) Walk(n *sitter.Node, src []byte) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "lexical_declaration", "variable_declaration":
		c.handleVariableDeclaration(n, src)
		return

	case "return_statement":
		if containsConditionalKind(c.scope.KindsAbove(c.baseScopeDepth)) {
			c.cf.HasEarlyReturn = true
		}
		c.emitReturnValue(graph.EdgeReturns, n.NamedChild(0), src)
		return

	case "throw_statement":
		c.handleThrow(n, src)
		return

	case "function_declaration", "function", "arrow_function", "generator_function":
		c.handleNestedFunction(n, src, false)
		return

	case "for_statement":
		c.handleLoop(n, src, ScopeForLoop)
		return
	case "for_in_statement":
		kind := ScopeForIn
		if isForOf(n, src) {
			kind = ScopeForOf
		}
		c.handleLoop(n, src, kind)
		return
	case "while_statement":
		c.handleLoop(n, src, ScopeWhile)
		return
	case "do_statement":
		c.handleLoop(n, src, ScopeDoWhile)
		return

	case "try_statement":
		c.handleTryCatch(n, src)
		return

	case "if_statement":
		c.handleIf(n, src)
		return

	case "ternary_expression":
		c.branchCount++
		c.emitBranch("ternary", n, src)
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c.Walk(n.NamedChild(i), src)
		}
		return

	case "switch_statement":
		c.handleSwitch(n, src)
		return

	case "call_expression":
		c.handleCallExpression(n, src, false)
		return

	case "new_expression":
		c.handleNewExpression(n, src)
		return

	case "await_expression":
		if inner := n.NamedChild(0); inner != nil {
			if inner.Type() == "call_expression" {
				c.handleCallExpression(inner, src, true)
			} else {
				c.Walk(inner, src)
			}
		}
		return

	case "member_expression":
		c.handlePropertyAccess(n, src)
		return

	case "update_expression":
		c.handleUpdateExpression(n, src)
		return

	case "assignment_expression":
		c.handleAssignment(n, src)
		return

	case "logical_expression":
		c.logicalOpCount++

	case "yield_expression":
		c.emitReturnValue(graph.EdgeYields, n.NamedChild(0), src)
		return
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		c.Walk(n.NamedChild(i), src)
	}
}

// conditionalScopeKinds are the scope kinds a return/yield can sit inside
// that make it an early return rather than the function's single exit point
// (spec §3's HasEarlyReturn: "inside any conditional ancestor").
var conditionalScopeKinds = map[ScopeKind]bool{
	ScopeIf: true, ScopeElse: true, ScopeSwitchCase: true,
	ScopeForLoop: true, ScopeForIn: true, ScopeForOf: true,
	ScopeWhile: true, ScopeDoWhile: true,
	ScopeTry: true, ScopeCatch: true,
}

func containsConditionalKind(kinds []ScopeKind) bool {
	for _, k := range kinds {
		if conditionalScopeKinds[k] {
			return true
		}
	}
	return false
}

// emitReturnValue resolves arg's value source (mirroring
// resolveValueSource's call/constructor-call emission) and links c.fn to it
// via edgeKind (RETURNS/YIELDS), so the returned/yielded value is visible in
// the graph the same way an assigned variable's initializer is. A bare
// variable reference links to its existing VARIABLE/CONSTANT record rather
// than synthesizing a new node.
func (c *FunctionBodyContext) emitReturnValue(edgeKind graph.EdgeKind, arg *sitter.Node, src []byte) {
	if arg == nil {
		return
	}
	source, sourceRec := c.resolveValueSource(arg, src)
	if sourceRec != nil {
		c.fn.LinkTo(sourceRec, edgeKind, nil)
		return
	}
	if source.Kind == SourceVariable {
		if v := c.vars[source.Identifier]; v != nil {
			c.fn.LinkTo(v, edgeKind, nil)
		}
	}
	// resolveValueSource already emitted the CALL/CONSTRUCTOR_CALL record
	// itself; only re-walk here for the shapes it left untouched, same guard
	// handleVariableDeclaration uses.
	c.Walk(arg, src)
}

func isForOf(n *sitter.Node, src []byte) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c != nil && c.Type() == "of" {
			return true
		}
	}
	return false
}

func (c *FunctionBodyContext) handleVariableDeclaration(n *sitter.Node, src []byte) {
	isConstant := false
	if kw := n.Child(0); kw != nil && parse.Text(kw, src) == "const" {
		isConstant = true
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		decl := n.NamedChild(i)
		if decl == nil || decl.Type() != "variable_declarator" {
			continue
		}
		name := decl.ChildByFieldName("name")
		value := decl.ChildByFieldName("value")
		if name == nil {
			continue
		}

		if name.Type() == "object_pattern" || name.Type() == "array_pattern" {
			bindings := ExtractPattern(name, src)
			source, sourceRec := c.resolveValueSource(value, src)
			line, col := parse.Position(name)
			isConst := isConstant && len(bindings) > 0 && source.Kind == SourceLiteral
			var srcVarRec *Record
			if source.Kind == SourceVariable {
				srcVarRec = c.vars[source.Identifier]
			}
			recs := EmitDestructuring(c.buf, c.scope, bindings, isConst, c.file, line, col, source, sourceRec, srcVarRec)
			for _, r := range recs {
				c.vars[r.Name] = r
				c.inits[r.Name] = value
			}
			if sourceRec == nil && value != nil {
				c.Walk(value, src)
			}
			continue
		}

		if name.Type() != "identifier" {
			continue
		}
		varName := parse.Text(name, src)
		line, col := parse.Position(name)
		source, sourceRec := c.resolveValueSource(value, src)
		isConst := isConstant && isConstantInitializer(source)
		vr := NewVariableRecord(isConst, varName, c.file, line, col)
		c.add(vr, string(vr.Kind), varName)
		c.vars[varName] = vr
		c.inits[varName] = value
		if sourceRec != nil {
			vr.LinkTo(sourceRec, graph.EdgeAssignedFrom, nil)
		} else if value != nil {
			// Only re-walk when resolveValueSource didn't already emit a
			// CALL/CONSTRUCTOR_CALL record for value itself, to avoid
			// double-emitting it here.
			c.Walk(value, src)
		}
	}
}

func isConstantInitializer(source ValueSource) bool {
	switch source.Kind {
	case SourceLiteral, SourceConstructorCall:
		return true
	}
	return false
}

// resolveValueSource classifies value and, for call-shaped sources, emits
// the corresponding CALL/CONSTRUCTOR_CALL record so callers can link a
// VARIABLE to it (spec §4.5, §4.6).
func (c *FunctionBodyContext) resolveValueSource(value *sitter.Node, src []byte) (ValueSource, *Record) {
	if value == nil {
		return ValueSource{Kind: SourceUnknown}, nil
	}
	isAwaited := false
	node := value
	if node.Type() == "await_expression" {
		isAwaited = true
		node = node.NamedChild(0)
		if node == nil {
			return ValueSource{Kind: SourceUnknown}, nil
		}
	}
	source := Classify(node, src)
	switch source.Kind {
	case SourceCallSite, SourceMethodCall:
		return source, c.emitCall(node, src, source, isAwaited)
	case SourceConstructorCall:
		return source, c.handleNewExpression(node, src)
	}
	return source, nil
}

// handleThrow records a throw-point, distinguishing a plain sync throw from
// one inside an async function — which surfaces to callers as an implicit
// promise rejection (spec §4.4.3: "kind = sync_throw/async_throw").
func (c *FunctionBodyContext) handleThrow(n *sitter.Node, src []byte) {
	c.cf.HasThrow = true
	arg := n.NamedChild(0)
	if arg == nil {
		return
	}
	target := arg
	className, ok := "", false
	if arg.Type() == "identifier" {
		// A thrown parameter is the variable_parameter pattern (spec
		// §4.4.3): it forwards an already-caught error and has nothing to
		// trace, so TraceErrorOrigin is skipped for it.
		if _, isParam := c.paramIndex[parse.Text(arg, src)]; !isParam {
			className, ok = TraceErrorOrigin(parse.Text(arg, src), c, src, c.maxTraceDepth)
		}
	} else if arg.Type() == "new_expression" {
		if ctor := arg.ChildByFieldName("constructor"); ctor != nil {
			className, ok = parse.Text(ctor, src), true
		}
	}
	if ok {
		if c.async {
			c.cf.HasAsyncThrow = true
			c.cf.CanReject = true
			c.cf.RejectedBuiltinErrors = append(c.cf.RejectedBuiltinErrors, className)
		} else {
			c.cf.ThrownBuiltinErrors = append(c.cf.ThrownBuiltinErrors, className)
		}
	}
	c.Walk(target, src)
}

func (c *FunctionBodyContext) handleNestedFunction(n *sitter.Node, src []byte, isCallback bool) *Record {
	name := ""
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		name = parse.Text(nameNode, src)
	}
	line, col := parse.Position(n)
	kind := graph.KindFunction
	async := hasLeadingKeyword(n, src, "async")
	generator := n.Type() == "generator_function" || n.ChildByFieldName("generator") != nil

	scopeKind := ScopeClosure
	if n.Type() == "arrow_function" {
		scopeKind = ScopeArrowBody
	} else if isCallback {
		scopeKind = ScopeCallbackBody
	}

	if name != "" {
		c.scope.EnterScope(name, scopeKind)
	} else {
		c.scope.EnterCountedScope(scopeKind)
	}
	defer c.scope.ExitScope()

	fnName := name
	if fnName == "" {
		fnName = "<anonymous>"
	}
	fr := NewFunctionRecord(kind, fnName, c.file, line, col)
	c.add(fr, string(kind), fnName)
	fr.LinkFrom(c.fn, graph.EdgeContains, nil)
	c.emitBodyScope(scopeKind, fr, fr, false, "", c.fn)

	params := paramNames(n, src)
	body := n.ChildByFieldName("body")
	child := NewFunctionBodyContext(c.buf, c.scope, c.file, fr, params, c.plugin)
	child.async = async
	child.maxTraceDepth = c.maxTraceDepth
	child.enclosingClass = c.enclosingClass
	child.Walk(body, src)
	child.Finish(async, generator, n.Type() == "arrow_function", false, isCallback, c.fn.ID)

	return fr
}

func hasLeadingKeyword(n *sitter.Node, src []byte, kw string) bool {
	c := n.Child(0)
	return c != nil && parse.Text(c, src) == kw
}

func paramNames(n *sitter.Node, src []byte) []string {
	params := n.ChildByFieldName("parameters")
	if params == nil {
		if p := n.ChildByFieldName("parameter"); p != nil {
			return []string{parse.Text(p, src)}
		}
		return nil
	}
	var names []string
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		if p == nil {
			continue
		}
		switch p.Type() {
		case "identifier":
			names = append(names, parse.Text(p, src))
		case "assignment_pattern":
			if left := p.ChildByFieldName("left"); left != nil {
				names = append(names, parse.Text(left, src))
			}
		default:
			names = append(names, "")
		}
	}
	return names
}

func (c *FunctionBodyContext) handleLoop(n *sitter.Node, src []byte, kind ScopeKind) {
	c.loopCount++
	line, col := parse.Position(n)
	loop := NewLoopRecord(kind, c.file, line, col, nil)
	c.add(loop, string(graph.KindLoop), "")
	loop.LinkFrom(c.fn, graph.EdgeContains, nil)

	c.scope.EnterCountedScope(kind)
	c.emitBodyScope(kind, loop, c.fn, false, "", nil)
	c.loopDepth++
	defer func() {
		c.loopDepth--
		c.scope.ExitScope()
	}()

	body := n.ChildByFieldName("body")
	c.Walk(body, src)
}

func (c *FunctionBodyContext) handleTryCatch(n *sitter.Node, src []byte) {
	c.cf.HasTryCatch = true
	line, col := parse.Position(n)
	try := NewTryRecord(c.file, line, col)
	c.add(try, string(graph.KindTryBlock), "")
	try.LinkFrom(c.fn, graph.EdgeContains, nil)

	body := n.ChildByFieldName("body")
	c.scope.EnterCountedScope(ScopeTry)
	c.emitBodyScope(ScopeTry, try, c.fn, false, "", nil)
	c.tryBlockDepth++
	c.Walk(body, src)
	c.tryBlockDepth--
	c.scope.ExitScope()

	if handler := n.ChildByFieldName("handler"); handler != nil {
		paramName := ""
		if p := handler.ChildByFieldName("parameter"); p != nil {
			paramName = parse.Text(p, src)
		}
		cLine, cCol := parse.Position(handler)
		catch := NewCatchRecord(paramName, c.file, cLine, cCol)
		c.add(catch, string(graph.KindCatchBlock), paramName)
		catch.LinkTo(try, graph.EdgeHasCatch, nil)

		c.scope.EnterCountedScope(ScopeCatch)
		c.emitBodyScope(ScopeCatch, catch, c.fn, false, "", nil)
		if hBody := handler.ChildByFieldName("body"); hBody != nil {
			c.Walk(hBody, src)
		}
		c.scope.ExitScope()
	}

	if finalizer := n.ChildByFieldName("finalizer"); finalizer != nil {
		fLine, fCol := parse.Position(finalizer)
		fin := NewFinallyRecord(c.file, fLine, fCol)
		c.add(fin, string(graph.KindFinallyBlock), "")
		fin.LinkTo(try, graph.EdgeHasFinally, nil)

		c.scope.EnterCountedScope(ScopeFinally)
		c.emitBodyScope(ScopeFinally, fin, c.fn, false, "", nil)
		c.Walk(finalizer, src)
		c.scope.ExitScope()
	}
}

func (c *FunctionBodyContext) handleIf(n *sitter.Node, src []byte) {
	c.branchCount++
	branch := c.emitBranch("if", n, src)

	cond := n.ChildByFieldName("condition")
	condText := ""
	if cond != nil {
		condText = parse.Text(cond, src)
		c.Walk(cond, src)
	}

	if cons := n.ChildByFieldName("consequence"); cons != nil {
		c.scope.EnterCountedScope(ScopeIf)
		c.emitBodyScope(ScopeIf, branch, c.fn, true, condText, nil)
		c.Walk(cons, src)
		c.scope.ExitScope()
	}
	if alt := n.ChildByFieldName("alternative"); alt != nil {
		c.scope.EnterCountedScope(ScopeElse)
		c.emitBodyScope(ScopeElse, branch, c.fn, true, condText, nil)
		c.Walk(alt, src)
		c.scope.ExitScope()
	}
}

// emitBodyScope records the SCOPE node for a body about to be walked,
// parented to the control construct that owns it rather than to whatever
// scope happens to be active (spec §3 invariant 2). owner is the nearest
// enclosing function-like record (FUNCTION/METHOD, or the MODULE itself for
// top-level control flow) that the scope's parentFunctionId attribute
// should name; parent is the node the HAS_SCOPE edge originates from
// (BRANCH/LOOP/TRY_BLOCK/CATCH_BLOCK/FINALLY_BLOCK/CASE, or the FUNCTION
// record itself for a closure/arrow/callback body). capturesFrom, when
// non-nil, links the scope back to the function it closes over via CAPTURES
// (spec §4.4's closure capture wiring).
func (c *FunctionBodyContext) emitBodyScope(kind ScopeKind, parent, owner *Record, conditional bool, condition string, capturesFrom *Record) *Record {
	semanticID := c.scope.ScopePath()
	ownerID, parentID, capturesFromID := "", "", ""
	if owner != nil {
		ownerID = owner.ID
	}
	if parent != nil {
		parentID = parent.ID
	}
	if capturesFrom != nil {
		capturesFromID = capturesFrom.ID
	}
	sr := NewScopeRecord(kind, semanticID, parentID, ownerID, c.file, parent.Line, parent.Column, conditional, condition, capturesFromID)
	c.add(sr, string(graph.KindScope), "")
	if parent != nil {
		sr.LinkFrom(parent, graph.EdgeHasScope, nil)
	}
	if capturesFrom != nil {
		sr.LinkTo(capturesFrom, graph.EdgeCaptures, nil)
	}
	return sr
}

func (c *FunctionBodyContext) emitBranch(kind string, n *sitter.Node, src []byte) *Record {
	line, col := parse.Position(n)
	br := NewBranchRecord(kind, c.file, line, col)
	c.add(br, string(graph.KindBranch), "")
	br.LinkFrom(c.fn, graph.EdgeContains, nil)
	return br
}

func (c *FunctionBodyContext) handleSwitch(n *sitter.Node, src []byte) {
	body := n.ChildByFieldName("body")
	if body == nil {
		return
	}
	c.branchCount++
	branch := c.emitBranch("switch", n, src)

	if discriminant := n.ChildByFieldName("value"); discriminant != nil {
		c.Walk(discriminant, src)
	}

	for i := 0; i < int(body.NamedChildCount()); i++ {
		clause := body.NamedChild(i)
		if clause == nil {
			continue
		}
		isDefault := clause.Type() == "switch_default"
		value := ""
		if !isDefault {
			if v := clause.ChildByFieldName("value"); v != nil {
				value = parse.Text(v, src)
			}
			// Only non-default clauses count as distinct cases for
			// cyclomatic complexity; default is the fallback path, not an
			// additional decision point.
			c.caseCount++
		}
		line, col := parse.Position(clause)
		fallsThrough, isEmpty := analyzeCaseBody(clause)
		cs := NewCaseRecord(value, isDefault, fallsThrough, isEmpty, c.file, line, col)
		c.add(cs, string(graph.KindCase), value)
		cs.LinkFrom(branch, graph.EdgeContains, nil)

		c.scope.EnterCountedScope(ScopeSwitchCase)
		c.emitBodyScope(ScopeSwitchCase, cs, c.fn, !isDefault, value, nil)
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			stmt := clause.NamedChild(j)
			if stmt != nil && stmt.Type() != "switch_default" {
				c.Walk(stmt, src)
			}
		}
		c.scope.ExitScope()
	}
}

func analyzeCaseBody(clause *sitter.Node) (fallsThrough, isEmpty bool) {
	count := int(clause.NamedChildCount())
	statementCount := 0
	hasBreakOrReturn := false
	for i := 0; i < count; i++ {
		s := clause.NamedChild(i)
		if s == nil {
			continue
		}
		if s.Type() == "break_statement" || s.Type() == "return_statement" || s.Type() == "throw_statement" {
			hasBreakOrReturn = true
		}
		statementCount++
	}
	return !hasBreakOrReturn && statementCount > 0, statementCount == 0
}

func (c *FunctionBodyContext) handleCallExpression(n *sitter.Node, src []byte, isAwaited bool) {
	if !c.markVisited(n) {
		return
	}
	fn := n.ChildByFieldName("function")
	args := n.ChildByFieldName("arguments")

	if fn != nil && fn.Type() == "identifier" {
		if idx, ok := c.paramIndex[parse.Text(fn, src)]; ok {
			c.invokedParams[idx] = true
		}
	}

	if c.promiseCtor != nil && fn != nil && fn.Type() == "identifier" {
		if name := parse.Text(fn, src); name != "" && (name == c.resolveName || name == c.rejectName) {
			c.emitPromiseResolution(n, name, args, src)
			return
		}
	}

	if target, method, baseObjectName, propertyName, nested, ok := ArrayMutationCall(n, src); ok {
		line, col := parse.Position(n)
		insertedValues := classifyInsertedValues(method, args, src)
		m := NewArrayMutationRecord(method, target, nil, nested, baseObjectName, propertyName, insertedValues, c.file, line, col)
		c.add(m, string(graph.KindArrayMutation), target)
		if v := c.vars[target]; v != nil {
			m.LinkTo(v, graph.EdgeModifies, nil)
		} else if nested {
			if v := c.vars[baseObjectName]; v != nil {
				m.LinkTo(v, graph.EdgeModifies, nil)
			}
		}
		c.walkArguments(args, src)
		return
	}
	if target, ok := ObjectAssignCall(n, src); ok {
		line, col := parse.Position(n)
		m := NewObjectMutationRecord("assign", target, "", false, c.file, line, col)
		c.add(m, string(graph.KindObjectMutation), target)
		if v := c.vars[target]; v != nil {
			m.LinkTo(v, graph.EdgeModifies, nil)
		}
		c.walkArguments(args, src)
		return
	}

	call := c.emitCall(n, src, Classify(n, src), isAwaited)

	if args != nil {
		for i := 0; i < int(args.NamedChildCount()); i++ {
			arg := args.NamedChild(i)
			if arg == nil {
				continue
			}
			if arg.Type() == "arrow_function" || arg.Type() == "function" {
				c.handleNestedFunction(arg, src, true)
				continue
			}
			if c.emitCallArgument(call, arg, i, src) {
				continue
			}
			c.Walk(arg, src)
		}
	}
}

func (c *FunctionBodyContext) walkArguments(args *sitter.Node, src []byte) {
	if args == nil {
		return
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		c.Walk(args.NamedChild(i), src)
	}
}

func (c *FunctionBodyContext) emitCall(n *sitter.Node, src []byte, source ValueSource, isAwaited bool) *Record {
	kind := graph.KindCall
	name := source.Identifier
	if source.Kind == SourceMethodCall {
		name = source.Object + "." + source.Method
	}
	line, col := parse.Position(n)
	call := NewCallRecord(kind, name, c.file, line, col)
	c.add(call, string(kind), name)
	isInsideTry := c.tryBlockDepth > 0
	isInsideLoop := isAwaited && c.loopDepth > 0
	call.SetCallAttrs(source.Object, source.Method, false, isAwaited, isInsideTry, isInsideLoop, source.Kind == SourceMethodCall)
	call.LinkFrom(c.fn, graph.EdgeCalls, nil)
	return call
}

// emitCallArgument classifies one call argument and links call to it via
// PASSES_ARGUMENT with its positional index and spread flag. A bare
// variable reference links directly to its existing VARIABLE/CONSTANT
// record; a `this.prop` receiver carries enclosingClass so the argument
// records which class's instance is being passed; every other shape gets
// its own coordinate-id value-anchor record (spec §4.4.8). Reports whether
// it fully handled arg itself (call-shaped, member-shaped) so the caller
// knows not to also Walk into it and double-emit.
func (c *FunctionBodyContext) emitCallArgument(call *Record, arg *sitter.Node, index int, src []byte) bool {
	if arg == nil || call == nil {
		return false
	}
	spread := arg.Type() == "spread_element"
	target := arg
	if spread {
		if inner := arg.NamedChild(0); inner != nil {
			target = inner
		}
	}
	attrs := map[string]interface{}{"index": index, "spread": spread}
	source := Classify(target, src)
	line, col := parse.Position(target)

	switch source.Kind {
	case SourceVariable:
		if v := c.vars[source.Identifier]; v != nil {
			v.LinkTo(call, graph.EdgePassesArgument, attrs)
		}
		return false

	case SourceMemberExpr:
		obj := target.ChildByFieldName("object")
		prop := target.ChildByFieldName("property")
		objText, propText := parse.Text(obj, src), parse.Text(prop, src)
		attrs["object"] = objText
		attrs["property"] = propText
		if objText == "this" && c.enclosingClass != "" {
			attrs["enclosingClass"] = c.enclosingClass
		}
		pr := NewExpressionRecord(graph.KindPropertyAccess, c.file, line, col, map[string]interface{}{
			"object": objText, "property": propText,
		})
		disc := c.scope.ItemCounter("call-arg-member")
		c.addWithID(pr, fmt.Sprintf("%s:EXPRESSION:MemberExpression:%d:%d:%d", c.file, line, col, disc))
		pr.LinkTo(call, graph.EdgePassesArgument, attrs)
		return true

	case SourceCallSite, SourceMethodCall:
		argCall := c.emitCall(target, src, source, false)
		argCall.LinkTo(call, graph.EdgePassesArgument, attrs)
		return true

	case SourceConstructorCall:
		if ctorRec := c.handleNewExpression(target, src); ctorRec != nil {
			ctorRec.LinkTo(call, graph.EdgePassesArgument, attrs)
		}
		return true

	case SourceFunction:
		// A function-literal argument gets no record or edge here; the
		// caller's Walk of it reaches handleNestedFunction, which records it
		// as its own FUNCTION node linked from the enclosing function by
		// CONTAINS (no PASSES_ARGUMENT or HAS_CALLBACK edge is added).
		return false
	}

	exprRec := NewExpressionRecord(graph.KindExpression, c.file, line, col, map[string]interface{}{"text": parse.Text(target, src)})
	c.addWithID(exprRec, Expression(c.file, target.Type(), line, col))
	exprRec.LinkTo(call, graph.EdgePassesArgument, attrs)
	return false
}

// emitPromiseResolution records a resolve(...)/reject(...) call made inside
// a Promise executor body, linking it back to the Promise's own
// CONSTRUCTOR_CALL and, for reject(...), tracing the rejected value back to
// a builtin error class the same way a throw-statement does (spec §4.4.8,
// scenario 2).
func (c *FunctionBodyContext) emitPromiseResolution(n *sitter.Node, name string, args *sitter.Node, src []byte) {
	line, col := parse.Position(n)
	call := NewCallRecord(graph.KindCall, name, c.file, line, col)
	c.add(call, string(graph.KindCall), name)
	call.SetCallAttrs("", "", false, false, c.tryBlockDepth > 0, false, false)
	call.LinkFrom(c.fn, graph.EdgeCalls, nil)

	isReject := name == c.rejectName
	edgeKind := graph.EdgeResolvesTo
	if isReject {
		edgeKind = graph.EdgeRejects
		c.cf.CanReject = true
	}
	call.LinkTo(c.promiseCtor, edgeKind, nil)

	if args == nil || args.NamedChildCount() == 0 {
		return
	}
	arg := args.NamedChild(0)
	if isReject {
		switch arg.Type() {
		case "new_expression":
			if ctor := arg.ChildByFieldName("constructor"); ctor != nil {
				c.cf.RejectedBuiltinErrors = append(c.cf.RejectedBuiltinErrors, parse.Text(ctor, src))
			}
		case "identifier":
			if className, ok := TraceErrorOrigin(parse.Text(arg, src), c, src, c.maxTraceDepth); ok {
				c.cf.RejectedBuiltinErrors = append(c.cf.RejectedBuiltinErrors, className)
			}
		}
	}
	c.Walk(arg, src)
}

func (c *FunctionBodyContext) handleNewExpression(n *sitter.Node, src []byte) *Record {
	if !c.markVisited(n) {
		return nil
	}
	record := c.emitConstructorCall(n, src)

	if parse.Text(n.ChildByFieldName("constructor"), src) == "Promise" {
		args := n.ChildByFieldName("arguments")
		if args != nil && args.NamedChildCount() > 0 {
			executor := args.NamedChild(0)
			if executor.Type() == "arrow_function" || executor.Type() == "function" {
				fr := c.handlePromiseExecutor(executor, src, record)
				fr.LinkTo(record, graph.EdgeDerivesFrom, nil)
				return record
			}
		}
	}

	if args := n.ChildByFieldName("arguments"); args != nil {
		for i := 0; i < int(args.NamedChildCount()); i++ {
			arg := args.NamedChild(i)
			if arg == nil {
				continue
			}
			if c.emitCallArgument(record, arg, i, src) {
				continue
			}
			c.Walk(arg, src)
		}
	}
	return record
}

// handlePromiseExecutor walks a `new Promise((resolve, reject) => {...})`
// executor body in its own FunctionBodyContext, registering the resolve/
// reject parameter names and the Promise's CONSTRUCTOR_CALL so
// CallExpressionHandler can recognize resolve(...)/reject(...) calls inside
// it and link them back (spec §4.4.8, scenario 2). AsyncErrorTracer must
// never walk into the executor params as if they were regular variables
// (spec §4.4's promise-executor registration), so both names are seeded
// with a nil initializer up front.
func (c *FunctionBodyContext) handlePromiseExecutor(n *sitter.Node, src []byte, ctor *Record) *Record {
	line, col := parse.Position(n)
	async := hasLeadingKeyword(n, src, "async")

	c.scope.EnterCountedScope(ScopeCallbackBody)
	defer c.scope.ExitScope()

	fr := NewFunctionRecord(graph.KindFunction, "<anonymous>", c.file, line, col)
	c.add(fr, string(graph.KindFunction), "<anonymous>")
	fr.LinkFrom(c.fn, graph.EdgeContains, nil)
	c.emitBodyScope(ScopeCallbackBody, fr, fr, false, "", c.fn)

	params := paramNames(n, src)
	body := n.ChildByFieldName("body")
	child := NewFunctionBodyContext(c.buf, c.scope, c.file, fr, params, c.plugin)
	child.async = async
	child.maxTraceDepth = c.maxTraceDepth
	child.enclosingClass = c.enclosingClass
	child.promiseCtor = ctor
	if len(params) > 0 {
		child.resolveName = params[0]
		child.inits[params[0]] = nil
	}
	if len(params) > 1 {
		child.rejectName = params[1]
		child.inits[params[1]] = nil
	}
	child.Walk(body, src)
	child.Finish(async, false, n.Type() == "arrow_function", false, true, c.fn.ID)
	return fr
}

func (c *FunctionBodyContext) emitConstructorCall(n *sitter.Node, src []byte) *Record {
	ctor := n.ChildByFieldName("constructor")
	name := parse.Text(ctor, src)
	line, col := parse.Position(n)
	rec := NewCallRecord(graph.KindConstructorCall, name, c.file, line, col)
	c.addWithID(rec, ConstructorCall(c.file, name, line, col))
	rec.SetCallAttrs("", "", true, false, c.tryBlockDepth > 0, false, false)
	rec.LinkFrom(c.fn, graph.EdgeCalls, nil)
	return rec
}

func (c *FunctionBodyContext) handlePropertyAccess(n *sitter.Node, src []byte) {
	if n.Parent() != nil {
		switch n.Parent().Type() {
		case "call_expression", "new_expression":
			// Owned by CallExpressionHandler/NewExpressionHandler; do not
			// double-emit the callee's member chain as a standalone access.
			if n.Parent().ChildByFieldName("function") == n || n.Parent().ChildByFieldName("constructor") == n {
				obj := n.ChildByFieldName("object")
				c.Walk(obj, src)
				return
			}
		}
	}
	if !c.markVisited(n) {
		return
	}
	obj := n.ChildByFieldName("object")
	prop := n.ChildByFieldName("property")
	line, col := parse.Position(n)
	pa := NewExpressionRecord(graph.KindPropertyAccess, c.file, line, col, map[string]interface{}{
		"object":   parse.Text(obj, src),
		"property": parse.Text(prop, src),
	})
	c.add(pa, string(graph.KindPropertyAccess), parse.Text(prop, src))
	c.Walk(obj, src)
}

func (c *FunctionBodyContext) handleUpdateExpression(n *sitter.Node, src []byte) {
	target, operator, prefix, ok := UpdateExpressionTarget(n, src)
	if !ok {
		return
	}
	line, col := parse.Position(n)
	u := NewUpdateExpressionRecord(target, operator, prefix, c.file, line, col)
	c.add(u, string(graph.KindUpdateExpr), target)
	if v := c.vars[target]; v != nil {
		u.LinkTo(v, graph.EdgeModifies, nil)
	}
}

func (c *FunctionBodyContext) handleAssignment(n *sitter.Node, src []byte) {
	if target, idx, ok := IndexedArrayWrite(n, src); ok {
		line, col := parse.Position(n)
		m := NewArrayMutationRecord("index-write", target, &idx, false, "", "", nil, c.file, line, col)
		c.add(m, string(graph.KindArrayMutation), target)
		if v := c.vars[target]; v != nil {
			m.LinkTo(v, graph.EdgeModifies, nil)
		}
		if right := n.ChildByFieldName("right"); right != nil {
			c.Walk(right, src)
		}
		return
	}
	if target, property, computed, ok := ObjectPropertyWrite(n, src); ok {
		line, col := parse.Position(n)
		m := NewObjectMutationRecord("property-write", target, property, computed, c.file, line, col)
		c.add(m, string(graph.KindObjectMutation), target)
		if v := c.vars[target]; v != nil {
			m.LinkTo(v, graph.EdgeModifies, nil)
		}
		if right := n.ChildByFieldName("right"); right != nil {
			c.Walk(right, src)
		}
		return
	}
	if right := n.ChildByFieldName("right"); right != nil {
		c.Walk(right, src)
	}
}
