package analyzer

import "github.com/viant/astgraph/graph"

// Record is one buffered emission. Kind is a closed token set only by the
// New*Record constructors below (spec §9's "Duck-typed record objects ...
// Model each record kind as a tagged variant"). Attrs is an open map: each
// constructor seeds the keys its Kind starts with, and some handlers add
// more afterwards (e.g. EmitDestructuring's "destructured"/"sourcePath",
// StampModule's "contentHash").
//
// Edges reference their target by a pointer into the target record's ID
// field rather than by a copied string, so a target whose semantic ID is
// later rewritten by CollisionResolver is still resolved correctly when the
// buffer is finally built — no separate pre/post remap table is needed
// (spec §4.3's "any subsequent record that referenced an old id ... is
// remapped via a pre/post id table" is satisfied here by construction,
// generalizing spec §9's own suggested fix: never stringify an id
// reference before resolution has happened).
type Record struct {
	ID     string
	Kind   graph.NodeKind
	Name   string
	File   string
	Line   int
	Column int
	Attrs  map[string]interface{}
	edges  []edgeSpec
}

type edgeSpec struct {
	target  *string
	literal string // used when the edge target isn't itself a Record (e.g. an external id)
	kind    graph.EdgeKind
	attrs   map[string]interface{}
	reverse bool
}

// LinkTo adds r --kind--> other.
func (r *Record) LinkTo(other *Record, kind graph.EdgeKind, attrs map[string]interface{}) {
	if r == nil || other == nil {
		return
	}
	r.edges = append(r.edges, edgeSpec{target: &other.ID, kind: kind, attrs: attrs})
}

// LinkFrom adds other --kind--> r.
func (r *Record) LinkFrom(other *Record, kind graph.EdgeKind, attrs map[string]interface{}) {
	if r == nil || other == nil {
		return
	}
	r.edges = append(r.edges, edgeSpec{target: &other.ID, kind: kind, attrs: attrs, reverse: true})
}

// LinkToID adds r --kind--> a literal, already-resolved id (used for edges
// into nodes outside this module, e.g. EXTERNAL_MODULE placeholders).
func (r *Record) LinkToID(id string, kind graph.EdgeKind, attrs map[string]interface{}) {
	if r == nil || id == "" {
		return
	}
	r.edges = append(r.edges, edgeSpec{literal: id, kind: kind, attrs: attrs})
}

// ControlFlow is the per-function summary spec §3's FUNCTION/METHOD node
// carries, accumulated by FunctionBodyContext during traversal.
type ControlFlow struct {
	HasBranches             bool
	HasLoops                bool
	HasTryCatch             bool
	HasEarlyReturn          bool
	HasThrow                bool
	CyclomaticComplexity    int
	CanReject               bool
	HasAsyncThrow           bool
	RejectedBuiltinErrors   []string
	ThrownBuiltinErrors     []string
}

func (cf ControlFlow) toAttrs() map[string]interface{} {
	return map[string]interface{}{
		"hasBranches":           cf.HasBranches,
		"hasLoops":              cf.HasLoops,
		"hasTryCatch":           cf.HasTryCatch,
		"hasEarlyReturn":        cf.HasEarlyReturn,
		"hasThrow":              cf.HasThrow,
		"cyclomaticComplexity":  cf.CyclomaticComplexity,
		"canReject":             cf.CanReject,
		"hasAsyncThrow":         cf.HasAsyncThrow,
		"rejectedBuiltinErrors": cf.RejectedBuiltinErrors,
		"thrownBuiltinErrors":   cf.ThrownBuiltinErrors,
	}
}

// NewFunctionRecord emits a FUNCTION or METHOD node (Kind chosen by caller).
func NewFunctionRecord(kind graph.NodeKind, name, file string, line, col int) *Record {
	return &Record{Kind: kind, Name: name, File: file, Line: line, Column: col, Attrs: map[string]interface{}{}}
}

// SetFunctionAttrs fills in FUNCTION/METHOD-specific attributes once known.
func (r *Record) SetFunctionAttrs(async, generator, arrow, isAssignment, isCallback bool, parentScopeID string, cf ControlFlow, invokesParamIndexes []int) {
	r.Attrs["async"] = async
	r.Attrs["generator"] = generator
	r.Attrs["arrow"] = arrow
	r.Attrs["isAssignment"] = isAssignment
	r.Attrs["isCallback"] = isCallback
	r.Attrs["parentScopeId"] = parentScopeID
	for k, v := range cf.toAttrs() {
		r.Attrs[k] = v
	}
	r.Attrs["invokesParamIndexes"] = invokesParamIndexes
}

// NewScopeRecord emits a SCOPE node.
func NewScopeRecord(scopeType ScopeKind, semanticID, parentScopeID, parentFunctionID, file string, line, col int, conditional bool, condition, capturesFrom string) *Record {
	return &Record{
		Kind: graph.KindScope,
		File: file, Line: line, Column: col,
		Attrs: map[string]interface{}{
			"scopeType":        string(scopeType),
			"conditional":      conditional,
			"condition":        condition,
			"semanticId":       semanticID,
			"parentScopeId":    parentScopeID,
			"parentFunctionId": parentFunctionID,
			"capturesFrom":     capturesFrom,
		},
	}
}

// NewVariableRecord emits a VARIABLE or CONSTANT node (kind chosen per §3's
// rule: CONSTANT iff declared immutable AND the initializer is a literal,
// new-expression, or loop-binding).
func NewVariableRecord(isConstant bool, name, file string, line, col int) *Record {
	k := graph.KindVariable
	if isConstant {
		k = graph.KindConstant
	}
	return &Record{Kind: k, Name: name, File: file, Line: line, Column: col, Attrs: map[string]interface{}{}}
}

// NewBranchRecord emits a BRANCH node (if/ternary/switch).
func NewBranchRecord(branchType, file string, line, col int) *Record {
	return &Record{Kind: graph.KindBranch, File: file, Line: line, Column: col, Attrs: map[string]interface{}{"branchType": branchType}}
}

// NewCaseRecord emits a CASE node (a switch clause).
func NewCaseRecord(value string, isDefault, fallsThrough, isEmpty bool, file string, line, col int) *Record {
	return &Record{Kind: graph.KindCase, File: file, Line: line, Column: col, Attrs: map[string]interface{}{
		"value": value, "isDefault": isDefault, "fallsThrough": fallsThrough, "isEmpty": isEmpty,
	}}
}

// NewLoopRecord emits a LOOP node.
func NewLoopRecord(kind ScopeKind, file string, line, col int, attrs map[string]interface{}) *Record {
	if attrs == nil {
		attrs = map[string]interface{}{}
	}
	attrs["loopKind"] = string(kind)
	return &Record{Kind: graph.KindLoop, File: file, Line: line, Column: col, Attrs: attrs}
}

// NewTryRecord / NewCatchRecord / NewFinallyRecord emit the three control
// anchors TryCatchHandler produces (spec §4.4.6).
func NewTryRecord(file string, line, col int) *Record {
	return &Record{Kind: graph.KindTryBlock, File: file, Line: line, Column: col, Attrs: map[string]interface{}{}}
}

func NewCatchRecord(paramName, file string, line, col int) *Record {
	return &Record{Kind: graph.KindCatchBlock, File: file, Line: line, Column: col, Attrs: map[string]interface{}{"parameter": paramName}}
}

func NewFinallyRecord(file string, line, col int) *Record {
	return &Record{Kind: graph.KindFinallyBlock, File: file, Line: line, Column: col, Attrs: map[string]interface{}{}}
}

// NewCallRecord emits a CALL or CONSTRUCTOR_CALL node.
func NewCallRecord(kind graph.NodeKind, name, file string, line, col int) *Record {
	return &Record{Kind: kind, Name: name, File: file, Line: line, Column: col, Attrs: map[string]interface{}{}}
}

func (r *Record) SetCallAttrs(object, method string, isNew, isAwaited, isInsideTry, isInsideLoop, isMethodCall bool) {
	r.Attrs["object"] = object
	r.Attrs["method"] = method
	r.Attrs["isNew"] = isNew
	r.Attrs["isAwaited"] = isAwaited
	r.Attrs["isInsideTry"] = isInsideTry
	r.Attrs["isInsideLoop"] = isInsideLoop
	r.Attrs["isMethodCall"] = isMethodCall
}

// NewExpressionRecord emits a generic value-anchor node: LITERAL,
// EXPRESSION, OBJECT_LITERAL, ARRAY_LITERAL, or PROPERTY_ACCESS.
func NewExpressionRecord(kind graph.NodeKind, file string, line, col int, attrs map[string]interface{}) *Record {
	if attrs == nil {
		attrs = map[string]interface{}{}
	}
	return &Record{Kind: kind, File: file, Line: line, Column: col, Attrs: attrs}
}

// NewMutationRecord emits an ARRAY_MUTATION / OBJECT_MUTATION /
// UPDATE_EXPRESSION node.
func NewMutationRecord(kind graph.NodeKind, file string, line, col int, attrs map[string]interface{}) *Record {
	if attrs == nil {
		attrs = map[string]interface{}{}
	}
	return &Record{Kind: kind, File: file, Line: line, Column: col, Attrs: attrs}
}

// NewLinkageRecord emits IMPORT / EXPORT / EXTERNAL_MODULE nodes.
func NewLinkageRecord(kind graph.NodeKind, name, file string, line, col int, attrs map[string]interface{}) *Record {
	if attrs == nil {
		attrs = map[string]interface{}{}
	}
	return &Record{Kind: kind, Name: name, File: file, Line: line, Column: col, Attrs: attrs}
}

// Buffer accumulates every Record emitted during one module's traversal,
// along with the IDGenerator registrations needed for collision resolution.
// It is module-scoped: created fresh per module and dropped after Build,
// matching the Lifecycle rule in spec §3 ("No record survives past the
// module's commit").
type Buffer struct {
	IDs     *IDGenerator
	records []*Record
}

// NewBuffer creates an empty per-module record buffer.
func NewBuffer() *Buffer {
	return &Buffer{IDs: NewIDGenerator()}
}

// Add registers r for emission and assigns it a semantic ID via the
// buffer's IDGenerator.
func (b *Buffer) Add(r *Record, kind, name, scopePath string) *Record {
	b.IDs.Semantic(&r.ID, kind, name, scopePath)
	b.records = append(b.records, r)
	return r
}

// AddWithID registers r with an already-computed id (coordinate-based ids
// like EXPRESSION/CONSTRUCTOR_CALL, which are stable by construction and
// never need collision resolution).
func (b *Buffer) AddWithID(r *Record, id string) *Record {
	r.ID = id
	b.records = append(b.records, r)
	return r
}

// Build resolves id collisions, then converts every buffered record into
// graph nodes/edges. Collision resolution runs exactly once, just before
// build, per spec §3's Lifecycle rule.
func (b *Buffer) Build() ([]*graph.Node, []*graph.Edge) {
	CollisionResolver{}.Resolve(b.IDs.regs)

	nodes := make([]*graph.Node, 0, len(b.records))
	var edges []*graph.Edge
	for _, r := range b.records {
		nodes = append(nodes, &graph.Node{
			ID: r.ID, Kind: r.Kind, Name: r.Name, File: r.File, Line: r.Line, Column: r.Column, Attrs: r.Attrs,
		})
		for _, e := range r.edges {
			to := e.literal
			if e.target != nil {
				to = *e.target
			}
			from, dst := r.ID, to
			if e.reverse {
				from, dst = to, from
			}
			if from == "" || dst == "" {
				// The other endpoint was vetoed by Plugin.BeforeNode and
				// never received an id.
				continue
			}
			edges = append(edges, &graph.Edge{From: from, To: dst, Kind: e.kind, Attrs: e.attrs})
		}
	}
	return nodes, edges
}
