// Package graph defines the property-graph wire model the analyzer emits
// into: node and edge kinds, the Writer interface the analyzer buffers
// records against, and a content-hash helper used by the hash gate.
package graph

// NodeKind enumerates every node type the analyzer can emit (spec §6.3).
type NodeKind string

const (
	KindModule          NodeKind = "MODULE"
	KindFunction        NodeKind = "FUNCTION"
	KindMethod          NodeKind = "METHOD"
	KindClass           NodeKind = "CLASS"
	KindInterface       NodeKind = "INTERFACE"
	KindType            NodeKind = "TYPE"
	KindEnum            NodeKind = "ENUM"
	KindDecorator       NodeKind = "DECORATOR"
	KindVariable        NodeKind = "VARIABLE"
	KindConstant        NodeKind = "CONSTANT"
	KindScope           NodeKind = "SCOPE"
	KindCall            NodeKind = "CALL"
	KindConstructorCall NodeKind = "CONSTRUCTOR_CALL"
	KindImport          NodeKind = "IMPORT"
	KindExport          NodeKind = "EXPORT"
	KindExternalModule  NodeKind = "EXTERNAL_MODULE"
	KindLiteral         NodeKind = "LITERAL"
	KindExpression      NodeKind = "EXPRESSION"
	KindObjectLiteral   NodeKind = "OBJECT_LITERAL"
	KindArrayLiteral    NodeKind = "ARRAY_LITERAL"
	KindPropertyAccess  NodeKind = "PROPERTY_ACCESS"
	KindBranch          NodeKind = "BRANCH"
	KindCase            NodeKind = "CASE"
	KindLoop            NodeKind = "LOOP"
	KindTryBlock        NodeKind = "TRY_BLOCK"
	KindCatchBlock      NodeKind = "CATCH_BLOCK"
	KindFinallyBlock    NodeKind = "FINALLY_BLOCK"
	KindArrayMutation   NodeKind = "ARRAY_MUTATION"
	KindObjectMutation  NodeKind = "OBJECT_MUTATION"
	KindUpdateExpr      NodeKind = "UPDATE_EXPRESSION"

	// Instrumentation touchpoints: node kinds for I/O call patterns
	// (console/stdio writes, outbound HTTP clients, inbound HTTP route
	// handlers, event-emitter registrations) (spec §6.3). No analyzer pass
	// emits them.
	KindNetStdio      NodeKind = "net:stdio"
	KindNetRequest    NodeKind = "net:request"
	KindEventListener NodeKind = "event:listener"
	KindHTTPRequest   NodeKind = "http:request"
)

// EdgeKind enumerates every edge type the analyzer can emit (spec §6.4).
type EdgeKind string

const (
	EdgeContains        EdgeKind = "CONTAINS"
	EdgeDeclares        EdgeKind = "DECLARES"
	EdgeCalls           EdgeKind = "CALLS"
	EdgeHasScope        EdgeKind = "HAS_SCOPE"
	EdgeCaptures        EdgeKind = "CAPTURES"
	EdgeModifies        EdgeKind = "MODIFIES"
	EdgeWritesTo        EdgeKind = "WRITES_TO"
	EdgeImports         EdgeKind = "IMPORTS"
	EdgeInstanceOf      EdgeKind = "INSTANCE_OF"
	EdgeHandledBy       EdgeKind = "HANDLED_BY"
	EdgeHasCallback     EdgeKind = "HAS_CALLBACK"
	EdgePassesArgument  EdgeKind = "PASSES_ARGUMENT"
	EdgeMakesRequest    EdgeKind = "MAKES_REQUEST"
	EdgeImportsFrom     EdgeKind = "IMPORTS_FROM"
	EdgeAssignedFrom    EdgeKind = "ASSIGNED_FROM"
	EdgeImplements      EdgeKind = "IMPLEMENTS"
	EdgeExtends         EdgeKind = "EXTENDS"
	EdgeDecoratedBy     EdgeKind = "DECORATED_BY"
	EdgeHasTypeParam    EdgeKind = "HAS_TYPE_PARAMETER"
	EdgeResolvesTo      EdgeKind = "RESOLVES_TO"
	EdgeHasCondition    EdgeKind = "HAS_CONDITION"
	EdgeHasConsequent   EdgeKind = "HAS_CONSEQUENT"
	EdgeHasAlternate    EdgeKind = "HAS_ALTERNATE"
	EdgeHasCatch        EdgeKind = "HAS_CATCH"
	EdgeHasFinally      EdgeKind = "HAS_FINALLY"
	EdgeCatchesFrom      EdgeKind = "CATCHES_FROM"
	EdgeThrows          EdgeKind = "THROWS"
	EdgeRejects         EdgeKind = "REJECTS"
	EdgeDerivesFrom     EdgeKind = "DERIVES_FROM"
	EdgeFlowsInto       EdgeKind = "FLOWS_INTO"
	EdgeReturns         EdgeKind = "RETURNS"
	EdgeYields          EdgeKind = "YIELDS"
	EdgeDelegatesTo     EdgeKind = "DELEGATES_TO"
	EdgeReadsFrom       EdgeKind = "READS_FROM"
	EdgeIteratesOver    EdgeKind = "ITERATES_OVER"
)

// Node is one emitted graph node. Attrs carries kind-specific attributes
// (e.g. a FUNCTION's controlFlow summary, a CALL's isAwaited flag) as a
// loosely-typed bag, mirroring the teacher's IRNode.Properties
// (analyzer/graph_exporter.go) generalized from one flat map-of-identifiers
// to the richer per-kind attribute sets spec.md §3 calls for.
type Node struct {
	ID     string
	Kind   NodeKind
	Name   string
	File   string
	Line   int
	Column int
	Attrs  map[string]interface{}
}

// Edge is one emitted graph edge between two node IDs.
type Edge struct {
	From  string
	To    string
	Kind  EdgeKind
	Attrs map[string]interface{}
}

// ProvenanceTags records who produced a batch, for audit trails, mirroring
// the spec's "(JSASTAnalyzer, ANALYSIS, file)" provenance tuple (spec §4.9).
type ProvenanceTags struct {
	Producer string
	Action   string
	File     string
}

// NodeFilter selects nodes for Writer.QueryNodes.
type NodeFilter struct {
	Kind NodeKind
	File string
	Name string
}

// FailureKind classifies a Writer error per spec §6.1 / §7.
type FailureKind int

const (
	FailureTransient FailureKind = iota
	FailureDataQuality
	FailureFatal
)

// WriterError wraps an underlying error with its failure classification.
type WriterError struct {
	Kind FailureKind
	Err  error
}

func (e *WriterError) Error() string { return e.Err.Error() }
func (e *WriterError) Unwrap() error { return e.Err }
