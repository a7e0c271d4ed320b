package graph

import "context"

// NodeIterator streams nodes from a QueryNodes call.
type NodeIterator interface {
	Next(ctx context.Context) (*Node, bool, error)
	Close() error
}

// Writer is the external graph-store collaborator the analyzer targets
// (spec §6.1). The analyzer never holds state across modules: it buffers
// everything a module produces, then hands the buffer to Build, which wraps
// it in one Begin/Commit bracket. Implementations must make Begin/Commit/Abort
// safe for concurrent callers, one active batch per caller (spec §5).
type Writer interface {
	QueryNodes(ctx context.Context, filter NodeFilter) (NodeIterator, error)
	UpdateNode(ctx context.Context, n *Node) error
	AddNodes(ctx context.Context, nodes []*Node) error
	AddEdges(ctx context.Context, edges []*Edge) error

	BeginBatch(ctx context.Context) error
	// CommitBatch finalizes the active batch. deferIndex postpones index
	// rebuilds until RebuildIndexes is called explicitly; neither
	// ModuleAnalyzer nor WorkerOrchestrator calls it. pinnedTypes hints which
	// node kinds must be queryable immediately even when deferIndex is set.
	CommitBatch(ctx context.Context, tags ProvenanceTags, deferIndex bool, pinnedTypes []NodeKind) error
	AbortBatch(ctx context.Context) error

	RebuildIndexes(ctx context.Context) error
}

// Build buffers and commits one module's worth of nodes and edges in a
// single batch, aborting on any failure. This is the call ModuleAnalyzer
// makes once per module after collision resolution (spec §4.1).
func Build(ctx context.Context, w Writer, tags ProvenanceTags, nodes []*Node, edges []*Edge, deferIndex bool) error {
	if err := w.BeginBatch(ctx); err != nil {
		return err
	}
	if err := w.AddNodes(ctx, nodes); err != nil {
		_ = w.AbortBatch(ctx)
		return err
	}
	if err := w.AddEdges(ctx, edges); err != nil {
		_ = w.AbortBatch(ctx)
		return err
	}
	if err := w.CommitBatch(ctx, tags, deferIndex, nil); err != nil {
		_ = w.AbortBatch(ctx)
		return err
	}
	return nil
}
