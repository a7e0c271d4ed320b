package graph

import (
	"context"
	"errors"
	"sync"
)

// MemoryWriter is a simple in-process Writer used by tests and by callers
// running the analyzer standalone without a real graph store. It generalizes
// the teacher's flat IRGraph (analyzer/graph_exporter.go's buildIRGraph) into
// the buffered begin/commit/abort protocol spec.md §6.1 requires. Its
// methods are guarded by mutexes, but it holds one batch for all callers:
// BeginBatch fails while another caller's batch is open.
type MemoryWriter struct {
	mu    sync.Mutex
	nodes map[string]*Node
	edges []*Edge

	batchMu    sync.Mutex
	inBatch    bool
	pendNodes  []*Node
	pendEdges  []*Edge
	indexDirty bool
}

// NewMemoryWriter creates an empty in-memory graph store.
func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{nodes: map[string]*Node{}}
}

func (m *MemoryWriter) BeginBatch(ctx context.Context) error {
	m.batchMu.Lock()
	defer m.batchMu.Unlock()
	if m.inBatch {
		return &WriterError{Kind: FailureFatal, Err: errors.New("graph: batch already in progress")}
	}
	m.inBatch = true
	m.pendNodes = nil
	m.pendEdges = nil
	return nil
}

func (m *MemoryWriter) AddNodes(ctx context.Context, nodes []*Node) error {
	m.batchMu.Lock()
	defer m.batchMu.Unlock()
	if !m.inBatch {
		return &WriterError{Kind: FailureFatal, Err: errors.New("graph: AddNodes outside batch")}
	}
	m.pendNodes = append(m.pendNodes, nodes...)
	return nil
}

func (m *MemoryWriter) AddEdges(ctx context.Context, edges []*Edge) error {
	m.batchMu.Lock()
	defer m.batchMu.Unlock()
	if !m.inBatch {
		return &WriterError{Kind: FailureFatal, Err: errors.New("graph: AddEdges outside batch")}
	}
	m.pendEdges = append(m.pendEdges, edges...)
	return nil
}

func (m *MemoryWriter) CommitBatch(ctx context.Context, tags ProvenanceTags, deferIndex bool, pinnedTypes []NodeKind) error {
	m.batchMu.Lock()
	nodes, edges := m.pendNodes, m.pendEdges
	m.inBatch = false
	m.pendNodes, m.pendEdges = nil, nil
	m.batchMu.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range nodes {
		if n == nil || n.ID == "" {
			return &WriterError{Kind: FailureDataQuality, Err: errors.New("graph: node missing id")}
		}
	}
	for _, n := range nodes {
		m.nodes[n.ID] = n
	}
	m.edges = append(m.edges, edges...)
	if !deferIndex {
		m.indexDirty = false
	} else {
		m.indexDirty = true
	}
	return nil
}

func (m *MemoryWriter) AbortBatch(ctx context.Context) error {
	m.batchMu.Lock()
	defer m.batchMu.Unlock()
	m.inBatch = false
	m.pendNodes, m.pendEdges = nil, nil
	return nil
}

func (m *MemoryWriter) RebuildIndexes(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indexDirty = false
	return nil
}

func (m *MemoryWriter) UpdateNode(ctx context.Context, n *Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n == nil || n.ID == "" {
		return &WriterError{Kind: FailureDataQuality, Err: errors.New("graph: node missing id")}
	}
	m.nodes[n.ID] = n
	return nil
}

type memoryIterator struct {
	items []*Node
	pos   int
}

func (it *memoryIterator) Next(ctx context.Context) (*Node, bool, error) {
	if it.pos >= len(it.items) {
		return nil, false, nil
	}
	n := it.items[it.pos]
	it.pos++
	return n, true, nil
}

func (it *memoryIterator) Close() error { return nil }

func (m *MemoryWriter) QueryNodes(ctx context.Context, filter NodeFilter) (NodeIterator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Node
	for _, n := range m.nodes {
		if filter.Kind != "" && n.Kind != filter.Kind {
			continue
		}
		if filter.File != "" && n.File != filter.File {
			continue
		}
		if filter.Name != "" && n.Name != filter.Name {
			continue
		}
		out = append(out, n)
	}
	return &memoryIterator{items: out}, nil
}

// Nodes returns a snapshot slice of all committed nodes, for assertions in
// tests.
func (m *MemoryWriter) Nodes() []*Node {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Node, 0, len(m.nodes))
	for _, n := range m.nodes {
		out = append(out, n)
	}
	return out
}

// Edges returns a snapshot slice of all committed edges, for assertions in
// tests.
func (m *MemoryWriter) Edges() []*Edge {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Edge, len(m.edges))
	copy(out, m.edges)
	return out
}
