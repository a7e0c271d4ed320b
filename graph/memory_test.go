package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryWriter_BuildCommit(t *testing.T) {
	ctx := context.Background()
	w := NewMemoryWriter()

	nodes := []*Node{{ID: "MODULE#a", Kind: KindModule, Name: "a.js"}}
	edges := []*Edge{{From: "MODULE#a", To: "FUNCTION#a.f", Kind: EdgeContains}}

	require.NoError(t, Build(ctx, w, ProvenanceTags{Producer: "test"}, nodes, edges, false))
	assert.Len(t, w.Nodes(), 1)
	assert.Len(t, w.Edges(), 1)

	it, err := w.QueryNodes(ctx, NodeFilter{Kind: KindModule})
	require.NoError(t, err)
	n, ok, err := it.Next(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "MODULE#a", n.ID)
}

func TestMemoryWriter_AbortOnDataQuality(t *testing.T) {
	ctx := context.Background()
	w := NewMemoryWriter()
	err := Build(ctx, w, ProvenanceTags{}, []*Node{{ID: ""}}, nil, false)
	require.Error(t, err)
	var werr *WriterError
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, FailureDataQuality, werr.Kind)
	assert.Empty(t, w.Nodes())
}

func TestMemoryWriter_DoubleBeginRejected(t *testing.T) {
	ctx := context.Background()
	w := NewMemoryWriter()
	require.NoError(t, w.BeginBatch(ctx))
	err := w.BeginBatch(ctx)
	require.Error(t, err)
	require.NoError(t, w.AbortBatch(ctx))
}

func TestHash_Deterministic(t *testing.T) {
	h1, err := Hash([]byte("const x = 1;"))
	require.NoError(t, err)
	h2, err := Hash([]byte("const x = 1;"))
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	h3, err := Hash([]byte("const x = 2;"))
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}
