package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/astgraph/graph"
)

func TestHashGate_ShouldAnalyze(t *testing.T) {
	ctx := context.Background()
	src := []byte("const x = 1;")
	sum, err := graph.Hash(src)
	require.NoError(t, err)

	t.Run("no module node on record", func(t *testing.T) {
		w := graph.NewMemoryWriter()
		should, err := HashGate{}.ShouldAnalyze(ctx, w, "a.js", src)
		require.NoError(t, err)
		assert.True(t, should)
	})

	t.Run("hash matches and a function node exists", func(t *testing.T) {
		w := graph.NewMemoryWriter()
		commitNodes(t, ctx, w, []*graph.Node{
			{ID: "MODULE#a.js", Kind: graph.KindModule, File: "a.js", Attrs: map[string]interface{}{"contentHash": sum}},
			{ID: "FUNCTION#a.js#f", Kind: graph.KindFunction, File: "a.js"},
		})
		should, err := HashGate{}.ShouldAnalyze(ctx, w, "a.js", src)
		require.NoError(t, err)
		assert.False(t, should)
	})

	t.Run("hash matches but no function node exists", func(t *testing.T) {
		w := graph.NewMemoryWriter()
		commitNodes(t, ctx, w, []*graph.Node{
			{ID: "MODULE#a.js", Kind: graph.KindModule, File: "a.js", Attrs: map[string]interface{}{"contentHash": sum}},
		})
		should, err := HashGate{}.ShouldAnalyze(ctx, w, "a.js", src)
		require.NoError(t, err)
		assert.True(t, should)
	})

	t.Run("hash differs", func(t *testing.T) {
		w := graph.NewMemoryWriter()
		commitNodes(t, ctx, w, []*graph.Node{
			{ID: "MODULE#a.js", Kind: graph.KindModule, File: "a.js", Attrs: map[string]interface{}{"contentHash": sum + 1}},
			{ID: "FUNCTION#a.js#f", Kind: graph.KindFunction, File: "a.js"},
		})
		should, err := HashGate{}.ShouldAnalyze(ctx, w, "a.js", src)
		require.NoError(t, err)
		assert.True(t, should)
	})

	t.Run("force bypasses everything", func(t *testing.T) {
		w := graph.NewMemoryWriter()
		commitNodes(t, ctx, w, []*graph.Node{
			{ID: "MODULE#a.js", Kind: graph.KindModule, File: "a.js", Attrs: map[string]interface{}{"contentHash": sum}},
			{ID: "FUNCTION#a.js#f", Kind: graph.KindFunction, File: "a.js"},
		})
		should, err := HashGate{Force: true}.ShouldAnalyze(ctx, w, "a.js", src)
		require.NoError(t, err)
		assert.True(t, should)
	})
}

func commitNodes(t *testing.T, ctx context.Context, w *graph.MemoryWriter, nodes []*graph.Node) {
	t.Helper()
	require.NoError(t, w.BeginBatch(ctx))
	require.NoError(t, w.AddNodes(ctx, nodes))
	require.NoError(t, w.CommitBatch(ctx, graph.ProvenanceTags{}, false, nil))
}
