package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/astgraph/parse"
)

func TestExtractPattern_ObjectShallow(t *testing.T) {
	p := parse.NewTreeSitterParser()
	tree, err := p.Parse(context.Background(), []byte("const { a, b } = obj;"))
	require.NoError(t, err)
	decl := tree.Root.NamedChild(0).NamedChild(0)
	name := decl.ChildByFieldName("name")

	bindings := ExtractPattern(name, tree.Source)
	require.Len(t, bindings, 2)
	assert.Equal(t, "a", bindings[0].Name)
	assert.Equal(t, "a", pathStrings(bindings[0].Path))
	assert.Equal(t, "b", bindings[1].Name)
}

func TestExtractPattern_NestedObjectAndArray(t *testing.T) {
	p := parse.NewTreeSitterParser()
	tree, err := p.Parse(context.Background(), []byte("const { a: { b }, c: [d, e] } = obj;"))
	require.NoError(t, err)
	decl := tree.Root.NamedChild(0).NamedChild(0)
	name := decl.ChildByFieldName("name")

	bindings := ExtractPattern(name, tree.Source)
	require.Len(t, bindings, 3)

	byName := map[string]Binding{}
	for _, b := range bindings {
		byName[b.Name] = b
	}
	assert.Equal(t, "a.b", pathStrings(byName["b"].Path))
	assert.Equal(t, "c[0]", pathStrings(byName["d"].Path))
	assert.Equal(t, "c[1]", pathStrings(byName["e"].Path))
}

func TestExtractPattern_DefaultsAndRest(t *testing.T) {
	p := parse.NewTreeSitterParser()
	tree, err := p.Parse(context.Background(), []byte("const { a = 1, ...rest } = obj;"))
	require.NoError(t, err)
	decl := tree.Root.NamedChild(0).NamedChild(0)
	name := decl.ChildByFieldName("name")

	bindings := ExtractPattern(name, tree.Source)
	require.Len(t, bindings, 2)

	byName := map[string]Binding{}
	for _, b := range bindings {
		byName[b.Name] = b
	}
	assert.True(t, byName["a"].HasDefault)
	assert.True(t, byName["rest"].IsRest)
}
