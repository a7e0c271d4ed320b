package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/astgraph/parse"
)

func TestArrayMutationCall_Push(t *testing.T) {
	p := parse.NewTreeSitterParser()
	tree, err := p.Parse(context.Background(), []byte("list.push(1);"))
	require.NoError(t, err)
	call := tree.Root.NamedChild(0).NamedChild(0)

	target, method, baseObjectName, propertyName, nested, ok := ArrayMutationCall(call, tree.Source)
	require.True(t, ok)
	assert.Equal(t, "list", target)
	assert.Equal(t, "push", method)
	assert.False(t, nested)
	assert.Empty(t, baseObjectName)
	assert.Empty(t, propertyName)
}

func TestArrayMutationCall_NestedReceiver(t *testing.T) {
	p := parse.NewTreeSitterParser()
	tree, err := p.Parse(context.Background(), []byte("state.items.splice(0, 1);"))
	require.NoError(t, err)
	call := tree.Root.NamedChild(0).NamedChild(0)

	_, method, baseObjectName, propertyName, nested, ok := ArrayMutationCall(call, tree.Source)
	require.True(t, ok)
	assert.Equal(t, "splice", method)
	assert.True(t, nested)
	assert.Equal(t, "state", baseObjectName)
	assert.Equal(t, "items", propertyName)
}

func TestClassifyInsertedValues_SplicesSkipsStartAndDeleteCount(t *testing.T) {
	p := parse.NewTreeSitterParser()
	tree, err := p.Parse(context.Background(), []byte("arr.splice(1, 2, a, ...rest);"))
	require.NoError(t, err)
	call := tree.Root.NamedChild(0).NamedChild(0)
	args := call.ChildByFieldName("arguments")

	values := classifyInsertedValues("splice", args, tree.Source)
	require.Len(t, values, 2)
	assert.Equal(t, "a", values[0].Text)
	assert.False(t, values[0].Spread)
	assert.Equal(t, "rest", values[1].Text)
	assert.True(t, values[1].Spread)
}

func TestClassifyInsertedValues_PushKeepsAllArgs(t *testing.T) {
	p := parse.NewTreeSitterParser()
	tree, err := p.Parse(context.Background(), []byte("list.push(1, 2);"))
	require.NoError(t, err)
	call := tree.Root.NamedChild(0).NamedChild(0)
	args := call.ChildByFieldName("arguments")

	values := classifyInsertedValues("push", args, tree.Source)
	require.Len(t, values, 2)
}

func TestIndexedArrayWrite_NumericKeyOnly(t *testing.T) {
	p := parse.NewTreeSitterParser()
	tree, err := p.Parse(context.Background(), []byte("arr[2] = 5;"))
	require.NoError(t, err)
	assign := tree.Root.NamedChild(0).NamedChild(0)

	target, index, ok := IndexedArrayWrite(assign, tree.Source)
	require.True(t, ok)
	assert.Equal(t, "arr", target)
	assert.Equal(t, 2, index)
}

func TestObjectPropertyWrite_ComputedKeyIsNotIndexedWrite(t *testing.T) {
	p := parse.NewTreeSitterParser()
	tree, err := p.Parse(context.Background(), []byte("obj[key] = 5;"))
	require.NoError(t, err)
	assign := tree.Root.NamedChild(0).NamedChild(0)

	_, _, isIndexed := IndexedArrayWrite(assign, tree.Source)
	assert.False(t, isIndexed)

	target, property, computed, ok := ObjectPropertyWrite(assign, tree.Source)
	require.True(t, ok)
	assert.Equal(t, "obj", target)
	assert.Equal(t, "key", property)
	assert.True(t, computed)
}

func TestUpdateExpressionTarget_PrefixVsPostfix(t *testing.T) {
	p := parse.NewTreeSitterParser()
	tree, err := p.Parse(context.Background(), []byte("i++;\n++j;"))
	require.NoError(t, err)

	postfix := tree.Root.NamedChild(0).NamedChild(0)
	prefix := tree.Root.NamedChild(1).NamedChild(0)

	_, _, isPrefix, ok := UpdateExpressionTarget(postfix, tree.Source)
	require.True(t, ok)
	assert.False(t, isPrefix)

	_, _, isPrefix2, ok2 := UpdateExpressionTarget(prefix, tree.Source)
	require.True(t, ok2)
	assert.True(t, isPrefix2)
}
