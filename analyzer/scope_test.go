package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeTracker_PathAndDepth(t *testing.T) {
	tr := NewScopeTracker("file.js")
	require.Equal(t, "file.js", tr.ScopePath())
	require.Equal(t, 1, tr.Depth())

	tr.EnterScope("MyClass", ScopeFunctionBody)
	tr.EnterScope("myMethod", ScopeFunctionBody)
	assert.Equal(t, "file.js->MyClass->myMethod", tr.ScopePath())
	assert.Equal(t, 3, tr.Depth())

	tr.ExitScope()
	assert.Equal(t, "file.js->MyClass", tr.ScopePath())
}

func TestScopeTracker_CountedScopesDisambiguate(t *testing.T) {
	tr := NewScopeTracker("file.js")
	first := tr.EnterCountedScope(ScopeIf)
	tr.ExitScope()
	second := tr.EnterCountedScope(ScopeIf)
	tr.ExitScope()

	assert.Equal(t, "if_statement[1]", first.Tag)
	assert.Equal(t, "if_statement[2]", second.Tag)
}

func TestScopeTracker_SiblingCounterResetsOnPop(t *testing.T) {
	tr := NewScopeTracker("file.js")
	tr.EnterScope("outer", ScopeFunctionBody)
	idxA := tr.SiblingIndex("if_statement")
	tr.ExitScope()

	tr.EnterScope("outer2", ScopeFunctionBody)
	idxB := tr.SiblingIndex("if_statement")

	assert.Equal(t, 1, idxA)
	assert.Equal(t, 1, idxB, "sibling counters are scoped to the current frame, not global")
}

func TestScopeTracker_ItemCounterNeverResets(t *testing.T) {
	tr := NewScopeTracker("file.js")
	tr.EnterScope("outer", ScopeFunctionBody)
	a := tr.ItemCounter("anon")
	tr.ExitScope()
	tr.EnterScope("outer2", ScopeFunctionBody)
	b := tr.ItemCounter("anon")

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

func TestScopeTracker_ExitUnderflowPanics(t *testing.T) {
	tr := NewScopeTracker("file.js")
	assert.Panics(t, func() { tr.ExitScope() })
}

func TestScopeTracker_EnclosingScope(t *testing.T) {
	tr := NewScopeTracker("file.js")
	tr.EnterScope("MyClass", ScopeFunctionBody)
	tr.EnterCountedScope(ScopeIf)

	enclosing := tr.EnclosingScope(ScopeFunctionBody)
	require.NotNil(t, enclosing)
	assert.Equal(t, "MyClass", enclosing.Tag)

	assert.Nil(t, tr.EnclosingScope(ScopeTry))
}
