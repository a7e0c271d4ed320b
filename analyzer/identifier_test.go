package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDGenerator_Semantic(t *testing.T) {
	g := NewIDGenerator()
	var slot string
	id := g.Semantic(&slot, "VARIABLE", "count", "file.js->run")
	assert.Equal(t, "VARIABLE#count#file.js->run", id)
	assert.Equal(t, id, slot)
	require.Len(t, g.regs, 1)
}

func TestCollisionResolver_DisambiguatesDuplicates(t *testing.T) {
	g := NewIDGenerator()
	var a, b, c string
	g.Semantic(&a, "VARIABLE", "x", "file.js->run")
	g.Semantic(&b, "VARIABLE", "x", "file.js->run")
	g.Semantic(&c, "VARIABLE", "x", "file.js->run")

	CollisionResolver{}.Resolve(g.regs)

	assert.Equal(t, "VARIABLE#x#file.js->run", a)
	assert.Equal(t, "VARIABLE#x#file.js->run#2", b)
	assert.Equal(t, "VARIABLE#x#file.js->run#3", c)
}

func TestCollisionResolver_NoCollisionLeavesIDsUntouched(t *testing.T) {
	g := NewIDGenerator()
	var a, b string
	g.Semantic(&a, "VARIABLE", "x", "file.js->run")
	g.Semantic(&b, "VARIABLE", "y", "file.js->run")

	CollisionResolver{}.Resolve(g.regs)

	assert.Equal(t, "VARIABLE#x#file.js->run", a)
	assert.Equal(t, "VARIABLE#y#file.js->run", b)
}

func TestCollisionResolver_Idempotent(t *testing.T) {
	g := NewIDGenerator()
	var a, b string
	g.Semantic(&a, "VARIABLE", "x", "file.js->run")
	g.Semantic(&b, "VARIABLE", "x", "file.js->run")

	CollisionResolver{}.Resolve(g.regs)
	firstPass := []string{a, b}

	CollisionResolver{}.Resolve(g.regs)
	assert.Equal(t, firstPass, []string{a, b})
}

func TestLegacyID(t *testing.T) {
	g := NewIDGenerator()
	id := g.Legacy("file.js", "VARIABLE", "x", 10, 4, 1)
	assert.Equal(t, "VARIABLE#x#file.js#10:4:1", id)
}

func TestCoordinateIDs(t *testing.T) {
	assert.Equal(t, "file.js:EXPRESSION:BinaryExpression:3:8", Expression("file.js", "BinaryExpression", 3, 8))
	assert.Equal(t, "file.js:CONSTRUCTOR_CALL:Foo:3:8", ConstructorCall("file.js", "Foo", 3, 8))
}
