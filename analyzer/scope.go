package analyzer

import (
	"fmt"
	"strings"
)

// ScopeKind enumerates the lexical scope types the traversal can push
// (spec §3's SCOPE.scopeType enum).
type ScopeKind string

const (
	ScopeModule       ScopeKind = "module"
	ScopeFunctionBody ScopeKind = "function_body"
	ScopeClosure      ScopeKind = "closure"
	ScopeArrowBody    ScopeKind = "arrow_body"
	ScopeCallbackBody ScopeKind = "callback_body"
	ScopeIf           ScopeKind = "if_statement"
	ScopeElse         ScopeKind = "else_statement"
	ScopeTry          ScopeKind = "try-block"
	ScopeCatch        ScopeKind = "catch-block"
	ScopeFinally      ScopeKind = "finally-block"
	ScopeForLoop      ScopeKind = "for-loop"
	ScopeForIn        ScopeKind = "for-in-loop"
	ScopeForOf        ScopeKind = "for-of-loop"
	ScopeWhile        ScopeKind = "while-loop"
	ScopeDoWhile      ScopeKind = "do-while-loop"
	ScopeSwitchCase   ScopeKind = "switch-case"
)

// Scope is one pushed lexical region. ID and path are computed lazily from
// the tracker's stack; Scope itself only carries the segment this frame
// contributes.
type Scope struct {
	Kind             ScopeKind
	Tag              string // dotted-path segment, e.g. "myMethod" or "if_statement[1]"
	Conditional      bool
	Condition        string
	CapturesFrom     string
	ParentFunctionID string
}

// ScopeTracker maintains the lexical scope stack, sibling counters, and
// enclosing-scope lookups during one module's traversal (spec §4.2).
// Per spec: enter/exit is strictly LIFO; sibling counters are confined to
// the current scope's lifetime; getItemCounter keys across the whole
// traversal.
type ScopeTracker struct {
	moduleName string
	stack      []*Scope

	// siblingCounters[scopeDepth][tag] resets whenever that depth is popped
	// past, matching "confined to the current scope's lifetime".
	siblingCounters []map[string]int

	// itemCounters is keyed for the whole traversal lifetime (never reset).
	itemCounters map[string]int
}

// NewScopeTracker seeds the tracker with the module root scope.
func NewScopeTracker(moduleName string) *ScopeTracker {
	t := &ScopeTracker{
		moduleName:   moduleName,
		itemCounters: map[string]int{},
	}
	t.stack = []*Scope{{Kind: ScopeModule, Tag: moduleName}}
	t.siblingCounters = []map[string]int{{}}
	return t
}

// EnterScope pushes a named scope frame (function/method names, class
// names, etc. — anything with a stable identifier of its own).
func (t *ScopeTracker) EnterScope(name string, kind ScopeKind) *Scope {
	s := &Scope{Kind: kind, Tag: name}
	t.stack = append(t.stack, s)
	t.siblingCounters = append(t.siblingCounters, map[string]int{})
	return s
}

// EnterCountedScope pushes an anonymous scope (if/else/loop/try bodies,
// arrows) whose path segment is disambiguated by a monotonic index unique
// within its sibling group at the current depth, e.g. "if_statement[1]",
// "if_statement[2]".
func (t *ScopeTracker) EnterCountedScope(kind ScopeKind) *Scope {
	idx := t.SiblingIndex(string(kind))
	tag := fmt.Sprintf("%s[%d]", kind, idx)
	s := &Scope{Kind: kind, Tag: tag}
	t.stack = append(t.stack, s)
	t.siblingCounters = append(t.siblingCounters, map[string]int{})
	return s
}

// ExitScope pops the most recently entered scope. Underflow (popping past
// the module root) is a programmer error and panics, matching spec §4.2's
// "underflow is a programmer error".
func (t *ScopeTracker) ExitScope() {
	if len(t.stack) <= 1 {
		panic("analyzer: ScopeTracker.ExitScope underflow")
	}
	t.stack = t.stack[:len(t.stack)-1]
	t.siblingCounters = t.siblingCounters[:len(t.siblingCounters)-1]
}

// Current returns the innermost active scope.
func (t *ScopeTracker) Current() *Scope { return t.stack[len(t.stack)-1] }

// Depth returns how many scopes (including the module root) are active.
func (t *ScopeTracker) Depth() int { return len(t.stack) }

// ScopePath returns the dotted scope path from the module root to the
// current position, e.g. "file.js->MyClass->myMethod->if_statement[1]".
func (t *ScopeTracker) ScopePath() string {
	segs := make([]string, 0, len(t.stack))
	for _, s := range t.stack {
		segs = append(segs, s.Tag)
	}
	return strings.Join(segs, "->")
}

// SiblingIndex returns a monotonic index for tag within the current scope's
// lifetime: two anonymous arrows entered back to back at the same depth get
// distinct indexes. Each call advances the counter.
func (t *ScopeTracker) SiblingIndex(tag string) int {
	m := t.siblingCounters[len(t.siblingCounters)-1]
	m[tag]++
	return m[tag]
}

// ItemCounter returns a monotonic counter for tag that is never reset for
// the lifetime of the traversal (used for anonymous naming/discriminators
// that must stay unique across the whole module, not just one scope).
func (t *ScopeTracker) ItemCounter(tag string) int {
	t.itemCounters[tag]++
	return t.itemCounters[tag]
}

// EnclosingScope returns the nearest ancestor (including the current scope)
// of the given kind, or nil if none exists. Used e.g. to resolve `this.prop
// = x` to the enclosing class name.
func (t *ScopeTracker) EnclosingScope(kind ScopeKind) *Scope {
	for i := len(t.stack) - 1; i >= 0; i-- {
		if t.stack[i].Kind == kind {
			return t.stack[i]
		}
	}
	return nil
}

// KindsAbove returns the Kind of every scope pushed at or after depth,
// in push order. Used by ReturnYieldHandler to test whether a return/yield
// sits inside a conditional ancestor scoped to the current function body
// (depth = the stack length when that function's own context was created),
// without reaching into an outer function's scopes.
func (t *ScopeTracker) KindsAbove(depth int) []ScopeKind {
	if depth >= len(t.stack) {
		return nil
	}
	kinds := make([]ScopeKind, 0, len(t.stack)-depth)
	for i := depth; i < len(t.stack); i++ {
		kinds = append(kinds, t.stack[i].Kind)
	}
	return kinds
}
