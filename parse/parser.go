// Package parse defines the Parser collaborator the analyzer consumes
// (spec §6.2) and a concrete tree-sitter-backed implementation for the
// source language's superset grammar (JSX included).
package parse

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
)

// Tree is a parsed module: the root AST node plus the source bytes needed
// to resolve any node's text (tree-sitter nodes are pure byte-range
// pointers into the buffer they were parsed from).
type Tree struct {
	Root   *sitter.Node
	Source []byte
}

// Parser produces a well-formed AST with source locations for every node
// and must recognize the full superset grammar, including JSX and legacy
// decorators (spec §6.2). Implementations must tolerate parse errors where
// possible rather than failing outright, since tree-sitter always returns a
// best-effort tree with ERROR nodes rather than refusing to parse.
type Parser interface {
	Parse(ctx context.Context, src []byte) (*Tree, error)
}
