package parse

import (
	"context"
	"errors"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// TreeSitterParser parses the source language (and its JSX surface) with
// the tree-sitter javascript grammar, exactly as the teacher's JSX inspector
// does (inspector/jsx/inspector.go: sitter.NewParser() + javascript.GetLanguage()
// + ParseCtx). The javascript grammar recognizes JSX constructs
// (jsx_element, jsx_self_closing_element, jsx_attribute, ...) and decorator
// syntax. It has no rules for the typed superset's interface, type-alias or
// enum declarations or its type annotations; such source parses with ERROR
// nodes.
type TreeSitterParser struct{}

// NewTreeSitterParser returns the default Parser implementation.
func NewTreeSitterParser() *TreeSitterParser { return &TreeSitterParser{} }

func (p *TreeSitterParser) Parse(ctx context.Context, src []byte) (*Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, errors.New("parse: empty tree")
	}
	root := tree.RootNode()
	if root == nil {
		return nil, errors.New("parse: no root node")
	}
	return &Tree{Root: root, Source: src}, nil
}

// Text returns the source slice a node spans.
func Text(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return string(src[n.StartByte():n.EndByte()])
}

// Position returns the 1-based line and 0-based column tree-sitter reports
// for a node's start, matching loc.start{line,column} (spec §6.2).
func Position(n *sitter.Node) (line, column int) {
	if n == nil {
		return 0, 0
	}
	pt := n.StartPoint()
	return int(pt.Row) + 1, int(pt.Column)
}
