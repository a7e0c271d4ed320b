package analyzer

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/viant/astgraph/parse"
)

// PathSegment is one step down into a destructured value: either a named
// property or a numeric array index.
type PathSegment struct {
	Property string
	Index    int
	IsIndex  bool
}

// Binding is one name bound out of a destructuring pattern, together with
// the full path from the pattern's root value to that name (spec §4.x
// PatternExtractor: "flatten nested destructuring into (name, path) pairs").
type Binding struct {
	Name       string
	Path       []PathSegment
	HasDefault bool
	IsRest     bool
}

// ExtractPattern flattens an object/array/rest/default destructuring
// pattern node into its bound names and their property/index paths. It
// recurses through arbitrarily nested patterns, matching the teacher's
// recursive descent style (linage/scope.go's walk-and-accumulate shape)
// generalized from scope bookkeeping to pattern flattening.
func ExtractPattern(n *sitter.Node, src []byte) []Binding {
	var out []Binding
	walkPattern(n, src, nil, false, &out)
	return out
}

func walkPattern(n *sitter.Node, src []byte, path []PathSegment, hasDefault bool, out *[]Binding) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		*out = append(*out, Binding{Name: parse.Text(n, src), Path: append([]PathSegment{}, path...), HasDefault: hasDefault})

	case "assignment_pattern":
		// left = default
		left := n.ChildByFieldName("left")
		walkPattern(left, src, path, true, out)

	case "rest_pattern":
		inner := childAt(n, src, 1)
		walkRest(inner, src, path, out)

	case "object_pattern":
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			if c == nil {
				continue
			}
			switch c.Type() {
			case "shorthand_property_identifier_pattern":
				name := parse.Text(c, src)
				*out = append(*out, Binding{Name: name, Path: appendProp(path, name), HasDefault: hasDefault})
			case "pair_pattern":
				key := c.ChildByFieldName("key")
				value := c.ChildByFieldName("value")
				keyName := parse.Text(key, src)
				walkPattern(value, src, appendProp(path, keyName), hasDefault, out)
			case "rest_pattern":
				inner := childAt(c, src, 1)
				walkRest(inner, src, path, out)
			case "object_assignment_pattern":
				// { key = default } shorthand-with-default
				left := c.ChildByFieldName("left")
				if left != nil {
					name := parse.Text(left, src)
					*out = append(*out, Binding{Name: name, Path: appendProp(path, name), HasDefault: true})
				}
			}
		}

	case "array_pattern":
		idx := 0
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			if c == nil {
				continue
			}
			switch c.Type() {
			case ",", "[", "]":
				continue
			case "rest_pattern":
				inner := childAt(c, src, 1)
				walkRest(inner, src, path, out)
			default:
				walkPattern(c, src, appendIndex(path, idx), hasDefault, out)
				idx++
			}
		}

	default:
		// Nested member/identifier assignment targets (non-pattern) fall
		// through untouched; PatternExtractor only concerns itself with
		// genuine destructuring nodes.
	}
}

func walkRest(n *sitter.Node, src []byte, path []PathSegment, out *[]Binding) {
	if n == nil {
		return
	}
	if n.Type() == "identifier" {
		*out = append(*out, Binding{Name: parse.Text(n, src), Path: append([]PathSegment{}, path...), IsRest: true})
		return
	}
	walkPattern(n, src, path, false, out)
}

func childAt(n *sitter.Node, src []byte, idx int) *sitter.Node {
	if n == nil || idx >= int(n.ChildCount()) {
		return nil
	}
	return n.Child(idx)
}

func appendProp(path []PathSegment, name string) []PathSegment {
	next := make([]PathSegment, len(path), len(path)+1)
	copy(next, path)
	return append(next, PathSegment{Property: name})
}

func appendIndex(path []PathSegment, idx int) []PathSegment {
	next := make([]PathSegment, len(path), len(path)+1)
	copy(next, path)
	return append(next, PathSegment{Index: idx, IsIndex: true})
}
