package analyzer

import (
	"strconv"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/viant/astgraph/graph"
	"github.com/viant/astgraph/parse"
)

var arrayMutatingMethods = map[string]bool{
	"push": true, "pop": true, "shift": true, "unshift": true,
	"splice": true, "sort": true, "reverse": true, "fill": true, "copyWithin": true,
}

// ArrayMutationCall recognizes `target.method(...)` where method is a known
// in-place array mutator (spec §4.7). nested reports whether target itself
// is a member chain (`a.b.push(x)`) rather than a bare identifier; when
// nested, baseObjectName/propertyName break that chain's last hop into its
// root object ("a") and accessed property ("b"), since target alone only
// carries the flattened "a.b" source text.
func ArrayMutationCall(n *sitter.Node, src []byte) (target, method, baseObjectName, propertyName string, nested, ok bool) {
	if n == nil || n.Type() != "call_expression" {
		return "", "", "", "", false, false
	}
	fn := n.ChildByFieldName("function")
	if fn == nil || fn.Type() != "member_expression" {
		return "", "", "", "", false, false
	}
	prop := fn.ChildByFieldName("property")
	method = parse.Text(prop, src)
	if !arrayMutatingMethods[method] {
		return "", "", "", "", false, false
	}
	obj := fn.ChildByFieldName("object")
	target = parse.Text(obj, src)
	nested = obj != nil && obj.Type() == "member_expression"
	if nested {
		baseObjectName = parse.Text(obj.ChildByFieldName("object"), src)
		propertyName = parse.Text(obj.ChildByFieldName("property"), src)
	}
	return target, method, baseObjectName, propertyName, nested, true
}

// InsertedValue is one classified argument inserted by an array-mutating
// call, recorded on the ARRAY_MUTATION node's insertedValues attribute.
type InsertedValue struct {
	Kind   ValueSourceKind
	Text   string
	Spread bool
}

// classifyInsertedValues classifies the values an array-mutating call
// inserts. splice's first two positional arguments (start, deleteCount) are
// not inserted values and are skipped; every other method's arguments are
// all insertions. A spread_element argument (`arr.push(...more)`) is
// unwrapped before classification and flagged via Spread.
func classifyInsertedValues(method string, args *sitter.Node, src []byte) []InsertedValue {
	if args == nil {
		return nil
	}
	skip := 0
	if method == "splice" {
		skip = 2
	}
	var values []InsertedValue
	for i := 0; i < int(args.NamedChildCount()); i++ {
		if i < skip {
			continue
		}
		arg := args.NamedChild(i)
		if arg == nil {
			continue
		}
		spread := arg.Type() == "spread_element"
		target := arg
		if spread {
			if inner := arg.NamedChild(0); inner != nil {
				target = inner
			}
		}
		source := Classify(target, src)
		values = append(values, InsertedValue{Kind: source.Kind, Text: parse.Text(target, src), Spread: spread})
	}
	return values
}

// IndexedArrayWrite recognizes `target[N] = value` where N is a numeric
// literal (spec §4.7: "numeric literal keys only" — a computed/variable
// index is an OBJECT_MUTATION instead, since the target's shape is
// ambiguous without type information).
func IndexedArrayWrite(n *sitter.Node, src []byte) (target string, index int, ok bool) {
	left, _ := assignmentSides(n)
	if left == nil || left.Type() != "subscript_expression" {
		return "", 0, false
	}
	obj := left.ChildByFieldName("object")
	idxNode := left.ChildByFieldName("index")
	if idxNode == nil || idxNode.Type() != "number" {
		return "", 0, false
	}
	i, err := strconv.Atoi(parse.Text(idxNode, src))
	if err != nil {
		return "", 0, false
	}
	return parse.Text(obj, src), i, true
}

// ObjectPropertyWrite recognizes `target.prop = value`, `target["prop"] =
// value`, `target[expr] = value` (computed=true), and `this.prop = value`
// (spec §4.7: string/identifier/computed/this keys).
func ObjectPropertyWrite(n *sitter.Node, src []byte) (target, property string, computed bool, ok bool) {
	left, _ := assignmentSides(n)
	if left == nil {
		return "", "", false, false
	}
	switch left.Type() {
	case "member_expression":
		obj := left.ChildByFieldName("object")
		prop := left.ChildByFieldName("property")
		return parse.Text(obj, src), parse.Text(prop, src), false, true
	case "subscript_expression":
		obj := left.ChildByFieldName("object")
		idxNode := left.ChildByFieldName("index")
		if idxNode != nil && idxNode.Type() == "number" {
			return "", "", false, false // numeric key: handled by IndexedArrayWrite
		}
		return parse.Text(obj, src), parse.Text(idxNode, src), true, true
	default:
		return "", "", false, false
	}
}

// ObjectAssignCall recognizes `Object.assign(target, ...)` where target, the
// first argument, is a bare identifier.
func ObjectAssignCall(n *sitter.Node, src []byte) (target string, ok bool) {
	if n == nil || n.Type() != "call_expression" {
		return "", false
	}
	fn := n.ChildByFieldName("function")
	if fn == nil || fn.Type() != "member_expression" {
		return "", false
	}
	obj := fn.ChildByFieldName("object")
	prop := fn.ChildByFieldName("property")
	if parse.Text(obj, src) != "Object" || parse.Text(prop, src) != "assign" {
		return "", false
	}
	args := n.ChildByFieldName("arguments")
	if args == nil {
		return "", false
	}
	first := args.NamedChild(0)
	if first == nil || first.Type() != "identifier" {
		return "", false
	}
	return parse.Text(first, src), true
}

// UpdateExpressionTarget recognizes `target++`, `++target`, `target--`,
// `--target`.
func UpdateExpressionTarget(n *sitter.Node, src []byte) (target, operator string, prefix, ok bool) {
	if n == nil || n.Type() != "update_expression" {
		return "", "", false, false
	}
	arg := n.ChildByFieldName("argument")
	op := n.ChildByFieldName("operator")
	target = parse.Text(arg, src)
	operator = parse.Text(op, src)
	// tree-sitter-javascript's update_expression marks prefix via node order:
	// the operator child precedes the argument child for prefix forms.
	prefix = op != nil && arg != nil && op.StartByte() < arg.StartByte()
	return target, operator, prefix, true
}

func assignmentSides(n *sitter.Node) (left, right *sitter.Node) {
	if n == nil || n.Type() != "assignment_expression" {
		return nil, nil
	}
	return n.ChildByFieldName("left"), n.ChildByFieldName("right")
}

// NewArrayMutationRecord builds the ARRAY_MUTATION node for a recognized
// mutating call or indexed write. baseObjectName/propertyName are only set
// for a nested target (`a.b.push(x)`); insertedValues carries the
// classified values the call inserts (empty for index-writes, which have no
// call arguments to classify).
func NewArrayMutationRecord(op, target string, index *int, nested bool, baseObjectName, propertyName string, insertedValues []InsertedValue, file string, line, col int) *Record {
	attrs := map[string]interface{}{
		"operation":      op,
		"target":         target,
		"nested":         nested,
		"baseObjectName": baseObjectName,
		"propertyName":   propertyName,
		"insertedValues": insertedValues,
	}
	if index != nil {
		attrs["index"] = *index
	}
	return NewMutationRecord(graph.KindArrayMutation, file, line, col, attrs)
}

// NewObjectMutationRecord builds the OBJECT_MUTATION node for a recognized
// property write or Object.assign call.
func NewObjectMutationRecord(op, target, property string, computed bool, file string, line, col int) *Record {
	return NewMutationRecord(graph.KindObjectMutation, file, line, col, map[string]interface{}{
		"operation": op, "target": target, "property": property, "computed": computed,
	})
}

// NewUpdateExpressionRecord builds the UPDATE_EXPRESSION node for `x++`-style
// mutations.
func NewUpdateExpressionRecord(target, operator string, prefix bool, file string, line, col int) *Record {
	return NewMutationRecord(graph.KindUpdateExpr, file, line, col, map[string]interface{}{
		"target": target, "operator": operator, "prefix": prefix,
	})
}
