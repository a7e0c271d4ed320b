package analyzer

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/viant/astgraph/parse"
)

// ValueSourceKind is the closed set of value-source classifications
// ExpressionClassifier can return (spec §4.5).
type ValueSourceKind string

const (
	SourceLiteral          ValueSourceKind = "LITERAL"
	SourceVariable         ValueSourceKind = "VARIABLE"
	SourceCallSite         ValueSourceKind = "CALL_SITE"
	SourceMethodCall       ValueSourceKind = "METHOD_CALL"
	SourceConstructorCall  ValueSourceKind = "CONSTRUCTOR_CALL"
	SourceFunction         ValueSourceKind = "FUNCTION"
	SourceObjectLiteral    ValueSourceKind = "OBJECT_LITERAL"
	SourceArrayLiteral     ValueSourceKind = "ARRAY_LITERAL"
	SourceMemberExpr       ValueSourceKind = "EXPRESSION:MemberExpression"
	SourceBinaryExpr       ValueSourceKind = "EXPRESSION:BinaryExpression"
	SourceLogicalExpr      ValueSourceKind = "EXPRESSION:LogicalExpression"
	SourceConditionalExpr  ValueSourceKind = "EXPRESSION:ConditionalExpression"
	SourceTemplateLiteral  ValueSourceKind = "EXPRESSION:TemplateLiteral"
	SourceUnknown          ValueSourceKind = "EXPRESSION:Unknown"
)

// ValueSource is the classification of one initializer/argument/return
// expression, along with the bits downstream handlers need without
// reclassifying the node themselves.
type ValueSource struct {
	Kind       ValueSourceKind
	Identifier string // VARIABLE name, or callee text for CALL_SITE/CONSTRUCTOR_CALL (empty for METHOD_CALL)
	Object     string // receiver text for METHOD_CALL (a.b() -> "a")
	Method     string // method name for METHOD_CALL (a.b() -> "b")
}

// Classify inspects an expression node and returns its value-source kind
// (spec §4.5). Apart from unwrapping an await_expression to classify its
// operand, it does not recurse into sub-expressions; callers that need to
// walk further (e.g. MutationDetector unwrapping nested member chains) do
// so themselves.
func Classify(n *sitter.Node, src []byte) ValueSource {
	if n == nil {
		return ValueSource{Kind: SourceUnknown}
	}
	switch n.Type() {
	case "number", "string", "template_string", "true", "false", "null", "undefined", "regex":
		return ValueSource{Kind: SourceLiteral}

	case "template_literal":
		return ValueSource{Kind: SourceTemplateLiteral}

	case "identifier":
		return ValueSource{Kind: SourceVariable, Identifier: parse.Text(n, src)}

	case "object":
		return ValueSource{Kind: SourceObjectLiteral}

	case "array":
		return ValueSource{Kind: SourceArrayLiteral}

	case "function", "function_declaration", "arrow_function", "generator_function":
		return ValueSource{Kind: SourceFunction}

	case "member_expression":
		return ValueSource{Kind: SourceMemberExpr}

	case "binary_expression":
		return ValueSource{Kind: SourceBinaryExpr}

	case "logical_expression":
		return ValueSource{Kind: SourceLogicalExpr}

	case "ternary_expression":
		return ValueSource{Kind: SourceConditionalExpr}

	case "new_expression":
		callee := n.ChildByFieldName("constructor")
		return ValueSource{Kind: SourceConstructorCall, Identifier: parse.Text(callee, src)}

	case "call_expression":
		fn := n.ChildByFieldName("function")
		if fn == nil {
			return ValueSource{Kind: SourceCallSite}
		}
		if fn.Type() == "member_expression" {
			obj := fn.ChildByFieldName("object")
			prop := fn.ChildByFieldName("property")
			return ValueSource{
				Kind:   SourceMethodCall,
				Object: parse.Text(obj, src),
				Method: parse.Text(prop, src),
			}
		}
		return ValueSource{Kind: SourceCallSite, Identifier: parse.Text(fn, src)}

	case "await_expression":
		inner := n.NamedChild(0)
		return Classify(inner, src)

	default:
		return ValueSource{Kind: SourceUnknown}
	}
}
