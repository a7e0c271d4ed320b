package analyzer

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/viant/astgraph/parse"
)

// asyncErrorTraceDepth bounds AsyncErrorTracer's walk so a pathological
// chain of reassignments (`let e = e2; e2 = e3; ...`) cannot loop the
// analyzer (spec §4.8: "bounded in-function micro-trace").
const asyncErrorTraceDepth = 8

// Initializer looks up the most recent initializer expression bound to a
// variable name within the current function body, so AsyncErrorTracer can
// walk from a thrown/rejected identifier back to its origin. FunctionBodyContext
// implements this by recording each VariableHandler binding as it is seen.
type Initializer interface {
	InitializerOf(name string) *sitter.Node
}

// TraceErrorOrigin walks from a thrown or rejected identifier back through
// its chain of initializers to find the `new ErrorClass(...)` it ultimately
// came from (spec §4.8). It stops and reports unresolved (not found) if:
//   - the identifier has no known initializer (e.g. a function parameter),
//   - the trace exceeds maxDepth hops,
//   - a name is revisited (cycle guard), or
//   - the initializer is anything other than another bare identifier or a
//     `new` expression.
//
// maxDepth is normally asyncErrorTraceDepth; callers pass the analyzer's
// configured Config.MaxAsyncTraceDepth so WithMaxAsyncTraceDepth actually
// takes effect.
func TraceErrorOrigin(identifier string, inits Initializer, src []byte, maxDepth int) (className string, ok bool) {
	if maxDepth <= 0 {
		maxDepth = asyncErrorTraceDepth
	}
	visited := map[string]bool{}
	name := identifier
	for depth := 0; depth < maxDepth; depth++ {
		if visited[name] {
			return "", false
		}
		visited[name] = true

		init := inits.InitializerOf(name)
		if init == nil {
			return "", false
		}
		switch init.Type() {
		case "new_expression":
			ctor := init.ChildByFieldName("constructor")
			return parse.Text(ctor, src), ctor != nil
		case "identifier":
			name = parse.Text(init, src)
			continue
		default:
			return "", false
		}
	}
	return "", false
}
