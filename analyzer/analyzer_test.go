package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/astgraph/graph"
)

func analyze(t *testing.T, src string) (*graph.MemoryWriter, []*graph.Node, []*graph.Edge) {
	t.Helper()
	return analyzeWithOptions(t, src, WithForceReanalysis(true))
}

func analyzeWithOptions(t *testing.T, src string, opts ...Option) (*graph.MemoryWriter, []*graph.Node, []*graph.Edge) {
	t.Helper()
	w := graph.NewMemoryWriter()
	a := NewModuleAnalyzer(nil, opts...)
	err := a.Analyze(context.Background(), w, "sample.js", "/proj", []byte(src))
	require.NoError(t, err)
	return w, w.Nodes(), w.Edges()
}

func findByKind(nodes []*graph.Node, kind graph.NodeKind) []*graph.Node {
	var out []*graph.Node
	for _, n := range nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

func TestAnalyze_ModuleAndFunction(t *testing.T) {
	_, nodes, _ := analyze(t, `function greet(name) {
  return "hi " + name;
}`)
	modules := findByKind(nodes, graph.KindModule)
	require.Len(t, modules, 1)
	assert.Equal(t, "sample.js", modules[0].Name)

	funcs := findByKind(nodes, graph.KindFunction)
	require.Len(t, funcs, 1)
	assert.Equal(t, "greet", funcs[0].Name)
}

func TestAnalyze_DestructuringOverAwaitedCall(t *testing.T) {
	_, nodes, edges := analyze(t, `async function load() {
  const { id, name } = await fetchUser();
}`)
	vars := findByKind(nodes, graph.KindVariable)
	require.Len(t, vars, 2)

	calls := findByKind(nodes, graph.KindCall)
	require.Len(t, calls, 1)
	assert.Equal(t, "fetchUser", calls[0].Name)
	assert.Equal(t, true, calls[0].Attrs["isAwaited"])

	var assignedFromCount int
	for _, e := range edges {
		if e.Kind == graph.EdgeAssignedFrom && e.To == calls[0].ID {
			assignedFromCount++
		}
	}
	assert.Equal(t, 2, assignedFromCount, "both destructured bindings should link back to the awaited call")
}

func TestAnalyze_PromiseExecutorParamsDoNotTraceToNewExpression(t *testing.T) {
	_, nodes, _ := analyze(t, `function run() {
  return new Promise(function(resolve, reject) {
    resolve(1);
  });
}`)
	ctors := findByKind(nodes, graph.KindConstructorCall)
	require.Len(t, ctors, 1)
	assert.Equal(t, "Promise", ctors[0].Name)
}

func TestAnalyze_CyclomaticComplexityCountsBranchesAndLoops(t *testing.T) {
	_, nodes, _ := analyze(t, `function classify(x) {
  if (x > 0) {
    return "pos";
  } else {
    return "nonpos";
  }
  for (let i = 0; i < x; i++) {
    x = x - 1;
  }
}`)
	funcs := findByKind(nodes, graph.KindFunction)
	require.Len(t, funcs, 1)
	complexity, ok := funcs[0].Attrs["cyclomaticComplexity"].(int)
	require.True(t, ok)
	assert.GreaterOrEqual(t, complexity, 3)
}

func TestAnalyze_ArrayIndexWriteVsObjectPropertyWrite(t *testing.T) {
	_, nodes, _ := analyze(t, `function mutate(arr, obj) {
  arr[0] = 1;
  obj.count = 2;
}`)
	arrMut := findByKind(nodes, graph.KindArrayMutation)
	require.Len(t, arrMut, 1)
	assert.Equal(t, "arr", arrMut[0].Attrs["target"])
	assert.Equal(t, 0, arrMut[0].Attrs["index"])

	objMut := findByKind(nodes, graph.KindObjectMutation)
	require.Len(t, objMut, 1)
	assert.Equal(t, "obj", objMut[0].Attrs["target"])
	assert.Equal(t, "count", objMut[0].Attrs["property"])
}

func TestAnalyze_ThrownBuiltinErrorIsTraced(t *testing.T) {
	_, nodes, _ := analyze(t, `function validate(x) {
  const err = new TypeError("bad");
  throw err;
}`)
	funcs := findByKind(nodes, graph.KindFunction)
	require.Len(t, funcs, 1)
	thrown, ok := funcs[0].Attrs["thrownBuiltinErrors"].([]string)
	require.True(t, ok)
	require.Len(t, thrown, 1)
	assert.Equal(t, "TypeError", thrown[0])
}

func TestAnalyze_PromiseResolveRejectRecordsResolutionAndTrace(t *testing.T) {
	_, nodes, edges := analyze(t, `new Promise((ok, bad) => {
  if (x) ok(42); else bad(new E());
});`)
	ctors := findByKind(nodes, graph.KindConstructorCall)
	var promise *graph.Node
	for _, c := range ctors {
		if c.Name == "Promise" {
			promise = c
		}
	}
	require.NotNil(t, promise, "expected a Promise CONSTRUCTOR_CALL node")

	var resolves, rejects int
	for _, e := range edges {
		if e.To != promise.ID {
			continue
		}
		switch e.Kind {
		case graph.EdgeResolvesTo:
			resolves++
		case graph.EdgeRejects:
			rejects++
		}
	}
	assert.Equal(t, 1, resolves, "ok(42) should resolve the Promise")
	assert.Equal(t, 1, rejects, "bad(new E()) should reject the Promise")

	funcs := findByKind(nodes, graph.KindFunction)
	require.Len(t, funcs, 1, "the executor is the only FUNCTION node here")
	executor := funcs[0]
	assert.Equal(t, true, executor.Attrs["canReject"])
	rejected, ok := executor.Attrs["rejectedBuiltinErrors"].([]string)
	require.True(t, ok)
	require.Len(t, rejected, 1)
	assert.Equal(t, "E", rejected[0])
}

func TestAnalyze_AwaitInLoopFlagsCallInsideLoop(t *testing.T) {
	_, nodes, _ := analyze(t, `async function run(us) {
  for (const u of us) {
    const r = await fetch(u);
  }
}`)
	loops := findByKind(nodes, graph.KindLoop)
	require.Len(t, loops, 1)
	assert.Equal(t, "for-of-loop", loops[0].Attrs["loopKind"])

	calls := findByKind(nodes, graph.KindCall)
	require.Len(t, calls, 1)
	assert.Equal(t, "fetch", calls[0].Name)
	assert.Equal(t, true, calls[0].Attrs["isAwaited"])
	assert.Equal(t, true, calls[0].Attrs["isInsideLoop"])
}

func TestAnalyze_MaxAsyncTraceDepthBoundsOriginTracing(t *testing.T) {
	src := `function validate(x) {
  const e1 = new TypeError("bad");
  const e2 = e1;
  const e3 = e2;
  throw e3;
}`
	_, nodes, _ := analyzeWithOptions(t, src, WithForceReanalysis(true), WithMaxAsyncTraceDepth(8))
	funcs := findByKind(nodes, graph.KindFunction)
	require.Len(t, funcs, 1)
	thrown, ok := funcs[0].Attrs["thrownBuiltinErrors"].([]string)
	require.True(t, ok)
	require.Len(t, thrown, 1)
	assert.Equal(t, "TypeError", thrown[0])

	_, shallowNodes, _ := analyzeWithOptions(t, src, WithForceReanalysis(true), WithMaxAsyncTraceDepth(1))
	shallowFuncs := findByKind(shallowNodes, graph.KindFunction)
	require.Len(t, shallowFuncs, 1)
	assert.Empty(t, shallowFuncs[0].Attrs["thrownBuiltinErrors"], "a 1-hop budget should exhaust before reaching the new TypeError(...) two hops back")
}

func TestAnalyze_IDCollisionAcrossSiblingBlocks(t *testing.T) {
	_, nodes, _ := analyze(t, `function run(flag) {
  if (flag) {
    const value = 1;
  } else {
    const value = 2;
  }
}`)
	vars := findByKind(nodes, graph.KindConstant)
	require.Len(t, vars, 2)
	assert.NotEqual(t, vars[0].ID, vars[1].ID)
}
