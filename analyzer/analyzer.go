package analyzer

import (
	"context"
	"fmt"

	"github.com/viant/astgraph/graph"
	"github.com/viant/astgraph/parse"
)

// ModuleAnalyzer is the top-level entry point: given one module's source,
// it parses it, runs the ordered module-level passes (passes.go) followed
// by FunctionBodyAnalyzer for every function/method body they discover, and
// hands the result to a graph.Writer as a single batch (spec §4.1).
type ModuleAnalyzer struct {
	Parser parse.Parser
	Source *SourceReader
	Gate   HashGate
	Logger Logger
	Plugin Plugin
	Config Config
}

// NewModuleAnalyzer builds a ModuleAnalyzer wired to the default
// tree-sitter Parser, with the given options layered over DefaultConfig.
func NewModuleAnalyzer(logger Logger, opts ...Option) *ModuleAnalyzer {
	cfg := NewConfig(opts...)
	return &ModuleAnalyzer{
		Parser: parse.NewTreeSitterParser(),
		Source: NewSourceReader(),
		Gate:   HashGate{Force: cfg.ForceReanalysis},
		Logger: logger,
		Config: cfg,
	}
}

// AnalyzeFile loads file's source through a.Source (so callers never
// special-case local disk vs. "mem://" vs. any other afs-backed scheme) and
// delegates to Analyze. Kept separate from Analyze, whose byte-based
// signature callers that already hold source in memory (tests, callers
// fronted by their own file watcher) continue to use directly.
func (a *ModuleAnalyzer) AnalyzeFile(ctx context.Context, w graph.Writer, file, projectPath string) error {
	src, err := a.Source.Read(ctx, file)
	if err != nil {
		return fmt.Errorf("analyzer: read module %s: %w", file, err)
	}
	return a.Analyze(ctx, w, file, projectPath, src)
}

// ShouldAnalyze reports whether file's current content differs from what
// was last committed for it (HashGate), so a caller can skip reparsing
// unchanged modules entirely.
func (a *ModuleAnalyzer) ShouldAnalyze(ctx context.Context, w graph.Writer, file string, src []byte) (bool, error) {
	return a.Gate.ShouldAnalyze(ctx, w, file, src)
}

// Analyze parses file's source, walks it through every module-level pass,
// and commits the resulting nodes/edges to w as one batch. projectPath is
// attached to the module record for provenance but otherwise unused here
// (locating sibling modules is the excluded upstream indexer's job, spec
// §4.1's Non-goals).
func (a *ModuleAnalyzer) Analyze(ctx context.Context, w graph.Writer, file, projectPath string, src []byte) error {
	tree, err := a.Parser.Parse(ctx, src)
	if err != nil {
		return &ParseError{File: file, Err: err}
	}

	buf := NewBuffer()
	scope := NewScopeTracker(file)

	moduleRecord := NewExpressionRecord(graph.KindModule, file, 1, 0, map[string]interface{}{
		"projectPath": projectPath,
	})
	moduleRecord.Name = file
	buf.AddWithID(moduleRecord, "MODULE#"+file)
	if err := StampModule(moduleRecord, src); err != nil {
		warnf(a.Logger, "analyzer: could not stamp content hash for %s: %v", file, err)
	}

	mc := &moduleContext{buf: buf, scope: scope, file: file, module: moduleRecord, plugin: a.Plugin, maxTraceDepth: a.Config.MaxAsyncTraceDepth}
	runModulePasses(mc, tree.Root, tree.Source)

	nodes, edges := buf.Build()

	tags := graph.ProvenanceTags{Producer: "astgraph.ModuleAnalyzer", Action: "ANALYZE", File: file}
	if err := graph.Build(ctx, w, tags, nodes, edges, a.Config.DeferIndexRebuild); err != nil {
		return fmt.Errorf("analyzer: commit %s: %w", file, err)
	}
	return nil
}
