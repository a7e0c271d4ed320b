package analyzer

import (
	"context"
	"fmt"

	"github.com/viant/astgraph/graph"
)

// HashGate decides whether a module needs re-analysis by comparing the
// content hash stored on its MODULE node (from a prior run) against the
// hash of its current source (spec §4.1's ShouldAnalyze / "skip re-analysis
// of unchanged modules", grounded on inspector/graph/hash.go's HighwayHash
// usage in the teacher).
type HashGate struct {
	Force bool
}

// ShouldAnalyze queries w for an existing MODULE node at file and compares
// its stored "contentHash" attribute against hash(src). It returns true
// (analyze) whenever no such node exists, the stored hash differs, Force is
// set, or the query itself fails (fail open: a Writer error here must never
// silently suppress analysis).
func (g HashGate) ShouldAnalyze(ctx context.Context, w graph.Writer, file string, src []byte) (bool, error) {
	if g.Force {
		return true, nil
	}
	sum, err := graph.Hash(src)
	if err != nil {
		return false, fmt.Errorf("analyzer: hash module %s: %w", file, err)
	}

	it, err := w.QueryNodes(ctx, graph.NodeFilter{Kind: graph.KindModule, File: file})
	if err != nil {
		return true, nil
	}
	defer it.Close()

	node, found, err := it.Next(ctx)
	if err != nil || !found || node == nil {
		return true, nil
	}
	stored, ok := node.Attrs["contentHash"].(uint64)
	if !ok {
		return true, nil
	}
	if stored != sum {
		return true, nil
	}

	// The content hash matches, but a prior run may have committed the
	// MODULE node and then failed before emitting any FUNCTION nodes for it
	// (a partial batch, or a module that legitimately has none yet but is
	// about to gain some). Re-analyze whenever the file has no FUNCTION node
	// on record, since a hash match alone can't distinguish "fully analyzed,
	// no functions" from "analysis never got that far".
	fit, err := w.QueryNodes(ctx, graph.NodeFilter{Kind: graph.KindFunction, File: file})
	if err != nil {
		return true, nil
	}
	defer fit.Close()
	_, fnFound, err := fit.Next(ctx)
	if err != nil {
		return true, nil
	}
	return !fnFound, nil
}

// StampModule records src's content hash onto the module record so the next
// run's ShouldAnalyze can compare against it.
func StampModule(module *Record, src []byte) error {
	sum, err := graph.Hash(src)
	if err != nil {
		return err
	}
	module.Attrs["contentHash"] = sum
	return nil
}
