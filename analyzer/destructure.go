package analyzer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/astgraph/graph"
)

// pathStrings renders a Binding.Path as a dotted/bracketed string for
// display attributes, e.g. []PathSegment{{Property:"a"},{Index:0,IsIndex:true}}
// -> "a[0]".
func pathStrings(path []PathSegment) string {
	var b strings.Builder
	for i, seg := range path {
		if seg.IsIndex {
			b.WriteString("[")
			b.WriteString(strconv.Itoa(seg.Index))
			b.WriteString("]")
			continue
		}
		if i > 0 {
			b.WriteString(".")
		}
		b.WriteString(seg.Property)
	}
	return b.String()
}

// EmitDestructuring turns a flattened destructuring pattern into VARIABLE
// records, one per bound name, linked back to where its value came from
// (spec §4.6 DestructuringTracker). Two initializer shapes are
// distinguished, per spec:
//
//   - Identifier initializer (`const {a,b} = obj`): each non-rest bound name
//     is wired as an implicit property read off obj, via a synthesized
//     PROPERTY_ACCESS record. A rest binding (`const {a, ...rest} = obj`)
//     has no single property to point at — it takes whatever obj's
//     remaining own properties are — so it is wired directly to obj's own
//     VARIABLE record (srcVarRecord) instead of a synthesized
//     PROPERTY_ACCESS.
//   - Call/await-wrapped-call initializer (`const {a,b} = await f()`):
//     each bound name is wired directly to the CALL/CONSTRUCTOR_CALL
//     record the caller already emitted for f(), via ASSIGNED_FROM.
//
// For any other initializer shape (object/array literal, binary
// expression, ...) only the destructuring metadata is recorded; no extra
// source edge is synthesized, since there is no single named source node
// to point at.
func EmitDestructuring(buf *Buffer, tracker *ScopeTracker, bindings []Binding, isConstant bool, file string, line, col int, source ValueSource, sourceRecord, srcVarRecord *Record) []*Record {
	scopePath := tracker.ScopePath()
	records := make([]*Record, 0, len(bindings))
	for _, b := range bindings {
		vr := NewVariableRecord(isConstant, b.Name, file, line, col)
		buf.Add(vr, string(vr.Kind), b.Name, scopePath)
		vr.Attrs["destructured"] = true
		vr.Attrs["isRest"] = b.IsRest
		vr.Attrs["hasDefault"] = b.HasDefault
		vr.Attrs["sourcePath"] = pathStrings(b.Path)

		switch source.Kind {
		case SourceCallSite, SourceMethodCall, SourceConstructorCall:
			if sourceRecord != nil {
				vr.LinkTo(sourceRecord, graph.EdgeAssignedFrom, map[string]interface{}{"path": pathStrings(b.Path)})
			}
		case SourceVariable:
			if b.IsRest {
				if srcVarRecord != nil {
					vr.LinkTo(srcVarRecord, graph.EdgeAssignedFrom, map[string]interface{}{"path": pathStrings(b.Path), "rest": true})
				}
				break
			}
			discriminator := tracker.ItemCounter("destructure-member")
			pr := NewExpressionRecord(graph.KindPropertyAccess, file, line, col, map[string]interface{}{
				"object":   source.Identifier,
				"property": pathStrings(b.Path),
			})
			buf.AddWithID(pr, fmt.Sprintf("%s:EXPRESSION:MemberExpression:%d:%d:%d", file, line, col, discriminator))
			vr.LinkTo(pr, graph.EdgeAssignedFrom, nil)
		}
		records = append(records, vr)
	}
	return records
}
