package analyzer

// Plugin lets a caller observe (and veto) analysis at two points without
// forking ModuleAnalyzer: before a record is buffered, and after an
// identifier is assigned its semantic id. Grounded on the teacher's plugin
// seam (AnalyzerPlugin / AnnotationHook), narrowed to the two extension
// points this analyzer actually needs.
type Plugin interface {
	// BeforeNode runs just before a FunctionBodyContext adds r to the
	// buffer. Records that the module-level passes and EmitDestructuring add
	// to the Buffer directly (top-level FUNCTION/METHOD/CLASS, IMPORT/EXPORT,
	// destructured VARIABLE records, ...) do not pass through either hook.
	// Returning false keeps the record out of the buffer: it is never
	// emitted, and Buffer.Build drops every edge to or from it.
	BeforeNode(r *Record) bool

	// AfterIdentifier runs right after Buffer.Add/AddWithID assigns r its
	// id, letting a plugin index it, tag it, or otherwise react to the
	// assignment. A semantic id seen here can still gain a "#<n>"
	// discriminator when CollisionResolver runs in Buffer.Build.
	AfterIdentifier(r *Record, id string)
}

// NoopPlugin is the zero-cost default; embed it to implement only the hooks
// a particular plugin cares about.
type NoopPlugin struct{}

func (NoopPlugin) BeforeNode(*Record) bool         { return true }
func (NoopPlugin) AfterIdentifier(*Record, string) {}
