package analyzer

import (
	"context"

	"github.com/viant/afs"
)

// SourceReader reads module source uniformly across local disk, memory, or
// any other viant/afs-backed scheme, so ModuleAnalyzer never special-cases
// "where the file lives" (spec §6.2's Parser input is just bytes; this is
// what gets them there, grounded on the teacher's use of
// github.com/viant/afs across its inspector package).
type SourceReader struct {
	fs afs.Service
}

// NewSourceReader wraps the default afs service.
func NewSourceReader() *SourceReader {
	return &SourceReader{fs: afs.New()}
}

// Read loads a module's source bytes from url (a plain path or any
// afs-supported scheme, e.g. "mem://", "s3://").
func (r *SourceReader) Read(ctx context.Context, url string) ([]byte, error) {
	return r.fs.DownloadWithURL(ctx, url)
}

// Exists reports whether url resolves to a readable object, used by
// HashGate-adjacent callers that want to skip missing files without
// treating them as parse errors.
func (r *SourceReader) Exists(ctx context.Context, url string) (bool, error) {
	ok, err := r.fs.Exists(ctx, url)
	return ok, err
}
