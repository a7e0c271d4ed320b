package graph

import "github.com/minio/highwayhash"

// hashKey is a fixed 32-byte key; content hashing only needs to be stable
// across runs of this process, not cryptographically keyed per caller.
// Grounded on inspector/graph/hash.go in the teacher repository, which uses
// the same highwayhash.New64 recipe for document content hashes.
var hashKey = []byte("0123456789ABCDEF0123456789ABCDEF")

// Hash returns a 64-bit content hash of data. ModuleAnalyzer.ShouldAnalyze
// compares this against the hash stored on a MODULE node to decide whether
// re-analysis is necessary (the HashGate, spec §4.1).
func Hash(data []byte) (uint64, error) {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		return 0, err
	}
	_, err = h.Write(data)
	return h.Sum64(), err
}
