// Package hash provides the content hashing used by the dedup engine to
// index blocks and superblocks for O(1) average-case lookup.
package hash

import "github.com/cespare/xxhash/v2"

// Bytes computes the xxHash64 of data. It is a fast, well-distributed,
// non-cryptographic hash: collisions are possible (though vanishingly
// unlikely at real table sizes), so callers that need exact identity must
// still verify the underlying content on a hash hit.
func Bytes(data []byte) uint64 {
	return xxhash.Sum64(data)
}
