// hash.go defines the pluggable hasher consumed by HashMap.  The default
// hashes through hash/maphash with a per-map seed; a type switch routes
// common key kinds without reflection, and scalar keys fall back to hashing
// their in-memory representation.
//
// © 2025 calyx authors. MIT License.

package containers

import (
	"hash/maphash"

	"github.com/calyx-engine/calyx/internal/memutil"
)

// Hasher maps a key to a 64-bit hash under the given seed. Implementations
// must be pure: equal keys must hash equal for the lifetime of the map.
type Hasher[K comparable] func(seed maphash.Seed, key K) uint64

// DefaultHasher returns the stock maphash-backed hasher.
func DefaultHasher[K comparable]() Hasher[K] {
	return func(seed maphash.Seed, key K) uint64 {
		var h maphash.Hash
		h.SetSeed(seed)
		switch k := any(key).(type) {
		case string:
			h.WriteString(k)
		case int:
			v := uint64(k)
			h.Write(memutil.ByteView(&v))
		case uint64:
			h.Write(memutil.ByteView(&k))
		default:
			// Scalars and flat structs hash by representation. Safe because
			// the bytes are only read.
			h.Write(memutil.ByteView(&key))
		}
		return h.Sum64()
	}
}
