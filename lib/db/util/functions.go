package util

import (
	"crypto/rand"
	"encoding/binary"
	"time"

	"github.com/spaolacci/murmur3"
)

// --------------------------------------------------------------------------
// General Utility Functions
// --------------------------------------------------------------------------

// GenerateSeed creates a robust random seed for internal hash distribution
func GenerateSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		// fallback with the current time, only as a last resort
		return uint64(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint64(b[:])
}

// NextPowerOfTwo returns the smallest power of two >= n (minimum 1).
func NextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// --------------------------------------------------------------------------
// Hash Functions
// --------------------------------------------------------------------------

// BytesHasher hashes a byte sequence with a per-store seed.
// Implementations must be deterministic within a single store instance:
// the only correctness property the table relies on is that equal keys
// hash equally.
type BytesHasher func(b []byte, seed uint64) uint64

// HashBytes generates a hash value for a byte sequence with a seed.
// This function uses the FNV-1a hash algorithm, which is fast and has good distribution.
func HashBytes(b []byte, seed uint64) uint64 {

	// FNV-1a hash with seed incorporation
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)

	// Start with the offset combined with our seed for uniqueness
	hash := uint64(offset64) ^ seed

	for i := 0; i < len(b); i++ {
		hash ^= uint64(b[i])
		hash *= prime64
	}

	return hash
}

// HashBytesMurmur3 generates a hash value for a byte sequence with a seed
// using 64-bit MurmurHash3. Alternative to HashBytes for callers that
// prefer murmur's avalanche behavior over FNV-1a.
func HashBytesMurmur3(b []byte, seed uint64) uint64 {
	var s [8]byte
	binary.LittleEndian.PutUint64(s[:], seed)

	h := murmur3.New64()
	_, _ = h.Write(s[:])
	_, _ = h.Write(b)
	return h.Sum64()
}
