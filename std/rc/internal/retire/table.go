package retire

import (
	"encoding/binary"
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

// multiset is the closed-addressed, duplicate-tolerant hash table a
// reclamation pass folds every worker's announcements into: the same
// pointer value may legitimately be announced by several workers at once
// (several readers of the same AtomicStrong), so this is a multiset, not
// a set -- each insert is a distinct occurrence, and consumeOne removes
// exactly one.
type multiset[T any] struct {
	buckets [][]entry[T]
}

type entry[T any] struct {
	ptr  *T
	used bool
}

// newMultiset sizes the bucket array to roughly four times the expected
// number of announcements, rounded up to a power of two, to keep chains
// short without reallocating mid-pass.
func newMultiset[T any](expected int) *multiset[T] {
	n := 4 * expected
	if n < 8 {
		n = 8
	}
	size := 1
	for size < n {
		size <<= 1
	}
	return &multiset[T]{buckets: make([][]entry[T], size)}
}

func hashPtr[T any](p *T) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(uintptr(unsafe.Pointer(p))))
	return xxhash.Sum64(buf[:])
}

func (m *multiset[T]) insert(p *T) {
	if p == nil {
		return
	}
	idx := hashPtr(p) & uint64(len(m.buckets)-1)
	m.buckets[idx] = append(m.buckets[idx], entry[T]{ptr: p})
}

// consumeOne marks one unused occurrence of p as used and reports whether
// it found one.
func (m *multiset[T]) consumeOne(p *T) bool {
	if p == nil {
		return false
	}
	idx := hashPtr(p) & uint64(len(m.buckets)-1)
	bucket := m.buckets[idx]
	for i := range bucket {
		if e := &bucket[i]; !e.used && e.ptr == p {
			e.used = true
			return true
		}
	}
	return false
}
