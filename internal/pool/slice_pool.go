package pool

import "sync"

// uint32SlicePool reduces allocations when the dedup engine builds the
// per-superblock list of block IDs, which is discarded after interning.
var uint32SlicePool = sync.Pool{
	New: func() any { return &[]uint32{} },
}

// GetUint32Slice retrieves a zero-length uint32 slice from the pool with at
// least the requested capacity; grow it with append as usual.
//
// Because append may reallocate past the pooled capacity, the caller must
// call the returned release function with the final slice value (typically
// via defer with a named return or a closure) so the pool retains whichever
// backing array ended up largest.
func GetUint32Slice(capacity int) ([]uint32, func([]uint32)) {
	ptr, _ := uint32SlicePool.Get().(*[]uint32)
	slice := (*ptr)[:0]

	if cap(slice) < capacity {
		slice = make([]uint32, 0, capacity)
	}

	return slice, func(final []uint32) {
		*ptr = final[:0]
		uint32SlicePool.Put(ptr)
	}
}
