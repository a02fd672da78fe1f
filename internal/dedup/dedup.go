// Package dedup implements the two-level content-addressed block/superblock
// store described in §3.3 and §4.3 of the format. A single Tables value
// backs one encode or decode session; it grows monotonically and is never
// shared across sessions (§5).
//
// Identity is content equality, not hash equality: a hash collision between
// two distinct blocks (or superblock sequences) only costs an extra
// byte-compare on lookup, following the same hash-then-verify discipline the
// teacher corpus uses for metric-name collisions.
package dedup

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/v86io/savestream/errs"
	"github.com/v86io/savestream/format"
	"github.com/v86io/savestream/internal/hash"
	"github.com/v86io/savestream/internal/pool"
)

// Tables holds the live block and superblock stores for one encode or
// decode session, seeded with the reserved zero entries.
type Tables struct {
	blocks   map[uint32][]byte
	blockIdx map[uint64][]uint32

	superBlocks map[uint32][]uint32
	superIdx    map[uint64][]uint32

	nextBlockID uint32
	nextSuperID uint32
}

// NewTables creates a session with both reserved IDs pre-seeded: bid 0 bound
// to a zero block, sid 0 bound to an all-zero superblock sequence.
func NewTables() *Tables {
	t := &Tables{
		blocks:      make(map[uint32][]byte),
		blockIdx:    make(map[uint64][]uint32),
		superBlocks: make(map[uint32][]uint32),
		superIdx:    make(map[uint64][]uint32),
		nextBlockID: 1,
		nextSuperID: 1,
	}

	zeroBlock := make([]byte, format.BlockSize)
	t.blocks[format.ReservedBlockID] = zeroBlock
	t.blockIdx[hash.Bytes(zeroBlock)] = []uint32{format.ReservedBlockID}

	zeroSeq := make([]uint32, format.BlocksPerSuperBlock)
	t.superBlocks[format.ReservedSuperBlockID] = zeroSeq
	t.superIdx[hashSequence(zeroSeq)] = []uint32{format.ReservedSuperBlockID}

	return t
}

// Ingest splits an aligned buffer into superblocks and blocks, interning
// each against the session's tables in strict left-to-right order, and
// returns the super_sequence plus the IDs newly introduced by this call.
//
// Precondition: len(aligned) is a multiple of format.SuperBlockSize (the
// aligner guarantees this).
func (t *Tables) Ingest(aligned []byte) (superSequence []uint32, newBlocks map[uint32][]byte, newSuperBlocks map[uint32][]uint32, err error) {
	if len(aligned)%format.SuperBlockSize != 0 {
		return nil, nil, nil, fmt.Errorf("%w: aligned buffer length %d is not a multiple of superblock size %d",
			errs.ErrMalformedInfo, len(aligned), format.SuperBlockSize)
	}

	newBlocks = make(map[uint32][]byte)
	newSuperBlocks = make(map[uint32][]uint32)
	superSequence = make([]uint32, 0, len(aligned)/format.SuperBlockSize)

	for off := 0; off < len(aligned); off += format.SuperBlockSize {
		chunk := aligned[off : off+format.SuperBlockSize]

		blockIDs, release := pool.GetUint32Slice(format.BlocksPerSuperBlock)
		for boff := 0; boff < len(chunk); boff += format.BlockSize {
			content := chunk[boff : boff+format.BlockSize]

			bid, isNew, err := t.internBlock(content)
			if err != nil {
				release(blockIDs)
				return nil, nil, nil, err
			}
			if isNew {
				newBlocks[bid] = content
			}

			blockIDs = append(blockIDs, bid)
		}

		sid, isNew, err := t.internSuperBlock(blockIDs)
		if err != nil {
			release(blockIDs)
			return nil, nil, nil, err
		}
		if isNew {
			newSuperBlocks[sid] = append([]uint32(nil), blockIDs...)
		}
		release(blockIDs)

		superSequence = append(superSequence, sid)
	}

	return superSequence, newBlocks, newSuperBlocks, nil
}

// Rehydrate merges a frame's delta tables into the session, then expands
// super_sequence back into the aligned buffer it was built from.
func (t *Tables) Rehydrate(superSequence []uint32, newBlocks map[uint32][]byte, newSuperBlocks map[uint32][]uint32) ([]byte, error) {
	for bid, content := range newBlocks {
		if existing, ok := t.blocks[bid]; ok {
			if !bytes.Equal(existing, content) {
				return nil, fmt.Errorf("%w: block id %d redefined with different content", errs.ErrDuplicateID, bid)
			}

			continue
		}

		stored := append([]byte(nil), content...)
		t.blocks[bid] = stored
		t.blockIdx[hash.Bytes(stored)] = append(t.blockIdx[hash.Bytes(stored)], bid)

		if bid >= t.nextBlockID {
			t.nextBlockID = bid + 1
		}
	}

	for sid, ids := range newSuperBlocks {
		if existing, ok := t.superBlocks[sid]; ok {
			if !slices.Equal(existing, ids) {
				return nil, fmt.Errorf("%w: superblock id %d redefined with different sequence", errs.ErrDuplicateID, sid)
			}

			continue
		}

		stored := append([]uint32(nil), ids...)
		t.superBlocks[sid] = stored
		t.superIdx[hashSequence(stored)] = append(t.superIdx[hashSequence(stored)], sid)

		if sid >= t.nextSuperID {
			t.nextSuperID = sid + 1
		}
	}

	out := make([]byte, 0, len(superSequence)*format.SuperBlockSize)
	for _, sid := range superSequence {
		ids, ok := t.superBlocks[sid]
		if !ok {
			return nil, fmt.Errorf("%w: superblock id %d", errs.ErrUnknownID, sid)
		}

		for _, bid := range ids {
			content, ok := t.blocks[bid]
			if !ok {
				return nil, fmt.Errorf("%w: block id %d", errs.ErrUnknownID, bid)
			}

			out = append(out, content...)
		}
	}

	return out, nil
}

// Stats reports the total number of distinct blocks and superblocks known to
// the session, reserved entries included.
func (t *Tables) Stats() (blockCount, superBlockCount int) {
	return len(t.blocks), len(t.superBlocks)
}

func (t *Tables) internBlock(content []byte) (bid uint32, isNew bool, err error) {
	h := hash.Bytes(content)

	for _, candidate := range t.blockIdx[h] {
		if bytes.Equal(t.blocks[candidate], content) {
			return candidate, false, nil
		}
	}

	if t.nextBlockID >= format.MaxTableEntries {
		return 0, false, fmt.Errorf("%w: block table exceeds %d entries", errs.ErrResourceExhausted, format.MaxTableEntries)
	}

	bid = t.nextBlockID
	t.nextBlockID++

	stored := append([]byte(nil), content...)
	t.blocks[bid] = stored
	t.blockIdx[h] = append(t.blockIdx[h], bid)

	return bid, true, nil
}

func (t *Tables) internSuperBlock(blockIDs []uint32) (sid uint32, isNew bool, err error) {
	h := hashSequence(blockIDs)

	for _, candidate := range t.superIdx[h] {
		if slices.Equal(t.superBlocks[candidate], blockIDs) {
			return candidate, false, nil
		}
	}

	if t.nextSuperID >= format.MaxTableEntries {
		return 0, false, fmt.Errorf("%w: superblock table exceeds %d entries", errs.ErrResourceExhausted, format.MaxTableEntries)
	}

	sid = t.nextSuperID
	t.nextSuperID++

	stored := append([]uint32(nil), blockIDs...)
	t.superBlocks[sid] = stored
	t.superIdx[h] = append(t.superIdx[h], sid)

	return sid, true, nil
}

func hashSequence(ids []uint32) uint64 {
	buf := make([]byte, len(ids)*4)
	for i, id := range ids {
		binary.LittleEndian.PutUint32(buf[i*4:], id)
	}

	return hash.Bytes(buf)
}
