// Package wire serializes and deserializes the ordered frame list that makes
// up a savestream container, per §6.1 of the format. MessagePack gives the
// type fidelity the format requires out of the box: binary for raw bytes,
// proper maps with non-stringified integer keys for new_blocks and
// new_super_blocks, and arrays for ordered lists — so the Frame struct tags
// below are the entire wire contract.
package wire

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/v86io/savestream/errs"
)

// Frame is the per-state record described in §3.4. Field names are pinned to
// the literal strings required by §6.1 — kept in lockstep with the
// format.FieldXxx constants by wire_test.go rather than built from them,
// since struct tags must be compile-time literals.
type Frame struct {
	HeaderBlock    []byte              `msgpack:"header_block"`
	InfoPatch      []byte              `msgpack:"info_patch"`
	SuperSequence  []uint32            `msgpack:"super_sequence"`
	NewBlocks      map[uint32][]byte   `msgpack:"new_blocks"`
	NewSuperBlocks map[uint32][]uint32 `msgpack:"new_super_blocks"`
}

// Encode serializes an ordered frame list into savestream container bytes.
func Encode(frames []Frame) ([]byte, error) {
	out, err := msgpack.Marshal(frames)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrMalformedContainer, err)
	}

	return out, nil
}

// Decode deserializes savestream container bytes back into the ordered
// frame list, failing with MalformedContainer on any structural error or
// when a frame lacks header_block or info_patch. The presence of the other
// three fields is not checked.
func Decode(savestream []byte) ([]Frame, error) {
	var frames []Frame
	if err := msgpack.Unmarshal(savestream, &frames); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrMalformedContainer, err)
	}

	for i, f := range frames {
		if f.HeaderBlock == nil {
			return nil, fmt.Errorf("%w: frame %d missing header_block", errs.ErrMalformedContainer, i)
		}
		if f.InfoPatch == nil {
			return nil, fmt.Errorf("%w: frame %d missing info_patch", errs.ErrMalformedContainer, i)
		}
	}

	return frames, nil
}

// Length deserializes only as much as needed to report the frame count,
// without decoding any per-frame field.
func Length(savestream []byte) (int, error) {
	var frames []msgpack.RawMessage
	if err := msgpack.Unmarshal(savestream, &frames); err != nil {
		return 0, fmt.Errorf("%w: %v", errs.ErrMalformedContainer, err)
	}

	return len(frames), nil
}
