// Package savestream compresses a sequence of v86 virtual-machine save
// states into a single compact, losslessly decodable container, and decodes
// any contiguous subrange or individual index back to bit-identical
// original save states.
//
// Compression exploits two observations about successive save states of a
// running VM: (a) they differ only in small portions of RAM, and (b) the
// JSON metadata describing memory regions evolves by small structural edits
// between frames. The codec is a pipeline of five pure, in-memory layers:
//
//   - Framer splits/rejoins a raw save state into header, info, and buffer.
//   - Aligner expands/contracts the buffer into region-aligned, padded form.
//   - A two-level dedup engine interns fixed-size blocks and fixed-length
//     sequences of blocks (superblocks), assigning IDs incrementally.
//   - A metadata differ computes/applies structural JSON diffs between
//     successive info blocks.
//   - The container packages per-frame records into an ordered,
//     MessagePack-serialized list.
//
// # Basic usage
//
//	container, err := savestream.Encode(states)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	decoded, err := savestream.Decode(container)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For random access without decoding the full sequence, use DecodeOne. For
// streaming consumption, use NewDecoder directly.
package savestream

import (
	"github.com/v86io/savestream/internal/container"
)

// Decoder replays a savestream's frames in order. It is single-pass: Next
// must not be called again once it reports ok == false.
type Decoder struct {
	inner *container.Decoder
}

// NewDecoder prepares a fresh replay session over savestream bytes.
func NewDecoder(savestream []byte) (*Decoder, error) {
	inner, err := container.NewDecoder(savestream)
	if err != nil {
		return nil, err
	}

	return &Decoder{inner: inner}, nil
}

// Len reports the total number of frames.
func (d *Decoder) Len() int {
	return d.inner.Len()
}

// Next decodes the next raw save state in sequence. ok is false once every
// frame has been consumed.
func (d *Decoder) Next() (raw []byte, ok bool, err error) {
	return d.inner.Next()
}

// Encode builds a savestream container from an ordered sequence of raw save
// states, each a 16-byte header, a JSON info block, and a buffer block.
func Encode(states [][]byte) ([]byte, error) {
	return container.Encode(states)
}

// Decode returns every raw save state held in a savestream, in order.
func Decode(savestream []byte) ([][]byte, error) {
	return container.DecodeAll(savestream)
}

// DecodeOne returns the raw save state at index, without materializing the
// rest of the sequence. Fails with errs.ErrOutOfRange if index is outside
// [0, Length(savestream)).
func DecodeOne(savestream []byte, index int) ([]byte, error) {
	return container.DecodeOne(savestream, index)
}

// Length reports the number of frames in savestream without performing any
// per-frame codec work.
func Length(savestream []byte) (int, error) {
	return container.Length(savestream)
}

// Trim extracts the half-open range [start, end) of a savestream as a new,
// self-contained container. end saturates to Length(savestream); start and
// end both saturate to [0, length]. If start >= end, the result is an empty
// savestream.
func Trim(savestream []byte, start, end int) ([]byte, error) {
	return container.Trim(savestream, start, end)
}
