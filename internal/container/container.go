// Package container implements the five public codec operations described
// in §4.5 of the format — encode, decode, decode_one, length, and trim —
// composing framer, aligner, dedup, diff, and wire. It is the only package
// that owns a full encode or decode session's state.
package container

import (
	"fmt"

	"github.com/v86io/savestream/errs"
	"github.com/v86io/savestream/format"
	"github.com/v86io/savestream/internal/aligner"
	"github.com/v86io/savestream/internal/dedup"
	"github.com/v86io/savestream/internal/diff"
	"github.com/v86io/savestream/internal/framer"
	"github.com/v86io/savestream/internal/wire"
)

var emptyObject = []byte("{}")

// Encode builds a savestream from an ordered sequence of raw save states.
func Encode(states [][]byte) ([]byte, error) {
	tables := dedup.NewTables()
	prevInfo := emptyObject

	frames := make([]wire.Frame, 0, len(states))
	for i, state := range states {
		header, info, buffer, err := framer.Split(state)
		if err != nil {
			return nil, fmt.Errorf("state %d: %w", i, err)
		}

		aligned, err := aligner.Align(info, buffer, format.BlockSize)
		if err != nil {
			return nil, fmt.Errorf("state %d: %w", i, err)
		}

		superSeq, newBlocks, newSuperBlocks, err := tables.Ingest(aligned)
		if err != nil {
			return nil, fmt.Errorf("state %d: %w", i, err)
		}

		infoPatch, err := diff.Diff(prevInfo, info)
		if err != nil {
			return nil, fmt.Errorf("state %d: %w", i, err)
		}

		frames = append(frames, wire.Frame{
			HeaderBlock:    header,
			InfoPatch:      infoPatch,
			SuperSequence:  superSeq,
			NewBlocks:      newBlocks,
			NewSuperBlocks: newSuperBlocks,
		})

		prevInfo = info
	}

	return wire.Encode(frames)
}

// Decoder replays a savestream's frames in order, rebuilding the dedup
// tables and prev_info lineage as it goes. It is single-pass: Next must not
// be called after it returns ok == false.
type Decoder struct {
	frames   []wire.Frame
	tables   *dedup.Tables
	prevInfo []byte
	idx      int
}

// NewDecoder deserializes savestream and prepares a fresh replay session.
func NewDecoder(savestream []byte) (*Decoder, error) {
	frames, err := wire.Decode(savestream)
	if err != nil {
		return nil, err
	}

	return &Decoder{
		frames:   frames,
		tables:   dedup.NewTables(),
		prevInfo: emptyObject,
	}, nil
}

// Len reports the total number of frames, known up front without replay.
func (d *Decoder) Len() int {
	return len(d.frames)
}

// Next decodes the next raw save state in sequence. ok is false once every
// frame has been consumed.
func (d *Decoder) Next() (raw []byte, ok bool, err error) {
	if d.idx >= len(d.frames) {
		return nil, false, nil
	}

	f := d.frames[d.idx]
	d.idx++

	aligned, err := d.tables.Rehydrate(f.SuperSequence, f.NewBlocks, f.NewSuperBlocks)
	if err != nil {
		return nil, false, fmt.Errorf("frame %d: %w", d.idx-1, err)
	}

	info, err := diff.Patch(d.prevInfo, f.InfoPatch)
	if err != nil {
		return nil, false, fmt.Errorf("frame %d: %w", d.idx-1, err)
	}

	buffer, err := aligner.Unalign(info, aligned, format.BlockSize)
	if err != nil {
		return nil, false, fmt.Errorf("frame %d: %w", d.idx-1, err)
	}

	raw, err = framer.Join(f.HeaderBlock, info, buffer)
	if err != nil {
		return nil, false, fmt.Errorf("frame %d: %w", d.idx-1, err)
	}

	d.prevInfo = info

	return raw, true, nil
}

// DecodeAll drains a Decoder into an ordered slice of raw save states.
func DecodeAll(savestream []byte) ([][]byte, error) {
	dec, err := NewDecoder(savestream)
	if err != nil {
		return nil, err
	}

	out := make([][]byte, 0, dec.Len())
	for {
		raw, ok, err := dec.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}

		out = append(out, raw)
	}

	return out, nil
}

// DecodeOne returns the raw save state at index, equivalent to advancing a
// fresh Decoder index+1 times.
func DecodeOne(savestream []byte, index int) ([]byte, error) {
	dec, err := NewDecoder(savestream)
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= dec.Len() {
		return nil, fmt.Errorf("%w: index %d, length %d", errs.ErrOutOfRange, index, dec.Len())
	}

	var raw []byte
	for i := 0; i <= index; i++ {
		var ok bool
		raw, ok, err = dec.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: index %d, length %d", errs.ErrOutOfRange, index, dec.Len())
		}
	}

	return raw, nil
}

// Length reports the frame count without performing any per-frame codec
// work.
func Length(savestream []byte) (int, error) {
	return wire.Length(savestream)
}

// Trim decodes the half-open range [start, end) with the full codec and
// re-encodes it as a new, self-contained savestream: because IDs and
// info_patch accumulate across the whole original sequence, a trimmed
// frame list cannot simply be sliced out for start > 0 (§4.5, §9).
func Trim(savestream []byte, start int, end int) ([]byte, error) {
	length, err := Length(savestream)
	if err != nil {
		return nil, err
	}

	start = clamp(start, 0, length)
	end = clamp(end, 0, length)

	if start >= end {
		return wire.Encode(nil)
	}

	dec, err := NewDecoder(savestream)
	if err != nil {
		return nil, err
	}

	kept := make([][]byte, 0, end-start)
	for i := 0; i < end; i++ {
		raw, ok, err := dec.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if i >= start {
			kept = append(kept, raw)
		}
	}

	return Encode(kept)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
