// Package aligner expands a packed v86 buffer block into a padded,
// region-aligned buffer using the region descriptors carried in the info
// block, and contracts it back. It depends only on internal/framer's output
// shape (info bytes, buffer bytes); it parses info itself rather than taking
// a pre-parsed value, since region layout is the only part of info this
// layer cares about.
package aligner

import (
	"encoding/json"
	"fmt"

	"github.com/v86io/savestream/errs"
	"github.com/v86io/savestream/format"
	"github.com/v86io/savestream/internal/pool"
)

// Region mirrors one entry of the info block's buffer_infos array. Only
// Offset and Length are interpreted; the info block's other, opaque fields
// are preserved by the metadata differ, not by this package.
type Region struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
}

type infoShape struct {
	BufferInfos []Region `json:"buffer_infos"`
}

// Regions parses the ordered list of region descriptors out of an info
// block. Align and Unalign both use it to locate regions.
func Regions(info []byte) ([]Region, error) {
	var shape infoShape
	if err := json.Unmarshal(info, &shape); err != nil {
		return nil, fmt.Errorf("%w: info is not valid JSON: %v", errs.ErrMalformedInfo, err)
	}

	if shape.BufferInfos == nil {
		return nil, fmt.Errorf("%w: missing buffer_infos array", errs.ErrMalformedInfo)
	}

	return shape.BufferInfos, nil
}

// Align expands buffer into its region-aligned form per §3.2 and §4.2: each
// region's bytes are extracted and right-padded to a multiple of blockSize,
// the padded regions are concatenated in order, and the whole result is
// right-padded to a multiple of format.SuperBlockSize.
func Align(info, buffer []byte, blockSize int) ([]byte, error) {
	regions, err := Regions(info)
	if err != nil {
		return nil, err
	}

	bb := pool.GetAlignBuffer()
	defer pool.PutAlignBuffer(bb)

	for i, r := range regions {
		if r.Offset < 0 || r.Length < 0 || r.Offset+r.Length > len(buffer) {
			return nil, fmt.Errorf("%w: region %d [%d:%d) out of bounds for buffer of %d bytes",
				errs.ErrMalformedInfo, i, r.Offset, r.Offset+r.Length, len(buffer))
		}

		bb.MustWrite(buffer[r.Offset : r.Offset+r.Length])
		bb.MustWrite(make([]byte, padLen(r.Length, blockSize)))
	}

	bb.MustWrite(make([]byte, padLen(bb.Len(), format.SuperBlockSize)))

	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())

	return out, nil
}

// Unalign contracts an aligned buffer back into its packed form per §4.2,
// reversing exactly the layout Align produced for the same info.
func Unalign(info, aligned []byte, blockSize int) ([]byte, error) {
	regions, err := Regions(info)
	if err != nil {
		return nil, err
	}

	size := 0
	for _, r := range regions {
		if end := r.Offset + r.Length; end > size {
			size = end
		}
	}

	out := make([]byte, size)
	cursor := 0

	for i, r := range regions {
		paddedLen := r.Length + padLen(r.Length, blockSize)
		if cursor+paddedLen > len(aligned) {
			return nil, fmt.Errorf("%w: region %d reads past end of aligned buffer", errs.ErrMalformedInfo, i)
		}

		copy(out[r.Offset:r.Offset+r.Length], aligned[cursor:cursor+r.Length])
		cursor += paddedLen
	}

	return out, nil
}

func padLen(n, multiple int) int {
	rem := n % multiple
	if rem == 0 {
		return 0
	}

	return multiple - rem
}
