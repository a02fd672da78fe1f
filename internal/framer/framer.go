// Package framer splits a raw v86 save state into its header, info, and
// buffer segments, and rejoins them. It is the leaf layer of the codec: it
// has no dependency on any other internal package and never inspects the
// contents of the info block or the buffer.
package framer

import (
	"fmt"

	"github.com/v86io/savestream/endian"
	"github.com/v86io/savestream/errs"
	"github.com/v86io/savestream/format"
)

// Split decomposes a raw save state into its header, info, and buffer
// segments per §3.1 and §4.1 of the format.
//
// header is always format.HeaderSize bytes. info is the UTF-8 JSON info
// block. buffer is everything after the zero padding that follows info,
// padded out to a multiple of 4 bytes.
func Split(raw []byte) (header, info, buffer []byte, err error) {
	if len(raw) < format.HeaderSize {
		return nil, nil, nil, fmt.Errorf("%w: raw save state is %d bytes, need at least %d",
			errs.ErrMalformedHeader, len(raw), format.HeaderSize)
	}

	header = raw[:format.HeaderSize]

	engine := endian.GetLittleEndianEngine()
	infoLen := int(engine.Uint32(raw[format.InfoLengthOffset : format.InfoLengthOffset+4]))

	if format.HeaderSize+infoLen > len(raw) {
		return nil, nil, nil, fmt.Errorf("%w: info length %d runs past end of state (%d bytes)",
			errs.ErrMalformedHeader, infoLen, len(raw))
	}

	info = raw[format.HeaderSize : format.HeaderSize+infoLen]

	bufferStart := roundUpTo4(format.HeaderSize + infoLen)
	if bufferStart > len(raw) {
		return nil, nil, nil, fmt.Errorf("%w: padded buffer start %d runs past end of state (%d bytes)",
			errs.ErrMalformedHeader, bufferStart, len(raw))
	}

	buffer = raw[bufferStart:]

	return header, info, buffer, nil
}

// Join reassembles header, info, and buffer into a raw save state, inserting
// zero padding between info and buffer to reach the next multiple of 4
// bytes. The caller guarantees header already embeds the correct info
// length; Join does not rewrite it.
func Join(header, info, buffer []byte) ([]byte, error) {
	if len(header) != format.HeaderSize {
		return nil, fmt.Errorf("%w: header is %d bytes, want %d",
			errs.ErrMalformedHeader, len(header), format.HeaderSize)
	}

	padded := roundUpTo4(len(info))
	padLen := padded - len(info)

	out := make([]byte, 0, len(header)+padded+len(buffer))
	out = append(out, header...)
	out = append(out, info...)
	out = append(out, make([]byte, padLen)...)
	out = append(out, buffer...)

	return out, nil
}

func roundUpTo4(n int) int {
	return (n + 3) &^ 3
}
