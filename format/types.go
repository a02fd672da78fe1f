// Package format defines the wire-level constants shared by every layer of
// the savestream codec: block/superblock geometry, reserved identifiers,
// frame field names, resource ceilings, and the on-disk container
// compression type used by the CLI front end.
package format

// CompressionType identifies the byte-level compression wrapped around a
// serialized savestream container by the CLI front end. It plays no part in
// the codec's own encode/decode contract.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Block and superblock geometry. These are format constants, not
// configuration: every encoder and decoder must agree on them for a
// savestream to be portable.
const (
	// BlockSize is the size, in bytes, of one deduplicated block.
	BlockSize = 256

	// SuperBlockSize is the size, in bytes, of one deduplicated superblock —
	// a fixed sequence of BlocksPerSuperBlock blocks.
	SuperBlockSize = 65536

	// BlocksPerSuperBlock is the number of block IDs held by one superblock.
	BlocksPerSuperBlock = SuperBlockSize / BlockSize

	// HeaderSize is the fixed length, in bytes, of a raw save state's header.
	HeaderSize = 16

	// InfoLengthOffset is the byte offset within the header of the
	// little-endian u32 info-block length field.
	InfoLengthOffset = 12
)

// ReservedBlockID is permanently bound to BlockSize zero bytes. It is never
// emitted in a frame's new_blocks delta; encoders and decoders pre-seed it.
const ReservedBlockID uint32 = 0

// ReservedSuperBlockID is permanently bound to a sequence of
// BlocksPerSuperBlock copies of ReservedBlockID (an all-zero superblock). It
// is never emitted in a frame's new_super_blocks delta.
const ReservedSuperBlockID uint32 = 0

// Resource ceilings from §5 of the format. These are advisory maxima; an
// implementation that exceeds them reports ErrResourceExhausted rather than
// silently overflowing an identifier space.
const (
	// MaxTableEntries bounds the number of distinct blocks or superblocks a
	// single encode/decode session may allocate.
	MaxTableEntries = 1 << 31

	// MaxFrameBytes is the advisory bound on the serialized size of a single
	// frame. No layer of the codec checks it; only MaxTableEntries is
	// enforced, by internal/dedup.
	MaxFrameBytes = 1 << 32
)

// Frame field names, exactly as required by §6.1: map keys on the wire. The
// msgpack struct tags of internal/wire.Frame spell them as literals, and
// wire_test.go checks that the tags match these constants.
const (
	FieldHeaderBlock    = "header_block"
	FieldInfoPatch      = "info_patch"
	FieldSuperSequence  = "super_sequence"
	FieldNewBlocks      = "new_blocks"
	FieldNewSuperBlocks = "new_super_blocks"
)
