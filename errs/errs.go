// Package errs defines the sentinel errors returned across the savestream
// codec. Callers use errors.Is to classify a failure into one of the Kinds
// from §7 of the format; every wrapping call site adds context with
// fmt.Errorf("%w: ...", errs.ErrXxx, ...).
package errs

import "errors"

var (
	// ErrMalformedHeader is returned when a raw save state is shorter than
	// the 16-byte header, or the header's embedded info length runs past EOF.
	ErrMalformedHeader = errors.New("malformed header")

	// ErrMalformedInfo is returned when the info block is not valid UTF-8
	// JSON, lacks buffer_infos, or a region descriptor is out of bounds.
	ErrMalformedInfo = errors.New("malformed info block")

	// ErrMalformedContainer is returned when savestream bytes fail
	// structural deserialization, or a frame is missing a required field.
	ErrMalformedContainer = errors.New("malformed container")

	// ErrUnknownID is returned when a frame references a block or
	// superblock ID that has not been defined by any frame up to and
	// including the current one.
	ErrUnknownID = errors.New("unknown block or superblock id")

	// ErrDuplicateID is returned when a frame's delta tables redefine an
	// existing, unequal entry.
	ErrDuplicateID = errors.New("duplicate id with conflicting content")

	// ErrOutOfRange is returned by DecodeOne when the requested index falls
	// outside [0, length).
	ErrOutOfRange = errors.New("index out of range")

	// ErrResourceExhausted is returned when a table or a single frame's
	// serialized size exceeds the format's advisory ceilings.
	ErrResourceExhausted = errors.New("resource exhausted")
)
