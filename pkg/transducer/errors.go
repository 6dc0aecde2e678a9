package transducer

import "errors"

var (
	// ErrInvalidChunkSize is returned by Serialize when the chunk size is not a
	// positive multiple of the record size. Nothing is written in that case.
	ErrInvalidChunkSize = errors.New("transducer: invalid chunk size")
	// ErrBadHeader is returned when a transducer header cannot be parsed.
	ErrBadHeader = errors.New("transducer: bad header")
	// ErrTruncated is returned when a region is shorter than its header claims.
	ErrTruncated = errors.New("transducer: truncated data")
	// ErrBadChunks is returned when chunk files do not match the stored geometry.
	ErrBadChunks = errors.New("transducer: inconsistent chunk files")
)
