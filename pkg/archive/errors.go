package archive

import "errors"

var (
	// ErrUnsupportedFormat is returned when a path is neither a zhfst
	// archive nor a speller bundle.
	ErrUnsupportedFormat = errors.New("unsupported speller format")
	// ErrMissingMember is returned when an archive lacks a transducer.
	ErrMissingMember = errors.New("archive member missing")
	// ErrInvalidMetadata is returned when index.xml or meta.toml cannot be parsed.
	ErrInvalidMetadata = errors.New("invalid speller metadata")
)
