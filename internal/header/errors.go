package header

import "errors"

var (
	// ErrInvalidSignature is returned when a stream does not start with the container signature.
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrNotSupportedVersion is returned when no variant is registered for a format version.
	ErrNotSupportedVersion = errors.New("header version not supported")
	// ErrHeaderVersionMismatch is returned when the version field differs from the variant decoding it.
	ErrHeaderVersionMismatch = errors.New("header version does not match variant")
	// ErrInvalidHeaderFieldValue is returned when a field holds a value the format forbids.
	ErrInvalidHeaderFieldValue = errors.New("invalid header field value")
	// ErrIncorrectHeaderChecksum is returned when the stored header checksum does not match the header bytes.
	ErrIncorrectHeaderChecksum = errors.New("incorrect header checksum")
	// ErrTruncatedHeader is returned when a stream ends inside the header.
	ErrTruncatedHeader = errors.New("truncated header")
	// ErrCommentNotSupported is returned when a comment is set on a variant without a comment field.
	ErrCommentNotSupported = errors.New("header version does not carry a comment")
	// ErrCommentTooLong is returned when a comment does not fit in the header.
	ErrCommentTooLong = errors.New("comment too long")
)
