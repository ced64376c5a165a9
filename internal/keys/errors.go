package keys

import "errors"

var (
	// ErrInvalidKeySize is returned when the requested key or IV length is not in 1..checksum.Size.
	ErrInvalidKeySize = errors.New("invalid key size")
	// ErrInvalidSource is returned when source material cannot be decoded.
	ErrInvalidSource = errors.New("invalid key source")
)
