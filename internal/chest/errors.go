package chest

import "errors"

var (
	// ErrNoInputFile is returned when no usable input file is given.
	ErrNoInputFile = errors.New("no input file")
	// ErrInvalidParameter is returned for a request that cannot be carried out as given.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrOutputIsInput is returned when the output path names the input file.
	ErrOutputIsInput = errors.New("output path is the input file")
	// ErrAmbiguousOption is returned for options that contradict each other.
	ErrAmbiguousOption = errors.New("ambiguous option")
	// ErrDirectoryNotFound is returned when the output directory does not exist.
	ErrDirectoryNotFound = errors.New("directory not found")
	// ErrIncorrectEncryptedDataChecksum is returned when the payload does not match the header.
	ErrIncorrectEncryptedDataChecksum = errors.New("incorrect encrypted data checksum")
	// ErrIncorrectRawDataChecksum is returned when decrypted data does not match the header.
	ErrIncorrectRawDataChecksum = errors.New("incorrect raw data checksum")
	// ErrCleanupFailed is reported in Result.CleanupErr when the source could not be deleted.
	ErrCleanupFailed = errors.New("cleanup failed")
)
