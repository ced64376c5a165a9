package chest

import "github.com/slaner/DataChest/internal/header"

// Result represents the outcome of processing a single file.
type Result struct {
	// Input file path
	Input string

	// Output file path, empty in test mode
	Output string

	// Output file size in bytes
	OutputSize int64

	// Header written or read
	Header header.Header

	// Success, or CleanupFailed when the operation succeeded but the input could not be deleted
	Status Code

	// Why cleanup failed
	CleanupErr error
}
