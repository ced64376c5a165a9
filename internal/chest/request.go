package chest

import (
	"fmt"

	"github.com/slaner/DataChest/internal/encryption"
	"github.com/slaner/DataChest/internal/header"
	"github.com/slaner/DataChest/internal/keys"
)

// Params selects the cipher and header for one operation.
type Params struct {
	// Algorithm used for the payload. It is not stored in the container.
	Algorithm encryption.Algorithm

	// Password source; None selects keys.DefaultPassword.
	Password keys.Source

	// IV source; None selects the default IV.
	IV keys.Source

	// Chunk size for the cipher engine; zero selects the default.
	BufferSize int

	// Header version for new containers; zero selects the latest registered version.
	HeaderVersion header.Version

	// Comment stored in new containers that support one.
	Comment string

	// Verify checksums of the payload and the plaintext when decrypting.
	Verify bool
}

// Request describes a file-level operation.
type Request struct {
	Params

	// Input file path
	Input string

	// Output file path; must be empty in test mode
	Output string

	// Test runs the full transform and verification without touching the filesystem
	Test bool

	// Cleanup deletes the input after success
	Cleanup bool

	// Overwrite replaces an existing output
	Overwrite bool
}

// Validate checks the request for missing and contradicting options.
// Test mode excludes every option with a filesystem side effect.
func (r Request) Validate() error {
	if r.Input == "" {
		return ErrNoInputFile
	}

	if r.Test {
		for name, set := range map[string]bool{
			"output":    r.Output != "",
			"cleanup":   r.Cleanup,
			"overwrite": r.Overwrite,
		} {
			if set {
				return fmt.Errorf("%w: test mode cannot be combined with %s", ErrAmbiguousOption, name)
			}
		}

		return nil
	}

	if r.Output == "" {
		return fmt.Errorf("%w: no output path", ErrInvalidParameter)
	}

	return nil
}
