package keys

import (
	"fmt"
	"os"
	"os/user"

	"github.com/slaner/DataChest/internal/checksum"
)

// defaultIV is used when no IV source is supplied. It is public and only makes output deterministic.
//
//nolint:gochecknoglobals
var defaultIV = [checksum.Size]byte{
	0xBF, 0x67, 0x8B, 0x27, 0xDC, 0xDE, 0x98, 0xB9,
	0xDD, 0x44, 0x77, 0x13, 0x85, 0x08, 0xB5, 0x58,
	0x20, 0x58, 0xE6, 0x6F, 0x5E, 0x0F, 0x66, 0x90,
	0x3E, 0x9E, 0x11, 0xB3, 0xC1, 0x04, 0x11, 0x2E,
}

// Derive hashes the source material and returns the first n bytes of the digest.
func Derive(src Source, n int) ([]byte, error) {
	if err := checkSize(n); err != nil {
		return nil, err
	}

	digest, err := src.digest()
	if err != nil {
		return nil, fmt.Errorf("deriving from %s: %w", src, err)
	}

	return digest[:n:n], nil
}

// DeriveIV is Derive, except that a None source yields the default IV.
func DeriveIV(src Source, n int) ([]byte, error) {
	if src.IsZero() {
		return DefaultIV(n)
	}

	return Derive(src, n)
}

// DefaultIV returns the first n bytes of the default IV.
func DefaultIV(n int) ([]byte, error) {
	if err := checkSize(n); err != nil {
		return nil, err
	}

	iv := make([]byte, n)
	copy(iv, defaultIV[:])

	return iv, nil
}

// DefaultPassword returns the literal "<user>@<host>" of the current environment.
func DefaultPassword() Source {
	name := os.Getenv("USER")
	if u, err := user.Current(); err == nil {
		name = u.Username
	}

	host, err := os.Hostname()
	if err != nil {
		host = "UNKNOWN_MACHINE"
	}

	return TextSource(name + "@" + host)
}

func checkSize(n int) error {
	if n <= 0 || n > checksum.Size {
		return fmt.Errorf("%w: %d bytes requested, digest has %d", ErrInvalidKeySize, n, checksum.Size)
	}

	return nil
}

func sumFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening key file: %w", err)
	}
	defer f.Close()

	digest, _, err := checksum.SumReader(f)
	if err != nil {
		return nil, fmt.Errorf("reading key file %q: %w", path, err)
	}

	return digest, nil
}
