// Package checksum computes the digests that protect a container.
//
// Every integrity field in a container is a Digest32: the first four bytes of a SHA-256 digest,
// interpreted as a little-endian unsigned integer. Digest32 detects corruption. It is not a MAC.
package checksum

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/tink-crypto/tink-go/v2/subtle"
)

// Algorithm names the digest used for every checksum field.
const Algorithm = "SHA256"

// Size is the length in bytes of a full digest.
const Size = 32

//nolint:gochecknoglobals
var newHash = subtle.GetHashFunc(Algorithm)

// Sum returns the full digest of b.
func Sum(b []byte) []byte {
	h := newHash()
	h.Write(b)

	return h.Sum(nil)
}

// SumReader returns the full digest of everything left in r and the number of bytes consumed.
// The read position is not restored.
func SumReader(r io.Reader) ([]byte, int64, error) {
	h := newHash()

	n, err := io.Copy(h, r)
	if err != nil {
		return nil, n, fmt.Errorf("hashing stream: %w", err)
	}

	return h.Sum(nil), n, nil
}

// Sum32 returns the Digest32 of b.
func Sum32(b []byte) uint32 {
	return fold(Sum(b))
}

// Sum32Reader returns the Digest32 of everything left in r and the number of bytes consumed.
// The read position is not restored.
func Sum32Reader(r io.Reader) (uint32, int64, error) {
	sum, n, err := SumReader(r)
	if err != nil {
		return 0, n, err
	}

	return fold(sum), n, nil
}

func fold(sum []byte) uint32 {
	return binary.LittleEndian.Uint32(sum[:4])
}
