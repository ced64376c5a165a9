package header

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/slaner/DataChest/pkg/utf16le"
)

// Variant is the version-specific part of a header.
// The set of variants is closed; use NewV1 and NewV2 to obtain them.
type Variant interface {
	// Version returns the format version the variant is tied to.
	Version() Version

	extensionSize() int
	appendExtension(b []byte) []byte
	readExtension(r io.Reader) (Variant, error)
	describe() []Field
}

// Factory returns an empty variant.
type Factory func() Variant

type commenter interface {
	comment() string
	withComment(comment string) (Variant, error)
}

// MaxCommentBytes is the longest UTF-16LE comment that keeps the header size within 16 bits.
const MaxCommentBytes = math.MaxUint16 - BaseSize - 2

// NewV1 returns the version 1 variant, which has no fields beyond the base.
func NewV1() Variant { return v1{} }

// NewV2 returns the version 2 variant, which adds an optional comment.
func NewV2() Variant { return v2{} }

type v1 struct{}

func (v1) Version() Version { return Version1 }

func (v1) extensionSize() int { return 0 }

func (v1) appendExtension(b []byte) []byte { return b }

func (v v1) readExtension(io.Reader) (Variant, error) { return v, nil }

func (v1) describe() []Field { return nil }

// v2 stores the comment exactly as found on disk so that re-serialization reproduces it.
type v2 struct {
	raw []byte
}

func (v2) Version() Version { return Version2 }

func (v v2) extensionSize() int {
	return 2 + len(v.raw)
}

func (v v2) appendExtension(b []byte) []byte {
	b = binary.LittleEndian.AppendUint16(b, uint16(len(v.raw)))

	return append(b, v.raw...)
}

func (v2) readExtension(r io.Reader) (Variant, error) {
	var length [2]byte
	if _, err := io.ReadFull(r, length[:]); err != nil {
		return nil, fmt.Errorf("%w: reading comment length: %w", ErrTruncatedHeader, err)
	}

	n := binary.LittleEndian.Uint16(length[:])
	if n == 0 {
		return v2{}, nil
	}

	raw := make([]byte, n)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("%w: reading comment: %w", ErrTruncatedHeader, err)
	}

	return v2{raw: raw}, nil
}

func (v v2) describe() []Field {
	return []Field{{Label: "Comment", Value: v.comment()}}
}

func (v v2) comment() string {
	if len(v.raw) == 0 {
		return ""
	}

	s, err := utf16le.Decode(v.raw)
	if err != nil {
		return ""
	}

	return s
}

func (v2) withComment(comment string) (Variant, error) {
	raw, err := utf16le.Encode(comment)
	if err != nil {
		return nil, fmt.Errorf("encoding comment: %w", err)
	}

	if len(raw) > MaxCommentBytes {
		return nil, fmt.Errorf("%w: %d bytes, at most %d", ErrCommentTooLong, len(raw), MaxCommentBytes)
	}

	if len(raw) == 0 {
		raw = nil
	}

	return v2{raw: raw}, nil
}
