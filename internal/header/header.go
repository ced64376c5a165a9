// Package header implements the versioned container header.
//
// Every header starts with a fixed 38-byte little-endian base:
//
//	offset size field
//	0      2    signature (0x5748)
//	2      2    format version
//	4      4    reserved, always zero
//	8      4    header checksum
//	12     4    encrypted payload checksum
//	16     4    raw data checksum
//	20     2    header size
//	22     8    encrypted payload size
//	30     8    raw data size
//
// followed by fields specific to the format version. The header checksum is the Digest32 of the
// serialized header with the checksum field held at zero.
//
// Headers go through two stages. A Draft is created from a Registry and may be edited; sealing it
// computes sizes and checksums and yields an immutable Header. Parsing a stream also yields a Header,
// but only after its checksum has been verified.
package header

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/slaner/DataChest/internal/checksum"
)

const (
	// Signature identifies the container format family. On disk it reads "HW".
	Signature uint16 = 0x5748
	// BaseSize is the length of the fields shared by every version.
	BaseSize = 38
)

// Version is a header format version.
type Version uint16

// Format versions known to this package.
const (
	Version1 Version = 1
	Version2 Version = 2
)

func (v Version) String() string {
	return fmt.Sprintf("%d", uint16(v))
}

// Checksum is a Digest32 value.
type Checksum uint32

func (c Checksum) String() string {
	return fmt.Sprintf("0x%08X", uint32(c))
}

// Field is one labelled row of a header description.
type Field struct {
	Label string
	Value any
}

// Header is a sealed container header. The zero value is not valid.
type Header struct {
	version           Version
	checksum          uint32
	encryptedChecksum uint32
	rawChecksum       uint32
	size              uint16
	encryptedSize     uint64
	rawSize           uint64

	variant Variant
}

// Version returns the format version.
func (h Header) Version() Version { return h.version }

// Checksum returns the header checksum.
func (h Header) Checksum() uint32 { return h.checksum }

// EncryptedChecksum returns the Digest32 of the payload.
func (h Header) EncryptedChecksum() uint32 { return h.encryptedChecksum }

// RawChecksum returns the Digest32 of the plaintext.
func (h Header) RawChecksum() uint32 { return h.rawChecksum }

// Size returns the serialized header length.
func (h Header) Size() int { return int(h.size) }

// EncryptedSize returns the payload length.
func (h Header) EncryptedSize() uint64 { return h.encryptedSize }

// RawSize returns the plaintext length.
func (h Header) RawSize() uint64 { return h.rawSize }

// Comment returns the comment carried by the header, or "" if the version has none.
func (h Header) Comment() string {
	if c, ok := h.variant.(commenter); ok {
		return c.comment()
	}

	return ""
}

// Bytes serializes the header.
func (h Header) Bytes() []byte {
	return h.marshal(h.checksum)
}

// Describe lists the header fields in wire order, followed by the version-specific fields.
func (h Header) Describe() []Field {
	fields := []Field{
		{Label: "Version", Value: h.version},
		{Label: "Header checksum", Value: Checksum(h.checksum)},
		{Label: "Encrypted checksum", Value: Checksum(h.encryptedChecksum)},
		{Label: "Raw checksum", Value: Checksum(h.rawChecksum)},
		{Label: "Header size", Value: h.size},
		{Label: "Encrypted size", Value: h.encryptedSize},
		{Label: "Raw size", Value: h.rawSize},
	}

	return append(fields, h.variant.describe()...)
}

// marshal serializes the header with the given value in the checksum field.
func (h Header) marshal(sum uint32) []byte {
	b := make([]byte, BaseSize, BaseSize+h.variant.extensionSize())

	le := binary.LittleEndian
	le.PutUint16(b[0:2], Signature)
	le.PutUint16(b[2:4], uint16(h.version))
	le.PutUint32(b[4:8], 0)
	le.PutUint32(b[8:12], sum)
	le.PutUint32(b[12:16], h.encryptedChecksum)
	le.PutUint32(b[16:20], h.rawChecksum)
	le.PutUint16(b[20:22], h.size)
	le.PutUint64(b[22:30], h.encryptedSize)
	le.PutUint64(b[30:38], h.rawSize)

	return h.variant.appendExtension(b)
}

// seal computes the header checksum over the current fields.
func (h Header) seal() Header {
	h.checksum = checksum.Sum32(h.marshal(0))

	return h
}

// Draft is an unsealed header.
type Draft struct {
	variant Variant
}

// Version returns the format version the draft will be sealed with.
func (d Draft) Version() Version {
	return d.variant.Version()
}

// WithComment returns a copy of the draft carrying comment.
func (d Draft) WithComment(comment string) (Draft, error) {
	c, ok := d.variant.(commenter)
	if !ok {
		return Draft{}, fmt.Errorf("%w: version %s", ErrCommentNotSupported, d.Version())
	}

	v, err := c.withComment(comment)
	if err != nil {
		return Draft{}, err
	}

	return Draft{variant: v}, nil
}

// Seal fills in sizes and checksums from the plaintext and ciphertext and returns the sealed header.
// raw is rewound to its start and read to the end.
func (d Draft) Seal(raw io.ReadSeeker, cipherText []byte) (Header, error) {
	if _, err := raw.Seek(0, io.SeekStart); err != nil {
		return Header{}, fmt.Errorf("rewinding raw data: %w", err)
	}

	rawChecksum, rawSize, err := checksum.Sum32Reader(raw)
	if err != nil {
		return Header{}, fmt.Errorf("computing raw checksum: %w", err)
	}

	h := Header{
		version:           d.variant.Version(),
		encryptedChecksum: checksum.Sum32(cipherText),
		rawChecksum:       rawChecksum,
		size:              uint16(BaseSize + d.variant.extensionSize()),
		encryptedSize:     uint64(len(cipherText)),
		rawSize:           uint64(rawSize),
		variant:           d.variant,
	}

	return h.seal(), nil
}
