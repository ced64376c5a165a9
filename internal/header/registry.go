package header

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"

	"github.com/slaner/DataChest/internal/checksum"
)

// Registry maps format versions to variants. Build it once, then share it read-only.
type Registry struct {
	factories map[Version]Factory
	latest    Version
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[Version]Factory)}
}

// Default returns a registry holding every variant of this package.
func Default() *Registry {
	r := NewRegistry()
	r.Register(Version1, NewV1)
	r.Register(Version2, NewV2)

	return r
}

// Register adds a variant under version. It does nothing if the version is already taken or if the
// variant is already registered under another version.
func (r *Registry) Register(version Version, factory Factory) {
	if _, ok := r.factories[version]; ok {
		return
	}

	kind := reflect.TypeOf(factory())
	for _, f := range r.factories {
		if reflect.TypeOf(f()) == kind {
			return
		}
	}

	r.factories[version] = factory

	if version > r.latest {
		r.latest = version
	}
}

// Latest returns the highest registered version, used for new containers.
func (r *Registry) Latest() Version {
	return r.latest
}

// Versions returns the registered versions in ascending order.
func (r *Registry) Versions() []Version {
	versions := make([]Version, 0, len(r.factories))
	for v := range r.factories {
		versions = append(versions, v)
	}

	slices.Sort(versions)

	return versions
}

// Create returns a draft for exactly version.
func (r *Registry) Create(version Version) (Draft, error) {
	factory, ok := r.factories[version]
	if !ok {
		return Draft{}, fmt.Errorf("%w: %s", ErrNotSupportedVersion, version)
	}

	return Draft{variant: factory()}, nil
}

// CreateDefault returns a draft for the latest registered version.
func (r *Registry) CreateDefault() (Draft, error) {
	return r.Create(r.latest)
}

// Parse reads and verifies a header from the current position of rs.
// On success rs is left at the first payload byte.
func (r *Registry) Parse(rs io.ReadSeeker) (Header, error) {
	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return Header{}, fmt.Errorf("locating header: %w", err)
	}

	var peek [4]byte

	n, err := io.ReadFull(rs, peek[:])
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return Header{}, fmt.Errorf("reading header: %w", err)
	}

	if n < 2 || binary.LittleEndian.Uint16(peek[0:2]) != Signature {
		return Header{}, ErrInvalidSignature
	}

	if n < len(peek) {
		return Header{}, fmt.Errorf("%w: %w", ErrTruncatedHeader, err)
	}

	version := Version(binary.LittleEndian.Uint16(peek[2:4]))

	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return Header{}, fmt.Errorf("rewinding header: %w", err)
	}

	draft, err := r.Create(version)
	if err != nil {
		return Header{}, err
	}

	return decode(rs, draft.variant)
}

// decode reads a full header in wire order and verifies it against variant.
func decode(r io.Reader, variant Variant) (Header, error) {
	var b [BaseSize]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return Header{}, fmt.Errorf("%w: %w", ErrTruncatedHeader, err)
	}

	le := binary.LittleEndian

	if le.Uint16(b[0:2]) != Signature {
		return Header{}, ErrInvalidSignature
	}

	if v := Version(le.Uint16(b[2:4])); v != variant.Version() {
		return Header{}, fmt.Errorf("%w: field says %s, variant is %s", ErrHeaderVersionMismatch, v, variant.Version())
	}

	if reserved := le.Uint32(b[4:8]); reserved != 0 {
		return Header{}, fmt.Errorf("%w: reserved = %#x", ErrInvalidHeaderFieldValue, reserved)
	}

	stored := le.Uint32(b[8:12])

	h := Header{
		version:           variant.Version(),
		encryptedChecksum: le.Uint32(b[12:16]),
		rawChecksum:       le.Uint32(b[16:20]),
		size:              le.Uint16(b[20:22]),
		encryptedSize:     le.Uint64(b[22:30]),
		rawSize:           le.Uint64(b[30:38]),
	}

	ext, err := variant.readExtension(r)
	if err != nil {
		return Header{}, err
	}

	h.variant = ext

	if sum := checksum.Sum32(h.marshal(0)); sum != stored {
		return Header{}, fmt.Errorf("%w: stored %s, computed %s", ErrIncorrectHeaderChecksum, Checksum(stored), Checksum(sum))
	}

	h.checksum = stored

	if want := BaseSize + ext.extensionSize(); int(h.size) != want {
		return Header{}, fmt.Errorf("%w: header size %d, layout is %d bytes", ErrInvalidHeaderFieldValue, h.size, want)
	}

	return h, nil
}
