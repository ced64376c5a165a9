// Package keys turns password and IV source strings into fixed-length key material.
//
// A source string may start with a prefix that selects how the rest is interpreted:
//
//	FT:<text>  literal text, hashed as UTF-16LE
//	FF:<path>  contents of a file
//	FH:<hex>   hex-encoded bytes
//
// Without a prefix, a string naming an existing regular file is treated as a file source and
// anything else as literal text.
package keys

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/slaner/DataChest/internal/checksum"
	"github.com/slaner/DataChest/pkg/utf16le"
)

// Kind selects how a source value is turned into bytes.
type Kind int

const (
	// None means no source was supplied.
	None Kind = iota
	// Text is a literal string.
	Text
	// File is a path whose contents are the material.
	File
	// Hex is a hex-encoded byte string.
	Hex
)

// Prefixes that select a source kind explicitly.
const (
	PrefixText = "FT:"
	PrefixFile = "FF:"
	PrefixHex  = "FH:"
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Text:
		return "text"
	case File:
		return "file"
	case Hex:
		return "hex"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Source is a password or IV source.
type Source struct {
	Kind  Kind
	Value string
}

// TextSource returns a literal text source.
func TextSource(s string) Source {
	return Source{Kind: Text, Value: s}
}

// FileSource returns a file source.
func FileSource(path string) Source {
	return Source{Kind: File, Value: path}
}

// ParseSource interprets s according to its prefix, falling back to file auto-detection.
// An empty string, or a file or hex prefix with nothing after it, yields a None source.
func ParseSource(s string) Source {
	switch {
	case s == "":
		return Source{}
	case strings.HasPrefix(s, PrefixText):
		return TextSource(strings.TrimPrefix(s, PrefixText))
	case strings.HasPrefix(s, PrefixFile):
		if path := strings.TrimPrefix(s, PrefixFile); path != "" {
			return FileSource(path)
		}

		return Source{}
	case strings.HasPrefix(s, PrefixHex):
		if value := strings.TrimPrefix(s, PrefixHex); value != "" {
			return Source{Kind: Hex, Value: value}
		}

		return Source{}
	}

	if info, err := os.Stat(s); err == nil && info.Mode().IsRegular() {
		return FileSource(s)
	}

	return TextSource(s)
}

// IsZero reports whether no source was supplied.
func (s Source) IsZero() bool {
	return s.Kind == None
}

// String describes the source without revealing literal material.
func (s Source) String() string {
	switch s.Kind {
	case File:
		return "file:" + s.Value
	case Text, Hex:
		return s.Kind.String() + ":***"
	default:
		return s.Kind.String()
	}
}

// digest hashes the source material.
func (s Source) digest() ([]byte, error) {
	switch s.Kind {
	case Text:
		b, err := utf16le.Encode(s.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSource, err)
		}

		return checksum.Sum(b), nil
	case Hex:
		b, err := hex.DecodeString(strings.TrimSpace(s.Value))
		if err != nil {
			return nil, fmt.Errorf("%w: decoding hex: %w", ErrInvalidSource, err)
		}

		return checksum.Sum(b), nil
	case File:
		return sumFile(s.Value)
	default:
		return nil, fmt.Errorf("%w: no material", ErrInvalidSource)
	}
}
