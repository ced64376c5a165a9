// Package utf16le converts between Go strings and little-endian UTF-16 byte sequences without a byte order mark.
package utf16le

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

//nolint:gochecknoglobals
var encoding = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// Encode returns the UTF-16LE representation of s.
// Invalid UTF-8 sequences are replaced with U+FFFD.
func Encode(s string) ([]byte, error) {
	b, err := encoding.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encoding utf-16le: %w", err)
	}

	return b, nil
}

// Decode converts UTF-16LE bytes back into a string.
// An odd trailing byte is replaced with U+FFFD.
func Decode(b []byte) (string, error) {
	s, err := encoding.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decoding utf-16le: %w", err)
	}

	return string(s), nil
}
