package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/des" //nolint:gosec // kept for containers written with DES and 3DES
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/blowfish"
	"golang.org/x/crypto/cast5" //nolint:staticcheck // legacy algorithm offered for compatibility
	"golang.org/x/crypto/twofish"
)

// Algorithm identifies a block cipher. The identifier is not stored in containers.
type Algorithm uint8

// Supported algorithms.
const (
	AES Algorithm = iota
	DES
	TripleDES
	Blowfish
	CAST5
	Twofish
)

// Provider describes a block cipher and creates CBC transforms for it.
// The IV size equals BlockSize.
type Provider struct {
	Algorithm Algorithm
	Name      string
	KeySize   int
	BlockSize int

	newBlock func(key []byte) (cipher.Block, error)
}

//nolint:gochecknoglobals
var providers = []Provider{
	{Algorithm: AES, Name: "AES", KeySize: 32, BlockSize: aes.BlockSize, newBlock: aes.NewCipher},
	{Algorithm: DES, Name: "DES", KeySize: 8, BlockSize: des.BlockSize, newBlock: des.NewCipher},
	{Algorithm: TripleDES, Name: "TripleDES", KeySize: 24, BlockSize: des.BlockSize, newBlock: des.NewTripleDESCipher},
	{
		Algorithm: Blowfish, Name: "Blowfish", KeySize: 16, BlockSize: blowfish.BlockSize,
		newBlock: func(key []byte) (cipher.Block, error) { return blowfish.NewCipher(key) },
	},
	{
		Algorithm: CAST5, Name: "CAST5", KeySize: cast5.KeySize, BlockSize: cast5.BlockSize,
		newBlock: func(key []byte) (cipher.Block, error) { return cast5.NewCipher(key) },
	},
	{
		Algorithm: Twofish, Name: "Twofish", KeySize: 32, BlockSize: twofish.BlockSize,
		newBlock: func(key []byte) (cipher.Block, error) { return twofish.NewCipher(key) },
	},
}

//nolint:gochecknoglobals
var aliases = map[string]Algorithm{
	"3des":       TripleDES,
	"des3":       TripleDES,
	"triple-des": TripleDES,
}

func (a Algorithm) String() string {
	if int(a) < len(providers) {
		return providers[a].Name
	}

	return fmt.Sprintf("Algorithm(%d)", uint8(a))
}

// ParseAlgorithm accepts an algorithm name, case-insensitively, or its numeric identifier.
func ParseAlgorithm(s string) (Algorithm, error) {
	s = strings.TrimSpace(s)

	if n, err := strconv.ParseUint(s, 10, 8); err == nil {
		if int(n) < len(providers) {
			return Algorithm(n), nil
		}

		return 0, fmt.Errorf("%w: %q", ErrInvalidAlgorithm, s)
	}

	for _, p := range providers {
		if strings.EqualFold(p.Name, s) {
			return p.Algorithm, nil
		}
	}

	if a, ok := aliases[strings.ToLower(s)]; ok {
		return a, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidAlgorithm, s)
}

// Lookup returns the provider for a.
func Lookup(a Algorithm) (Provider, error) {
	if int(a) >= len(providers) {
		return Provider{}, fmt.Errorf("%w: %d", ErrInvalidAlgorithm, a)
	}

	return providers[a], nil
}

// Providers returns every supported cipher in identifier order.
func Providers() []Provider {
	return append([]Provider(nil), providers...)
}

// NewEncryptor returns a transform that encrypts into dst.
func (p Provider) NewEncryptor(key, iv []byte, dst io.Writer) (Transform, error) {
	block, err := p.init(key, iv)
	if err != nil {
		return nil, err
	}

	return newCBCTransform(cipher.NewCBCEncrypter(block, iv), false, dst), nil
}

// NewDecryptor returns a transform that decrypts into dst.
func (p Provider) NewDecryptor(key, iv []byte, dst io.Writer) (Transform, error) {
	block, err := p.init(key, iv)
	if err != nil {
		return nil, err
	}

	return newCBCTransform(cipher.NewCBCDecrypter(block, iv), true, dst), nil
}

func (p Provider) init(key, iv []byte) (cipher.Block, error) {
	if p.newBlock == nil {
		return nil, fmt.Errorf("%w: %w: no cipher for %s", ErrAlgorithmInit, ErrInvalidAlgorithm, p.Algorithm)
	}

	if len(key) != p.KeySize {
		return nil, fmt.Errorf("%w: %s needs a %d byte key, got %d", ErrAlgorithmInit, p.Name, p.KeySize, len(key))
	}

	if len(iv) != p.BlockSize {
		return nil, fmt.Errorf("%w: %s needs a %d byte IV, got %d", ErrAlgorithmInit, p.Name, p.BlockSize, len(iv))
	}

	block, err := p.newBlock(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrAlgorithmInit, p.Name, err)
	}

	return block, nil
}
