package encryption

import (
	"crypto/cipher"
	"fmt"
	"io"
)

// Transform is a streaming cipher transform writing its output to a destination.
//
// Input may be written in chunks of any size. Final flushes the last block, applying padding when
// encrypting and checking it when decrypting. Close releases the transform and may be called any
// number of times; it returns ErrNotFinalized when input was consumed but Final was never called.
type Transform interface {
	io.Writer
	Final() error
	Close() error
}

// cbcTransform runs a CBC block mode over buffered input.
// When decrypting, the last full block is held back until Final so that its padding can be removed.
type cbcTransform struct {
	mode      cipher.BlockMode
	decrypt   bool
	blockSize int
	dst       io.Writer

	pending []byte
	out     []byte

	started   bool
	finalized bool
	closed    bool
}

func newCBCTransform(mode cipher.BlockMode, decrypt bool, dst io.Writer) *cbcTransform {
	return &cbcTransform{
		mode:      mode,
		decrypt:   decrypt,
		blockSize: mode.BlockSize(),
		dst:       dst,
		pending:   make([]byte, 0, 2*mode.BlockSize()),
	}
}

func (t *cbcTransform) Write(p []byte) (int, error) {
	if err := t.usable(); err != nil {
		return 0, err
	}

	t.started = true
	t.pending = append(t.pending, p...)

	n := len(t.pending) / t.blockSize * t.blockSize
	if t.decrypt && n == len(t.pending) {
		n -= t.blockSize
	}

	if n <= 0 {
		return len(p), nil
	}

	if cap(t.out) < n {
		t.out = make([]byte, n)
	}

	out := t.out[:n]
	t.mode.CryptBlocks(out, t.pending[:n])

	if err := t.emit(out); err != nil {
		return 0, err
	}

	t.pending = append(t.pending[:0], t.pending[n:]...)

	return len(p), nil
}

func (t *cbcTransform) Final() error {
	if err := t.usable(); err != nil {
		return err
	}

	t.finalized = true

	defer func() {
		clear(t.pending)
		t.pending = t.pending[:0]
	}()

	if !t.decrypt {
		padded := pkcs7Pad(t.pending, t.blockSize)
		t.mode.CryptBlocks(padded, padded)

		return t.emit(padded)
	}

	if len(t.pending) != t.blockSize {
		return fmt.Errorf("%w: %d trailing bytes", ErrInvalidBlockSize, len(t.pending))
	}

	last := t.pending[:t.blockSize]
	t.mode.CryptBlocks(last, last)

	plain, err := pkcs7Unpad(last, t.blockSize)
	if err != nil {
		return err
	}

	return t.emit(plain)
}

func (t *cbcTransform) Close() error {
	if t.closed {
		return nil
	}

	t.closed = true

	clear(t.pending)
	clear(t.out)

	if t.started && !t.finalized {
		return ErrNotFinalized
	}

	return nil
}

func (t *cbcTransform) usable() error {
	switch {
	case t.closed:
		return ErrTransformClosed
	case t.finalized:
		return ErrFinalized
	default:
		return nil
	}
}

func (t *cbcTransform) emit(b []byte) error {
	if _, err := t.dst.Write(b); err != nil {
		return fmt.Errorf("%w: %w", ErrStreamWrite, err)
	}

	return nil
}
