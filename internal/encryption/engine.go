package encryption

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"go.uber.org/multierr"
)

// Context holds the material for one encrypt or decrypt operation.
// Key must be Provider.KeySize bytes and IV Provider.BlockSize bytes.
type Context struct {
	Provider Provider
	Key      []byte
	IV       []byte
}

// Engine runs cipher transforms over a source stream in fixed-size chunks.
// Output is collected in memory and returned whole.
type Engine struct {
	chunkSize int
	logger    zerolog.Logger
}

// NewEngine returns an engine reading chunkSize bytes at a time.
// A chunkSize of zero selects DefaultChunkSize.
func NewEngine(chunkSize int, logger zerolog.Logger) (*Engine, error) {
	if chunkSize == 0 {
		chunkSize = DefaultChunkSize
	}

	if chunkSize < MinChunkSize {
		return nil, fmt.Errorf("%w: %d, minimum is %d", ErrInvalidBufferSize, chunkSize, MinChunkSize)
	}

	return &Engine{chunkSize: chunkSize, logger: logger}, nil
}

// ChunkSize returns the configured chunk size.
func (e *Engine) ChunkSize() int {
	return e.chunkSize
}

// Encrypt reads src to the end and returns its padded ciphertext.
func (e *Engine) Encrypt(src io.Reader, cc Context) ([]byte, error) {
	var out memBuffer

	t, err := cc.Provider.NewEncryptor(cc.Key, cc.IV, &out)
	if err != nil {
		return nil, err
	}

	return e.run(src, t, &out, false, cc.Provider.Name)
}

// Decrypt reads ciphertext from src to the end and returns the plaintext.
// Every failure of the cipher transform is reported as ErrInvalidPasswordOrDataCorrupted.
func (e *Engine) Decrypt(src io.Reader, cc Context) ([]byte, error) {
	var out memBuffer

	t, err := cc.Provider.NewDecryptor(cc.Key, cc.IV, &out)
	if err != nil {
		return nil, err
	}

	return e.run(src, t, &out, true, cc.Provider.Name)
}

func (e *Engine) run(src io.Reader, t Transform, out *memBuffer, decrypt bool, name string) (_ []byte, err error) {
	defer func() {
		if err != nil {
			err = abort(t, err)

			return
		}

		err = t.Close()
	}()

	buf, err := getBuffer(e.chunkSize)
	if err != nil {
		return nil, err
	}
	defer putBuffer(buf)

	var consumed int64

	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			consumed += int64(n)

			if _, err := t.Write(buf[:n]); err != nil {
				return nil, classify(err, decrypt)
			}
		}

		if errors.Is(rerr, io.EOF) {
			break
		}

		if rerr != nil {
			return nil, fmt.Errorf("%w: %w", ErrStreamRead, rerr)
		}
	}

	if err := t.Final(); err != nil {
		return nil, classify(err, decrypt)
	}

	e.logger.Debug().
		Str("algorithm", name).
		Bool("decrypt", decrypt).
		Int("chunk", e.chunkSize).
		Int64("in", consumed).
		Int("out", out.Len()).
		Msg("cipher transform complete")

	return out.Bytes(), nil
}

// classify maps a transform failure to the error reported to callers.
func classify(err error, decrypt bool) error {
	if errors.Is(err, ErrStreamWrite) || !decrypt {
		return err
	}

	return fmt.Errorf("%w: %v", ErrInvalidPasswordOrDataCorrupted, err) //nolint:errorlint
}

// abort releases t after a failure. ErrNotFinalized is expected at this point and dropped; any other
// release failure is appended after the primary error.
func abort(t Transform, primary error) error {
	err := t.Close()
	if err == nil || errors.Is(err, ErrNotFinalized) {
		return primary
	}

	return multierr.Append(primary, fmt.Errorf("releasing transform: %w", err))
}

// memBuffer is a bytes.Buffer whose growth failures are returned instead of panicking.
type memBuffer struct {
	bytes.Buffer
}

func (m *memBuffer) Write(p []byte) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok && errors.Is(e, bytes.ErrTooLarge) {
				n, err = 0, ErrOutOfMemory

				return
			}

			panic(r)
		}
	}()

	return m.Buffer.Write(p)
}
