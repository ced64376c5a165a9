// Package chest reads and writes containers: a versioned header followed by the encrypted payload.
//
// Encrypting derives key and IV, encrypts the source, seals a header over plaintext and ciphertext and
// writes both. Decrypting parses and verifies the header, checks the payload checksum before any
// decryption is attempted, decrypts, and checks the plaintext checksum before writing anything.
package chest

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/rs/zerolog"

	"github.com/slaner/DataChest/internal/checksum"
	"github.com/slaner/DataChest/internal/encryption"
	"github.com/slaner/DataChest/internal/fileutil"
	"github.com/slaner/DataChest/internal/header"
	"github.com/slaner/DataChest/internal/keys"
)

const outputPerm = 0o600

// Codec runs container operations. It is safe to reuse across sequential operations.
type Codec struct {
	registry *header.Registry
	logger   zerolog.Logger
	remove   func(string) error
}

// Option configures a Codec.
type Option func(*Codec)

// WithLogger sets the logger for diagnostic output.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Codec) {
		c.logger = logger
	}
}

// WithRegistry sets the header registry used to create and parse headers.
func WithRegistry(registry *header.Registry) Option {
	return func(c *Codec) {
		c.registry = registry
	}
}

// New returns a codec using header.Default and no logging unless configured otherwise.
func New(opts ...Option) *Codec {
	c := &Codec{
		registry: header.Default(),
		logger:   zerolog.Nop(),
		remove:   os.Remove,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Registry returns the header registry in use.
func (c *Codec) Registry() *header.Registry {
	return c.registry
}

// EncryptStream encrypts src and writes the container to dst.
// A nil dst runs in test mode: everything is computed and nothing is written.
func (c *Codec) EncryptStream(src io.ReadSeeker, dst io.Writer, p Params) (header.Header, error) {
	draft, err := c.draft(p)
	if err != nil {
		return header.Header{}, err
	}

	c.stage("derive-keys", p)

	cc, engine, err := c.prepare(p)
	if err != nil {
		return header.Header{}, err
	}

	c.stage("encrypt", p)

	cipherText, err := engine.Encrypt(src, cc)
	if err != nil {
		return header.Header{}, fmt.Errorf("encrypting: %w", err)
	}

	c.stage("seal-header", p)

	h, err := draft.Seal(src, cipherText)
	if err != nil {
		return header.Header{}, fmt.Errorf("sealing header: %w", err)
	}

	if dst == nil {
		return h, nil
	}

	c.stage("write", p)

	if _, err := dst.Write(h.Bytes()); err != nil {
		return header.Header{}, fmt.Errorf("writing header: %w", err)
	}

	if _, err := dst.Write(cipherText); err != nil {
		return header.Header{}, fmt.Errorf("writing payload: %w", err)
	}

	return h, nil
}

// DecryptStream reads a container from src and writes the plaintext to dst.
// A nil dst runs in test mode.
func (c *Codec) DecryptStream(src io.ReadSeeker, dst io.Writer, p Params) (header.Header, error) {
	c.stage("parse-header", p)

	h, err := c.registry.Parse(src)
	if err != nil {
		return header.Header{}, fmt.Errorf("parsing header: %w", err)
	}

	if p.Verify {
		c.stage("verify-payload", p)

		if err := verifyPayload(src, h); err != nil {
			return header.Header{}, err
		}
	}

	c.stage("derive-keys", p)

	cc, engine, err := c.prepare(p)
	if err != nil {
		return header.Header{}, err
	}

	c.stage("decrypt", p)

	plain, err := engine.Decrypt(src, cc)
	if err != nil {
		return header.Header{}, fmt.Errorf("decrypting: %w", err)
	}

	if p.Verify {
		c.stage("verify-plaintext", p)

		if sum := checksum.Sum32(plain); sum != h.RawChecksum() || uint64(len(plain)) != h.RawSize() {
			return header.Header{}, fmt.Errorf("%w: stored %s, computed %s",
				ErrIncorrectRawDataChecksum, header.Checksum(h.RawChecksum()), header.Checksum(sum))
		}
	}

	if dst == nil {
		return h, nil
	}

	c.stage("write", p)

	if _, err := dst.Write(plain); err != nil {
		return header.Header{}, fmt.Errorf("writing plaintext: %w", err)
	}

	return h, nil
}

// Encrypt encrypts req.Input into a container at req.Output.
func (c *Codec) Encrypt(req Request) (Result, error) {
	return c.run(req, c.EncryptStream)
}

// Decrypt decrypts the container at req.Input into req.Output.
func (c *Codec) Decrypt(req Request) (Result, error) {
	return c.run(req, c.DecryptStream)
}

// Inspect parses and verifies the header of the container at path without decrypting it.
func (c *Codec) Inspect(path string) (header.Header, error) {
	src, err := openSource(path)
	if err != nil {
		return header.Header{}, err
	}
	defer src.Close()

	h, err := c.registry.Parse(src)
	if err != nil {
		return header.Header{}, fmt.Errorf("parsing header of %q: %w", path, err)
	}

	return h, nil
}

type streamFunc func(src io.ReadSeeker, dst io.Writer, p Params) (header.Header, error)

// run wraps a stream operation with opening the input, the atomic output file and cleanup.
// A failed run leaves no output behind.
func (c *Codec) run(req Request, fn streamFunc) (res Result, err error) {
	if err = req.Validate(); err != nil {
		return Result{}, err
	}

	c.logger.Debug().Str("stage", "open-source").Str("input", req.Input).Msg("container operation")

	src, err := openSource(req.Input)
	if err != nil {
		return Result{}, err
	}
	defer src.Close()

	res = Result{Input: req.Input, Output: req.Output, Status: Success}

	if req.Test {
		if res.Header, err = fn(src, nil, req.Params); err != nil {
			return Result{}, err
		}

		return res, nil
	}

	if fileutil.SamePath(req.Input, req.Output) {
		return Result{}, fmt.Errorf("%w: %q", ErrOutputIsInput, req.Output)
	}

	tc, err := fileutil.NewTempContext(req.Output, req.Overwrite)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %w", ErrDirectoryNotFound, err)
		}

		return Result{}, err
	}

	defer tc.CleanupOnError(&err)

	if res.Header, err = fn(src, tc, req.Params); err != nil {
		return Result{}, err
	}

	if res.OutputSize, err = tc.Commit(outputPerm); err != nil {
		return Result{}, err
	}

	if req.Cleanup {
		src.Close()
		c.cleanup(&res)
	}

	return res, nil
}

func (c *Codec) cleanup(res *Result) {
	c.logger.Debug().Str("stage", "cleanup").Str("input", res.Input).Msg("container operation")

	if err := c.remove(res.Input); err != nil {
		res.Status = CleanupFailed
		res.CleanupErr = fmt.Errorf("%w: %w", ErrCleanupFailed, err)
	}
}

// draft creates the header for a new container.
func (c *Codec) draft(p Params) (header.Draft, error) {
	var (
		draft header.Draft
		err   error
	)

	if p.HeaderVersion == 0 {
		draft, err = c.registry.CreateDefault()
	} else {
		draft, err = c.registry.Create(p.HeaderVersion)
	}

	if err != nil {
		return header.Draft{}, err
	}

	if p.Comment != "" {
		return draft.WithComment(p.Comment)
	}

	return draft, nil
}

// prepare derives key and IV for the chosen cipher and sets up the engine.
func (c *Codec) prepare(p Params) (encryption.Context, *encryption.Engine, error) {
	engine, err := encryption.NewEngine(p.BufferSize, c.logger)
	if err != nil {
		return encryption.Context{}, nil, err
	}

	provider, err := encryption.Lookup(p.Algorithm)
	if err != nil {
		return encryption.Context{}, nil, err
	}

	password := p.Password
	if password.IsZero() {
		password = keys.DefaultPassword()
	}

	key, err := keys.Derive(password, provider.KeySize)
	if err != nil {
		return encryption.Context{}, nil, fmt.Errorf("deriving key: %w", err)
	}

	iv, err := keys.DeriveIV(p.IV, provider.BlockSize)
	if err != nil {
		return encryption.Context{}, nil, fmt.Errorf("deriving IV: %w", err)
	}

	return encryption.Context{Provider: provider, Key: key, IV: iv}, engine, nil
}

func (c *Codec) stage(name string, p Params) {
	c.logger.Debug().
		Str("stage", name).
		Stringer("algorithm", p.Algorithm).
		Stringer("password", p.Password).
		Msg("container operation")
}

// verifyPayload checks the rest of src against the header and rewinds to the payload start.
func verifyPayload(src io.ReadSeeker, h header.Header) error {
	start, err := src.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("locating payload: %w", err)
	}

	sum, n, err := checksum.Sum32Reader(src)
	if err != nil {
		return fmt.Errorf("%w: %w", encryption.ErrStreamRead, err)
	}

	if sum != h.EncryptedChecksum() || uint64(n) != h.EncryptedSize() {
		return fmt.Errorf("%w: stored %s over %d bytes, computed %s over %d bytes",
			ErrIncorrectEncryptedDataChecksum, header.Checksum(h.EncryptedChecksum()), h.EncryptedSize(),
			header.Checksum(sum), n)
	}

	if _, err := src.Seek(start, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding payload: %w", err)
	}

	return nil
}

func openSource(path string) (*os.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("%w: %q is a directory", ErrNoInputFile, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}

	return f, nil
}
