package chest_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slaner/DataChest/internal/chest"
	"github.com/slaner/DataChest/internal/encryption"
	"github.com/slaner/DataChest/internal/fileutil"
	"github.com/slaner/DataChest/internal/header"
	"github.com/slaner/DataChest/internal/keys"
)

func params(password string) chest.Params {
	return chest.Params{
		Algorithm: encryption.AES,
		Password:  keys.ParseSource(password),
		Verify:    true,
	}
}

func encrypt(t *testing.T, c *chest.Codec, plain []byte, p chest.Params) []byte {
	t.Helper()

	var out bytes.Buffer

	_, err := c.EncryptStream(bytes.NewReader(plain), &out, p)
	require.NoError(t, err)

	return out.Bytes()
}

func decrypt(c *chest.Codec, container []byte, p chest.Params) ([]byte, error) {
	var out bytes.Buffer

	_, err := c.DecryptStream(bytes.NewReader(container), &out, p)

	return out.Bytes(), err
}

func TestEmptyFile(t *testing.T) {
	t.Parallel()

	c := chest.New()
	p := params("FT:secret")

	container := encrypt(t, c, nil, p)
	assert.Len(t, container, header.BaseSize+2+16, "v2 header plus one padded AES block")

	plain, err := decrypt(c, container, p)
	require.NoError(t, err)
	assert.Empty(t, plain)
}

func TestHelloWorld(t *testing.T) {
	t.Parallel()

	c := chest.New()
	p := params("FT:secret")

	var out bytes.Buffer

	h, err := c.EncryptStream(bytes.NewReader([]byte("hello world")), &out, p)
	require.NoError(t, err)
	assert.Equal(t, uint64(11), h.RawSize())
	assert.Equal(t, uint64(16), h.EncryptedSize())
	assert.Equal(t, header.Version2, h.Version())

	plain, err := decrypt(c, out.Bytes(), p)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(plain))
}

func TestRoundTripMatrix(t *testing.T) {
	t.Parallel()

	c := chest.New()
	plain := bytes.Repeat([]byte("DataChest "), 1234)

	for _, provider := range encryption.Providers() {
		for _, version := range []header.Version{header.Version1, header.Version2} {
			t.Run(provider.Name+"/v"+version.String(), func(t *testing.T) {
				t.Parallel()

				p := params("FT:correct horse")
				p.Algorithm = provider.Algorithm
				p.HeaderVersion = version
				p.IV = keys.ParseSource("FT:some iv")
				p.BufferSize = 333

				container := encrypt(t, c, plain, p)

				got, err := decrypt(c, container, p)
				require.NoError(t, err)
				assert.Equal(t, plain, got)
			})
		}
	}
}

func TestBufferSizeDoesNotChangeOutput(t *testing.T) {
	t.Parallel()

	c := chest.New()
	plain := bytes.Repeat([]byte{0xC3}, 5000)

	p := params("FT:k")
	want := encrypt(t, c, plain, p)

	for _, size := range []int{128, 1000, 4096, 1 << 16} {
		p.BufferSize = size
		assert.Equal(t, want, encrypt(t, c, plain, p), "buffer %d", size)
	}
}

func TestCommentIsStored(t *testing.T) {
	t.Parallel()

	c := chest.New()
	p := params("FT:k")
	p.Comment = "quarterly report"

	container := encrypt(t, c, []byte("data"), p)

	h, err := c.Registry().Parse(bytes.NewReader(container))
	require.NoError(t, err)
	assert.Equal(t, "quarterly report", h.Comment())

	p.HeaderVersion = header.Version1

	_, err = c.EncryptStream(bytes.NewReader([]byte("data")), nil, p)
	require.ErrorIs(t, err, header.ErrCommentNotSupported)
	assert.Equal(t, chest.InvalidParameter, chest.CodeOf(err))
}

func TestTamperedPayload(t *testing.T) {
	t.Parallel()

	c := chest.New()
	p := params("FT:secret")
	container := encrypt(t, c, []byte("hello world"), p)

	for i := header.BaseSize + 2; i < len(container); i++ {
		tampered := bytes.Clone(container)
		tampered[i] ^= 0x01

		_, err := decrypt(c, tampered, p)
		require.ErrorIs(t, err, chest.ErrIncorrectEncryptedDataChecksum, "byte %d", i)

		// The payload is rejected before any key is derived or cipher run.
		_, err = decrypt(c, tampered, params("FT:wrong"))
		require.ErrorIs(t, err, chest.ErrIncorrectEncryptedDataChecksum, "byte %d", i)
	}

	_, err := decrypt(c, container[:len(container)-1], p)
	require.ErrorIs(t, err, chest.ErrIncorrectEncryptedDataChecksum, "truncated payload")

	_, err = decrypt(c, append(bytes.Clone(container), 0), p)
	require.ErrorIs(t, err, chest.ErrIncorrectEncryptedDataChecksum, "extended payload")
}

func TestWrongPassword(t *testing.T) {
	t.Parallel()

	c := chest.New()
	container := encrypt(t, c, bytes.Repeat([]byte("x"), 100), params("FT:right"))

	for _, pw := range []string{"FT:wrong", "FT:Right", "FT:right ", "FH:00"} {
		_, err := decrypt(c, container, params(pw))
		require.Error(t, err, pw)

		if !errors.Is(err, encryption.ErrInvalidPasswordOrDataCorrupted) {
			require.ErrorIs(t, err, chest.ErrIncorrectRawDataChecksum, pw)
		}
	}
}

func TestUnknownVersion(t *testing.T) {
	t.Parallel()

	c := chest.New()
	container := encrypt(t, c, []byte("hello world"), params("FT:secret"))
	container[2], container[3] = 99, 0

	_, err := decrypt(c, container, params("FT:secret"))
	require.ErrorIs(t, err, header.ErrNotSupportedVersion)
	assert.Equal(t, chest.NotSupportedVersion, chest.CodeOf(err))
}

func TestVersionGatingAcrossReaders(t *testing.T) {
	t.Parallel()

	container := encrypt(t, chest.New(), []byte("hello"), params("FT:secret"))

	old := header.NewRegistry()
	old.Register(header.Version1, header.NewV1)

	_, err := decrypt(chest.New(chest.WithRegistry(old)), container, params("FT:secret"))
	require.ErrorIs(t, err, header.ErrNotSupportedVersion)

	p := params("FT:secret")
	p.HeaderVersion = header.Version1
	container = encrypt(t, chest.New(), []byte("hello"), p)

	plain, err := decrypt(chest.New(chest.WithRegistry(old)), container, p)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(plain))
}

func TestInvalidBufferSize(t *testing.T) {
	t.Parallel()

	p := params("FT:secret")
	p.BufferSize = 64

	_, err := chest.New().EncryptStream(bytes.NewReader([]byte("x")), nil, p)
	require.ErrorIs(t, err, encryption.ErrInvalidBufferSize)
	assert.Equal(t, chest.InvalidBufferSize, chest.CodeOf(err))
}

func TestNotAContainer(t *testing.T) {
	t.Parallel()

	_, err := decrypt(chest.New(), []byte("just some plain text file"), params("FT:x"))
	require.ErrorIs(t, err, header.ErrInvalidSignature)
	assert.Equal(t, chest.InvalidSignature, chest.CodeOf(err))
}

func TestVerificationCanBeDisabled(t *testing.T) {
	t.Parallel()

	c := chest.New()
	p := params("FT:secret")
	container := encrypt(t, c, []byte("hello world"), p)

	p.Verify = false

	plain, err := decrypt(c, container, p)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(plain))
}

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	return path
}

func TestFileRoundTripWithCleanup(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "notes.txt", []byte("meet at noon"))
	container := filepath.Join(dir, "notes.txt.dcf")
	restored := filepath.Join(dir, "restored.txt")

	c := chest.New()

	res, err := c.Encrypt(chest.Request{Params: params("FT:pw"), Input: input, Output: container, Cleanup: true})
	require.NoError(t, err)
	assert.Equal(t, chest.Success, res.Status)
	assert.Equal(t, int64(res.Header.Size())+int64(res.Header.EncryptedSize()), res.OutputSize)
	assert.NoFileExists(t, input)

	res, err = c.Decrypt(chest.Request{Params: params("FT:pw"), Input: container, Output: restored})
	require.NoError(t, err)
	assert.Equal(t, chest.Success, res.Status)
	assert.FileExists(t, container)

	got, err := os.ReadFile(restored)
	require.NoError(t, err)
	assert.Equal(t, "meet at noon", string(got))
}

func TestTestModeHasNoSideEffects(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "a.txt", []byte("payload"))
	c := chest.New()

	res, err := c.Encrypt(chest.Request{Params: params("FT:pw"), Input: input, Test: true})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), res.Header.RawSize())
	assert.Empty(t, res.Output)

	var container bytes.Buffer

	_, err = c.EncryptStream(bytes.NewReader([]byte("payload")), &container, params("FT:pw"))
	require.NoError(t, err)

	encrypted := writeFile(t, dir, "a.dcf", container.Bytes())

	_, err = c.Decrypt(chest.Request{Params: params("FT:pw"), Input: encrypted, Test: true})
	require.NoError(t, err)

	_, err = c.Decrypt(chest.Request{Params: params("FT:nope"), Input: encrypted, Test: true})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "test mode must not create files")
}

func TestFailedDecryptLeavesNoOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c := chest.New()

	var container bytes.Buffer

	_, err := c.EncryptStream(bytes.NewReader(bytes.Repeat([]byte("z"), 50)), &container, params("FT:pw"))
	require.NoError(t, err)

	input := writeFile(t, dir, "z.dcf", container.Bytes())
	output := filepath.Join(dir, "z.txt")

	_, err = c.Decrypt(chest.Request{Params: params("FT:other"), Input: input, Output: output, Cleanup: true})
	require.Error(t, err)
	assert.NoFileExists(t, output)
	assert.FileExists(t, input, "cleanup must not run after a failure")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestOutputRules(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "in.txt", []byte("abc"))
	taken := writeFile(t, dir, "taken.dcf", []byte("old"))
	c := chest.New()

	_, err := c.Encrypt(chest.Request{Params: params("FT:pw"), Input: input, Output: taken})
	require.ErrorIs(t, err, fileutil.ErrFileAlreadyExists)
	assert.Equal(t, chest.FileAlreadyExists, chest.CodeOf(err))

	_, err = c.Encrypt(chest.Request{Params: params("FT:pw"), Input: input, Output: taken, Overwrite: true})
	require.NoError(t, err)

	_, err = c.Encrypt(chest.Request{Params: params("FT:pw"), Input: input, Output: input, Overwrite: true})
	require.ErrorIs(t, err, chest.ErrOutputIsInput)

	_, err = c.Encrypt(chest.Request{Params: params("FT:pw"), Input: input, Output: filepath.Join(dir, "missing", "x.dcf")})
	require.ErrorIs(t, err, chest.ErrDirectoryNotFound)
	assert.Equal(t, chest.DirectoryNotFound, chest.CodeOf(err))

	_, err = c.Encrypt(chest.Request{Params: params("FT:pw"), Input: filepath.Join(dir, "nope"), Output: filepath.Join(dir, "y")})
	assert.Equal(t, chest.FileNotFound, chest.CodeOf(err))

	_, err = c.Encrypt(chest.Request{Params: params("FT:pw"), Input: dir, Output: filepath.Join(dir, "y")})
	assert.Equal(t, chest.NoInputFile, chest.CodeOf(err))
}

func TestRequestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  chest.Request
		want error
	}{
		{name: "no input", req: chest.Request{Output: "o"}, want: chest.ErrNoInputFile},
		{name: "no output", req: chest.Request{Input: "i"}, want: chest.ErrInvalidParameter},
		{name: "test with output", req: chest.Request{Input: "i", Output: "o", Test: true}, want: chest.ErrAmbiguousOption},
		{name: "test with cleanup", req: chest.Request{Input: "i", Test: true, Cleanup: true}, want: chest.ErrAmbiguousOption},
		{name: "test with overwrite", req: chest.Request{Input: "i", Test: true, Overwrite: true}, want: chest.ErrAmbiguousOption},
		{name: "test", req: chest.Request{Input: "i", Test: true}},
		{name: "cleanup and overwrite", req: chest.Request{Input: "i", Output: "o", Cleanup: true, Overwrite: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.req.Validate()
			if tt.want == nil {
				assert.NoError(t, err)

				return
			}

			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestInspect(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c := chest.New()
	p := params("FT:pw")
	p.Comment = "hi"

	path := writeFile(t, dir, "c.dcf", encrypt(t, c, []byte("abc"), p))

	h, err := c.Inspect(path)
	require.NoError(t, err)
	assert.Equal(t, "hi", h.Comment())
	assert.Equal(t, uint64(3), h.RawSize())

	_, err = c.Inspect(writeFile(t, dir, "plain.txt", []byte("nope")))
	require.ErrorIs(t, err, header.ErrInvalidSignature)
}
