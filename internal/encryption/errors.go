package encryption

import "errors"

var (
	// ErrEmptyData is returned when attempting to unpad empty data.
	ErrEmptyData = errors.New("empty data")
	// ErrInvalidPadding is returned when PKCS7 padding is malformed.
	ErrInvalidPadding = errors.New("invalid padding")
	// ErrInvalidBlockSize is returned when encrypted data length is not aligned with the cipher block size.
	ErrInvalidBlockSize = errors.New("ciphertext is not a multiple of block size")

	// ErrInvalidAlgorithm is returned for an unknown algorithm name or identifier.
	ErrInvalidAlgorithm = errors.New("invalid algorithm")
	// ErrAlgorithmInit is returned when a cipher cannot be set up with the given key and IV.
	ErrAlgorithmInit = errors.New("initializing algorithm")
	// ErrInvalidBufferSize is returned when the chunk size is below MinChunkSize.
	ErrInvalidBufferSize = errors.New("invalid buffer size")

	// ErrStreamRead is returned when the source stream fails.
	ErrStreamRead = errors.New("reading source stream")
	// ErrStreamWrite is returned when transformed output cannot be stored.
	ErrStreamWrite = errors.New("writing output stream")
	// ErrOutOfMemory is returned when a buffer cannot be allocated or grown.
	ErrOutOfMemory = errors.New("out of memory")
	// ErrInvalidPasswordOrDataCorrupted is returned for any failure of the decrypting transform.
	// Wrong keys and corrupted ciphertext cannot be told apart at this level.
	ErrInvalidPasswordOrDataCorrupted = errors.New("invalid password or data corrupted")

	// ErrFinalized is returned when a transform is used after its final block.
	ErrFinalized = errors.New("transform already finalized")
	// ErrNotFinalized is returned when a transform that consumed input is closed without a final block.
	ErrNotFinalized = errors.New("transform closed before final block")
	// ErrTransformClosed is returned when a closed transform is used.
	ErrTransformClosed = errors.New("transform closed")
)
