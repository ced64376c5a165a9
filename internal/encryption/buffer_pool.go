package encryption

import (
	"fmt"
	"sync"
)

const (
	// DefaultChunkSize is the number of bytes read from the source per step.
	DefaultChunkSize = 4096
	// MinChunkSize is the smallest accepted chunk size.
	MinChunkSize = 128
)

// bufferPool provides reusable chunk buffers of DefaultChunkSize.
//
//nolint:gochecknoglobals
var bufferPool = sync.Pool{
	New: func() any {
		return make([]byte, DefaultChunkSize)
	},
}

// getBuffer returns a chunk buffer of size n, from the pool when n is the default.
func getBuffer(n int) (buf []byte, err error) {
	if n == DefaultChunkSize {
		return bufferPool.Get().([]byte), nil //nolint:forcetypeassert
	}

	defer func() {
		if r := recover(); r != nil {
			buf, err = nil, fmt.Errorf("%w: allocating %d byte buffer: %v", ErrOutOfMemory, n, r)
		}
	}()

	return make([]byte, n), nil
}

func putBuffer(buf []byte) {
	if len(buf) == DefaultChunkSize {
		clear(buf)
		bufferPool.Put(buf) //nolint:staticcheck
	}
}
