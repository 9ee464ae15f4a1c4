package names

import "github.com/layerfab/layerfab-go/pkg/fabric"

// Allocator supplies the scratch buffers used by the codec.
//
// Alloc returns a buffer of exactly n bytes or fabric.ErrNoMemory.
// Free returns a buffer obtained from Alloc. Each buffer is freed once.
type Allocator interface {
	Alloc(n int) ([]byte, error)
	Free(buf []byte)
}

// HeapAllocator allocates from the Go heap. Free is a no-op.
type HeapAllocator struct{}

// Alloc returns a zeroed buffer of n bytes.
func (HeapAllocator) Alloc(n int) ([]byte, error) {
	if n < 0 {
		return nil, fabric.ErrNoMemory
	}
	return make([]byte, n), nil
}

// Free does nothing; the garbage collector reclaims the buffer.
func (HeapAllocator) Free([]byte) {}

// Compile-time interface satisfaction check.
var _ Allocator = HeapAllocator{}
