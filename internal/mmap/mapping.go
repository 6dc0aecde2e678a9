package mmap

import (
	"io"
	"os"
	"sync/atomic"
)

// Mapping represents a memory-mapped file with reference-counted ownership.
// Open returns a Mapping holding one reference.
type Mapping struct {
	data   []byte
	size   int
	refs   atomic.Int32
	closed atomic.Bool
	unmap  func([]byte) error
	path   string
}

// Open maps the file at path into memory as read-only.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := fi.Size()
	if size < 0 {
		return nil, ErrInvalidSize
	}
	m := &Mapping{path: path}
	m.refs.Store(1)
	if size == 0 {
		return m, nil
	}

	data, unmapFunc, err := osMap(f, int(size))
	if err != nil {
		return nil, err
	}
	m.data = data
	m.size = int(size)
	m.unmap = unmapFunc
	return m, nil
}

// FromBytes wraps an in-memory buffer as a Mapping. Releasing it drops the
// reference to data without unmapping anything.
func FromBytes(data []byte) *Mapping {
	m := &Mapping{data: data, size: len(data)}
	m.refs.Store(1)
	return m
}

// Retain adds a reference. It fails once the mapping has been released.
func (m *Mapping) Retain() error {
	for {
		n := m.refs.Load()
		if n <= 0 {
			return ErrClosed
		}
		if m.refs.CompareAndSwap(n, n+1) {
			return nil
		}
	}
}

// Release drops a reference and unmaps the memory when it was the last one.
// Releasing more often than retaining is a no-op.
func (m *Mapping) Release() error {
	if m.refs.Add(-1) > 0 {
		return nil
	}
	return m.close()
}

// Close releases the reference returned by Open.
func (m *Mapping) Close() error {
	return m.Release()
}

func (m *Mapping) close() error {
	if m.closed.Swap(true) {
		return nil
	}
	if m.unmap != nil && m.data != nil {
		return m.unmap(m.data)
	}
	return nil
}

// Refs returns the number of live references.
func (m *Mapping) Refs() int {
	return max(int(m.refs.Load()), 0)
}

// Bytes returns the underlying byte slice.
// The slice is valid only until the last reference is released.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the size of the mapping in bytes.
func (m *Mapping) Size() int {
	return m.size
}

// Path returns the mapped file path, empty for in-memory mappings.
func (m *Mapping) Path() string {
	return m.path
}

// Advise provides hints to the kernel about how the memory will be accessed.
func (m *Mapping) Advise(pattern AccessPattern) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if m.data == nil || m.unmap == nil {
		return nil
	}
	return osAdvise(m.data, pattern)
}

// ReadAt implements io.ReaderAt.
func (m *Mapping) ReadAt(p []byte, off int64) (n int, err error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, ErrInvalidOffset
	}
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n = copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
