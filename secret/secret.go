package secret

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sys/unix"
)

// Buffer holds sensitive bytes in an anonymous mapping outside the Go heap.
// The mapping is locked into RAM where the memlock limit allows it and is
// excluded from core dumps. Destroy zeroes, unlocks and unmaps it.
//
// A Buffer must not be copied after creation. Slices returned by Value point
// into the mapping and must not be used after Destroy.
type Buffer struct {
	mu     sync.Mutex
	data   []byte // the whole mapping, as returned by mmap
	length int
	locked bool
	closed bool
}

// New copies value into a new Buffer and zeroes value in place, so the
// caller's slice no longer holds the secret.
func New(value []byte) (*Buffer, error) {
	b, err := Copy(value)
	if err != nil {
		return nil, err
	}
	Zero(value)
	return b, nil
}

// Copy copies value into a new Buffer. value is left untouched and remains
// the caller's responsibility.
func Copy(value []byte) (*Buffer, error) {
	b, err := Make(len(value))
	if err != nil {
		return nil, err
	}
	copy(b.data, value)
	return b, nil
}

// Make allocates a zero-filled Buffer of length n.
//
// The backing mapping is:
//   - allocated with mmap(MAP_ANONYMOUS), outside the Go heap
//   - excluded from core dumps (MADV_DONTDUMP)
//   - locked into RAM (mlock) unless the memlock limit is exhausted
//
// A zero-length Buffer has no mapping.
func Make(n int) (*Buffer, error) {
	if n < 0 {
		return nil, fmt.Errorf("secret: buffer size must not be negative, got %d", n)
	}
	if n == 0 {
		return &Buffer{data: []byte{}}, nil
	}

	data, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("secret: mmap failed: %w", err)
	}

	if err := unix.Madvise(data, unix.MADV_DONTDUMP); err != nil {
		unix.Munmap(data)
		return nil, fmt.Errorf("secret: madvise(MADV_DONTDUMP) failed: %w", err)
	}

	// An exhausted RLIMIT_MEMLOCK leaves the mapping usable but swappable.
	locked := true
	if err := unix.Mlock(data); err != nil {
		if !errors.Is(err, unix.ENOMEM) && !errors.Is(err, unix.EPERM) && !errors.Is(err, unix.EAGAIN) {
			unix.Munmap(data)
			return nil, fmt.Errorf("secret: mlock failed: %w", err)
		}
		locked = false
	}

	return &Buffer{data: data, length: n, locked: locked}, nil
}

// Value returns the secret bytes, or nil once the buffer is destroyed.
func (s *Buffer) Value() []byte {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	return s.data[:s.length]
}

// Len returns the number of bytes held.
func (s *Buffer) Len() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0
	}
	return s.length
}

// Locked reports whether the mapping is locked into RAM.
func (s *Buffer) Locked() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

// Destroy zeroes the buffer, then unlocks and unmaps it. Calling Destroy
// more than once, or on a nil Buffer, is a no-op.
func (s *Buffer) Destroy() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true

	Zero(s.data)
	if len(s.data) > 0 {
		// The zeroed pages are released at exit if unmapping fails.
		if s.locked {
			unix.Munlock(s.data)
		}
		unix.Munmap(s.data)
	}
	s.data = nil
	s.length = 0
}

// Destroyed reports whether Destroy has been called.
func (s *Buffer) Destroyed() bool {
	if s == nil {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Clone returns an independent copy in its own mapping. The copy must be
// destroyed separately.
func (s *Buffer) Clone() (*Buffer, error) {
	return Copy(s.Value())
}

// Equal compares the content of two buffers in constant time.
func (s *Buffer) Equal(other *Buffer) bool {
	a, b := s.Value(), other.Value()
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// String never reveals the content.
func (s *Buffer) String() string {
	return fmt.Sprintf("secret.Buffer(%d bytes)", s.Len())
}

// GoString never reveals the content.
func (s *Buffer) GoString() string {
	return s.String()
}

// Zero overwrites b with zeros. Use it for transient heap copies of secret
// material that cannot live in a Buffer.
func Zero(b []byte) {
	clear(b)
	// keep the stores from being treated as dead writes
	runtime.KeepAlive(b)
}
