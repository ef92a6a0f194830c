package cryptoutils

// SecureBuffer owns a fixed-length byte region holding secret material.
// The length is set at construction and never changes. Zero wipes the
// backing storage; callers should zero buffers holding key material as
// soon as they are done with them.
type SecureBuffer struct {
	data []byte
}

// NewSecureBuffer allocates a zeroed buffer of length n.
func NewSecureBuffer(n int) *SecureBuffer {
	return &SecureBuffer{data: make([]byte, n)}
}

// SecureBufferFrom copies b into a freshly owned buffer.
func SecureBufferFrom(b []byte) *SecureBuffer {
	data := make([]byte, len(b))
	copy(data, b)
	return &SecureBuffer{data: data}
}

// Len returns the fixed buffer length.
func (s *SecureBuffer) Len() int {
	return len(s.data)
}

// Bytes returns the backing storage as a view. The caller must not hold
// the slice past the buffer's lifetime; Zero invalidates its contents.
func (s *SecureBuffer) Bytes() []byte {
	return s.data
}

// Slice returns a view of the region [from, to). Ownership stays with
// the receiver; zeroing the parent zeroes the view.
func (s *SecureBuffer) Slice(from, to int) *SecureBuffer {
	return &SecureBuffer{data: s.data[from:to]}
}

// Concat produces a new owned buffer holding the receiver's content
// followed by other's content. Neither input is modified.
func (s *SecureBuffer) Concat(other *SecureBuffer) *SecureBuffer {
	data := make([]byte, len(s.data)+len(other.data))
	n := copy(data, s.data)
	copy(data[n:], other.data)
	return &SecureBuffer{data: data}
}

// Zero wipes the backing storage.
func (s *SecureBuffer) Zero() {
	for i := range s.data {
		s.data[i] = 0
	}
}

// ZeroBytes wipes a raw slice of sensitive material.
func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
