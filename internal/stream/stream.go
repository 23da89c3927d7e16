package stream

import (
	"errors"
	"io"
	"sync"
)

// ReadAtSeeker adapts a single io.ReadSeeker to io.ReaderAt. Every ReadAt is
// a seek followed by a read on the shared cursor, so calls are serialized.
// The lock is not re-entrant.
type ReadAtSeeker struct {
	mu   sync.Mutex
	rs   io.ReadSeeker
	size int64
}

func NewReadAtSeeker(rs io.ReadSeeker) (*ReadAtSeeker, error) {
	size, err := Size(rs)
	if err != nil {
		return nil, err
	}
	return &ReadAtSeeker{rs: rs, size: size}, nil
}

func (r *ReadAtSeeker) Size() int64 {
	return r.size
}

func (r *ReadAtSeeker) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.New("ReadAt: negative offset")
	}
	if off >= r.size {
		return 0, io.EOF
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.rs.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}
	n, err := io.ReadFull(r.rs, p)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	}
	return n, err
}

// Rewind moves the shared cursor back to the start of the source.
func (r *ReadAtSeeker) Rewind() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.rs.Seek(0, io.SeekStart)
	return err
}

// Reader returns a sequential view over the whole source that goes through ReadAt.
func (r *ReadAtSeeker) Reader() io.Reader {
	return io.NewSectionReader(r, 0, r.size)
}

// Size reports the length of rs without moving its cursor.
func Size(rs io.Seeker) (int64, error) {
	cur, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err = rs.Seek(cur, io.SeekStart); err != nil {
		return 0, err
	}
	return size, nil
}

// Peek reads up to n bytes from the start of rs and rewinds it. A source
// shorter than n yields a short slice, not an error.
func Peek(rs io.ReadSeeker, n int) ([]byte, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	m, err := io.ReadFull(rs, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return buf[:m], nil
}
