package buffer

import (
	"errors"
	"io"

	"github.com/cbxthumb/cbxthumb/pkg/pool"
)

// Reader serves a list of byte chunks as one seekable stream. Chunks taken
// from a pool by ReadFrom go back to it on Reset.
type Reader struct {
	bufs   [][]byte
	length int
	offset int

	pool  *pool.Pool[[]byte]
	owned [][]byte
}

func (r *Reader) Len() int {
	return r.length
}

func (r *Reader) Size() int64 {
	return int64(r.length)
}

func (r *Reader) Append(buf []byte) {
	r.length += len(buf)
	r.bufs = append(r.bufs, buf)
}

// ReadFrom drains src chunk by chunk into buffers from p.
func (r *Reader) ReadFrom(src io.Reader, p *pool.Pool[[]byte]) (int64, error) {
	r.pool = p
	var total int64
	for {
		chunk := p.Get()
		n, err := io.ReadFull(src, chunk)
		if n > 0 {
			r.owned = append(r.owned, chunk)
			r.Append(chunk[:n])
			total += int64(n)
		} else {
			p.Put(chunk)
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.ReadAt(p, int64(r.offset))
	if n > 0 {
		r.offset += n
	}
	return n, err
}

func (r *Reader) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(r.length) {
		return 0, io.EOF
	}

	n, length := 0, int64(0)
	readFrom := false
	for _, buf := range r.bufs {
		newLength := length + int64(len(buf))
		if readFrom {
			w := copy(p[n:], buf)
			n += w
		} else if off < newLength {
			readFrom = true
			w := copy(p[n:], buf[int(off-length):])
			n += w
		}
		if n == len(p) {
			return n, nil
		}
		length = newLength
	}

	return n, io.EOF
}

func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	var abs int
	switch whence {
	case io.SeekStart:
		abs = int(offset)
	case io.SeekCurrent:
		abs = r.offset + int(offset)
	case io.SeekEnd:
		abs = r.length + int(offset)
	default:
		return 0, errors.New("Seek: invalid whence")
	}

	if abs < 0 || abs > r.length {
		return 0, errors.New("Seek: invalid offset")
	}

	r.offset = abs
	return int64(abs), nil
}

func (r *Reader) Reset() {
	if r.pool != nil {
		for _, b := range r.owned {
			r.pool.Put(b)
		}
	}
	clear(r.owned)
	r.owned = nil
	clear(r.bufs)
	r.bufs = nil
	r.length = 0
	r.offset = 0
}

func NewReader(buf ...[]byte) *Reader {
	b := &Reader{}
	for _, b1 := range buf {
		b.Append(b1)
	}
	return b
}
