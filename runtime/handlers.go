package mpack

import (
	"io"
	"sync"
)

// Local byte buffer pool under our control.
//
// Guidelines:
//   - Use Ensure(n) to grow capacity up-front when you know you will
//     append at least n more bytes. This avoids repeated reallocations.
//   - The pool does not require Reset() before Put; buffers are Reset
//     on the way out.

// ByteBuffer is a growable byte region used as backing storage for
// pack contexts and stream adapters.
type ByteBuffer struct {
	b []byte
}

var bbPool = sync.Pool{New: func() any { return &ByteBuffer{b: make([]byte, 0, 1024)} }}

// GetByteBuffer obtains a pooled ByteBuffer with length zero
// (capacity may be reused).
func GetByteBuffer() *ByteBuffer {
	bb := bbPool.Get().(*ByteBuffer)
	bb.Reset()
	return bb
}

// GetMinSize obtains a pooled ByteBuffer with capacity for at least
// size bytes.
func GetMinSize(size int) *ByteBuffer {
	bb := bbPool.Get().(*ByteBuffer)
	bb.Reset()
	if size > 0 {
		bb.Ensure(size)
	}
	return bb
}

// PutByteBuffer returns the buffer to the pool after resetting its
// length to zero. Contexts remapped onto the buffer must not be used
// afterwards.
func PutByteBuffer(bb *ByteBuffer) { bb.Reset(); bbPool.Put(bb) }

// Bytes returns the underlying bytes.
func (bb *ByteBuffer) Bytes() []byte { return bb.b }

// Len returns length.
func (bb *ByteBuffer) Len() int { return len(bb.b) }

// Cap returns capacity.
func (bb *ByteBuffer) Cap() int { return cap(bb.b) }

// Reset resets the length to zero; capacity is unchanged.
func (bb *ByteBuffer) Reset() { bb.b = bb.b[:0] }

// Ensure ensures there is room for at least n more bytes without
// reallocation, growing exponentially if needed.
func (bb *ByteBuffer) Ensure(n int) {
	need := len(bb.b) + n
	if cap(bb.b) >= need {
		return
	}
	c := cap(bb.b)
	if c == 0 {
		c = 1024
	}
	for c < need {
		c <<= 1
	}
	nb := make([]byte, len(bb.b), c)
	copy(nb, bb.b)
	bb.b = nb
}

// Extend grows the buffer by n bytes and returns a slice to the newly
// appended region for direct writes.
func (bb *ByteBuffer) Extend(n int) []byte {
	old := len(bb.b)
	bb.Ensure(n)
	bb.b = bb.b[:old+n]
	return bb.b[old:]
}

// Write implements io.Writer.
func (bb *ByteBuffer) Write(p []byte) (int, error) {
	bb.Ensure(len(p))
	bb.b = append(bb.b, p...)
	return len(p), nil
}

// WriteString appends a string.
func (bb *ByteBuffer) WriteString(s string) (int, error) {
	bb.Ensure(len(s))
	bb.b = append(bb.b, s...)
	return len(s), nil
}

// WriteByte appends a single byte.
func (bb *ByteBuffer) WriteByte(c byte) error {
	bb.Ensure(1)
	bb.b = append(bb.b, c)
	return nil
}

// NewBufferPackContext returns a pack context whose overflow handler
// grows bb, so packing never fails for lack of space. The encoded
// bytes are available from (*PackContext).Bytes after packing; bb's
// own length is not maintained while the context writes.
func NewBufferPackContext(bb *ByteBuffer) *PackContext {
	c := NewPackContext(bb.b[:cap(bb.b)], func(c *PackContext, needed int) ReturnCode {
		bb.b = bb.b[:c.pos]
		bb.Ensure(needed)
		c.SetBuffer(bb.b[:cap(bb.b)], c.pos)
		return OK
	})
	return c
}

// StreamPacker couples a PackContext to an io.Writer through the
// flush/overflow protocol: when the staging buffer fills, completed
// bytes are written out and the cursor rewinds. Items larger than the
// staging buffer grow it once rather than failing.
type StreamPacker struct {
	*PackContext
	w   io.Writer
	err error
}

// NewStreamPacker returns a packer staging through a buffer of the
// given size (a default is used when size is zero or negative).
func NewStreamPacker(w io.Writer, size int) *StreamPacker {
	if size <= 0 {
		size = 4096
	}
	s := &StreamPacker{w: w}
	s.PackContext = NewPackContext(make([]byte, size), s.overflow)
	s.PackContext.SetFlushHandler(s.flush)
	return s
}

func (s *StreamPacker) flush(c *PackContext) ReturnCode {
	if c.pos == 0 {
		return OK
	}
	if _, err := s.w.Write(c.buf[:c.pos]); err != nil {
		s.err = err
		return ErrorInHandler
	}
	c.SetBuffer(c.buf, 0)
	return OK
}

func (s *StreamPacker) overflow(c *PackContext, needed int) ReturnCode {
	if rc := s.flush(c); rc != OK {
		return rc
	}
	if needed > len(c.buf) {
		c.SetBuffer(make([]byte, needed), 0)
	}
	return OK
}

// WriteError returns the underlying writer error behind an
// ErrorInHandler code, if any.
func (s *StreamPacker) WriteError() error { return s.err }

// StreamUnpacker couples an UnpackContext to an io.Reader through the
// underflow protocol: when a decode runs short, the unread tail slides
// to the front of the staging buffer and more input is read. Each
// refill invalidates previously returned blob views.
type StreamUnpacker struct {
	*UnpackContext
	r   io.Reader
	err error
}

// NewStreamUnpacker returns an unpacker staging through a buffer of
// the given size (a default is used when size is zero or negative).
// The buffer grows when a single item needs more contiguous bytes.
func NewStreamUnpacker(r io.Reader, size int) *StreamUnpacker {
	if size <= 0 {
		size = 4096
	}
	s := &StreamUnpacker{r: r}
	s.UnpackContext = NewUnpackContext(nil, s.refill)
	s.UnpackContext.SetBuffer(make([]byte, 0, size), 0)
	return s
}

func (s *StreamUnpacker) refill(c *UnpackContext, needed int) ReturnCode {
	// Slide the unread tail to the front.
	unread := copy(c.buf[:cap(c.buf)], c.buf[c.pos:])
	store := c.buf[:cap(c.buf)]
	if needed > cap(store) {
		grown := make([]byte, needed)
		copy(grown, store[:unread])
		store = grown
	}
	for unread < needed {
		n, err := s.r.Read(store[unread:cap(store)])
		unread += n
		if err != nil {
			if err != io.EOF {
				s.err = err
				c.SetBuffer(store[:unread], 0)
				return ErrorInHandler
			}
			if unread < needed {
				c.SetBuffer(store[:unread], 0)
				return EndOfInput
			}
		}
	}
	c.SetBuffer(store[:unread], 0)
	return OK
}

// ReadError returns the underlying reader error behind an
// ErrorInHandler code, if any.
func (s *StreamUnpacker) ReadError() error { return s.err }
