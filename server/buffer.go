package server

import "io"

// FrameBuffer is a fixed-capacity receive window. Bytes [0, Len()) are received but not yet
// consumed; the rest is free space for the next read.
type FrameBuffer struct {
	storage []byte
	length  int
}

func NewFrameBuffer(capacity int) *FrameBuffer {
	return &FrameBuffer{storage: make([]byte, capacity)}
}

func (b *FrameBuffer) Len() int { return b.length }
func (b *FrameBuffer) Cap() int { return len(b.storage) }
func (b *FrameBuffer) Free() int { return len(b.storage) - b.length }

// Bytes returns the valid region. The slice is only good until the next Fill or Compact.
func (b *FrameBuffer) Bytes() []byte {
	return b.storage[:b.length]
}

// Saturated reports whether the window has no free space left.
func (b *FrameBuffer) Saturated() bool {
	return b.length >= len(b.storage)
}

// Fill performs a single read into the free space. A read that returns data together
// with an error reports only the data; the error shows up again on the next call.
func (b *FrameBuffer) Fill(r io.Reader) (int, error) {
	if b.Saturated() {
		return 0, ErrBufferSaturated
	}

	n, err := r.Read(b.storage[b.length:])
	b.length += n
	if n > 0 {
		return n, nil
	}
	if err == nil {
		// a zero-length read without an error carries no information
		return 0, io.ErrNoProgress
	}

	return 0, err
}

// Compact drops the first consumed bytes, moving whatever follows them (the start of a
// pipelined request) to the front. Freed space is zeroed.
func (b *FrameBuffer) Compact(consumed int) {
	if consumed > b.length {
		consumed = b.length
	}

	b.length = copy(b.storage, b.storage[consumed:b.length])
	clear(b.storage[b.length:])
}

// Reset empties the window.
func (b *FrameBuffer) Reset() {
	clear(b.storage[:b.length])
	b.length = 0
}
