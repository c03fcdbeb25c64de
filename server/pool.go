package server

import (
	"bytes"
	"sync"
)

// Buffer pools for reducing allocations

// responseBufferPool holds bytes.Buffer for building responses
var responseBufferPool = sync.Pool{
	New: func() interface{} {
		return new(bytes.Buffer)
	},
}

// Pool size limits - buffers larger than this are discarded
const (
	maxPoolBufferSize = 16384 // 16KB
)

// framePool recycles frame buffers of a single capacity
type framePool struct {
	capacity int
	pool     sync.Pool
}

func newFramePool(capacity int) *framePool {
	p := &framePool{capacity: capacity}
	p.pool.New = func() interface{} {
		return NewFrameBuffer(capacity)
	}
	return p
}

func (p *framePool) Get() *FrameBuffer {
	return p.pool.Get().(*FrameBuffer)
}

func (p *framePool) Put(b *FrameBuffer) {
	if b.Cap() != p.capacity {
		return
	}
	b.Reset()
	p.pool.Put(b)
}
