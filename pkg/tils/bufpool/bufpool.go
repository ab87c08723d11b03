// Package bufpool hands out the fixed-size scratch buffers the recv/parse/
// respond hot path runs on. One Pool is shared across a worker pool's
// bootstrap; each worker acquires its own buffer once at startup and keeps
// it for the life of the process, so steady-state operation never touches
// the pool again.
package bufpool

import "github.com/valyala/bytebufferpool"

// Pool hands out byte slices of a fixed size, backed by bytebufferpool so a
// restarted or re-bootstrapped worker reuses a prior buffer's backing array
// instead of allocating fresh.
type Pool struct {
	size int
	pool bytebufferpool.Pool
}

// New returns a Pool that hands out buffers of exactly size bytes.
func New(size int) *Pool {
	return &Pool{size: size}
}

// Get returns a buffer of exactly the pool's configured size.
func (p *Pool) Get() []byte {
	b := p.pool.Get()
	if cap(b.B) < p.size {
		b.B = make([]byte, p.size)
	}
	return b.B[:p.size]
}

// Put returns buf to the pool for reuse by a future Get. Callers must not
// touch buf again after Put.
func (p *Pool) Put(buf []byte) {
	p.pool.Put(&bytebufferpool.ByteBuffer{B: buf})
}
