package device

import (
	"sync"

	"github.com/openfluke/webgpu/wgpu"
)

// Pool tracks the lifetime of the buffers allocated from it. Closing the
// pool destroys every live buffer; individual buffers can be released early.
type Pool struct {
	q *Queue

	mu     sync.Mutex
	closed bool
	live   map[releaser]struct{}
}

type releaser interface{ release() }

// NewPool returns a pool whose buffers target the given queue. On a
// CPU-backed queue the buffers are host-only.
func NewPool(q *Queue) *Pool {
	return &Pool{q: q, live: make(map[releaser]struct{})}
}

// Queue returns the queue this pool allocates against.
func (p *Pool) Queue() *Queue { return p.q }

// Close releases every buffer still owned by the pool.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for b := range p.live {
		b.release()
	}
	p.live = nil
}

// Buffer is a pool-managed buffer of n elements: a host mirror always, plus
// a device storage buffer when the pool's queue is GPU-backed.
type Buffer[T Elem] struct {
	pool *Pool
	host []T
	dev  *wgpu.Buffer
}

// Alloc allocates an n-element buffer from the pool. float64 buffers stay
// host-only regardless of backend.
func Alloc[T Elem](p *Pool, n int) (*Buffer[T], Status) {
	if n < 0 {
		return nil, StatusInvalidValue
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, StatusNotPermitted
	}

	b := &Buffer[T]{pool: p, host: make([]T, n)}
	if p.q.GPU() {
		var zero T
		if elemSize(zero) == 4 {
			dev, st := NewStorageBuffer(p.q, "PoolBuffer", b.host)
			if st != StatusSuccess {
				return nil, st
			}
			b.dev = dev
		}
	}
	p.live[b] = struct{}{}
	return b, StatusSuccess
}

// Len returns the element count.
func (b *Buffer[T]) Len() int { return len(b.host) }

// Data returns the host mirror. On a GPU queue it is only current after
// Download.
func (b *Buffer[T]) Data() []T { return b.host }

// Device returns the device storage buffer, nil on CPU-backed pools and for
// float64 buffers.
func (b *Buffer[T]) Device() *wgpu.Buffer { return b.dev }

// Upload pushes the host mirror to the device. No-op on CPU-backed pools.
func (b *Buffer[T]) Upload() Status {
	if b.dev == nil {
		return StatusSuccess
	}
	return WriteBuffer(b.pool.q, b.dev, b.host)
}

// Download pulls device contents into the host mirror. No-op on CPU-backed
// pools.
func (b *Buffer[T]) Download() Status {
	if b.dev == nil {
		return StatusSuccess
	}
	out, st := ReadBack[T](b.pool.q, b.dev, len(b.host))
	if st != StatusSuccess {
		return st
	}
	copy(b.host, out)
	return StatusSuccess
}

// Release returns the buffer to the pool. Safe to call more than once.
func (b *Buffer[T]) Release() {
	p := b.pool
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	if _, ok := p.live[b]; !ok {
		return
	}
	delete(p.live, b)
	b.release()
}

func (b *Buffer[T]) release() {
	if b.dev != nil {
		b.dev.Destroy()
		b.dev = nil
	}
	b.host = nil
}
