package pool

import "sync"

// Pool is a bounded free list. Unlike sync.Pool, idle items are only
// released by Reset.
type Pool[T any] struct {
	New    func() T
	MaxCap int

	cache []T
	mu    sync.Mutex
}

func (p *Pool[T]) Get() T {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.cache) == 0 {
		return p.New()
	}
	item := p.cache[len(p.cache)-1]
	p.cache = p.cache[:len(p.cache)-1]
	return item
}

func (p *Pool[T]) Put(item T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.MaxCap == 0 || len(p.cache) < p.MaxCap {
		p.cache = append(p.cache, item)
	}
}

// Len is the number of idle items.
func (p *Pool[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.cache)
}

func (p *Pool[T]) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	clear(p.cache)
	p.cache = nil
}

// NewBytes returns a pool of fixed-size byte slices.
func NewBytes(size, maxCap int) *Pool[[]byte] {
	return &Pool[[]byte]{
		New:    func() []byte { return make([]byte, size) },
		MaxCap: maxCap,
	}
}
