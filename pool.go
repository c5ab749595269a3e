package cvforge

import (
	"context"
	"runtime"
	"sync"
)

// Pool sizing bounds for auto calculation. Rendering is dominated by the
// external compiler process, so more workers than half the CPUs rarely pays.
const (
	MinPoolSize = 1
	MaxPoolSize = 8
	cpuDivisor  = 2
)

// ResolvePoolSize converts a worker count flag into a pool size. An explicit
// positive value is used verbatim; zero or negative auto-calculates from
// GOMAXPROCS, clamped to [MinPoolSize, MaxPoolSize].
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}
	auto := runtime.GOMAXPROCS(0) / cpuDivisor
	return min(max(auto, MinPoolSize), MaxPoolSize)
}

// ServicePool holds reusable Service workers for concurrent rendering.
// Workers are created lazily up to the pool size and recycled on Release.
type ServicePool struct {
	mu       sync.Mutex
	services chan *Service
	opts     []ServiceOption
	size     int
	created  int
	closed   bool
}

// NewServicePool builds a pool of up to size workers sharing the given
// options. The first worker is built eagerly so bad options fail here, not
// on the first Acquire.
func NewServicePool(size int, opts ...ServiceOption) (*ServicePool, error) {
	if size < 1 {
		size = 1
	}

	first, err := NewService(opts...)
	if err != nil {
		return nil, err
	}

	p := &ServicePool{
		services: make(chan *Service, size),
		opts:     opts,
		size:     size,
		created:  1,
	}
	p.services <- first
	return p, nil
}

// Acquire returns a worker, creating one if the pool has headroom, or
// blocking until one is released or the context ends.
func (p *ServicePool) Acquire(ctx context.Context) (*Service, error) {
	select {
	case svc := <-p.services:
		// A nil receive means the channel was closed.
		if svc != nil {
			return svc, nil
		}
		return nil, ErrPoolClosed
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()
		svc, err := NewService(p.opts...)
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}
		return svc, nil
	}
	p.mu.Unlock()

	select {
	case svc := <-p.services:
		if svc != nil {
			return svc, nil
		}
		return nil, ErrPoolClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a worker to the pool. Safe to call after Close; the
// worker is simply dropped.
func (p *ServicePool) Release(svc *Service) {
	if svc == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.services <- svc:
	default:
		// Pool already full; drop the extra worker.
	}
}

// Size returns the maximum number of workers.
func (p *ServicePool) Size() int {
	return p.size
}

// Close marks the pool closed and drops idle workers. Outstanding workers
// are dropped when released.
func (p *ServicePool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	close(p.services)
	for range p.services {
	}
	return nil
}

// Render acquires a worker, renders, and releases it.
func (p *ServicePool) Render(ctx context.Context, in Input) (*Result, error) {
	svc, err := p.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer p.Release(svc)
	return svc.Render(ctx, in)
}
