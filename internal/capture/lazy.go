package capture

import (
	"context"
	"io"
	"sync"
)

// LazyHost defers launching the real host until the first surface is needed.
type LazyHost struct {
	launch func() (Host, error)

	mu   sync.Mutex
	host Host
	err  error
	done bool
}

// NewLazyHost returns a Host that calls launch once, on first use.
// A failed launch is remembered and returned for every later surface.
func NewLazyHost(launch func() (Host, error)) *LazyHost {
	return &LazyHost{launch: launch}
}

func (l *LazyHost) CreateSurface(ctx context.Context, opts SurfaceOptions) (Surface, error) {
	host, err := l.get()
	if err != nil {
		return nil, err
	}
	return host.CreateSurface(ctx, opts)
}

func (l *LazyHost) get() (Host, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.done {
		l.host, l.err = l.launch()
		l.done = true
	}
	return l.host, l.err
}

// Close closes the launched host, if any.
func (l *LazyHost) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.host.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
