package effect

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/xrender"
)

// Loader is the renderer's view of effect loading.
type Loader interface {
	LoadEffect(name string) *Future
}

// Option configures a System.
type Option func(*options)

type options struct {
	compiler Compiler
	sync     bool
}

func defaultOptions() options {
	return options{compiler: NagaCompiler}
}

// WithCompiler replaces the naga compiler, e.g. with a precompiled cache.
func WithCompiler(c Compiler) Option {
	return func(o *options) {
		if c != nil {
			o.compiler = c
		}
	}
}

// WithSynchronousLoad makes LoadEffect finish the load before returning.
func WithSynchronousLoad() Option {
	return func(o *options) {
		o.sync = true
	}
}

// System loads and caches effects by name. It is safe for concurrent use.
type System struct {
	source Source
	opts   options

	mu      sync.Mutex
	futures map[string]*Future

	loads atomic.Int64
}

var _ Loader = (*System)(nil)

// NewSystem creates an effect system resolving names through src.
func NewSystem(src Source, opts ...Option) *System {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &System{
		source:  src,
		opts:    o,
		futures: make(map[string]*Future),
	}
}

// LoadEffect returns the future for name, starting the load on first use.
func (s *System) LoadEffect(name string) *Future {
	s.mu.Lock()
	f, ok := s.futures[name]
	if !ok {
		f = newFuture(name)
		s.futures[name] = f
	}
	s.mu.Unlock()

	if ok {
		return f
	}
	if s.opts.sync {
		s.load(f)
	} else {
		go s.load(f)
	}
	return f
}

func (s *System) load(f *Future) {
	s.loads.Add(1)

	src, err := s.source.Lookup(f.name)
	if err != nil {
		xrender.Logger().Warn("effect: lookup failed", "name", f.name, "err", err)
		f.resolve(nil, err)
		return
	}
	words, err := compileToWords(s.opts.compiler, src)
	if err != nil {
		err = fmt.Errorf("effect %s: %w", f.name, err)
		xrender.Logger().Warn("effect: compile failed", "name", f.name, "err", err)
		f.resolve(nil, err)
		return
	}

	xrender.Logger().Debug("effect: loaded", "name", f.name, "words", len(words))
	f.resolve(&Effect{
		Name:          f.name,
		Source:        src,
		SPIRV:         words,
		VertexEntry:   DefaultVertexEntry,
		FragmentEntry: DefaultFragmentEntry,
	}, nil)
}

// Preload starts loading every named effect and waits for all of them.
// It returns the first load error.
func (s *System) Preload(ctx context.Context, names ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, name := range names {
		f := s.LoadEffect(name)
		g.Go(func() error {
			_, err := f.Wait(ctx)
			return err
		})
	}
	return g.Wait()
}

// Loads returns how many loads the system has started.
func (s *System) Loads() int64 {
	return s.loads.Load()
}
