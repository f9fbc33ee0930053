package effect

import "context"

// Future is the awaitable result of loading one effect.
type Future struct {
	name string
	done chan struct{}
	eff  *Effect
	err  error
}

func newFuture(name string) *Future {
	return &Future{name: name, done: make(chan struct{})}
}

func (f *Future) resolve(eff *Effect, err error) {
	f.eff, f.err = eff, err
	close(f.done)
}

// Name returns the effect name this future loads.
func (f *Future) Name() string { return f.name }

// Done is closed once the load has finished, successfully or not.
func (f *Future) Done() <-chan struct{} { return f.done }

// Wait blocks until the effect is loaded or ctx is done.
func (f *Future) Wait(ctx context.Context) (*Effect, error) {
	select {
	case <-f.done:
		return f.eff, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result returns the load result without blocking. ok is false while the
// load is still in flight.
func (f *Future) Result() (eff *Effect, err error, ok bool) {
	select {
	case <-f.done:
		return f.eff, f.err, true
	default:
		return nil, nil, false
	}
}
