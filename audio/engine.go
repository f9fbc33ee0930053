package audio

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/xrender"
)

var (
	// ErrEngineInvalidated is returned when the output device could not be
	// opened.
	ErrEngineInvalidated = errors.New("audio: engine invalidated")

	// ErrEngineDisposed is returned after Dispose.
	ErrEngineDisposed = errors.New("audio: engine disposed")

	// ErrSoundDisposed is returned when creating instances of a disposed sound.
	ErrSoundDisposed = errors.New("audio: sound disposed")
)

// EngineState is the lifecycle state of an Engine.
type EngineState uint8

const (
	Running EngineState = iota
	Paused
	Invalidated
	Disposed
)

func (s EngineState) String() string {
	switch s {
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	case Invalidated:
		return "Invalidated"
	case Disposed:
		return "Disposed"
	default:
		return fmt.Sprintf("EngineState(%d)", uint8(s))
	}
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	device     string
	sampleRate uint32
}

// WithDevice selects the output device by name. "default" and "" select the
// system default.
func WithDevice(name string) Option {
	return func(o *options) {
		if name == "default" {
			name = ""
		}
		o.device = name
	}
}

// WithSampleRate sets the output sample rate; zero lets the backend choose.
func WithSampleRate(hz uint32) Option {
	return func(o *options) {
		o.sampleRate = hz
	}
}

// Engine owns the output device and every sound created through it.
type Engine struct {
	backend Backend
	opts    options
	device  Device

	mu     sync.Mutex
	state  EngineState
	sounds []*Sound
	paused []*Instance
}

// NewEngine creates a running engine on b, initializing b's native layer on
// first use. Call Start to open the output device.
func NewEngine(b Backend, opts ...Option) (*Engine, error) {
	if err := initNative(b); err != nil {
		return nil, err
	}
	e := &Engine{backend: b, state: Running}
	for _, opt := range opts {
		opt(&e.opts)
	}
	return e, nil
}

// Start opens the output device. On failure the engine becomes Invalidated
// and the error is returned; the rest of the application keeps running.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case Disposed:
		return ErrEngineDisposed
	case Invalidated:
		return ErrEngineInvalidated
	}
	if e.device != nil {
		return nil
	}

	dev, err := e.backend.OpenDevice(e.opts.device, e.opts.sampleRate)
	if err != nil {
		e.state = Invalidated
		xrender.Logger().Warn("audio: device unavailable", "backend", e.backend.Name(), "err", err)
		return fmt.Errorf("%w: %w", ErrEngineInvalidated, err)
	}
	e.device = dev
	xrender.Logger().Info("audio: engine started", "backend", e.backend.Name())
	return nil
}

// State returns the current engine state.
func (e *Engine) State() EngineState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Device returns the open output device, or nil before Start.
func (e *Engine) Device() Device {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.device
}

// Update refreshes the play state of every instance from its voice.
func (e *Engine) Update() {
	for _, inst := range e.instances() {
		inst.refresh()
	}
}

func (e *Engine) instances() []*Instance {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []*Instance
	for _, s := range e.sounds {
		out = append(out, s.instances...)
	}
	return out
}

// Pause pauses every playing instance and remembers them for Resume. It does
// nothing unless the engine is Running.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Running {
		return
	}
	e.state = Paused

	clear(e.paused)
	e.paused = e.paused[:0]
	for _, s := range e.sounds {
		for _, inst := range s.instances {
			if inst.PlayState() == SoundPlaying {
				inst.Pause()
				e.paused = append(e.paused, inst)
			}
		}
	}
	xrender.Logger().Debug("audio: paused", "instances", len(e.paused))
}

// Resume plays again the instances paused by Pause that are still paused. It
// does nothing unless the engine is Paused.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Paused {
		return
	}
	e.state = Running

	for _, inst := range e.paused {
		if !inst.IsDisposed() && inst.PlayState() == SoundPaused {
			inst.Play()
		}
	}
	clear(e.paused)
	e.paused = e.paused[:0]
}

// NewSound registers a sound playing clip.
func (e *Engine) NewSound(name string, clip Clip) (*Sound, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case e.state == Disposed:
		return nil, ErrEngineDisposed
	case e.state == Invalidated || e.device == nil:
		return nil, ErrEngineInvalidated
	}
	s := &Sound{engine: e, name: name, clip: clip}
	e.sounds = append(e.sounds, s)
	return s, nil
}

// Sounds returns the registered, not yet disposed sounds.
func (e *Engine) Sounds() []*Sound {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.sounds)
}

func (e *Engine) unregisterSound(s *Sound) {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := slices.Index(e.sounds, s)
	if i < 0 {
		xrender.Bug("audio.Engine.unregisterSound", "sound %q is not registered", s.name)
	}
	e.sounds = slices.Delete(e.sounds, i, i+1)
}

// Dispose disposes every sound, closes the device and moves the engine to
// Disposed. Later calls do nothing.
func (e *Engine) Dispose() {
	e.mu.Lock()
	if e.state == Disposed {
		e.mu.Unlock()
		return
	}
	sounds := slices.Clone(e.sounds)
	e.mu.Unlock()

	for _, s := range sounds {
		s.Dispose()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.device != nil {
		if err := e.device.Close(); err != nil {
			xrender.Logger().Warn("audio: closing device", "err", err)
		}
		e.device = nil
	}
	e.state = Disposed
	e.paused = nil
}
