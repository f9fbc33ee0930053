package audio

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gogpu/xrender"
)

type fakeClip time.Duration

func (c fakeClip) Duration() time.Duration { return time.Duration(c) }

type fakeBackend struct {
	name    string
	initErr error
	openErr error
	inits   atomic.Int32
	device  *fakeDevice
}

var backendSeq atomic.Int32

// newBackend returns a backend with a process-unique name, so every test
// gets its own native layer.
func newBackend() *fakeBackend {
	return &fakeBackend{name: fmt.Sprintf("fake-%d", backendSeq.Add(1))}
}

func (b *fakeBackend) Name() string { return b.name }

func (b *fakeBackend) Init() error {
	b.inits.Add(1)
	return b.initErr
}

func (b *fakeBackend) OpenDevice(string, uint32) (Device, error) {
	if b.openErr != nil {
		return nil, b.openErr
	}
	b.device = &fakeDevice{}
	return b.device, nil
}

type fakeDevice struct {
	mu     sync.Mutex
	voices []*fakeVoice
	closed bool
}

func (d *fakeDevice) NewVoice(Clip) (Voice, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v := &fakeVoice{}
	d.voices = append(d.voices, v)
	return v, nil
}

func (d *fakeDevice) Close() error {
	d.closed = true
	return nil
}

type fakeVoice struct {
	playing, done, closed bool
	plays, stops          int
}

func (v *fakeVoice) Play()      { v.playing = true; v.plays++ }
func (v *fakeVoice) Pause()     { v.playing = false }
func (v *fakeVoice) Stop()      { v.playing = false; v.stops++ }
func (v *fakeVoice) Done() bool { return v.done }
func (v *fakeVoice) Close()     { v.closed = true }

func startedEngine(t *testing.T) (*Engine, *fakeBackend) {
	t.Helper()
	b := newBackend()
	e, err := NewEngine(b, WithDevice("default"), WithSampleRate(48000))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	if err := e.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return e, b
}

func newInstance(t *testing.T, s *Sound) *Instance {
	t.Helper()
	inst, err := s.NewInstance()
	if err != nil {
		t.Fatalf("NewInstance() error = %v", err)
	}
	return inst
}

func TestNativeLayerInitOnce(t *testing.T) {
	b := newBackend()
	for range 3 {
		if _, err := NewEngine(b); err != nil {
			t.Fatalf("NewEngine() error = %v", err)
		}
	}
	if n := b.inits.Load(); n != 1 {
		t.Errorf("Init() called %d times, want 1", n)
	}
}

func TestNativeLayerInitFailure(t *testing.T) {
	b := newBackend()
	b.initErr = errors.New("no openal")

	for range 2 {
		_, err := NewEngine(b)
		if !errors.Is(err, b.initErr) {
			t.Fatalf("NewEngine() error = %v, want init failure", err)
		}
	}
	if n := b.inits.Load(); n != 1 {
		t.Errorf("Init() called %d times, want 1", n)
	}
}

func TestStartFailureInvalidates(t *testing.T) {
	b := newBackend()
	b.openErr = errors.New("no device")
	e, err := NewEngine(b)
	if err != nil {
		t.Fatal(err)
	}

	if err := e.Start(); !errors.Is(err, ErrEngineInvalidated) || !errors.Is(err, b.openErr) {
		t.Errorf("Start() error = %v, want invalidated device error", err)
	}
	if e.State() != Invalidated {
		t.Errorf("State() = %v, want Invalidated", e.State())
	}
	if _, err := e.NewSound("s", fakeClip(time.Second)); !errors.Is(err, ErrEngineInvalidated) {
		t.Errorf("NewSound() error = %v, want ErrEngineInvalidated", err)
	}
	e.Pause()
	if e.State() != Invalidated {
		t.Errorf("Pause() changed state to %v", e.State())
	}
}

func TestPauseResumeRoundTrip(t *testing.T) {
	setup := func(t *testing.T) (e *Engine, a, b, c *Instance) {
		t.Helper()
		e, _ = startedEngine(t)
		s, err := e.NewSound("music", fakeClip(time.Minute))
		if err != nil {
			t.Fatal(err)
		}
		a, b, c = newInstance(t, s), newInstance(t, s), newInstance(t, s)
		a.Play()
		b.Play()
		b.Pause()
		// c never plays

		e.Pause()
		if e.State() != Paused {
			t.Fatalf("State() = %v, want Paused", e.State())
		}
		if len(e.paused) != 1 || e.paused[0] != a {
			t.Fatalf("Pause() recorded %d instances, want only the playing one", len(e.paused))
		}
		if a.PlayState() != SoundPaused || b.PlayState() != SoundPaused || c.PlayState() != SoundStopped {
			t.Fatalf("after Pause: a=%v b=%v c=%v", a.PlayState(), b.PlayState(), c.PlayState())
		}
		return e, a, b, c
	}

	check := func(t *testing.T, e *Engine, want map[*Instance]PlayState) {
		t.Helper()
		if e.State() != Running {
			t.Errorf("State() = %v, want Running", e.State())
		}
		for inst, st := range want {
			if inst.PlayState() != st {
				t.Errorf("after Resume: instance state = %v, want %v", inst.PlayState(), st)
			}
		}
	}

	t.Run("already paused stays paused", func(t *testing.T) {
		e, a, b, c := setup(t)
		e.Resume()
		check(t, e, map[*Instance]PlayState{a: SoundPlaying, b: SoundPaused, c: SoundStopped})
	})

	t.Run("stopped during pause", func(t *testing.T) {
		e, a, b, c := setup(t)
		a.Stop()
		b.Stop()
		e.Resume()
		check(t, e, map[*Instance]PlayState{a: SoundStopped, b: SoundStopped, c: SoundStopped})
	})

	t.Run("only the stopped one is skipped", func(t *testing.T) {
		e, _ := startedEngine(t)
		s, _ := e.NewSound("music", fakeClip(time.Minute))
		a, b := newInstance(t, s), newInstance(t, s)
		a.Play()
		b.Play()
		e.Pause()
		b.Stop()
		e.Resume()
		check(t, e, map[*Instance]PlayState{a: SoundPlaying, b: SoundStopped})
	})
}

func TestPauseResumeOnlyFromMatchingState(t *testing.T) {
	e, _ := startedEngine(t)
	s, _ := e.NewSound("fx", fakeClip(time.Second))
	inst := newInstance(t, s)
	inst.Play()

	e.Resume()
	if e.State() != Running || inst.PlayState() != SoundPlaying {
		t.Errorf("Resume() while running: %v/%v", e.State(), inst.PlayState())
	}

	e.Pause()
	inst.Play()
	e.Pause()
	e.Resume()
	// the second Pause was ignored, so the instance is still tracked once
	if inst.PlayState() != SoundPlaying {
		t.Errorf("PlayState() = %v, want Playing", inst.PlayState())
	}
}

func TestResumeSkipsDisposedInstances(t *testing.T) {
	e, b := startedEngine(t)
	s, _ := e.NewSound("fx", fakeClip(time.Second))
	inst := newInstance(t, s)
	inst.Play()
	e.Pause()
	inst.Dispose()
	e.Resume()

	v := b.device.voices[0]
	if v.plays != 1 || !v.closed {
		t.Errorf("voice plays = %d closed = %v, want 1 and true", v.plays, v.closed)
	}
	if len(s.Instances()) != 0 {
		t.Errorf("Instances() = %d after dispose, want 0", len(s.Instances()))
	}
}

func TestUpdateStopsFinishedInstances(t *testing.T) {
	e, b := startedEngine(t)
	s, _ := e.NewSound("blip", fakeClip(time.Millisecond))
	inst := newInstance(t, s)
	inst.Play()

	e.Update()
	if inst.PlayState() != SoundPlaying {
		t.Fatalf("PlayState() = %v, want Playing", inst.PlayState())
	}
	b.device.voices[0].done = true
	e.Update()
	if inst.PlayState() != SoundStopped {
		t.Errorf("PlayState() = %v, want Stopped", inst.PlayState())
	}
}

func TestDisposeReleasesEverythingOnce(t *testing.T) {
	e, b := startedEngine(t)
	s1, _ := e.NewSound("a", fakeClip(time.Second))
	s2, _ := e.NewSound("b", fakeClip(time.Second))
	newInstance(t, s1).Play()
	newInstance(t, s2)
	s2.Dispose() // disposed before the engine

	e.Dispose()
	e.Dispose()

	if e.State() != Disposed {
		t.Errorf("State() = %v, want Disposed", e.State())
	}
	if !s1.IsDisposed() || !s2.IsDisposed() || len(e.Sounds()) != 0 {
		t.Errorf("sounds not disposed: %v %v %d", s1.IsDisposed(), s2.IsDisposed(), len(e.Sounds()))
	}
	for i, v := range b.device.voices {
		if !v.closed || v.stops != 1 {
			t.Errorf("voice %d closed=%v stops=%d, want closed once", i, v.closed, v.stops)
		}
	}
	if !b.device.closed {
		t.Error("device not closed")
	}
	if _, err := e.NewSound("late", fakeClip(time.Second)); !errors.Is(err, ErrEngineDisposed) {
		t.Errorf("NewSound() error = %v, want ErrEngineDisposed", err)
	}
	if err := e.Start(); !errors.Is(err, ErrEngineDisposed) {
		t.Errorf("Start() error = %v, want ErrEngineDisposed", err)
	}
}

func TestUnregisterUnknownSoundPanics(t *testing.T) {
	e, _ := startedEngine(t)
	s, _ := e.NewSound("once", fakeClip(time.Second))
	s.Dispose()

	defer func() {
		err, _ := recover().(error)
		var ie *xrender.InternalError
		if !errors.As(err, &ie) {
			t.Errorf("recovered %v, want *xrender.InternalError", err)
		}
	}()
	e.unregisterSound(s)
}

func TestDisposedSoundRejectsInstances(t *testing.T) {
	e, _ := startedEngine(t)
	s, _ := e.NewSound("gone", fakeClip(time.Second))
	s.Dispose()
	if _, err := s.NewInstance(); !errors.Is(err, ErrSoundDisposed) {
		t.Errorf("NewInstance() error = %v, want ErrSoundDisposed", err)
	}
}

func TestConcurrentPauseAndRegistration(t *testing.T) {
	e, _ := startedEngine(t)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := e.NewSound(fmt.Sprint("s", i), fakeClip(time.Second))
			if err != nil {
				t.Error(err)
				return
			}
			inst, err := s.NewInstance()
			if err != nil {
				t.Error(err)
				return
			}
			inst.Play()
			e.Pause()
			e.Resume()
			s.Dispose()
		}()
	}
	wg.Wait()
	if n := len(e.Sounds()); n != 0 {
		t.Errorf("Sounds() = %d, want 0", n)
	}
}

func TestStateStrings(t *testing.T) {
	if Invalidated.String() != "Invalidated" || SoundPaused.String() != "Paused" {
		t.Errorf("String() = %s, %s", Invalidated, SoundPaused)
	}
}
