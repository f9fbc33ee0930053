package audio

import (
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/xrender"
)

// PlayState is the state of a sound instance.
type PlayState uint8

const (
	SoundStopped PlayState = iota
	SoundPlaying
	SoundPaused
)

func (s PlayState) String() string {
	switch s {
	case SoundStopped:
		return "Stopped"
	case SoundPlaying:
		return "Playing"
	case SoundPaused:
		return "Paused"
	default:
		return fmt.Sprintf("PlayState(%d)", uint8(s))
	}
}

// Sound is a clip registered with an engine. Instances of a sound play
// independently.
type Sound struct {
	engine *Engine
	name   string
	clip   Clip

	// guarded by engine.mu
	instances []*Instance
	disposed  bool
}

func (s *Sound) Name() string { return s.name }
func (s *Sound) Clip() Clip   { return s.clip }

// IsDisposed reports whether Dispose was called.
func (s *Sound) IsDisposed() bool {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	return s.disposed
}

// Instances returns the live instances of s.
func (s *Sound) Instances() []*Instance {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	return slices.Clone(s.instances)
}

// NewInstance creates a stopped instance of s.
func (s *Sound) NewInstance() (*Instance, error) {
	e := s.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	if s.disposed {
		return nil, ErrSoundDisposed
	}
	if e.device == nil {
		return nil, ErrEngineInvalidated
	}
	v, err := e.device.NewVoice(s.clip)
	if err != nil {
		return nil, fmt.Errorf("audio: sound %s: %w", s.name, err)
	}
	inst := &Instance{sound: s, voice: v}
	s.instances = append(s.instances, inst)
	return inst, nil
}

// Dispose stops and disposes every instance and unregisters s from its
// engine. Later calls do nothing.
func (s *Sound) Dispose() {
	e := s.engine
	e.mu.Lock()
	if s.disposed {
		e.mu.Unlock()
		return
	}
	s.disposed = true
	instances := slices.Clone(s.instances)
	e.mu.Unlock()

	for _, inst := range instances {
		inst.Dispose()
	}
	e.unregisterSound(s)
}

// Instance is one playback of a sound.
type Instance struct {
	sound *Sound
	voice Voice

	mu       sync.Mutex
	state    PlayState
	disposed bool
}

func (i *Instance) Sound() *Sound { return i.sound }

// PlayState returns the last known play state. Engine.Update refreshes it
// for instances that played to their end.
func (i *Instance) PlayState() PlayState {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

func (i *Instance) IsDisposed() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.disposed
}

// Play starts or resumes playback.
func (i *Instance) Play() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.disposed {
		return
	}
	i.voice.Play()
	i.state = SoundPlaying
}

// Pause pauses a playing instance.
func (i *Instance) Pause() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.disposed || i.state != SoundPlaying {
		return
	}
	i.voice.Pause()
	i.state = SoundPaused
}

// Stop stops playback; the next Play starts from the beginning.
func (i *Instance) Stop() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.disposed {
		return
	}
	i.voice.Stop()
	i.state = SoundStopped
}

func (i *Instance) refresh() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.state == SoundPlaying && i.voice.Done() {
		i.state = SoundStopped
	}
}

// Dispose stops the instance, releases its voice and detaches it from its
// sound.
func (i *Instance) Dispose() {
	i.mu.Lock()
	if i.disposed {
		i.mu.Unlock()
		return
	}
	i.voice.Stop()
	i.voice.Close()
	i.state = SoundStopped
	i.disposed = true
	i.mu.Unlock()

	e := i.sound.engine
	e.mu.Lock()
	defer e.mu.Unlock()
	if j := slices.Index(i.sound.instances, i); j >= 0 {
		i.sound.instances = slices.Delete(i.sound.instances, j, j+1)
	} else {
		xrender.Bug("audio.Instance.Dispose", "instance of %q missing from its sound", i.sound.name)
	}
}
