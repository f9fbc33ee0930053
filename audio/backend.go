package audio

import (
	"fmt"
	"sync"
	"time"
)

// Backend is a native audio layer.
type Backend interface {
	// Name identifies the native layer for process-wide initialization.
	Name() string

	// Init initializes the native layer. It is called at most once per
	// process and Name.
	Init() error

	// OpenDevice opens the named output device; "" selects the default.
	OpenDevice(name string, sampleRate uint32) (Device, error)
}

// Device is an open output device.
type Device interface {
	NewVoice(clip Clip) (Voice, error)
	Close() error
}

// Voice plays one clip on a device.
type Voice interface {
	Play()
	Pause()
	Stop()

	// Done reports whether the clip played to its end.
	Done() bool

	Close()
}

// Clip is decoded sound data a device can play.
type Clip interface {
	Duration() time.Duration
}

var nativeLayers sync.Map // backend name -> func() error

func initNative(b Backend) error {
	once, _ := nativeLayers.LoadOrStore(b.Name(), sync.OnceValue(b.Init))
	if err := once.(func() error)(); err != nil {
		return fmt.Errorf("audio: initialize %s native layer: %w", b.Name(), err)
	}
	return nil
}
