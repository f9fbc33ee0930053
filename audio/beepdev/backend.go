// Package beepdev plays audio through github.com/gopxl/beep.
//
// The Backend opens the system speaker; with Offline set it opens a device
// that is only pulled through Device.Stream, for tests and headless tools.
package beepdev

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/gogpu/xrender"
	"github.com/gogpu/xrender/audio"
)

// DefaultSampleRate is used when the engine does not ask for one.
const DefaultSampleRate = beep.SampleRate(44100)

// Backend implements audio.Backend on beep.
type Backend struct {
	// Offline opens devices that do not touch the speaker.
	Offline bool

	// BufferSize is the speaker latency. Zero means 100ms.
	BufferSize time.Duration
}

var _ audio.Backend = (*Backend)(nil)

func (b *Backend) Name() string {
	if b.Offline {
		return "beep-offline"
	}
	return "beep"
}

// Init has nothing to do; the speaker is set up when a device opens, since
// it needs the sample rate.
func (b *Backend) Init() error { return nil }

func (b *Backend) OpenDevice(name string, sampleRate uint32) (audio.Device, error) {
	rate := DefaultSampleRate
	if sampleRate != 0 {
		rate = beep.SampleRate(sampleRate)
	}
	if name != "" {
		xrender.Logger().Warn("beepdev: named devices are not supported, using default", "device", name)
	}
	if b.Offline {
		return NewDevice(rate), nil
	}

	buf := b.BufferSize
	if buf <= 0 {
		buf = 100 * time.Millisecond
	}
	if err := speaker.Init(rate, rate.N(buf)); err != nil {
		return nil, fmt.Errorf("beepdev: init speaker: %w", err)
	}
	d := &Device{lock: speakerLock{}, mixer: &beep.Mixer{}, rate: rate, speaker: true}
	speaker.Play(d.mixer)
	return d, nil
}

type speakerLock struct{}

func (speakerLock) Lock()   { speaker.Lock() }
func (speakerLock) Unlock() { speaker.Unlock() }

// Device mixes every voice into one stream.
type Device struct {
	lock    sync.Locker
	mixer   *beep.Mixer
	rate    beep.SampleRate
	speaker bool
}

var _ audio.Device = (*Device)(nil)

// NewDevice returns an offline device pulled with Stream.
func NewDevice(rate beep.SampleRate) *Device {
	return &Device{lock: &sync.Mutex{}, mixer: &beep.Mixer{}, rate: rate}
}

func (d *Device) SampleRate() beep.SampleRate { return d.rate }

// Stream mixes the next len(samples) frames of every playing voice into
// samples. Only meaningful for offline devices.
func (d *Device) Stream(samples [][2]float64) {
	d.lock.Lock()
	defer d.lock.Unlock()
	clear(samples)
	d.mixer.Stream(samples)
}

func (d *Device) NewVoice(clip audio.Clip) (audio.Voice, error) {
	c, ok := clip.(*Clip)
	if !ok {
		return nil, fmt.Errorf("beepdev: unsupported clip type %T", clip)
	}
	return &voice{dev: d, clip: c, pos: c.buf.Streamer(0, c.buf.Len())}, nil
}

func (d *Device) Close() error {
	d.lock.Lock()
	d.mixer.Clear()
	d.lock.Unlock()
	if d.speaker {
		speaker.Clear()
		speaker.Close()
	}
	return nil
}
