package beepdev

import (
	"sync/atomic"

	"github.com/gopxl/beep"

	"github.com/gogpu/xrender"
)

// resampleQuality is passed to beep.Resample for clips whose rate differs
// from the device.
const resampleQuality = 4

type voice struct {
	dev  *Device
	clip *Clip
	pos  beep.StreamSeeker

	// guarded by dev.lock
	ctrl *beep.Ctrl
	done atomic.Bool
}

// queue starts a fresh pass over the clip from the current position.
func (v *voice) queue() {
	var s beep.Streamer = v.pos
	if rate := v.clip.Format().SampleRate; rate != v.dev.rate {
		s = beep.Resample(resampleQuality, rate, v.dev.rate, s)
	}
	v.ctrl = &beep.Ctrl{Streamer: beep.Seq(s, beep.Callback(func() { v.done.Store(true) }))}
	v.dev.mixer.Add(v.ctrl)
}

func (v *voice) rewind() {
	if err := v.pos.Seek(0); err != nil {
		xrender.Logger().Warn("beepdev: rewind clip", "err", err)
	}
}

func (v *voice) Play() {
	v.dev.lock.Lock()
	defer v.dev.lock.Unlock()

	if v.done.Load() {
		v.detach()
		v.rewind()
		v.done.Store(false)
	}
	if v.ctrl == nil {
		v.queue()
	}
	v.ctrl.Paused = false
}

func (v *voice) Pause() {
	v.dev.lock.Lock()
	defer v.dev.lock.Unlock()
	if v.ctrl != nil {
		v.ctrl.Paused = true
	}
}

func (v *voice) Stop() {
	v.dev.lock.Lock()
	defer v.dev.lock.Unlock()
	v.detach()
	v.rewind()
	v.done.Store(false)
}

// detach drains the current pass so the mixer drops it.
func (v *voice) detach() {
	if v.ctrl != nil {
		v.ctrl.Streamer = nil
		v.ctrl = nil
	}
}

func (v *voice) Done() bool { return v.done.Load() }

func (v *voice) Close() { v.Stop() }

// position returns the next frame the voice will play.
func (v *voice) position() int {
	v.dev.lock.Lock()
	defer v.dev.lock.Unlock()
	return v.pos.Position()
}
