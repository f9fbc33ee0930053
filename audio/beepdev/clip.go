package beepdev

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/gogpu/xrender/audio"
)

// Clip is a decoded sound held in memory.
type Clip struct {
	buf *beep.Buffer
}

var _ audio.Clip = (*Clip)(nil)

// NewClip decodes s fully into a clip.
func NewClip(format beep.Format, s beep.Streamer) *Clip {
	buf := beep.NewBuffer(format)
	buf.Append(s)
	return &Clip{buf: buf}
}

func (c *Clip) Format() beep.Format { return c.buf.Format() }

// Len returns the clip length in frames.
func (c *Clip) Len() int { return c.buf.Len() }

func (c *Clip) Duration() time.Duration {
	return c.buf.Format().SampleRate.D(c.buf.Len())
}

// Tone returns a sine clip of freq Hz lasting d, at volume vol in [0, 1].
func Tone(rate beep.SampleRate, freq float64, d time.Duration, vol float64) (*Clip, error) {
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, fmt.Errorf("beepdev: tone %gHz: %w", freq, err)
	}
	var s beep.Streamer = beep.Take(rate.N(d), sine)
	if vol <= 0 {
		s = &effects.Volume{Streamer: s, Base: 2, Silent: true}
	} else if vol != 1 {
		s = &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
	}
	return NewClip(beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}, s), nil
}
