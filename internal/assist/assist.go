// Package assist plays a short tick through the speaker when a step activates.
package assist

import (
	"math"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

const (
	SampleRate = beep.SampleRate(44100)
	Pitch      = 880.0
	Length     = 30 * time.Millisecond
)

type Clapper struct {
	enabled bool
	play    func(beep.Streamer)
}

// New initializes the speaker. A failure leaves a Clapper that does nothing.
func New() (*Clapper, error) {
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/60)); nil != err {
		return &Clapper{}, err
	}
	return &Clapper{
		enabled: true,
		play:    func(s beep.Streamer) { speaker.Play(s) },
	}, nil
}

func (c *Clapper) Enabled() bool {
	return c.enabled
}

// Clap plays one tick. Only the first segment of a hold ticks.
func (c *Clapper) Clap(hold, first bool) {
	if !c.enabled || (hold && !first) {
		return
	}
	c.play(Tick(SampleRate, Pitch, Length))
}

// Tick is a sine tone of the given length with a linear fade out.
func Tick(sr beep.SampleRate, pitch float64, length time.Duration) beep.Streamer {
	total := sr.N(length)
	step := 2 * math.Pi * pitch / float64(sr)
	pos := 0
	tone := beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		for i := range samples {
			gain := 0.3 * (1 - float64(pos)/float64(total))
			v := gain * math.Sin(step*float64(pos))
			samples[i][0], samples[i][1] = v, v
			pos++
		}
		return len(samples), true
	})
	return beep.Take(total, tone)
}
