package timeline

import (
	"fmt"
	"strings"
	"time"
)

// Mode is the direction units travel in.
type Mode int

const (
	// Forward spawns at the bottom and scrolls up towards targets near the top.
	Forward Mode = iota
	// Reverse spawns at the top and scrolls down towards targets near the bottom.
	Reverse
)

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "forward", "standard":
		return Forward, nil
	case "reverse":
		return Reverse, nil
	}
	return Forward, fmt.Errorf("unknown mode %q", s)
}

func (m Mode) String() string {
	switch m {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	}
	return "unknown"
}

// Direction is the sign of movement along the y axis
func (m Mode) Direction() float64 {
	if m == Reverse {
		return 1
	}
	return -1
}

// Motion selects how a live unit's position is derived each frame.
type Motion int

const (
	// Euler moves every live unit by BaseSpeed*Speed once per Advance call,
	// so on-screen speed follows the frame rate.
	Euler Motion = iota
	// Elapsed derives the position from the time since activation, as if frames
	// were delivered exactly at FramePeriod.
	Elapsed
)

func ParseMotion(s string) (Motion, error) {
	switch strings.ToLower(s) {
	case "euler", "frame":
		return Euler, nil
	case "elapsed", "time":
		return Elapsed, nil
	}
	return Euler, fmt.Errorf("unknown motion %q", s)
}

func (m Motion) String() string {
	switch m {
	case Euler:
		return "euler"
	case Elapsed:
		return "elapsed"
	}
	return "unknown"
}

// Geometry is the playfield in position units. y grows downwards.
type Geometry struct {
	Height float64
	Margin float64 // distance from the edge to the targets
}

var DefaultGeometry = Geometry{Height: 1050, Margin: 100}

func (g Geometry) Spawn(m Mode) float64 {
	if m == Reverse {
		return 0
	}
	return g.Height
}

func (g Geometry) Target(m Mode) float64 {
	if m == Reverse {
		return g.Height - g.Margin
	}
	return g.Margin
}

// Exited reports whether pos is past the exit boundary of the mode.
func (g Geometry) Exited(m Mode, pos float64) bool {
	if m == Reverse {
		return pos >= g.Height
	}
	return pos <= 0
}

// ClockState is frozen when a session begins.
type ClockState struct {
	Start       time.Time
	Speed       float64
	Mode        Mode
	BaseSpeed   float64
	FramePeriod time.Duration
}

func (c ClockState) Elapsed(now time.Time) time.Duration {
	return now.Sub(c.Start)
}

// Scaled is the elapsed time in chart milliseconds.
func (c ClockState) Scaled(now time.Time) float64 {
	return float64(c.Elapsed(now)) / float64(time.Millisecond) * c.Speed
}

// Step is the distance a live unit covers per frame.
func (c ClockState) Step() float64 {
	return c.BaseSpeed * c.Speed
}

// Travel is the distance covered by a unit activated at activation by the time
// the scaled clock reads scaled, counting the activation frame as one step.
func (c ClockState) Travel(scaled float64, activation int64) float64 {
	wall := (scaled - float64(activation)) / c.Speed
	frames := wall / (float64(c.FramePeriod) / float64(time.Millisecond))
	return c.Step() * (1 + frames)
}
