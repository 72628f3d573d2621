// Package timeline maps chart time onto screen positions for one play session.
package timeline

import (
	"math"
	"strconv"
	"time"

	"git.lost.host/meutraa/arrows/internal/game"
	"git.lost.host/meutraa/arrows/internal/hold"
	"git.lost.host/meutraa/arrows/internal/log"
	"github.com/google/uuid"
)

type State int

const (
	Pending State = iota
	Live
	Retired
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Live:
		return "live"
	case Retired:
		return "retired"
	}
	return "unknown"
}

type Options struct {
	Mode      Mode
	Speed     float64 // multiplier applied to the wall clock and to movement
	BaseSpeed float64 // position units per frame at Speed 1
	Motion    Motion
	Geometry  Geometry

	// Start is the wall time play began. Zero means the time Begin is called.
	Start        time.Time
	LeadIn       time.Duration
	FramePeriod  time.Duration
	HoldInterval time.Duration

	Log        *log.Logger
	OnActivate func(game.Unit)
	OnRetire   func(game.Unit)
}

func (o *Options) defaults() {
	if o.Geometry == (Geometry{}) {
		o.Geometry = DefaultGeometry
	}
	if o.FramePeriod == 0 {
		o.FramePeriod = time.Second / 60
	}
	if o.HoldInterval == 0 {
		o.HoldInterval = hold.Interval
	}
	if nil == o.Log {
		o.Log = log.Discard()
	}
}

func (o *Options) validate() error {
	invalid := func(field string, v float64, reason string) error {
		return &game.ConfigurationError{
			Field:  field,
			Value:  strconv.FormatFloat(v, 'g', -1, 64),
			Reason: reason,
		}
	}
	finite := func(v float64) bool {
		return !math.IsNaN(v) && !math.IsInf(v, 0)
	}

	if !finite(o.Speed) || o.Speed <= 0 {
		return invalid("speed multiplier", o.Speed, "must be positive")
	}
	if !finite(o.BaseSpeed) || o.BaseSpeed <= 0 {
		return invalid("base speed", o.BaseSpeed, "must be positive")
	}
	if o.Mode != Forward && o.Mode != Reverse {
		return &game.ConfigurationError{Field: "mode", Value: o.Mode.String(), Reason: "unsupported"}
	}
	if o.Motion != Euler && o.Motion != Elapsed {
		return &game.ConfigurationError{Field: "motion", Value: o.Motion.String(), Reason: "unsupported"}
	}
	if !finite(o.Geometry.Height) || o.Geometry.Height <= 0 {
		return invalid("playfield height", o.Geometry.Height, "must be positive")
	}
	if o.Geometry.Margin < 0 || o.Geometry.Margin >= o.Geometry.Height {
		return invalid("target margin", o.Geometry.Margin, "must be inside the playfield")
	}
	if o.FramePeriod <= 0 {
		return &game.ConfigurationError{Field: "frame period", Value: o.FramePeriod.String(), Reason: "must be positive"}
	}
	return nil
}

// Sprite is a live unit as the presentation sees it for one frame.
type Sprite struct {
	Lane      game.Lane
	Position  float64
	Hold      bool
	Group     int
	HoldUntil int64
	Foot      string
}

type entry struct {
	unit  game.Unit
	state State
	pos   float64
}

// Session owns a chart, the units derived from it and the clock they move by.
// It is driven from a single render loop and is not safe for concurrent use.
type Session struct {
	id       uuid.UUID
	chart    *game.Chart
	clock    ClockState
	motion   Motion
	geometry Geometry

	// units are in activation order; units[next:] are pending
	units []entry
	next  int
	live  []int

	retired   int
	dropped   int
	cancelled bool

	log        *log.Logger
	onActivate func(game.Unit)
	onRetire   func(game.Unit)
}

// Begin validates the inputs, expands the chart and freezes the clock.
// Units that would activate before play starts are dropped, not activated late.
func Begin(chart *game.Chart, opts Options, now time.Time) (*Session, error) {
	opts.defaults()
	if nil == chart {
		return nil, &game.ConfigurationError{Field: "chart", Reason: "missing"}
	}
	if err := opts.validate(); nil != err {
		return nil, err
	}
	if err := chart.Validate(); nil != err {
		return nil, err
	}

	units, err := hold.ExpandChart(chart, opts.HoldInterval)
	if nil != err {
		return nil, err
	}

	start := opts.Start
	if start.IsZero() {
		start = now
	}
	start = start.Add(opts.LeadIn)

	id := uuid.New()
	s := &Session{
		id:    id,
		chart: chart,
		clock: ClockState{
			Start:       start,
			Speed:       opts.Speed,
			Mode:        opts.Mode,
			BaseSpeed:   opts.BaseSpeed,
			FramePeriod: opts.FramePeriod,
		},
		motion:     opts.Motion,
		geometry:   opts.Geometry,
		units:      make([]entry, 0, len(units)),
		log:        opts.Log.With("session " + id.String()),
		onActivate: opts.OnActivate,
		onRetire:   opts.OnRetire,
	}

	// Chart time is relative to the moment setup finished
	var shift int64
	if lag := now.Sub(start); lag > 0 {
		shift = lag.Milliseconds()
	}

	origin := s.geometry.Spawn(s.clock.Mode)
	for _, u := range units {
		u.ActivationTime -= shift
		if u.ActivationTime < 0 {
			s.dropped++
			s.log.Warnf("%v unit at %vms would activate in the past, skipping",
				chart.Lanes.Name(u.Lane), u.ActivationTime+shift)
			continue
		}
		u.OriginY = origin
		s.units = append(s.units, entry{unit: u, pos: origin})
	}

	s.log.Infof("%v steps, %v units (%v dropped), mode %v, speed %v, base %v, motion %v",
		len(chart.Steps), len(s.units), s.dropped, s.clock.Mode, s.clock.Speed, s.clock.BaseSpeed, s.motion)
	return s, nil
}

// Advance moves the session to now and returns the units that are live after it,
// in activation order. The returned slice is fresh on every call.
func (s *Session) Advance(now time.Time) []Sprite {
	if s.cancelled {
		return nil
	}
	scaled := s.clock.Scaled(now)

	for s.next < len(s.units) && float64(s.units[s.next].unit.ActivationTime) <= scaled {
		e := &s.units[s.next]
		e.state = Live
		s.live = append(s.live, s.next)
		if nil != s.onActivate {
			s.onActivate(e.unit)
		}
		s.next++
	}

	sprites := make([]Sprite, 0, len(s.live))
	kept := s.live[:0]
	for _, i := range s.live {
		e := &s.units[i]
		e.pos = s.position(e, scaled)

		if s.geometry.Exited(s.clock.Mode, e.pos) {
			e.state = Retired
			s.retired++
			s.log.Debugf("retired %v unit %vms at %.1f",
				s.chart.Lanes.Name(e.unit.Lane), e.unit.ActivationTime, e.pos)
			if nil != s.onRetire {
				s.onRetire(e.unit)
			}
			continue
		}

		kept = append(kept, i)
		sprites = append(sprites, Sprite{
			Lane:      e.unit.Lane,
			Position:  e.pos,
			Hold:      e.unit.Hold,
			Group:     e.unit.Group,
			HoldUntil: e.unit.HoldUntil,
			Foot:      e.unit.Foot,
		})
	}
	s.live = kept

	return sprites
}

func (s *Session) position(e *entry, scaled float64) float64 {
	dir := s.clock.Mode.Direction()
	if s.motion == Elapsed {
		return e.unit.OriginY + dir*s.clock.Travel(scaled, e.unit.ActivationTime)
	}
	return e.pos + dir*s.clock.Step()
}

// Cancel discards everything the session owns. Advance returns nil afterwards.
func (s *Session) Cancel() {
	if s.cancelled {
		return
	}
	s.log.Infof("cancelled with %v pending, %v live, %v retired",
		s.Pending(), len(s.live), s.retired)
	s.cancelled = true
	s.chart = nil
	s.units = nil
	s.live = nil
	s.next = 0
	s.clock = ClockState{}
}

func (s *Session) ID() uuid.UUID      { return s.id }
func (s *Session) Clock() ClockState  { return s.clock }
func (s *Session) Geometry() Geometry { return s.geometry }
func (s *Session) Chart() *game.Chart { return s.chart }
func (s *Session) Cancelled() bool    { return s.cancelled }

// Created is the number of units kept at setup.
func (s *Session) Created() int { return len(s.units) }
func (s *Session) Pending() int { return len(s.units) - s.next }
func (s *Session) Live() int    { return len(s.live) }
func (s *Session) Retired() int { return s.retired }
func (s *Session) Dropped() int { return s.dropped }

// Done reports whether every unit has been retired.
func (s *Session) Done() bool {
	return !s.cancelled && s.next == len(s.units) && len(s.live) == 0
}

// Unit returns the i-th created unit and its state. It is false for an index
// outside 0..Created()-1, which after Cancel is every index.
func (s *Session) Unit(i int) (game.Unit, State, bool) {
	if i < 0 || i >= len(s.units) {
		return game.Unit{}, Retired, false
	}
	e := s.units[i]
	return e.unit, e.state, true
}
