package timeline

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"git.lost.host/meutraa/arrows/internal/game"
	"git.lost.host/meutraa/arrows/internal/log"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

const frame = 20 * time.Millisecond

func at(k int) time.Time {
	return t0.Add(time.Duration(k) * frame)
}

func smallField(mode Mode, speed float64) Options {
	return Options{
		Mode:        mode,
		Speed:       speed,
		BaseSpeed:   5,
		Geometry:    Geometry{Height: 100, Margin: 10},
		FramePeriod: frame,
	}
}

func begin(t *testing.T, steps []game.Step, opts Options) *Session {
	t.Helper()
	s, err := Begin(game.NewChart("test", "", game.Cardinal, steps), opts, t0)
	if nil != err {
		t.Fatalf("unable to begin session: %v", err)
	}
	return s
}

func TestEndToEnd(t *testing.T) {
	up, _ := game.Cardinal.Lookup("up")
	left, _ := game.Cardinal.Lookup("left")
	s := begin(t, []game.Step{game.Tap(up, 0), game.Held(left, 500, 550)}, Options{
		Mode:      Forward,
		Speed:     1.0,
		BaseSpeed: 5,
	})

	lefts := []int64{}
	for i := 0; i < s.Created(); i++ {
		u, state, _ := s.Unit(i)
		if state != Pending {
			t.Fatalf("unit %d is %v before the first frame", i, state)
		}
		if u.Lane == left {
			if !u.Hold {
				t.Fatalf("left unit %d is not a hold segment", i)
			}
			lefts = append(lefts, u.ActivationTime)
		}
	}
	if len(lefts) != 3 || lefts[0] != 500 || lefts[1] != 517 || lefts[2] != 534 {
		t.Fatalf("expected left segments at 500, 517, 534, got %v", lefts)
	}

	sprites := s.Advance(t0)
	if len(sprites) != 1 || sprites[0].Lane != up || sprites[0].Hold {
		t.Fatalf("expected only the up unit at elapsed 0, got %+v", sprites)
	}
	if s.Pending() != 3 {
		t.Fatalf("expected every left segment pending, got %d pending", s.Pending())
	}

	s.Advance(t0.Add(499 * time.Millisecond))
	if s.Pending() != 3 {
		t.Fatalf("left hold activated early, %d pending", s.Pending())
	}

	sprites = s.Advance(t0.Add(500 * time.Millisecond))
	if len(sprites) != 2 || sprites[0].Lane != up || sprites[1].Lane != left {
		t.Fatalf("expected up and the first left segment, got %+v", sprites)
	}
	if sprites[0].Position != 1050-3*5 {
		t.Fatalf("up unit should have moved on every frame, at %v", sprites[0].Position)
	}
	if sprites[1].Position != 1050-5 {
		t.Fatalf("first left segment should have moved once, at %v", sprites[1].Position)
	}

	sprites = s.Advance(t0.Add(550 * time.Millisecond))
	if s.Pending() != 0 || len(sprites) != 4 {
		t.Fatalf("expected all 4 units live at 550ms, got %d live, %d pending", len(sprites), s.Pending())
	}
	for _, sp := range sprites[1:] {
		if sp.Group != sprites[1].Group || sp.HoldUntil != 550 {
			t.Fatalf("hold segments do not share a group: %+v", sprites)
		}
	}
}

func TestActivationFrame(t *testing.T) {
	times := []int64{0, 40, 100, 130, 131}
	expected := []int{0, 2, 5, 7, 7}

	for _, motion := range []Motion{Euler, Elapsed} {
		steps := []game.Step{}
		for i, ms := range times {
			steps = append(steps, game.Tap(game.Lane(i%4), ms))
		}

		var k int
		activated := map[int64]int{}
		opts := smallField(Forward, 1)
		opts.Motion = motion
		opts.OnActivate = func(u game.Unit) {
			if _, ok := activated[u.ActivationTime]; ok {
				t.Errorf("%v: unit %v activated twice", motion, u.ActivationTime)
			}
			activated[u.ActivationTime] = k
		}
		s := begin(t, steps, opts)

		for k = 0; k < 10; k++ {
			s.Advance(at(k))
			for i := 0; i < s.Created(); i++ {
				u, state, _ := s.Unit(i)
				scaled := s.Clock().Scaled(at(k))
				if state == Pending && float64(u.ActivationTime) <= scaled {
					t.Errorf("%v: unit %v still pending at %vms", motion, u.ActivationTime, scaled)
				}
				if state != Pending && float64(u.ActivationTime) > scaled {
					t.Errorf("%v: unit %v %v before its time at %vms", motion, u.ActivationTime, state, scaled)
				}
			}
		}

		for i, ms := range times {
			if activated[ms] != expected[i] {
				t.Errorf("%v: unit %v activated on frame %d, expected %d", motion, ms, activated[ms], expected[i])
			}
		}
	}
}

func TestMonotonicRetirement(t *testing.T) {
	steps := []game.Step{
		game.Tap(0, 0),
		game.Held(1, 30, 200),
		game.Tap(2, 90),
		game.Held(3, 300, 300),
	}

	for _, motion := range []Motion{Euler, Elapsed} {
		for _, mode := range []Mode{Forward, Reverse} {
			opts := smallField(mode, 0.7)
			opts.Motion = motion
			retiredAt := map[int]int{}
			s := begin(t, steps, opts)
			last := make([]State, s.Created())

			for k := 0; k < 200; k++ {
				s.Advance(at(k))
				for i := range last {
					_, state, _ := s.Unit(i)
					if state < last[i] {
						t.Fatalf("%v/%v: unit %d went from %v to %v", motion, mode, i, last[i], state)
					}
					if state == Retired && last[i] != Retired {
						retiredAt[i] = k
					}
					last[i] = state
				}
			}

			if !s.Done() {
				t.Fatalf("%v/%v: expected every unit retired, %d live %d pending", motion, mode, s.Live(), s.Pending())
			}
			if len(retiredAt) != s.Created() || s.Retired() != s.Created() {
				t.Fatalf("%v/%v: %d retirements for %d units", motion, mode, len(retiredAt), s.Created())
			}
			if sprites := s.Advance(at(500)); len(sprites) != 0 {
				t.Fatalf("%v/%v: retired units came back: %+v", motion, mode, sprites)
			}
		}
	}
}

func TestPastActivationDrop(t *testing.T) {
	steps := []game.Step{
		game.Tap(0, 50),
		game.Tap(1, 100),
		game.Held(2, 60, 200),
		game.Tap(3, 300),
	}
	var diagnostics bytes.Buffer
	opts := smallField(Forward, 1)
	opts.Start = t0.Add(-100 * time.Millisecond)
	opts.Log = log.New(&diagnostics, log.LevelWarn)

	s, err := Begin(game.NewChart("", "", game.Cardinal, steps), opts, t0)
	if nil != err {
		t.Fatal(err)
	}
	warning := "WARN: session " + s.ID().String() + ": left unit at 50ms would activate in the past"
	if !strings.Contains(diagnostics.String(), warning) {
		t.Fatalf("missing %q in %q", warning, diagnostics.String())
	}
	if strings.Count(diagnostics.String(), "WARN:") != 4 {
		t.Fatalf("expected one warning per dropped unit, got %q", diagnostics.String())
	}

	// 50 and hold ticks 60, 77, 94 fall before the 100ms of setup lag
	if s.Dropped() != 4 {
		t.Fatalf("expected 4 dropped units, got %d", s.Dropped())
	}
	// 100, 300 and hold ticks 111..196
	if s.Created() != 8 {
		t.Fatalf("expected 8 units, got %d", s.Created())
	}
	u, _, _ := s.Unit(0)
	if u.Lane != 1 || u.ActivationTime != 0 {
		t.Fatalf("expected lane 1 shifted to 0 first, got %+v", u)
	}

	for k := 0; k < 100; k++ {
		for _, sp := range s.Advance(opts.Start.Add(time.Duration(k) * frame)) {
			if sp.Lane == 0 {
				t.Fatalf("dropped unit rendered on frame %d", k)
			}
		}
	}

	s = begin(t, []game.Step{game.Tap(0, -1), game.Tap(1, 0)}, smallField(Reverse, 1))
	if s.Dropped() != 1 || s.Created() != 1 {
		t.Fatalf("negative chart time should be dropped, got %d dropped %d created", s.Dropped(), s.Created())
	}
}

type crossing struct {
	activated, retired int
	lastPosition       float64
}

func runCrossings(t *testing.T, steps []game.Step, opts Options, frames int) map[game.Lane]*crossing {
	t.Helper()
	var k int
	out := map[game.Lane]*crossing{}
	opts.OnActivate = func(u game.Unit) { out[u.Lane] = &crossing{activated: k, retired: -1} }
	opts.OnRetire = func(u game.Unit) { out[u.Lane].retired = k }
	s := begin(t, steps, opts)
	for k = 0; k < frames; k++ {
		for _, sp := range s.Advance(at(k)) {
			out[sp.Lane].lastPosition = sp.Position
		}
	}
	return out
}

func TestModeSymmetry(t *testing.T) {
	steps := []game.Step{game.Tap(0, 0), game.Tap(1, 40), game.Tap(2, 100)}

	for _, motion := range []Motion{Euler, Elapsed} {
		fo := smallField(Forward, 1)
		fo.Motion = motion
		ro := smallField(Reverse, 1)
		ro.Motion = motion

		fwd := runCrossings(t, steps, fo, 60)
		rev := runCrossings(t, steps, ro, 60)

		for lane := game.Lane(0); lane < 3; lane++ {
			f, r := fwd[lane], rev[lane]
			if nil == f || nil == r {
				t.Fatalf("%v: lane %d never activated", motion, lane)
			}
			if f.activated != r.activated || f.retired != r.retired {
				t.Errorf("%v: lane %d forward %+v, reverse %+v", motion, lane, f, r)
			}
			if f.retired-f.activated != 19 {
				t.Errorf("%v: lane %d live for %d frames, expected 20", motion, lane, f.retired-f.activated+1)
			}
			if f.lastPosition != 5 || r.lastPosition != 95 {
				t.Errorf("%v: lane %d exits at %v forward and %v reverse", motion, lane, f.lastPosition, r.lastPosition)
			}
		}
	}
}

func TestSpeedScaling(t *testing.T) {
	steps := []game.Step{game.Tap(0, 100)}

	for _, motion := range []Motion{Euler, Elapsed} {
		exit := func(speed float64) time.Duration {
			opts := smallField(Forward, speed)
			opts.Motion = motion
			c := runCrossings(t, steps, opts, 200)[0]
			if nil == c || c.retired < 0 {
				t.Fatalf("%v: unit never retired at speed %v", motion, speed)
			}
			return time.Duration(c.retired+1) * frame
		}

		slow, fast := exit(0.5), exit(1.0)
		if slow != 2*fast {
			t.Errorf("%v: exit after %v at 0.5 and %v at 1.0", motion, slow, fast)
		}
	}
}

func TestElapsedMatchesEulerOnCadence(t *testing.T) {
	steps := []game.Step{game.Tap(0, 0), game.Tap(1, 20), game.Tap(2, 60), game.Tap(3, 200)}

	eo := smallField(Reverse, 1)
	lo := smallField(Reverse, 1)
	lo.Motion = Elapsed
	euler := begin(t, steps, eo)
	elapsed := begin(t, steps, lo)

	for k := 0; k < 40; k++ {
		a, b := euler.Advance(at(k)), elapsed.Advance(at(k))
		if len(a) != len(b) {
			t.Fatalf("frame %d: %d sprites with euler, %d with elapsed", k, len(a), len(b))
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("frame %d: %+v != %+v", k, a[i], b[i])
			}
		}
	}
}

func TestLeadIn(t *testing.T) {
	opts := smallField(Forward, 1)
	opts.LeadIn = time.Second
	s := begin(t, []game.Step{game.Tap(0, 0)}, opts)

	if s.Dropped() != 0 {
		t.Fatalf("lead in must not drop units, dropped %d", s.Dropped())
	}
	if sprites := s.Advance(t0.Add(500 * time.Millisecond)); len(sprites) != 0 {
		t.Fatalf("unit live during lead in: %+v", sprites)
	}
	if sprites := s.Advance(t0.Add(time.Second)); len(sprites) != 1 {
		t.Fatalf("expected the unit live after lead in, got %+v", sprites)
	}
}

func TestCancel(t *testing.T) {
	s := begin(t, []game.Step{game.Tap(0, 0), game.Tap(1, 1000)}, smallField(Forward, 1))
	s.Advance(at(0))
	s.Cancel()

	if sprites := s.Advance(at(1)); nil != sprites {
		t.Fatalf("cancelled session still produced %+v", sprites)
	}
	if s.Created() != 0 || s.Live() != 0 || s.Pending() != 0 || nil != s.Chart() {
		t.Fatal("cancel must discard the session state")
	}
	if s.Done() || !s.Cancelled() {
		t.Fatal("a cancelled session is not done")
	}
	for _, i := range []int{-1, 0, 1} {
		if _, _, ok := s.Unit(i); ok {
			t.Errorf("unit %d still readable after cancel", i)
		}
	}
	s.Cancel()
}

func TestBeginRejects(t *testing.T) {
	chart := game.NewChart("", "", game.Cardinal, []game.Step{game.Tap(0, 0)})

	tests := map[string]Options{
		"zero speed":     {Speed: 0, BaseSpeed: 5},
		"negative base":  {Speed: 1, BaseSpeed: -1},
		"unknown mode":   {Speed: 1, BaseSpeed: 5, Mode: Mode(7)},
		"unknown motion": {Speed: 1, BaseSpeed: 5, Motion: Motion(3)},
		"margin":         {Speed: 1, BaseSpeed: 5, Geometry: Geometry{Height: 10, Margin: 10}},
	}
	for name, opts := range tests {
		_, err := Begin(chart, opts, t0)
		var ce *game.ConfigurationError
		if !errors.As(err, &ce) {
			t.Errorf("%v: expected ConfigurationError, got %v", name, err)
		}
	}

	bad := game.NewChart("", "", game.Cardinal, []game.Step{game.Tap(6, 0)})
	_, err := Begin(bad, Options{Speed: 1, BaseSpeed: 5}, t0)
	var ce *game.ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigurationError for an unknown lane, got %v", err)
	}

	endless := game.NewChart("", "", game.Cardinal, []game.Step{game.Held(2, 0, math.MaxInt64)})
	if _, err := Begin(endless, Options{Speed: 1, BaseSpeed: 5}, t0); !errors.As(err, &ce) {
		t.Fatalf("expected ConfigurationError for an endless hold, got %v", err)
	}

	if _, err := Begin(nil, Options{Speed: 1, BaseSpeed: 5}, t0); nil == err {
		t.Fatal("expected an error for a missing chart")
	}
}

func TestParseMode(t *testing.T) {
	tests := map[string]Mode{"standard": Forward, "forward": Forward, "Reverse": Reverse}
	for in, expected := range tests {
		m, err := ParseMode(in)
		if nil != err || m != expected {
			t.Errorf("%v: got %v, %v", in, m, err)
		}
	}
	if _, err := ParseMode("sideways"); nil == err {
		t.Fatal("expected an error for an unknown mode")
	}
}
