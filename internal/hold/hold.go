// Package hold turns chart steps into the units the timeline moves.
package hold

import (
	"strconv"
	"time"

	"git.lost.host/meutraa/arrows/internal/game"
	"golang.org/x/exp/slices"
)

// Interval samples a hold at roughly 60 Hz.
const Interval = 17 * time.Millisecond

// Expand emits one unit per tick from AppearAt through HoldUntil inclusive.
// The last tick is not clamped, so it may land up to interval-1 ms short of HoldUntil.
// A step without a hold yields exactly one unit, a hold Count rejects yields none.
func Expand(step game.Step, group int, interval time.Duration) []game.Unit {
	if !step.Hold {
		return []game.Unit{{
			Lane:           step.Lane,
			ActivationTime: step.AppearAt,
			Group:          group,
			Foot:           step.Foot,
		}}
	}

	delta := interval.Milliseconds()
	if delta < 1 {
		delta = 1
	}
	n, ok := Count(step, interval)
	if !ok {
		return nil
	}
	units := make([]game.Unit, 0, n)
	for i := int64(0); i < n; i++ {
		units = append(units, game.Unit{
			Lane:           step.Lane,
			ActivationTime: step.AppearAt + i*delta,
			Hold:           true,
			Group:          group,
			HoldUntil:      step.HoldUntil,
			Foot:           step.Foot,
		})
	}
	return units
}

// MaxUnits caps the units one chart may expand into.
const MaxUnits = 1 << 20

// Count is the number of units Expand emits for step. It is false when the
// times are outside game.MaxTime or the hold runs backwards.
func Count(step game.Step, interval time.Duration) (int64, bool) {
	if !game.InRange(step.AppearAt) {
		return 0, false
	}
	if !step.Hold {
		return 1, true
	}
	if !game.InRange(step.HoldUntil) || step.HoldUntil < step.AppearAt {
		return 0, false
	}
	delta := interval.Milliseconds()
	if delta < 1 {
		delta = 1
	}
	return (step.HoldUntil-step.AppearAt)/delta + 1, true
}

// ExpandChart expands every step of the chart, giving each step its own group,
// and returns the units ordered by activation time.
func ExpandChart(chart *game.Chart, interval time.Duration) ([]game.Unit, error) {
	if interval < time.Millisecond {
		return nil, &game.ConfigurationError{
			Field:  "hold interval",
			Value:  interval.String(),
			Reason: "must be at least 1ms",
		}
	}

	var total int64
	for i, step := range chart.Steps {
		if step.Hold && step.HoldUntil < step.AppearAt {
			return nil, &game.ConfigurationError{
				Field:  "steps[" + strconv.Itoa(i) + "].hold_until",
				Value:  strconv.FormatInt(step.HoldUntil, 10),
				Reason: "before appear_at",
			}
		}
		n, ok := Count(step, interval)
		if !ok {
			return nil, &game.ConfigurationError{
				Field:  "steps[" + strconv.Itoa(i) + "]",
				Value:  strconv.FormatInt(step.AppearAt, 10) + ".." + strconv.FormatInt(step.End(), 10),
				Reason: "time out of range",
			}
		}
		if total += n; total > MaxUnits {
			return nil, &game.ConfigurationError{
				Field:  "steps[" + strconv.Itoa(i) + "]",
				Value:  strconv.FormatInt(total, 10),
				Reason: "chart expands past " + strconv.Itoa(MaxUnits) + " units",
			}
		}
	}

	units := make([]game.Unit, 0, total)
	for i, step := range chart.Steps {
		units = append(units, Expand(step, i, interval)...)
	}

	// Segments of a long hold interleave with later steps
	slices.SortStableFunc(units, func(a, b game.Unit) bool {
		return a.ActivationTime < b.ActivationTime
	})
	return units, nil
}
