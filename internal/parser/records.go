package parser

import (
	"unicode/utf8"

	"git.lost.host/meutraa/arrows/internal/game"
	"github.com/pkg/errors"
)

// record is one entry of the JSON and YAML chart formats.
type record struct {
	Direction string `json:"direction" yaml:"direction"`
	Time      *int64 `json:"time" yaml:"time"`
	TimeEnd   *int64 `json:"time_end,omitempty" yaml:"time_end,omitempty"`
	Foot      string `json:"foot,omitempty" yaml:"foot,omitempty"`
}

type document struct {
	Title string   `json:"title" yaml:"title"`
	Steps []record `json:"steps" yaml:"steps"`
}

func build(title string, lanes game.LaneSet, records []record) (*game.Chart, error) {
	if len(lanes) == 0 {
		lanes = game.Cardinal
	}

	steps := make([]game.Step, 0, len(records))
	for i, r := range records {
		lane, err := lanes.Lookup(r.Direction)
		if nil != err {
			return nil, errors.Wrapf(err, "step %d", i)
		}
		if nil == r.Time {
			return nil, errors.Errorf("step %d: missing time", i)
		}
		if utf8.RuneCountInString(r.Foot) > 1 {
			return nil, errors.Errorf("step %d: foot %q is more than one character", i, r.Foot)
		}

		step := game.Step{Lane: lane, AppearAt: *r.Time, Foot: r.Foot}
		if nil != r.TimeEnd {
			if *r.TimeEnd < *r.Time {
				return nil, errors.Errorf("step %d: time_end %d before time %d", i, *r.TimeEnd, *r.Time)
			}
			step.Hold = true
			step.HoldUntil = *r.TimeEnd
		}
		steps = append(steps, step)
	}

	if err := checkRange(steps); nil != err {
		return nil, err
	}
	return game.NewChart(title, "", lanes, steps), nil
}

// checkRange rejects steps the timeline could not schedule.
func checkRange(steps []game.Step) error {
	for i, s := range steps {
		if !game.InRange(s.AppearAt) || (s.Hold && !game.InRange(s.HoldUntil)) {
			return errors.Errorf("step %d: time %d..%d outside ±%d ms", i, s.AppearAt, s.End(), game.MaxTime)
		}
	}
	return nil
}
