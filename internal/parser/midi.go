package parser

import (
	"fmt"
	"io"
	"time"

	"git.lost.host/meutraa/arrows/internal/game"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
	"golang.org/x/exp/slices"
)

// DefaultHoldThreshold is the shortest note that becomes a hold.
const DefaultHoldThreshold = 250 * time.Millisecond

// MIDIParser turns the notes of a standard MIDI file into steps.
// Pitches are folded onto the lanes, key % len(Lanes).
type MIDIParser struct {
	Lanes         game.LaneSet
	HoldThreshold time.Duration
}

type sounding struct {
	channel, key uint8
}

func (p *MIDIParser) Parse(r io.Reader) (chart *game.Chart, e error) {
	lanes := p.Lanes
	if len(lanes) == 0 {
		lanes = game.Cardinal
	}

	// smf can panic on corrupt input
	defer func() {
		if rec := recover(); nil != rec {
			chart, e = nil, fmt.Errorf("corrupt midi file: %v", rec)
		}
	}()

	s, err := smf.ReadFrom(r)
	if nil != err {
		return nil, errors.Wrap(err, "malformed midi")
	}

	steps := []game.Step{}
	note := func(key uint8, start, end int64) {
		step := game.Step{Lane: game.Lane(int(key) % len(lanes)), AppearAt: start}
		if p.HoldThreshold > 0 && time.Duration(end-start)*time.Millisecond >= p.HoldThreshold {
			step.Hold = true
			step.HoldUntil = end
		}
		steps = append(steps, step)
	}

	for _, track := range s.Tracks {
		var absTicks int64
		open := map[sounding]int64{}
		for _, ev := range track {
			absTicks += int64(ev.Delta)
			at := s.TimeAt(absTicks) / 1000

			var channel, key, velocity uint8
			switch {
			case ev.Message.GetNoteOn(&channel, &key, &velocity) && velocity > 0:
				n := sounding{channel, key}
				if start, ok := open[n]; ok {
					note(key, start, at)
				}
				open[n] = at
			case ev.Message.GetNoteOn(&channel, &key, &velocity),
				ev.Message.GetNoteOff(&channel, &key, &velocity):
				n := sounding{channel, key}
				if start, ok := open[n]; ok {
					note(key, start, at)
					delete(open, n)
				}
			}
		}
		// Notes that never end are taps
		unterminated := make([]sounding, 0, len(open))
		for n := range open {
			unterminated = append(unterminated, n)
		}
		slices.SortFunc(unterminated, func(a, b sounding) bool {
			if open[a] != open[b] {
				return open[a] < open[b]
			}
			if a.channel != b.channel {
				return a.channel < b.channel
			}
			return a.key < b.key
		})
		for _, n := range unterminated {
			note(n.key, open[n], open[n])
		}
	}

	if len(steps) == 0 {
		return nil, errors.New("midi file has no notes")
	}
	if err := checkRange(steps); nil != err {
		return nil, err
	}
	return game.NewChart("", "", lanes, steps), nil
}
