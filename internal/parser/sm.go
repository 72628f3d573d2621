package parser

import (
	"io"
	"math"
	"strconv"
	"strings"

	"git.lost.host/meutraa/arrows/internal/game"
	"github.com/pkg/errors"
)

// SMParser reads StepMania .sm simfiles.
type SMParser struct {
	// Difficulty names the chart to play, e.g. "Hard". Empty picks the first playable one.
	Difficulty string
}

type bpm struct {
	StartingBeat float64
	Value        float64
}

type difficulty struct {
	Name    string
	Meter   string
	Section string
	Lanes   game.LaneSet
}

func (p *SMParser) getSecondsPerNote(rates []bpm, currentBeat float64, bpn float64) float64 {
	sel := rates[0].Value
	for _, rate := range rates {
		if currentBeat >= rate.StartingBeat {
			sel = rate.Value
		} else {
			break
		}
	}
	return bpn * 60.0 / sel
}

// 0 – No note
// 1 – Normal note
// 2 – Hold head
// 3 – Hold/Roll tail
// 4 – Roll head
// M – Mine (or other negative note)
// K – Automatic keysound
// L – Lift note
// F – Fake note

func (p *SMParser) isHead(ch byte) bool {
	return ch == '1' || ch == '2' || ch == '4'
}

func (p *SMParser) isHoldHead(ch byte) bool {
	return ch == '2' || ch == '4'
}

func (p *SMParser) Parse(r io.Reader) (*game.Chart, error) {
	data, err := io.ReadAll(r)
	if nil != err {
		return nil, err
	}

	str := strings.ReplaceAll(string(data), "\r", "")
	sections := strings.Split(str, "#NOTES:")
	meta := sections[0]

	title, offset, bpms, err := p.parseMeta(meta)
	if nil != err {
		return nil, err
	}

	var selected *difficulty
	for _, section := range sections[1:] {
		lines := strings.SplitN(section, "\n", 7)
		if len(lines) < 7 {
			return nil, errors.New("truncated #NOTES section")
		}
		chartType := strings.TrimSuffix(strings.TrimSpace(lines[1]), ":")
		lanes, ok := game.NKeyMap[chartType]
		if !ok {
			continue
		}
		d := &difficulty{
			Name:    strings.TrimSuffix(strings.TrimSpace(lines[3]), ":"),
			Meter:   strings.TrimSuffix(strings.TrimSpace(lines[4]), ":"),
			Section: lines[6],
			Lanes:   lanes,
		}
		if p.Difficulty == "" || strings.EqualFold(p.Difficulty, d.Name) {
			selected = d
			break
		}
	}
	if nil == selected {
		if p.Difficulty != "" {
			return nil, errors.Errorf("no playable %v chart", p.Difficulty)
		}
		return nil, errors.New("no playable chart")
	}
	if len(bpms) == 0 {
		return nil, errors.New("missing #BPMS")
	}

	steps, err := p.parseNotes(selected, offset, bpms)
	if nil != err {
		return nil, err
	}
	if title != "" {
		title += " "
	}
	title += "[" + selected.Name + " " + selected.Meter + "]"

	return game.NewChart(title, "", selected.Lanes, steps), nil
}

func (p *SMParser) parseMeta(meta string) (string, float64, []bpm, error) {
	title := ""
	offset := 0.0
	bpms := []bpm{}

	for _, mdl := range strings.Split(meta, "\n#") {
		mdl = strings.TrimPrefix(strings.TrimSpace(mdl), "#")
		switch {
		case strings.HasPrefix(mdl, "TITLE:"):
			title = strings.TrimSuffix(strings.TrimPrefix(mdl, "TITLE:"), ";")
		case strings.HasPrefix(mdl, "OFFSET:"):
			mdl = strings.TrimSuffix(strings.TrimPrefix(mdl, "OFFSET:"), ";")
			offs, err := strconv.ParseFloat(strings.TrimSpace(mdl), 64)
			if nil != err {
				return "", 0, nil, errors.Wrap(err, "malformed #OFFSET")
			}
			offset = -offs
		case strings.HasPrefix(mdl, "BPMS:"):
			mdl = strings.TrimPrefix(mdl, "BPMS:")
			mdl = strings.ReplaceAll(mdl, "\n", "")
			for _, b := range strings.Split(strings.TrimSuffix(mdl, ";"), ",") {
				as := strings.Split(b, "=")
				if len(as) != 2 {
					return "", 0, nil, errors.Errorf("malformed #BPMS entry %q", b)
				}
				sb, err := strconv.ParseFloat(strings.TrimSpace(as[0]), 64)
				if nil != err {
					return "", 0, nil, errors.Wrap(err, "malformed #BPMS beat")
				}
				value, err := strconv.ParseFloat(strings.TrimSpace(as[1]), 64)
				if nil != err {
					return "", 0, nil, errors.Wrap(err, "malformed #BPMS value")
				}
				if value <= 0 {
					return "", 0, nil, errors.Errorf("non positive bpm %v", value)
				}
				bpms = append(bpms, bpm{StartingBeat: sb, Value: value})
			}
		}
	}
	return strings.TrimSpace(title), offset, bpms, nil
}

func (p *SMParser) parseNotes(d *difficulty, offset float64, bpms []bpm) ([]game.Step, error) {
	// Start time of first note
	seconds := offset
	currentBeat := 0.0
	steps := []game.Step{}
	ms := func() int64 {
		v := math.Round(seconds * 1000)
		if math.IsNaN(v) || math.Abs(v) > float64(game.MaxTime) {
			// caught by checkRange
			return game.MaxTime + 1
		}
		return int64(v)
	}

	section := d.Section
	if end := strings.Index(section, ";"); end >= 0 {
		section = section[:end]
	}

	for _, block := range strings.Split(section, "\n,") {
		lines := []string{}
		for _, l := range strings.Split(block, "\n") {
			if i := strings.Index(l, "//"); i >= 0 {
				l = l[:i]
			}
			l = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(l), ","))
			if l == "" {
				continue
			}
			if len(l) != len(d.Lanes) {
				return nil, errors.Errorf("note row %q does not have %d columns", l, len(d.Lanes))
			}
			lines = append(lines, l)
		}
		if len(lines) == 0 {
			continue
		}

		// Beat count is 4 per block
		beatsPerNote := 4.0 / float64(len(lines)) // 1/4, 1/8, 1/16, 1/24 etc

		for _, line := range lines {
			secondsPerNote := p.getSecondsPerNote(bpms, currentBeat, beatsPerNote)

			for i := 0; i < len(line); i++ {
				c := line[i]
				if p.isHead(c) {
					step := game.Step{Lane: game.Lane(i), AppearAt: ms()}
					if p.isHoldHead(c) {
						step.Hold = true
						step.HoldUntil = step.AppearAt
					}
					steps = append(steps, step)
				} else if c == '3' {
					// This is a release note of a previous head
					// Find the last head in this column and end it here
					for j := len(steps) - 1; j >= 0; j-- {
						if int(steps[j].Lane) != i {
							continue
						}
						if steps[j].Hold {
							steps[j].HoldUntil = ms()
						}
						break
					}
				}
			}

			seconds += secondsPerNote
			currentBeat += beatsPerNote
		}
	}

	if err := checkRange(steps); nil != err {
		return nil, err
	}
	return steps, nil
}
