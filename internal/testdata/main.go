// Package testdata holds the reference chart in every format the parsers read.
package testdata

import "git.lost.host/meutraa/arrows/internal/game"

// JSON is the reference chart in the reference file format.
const JSON = `[
	{"direction": "up", "time": 0},
	{"direction": "left", "time": 500, "time_end": 550, "foot": "L"},
	{"direction": "down", "time": 750, "foot": "R"},
	{"direction": "right", "time": 1000, "time_end": 1400}
]`

// YAML is JSON as a titled document.
const YAML = `title: reference
steps:
  - direction: up
    time: 0
  - direction: left
    time: 500
    time_end: 550
    foot: L
  - direction: down
    time: 750
    foot: R
  - direction: right
    time: 1000
    time_end: 1400
`

// SM is a two measure dance-single simfile at 120 bpm: 500ms per beat.
const SM = `#TITLE:Reference;
#ARTIST:nobody;
#OFFSET:0.000;
#BPMS:0.000=120.000;
#NOTES:
     dance-single:
     :
     Easy:
     2:
     0.000,0.000,0.000,0.000,0.000:
0010
1000
0001
0000
,  // measure 2
2000
0000
3000
0000
;
#NOTES:
     dance-single:
     :
     Hard:
     8:
     0.000,0.000,0.000,0.000,0.000:
0100
0000
0000
0000
;
`

// GetChart is the chart JSON describes.
func GetChart() *game.Chart {
	return game.NewChart("", "", game.Cardinal, []game.Step{
		game.Tap(2, 0),
		{Lane: 0, AppearAt: 500, Hold: true, HoldUntil: 550, Foot: "L"},
		{Lane: 1, AppearAt: 750, Foot: "R"},
		game.Held(3, 1000, 1400),
	})
}
