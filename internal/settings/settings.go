// Package settings is the interactive setup screen shown between sessions.
package settings

import (
	"fmt"
	"math"
	"path/filepath"

	"git.lost.host/meutraa/arrows/internal/config"
	"git.lost.host/meutraa/arrows/internal/timeline"
	"github.com/eiannone/keyboard"
)

const (
	MinBaseSpeed = 1.0
	MaxBaseSpeed = 20.0
)

type Action int

const (
	None Action = iota
	Start
	Quit
)

// Selection is frozen when a session begins.
type Selection struct {
	Mode      timeline.Mode
	Speed     float64
	BaseSpeed float64
	Chart     string
}

type Controller struct {
	selection Selection
	charts    []string
	index     int
	message   string
}

func NewController(c *config.Config, charts []string) *Controller {
	ctl := &Controller{
		selection: Selection{
			Mode:      c.Mode,
			Speed:     c.Speed,
			BaseSpeed: c.BaseSpeed,
		},
		charts: charts,
	}
	if len(charts) > 0 {
		ctl.selection.Chart = charts[0]
	}
	return ctl
}

func (c *Controller) Selection() Selection {
	return c.selection
}

func (c *Controller) Handle(ev keyboard.KeyEvent) Action {
	c.message = ""
	switch ev.Key {
	case keyboard.KeyArrowUp:
		c.selection.Speed = stepSpeed(c.selection.Speed, config.SpeedStep)
		return None
	case keyboard.KeyArrowDown:
		c.selection.Speed = stepSpeed(c.selection.Speed, -config.SpeedStep)
		return None
	case keyboard.KeyTab:
		if len(c.charts) > 0 {
			c.index = (c.index + 1) % len(c.charts)
			c.selection.Chart = c.charts[c.index]
		}
		return None
	case keyboard.KeyEnter:
		if c.selection.Chart == "" {
			c.message = "no chart to play"
			return None
		}
		return Start
	case keyboard.KeyEsc, keyboard.KeyCtrlC:
		return Quit
	}

	switch ev.Rune {
	case '+', '=':
		c.selection.BaseSpeed = math.Min(MaxBaseSpeed, c.selection.BaseSpeed+1)
	case '-', '_':
		c.selection.BaseSpeed = math.Max(MinBaseSpeed, c.selection.BaseSpeed-1)
	case 'r', 'R':
		c.selection.Mode = timeline.Reverse
	case 's', 'S':
		c.selection.Mode = timeline.Forward
	case 'q', 'Q':
		return Quit
	}
	return None
}

// stepSpeed keeps the multiplier on the 0.1 grid and inside its bounds.
func stepSpeed(v, delta float64) float64 {
	v = math.Round((v+delta)*10) / 10
	return math.Max(config.MinSpeed, math.Min(config.MaxSpeed, v))
}

func (c *Controller) Lines() []string {
	chart := "none"
	if c.selection.Chart != "" {
		chart = filepath.Base(c.selection.Chart)
	}
	return []string{
		fmt.Sprintf("chart  %v (%v/%v)", chart, c.index+1, len(c.charts)),
		fmt.Sprintf("mode   %v", c.selection.Mode),
		fmt.Sprintf("speed  %.1f", c.selection.Speed),
		fmt.Sprintf("base   %.0f", c.selection.BaseSpeed),
		"",
		"up/down speed  +/- base  r/s mode",
		"tab chart  enter play  esc quit",
		"",
		c.message,
	}
}
