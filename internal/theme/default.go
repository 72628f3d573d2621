package theme

import (
	"fmt"
	"image/color"
	"strings"
)

type DefaultTheme struct {
}

func (t *DefaultTheme) Color(lane string) color.RGBA {
	col, ok := laneColors[direction(lane)]
	if !ok {
		return laneColors[""]
	}
	return col
}

func (t *DefaultTheme) RenderStep(lane string) string {
	return t.paint(lane, symbol(lane))
}

func (t *DefaultTheme) RenderHold(lane string) string {
	return t.paint(lane, holdSym)
}

func (t *DefaultTheme) RenderBand(lane string) string {
	return t.paint(lane, bandSym)
}

func (t *DefaultTheme) RenderTarget(lane string) string {
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", ghost.R, ghost.G, ghost.B, symbol(lane))
}

func (t *DefaultTheme) RenderFoot(foot string) string {
	if foot == "" {
		return ""
	}
	return "\033[2m" + foot + "\033[0m"
}

func (t *DefaultTheme) paint(lane, sym string) string {
	c := t.Color(lane)
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, sym)
}

const (
	holdSym = "█"
	bandSym = "┃"
)

var (
	syms = map[string]string{
		"left":    "←",
		"down":    "↓",
		"up":      "↑",
		"right":   "→",
		"upleft":  "↖",
		"upright": "↗",
	}
	ghost      = color.RGBA{106, 106, 106, 255}
	laneColors = map[string]color.RGBA{
		"left":    {236, 30, 0, 255},    // red
		"down":    {0, 118, 236, 255},   // blue
		"up":      {0, 236, 128, 255},   // green
		"right":   {236, 195, 0, 255},   // yellow
		"upleft":  {106, 0, 236, 255},   // purple
		"upright": {236, 0, 106, 255},   // pink
		"":        {255, 255, 255, 255}, // other white
	}
)

// direction strips the player prefix of doubles lanes
func direction(lane string) string {
	if i := strings.IndexByte(lane, '-'); i >= 0 {
		return lane[i+1:]
	}
	return lane
}

func symbol(lane string) string {
	sym, ok := syms[direction(lane)]
	if !ok {
		return "⬤"
	}
	return sym
}
