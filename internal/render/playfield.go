package render

import (
	"fmt"
	"math"

	"git.lost.host/meutraa/arrows/internal/game"
	"git.lost.host/meutraa/arrows/internal/theme"
	"git.lost.host/meutraa/arrows/internal/timeline"
)

// Band is the extent of a hold on screen, from its earliest to its latest live segment.
type Band struct {
	Lane     game.Lane
	Group    int
	From, To float64
}

// Bands groups the hold segments of a frame by hold.
func Bands(sprites []timeline.Sprite) []Band {
	bands := []Band{}
	index := map[int]int{}
	for _, s := range sprites {
		if !s.Hold {
			continue
		}
		i, ok := index[s.Group]
		if !ok {
			index[s.Group] = len(bands)
			bands = append(bands, Band{Lane: s.Lane, Group: s.Group, From: s.Position, To: s.Position})
			continue
		}
		b := &bands[i]
		b.From = math.Min(b.From, s.Position)
		b.To = math.Max(b.To, s.Position)
	}
	return bands
}

type cell struct {
	row, column int
}

// Playfield draws one session onto a Renderer. It keeps only what it drew last
// frame so it can blank it.
type Playfield struct {
	Renderer Renderer
	Theme    theme.Theme
	Lanes    game.LaneSet
	Geometry timeline.Geometry
	Mode     timeline.Mode

	columns, rows int
	lanes         []int
	side          int
	drawn         map[cell]bool
}

func NewPlayfield(r Renderer, th theme.Theme, lanes game.LaneSet, g timeline.Geometry, mode timeline.Mode,
	columns, rows, spacing int) *Playfield {
	p := &Playfield{
		Renderer: r,
		Theme:    th,
		Lanes:    lanes,
		Geometry: g,
		Mode:     mode,
		drawn:    map[cell]bool{},
	}
	p.Resize(columns, rows, spacing)
	return p
}

func (p *Playfield) Resize(columns, rows, spacing int) {
	if rows < 2 {
		rows = 2
	}
	p.columns, p.rows = columns, rows

	n := len(p.Lanes)
	mc := columns >> 1
	p.lanes = make([]int, n)
	for i := range p.lanes {
		p.lanes[i] = mc + spacing*(2*i-(n-1))
	}

	p.side = 2
	if n > 0 {
		if p.side = p.lanes[0] - 36; p.side < 2 {
			p.side = 2
		}
	}
	p.drawn = map[cell]bool{}
}

// Row maps a position in playfield units onto a terminal row, 1 based.
func (p *Playfield) Row(pos float64) int {
	row := 1 + int(math.Round(pos/p.Geometry.Height*float64(p.rows-1)))
	if row < 1 {
		return 1
	}
	if row > p.rows {
		return p.rows
	}
	return row
}

func (p *Playfield) Column(l game.Lane) int {
	if int(l) >= len(p.lanes) {
		return 1
	}
	return p.lanes[l]
}

// SideColumn is where the status text goes.
func (p *Playfield) SideColumn() int {
	return p.side
}

// Draw renders the targets, the sprites and the hold bands of one frame, and
// blanks every cell drawn last frame that is empty now.
func (p *Playfield) Draw(sprites []timeline.Sprite, status []string) {
	frame := map[cell]string{}

	target := p.Row(p.Geometry.Target(p.Mode))
	for i, name := range p.Lanes {
		frame[cell{target, p.lanes[i]}] = p.Theme.RenderTarget(name)
	}

	for _, b := range Bands(sprites) {
		name := p.Lanes.Name(b.Lane)
		for row := p.Row(b.From); row <= p.Row(b.To); row++ {
			frame[cell{row, p.Column(b.Lane)}] = p.Theme.RenderBand(name)
		}
	}

	for _, s := range sprites {
		name := p.Lanes.Name(s.Lane)
		c := cell{p.Row(s.Position), p.Column(s.Lane)}
		if s.Hold {
			frame[c] = p.Theme.RenderHold(name)
		} else {
			frame[c] = p.Theme.RenderStep(name)
		}
		if s.Foot != "" {
			frame[cell{c.row, c.column + 1}] = p.Theme.RenderFoot(s.Foot)
		}
	}

	for c := range p.drawn {
		if _, ok := frame[c]; !ok {
			p.Renderer.Fill(c.row, c.column, " ")
		}
	}
	p.drawn = make(map[cell]bool, len(frame))
	for c, content := range frame {
		p.Renderer.Fill(c.row, c.column, content)
		p.drawn[c] = true
	}

	for i, line := range status {
		p.Renderer.Fill(2+i, p.side, fmt.Sprintf("%-30s", line))
	}
}
