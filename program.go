package main

import (
	"fmt"
	"time"

	"git.lost.host/meutraa/arrows/internal/assist"
	"git.lost.host/meutraa/arrows/internal/config"
	"git.lost.host/meutraa/arrows/internal/game"
	"git.lost.host/meutraa/arrows/internal/log"
	"git.lost.host/meutraa/arrows/internal/parser"
	"git.lost.host/meutraa/arrows/internal/render"
	"git.lost.host/meutraa/arrows/internal/settings"
	"git.lost.host/meutraa/arrows/internal/theme"
	"git.lost.host/meutraa/arrows/internal/timeline"
	"github.com/eiannone/keyboard"
)

// Tail is how long the empty playfield stays up after the last step leaves.
const Tail = time.Second

type Program struct {
	Config   *config.Config
	Renderer render.Renderer
	Theme    theme.Theme
	Log      *log.Logger
	Keys     <-chan keyboard.KeyEvent
	Clapper  *assist.Clapper
	Settings *settings.Controller
}

// Run alternates between the setup screen and play until the player quits.
func (p *Program) Run() error {
	for {
		if p.Setup() == settings.Quit {
			return nil
		}
		if err := p.Play(p.Settings.Selection()); nil != err {
			return err
		}
	}
}

// Setup shows the settings screen until enter or quit is pressed.
func (p *Program) Setup() settings.Action {
	action := settings.None
	p.Renderer.Clear()

	p.Renderer.RenderLoop(p.Config.SetupFramePeriod(), func(now time.Time) bool {
		for more := true; more; {
			select {
			case ev := <-p.Keys:
				if nil != ev.Err {
					p.Log.Errorf("keyboard: %v", ev.Err)
					continue
				}
				if action = p.Settings.Handle(ev); action != settings.None {
					return false
				}
			default:
				more = false
			}
		}

		p.Renderer.FillColor(1, 4, p.Theme.Color("up"), "arrows")
		for i, line := range p.Settings.Lines() {
			p.Renderer.Fill(3+i, 4, fmt.Sprintf("%-40s", line))
		}
		return true
	})

	p.Renderer.Clear()
	return action
}

// Play runs one session of the selected chart, reloading it from disk. A chart
// that fails to load or validate ends the program.
func (p *Program) Play(sel settings.Selection) error {
	chart, err := parser.LoadFile(sel.Chart, p.Config.Lanes, p.Config.Difficulty)
	if nil != err {
		p.Log.Errorf("%v", err)
		return err
	}

	columns, rows, err := p.Renderer.Size()
	if nil != err {
		return err
	}
	geometry := timeline.DefaultGeometry
	field := render.NewPlayfield(p.Renderer, p.Theme, chart.Lanes, geometry, sel.Mode,
		columns, rows, int(p.Config.Spacing))

	// Only the head of a hold ticks
	heads := map[int]bool{}
	session, err := timeline.Begin(chart, timeline.Options{
		Mode:        sel.Mode,
		Speed:       sel.Speed,
		BaseSpeed:   sel.BaseSpeed,
		Motion:      p.Config.Motion,
		Geometry:    geometry,
		LeadIn:      p.Config.Delay,
		FramePeriod: p.Config.FramePeriod(),
		Log:         p.Log,
		OnActivate: func(u game.Unit) {
			first := !heads[u.Group]
			heads[u.Group] = true
			p.Clapper.Clap(u.Hold, first)
		},
	}, time.Now())
	if nil != err {
		p.Log.Errorf("unable to start %v: %v", sel.Chart, err)
		return fmt.Errorf("unable to start %v: %w", sel.Chart, err)
	}

	if p.Config.Delay > 0 {
		frames := int(p.Config.Delay / p.Config.FramePeriod())
		p.Renderer.AddDecoration(rows>>1, field.SideColumn(), "get ready", frames)
	}

	var finished time.Time
	p.Renderer.RenderLoop(p.Config.FramePeriod(), func(now time.Time) bool {
		for more := true; more; {
			select {
			case ev := <-p.Keys:
				if ev.Key == keyboard.KeyEsc || ev.Key == keyboard.KeyCtrlC {
					session.Cancel()
					return false
				}
			default:
				more = false
			}
		}

		if c, r, err := p.Renderer.Size(); nil == err && (c != columns || r != rows) {
			columns, rows = c, r
			p.Renderer.Clear()
			field.Resize(columns, rows, int(p.Config.Spacing))
		}

		sprites := session.Advance(now)
		field.Draw(sprites, p.status(chart, session, now))

		if !session.Done() {
			return true
		}
		if finished.IsZero() {
			finished = now
			p.Log.With("session "+session.ID().String()).Infof("finished %v", chart.Title)
		}
		return now.Sub(finished) < Tail
	})

	p.Renderer.Clear()
	return nil
}

func (p *Program) status(chart *game.Chart, s *timeline.Session, now time.Time) []string {
	clock := s.Clock()
	elapsed := clock.Elapsed(now)
	if elapsed < 0 {
		elapsed = 0
	}
	return []string{
		chart.Title,
		fmt.Sprintf("%v steps, %v holds", chart.StepCount, chart.HoldCount),
		"",
		fmt.Sprintf("mode     %v", clock.Mode),
		fmt.Sprintf("speed    %.1f", clock.Speed),
		fmt.Sprintf("base     %.0f", clock.BaseSpeed),
		fmt.Sprintf("time     %v", elapsed.Truncate(100*time.Millisecond)),
		"",
		fmt.Sprintf("pending  %v", s.Pending()),
		fmt.Sprintf("live     %v", s.Live()),
		fmt.Sprintf("retired  %v", s.Retired()),
		fmt.Sprintf("dropped  %v", s.Dropped()),
	}
}
