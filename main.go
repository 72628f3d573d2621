package main

import (
	"fmt"
	"io"
	stdlog "log"
	"os"

	"git.lost.host/meutraa/arrows/internal/assist"
	"git.lost.host/meutraa/arrows/internal/config"
	"git.lost.host/meutraa/arrows/internal/log"
	"git.lost.host/meutraa/arrows/internal/parser"
	"git.lost.host/meutraa/arrows/internal/render"
	"git.lost.host/meutraa/arrows/internal/settings"
	"git.lost.host/meutraa/arrows/internal/theme"
	"github.com/eiannone/keyboard"
)

func main() {
	if err := run(os.Args[1:]); nil != err {
		stdlog.Fatalln(err)
	}
}

func run(args []string) error {
	cfg, err := config.Parse(args)
	if nil != err {
		return err
	}

	var out io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if nil != err {
			return fmt.Errorf("unable to open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := log.New(out, cfg.LogLevel)

	charts, err := parser.Find(cfg.Chart)
	if nil != err {
		return err
	}
	if len(charts) == 0 {
		return fmt.Errorf("unable to find a chart in %v", cfg.Chart)
	}
	logger.Infof("found %v charts in %v", len(charts), cfg.Chart)

	clapper := &assist.Clapper{}
	if cfg.Assist {
		if clapper, err = assist.New(); nil != err {
			logger.Errorf("assist cue disabled: %v", err)
		}
	}

	keyChannel, err := keyboard.GetKeys(128)
	if nil != err {
		return fmt.Errorf("unable to open keyboard: %w", err)
	}
	defer func() {
		if err := keyboard.Close(); nil != err {
			logger.Errorf("unable to close keyboard: %v", err)
		}
	}()

	// Ensure our Default implementations are used as interfaces
	var r render.Renderer = render.NewDefaultRenderer()
	var th theme.Theme = &theme.DefaultTheme{}

	if err := r.Init(); nil != err {
		return err
	}
	defer func() {
		if err := r.Deinit(); nil != err {
			logger.Errorf("unable to restore terminal: %v", err)
		}
	}()

	p := &Program{
		Config:   cfg,
		Renderer: r,
		Theme:    th,
		Log:      logger,
		Keys:     keyChannel,
		Clapper:  clapper,
		Settings: settings.NewController(cfg, charts),
	}
	return p.Run()
}
