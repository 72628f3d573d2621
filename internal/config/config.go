package config

import (
	"fmt"
	"math"
	"time"

	"git.lost.host/meutraa/arrows/internal/game"
	"git.lost.host/meutraa/arrows/internal/log"
	"git.lost.host/meutraa/arrows/internal/timeline"
	"gopkg.in/alecthomas/kingpin.v2"
)

const (
	MinSpeed  = 0.1
	MaxSpeed  = 1.0
	SpeedStep = 0.1
)

// Config is everything the command line decides. Settings chosen on the
// setup screen start from these values.
type Config struct {
	Chart      string
	Difficulty string
	Lanes      game.LaneSet
	Mode       timeline.Mode
	Speed      float64
	BaseSpeed  float64
	Motion     timeline.Motion
	FPS        float64
	SetupFPS   float64
	Delay      time.Duration
	Spacing    uint
	Assist     bool
	LogFile    string
	LogLevel   log.Level
}

func (c *Config) FramePeriod() time.Duration {
	return time.Duration(float64(time.Second) / c.FPS)
}

func (c *Config) SetupFramePeriod() time.Duration {
	return time.Duration(float64(time.Second) / c.SetupFPS)
}

// SnapSpeed rounds v onto the 0.1 grid between MinSpeed and MaxSpeed.
func SnapSpeed(v float64) (float64, error) {
	snapped := math.Round(v*10) / 10
	if math.IsNaN(v) || snapped < MinSpeed || snapped > MaxSpeed {
		return 0, fmt.Errorf("speed multiplier %v outside %v..%v", v, MinSpeed, MaxSpeed)
	}
	return snapped, nil
}

func Parse(args []string) (*Config, error) {
	app := kingpin.New("arrows", "Plays step charts in the terminal.")
	app.Version("0.3.0")

	chart := app.Arg("chart", "Chart file or song directory").Required().ExistingFileOrDir()
	difficulty := app.Flag("difficulty", "StepMania difficulty to play, first when empty").Short('D').String()
	pad := app.Flag("pad", "Lane set for charts without one").Default("single").Enum("single", "solo", "double")
	mode := app.Flag("mode", "Scroll direction").Short('m').Default("forward").Enum("forward", "standard", "reverse")
	rate := app.Flag("rate", "Speed multiplier, 0.1 to 1.0").Short('r').Default("1.0").Float64()
	baseSpeed := app.Flag("base-speed", "Rows moved per frame at rate 1.0").Short('s').Default("5").Float64()
	motion := app.Flag("motion", "Movement model").Default("euler").Enum("euler", "elapsed")
	fps := app.Flag("fps", "Play frame rate").Default("60").Float64()
	setupFPS := app.Flag("setup-fps", "Setup screen frame rate").Default("30").Float64()
	delay := app.Flag("delay", "Start delay").Default("0s").Short('d').Duration()
	spacing := app.Flag("spacing", "Columns between lanes").Default("6").Short('S').Uint()
	assist := app.Flag("assist", "Play a tick when a step activates").Bool()
	logFile := app.Flag("log", "Write diagnostics to this file").String()
	logLevel := app.Flag("log-level", "Diagnostics level").Default("info").Enum("debug", "info", "warn", "error", "none")

	if _, err := app.Parse(args); nil != err {
		return nil, err
	}

	c := &Config{
		Chart:      *chart,
		Difficulty: *difficulty,
		Lanes:      game.NKeyMap["dance-"+*pad],
		BaseSpeed:  *baseSpeed,
		FPS:        *fps,
		SetupFPS:   *setupFPS,
		Delay:      *delay,
		Spacing:    *spacing,
		Assist:     *assist,
		LogFile:    *logFile,
		LogLevel:   log.LevelFromString(*logLevel),
	}

	var err error
	if c.Mode, err = timeline.ParseMode(*mode); nil != err {
		return nil, err
	}
	if c.Motion, err = timeline.ParseMotion(*motion); nil != err {
		return nil, err
	}
	if c.Speed, err = SnapSpeed(*rate); nil != err {
		return nil, err
	}
	if c.BaseSpeed <= 0 {
		return nil, fmt.Errorf("base speed must be positive, got %v", c.BaseSpeed)
	}
	if c.FPS <= 0 || c.SetupFPS <= 0 {
		return nil, fmt.Errorf("frame rates must be positive, got %v and %v", c.FPS, c.SetupFPS)
	}
	if c.Delay < 0 {
		return nil, fmt.Errorf("delay must not be negative, got %v", c.Delay)
	}
	return c, nil
}
