package parser

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.lost.host/meutraa/arrows/internal/game"
	"github.com/pkg/errors"
)

type Parser interface {
	Parse(r io.Reader) (*game.Chart, error)
}

// Extensions lists every chart format Load understands
var Extensions = []string{".json", ".yaml", ".yml", ".sm", ".mid", ".midi"}

// ForFile picks a parser by file extension. Lanes is used by formats that do not
// carry their own lane set; difficulty selects a .sm chart, empty meaning the first.
func ForFile(file string, lanes game.LaneSet, difficulty string) (Parser, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".json":
		return &JSONParser{Lanes: lanes}, nil
	case ".yaml", ".yml":
		return &YAMLParser{Lanes: lanes}, nil
	case ".sm":
		return &SMParser{Difficulty: difficulty}, nil
	case ".mid", ".midi":
		return &MIDIParser{Lanes: lanes, HoldThreshold: DefaultHoldThreshold}, nil
	}
	return nil, &game.LoadError{Source: file, Err: errors.New("unsupported chart format")}
}

// Load reads file with p. Anything but a lane configuration problem is a LoadError.
func Load(file string, p Parser) (*game.Chart, error) {
	f, err := os.Open(file)
	if nil != err {
		return nil, &game.LoadError{Source: file, Err: err}
	}
	defer f.Close()

	chart, err := p.Parse(f)
	if nil != err {
		var ce *game.ConfigurationError
		if errors.As(err, &ce) {
			return nil, ce
		}
		return nil, &game.LoadError{Source: file, Err: err}
	}

	chart.Source = file
	if chart.Title == "" {
		chart.Title = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}
	return chart, nil
}

// LoadFile is ForFile followed by Load.
func LoadFile(file string, lanes game.LaneSet, difficulty string) (*game.Chart, error) {
	p, err := ForFile(file, lanes, difficulty)
	if nil != err {
		return nil, err
	}
	return Load(file, p)
}

func supported(file string) bool {
	ext := strings.ToLower(filepath.Ext(file))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Find walks a song directory and returns every loadable chart in it, sorted.
// A path to a single chart returns just that chart.
func Find(root string) ([]string, error) {
	info, err := os.Stat(root)
	if nil != err {
		return nil, errors.Wrap(err, "unable to read chart location")
	}
	if !info.IsDir() {
		if !supported(root) {
			return nil, errors.Errorf("%v is not a supported chart format", root)
		}
		return []string{root}, nil
	}

	charts := []string{}
	if err := filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if nil != err {
			return err
		}
		if !info.IsDir() && supported(info.Name()) {
			charts = append(charts, p)
		}
		return nil
	}); nil != err {
		return nil, errors.Wrap(err, "unable to walk song directory")
	}
	if len(charts) == 0 {
		return nil, errors.Errorf("no charts found in %v", root)
	}

	sort.Strings(charts)
	return charts, nil
}
