package parser

import (
	"bufio"
	"encoding/json"
	"io"

	"git.lost.host/meutraa/arrows/internal/game"
	"github.com/pkg/errors"
)

// JSONParser reads either a bare array of step records or {"title", "steps"}.
type JSONParser struct {
	Lanes game.LaneSet
}

func (p *JSONParser) Parse(r io.Reader) (*game.Chart, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if nil != err {
		return nil, errors.Wrap(err, "empty chart")
	}

	dec := json.NewDecoder(br)
	var doc document
	switch first {
	case '[':
		err = dec.Decode(&doc.Steps)
	case '{':
		err = dec.Decode(&doc)
	default:
		return nil, errors.Errorf("unexpected %q at start of chart", first)
	}
	if nil != err {
		return nil, errors.Wrap(err, "malformed json")
	}

	return build(doc.Title, p.Lanes, doc.Steps)
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if nil != err {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}
