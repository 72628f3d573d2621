package parser

import (
	"io"

	"git.lost.host/meutraa/arrows/internal/game"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// YAMLParser accepts the same two shapes as JSONParser.
type YAMLParser struct {
	Lanes game.LaneSet
}

func (p *YAMLParser) Parse(r io.Reader) (*game.Chart, error) {
	data, err := io.ReadAll(r)
	if nil != err {
		return nil, err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); nil != err {
		return nil, errors.Wrap(err, "malformed yaml")
	}
	if node.Kind != yaml.DocumentNode || len(node.Content) == 0 {
		return nil, errors.New("empty chart")
	}

	var doc document
	switch root := node.Content[0]; root.Kind {
	case yaml.SequenceNode:
		err = root.Decode(&doc.Steps)
	case yaml.MappingNode:
		err = root.Decode(&doc)
	default:
		return nil, errors.New("chart must be a list of steps or a mapping with steps")
	}
	if nil != err {
		return nil, errors.Wrap(err, "malformed yaml")
	}

	return build(doc.Title, p.Lanes, doc.Steps)
}
