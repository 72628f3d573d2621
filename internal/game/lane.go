package game

import "strconv"

// Lane is an index into the LaneSet of the chart it belongs to.
type Lane uint8

// LaneSet is the fixed, ordered set of lanes a chart may use.
type LaneSet []string

var (
	Cardinal = LaneSet{"left", "down", "up", "right"}
	Solo     = LaneSet{"left", "upleft", "down", "up", "upright", "right"}
	Double   = LaneSet{
		"p1-left", "p1-down", "p1-up", "p1-right",
		"p2-left", "p2-down", "p2-up", "p2-right",
	}
)

// NKeyMap maps StepMania chart types to the lane set they are played on
var NKeyMap = map[string]LaneSet{
	"dance-single": Cardinal,
	"dance-solo":   Solo,
	"dance-double": Double,
}

func (s LaneSet) Lookup(name string) (Lane, error) {
	for i, n := range s {
		if n == name {
			return Lane(i), nil
		}
	}
	return 0, &ConfigurationError{Field: "direction", Value: name, Reason: "not in lane set"}
}

func (s LaneSet) Contains(l Lane) bool {
	return int(l) < len(s)
}

func (s LaneSet) Name(l Lane) string {
	if !s.Contains(l) {
		return "lane" + strconv.Itoa(int(l))
	}
	return s[l]
}
