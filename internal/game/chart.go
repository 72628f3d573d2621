package game

import (
	"strconv"

	"golang.org/x/exp/slices"
)

type Chart struct {
	Title  string
	Source string
	Lanes  LaneSet
	Steps  []Step

	StepCount int64
	HoldCount int64
}

// NewChart orders steps by AppearAt, keeping the file order of equal times.
func NewChart(title, source string, lanes LaneSet, steps []Step) *Chart {
	ordered := make([]Step, len(steps))
	copy(ordered, steps)
	slices.SortStableFunc(ordered, func(a, b Step) bool {
		return a.AppearAt < b.AppearAt
	})

	c := &Chart{
		Title:  title,
		Source: source,
		Lanes:  lanes,
		Steps:  ordered,
	}
	for _, s := range ordered {
		c.StepCount++
		if s.Hold {
			c.HoldCount++
		}
	}
	return c
}

// Validate checks every step against the lane set, the time range and the
// hold invariant.
func (c *Chart) Validate() error {
	if len(c.Lanes) == 0 {
		return &ConfigurationError{Field: "lanes", Reason: "empty lane set"}
	}
	for i, s := range c.Steps {
		if !c.Lanes.Contains(s.Lane) {
			return &ConfigurationError{
				Field:  "steps[" + strconv.Itoa(i) + "].lane",
				Value:  strconv.Itoa(int(s.Lane)),
				Reason: "not in lane set",
			}
		}
		if !InRange(s.AppearAt) {
			return &ConfigurationError{
				Field:  "steps[" + strconv.Itoa(i) + "].appear_at",
				Value:  strconv.FormatInt(s.AppearAt, 10),
				Reason: "out of range",
			}
		}
		if s.Hold && !InRange(s.HoldUntil) {
			return &ConfigurationError{
				Field:  "steps[" + strconv.Itoa(i) + "].hold_until",
				Value:  strconv.FormatInt(s.HoldUntil, 10),
				Reason: "out of range",
			}
		}
		if s.Hold && s.HoldUntil < s.AppearAt {
			return &ConfigurationError{
				Field:  "steps[" + strconv.Itoa(i) + "].hold_until",
				Value:  strconv.FormatInt(s.HoldUntil, 10),
				Reason: "before appear_at " + strconv.FormatInt(s.AppearAt, 10),
			}
		}
	}
	return nil
}

// Length is the latest chart time covered by any step
func (c *Chart) Length() int64 {
	var end int64
	for _, s := range c.Steps {
		if e := s.End(); e > end {
			end = e
		}
	}
	return end
}
