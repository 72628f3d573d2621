package game

// MaxTime bounds chart timestamps in both directions, one day in ms.
const MaxTime int64 = 24 * 60 * 60 * 1000

// InRange reports whether ms is a usable chart timestamp.
func InRange(ms int64) bool {
	return ms >= -MaxTime && ms <= MaxTime
}

type Step struct {
	Lane      Lane
	AppearAt  int64  // ms from session start, leading edge at the target
	Hold      bool   // HoldUntil is only meaningful when set
	HoldUntil int64  // ms, >= AppearAt
	Foot      string // cosmetic, single character or empty
}

func Tap(lane Lane, at int64) Step {
	return Step{Lane: lane, AppearAt: at}
}

func Held(lane Lane, at, until int64) Step {
	return Step{Lane: lane, AppearAt: at, Hold: true, HoldUntil: until}
}

// End is the last chart time the step covers
func (s Step) End() int64 {
	if s.Hold {
		return s.HoldUntil
	}
	return s.AppearAt
}
