package game

// Unit is what the scheduler moves: one per tap, one per sampled hold segment.
type Unit struct {
	Lane           Lane
	ActivationTime int64   // ms, chart relative
	OriginY        float64 // spawn coordinate on the moving axis
	Hold           bool
	Group          int // shared by every segment of one hold
	HoldUntil      int64
	Foot           string
}
