// Package progress maps ride statuses onto the two-segment progress bar
// shared by the in-app view and the notification.
package progress

import (
	"math"

	"ride-progress-sim/internal/ride"
)

const (
	SegmentEnRoute    = "en_route"
	SegmentInProgress = "in_progress"
	PointArrived      = "arrived"
)

// Segment is a fixed-length portion of the bar.
type Segment struct {
	Name   string `json:"name"`
	Length int    `json:"length"`
	Color  string `json:"color"`
}

// Point is a marker drawn at an absolute position on the bar.
type Point struct {
	Name     string `json:"name"`
	Position int    `json:"position"`
	Color    string `json:"color"`
}

// Bar is the mapped progress for one status. Value runs over the summed
// segment lengths.
type Bar struct {
	Value    int       `json:"value"`
	Max      int       `json:"max"`
	Segments []Segment `json:"segments"`
	Points   []Point   `json:"points"`
}

// Segment and point colors, shared with the in-app palette.
const (
	ColorEnRoute    = "#38bdf8"
	ColorInProgress = "#a78bfa"
	ColorArrived    = "#4ade80"
)

func segments() []Segment {
	return []Segment{
		{Name: SegmentEnRoute, Length: 100, Color: ColorEnRoute},
		{Name: SegmentInProgress, Length: 100, Color: ColorInProgress},
	}
}

// Map returns the bar for s. A nil status maps to an empty bar.
func Map(s ride.Status) Bar {
	segs := segments()
	enRoute, inProgress := segs[0], segs[1]
	total := enRoute.Length + inProgress.Length

	var v int
	switch st := s.(type) {
	case ride.EnRoute:
		v = legValue(st.Progress, enRoute.Length)
	case ride.Arrived:
		v = enRoute.Length
	case ride.InProgress:
		v = enRoute.Length + legValue(st.Progress, inProgress.Length)
	case ride.Completed:
		v = total
	}

	return Bar{
		Value:    clamp(v, 0, total),
		Max:      total,
		Segments: segs,
		Points:   []Point{{Name: PointArrived, Position: enRoute.Length, Color: ColorArrived}},
	}
}

func legValue(p float64, length int) int {
	return int(math.Round(ride.ClampProgress(p) * float64(length)))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Fraction is Value/Max in [0,1].
func (b Bar) Fraction() float64 {
	if b.Max <= 0 {
		return 0
	}
	return float64(b.Value) / float64(b.Max)
}

// SegmentFill reports how many units of each segment are filled, in
// segment order.
func (b Bar) SegmentFill() []int {
	fill := make([]int, len(b.Segments))
	rest := b.Value
	for i, s := range b.Segments {
		fill[i] = clamp(rest, 0, s.Length)
		rest -= fill[i]
	}
	return fill
}
