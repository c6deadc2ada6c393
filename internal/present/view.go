// Package present renders ride statuses for people: the in-app status
// line and the system notification. Both renderings are pure functions of
// the status; Notifications adds the side effect of posting.
package present

import (
	"ride-progress-sim/internal/progress"
	"ride-progress-sim/internal/ride"
)

// In-app palette, one color per variant.
const (
	ColorRequested      = "#fbbf24"
	ColorDriverAssigned = "#fb923c"
	ColorEnRoute        = "#3b82f6"
	ColorArrived        = progress.ColorArrived
	ColorInProgress     = progress.ColorInProgress
	ColorCompleted      = "#14b8a6"
	ColorNone           = "#71717a"
)

// View is the in-app rendering of the current status.
type View struct {
	Kind  string       `json:"kind"`
	Text  string       `json:"text"`
	Color string       `json:"color"`
	Bar   progress.Bar `json:"bar"`
}

// InApp renders s for the in-app screen. A nil status renders as "none" in
// the neutral color.
func InApp(s ride.Status) View {
	if s == nil {
		return View{Kind: "none", Text: "Ride status: none", Color: ColorNone, Bar: progress.Map(nil)}
	}
	return View{
		Kind:  s.Kind().String(),
		Text:  "Ride status: " + s.String(),
		Color: Color(s),
		Bar:   progress.Map(s),
	}
}

// Color returns the display color for s.
func Color(s ride.Status) string {
	if s == nil {
		return ColorNone
	}
	switch s.Kind() {
	case ride.KindRequested:
		return ColorRequested
	case ride.KindDriverAssigned:
		return ColorDriverAssigned
	case ride.KindEnRoute:
		return ColorEnRoute
	case ride.KindArrived:
		return ColorArrived
	case ride.KindInProgress:
		return ColorInProgress
	case ride.KindCompleted:
		return ColorCompleted
	}
	return ColorNone
}
