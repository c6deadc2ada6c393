package ride

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Kind identifies a Status variant.
type Kind int

const (
	KindRequested Kind = iota
	KindDriverAssigned
	KindEnRoute
	KindArrived
	KindInProgress
	KindCompleted
)

// Kinds lists every variant in lifecycle order.
var Kinds = []Kind{KindRequested, KindDriverAssigned, KindEnRoute, KindArrived, KindInProgress, KindCompleted}

func (k Kind) Valid() bool {
	return k >= KindRequested && k <= KindCompleted
}

func (k Kind) String() string {
	switch k {
	case KindRequested:
		return "requested"
	case KindDriverAssigned:
		return "driver_assigned"
	case KindEnRoute:
		return "en_route"
	case KindArrived:
		return "arrived"
	case KindInProgress:
		return "in_progress"
	case KindCompleted:
		return "completed"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// Status is one instant of a ride's lifecycle. The set of implementations
// is closed; a nil Status means no ride status has been set yet.
type Status interface {
	Kind() Kind
	String() string
	status()
}

type Requested struct{}

type DriverAssigned struct {
	DriverName string
	Vehicle    string
}

// EnRoute is the driver approaching the pickup location.
type EnRoute struct {
	Progress   float64 // 0..1
	ETA        time.Duration
	Distance   string
	DriverName string
}

type Arrived struct{}

// InProgress is the passenger riding towards the destination.
type InProgress struct {
	Progress   float64 // 0..1
	ETA        time.Duration
	Distance   string
	DriverName string
}

type Completed struct{}

// NewEnRoute returns an EnRoute status with progress clamped to [0,1].
func NewEnRoute(progress float64, eta time.Duration, distance, driverName string) EnRoute {
	return EnRoute{Progress: ClampProgress(progress), ETA: eta, Distance: distance, DriverName: driverName}
}

// NewInProgress returns an InProgress status with progress clamped to [0,1].
func NewInProgress(progress float64, eta time.Duration, distance, driverName string) InProgress {
	return InProgress{Progress: ClampProgress(progress), ETA: eta, Distance: distance, DriverName: driverName}
}

// ClampProgress bounds p to [0,1]; NaN maps to 0.
func ClampProgress(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func (Requested) Kind() Kind      { return KindRequested }
func (DriverAssigned) Kind() Kind { return KindDriverAssigned }
func (EnRoute) Kind() Kind        { return KindEnRoute }
func (Arrived) Kind() Kind        { return KindArrived }
func (InProgress) Kind() Kind     { return KindInProgress }
func (Completed) Kind() Kind      { return KindCompleted }

func (Requested) status()      {}
func (DriverAssigned) status() {}
func (EnRoute) status()        {}
func (Arrived) status()        {}
func (InProgress) status()     {}
func (Completed) status()      {}

func (Requested) String() string { return KindRequested.String() }
func (s DriverAssigned) String() string {
	return fmt.Sprintf("%s(driver=%s, vehicle=%s)", KindDriverAssigned, s.DriverName, s.Vehicle)
}
func (s EnRoute) String() string {
	return fmt.Sprintf("%s(progress=%.2f, eta=%s, distance=%s, driver=%s)", KindEnRoute, s.Progress, FormatETA(s.ETA), s.Distance, s.DriverName)
}
func (Arrived) String() string { return KindArrived.String() }
func (s InProgress) String() string {
	return fmt.Sprintf("%s(progress=%.2f, eta=%s, distance=%s, driver=%s)", KindInProgress, s.Progress, FormatETA(s.ETA), s.Distance, s.DriverName)
}
func (Completed) String() string { return KindCompleted.String() }

// FormatETA renders d as space separated units from the largest non-zero
// unit down to the smallest non-zero one, e.g. "15m", "14m 54s", "1h 0m 30s".
func FormatETA(d time.Duration) string {
	secs := int64(math.Round(d.Seconds()))
	if secs <= 0 {
		return "0s"
	}
	parts := []struct {
		n    int64
		unit string
	}{
		{secs / 86400, "d"},
		{secs % 86400 / 3600, "h"},
		{secs % 3600 / 60, "m"},
		{secs % 60, "s"},
	}
	first, last := -1, -1
	for i, p := range parts {
		if p.n != 0 {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	out := make([]string, 0, last-first+1)
	for _, p := range parts[first : last+1] {
		out = append(out, fmt.Sprintf("%d%s", p.n, p.unit))
	}
	return strings.Join(out, " ")
}

// ProgressOf returns the leg progress for EnRoute and InProgress, and
// ok=false for every other variant.
func ProgressOf(s Status) (p float64, ok bool) {
	switch v := s.(type) {
	case EnRoute:
		return v.Progress, true
	case InProgress:
		return v.Progress, true
	}
	return 0, false
}
