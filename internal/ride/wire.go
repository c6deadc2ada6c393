package ride

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidStatus = errors.New("invalid ride status")

// Wire is the flat JSON form of a Status used by the control API and in
// published notification messages.
type Wire struct {
	Kind       string   `json:"kind"`
	DriverName string   `json:"driver_name,omitempty"`
	Vehicle    string   `json:"vehicle,omitempty"`
	Progress   *float64 `json:"progress,omitempty"`
	ETAMillis  *int64   `json:"eta_ms,omitempty"`
	Distance   string   `json:"distance,omitempty"`
}

func Encode(s Status) Wire {
	w := Wire{Kind: s.Kind().String()}
	switch v := s.(type) {
	case DriverAssigned:
		w.DriverName = v.DriverName
		w.Vehicle = v.Vehicle
	case EnRoute:
		w.fillLeg(v.Progress, v.ETA, v.Distance, v.DriverName)
	case InProgress:
		w.fillLeg(v.Progress, v.ETA, v.Distance, v.DriverName)
	}
	return w
}

func (w *Wire) fillLeg(progress float64, eta time.Duration, distance, driver string) {
	ms := eta.Milliseconds()
	w.Progress = &progress
	w.ETAMillis = &ms
	w.Distance = distance
	w.DriverName = driver
}

// Decode validates w and builds the matching Status. Progress is clamped.
func Decode(w Wire) (Status, error) {
	kind, ok := ParseKind(w.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidStatus, w.Kind)
	}
	switch kind {
	case KindRequested:
		return Requested{}, nil
	case KindDriverAssigned:
		if w.DriverName == "" || w.Vehicle == "" {
			return nil, fmt.Errorf("%w: driver_assigned requires driver_name and vehicle", ErrInvalidStatus)
		}
		return DriverAssigned{DriverName: w.DriverName, Vehicle: w.Vehicle}, nil
	case KindEnRoute, KindInProgress:
		if w.Progress == nil || w.ETAMillis == nil || w.DriverName == "" {
			return nil, fmt.Errorf("%w: %s requires progress, eta_ms and driver_name", ErrInvalidStatus, kind)
		}
		if *w.ETAMillis < 0 {
			return nil, fmt.Errorf("%w: negative eta_ms", ErrInvalidStatus)
		}
		eta := time.Duration(*w.ETAMillis) * time.Millisecond
		if kind == KindEnRoute {
			return NewEnRoute(*w.Progress, eta, w.Distance, w.DriverName), nil
		}
		return NewInProgress(*w.Progress, eta, w.Distance, w.DriverName), nil
	case KindArrived:
		return Arrived{}, nil
	default:
		return Completed{}, nil
	}
}
