package sim

import (
	"fmt"
	"math"
	"time"

	"ride-progress-sim/internal/ride"
)

const (
	enRouteSteps    = 150
	inProgressSteps = 100
	tickInterval    = 100 * time.Millisecond

	// Below this the en-route ETA is pinned to minETA.
	minETAMinutes = 0.1667
	minETA        = 10 * time.Second
)

// Step is one emitted status and the wall-clock wait that follows it.
type Step struct {
	Status ride.Status
	Hold   time.Duration
}

// Script returns the full scripted ride, Requested through Completed.
func Script(driverName, vehicle string) []Step {
	steps := make([]Step, 0, 4+enRouteSteps+inProgressSteps)

	steps = append(steps,
		Step{Status: ride.Requested{}, Hold: 2 * time.Second},
		Step{Status: ride.DriverAssigned{DriverName: driverName, Vehicle: vehicle}, Hold: 2 * time.Second},
	)

	// Driver approaching: 15 minutes and 5 km counted down over 150 ticks.
	for i := 0; i < enRouteSteps; i++ {
		etaMinutes := math.Max(15-float64(i)*0.1, 0)
		eta := minETA
		if etaMinutes > minETAMinutes {
			eta = time.Duration(etaMinutes * float64(time.Minute))
		}
		steps = append(steps, Step{
			Status: ride.NewEnRoute(
				float64(i+1)/enRouteSteps,
				eta,
				fmt.Sprintf("%d m", 5000-i*5000/enRouteSteps),
				driverName,
			),
			Hold: tickInterval,
		})
	}

	steps = append(steps, Step{Status: ride.Arrived{}, Hold: 10 * time.Second})

	// Riding to the destination: ETA drops a minute every third tick and
	// bottoms out at zero.
	for i := 0; i < inProgressSteps; i++ {
		etaMinutes := max(30-i/3, 0)
		steps = append(steps, Step{
			Status: ride.NewInProgress(
				float64(i+1)/inProgressSteps,
				time.Duration(etaMinutes)*time.Minute,
				fmt.Sprintf("%d m", 10000-i*100),
				driverName,
			),
			Hold: tickInterval,
		})
	}
	steps[len(steps)-1].Hold += time.Second

	return append(steps, Step{Status: ride.Completed{}})
}

// Duration is the total scripted wall-clock time at 1x speed.
func Duration(steps []Step) time.Duration {
	var d time.Duration
	for _, s := range steps {
		d += s.Hold
	}
	return d
}
