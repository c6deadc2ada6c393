package sim

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"ride-progress-sim/internal/logger"
	mmetrics "ride-progress-sim/internal/metrics"
	"ride-progress-sim/internal/progress"
	"ride-progress-sim/internal/ride"
)

// Publisher receives every emitted status; *session.Session satisfies it.
type Publisher interface {
	Set(ride.Status)
}

// Sleeper waits for d or until ctx is done, whichever comes first.
type Sleeper func(ctx context.Context, d time.Duration) error

// Driver runs the scripted ride. At most one run is active at a time.
type Driver struct {
	pub             Publisher
	driverName      string
	vehicle         string
	speedMultiplier float64
	sleep           Sleeper
	log             *logger.Logger
	metrics         *mmetrics.Collector

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	runID  string
}

func NewDriver(pub Publisher, driverName, vehicle string, speedMultiplier float64, log *logger.Logger, metrics *mmetrics.Collector) *Driver {
	if speedMultiplier <= 0 {
		speedMultiplier = 1
	}
	return &Driver{
		pub:             pub,
		driverName:      driverName,
		vehicle:         vehicle,
		speedMultiplier: speedMultiplier,
		sleep:           sleepContext,
		log:             log,
		metrics:         metrics,
	}
}

// SetSleeper replaces the wall-clock sleeper. Call before the first Animate.
func (d *Driver) SetSleeper(s Sleeper) { d.sleep = s }

// Animate cancels any running sequence, waits for it to exit, and starts
// a new one. It returns the new run's id.
func (d *Driver) Animate(parent context.Context) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()

	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	runID := uuid.NewString()
	d.cancel, d.done, d.runID = cancel, done, runID

	steps := Script(d.driverName, d.vehicle)
	d.metrics.AnimationStarted()
	d.log.Info(logger.Entry{
		Action:  "animation_started",
		Message: "starting scripted ride",
		RunID:   runID,
		Additional: map[string]any{
			"steps":            len(steps),
			"speed_multiplier": d.speedMultiplier,
			"duration":         d.scale(Duration(steps)).String(),
		},
	})

	go func() {
		defer close(done)
		completed := d.run(ctx, runID, steps)
		d.metrics.AnimationFinished(completed)
		if completed {
			d.log.Info(logger.Entry{Action: "animation_completed", Message: "scripted ride finished", RunID: runID})
		} else {
			d.log.Info(logger.Entry{Action: "animation_cancelled", Message: "scripted ride cancelled", RunID: runID})
		}
	}()
	return runID
}

// Set cancels any running sequence and publishes st. Once Set returns the
// cancelled sequence emits nothing further.
func (d *Driver) Set(st ride.Status) {
	if st == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.log.Info(logger.Entry{Action: "status_set", Message: st.String()})
	d.pub.Set(st)
}

// Stop cancels any running sequence and waits for it to exit.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

// Running reports whether a sequence is in flight.
func (d *Driver) Running() bool {
	d.mu.Lock()
	done := d.done
	d.mu.Unlock()
	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

// RunID is the id of the current (or last) run, empty if none started.
func (d *Driver) RunID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.runID
}

// Done is closed when the current (or last) run exits. It is already
// closed if nothing was ever started.
func (d *Driver) Done() <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return d.done
}

func (d *Driver) stopLocked() {
	if d.cancel == nil {
		return
	}
	d.cancel()
	<-d.done
	d.cancel = nil
}

func (d *Driver) run(ctx context.Context, runID string, steps []Step) bool {
	var lastKind ride.Kind = -1
	for i, step := range steps {
		if ctx.Err() != nil {
			return false
		}
		st := step.Status
		d.pub.Set(st)
		if k := st.Kind(); k != lastKind {
			d.log.Info(logger.Entry{
				Action:  "animation_phase",
				Message: k.String(),
				RunID:   runID,
				Additional: map[string]any{
					"step":     i + 1,
					"of":       len(steps),
					"progress": progress.Map(st).Value,
				},
			})
			lastKind = k
		} else {
			d.log.Debug(logger.Entry{Action: "animation_tick", Message: st.String(), RunID: runID})
		}
		if step.Hold <= 0 {
			continue
		}
		if err := d.sleep(ctx, d.scale(step.Hold)); err != nil {
			return false
		}
	}
	return true
}

func (d *Driver) scale(h time.Duration) time.Duration {
	return time.Duration(float64(h) / d.speedMultiplier)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
