package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ride-progress-sim/internal/logger"
)

type Collector struct {
	reg *prometheus.Registry

	StatusTransitions *prometheus.CounterVec // kind label
	ProgressValue     prometheus.Gauge

	AnimationsStarted   prometheus.Counter
	AnimationsCompleted prometheus.Counter
	AnimationsCancelled prometheus.Counter
	AnimationRunning    prometheus.Gauge

	NotificationsPosted     prometheus.Counter
	NotificationPostErrs    prometheus.Counter
	NotificationsSuppressed prometheus.Counter
	PostDuration            prometheus.Histogram

	NATSConnected prometheus.Gauge
	WSClients     prometheus.Gauge

	SpeedMultiplier prometheus.Gauge
}

func NewCollector(speedMultiplier float64) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ride_status_transitions_total",
			Help: "Ride status changes by variant.",
		}, []string{"kind"}),
		ProgressValue: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ride_progress_value",
			Help: "Mapped progress of the current status (0-200).",
		}),
		AnimationsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ride_animations_started_total",
			Help: "Total animation runs started.",
		}),
		AnimationsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ride_animations_completed_total",
			Help: "Total animation runs that reached Completed.",
		}),
		AnimationsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ride_animations_cancelled_total",
			Help: "Total animation runs cancelled before Completed.",
		}),
		AnimationRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ride_animation_running",
			Help: "1 while an animation run is active, 0 otherwise.",
		}),
		NotificationsPosted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ride_notifications_posted_total",
			Help: "Total notifications posted.",
		}),
		NotificationPostErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ride_notification_post_errors_total",
			Help: "Total notification post errors.",
		}),
		NotificationsSuppressed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ride_notifications_suppressed_total",
			Help: "Notifications skipped because permission was not granted.",
		}),
		PostDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ride_notification_post_duration_seconds",
			Help:    "Duration to marshal and post a notification.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ride_nats_connected",
			Help: "1 if NATS connection is established, 0 otherwise.",
		}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ride_ws_clients",
			Help: "Connected websocket clients.",
		}),
		SpeedMultiplier: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ride_speed_multiplier",
			Help: "Current speed multiplier.",
		}),
	}

	reg.MustRegister(
		c.StatusTransitions, c.ProgressValue,
		c.AnimationsStarted, c.AnimationsCompleted, c.AnimationsCancelled, c.AnimationRunning,
		c.NotificationsPosted, c.NotificationPostErrs, c.NotificationsSuppressed, c.PostDuration,
		c.NATSConnected, c.WSClients, c.SpeedMultiplier,
	)

	c.SpeedMultiplier.Set(speedMultiplier)

	return c
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// Serve starts an HTTP server exposing /metrics on the given address.
func (c *Collector) Serve(addr string, log *logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(logger.Entry{Action: "metrics_server_failed", Message: err.Error(), Error: logger.Err(err)})
		}
	}()
	log.Info(logger.Entry{Action: "metrics_listening", Message: addr})
	return srv
}

// The methods below let a nil *Collector stand in when metrics are disabled.

func (c *Collector) ObserveStatus(kind string, progressValue int) {
	if c == nil {
		return
	}
	c.StatusTransitions.WithLabelValues(kind).Inc()
	c.ProgressValue.Set(float64(progressValue))
}

func (c *Collector) AnimationStarted() {
	if c == nil {
		return
	}
	c.AnimationsStarted.Inc()
	c.AnimationRunning.Set(1)
}

func (c *Collector) AnimationFinished(completed bool) {
	if c == nil {
		return
	}
	if completed {
		c.AnimationsCompleted.Inc()
	} else {
		c.AnimationsCancelled.Inc()
	}
	c.AnimationRunning.Set(0)
}

func (c *Collector) NotificationPosted(d time.Duration, err error) {
	if c == nil {
		return
	}
	c.PostDuration.Observe(d.Seconds())
	if err != nil {
		c.NotificationPostErrs.Inc()
		return
	}
	c.NotificationsPosted.Inc()
}

func (c *Collector) NotificationSuppressed() {
	if c == nil {
		return
	}
	c.NotificationsSuppressed.Inc()
}

func (c *Collector) NATSSetConnected(connected bool) {
	if c == nil {
		return
	}
	if connected {
		c.NATSConnected.Set(1)
	} else {
		c.NATSConnected.Set(0)
	}
}

func (c *Collector) WSClientsSet(n int) {
	if c == nil {
		return
	}
	c.WSClients.Set(float64(n))
}
