package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ride-progress-sim/internal/api"
	"ride-progress-sim/internal/config"
	"ride-progress-sim/internal/hub"
	"ride-progress-sim/internal/logger"
	"ride-progress-sim/internal/metrics"
	"ride-progress-sim/internal/notify"
	"ride-progress-sim/internal/permission"
	"ride-progress-sim/internal/present"
	"ride-progress-sim/internal/progress"
	"ride-progress-sim/internal/ride"
	"ride-progress-sim/internal/session"
	"ride-progress-sim/internal/sim"
	"ride-progress-sim/internal/ui"
)

func main() {
	// Load configuration from .env and environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	out, closeOut := logOutput(cfg.LogFile)
	defer closeOut()
	lg := logger.New("ride-progress-sim", logger.ParseLevel(cfg.LogLevel), out)

	// Root context with cancellation on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Metrics setup
	var mcol *metrics.Collector
	var servers []*http.Server
	if cfg.MetricsAddr != "" {
		mcol = metrics.NewCollector(cfg.SpeedMultiplier)
		servers = append(servers, mcol.Serve(cfg.MetricsAddr, lg))
	}

	channel := present.Channel{
		ID:          cfg.ChannelID,
		Title:       cfg.ChannelTitle,
		Description: cfg.ChannelDescription,
		Importance:  present.ImportanceDefault,
	}

	// Notification service: NATS tray plus optional mirrors
	natsTray, err := notify.NewNATSTray(ctx, cfg.NATSURL, channel, cfg.LogNATSSubjects, lg, natsMetrics(mcol))
	if err != nil {
		lg.Fatal(logger.Entry{Action: "notification_channel_failed", Message: "cannot create notification channel", Error: logger.Err(err)})
	}
	tray := notify.NewTray()
	notifiers := notify.Fanout{natsTray, tray}

	notifiers, err = withMirrors(ctx, cfg, channel.ID, notifiers, lg)
	if err != nil {
		lg.Fatal(logger.Entry{Action: "notification_mirror_failed", Message: "cannot open notification mirror", Error: logger.Err(err)})
	}

	defer func() { notifiers.Close() }()

	// Session, permission and presenters
	sess := session.New()
	gate := permission.NewGate(cfg.PermissionGranted)
	gate.OnGrant(func() {
		lg.Info(logger.Entry{Action: "permission_granted", Message: "notification permission granted"})
	})
	if !cfg.PermissionGranted {
		lg.Warn(logger.Entry{Action: "permission_denied", Message: "notification permission not granted; notifications suppressed"})
	}

	notifications := present.NewNotifications(notifiers, gate, channel, sess, lg, mcol)
	detach := notifications.Attach()
	defer detach()

	sess.Subscribe(func(st ride.Status) {
		mcol.ObserveStatus(st.Kind().String(), progress.Map(st).Value)
	})

	wsHub := hub.NewHub(sess.Current, lg, mcol)
	go wsHub.Run(ctx)
	sess.Subscribe(wsHub.Present)

	driver := sim.NewDriver(sess, cfg.DriverName, cfg.Vehicle, cfg.SpeedMultiplier, lg, mcol)

	// Control API
	if cfg.HTTPAddr != "" {
		srv := &api.Server{
			Ctx:     ctx,
			Driver:  driver,
			Session: sess,
			Gate:    gate,
			Channel: channel,
			WS:      wsHub.ServeWS,
			Log:     lg,
		}
		if cfg.JWTSecret != "" {
			srv.Tokens = api.NewTokens(cfg.JWTSecret, time.Duration(cfg.JWTExpiryMinutes)*time.Minute)
		}
		servers = append(servers, srv.Serve(cfg.HTTPAddr))
	}

	lg.Info(logger.Entry{
		Action:  "simulator_started",
		Message: "ride progress simulator started",
		Additional: map[string]any{
			"session_id": sess.ID(),
			"ui_mode":    cfg.UIMode,
			"channel":    channel.ID,
			"notifiers":  len(notifiers),
		},
	})

	switch cfg.UIMode {
	case config.UIModeHeadless:
		driver.Animate(ctx)
		// Block until context cancelled
		<-ctx.Done()
	default:
		app := ui.New(ctx, driver, gate, sess.Current(), cfg.DriverName, cfg.Vehicle)
		sess.Subscribe(app.Present)
		tray.OnChange(app.NotificationChanged)
		gate.OnGrant(app.PermissionChanged)
		gate.OnDeny(app.PermissionChanged)
		if err := app.Run(); err != nil {
			lg.Error(logger.Entry{Action: "ui_failed", Message: err.Error(), Error: logger.Err(err)})
		}
		cancel()
	}

	// Allow graceful shutdown
	driver.Stop()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer shutdownCancel()
	for _, s := range servers {
		_ = s.Shutdown(shutdownCtx)
	}
	lg.Info(logger.Entry{Action: "shutdown_complete", Message: "shutdown complete"})
}

// logOutput keeps logs off the terminal when a log file is configured.
func logOutput(path string) (io.Writer, func()) {
	if path == "" {
		return os.Stdout, func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("log file error: %v", err)
	}
	return f, func() { _ = f.Close() }
}

// natsMetrics avoids handing the tray a typed-nil collector.
func natsMetrics(c *metrics.Collector) notify.ConnMetrics {
	if c == nil {
		return nil
	}
	return c
}
