package main

import (
	"context"
	"fmt"

	"ride-progress-sim/internal/config"
	"ride-progress-sim/internal/db"
	"ride-progress-sim/internal/logger"
	"ride-progress-sim/internal/notify"
)

// withMirrors appends the optional Postgres and RabbitMQ mirrors to
// notifiers. On failure everything opened so far, notifiers included, is
// closed before the error is returned, since the caller exits.
func withMirrors(ctx context.Context, cfg *config.Config, channelID string, notifiers notify.Fanout, lg *logger.Logger) (notify.Fanout, error) {
	fail := func(err error) (notify.Fanout, error) {
		notifiers.Close()
		return nil, err
	}

	if cfg.DatabaseURL != "" {
		sqlDB, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return fail(fmt.Errorf("db open: %w", err))
		}
		if err := db.Ping(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return fail(fmt.Errorf("db ping: %w", err))
		}
		if err := db.EnsureSchema(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return fail(fmt.Errorf("db schema: %w", err))
		}
		notifiers = append(notifiers, notify.NewPGTray(sqlDB))
		lg.Info(logger.Entry{Action: "pg_mirror_enabled", Message: "mirroring notifications to postgres"})
	}

	if cfg.AMQPURL != "" {
		mirror, err := notify.NewAMQPMirror(cfg.AMQPURL, channelID)
		if err != nil {
			return fail(fmt.Errorf("amqp: %w", err))
		}
		notifiers = append(notifiers, mirror)
		lg.Info(logger.Entry{Action: "amqp_mirror_enabled", Message: notify.QueueName(channelID)})
	}
	return notifiers, nil
}
