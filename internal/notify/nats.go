package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"ride-progress-sim/internal/logger"
	"ride-progress-sim/internal/present"
)

// ConnMetrics tracks the NATS connection state.
type ConnMetrics interface {
	NATSSetConnected(connected bool)
}

// NATSTray is the notification service: a JetStream key-value bucket per
// channel, one key per notification id. Putting a key overwrites the
// previous notification.
type NATSTray struct {
	nc      *nats.Conn
	kv      jetstream.KeyValue
	bucket  string
	logKeys bool
	log     *logger.Logger
}

func NewNATSTray(ctx context.Context, url string, ch present.Channel, logKeys bool, log *logger.Logger, m ConnMetrics) (*NATSTray, error) {
	nc, err := nats.Connect(url,
		nats.Name("ride-progress-sim"),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			log.Warn(logger.Entry{Action: "nats_disconnected", Message: "nats disconnected", Error: logger.Err(err)})
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(true)
			}
			log.Info(logger.Entry{Action: "nats_reconnected", Message: "nats reconnected"})
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			log.Info(logger.Entry{Action: "nats_closed", Message: "nats closed"})
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: connect %s: %v", ErrChannelUnavailable, url, err)
	}
	if m != nil {
		m.NATSSetConnected(true)
	}

	t := &NATSTray{nc: nc, bucket: BucketName(ch.ID), logKeys: logKeys, log: log}
	if err := t.ensureChannel(ctx, ch); err != nil {
		nc.Close()
		return nil, err
	}
	return t, nil
}

// ensureChannel creates or updates the bucket backing ch. History 1 keeps
// only the latest notification per key.
func (t *NATSTray) ensureChannel(ctx context.Context, ch present.Channel) error {
	js, err := jetstream.New(t.nc)
	if err != nil {
		return fmt.Errorf("%w: jetstream: %v", ErrChannelUnavailable, err)
	}
	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      t.bucket,
		Description: channelDescription(ch),
		History:     1,
	})
	if err != nil {
		return fmt.Errorf("%w: bucket %s: %v", ErrChannelUnavailable, t.bucket, err)
	}
	t.kv = kv
	t.log.Info(logger.Entry{
		Action:  "notification_channel_ready",
		Message: ch.Title,
		Additional: map[string]any{
			"channel_id": ch.ID,
			"bucket":     t.bucket,
			"importance": ch.Importance,
		},
	})
	return nil
}

func (t *NATSTray) Post(ctx context.Context, m present.Message) error {
	key := Key(m.Notification.ID)
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	if t.logKeys {
		t.log.Debug(logger.Entry{Action: "nats_kv_put", Message: t.bucket + "/" + key})
	}
	if _, err := t.kv.Put(ctx, key, b); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (t *NATSTray) Cancel(ctx context.Context, id int) error {
	err := t.kv.Delete(ctx, Key(id))
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("delete %s: %w", Key(id), err)
	}
	return nil
}

func (t *NATSTray) Close() {
	if t.nc != nil {
		_ = t.nc.Drain()
		t.nc.Close()
	}
}

// Key is the bucket key a notification id is stored under.
func Key(id int) string { return fmt.Sprintf("notification.%d", id) }

// BucketName turns a channel id into a valid bucket name.
func BucketName(channelID string) string {
	s := strings.TrimSpace(channelID)
	// Bucket names allow only letters, digits, '-' and '_'.
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
	if s == "" {
		s = "_"
	}
	return s
}

func channelDescription(ch present.Channel) string {
	if ch.Description == "" {
		return ch.Title
	}
	return ch.Title + ": " + ch.Description
}

var _ present.Notifier = (*NATSTray)(nil)
