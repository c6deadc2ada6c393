package present

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"ride-progress-sim/internal/logger"
	mmetrics "ride-progress-sim/internal/metrics"
	"ride-progress-sim/internal/permission"
	"ride-progress-sim/internal/ride"
	"ride-progress-sim/internal/session"
)

// Message is what gets handed to the notification service.
type Message struct {
	UpdateID     string       `json:"update_id"`
	SessionID    string       `json:"session_id"`
	PostedAt     time.Time    `json:"posted_at"`
	Channel      Channel      `json:"channel"`
	Notification Notification `json:"notification"`
	Status       ride.Wire    `json:"status"`
}

// Notifier posts notifications. Posting under an id that is already shown
// replaces it.
type Notifier interface {
	Post(ctx context.Context, m Message) error
	Cancel(ctx context.Context, id int) error
}

const postTimeout = 5 * time.Second

// Notifications posts a notification for every status change while the
// permission gate is open.
type Notifications struct {
	notifier Notifier
	gate     *permission.Gate
	channel  Channel
	sess     *session.Session
	log      *logger.Logger
	metrics  *mmetrics.Collector

	mu sync.Mutex
}

func NewNotifications(n Notifier, gate *permission.Gate, ch Channel, sess *session.Session, log *logger.Logger, metrics *mmetrics.Collector) *Notifications {
	return &Notifications{notifier: n, gate: gate, channel: ch, sess: sess, log: log, metrics: metrics}
}

// Attach subscribes to the session, re-posts the current status once
// whenever permission is granted and withdraws the notification whenever
// it is revoked. The returned func detaches from the session.
func (p *Notifications) Attach() (detach func()) {
	p.gate.OnGrant(func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if st := p.sess.Current(); st != nil {
			p.post(st)
		}
	})
	p.gate.OnDeny(func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.withdraw()
	})
	return p.sess.Subscribe(p.Present)
}

// Present posts st if permission is granted.
func (p *Notifications) Present(st ride.Status) {
	if st == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.post(st)
}

func (p *Notifications) post(st ride.Status) {
	if !p.gate.Granted() {
		p.metrics.NotificationSuppressed()
		p.log.Debug(logger.Entry{Action: "notification_suppressed", Message: "notification permission not granted", Additional: map[string]any{"kind": st.Kind().String()}})
		return
	}

	msg := Message{
		UpdateID:     uuid.NewString(),
		SessionID:    p.sess.ID(),
		PostedAt:     time.Now().UTC(),
		Channel:      p.channel,
		Notification: Build(st, p.channel),
		Status:       ride.Encode(st),
	}

	ctx, cancel := context.WithTimeout(context.Background(), postTimeout)
	defer cancel()
	start := time.Now()
	err := p.notifier.Post(ctx, msg)
	p.metrics.NotificationPosted(time.Since(start), err)
	if err != nil {
		p.log.Error(logger.Entry{
			Action:     "notification_post_failed",
			Message:    msg.Notification.Title,
			Error:      logger.Err(err),
			Additional: map[string]any{"update_id": msg.UpdateID},
		})
		return
	}
	p.log.Debug(logger.Entry{
		Action:  "notification_posted",
		Message: msg.Notification.Title,
		Additional: map[string]any{
			"update_id": msg.UpdateID,
			"progress":  msg.Notification.Progress.Value,
		},
	})
}

// withdraw cancels the shown notification so the tray never holds a state
// that later, suppressed updates have moved past.
func (p *Notifications) withdraw() {
	ctx, cancel := context.WithTimeout(context.Background(), postTimeout)
	defer cancel()
	if err := p.notifier.Cancel(ctx, NotificationID); err != nil {
		p.log.Error(logger.Entry{Action: "notification_cancel_failed", Message: "cannot withdraw notification", Error: logger.Err(err)})
		return
	}
	p.log.Info(logger.Entry{Action: "notification_withdrawn", Message: "notification permission revoked"})
}
