// Package notify implements the notification service behind the
// notification presenter: a NATS key-value tray, optional Postgres and
// RabbitMQ mirrors, and an in-memory tray.
package notify

import (
	"context"
	"errors"
	"sync"

	"ride-progress-sim/internal/present"
)

var ErrChannelUnavailable = errors.New("notification channel unavailable")

// Tray keeps the currently shown notifications in memory, one per id.
type Tray struct {
	mu        sync.Mutex
	shown     map[int]present.Message
	listeners []func(id int, m *present.Message)
}

func NewTray() *Tray {
	return &Tray{shown: make(map[int]present.Message)}
}

func (t *Tray) Post(_ context.Context, m present.Message) error {
	t.mu.Lock()
	t.shown[m.Notification.ID] = m
	listeners := t.listeners
	t.mu.Unlock()
	for _, fn := range listeners {
		fn(m.Notification.ID, &m)
	}
	return nil
}

func (t *Tray) Cancel(_ context.Context, id int) error {
	t.mu.Lock()
	delete(t.shown, id)
	listeners := t.listeners
	t.mu.Unlock()
	for _, fn := range listeners {
		fn(id, nil)
	}
	return nil
}

// Shown returns the notification currently posted under id.
func (t *Tray) Shown(id int) (present.Message, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.shown[id]
	return m, ok
}

func (t *Tray) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.shown)
}

// OnChange registers fn to run after every post (m set) or cancel (m nil).
func (t *Tray) OnChange(fn func(id int, m *present.Message)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners[:len(t.listeners):len(t.listeners)], fn)
}

// Fanout posts to every notifier and joins their errors.
type Fanout []present.Notifier

func (f Fanout) Post(ctx context.Context, m present.Message) error {
	var errs []error
	for _, n := range f {
		if err := n.Post(ctx, m); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f Fanout) Cancel(ctx context.Context, id int) error {
	var errs []error
	for _, n := range f {
		if err := n.Cancel(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every notifier that holds a connection.
func (f Fanout) Close() {
	for _, n := range f {
		if c, ok := n.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
