// Package session holds the current ride status and notifies subscribers
// whenever it is replaced.
package session

import (
	"sync"

	"github.com/google/uuid"

	"ride-progress-sim/internal/ride"
)

// Subscriber is called synchronously after every Set.
type Subscriber func(ride.Status)

type Session struct {
	id string

	// setMu serializes Set so subscribers never see two changes at once.
	setMu sync.Mutex

	mu      sync.RWMutex
	current ride.Status
	nextID  int
	subs    []subscription
}

type subscription struct {
	id int
	fn Subscriber
}

func New() *Session {
	return &Session{id: uuid.NewString()}
}

func (s *Session) ID() string { return s.id }

// Current returns the latest status, or nil before the first Set.
func (s *Session) Current() ride.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set replaces the current status and runs every subscriber in
// subscription order.
func (s *Session) Set(st ride.Status) {
	s.setMu.Lock()
	defer s.setMu.Unlock()

	s.mu.Lock()
	s.current = st
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(st)
	}
}

// Subscribe registers fn and returns a func that removes it. The current
// value is not replayed.
func (s *Session) Subscribe(fn Subscriber) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}
