package session

import (
	"testing"

	"ride-progress-sim/internal/ride"
)

func TestCurrentStartsEmpty(t *testing.T) {
	s := New()
	if s.Current() != nil {
		t.Fatalf("Current() = %v, want nil", s.Current())
	}
	if s.ID() == "" {
		t.Error("session id is empty")
	}
}

func TestSetNotifiesInOrder(t *testing.T) {
	s := New()
	var calls []string
	s.Subscribe(func(st ride.Status) { calls = append(calls, "a:"+st.String()) })
	s.Subscribe(func(st ride.Status) { calls = append(calls, "b:"+st.String()) })

	s.Set(ride.Arrived{})

	if len(calls) != 2 || calls[0] != "a:arrived" || calls[1] != "b:arrived" {
		t.Fatalf("calls = %v", calls)
	}
	if s.Current() != (ride.Arrived{}) {
		t.Errorf("Current() = %v", s.Current())
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	s := New()
	var a, b int
	unsubA := s.Subscribe(func(ride.Status) { a++ })
	s.Subscribe(func(ride.Status) { b++ })

	s.Set(ride.Requested{})
	unsubA()
	unsubA()
	s.Set(ride.Completed{})

	if a != 1 || b != 2 {
		t.Errorf("a = %d, b = %d; want 1, 2", a, b)
	}
}

func TestSubscriberMaySubscribeDuringSet(t *testing.T) {
	s := New()
	var late int
	s.Subscribe(func(ride.Status) {
		s.Subscribe(func(ride.Status) { late++ })
	})
	s.Set(ride.Requested{})
	if late != 0 {
		t.Fatalf("late subscriber saw the change it was added in")
	}
	s.Set(ride.Arrived{})
	if late != 1 {
		t.Errorf("late = %d, want 1", late)
	}
}
