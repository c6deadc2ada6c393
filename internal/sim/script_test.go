package sim

import (
	"testing"
	"time"

	"ride-progress-sim/internal/ride"
)

func TestScriptOrder(t *testing.T) {
	steps := Script("Viktor", "Toyota Camry")
	if len(steps) != 254 {
		t.Fatalf("len = %d, want 254", len(steps))
	}

	want := []struct {
		kind  ride.Kind
		count int
	}{
		{ride.KindRequested, 1},
		{ride.KindDriverAssigned, 1},
		{ride.KindEnRoute, 150},
		{ride.KindArrived, 1},
		{ride.KindInProgress, 100},
		{ride.KindCompleted, 1},
	}
	i := 0
	for _, w := range want {
		prev := -1.0
		for n := 0; n < w.count; n++ {
			st := steps[i].Status
			if st.Kind() != w.kind {
				t.Fatalf("step %d kind = %s, want %s", i, st.Kind(), w.kind)
			}
			if p, ok := ride.ProgressOf(st); ok {
				if p <= prev {
					t.Fatalf("step %d progress %v not above %v", i, p, prev)
				}
				prev = p
			}
			i++
		}
		if prev >= 0 && prev != 1 {
			t.Errorf("%s leg ends at %v, want 1", w.kind, prev)
		}
	}
}

func TestScriptPayloads(t *testing.T) {
	steps := Script("Viktor", "Toyota Camry")

	da := steps[1].Status.(ride.DriverAssigned)
	if da.DriverName != "Viktor" || da.Vehicle != "Toyota Camry" {
		t.Errorf("DriverAssigned = %+v", da)
	}

	first := steps[2].Status.(ride.EnRoute)
	last := steps[151].Status.(ride.EnRoute)
	if first.ETA != 15*time.Minute || first.Distance != "5000 m" {
		t.Errorf("first EnRoute = %+v", first)
	}
	if last.ETA != 10*time.Second {
		t.Errorf("last EnRoute ETA = %v, want 10s floor", last.ETA)
	}
	for i := 3; i <= 151; i++ {
		prev := steps[i-1].Status.(ride.EnRoute)
		cur := steps[i].Status.(ride.EnRoute)
		if cur.ETA > prev.ETA {
			t.Fatalf("EnRoute ETA rose at step %d: %v -> %v", i, prev.ETA, cur.ETA)
		}
	}

	ip0 := steps[153].Status.(ride.InProgress)
	ip3 := steps[156].Status.(ride.InProgress)
	ipLast := steps[252].Status.(ride.InProgress)
	if ip0.ETA != 30*time.Minute || ip0.Distance != "10000 m" {
		t.Errorf("first InProgress = %+v", ip0)
	}
	if ip3.ETA != 29*time.Minute {
		t.Errorf("InProgress ETA at tick 3 = %v, want 29m", ip3.ETA)
	}
	if ipLast.Distance != "100 m" || ipLast.ETA != 0 || ipLast.Progress != 1 {
		t.Errorf("last InProgress = %+v", ipLast)
	}
}

func TestScriptHolds(t *testing.T) {
	steps := Script("Viktor", "Toyota Camry")
	if steps[0].Hold != 2*time.Second || steps[1].Hold != 2*time.Second {
		t.Errorf("opening holds = %v, %v", steps[0].Hold, steps[1].Hold)
	}
	if steps[152].Hold != 10*time.Second {
		t.Errorf("arrived hold = %v", steps[152].Hold)
	}
	if steps[252].Hold != 1100*time.Millisecond {
		t.Errorf("last InProgress hold = %v", steps[252].Hold)
	}
	if steps[253].Hold != 0 {
		t.Errorf("completed hold = %v", steps[253].Hold)
	}
	// 2+2 + 15 + 10 + 10 + 1 seconds
	if got := Duration(steps); got != 40*time.Second {
		t.Errorf("Duration = %v, want 40s", got)
	}
}
