package ui

import (
	"context"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"ride-progress-sim/internal/present"
	"ride-progress-sim/internal/ride"
)

type fakeDriver struct {
	mu       sync.Mutex
	animated int
	set      []ride.Status
}

func (d *fakeDriver) Animate(context.Context) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.animated++
	return "run"
}

func (d *fakeDriver) Set(st ride.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.set = append(d.set, st)
}

type fakeGate struct{ granted bool }

func (g *fakeGate) Granted() bool { return g.granted }
func (g *fakeGate) Grant()        { g.granted = true }
func (g *fakeGate) Deny()         { g.granted = false }

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m model, k string) (model, tea.Msg) {
	t.Helper()
	next, cmd := m.Update(keyMsg(k))
	var out tea.Msg
	if cmd != nil {
		out = cmd()
	}
	return next.(model), out
}

func TestNumberKeysSetPresets(t *testing.T) {
	d := &fakeDriver{}
	m := newModel(context.Background(), d, &fakeGate{granted: true}, nil, "Viktor", "Toyota Camry")

	for _, k := range []string{"1", "2", "3", "4", "5", "6"} {
		m, _ = press(t, m, k)
	}
	if len(d.set) != 6 {
		t.Fatalf("set %d statuses, want 6", len(d.set))
	}
	want := []ride.Kind{ride.KindRequested, ride.KindDriverAssigned, ride.KindEnRoute, ride.KindArrived, ride.KindInProgress, ride.KindCompleted}
	for i, st := range d.set {
		if st.Kind() != want[i] {
			t.Errorf("key %d set %s, want %s", i+1, st.Kind(), want[i])
		}
	}
	er := d.set[2].(ride.EnRoute)
	if er.Progress != 0.33 || er.Distance != "5000 m" || er.DriverName != "Viktor" {
		t.Errorf("en route preset = %+v", er)
	}
	ip := d.set[4].(ride.InProgress)
	if ip.Distance != "10000 m" {
		t.Errorf("in progress preset = %+v", ip)
	}
}

func TestAnimateKey(t *testing.T) {
	d := &fakeDriver{}
	m := newModel(context.Background(), d, &fakeGate{granted: true}, nil, "Viktor", "Toyota Camry")
	press(t, m, "a")
	if d.animated != 1 {
		t.Errorf("animated = %d, want 1", d.animated)
	}
}

func TestPermissionScreenBlocksButtons(t *testing.T) {
	d := &fakeDriver{}
	gate := &fakeGate{}
	m := newModel(context.Background(), d, gate, nil, "Viktor", "Toyota Camry")

	if !strings.Contains(m.View(), "press g to grant notification permission") {
		t.Fatalf("permission screen not shown:\n%s", m.View())
	}
	m, _ = press(t, m, "a")
	m, _ = press(t, m, "3")
	if d.animated != 0 || len(d.set) != 0 {
		t.Errorf("buttons active while denied: animated=%d set=%d", d.animated, len(d.set))
	}

	m, out := press(t, m, "g")
	if !gate.granted {
		t.Fatal("g did not grant")
	}
	next, _ := m.Update(out)
	m = next.(model)
	if !strings.Contains(m.View(), "Ride status: none") {
		t.Errorf("ride screen not shown after grant:\n%s", m.View())
	}
}

func TestStatusAndNoticeRender(t *testing.T) {
	m := newModel(context.Background(), &fakeDriver{}, &fakeGate{granted: true}, nil, "Viktor", "Toyota Camry")
	if !strings.Contains(m.View(), "no notification posted") {
		t.Errorf("empty card missing:\n%s", m.View())
	}

	st := ride.NewEnRoute(0.33, 0, "5000 m", "Viktor")
	next, _ := m.Update(statusMsg{status: st})
	m = next.(model)
	ch := present.Channel{ID: "progress.centric", Title: "Ride progress"}
	next, _ = m.Update(noticeMsg{id: present.NotificationID, msg: &present.Message{Channel: ch, Notification: present.Build(st, ch)}})
	m = next.(model)

	v := m.View()
	for _, want := range []string{"Ride status: en_route", "33 / 200", "Driver en route"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q:\n%s", want, v)
		}
	}

	next, _ = m.Update(noticeMsg{id: present.NotificationID})
	m = next.(model)
	if !strings.Contains(m.View(), "no notification posted") {
		t.Error("card not cleared on cancel")
	}
}

func TestQuit(t *testing.T) {
	m := newModel(context.Background(), &fakeDriver{}, &fakeGate{}, nil, "Viktor", "Toyota Camry")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("no quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c did not quit")
	}
}

func TestRenderBarMarker(t *testing.T) {
	bar := present.InApp(ride.Arrived{}).Bar
	out := renderBar(bar)
	if strings.Count(out, "█") != cellsPerSegment || !strings.Contains(out, barMarker) {
		t.Errorf("bar = %q", out)
	}
}

func TestRideScreenListsSetKeys(t *testing.T) {
	m := newModel(context.Background(), &fakeDriver{}, &fakeGate{granted: true}, nil, "Viktor", "Toyota Camry")
	v := m.View()
	for _, want := range []string{"animate", "1", "requested", "driver assigned", "en route", "arrived", "in progress", "6", "completed", "quit"} {
		if !strings.Contains(v, want) {
			t.Errorf("help missing %q:\n%s", want, v)
		}
	}
}

func TestRevokeSwitchesToPermissionScreen(t *testing.T) {
	d := &fakeDriver{}
	gate := &fakeGate{granted: true}
	m := newModel(context.Background(), d, gate, ride.Arrived{}, "Viktor", "Toyota Camry")
	if !strings.Contains(m.View(), "Ride status: arrived") {
		t.Fatalf("ride screen not shown:\n%s", m.View())
	}

	gate.Deny()
	next, _ := m.Update(permissionMsg{})
	m = next.(model)
	if !strings.Contains(m.View(), "press g to grant notification permission") {
		t.Fatalf("permission screen not shown after revoke:\n%s", m.View())
	}
	m, _ = press(t, m, "a")
	if d.animated != 0 {
		t.Error("buttons still active after revoke")
	}
}
