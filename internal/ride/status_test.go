package ride

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestFormatETA(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{15 * time.Minute, "15m"},
		{14*time.Minute + 54*time.Second, "14m 54s"},
		{10 * time.Second, "10s"},
		{time.Hour + 30*time.Second, "1h 0m 30s"},
		{30 * time.Minute, "30m"},
		{0, "0s"},
		{-time.Second, "0s"},
		{1499 * time.Millisecond, "1s"},
	}
	for _, c := range cases {
		if got := FormatETA(c.in); got != c.want {
			t.Errorf("FormatETA(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestClampProgress(t *testing.T) {
	cases := map[float64]float64{-0.5: 0, 0: 0, 0.33: 0.33, 1: 1, 1.7: 1, math.NaN(): 0}
	for in, want := range cases {
		if got := ClampProgress(in); got != want {
			t.Errorf("ClampProgress(%v) = %v, want %v", in, got, want)
		}
	}
	if got := NewEnRoute(2, 0, "", "x").Progress; got != 1 {
		t.Errorf("NewEnRoute clamp = %v", got)
	}
	if got := NewInProgress(-1, 0, "", "x").Progress; got != 0 {
		t.Errorf("NewInProgress clamp = %v", got)
	}
}

func TestKindStringRoundTrip(t *testing.T) {
	for _, k := range Kinds {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if Kind(42).Valid() {
		t.Error("Kind(42) should be invalid")
	}
	if _, ok := ParseKind("cancelled"); ok {
		t.Error("ParseKind accepted unknown kind")
	}
}

func TestEncodeDecode(t *testing.T) {
	statuses := []Status{
		Requested{},
		DriverAssigned{DriverName: "Viktor", Vehicle: "Toyota Camry"},
		NewEnRoute(0.33, 15*time.Minute, "5000 m", "Viktor"),
		Arrived{},
		NewInProgress(0.5, 30*time.Minute, "10000 m", "Viktor"),
		Completed{},
	}
	for _, s := range statuses {
		got, err := Decode(Encode(s))
		if err != nil {
			t.Fatalf("Decode(Encode(%v)): %v", s, err)
		}
		if got != s {
			t.Errorf("round trip = %#v, want %#v", got, s)
		}
	}
}

func TestDecodeRejectsInvalid(t *testing.T) {
	p := 0.5
	cases := []Wire{
		{Kind: "teleporting"},
		{Kind: "driver_assigned", DriverName: "Viktor"},
		{Kind: "en_route", DriverName: "Viktor", Progress: &p},
	}
	for _, w := range cases {
		if _, err := Decode(w); !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("Decode(%+v) err = %v, want ErrInvalidStatus", w, err)
		}
	}
}

func TestStatusString(t *testing.T) {
	s := NewEnRoute(0.33, 15*time.Minute, "5000 m", "Viktor")
	want := "en_route(progress=0.33, eta=15m, distance=5000 m, driver=Viktor)"
	if s.String() != want {
		t.Errorf("String() = %q, want %q", s.String(), want)
	}
	if (Completed{}).String() != "completed" {
		t.Errorf("Completed.String() = %q", Completed{}.String())
	}
}
