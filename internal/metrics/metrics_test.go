package metrics

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"ride-progress-sim/internal/logger"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	c.ObserveStatus("arrived", 100)
	c.AnimationStarted()
	c.AnimationFinished(true)
	c.NotificationPosted(time.Millisecond, nil)
	c.NotificationSuppressed()
	c.NATSSetConnected(true)
	c.WSClientsSet(3)
}

func TestHandlerExposesCollectors(t *testing.T) {
	c := NewCollector(2)
	c.ObserveStatus("arrived", 100)
	c.NotificationPosted(time.Millisecond, errors.New("down"))
	c.AnimationStarted()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	out := string(body)

	for _, want := range []string{
		`ride_status_transitions_total{kind="arrived"} 1`,
		"ride_progress_value 100",
		"ride_notification_post_errors_total 1",
		"ride_animation_running 1",
		"ride_speed_multiplier 2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestServeShutdownIsNotAFailure(t *testing.T) {
	out := &lockedBuffer{}
	srv := NewCollector(1).Serve("127.0.0.1:0", logger.New("test", logger.LevelDebug, out))
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	if strings.Contains(out.String(), "metrics_server_failed") {
		t.Errorf("clean shutdown logged as failure:\n%s", out.String())
	}
}

func TestServeReportsListenFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	out := &lockedBuffer{}
	srv := NewCollector(1).Serve(ln.Addr().String(), logger.New("test", logger.LevelDebug, out))
	defer srv.Close()

	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(out.String(), "metrics_server_failed") {
		if time.Now().After(deadline) {
			t.Fatalf("listen failure not logged:\n%s", out.String())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
