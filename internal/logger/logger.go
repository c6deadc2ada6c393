package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "WARN":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

type ErrObj struct {
	Msg   string `json:"msg"`
	Stack string `json:"stack,omitempty"`
}

// Entry is one log line.
type Entry struct {
	Timestamp  string         `json:"timestamp"`
	Level      string         `json:"level"`
	Service    string         `json:"service"`
	Action     string         `json:"action"`
	Message    string         `json:"message"`
	Hostname   string         `json:"hostname"`
	RunID      string         `json:"run_id,omitempty"`
	Error      *ErrObj        `json:"error,omitempty"`
	Additional map[string]any `json:"additional,omitempty"`
}

type Logger struct {
	service  string
	minLevel Level
	hostname string

	mu  sync.Mutex
	out io.Writer
	now func() time.Time
}

func New(service string, minLevel Level, out io.Writer) *Logger {
	h, _ := os.Hostname()
	if out == nil {
		out = os.Stdout
	}
	return &Logger{service: service, minLevel: minLevel, hostname: h, out: out, now: time.Now}
}

// Discard returns a logger that drops everything.
func Discard() *Logger { return New("discard", LevelError+1, io.Discard) }

func (l *Logger) Debug(e Entry) { l.log(LevelDebug, e) }
func (l *Logger) Info(e Entry)  { l.log(LevelInfo, e) }
func (l *Logger) Warn(e Entry)  { l.log(LevelWarn, e) }
func (l *Logger) Error(e Entry) { l.log(LevelError, e) }

// Fatal logs at error level with a stack trace and exits.
func (l *Logger) Fatal(e Entry) {
	if e.Error == nil {
		e.Error = &ErrObj{Msg: e.Message}
	}
	e.Error.Stack = string(debug.Stack())
	l.log(LevelError, e)
	os.Exit(1)
}

// Err builds an ErrObj from err, nil-safe.
func Err(err error) *ErrObj {
	if err == nil {
		return nil
	}
	return &ErrObj{Msg: err.Error()}
}

func (l *Logger) log(level Level, e Entry) {
	if level < l.minLevel {
		return
	}
	e.Timestamp = l.now().UTC().Format(time.RFC3339Nano)
	e.Level = level.String()
	if e.Service == "" {
		e.Service = l.service
	}
	e.Hostname = l.hostname

	b, err := json.Marshal(e)
	if err != nil {
		b = []byte(fmt.Sprintf(`{"level":"ERROR","action":"log_marshal_failed","message":%q}`, err.Error()))
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.out.Write(append(b, '\n'))
}
