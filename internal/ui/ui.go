// Package ui is the terminal front end: the ride screen with its buttons
// and the notification permission screen.
package ui

import (
	"context"
	"errors"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"ride-progress-sim/internal/present"
	"ride-progress-sim/internal/ride"
)

// UI runs the Bubble Tea program. Present, NotificationChanged and
// PermissionChanged are safe to call from any goroutine.
type UI struct {
	program *tea.Program
	done    atomic.Bool
}

func New(ctx context.Context, driver Driver, gate Gate, current ride.Status, driverName, vehicle string) *UI {
	m := newModel(ctx, driver, gate, current, driverName, vehicle)
	return &UI{program: tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))}
}

// Present is a session subscriber.
func (u *UI) Present(st ride.Status) {
	u.send(statusMsg{status: st})
}

// NotificationChanged mirrors the tray into the card preview.
func (u *UI) NotificationChanged(id int, m *present.Message) {
	u.send(noticeMsg{id: id, msg: m})
}

func (u *UI) PermissionChanged() {
	u.send(permissionMsg{})
}

func (u *UI) send(msg tea.Msg) {
	if !u.done.Load() {
		u.program.Send(msg)
	}
}

// Run blocks until the user quits or the context is cancelled.
func (u *UI) Run() error {
	_, err := u.program.Run()
	u.done.Store(true)
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func (u *UI) Quit() { u.program.Quit() }
