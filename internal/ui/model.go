package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ride-progress-sim/internal/present"
	"ride-progress-sim/internal/progress"
	"ride-progress-sim/internal/ride"
)

// Driver is the part of the ride driver the buttons use.
type Driver interface {
	Animate(ctx context.Context) string
	Set(st ride.Status)
}

// Gate is the notification permission as seen by the UI.
type Gate interface {
	Granted() bool
	Grant()
}

const (
	// cellsPerSegment is the rendered width of one bar segment.
	cellsPerSegment = 20
	barMarker       = "┃"
)

// Preset statuses behind the number keys.
func presets(driverName, vehicle string) []ride.Status {
	return []ride.Status{
		ride.Requested{},
		ride.DriverAssigned{DriverName: driverName, Vehicle: vehicle},
		ride.NewEnRoute(0.33, 15*time.Minute, "5000 m", driverName),
		ride.Arrived{},
		ride.NewInProgress(0.33, 30*time.Minute, "10000 m", driverName),
		ride.Completed{},
	}
}

type statusMsg struct{ status ride.Status }

type noticeMsg struct {
	id  int
	msg *present.Message
}

// permissionMsg asks the model to re-read the gate.
type permissionMsg struct{}

type model struct {
	ctx     context.Context
	driver  Driver
	gate    Gate
	keys    keyMap
	help    help.Model
	presets []ride.Status

	status  ride.Status
	notice  *present.Message
	granted bool
	width   int
}

func newModel(ctx context.Context, driver Driver, gate Gate, current ride.Status, driverName, vehicle string) model {
	return model{
		ctx:     ctx,
		driver:  driver,
		gate:    gate,
		keys:    defaultKeys(),
		help:    help.New(),
		presets: presets(driverName, vehicle),
		status:  current,
		granted: gate.Granted(),
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case statusMsg:
		m.status = msg.status
		m.granted = m.gate.Granted()

	case noticeMsg:
		if msg.id == present.NotificationID {
			m.notice = msg.msg
		}

	case permissionMsg:
		m.granted = m.gate.Granted()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// handleKey maps a key to a command. Driver and gate calls run as
// commands because they fan out to subscribers that Send back into the
// program.
func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if !m.granted {
		if key.Matches(msg, m.keys.Grant) {
			// Switch right away; the grant itself runs off the loop.
			m.granted = true
			gate := m.gate
			return m, func() tea.Msg {
				gate.Grant()
				return permissionMsg{}
			}
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.Animate) {
		driver, ctx := m.driver, m.ctx
		return m, func() tea.Msg {
			driver.Animate(ctx)
			return nil
		}
	}

	setKeys := []key.Binding{m.keys.Requested, m.keys.DriverAssigned, m.keys.EnRoute, m.keys.Arrived, m.keys.InProgress, m.keys.Completed}
	for i, b := range setKeys {
		if key.Matches(msg, b) {
			driver, st := m.driver, m.presets[i]
			return m, func() tea.Msg {
				driver.Set(st)
				return nil
			}
		}
	}
	return m, nil
}

func (m model) View() string {
	if !m.granted {
		return m.permissionView()
	}
	return m.rideView()
}

func (m model) permissionView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Ride progress") + "\n\n")
	b.WriteString(warnStyle.Render("Notifications are turned off.") + "\n")
	b.WriteString(secondaryStyle.Render("Ride updates are posted as a single notification that") + "\n")
	b.WriteString(secondaryStyle.Render("fills a progress bar while your driver comes to you.") + "\n\n")
	b.WriteString("press g to grant notification permission\n\n")
	b.WriteString(m.help.View(permissionKeys{m.keys}))
	return b.String()
}

func (m model) rideView() string {
	view := present.InApp(m.status)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Ride progress") + "\n\n")
	b.WriteString(fg(view.Color).Render(view.Text) + "\n\n")
	b.WriteString(renderBar(view.Bar) + "\n")
	b.WriteString(secondaryStyle.Render(fmt.Sprintf("%d / %d", view.Bar.Value, view.Bar.Max)) + "\n\n")
	b.WriteString(m.cardView() + "\n\n")
	b.WriteString(m.help.View(rideKeys{m.keys}))
	return b.String()
}

// cardView previews the notification currently in the tray.
func (m model) cardView() string {
	if m.notice == nil {
		return cardStyle.Render(cardMetaStyle.Render("no notification posted"))
	}
	n := m.notice.Notification
	lines := []string{
		cardTitleStyle.Render(n.Title),
		cardBodyStyle.Render(n.Body),
		renderBar(n.Progress),
		cardMetaStyle.Render(fmt.Sprintf("%s · %s", m.notice.Channel.Title, n.SmallIcon)),
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderBar draws the segments with the point markers between them.
func renderBar(bar progress.Bar) string {
	fill := bar.SegmentFill()
	var b strings.Builder
	pos := 0
	for i, seg := range bar.Segments {
		if i > 0 {
			b.WriteString(renderPoints(bar, pos))
		}
		cells := 0
		if seg.Length > 0 {
			cells = fill[i] * cellsPerSegment / seg.Length
		}
		b.WriteString(fg(seg.Color).Render(strings.Repeat("█", cells)))
		b.WriteString(emptyCellStyle.Render(strings.Repeat("░", cellsPerSegment-cells)))
		pos += seg.Length
	}
	return b.String()
}

func renderPoints(bar progress.Bar, at int) string {
	for _, p := range bar.Points {
		if p.Position != at {
			continue
		}
		if bar.Value >= p.Position {
			return fg(p.Color).Render(barMarker)
		}
		return emptyCellStyle.Render(barMarker)
	}
	return ""
}
