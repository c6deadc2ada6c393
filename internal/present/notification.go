package present

import (
	"fmt"

	"ride-progress-sim/internal/progress"
	"ride-progress-sim/internal/ride"
)

// NotificationID is the single id every ride notification is posted
// under, so each update replaces the previous one.
const NotificationID = 1

const ImportanceDefault = "default"

// Channel describes where notifications are posted.
type Channel struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Importance  string `json:"importance"`
}

// Icon names understood by notification consumers.
const (
	IconRequested      = "ic_notification_requested"
	IconDriverAssigned = "ic_notification_driver_assigned"
	IconEnRoute        = "ic_notification_en_route"
	IconArrived        = "ic_notification_arrived"
	IconInProgress     = "ic_notification_in_progress"
	IconCompleted      = "ic_notification_completed"
)

type Notification struct {
	ID          int          `json:"id"`
	ChannelID   string       `json:"channel_id"`
	SmallIcon   string       `json:"small_icon"`
	TrackerIcon string       `json:"tracker_icon,omitempty"`
	Title       string       `json:"title"`
	Body        string       `json:"body"`
	Progress    progress.Bar `json:"progress"`
	Ongoing     bool         `json:"ongoing"`
}

// Build renders s as a notification on channel ch.
func Build(s ride.Status, ch Channel) Notification {
	n := Notification{
		ID:        NotificationID,
		ChannelID: ch.ID,
		Progress:  progress.Map(s),
		Ongoing:   true,
	}
	n.Title, n.Body = Text(s)

	switch s.(type) {
	case ride.Requested:
		n.SmallIcon = IconRequested
	case ride.DriverAssigned:
		n.SmallIcon = IconDriverAssigned
	case ride.EnRoute:
		n.SmallIcon = IconInProgress
		n.TrackerIcon = IconEnRoute
	case ride.Arrived:
		n.SmallIcon = IconArrived
		n.TrackerIcon = IconArrived
	case ride.InProgress:
		n.SmallIcon = IconInProgress
		n.TrackerIcon = IconEnRoute
	case ride.Completed:
		n.SmallIcon = IconCompleted
	}
	return n
}

// Text returns the notification title and body for s.
func Text(s ride.Status) (title, body string) {
	switch v := s.(type) {
	case ride.Requested:
		return "Ride requested", "Waiting for a driver"
	case ride.DriverAssigned:
		return "Driver assigned", fmt.Sprintf("%s is assigned with %s", v.DriverName, v.Vehicle)
	case ride.EnRoute:
		return "Driver en route", fmt.Sprintf("%s is on the way, arriving in %s", v.DriverName, ride.FormatETA(v.ETA))
	case ride.Arrived:
		return "Driver has arrived", "Your driver is waiting at the pickup location"
	case ride.InProgress:
		return "Ride in progress", fmt.Sprintf("%s is driving, %s to destination", v.DriverName, v.Distance)
	case ride.Completed:
		return "Ride completed", "Thank you for riding!"
	}
	return "", ""
}
