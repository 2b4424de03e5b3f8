package tui

import (
	"context"
	"encoding/json"
	"time"

	"codeberg.org/fleetdesk/console/internal/api"
	"codeberg.org/fleetdesk/console/internal/logger"
	"codeberg.org/fleetdesk/console/internal/realtime"
	tea "github.com/charmbracelet/bubbletea"
)

const connectTimeout = 10 * time.Second

// events the dashboard reacts to
var bridgedEvents = []string{
	realtime.EventConnect,
	realtime.EventDisconnect,
	realtime.EventVehicleLocation,
	realtime.EventTripUpdated,
	realtime.EventNotification,
}

// registers handlers that forward channel events into the TUI loop
func bridgeRealtime(ch realtime.Channel) <-chan RealtimeMsg {
	if ch == nil {
		return nil
	}

	out := make(chan RealtimeMsg, 64)

	for _, ev := range bridgedEvents {
		ch.On(ev, func(payload json.RawMessage) {
			select {
			case out <- RealtimeMsg{Type: ev, Payload: payload}:
			default:
				logger.Warn("realtime event dropped, tui is behind", "type", ev)
			}
		})
	}

	return out
}

func waitForRealtime(ch <-chan RealtimeMsg) tea.Cmd {
	if ch == nil {
		return nil
	}

	return func() tea.Msg {
		return <-ch
	}
}

func connectRealtime(ch realtime.Channel) tea.Cmd {
	if ch == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		if err := ch.Connect(ctx); err != nil {
			return realtimeConnectErrorMsg{err: err}
		}
		return nil
	}
}

func disconnectRealtime(ch realtime.Channel) tea.Cmd {
	if ch == nil {
		return nil
	}

	return func() tea.Msg {
		ch.Disconnect() //nolint:errcheck,gosec // best-effort on logout
		return nil
	}
}

type locationUpdate struct {
	VehicleID int64        `json:"vehicle_id"`
	Location  api.Location `json:"location"`
}

// applies a realtime event to the dashboard data
func (d *Dashboard) applyEvent(msg RealtimeMsg) {
	switch msg.Type {
	case realtime.EventVehicleLocation:
		var u locationUpdate
		if err := json.Unmarshal(msg.Payload, &u); err != nil {
			logger.Warn("bad location payload", "error", err)
			return
		}

		for i := range d.vehicles {
			if d.vehicles[i].ID == u.VehicleID {
				loc := u.Location
				d.vehicles[i].Location = &loc
			}
		}
		d.refreshVehicles()

	case realtime.EventTripUpdated:
		var trip api.Trip
		if err := json.Unmarshal(msg.Payload, &trip); err != nil {
			logger.Warn("bad trip payload", "error", err)
			return
		}
		d.upsertTrip(trip)

	case realtime.EventNotification:
		var n api.Notification
		if err := json.Unmarshal(msg.Payload, &n); err != nil {
			logger.Warn("bad notification payload", "error", err)
			return
		}

		if d.notifications == nil {
			d.notifications = &api.NotificationList{}
		}
		d.notifications.Notifications = append([]api.Notification{n}, d.notifications.Notifications...)
		if !n.Read {
			d.notifications.UnreadCount++
		}
	}
}
