//go:build linux

package notify

import (
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/bryanchriswhite/shareframe/internal/logger"
)

const (
	notifyService   = "org.freedesktop.Notifications"
	notifyPath      = "/org/freedesktop/Notifications"
	notifyInterface = "org.freedesktop.Notifications.Notify"

	notifyTimeoutMs = 4000
)

// dbusNotifier sends desktop notifications over the session bus.
type dbusNotifier struct {
	conn *dbus.Conn
}

// Notify shows a transient desktop notification.
func (n *dbusNotifier) Notify(summary, body string) error {
	obj := n.conn.Object(notifyService, notifyPath)
	call := obj.Call(notifyInterface, 0,
		"shareframe",              // app name
		uint32(0),                 // replaces id
		"",                        // icon
		summary,                   // summary
		body,                      // body
		[]string{},                // actions
		map[string]dbus.Variant{}, // hints
		int32(notifyTimeoutMs),
	)
	if call.Err != nil {
		return fmt.Errorf("failed to send notification: %w", call.Err)
	}
	return nil
}

func newPlatformNotifier() Notifier {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		logger.WithComponent("notify").Debug().
			Err(err).
			Msg("Session bus unavailable, notifications go to the log")
		return Log{}
	}
	return &dbusNotifier{conn: conn}
}
