// Package notify surfaces recoverable runtime failures (a toggle the OS
// rejected) to the user without crashing the process.
package notify

import "github.com/bryanchriswhite/shareframe/internal/logger"

// Notifier shows a transient user-visible notification.
type Notifier interface {
	Notify(summary, body string) error
}

// Log is the fallback notifier: it writes the notification to the log.
type Log struct{}

// Notify logs the notification at warn level.
func (Log) Notify(summary, body string) error {
	logger.WithComponent("notify").Warn().
		Str("summary", summary).
		Msg(body)
	return nil
}

// New returns the platform notifier, falling back to Log when no desktop
// notification service is reachable.
func New() Notifier {
	return newPlatformNotifier()
}
