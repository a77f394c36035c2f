//go:build !linux

package notify

// TODO: toast notifications on Windows, NSUserNotification on macOS.
func newPlatformNotifier() Notifier {
	return Log{}
}
