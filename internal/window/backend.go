package window

import (
	"errors"

	"github.com/bryanchriswhite/shareframe/internal/config"
	"github.com/bryanchriswhite/shareframe/internal/protect"
)

// ErrNotSupported is returned when no frame backend exists for the
// current platform.
var ErrNotSupported = errors.New("frame windows are not supported on this platform")

// Backend defines the interface for platform window backends (X11, Win32, ...).
type Backend interface {
	// Connect establishes the connection to the display server.
	Connect() error

	// Close tears down the connection and any frames created through it.
	Close() error

	// CreateFrame creates the top-level frame window. The window is
	// created visible, decorated, and movable.
	CreateFrame(cfg config.FrameConfig) (Frame, error)

	// Name returns the backend name (e.g., "x11", "win32").
	Name() string
}

// Frame is a thin handle on the OS window object. Geometry is owned by
// the window manager and read back on demand; the handle never caches it.
type Frame interface {
	// Geometry returns the current window geometry in screen coordinates.
	Geometry() (config.Geometry, error)

	// SetVisible maps or unmaps the window.
	SetVisible(visible bool) error

	// SetDecorated toggles the window manager frame (title bar, borders).
	SetDecorated(decorated bool) error

	// SetOpacity sets overall window opacity, 0 (invisible) to 1 (opaque).
	SetOpacity(opacity float64) error

	// SetClickThrough makes the window transparent to input so clicks
	// land on whatever is behind the framed region.
	SetClickThrough(clickThrough bool) error

	// SetAlwaysOnTop keeps the frame above normal windows.
	SetAlwaysOnTop(onTop bool) error

	// Raise brings the frame to the front of the stacking order once.
	Raise() error

	// Protector returns the capture-exclusion adapter bound to this window.
	Protector() protect.Protector

	// Close destroys the window.
	Close() error
}

// NewBackend creates the platform backend.
func NewBackend() (Backend, error) {
	return newPlatformBackend()
}
