//go:build !linux && !windows

package window

// newPlatformBackend has no implementation here yet.
// TODO: macOS backend via NSWindow (sharingType for capture exclusion,
// styleMask for decorations) behind a cgo shim.
func newPlatformBackend() (Backend, error) {
	return nil, ErrNotSupported
}
