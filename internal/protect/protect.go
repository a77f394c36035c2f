// Package protect translates the abstract "exclude this window from
// capture" intent into the platform mechanism. On Windows this is the
// window display affinity; X11 has no equivalent protocol primitive.
package protect

import (
	"errors"

	"github.com/bryanchriswhite/shareframe/internal/logger"
)

// ErrNotSupported is returned when the platform has no capture-exclusion
// mechanism and the caller asked for a strict protector.
var ErrNotSupported = errors.New("capture exclusion is not supported on this platform")

// Protector applies the OS capture-exclusion attribute to a window.
// Implementations must tolerate repeated calls with the same value.
type Protector interface {
	SetExcluded(excluded bool) error
}

// Func adapts a plain function to the Protector interface.
type Func func(excluded bool) error

// SetExcluded calls f.
func (f Func) SetExcluded(excluded bool) error {
	return f(excluded)
}

// Guard wraps a Protector and makes it idempotent: a call that matches
// the last successfully applied value performs no OS call. Guard is not
// safe for concurrent use; all mode transitions run on one goroutine.
type Guard struct {
	p        Protector
	applied  bool
	excluded bool
}

// NewGuard wraps p in an idempotence guard.
func NewGuard(p Protector) *Guard {
	return &Guard{p: p}
}

// SetExcluded applies the exclusion flag, skipping redundant calls.
func (g *Guard) SetExcluded(excluded bool) error {
	if g.applied && g.excluded == excluded {
		return nil
	}
	if err := g.p.SetExcluded(excluded); err != nil {
		return err
	}
	g.applied = true
	g.excluded = excluded
	return nil
}

// Excluded reports the last successfully applied value.
func (g *Guard) Excluded() bool {
	return g.applied && g.excluded
}

// Unsupported is a best-effort protector for platforms without a
// capture-exclusion primitive. It warns once and then reports success so
// the mode state machine stays usable; the alignment frame is simply
// visible to capturers on such platforms.
type Unsupported struct {
	platform string
	warned   bool
}

// NewUnsupported creates a best-effort protector for the named platform.
func NewUnsupported(platform string) *Unsupported {
	return &Unsupported{platform: platform}
}

// SetExcluded logs a single warning and succeeds.
func (u *Unsupported) SetExcluded(excluded bool) error {
	if !u.warned {
		logger.WithComponent("protect").Warn().
			Str("platform", u.platform).
			Msg("Capture exclusion is not available; the alignment frame will be visible in captures")
		u.warned = true
	}
	return nil
}
