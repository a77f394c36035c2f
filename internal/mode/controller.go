// Package mode holds the alignment/sharing state machine and drives the
// window frame and capture-exclusion adapter to the attribute set each
// state requires.
package mode

import (
	"fmt"

	"github.com/bryanchriswhite/shareframe/internal/logger"
	"github.com/bryanchriswhite/shareframe/internal/protect"
	"github.com/bryanchriswhite/shareframe/internal/window"
)

// Mode is the frame's operating state.
type Mode string

const (
	// ModeAlignment: frame visible, decorated, movable, excluded from capture.
	ModeAlignment Mode = "alignment"
	// ModeSharing: frame invisible and click-through, capturable, so
	// external tools see exactly the framed screen content.
	ModeSharing Mode = "sharing"
)

// Controller is the single source of truth for the current Mode. It must
// only be driven from one goroutine; the app loop serializes all toggles.
type Controller struct {
	frame     window.Frame
	protector *protect.Guard
	opacity   float64
	mode      Mode
}

// NewController creates a controller in alignment mode. Attributes are not
// applied until Apply or Toggle is called.
func NewController(frame window.Frame, protector protect.Protector, alignmentOpacity float64) *Controller {
	return &Controller{
		frame:     frame,
		protector: protect.NewGuard(protector),
		opacity:   alignmentOpacity,
		mode:      ModeAlignment,
	}
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Excluded reports the last successfully applied capture-exclusion value.
func (c *Controller) Excluded() bool {
	return c.protector.Excluded()
}

// Apply re-asserts the current mode's attribute set. Called once at
// startup so the freshly created window matches alignment mode.
func (c *Controller) Apply() error {
	return c.apply(c.mode)
}

// Toggle flips between alignment and sharing and applies the target
// attribute set. On failure the previous mode's attributes are restored
// and the mode is left unchanged, so an external capturer never observes
// a half-applied state.
func (c *Controller) Toggle() (Mode, error) {
	target := ModeSharing
	if c.mode == ModeSharing {
		target = ModeAlignment
	}

	if err := c.apply(target); err != nil {
		c.rollback()
		return c.mode, fmt.Errorf("failed to enter %s mode: %w", target, err)
	}

	c.mode = target
	logger.WithComponent("mode").Info().
		Str("mode", string(target)).
		Msg("Mode switched")
	return c.mode, nil
}

// apply drives the frame and protector to the attribute set for m.
//
// Ordering is what makes the switch atomic from a capturer's point of
// view: exclusion is cleared only after the frame is already invisible,
// and re-established before the frame becomes visible again.
func (c *Controller) apply(m Mode) error {
	if m == ModeSharing {
		if err := c.frame.SetDecorated(false); err != nil {
			return err
		}
		if err := c.frame.SetClickThrough(true); err != nil {
			return err
		}
		if err := c.frame.SetOpacity(0); err != nil {
			return err
		}
		if err := c.frame.SetAlwaysOnTop(true); err != nil {
			return err
		}
		return c.protector.SetExcluded(false)
	}

	if err := c.protector.SetExcluded(true); err != nil {
		return err
	}
	if err := c.frame.SetOpacity(c.opacity); err != nil {
		return err
	}
	if err := c.frame.SetClickThrough(false); err != nil {
		return err
	}
	if err := c.frame.SetDecorated(true); err != nil {
		return err
	}
	if err := c.frame.SetAlwaysOnTop(true); err != nil {
		return err
	}
	return c.frame.Raise()
}

// rollback restores the previous mode's attributes after a failed
// transition. A rollback failure is logged but not propagated; the
// exclusion guard already holds the last value that actually applied.
func (c *Controller) rollback() {
	if err := c.apply(c.mode); err != nil {
		logger.WithComponent("mode").Error().
			Err(err).
			Str("mode", string(c.mode)).
			Msg("Failed to restore previous mode attributes")
	}
}
