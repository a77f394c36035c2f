// Package app runs the single-threaded event loop that owns all mode
// transitions. Hotkey presses and API requests funnel into one goroutine,
// so the mode controller is never invoked concurrently with itself.
package app

import (
	"context"
	"sync"

	"github.com/bryanchriswhite/shareframe/internal/config"
	"github.com/bryanchriswhite/shareframe/internal/logger"
	"github.com/bryanchriswhite/shareframe/internal/mode"
	"github.com/bryanchriswhite/shareframe/internal/notify"
	"github.com/bryanchriswhite/shareframe/internal/window"
)

// Status is a consistent snapshot of the loop's observable state.
type Status struct {
	Mode     mode.Mode       `json:"mode"`
	Excluded bool            `json:"excluded"`
	Geometry config.Geometry `json:"geometry"`
}

type toggleRequest struct {
	reply chan toggleReply
}

type toggleReply struct {
	mode mode.Mode
	err  error
}

type statusRequest struct {
	reply chan Status
}

// Loop is the single-threaded coordinator for hotkey and API toggles.
type Loop struct {
	ctrl     *mode.Controller
	frame    window.Frame
	notifier notify.Notifier

	hotkeyCh <-chan struct{}
	toggleCh chan toggleRequest
	statusCh chan statusRequest

	mu        sync.Mutex
	listeners []chan mode.Mode
}

// New creates a loop around the controller. hotkeyEvents is the listener's
// event channel; requests from it and from Toggle share one code path.
func New(ctrl *mode.Controller, frame window.Frame, notifier notify.Notifier, hotkeyEvents <-chan struct{}) *Loop {
	return &Loop{
		ctrl:     ctrl,
		frame:    frame,
		notifier: notifier,
		hotkeyCh: hotkeyEvents,
		toggleCh: make(chan toggleRequest, 4),
		statusCh: make(chan statusRequest, 4),
	}
}

// Run processes events until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	log := logger.WithComponent("app")
	log.Info().Str("mode", string(l.ctrl.Mode())).Msg("Event loop running")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.hotkeyCh:
			m, err := l.handleToggle()
			if err != nil {
				log.Error().Err(err).Msg("Hotkey toggle failed")
			} else {
				log.Debug().Str("mode", string(m)).Msg("Hotkey toggle applied")
			}
		case req := <-l.toggleCh:
			m, err := l.handleToggle()
			req.reply <- toggleReply{mode: m, err: err}
		case req := <-l.statusCh:
			req.reply <- l.snapshot()
		}
	}
}

// Toggle requests a mode switch through the loop and waits for the result.
func (l *Loop) Toggle(ctx context.Context) (mode.Mode, error) {
	req := toggleRequest{reply: make(chan toggleReply, 1)}
	select {
	case l.toggleCh <- req:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	select {
	case rep := <-req.reply:
		return rep.mode, rep.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Status returns a snapshot taken on the loop goroutine.
func (l *Loop) Status(ctx context.Context) (Status, error) {
	req := statusRequest{reply: make(chan Status, 1)}
	select {
	case l.statusCh <- req:
	case <-ctx.Done():
		return Status{}, ctx.Err()
	}
	select {
	case st := <-req.reply:
		return st, nil
	case <-ctx.Done():
		return Status{}, ctx.Err()
	}
}

// Subscribe adds a listener for mode changes.
func (l *Loop) Subscribe() chan mode.Mode {
	ch := make(chan mode.Mode, 10)
	l.mu.Lock()
	l.listeners = append(l.listeners, ch)
	l.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener.
func (l *Loop) Unsubscribe(ch chan mode.Mode) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, listener := range l.listeners {
		if listener == ch {
			l.listeners = append(l.listeners[:i], l.listeners[i+1:]...)
			close(ch)
			break
		}
	}
}

// handleToggle performs the switch and surfaces failures as a transient
// notification instead of crashing; the controller guarantees the mode
// and window attributes stayed consistent.
func (l *Loop) handleToggle() (mode.Mode, error) {
	m, err := l.ctrl.Toggle()
	if err != nil {
		if nerr := l.notifier.Notify("ShareFrame", "Mode switch failed: "+err.Error()); nerr != nil {
			logger.WithComponent("app").Debug().Err(nerr).Msg("Notification failed")
		}
		return m, err
	}
	l.publish(m)
	return m, nil
}

// snapshot reads geometry on demand; it is never cached across mode
// switches, so drags made while aligning show up immediately.
func (l *Loop) snapshot() Status {
	st := Status{
		Mode:     l.ctrl.Mode(),
		Excluded: l.ctrl.Excluded(),
	}
	if geom, err := l.frame.Geometry(); err == nil {
		st.Geometry = geom
	} else {
		logger.WithComponent("app").Debug().Err(err).Msg("Failed to read frame geometry")
	}
	return st
}

// publish notifies all listeners of a mode change.
func (l *Loop) publish(m mode.Mode) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, listener := range l.listeners {
		select {
		case listener <- m:
		default:
			// Skip if channel is full.
		}
	}
}
