package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bryanchriswhite/shareframe/internal/config"
	"github.com/bryanchriswhite/shareframe/internal/mode"
	"github.com/bryanchriswhite/shareframe/internal/protect"
)

// stubFrame satisfies window.Frame with settable geometry and an optional
// injected failure for attribute calls.
type stubFrame struct {
	geometry config.Geometry
	failErr  error
}

func (f *stubFrame) Geometry() (config.Geometry, error) { return f.geometry, nil }
func (f *stubFrame) SetVisible(bool) error              { return f.failErr }
func (f *stubFrame) SetDecorated(bool) error            { return f.failErr }
func (f *stubFrame) SetOpacity(float64) error           { return f.failErr }
func (f *stubFrame) SetClickThrough(bool) error         { return f.failErr }
func (f *stubFrame) SetAlwaysOnTop(bool) error          { return f.failErr }
func (f *stubFrame) Raise() error                       { return f.failErr }
func (f *stubFrame) Close() error                       { return nil }
func (f *stubFrame) Protector() protect.Protector {
	return protect.Func(func(bool) error { return nil })
}

// recordingNotifier captures notifications sent by the loop.
type recordingNotifier struct {
	notices chan string
}

func (n *recordingNotifier) Notify(summary, body string) error {
	select {
	case n.notices <- body:
	default:
	}
	return nil
}

func newTestLoop(frame *stubFrame) (*Loop, chan struct{}, *recordingNotifier) {
	ctrl := mode.NewController(frame, protect.Func(func(bool) error { return nil }), 0.9)
	hotkeyCh := make(chan struct{}, 4)
	notifier := &recordingNotifier{notices: make(chan string, 4)}
	return New(ctrl, frame, notifier, hotkeyCh), hotkeyCh, notifier
}

func waitStatus(t *testing.T, l *Loop) Status {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	st, err := l.Status(ctx)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	return st
}

func TestHotkeyTogglesMode(t *testing.T) {
	frame := &stubFrame{geometry: config.Geometry{X: 150, Y: 120, Width: 400, Height: 300}}
	l, hotkeyCh, _ := newTestLoop(frame)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	hotkeyCh <- struct{}{}

	deadline := time.After(time.Second)
	for {
		st := waitStatus(t, l)
		if st.Mode == mode.ModeSharing {
			if st.Excluded {
				t.Fatal("sharing mode must not be excluded from capture")
			}
			if st.Geometry != frame.geometry {
				t.Fatalf("geometry: got %+v, want %+v", st.Geometry, frame.geometry)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatalf("mode never switched, still %s", st.Mode)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestAPIToggleRoundTrip(t *testing.T) {
	frame := &stubFrame{geometry: config.Geometry{X: 0, Y: 0, Width: 800, Height: 600}}
	l, _, _ := newTestLoop(frame)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	m, err := l.Toggle(ctx)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if m != mode.ModeSharing {
		t.Fatalf("mode: got %s, want %s", m, mode.ModeSharing)
	}

	m, err = l.Toggle(ctx)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if m != mode.ModeAlignment {
		t.Fatalf("mode: got %s, want %s", m, mode.ModeAlignment)
	}
}

func TestSubscriberSeesModeChanges(t *testing.T) {
	frame := &stubFrame{geometry: config.Geometry{X: 0, Y: 0, Width: 800, Height: 600}}
	l, _, _ := newTestLoop(frame)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	sub := l.Subscribe()
	defer l.Unsubscribe(sub)

	if _, err := l.Toggle(ctx); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	select {
	case m := <-sub:
		if m != mode.ModeSharing {
			t.Fatalf("event: got %s, want %s", m, mode.ModeSharing)
		}
	case <-time.After(time.Second):
		t.Fatal("no mode event received")
	}
}

func TestFailedToggleNotifiesAndKeepsMode(t *testing.T) {
	frame := &stubFrame{
		geometry: config.Geometry{X: 0, Y: 0, Width: 800, Height: 600},
		failErr:  errors.New("attribute rejected"),
	}
	l, hotkeyCh, notifier := newTestLoop(frame)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	hotkeyCh <- struct{}{}

	select {
	case <-notifier.notices:
	case <-time.After(time.Second):
		t.Fatal("no failure notification")
	}

	st := waitStatus(t, l)
	if st.Mode != mode.ModeAlignment {
		t.Fatalf("mode after failed toggle: got %s, want %s", st.Mode, mode.ModeAlignment)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	frame := &stubFrame{geometry: config.Geometry{X: 0, Y: 0, Width: 800, Height: 600}}
	l, _, _ := newTestLoop(frame)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("got %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}
