// Package hotkey registers the process-wide toggle key combination and
// forwards key-down events to the app loop.
package hotkey

import (
	"errors"
	"fmt"
	"strings"

	"golang.design/x/hotkey"

	"github.com/bryanchriswhite/shareframe/internal/logger"
)

// ErrRegistration is returned when the OS rejects the binding, typically
// because another process already owns the combination. Startup-fatal.
var ErrRegistration = errors.New("hotkey registration failed")

// Modifier is a platform-independent modifier name. Per-platform files
// map it onto the OS modifier mask.
type Modifier string

const (
	ModCtrl  Modifier = "ctrl"
	ModShift Modifier = "shift"
	ModAlt   Modifier = "alt"
	ModSuper Modifier = "super"
)

// Binding is a fixed key combination, registered once at startup and
// constant for the process lifetime.
type Binding struct {
	Mods []Modifier
	Key  string
}

// String renders the binding in config syntax, e.g. "ctrl+shift+[".
func (b Binding) String() string {
	parts := make([]string, 0, len(b.Mods)+1)
	for _, m := range b.Mods {
		parts = append(parts, string(m))
	}
	parts = append(parts, b.Key)
	return strings.Join(parts, "+")
}

// Parse parses a combination like "ctrl+shift+[". The last element is the
// key; everything before it must be a modifier. At least one modifier is
// required since a bare global key would shadow normal typing.
func Parse(combo string) (Binding, error) {
	parts := strings.Split(strings.ToLower(combo), "+")

	// A trailing "+" means the key itself is "+": "ctrl++" splits into
	// ["ctrl", "", ""].
	if len(parts) >= 2 && parts[len(parts)-1] == "" && parts[len(parts)-2] == "" {
		parts = append(parts[:len(parts)-2], "+")
	}

	if len(parts) < 2 {
		return Binding{}, fmt.Errorf("invalid hotkey %q: need at least one modifier and a key", combo)
	}

	var b Binding
	for _, part := range parts[:len(parts)-1] {
		switch strings.TrimSpace(part) {
		case "ctrl", "control":
			b.Mods = append(b.Mods, ModCtrl)
		case "shift":
			b.Mods = append(b.Mods, ModShift)
		case "alt", "option":
			b.Mods = append(b.Mods, ModAlt)
		case "super", "win", "cmd", "meta":
			b.Mods = append(b.Mods, ModSuper)
		default:
			return Binding{}, fmt.Errorf("invalid hotkey %q: unknown modifier %q", combo, part)
		}
	}

	b.Key = strings.TrimSpace(parts[len(parts)-1])
	if b.Key == "" {
		return Binding{}, fmt.Errorf("invalid hotkey %q: missing key", combo)
	}
	if _, err := lookupKey(b.Key); err != nil {
		return Binding{}, fmt.Errorf("invalid hotkey %q: %w", combo, err)
	}

	return b, nil
}

// registration is the handle on a key combination the OS accepted.
// *hotkey.Hotkey satisfies it; tests substitute a fake.
type registration interface {
	Keydown() <-chan hotkey.Event
	Unregister() error
}

// registerHotkey claims the combination with the OS.
func registerHotkey(mods []hotkey.Modifier, key hotkey.Key) (registration, error) {
	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return nil, err
	}
	return hk, nil
}

// Listener owns the registered OS binding. Register once with Start,
// release with Stop.
type Listener struct {
	binding   Binding
	registrar func([]hotkey.Modifier, hotkey.Key) (registration, error)
	hk        registration
	events    chan struct{}
	stop      chan struct{}
}

// NewListener creates a listener for the given binding.
func NewListener(binding Binding) *Listener {
	return &Listener{
		binding:   binding,
		registrar: registerHotkey,
		events:    make(chan struct{}, 4),
		stop:      make(chan struct{}),
	}
}

// Events delivers one value per observed key-down. Events are dropped
// when the channel is full; a queued toggle is already pending.
func (l *Listener) Events() <-chan struct{} {
	return l.events
}

// Start registers the binding with the OS and begins forwarding key-down
// events. Registration failure is reported via ErrRegistration.
func (l *Listener) Start() error {
	log := logger.WithComponent("hotkey")

	mods, err := lookupModifiers(l.binding.Mods)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRegistration, err)
	}
	key, err := lookupKey(l.binding.Key)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRegistration, err)
	}

	hk, err := l.registrar(mods, key)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRegistration, l.binding, err)
	}
	l.hk = hk

	log.Info().Str("binding", l.binding.String()).Msg("Global hotkey registered")

	go func() {
		for {
			select {
			case <-l.stop:
				return
			case <-l.hk.Keydown():
				select {
				case l.events <- struct{}{}:
				default:
				}
			}
		}
	}()

	return nil
}

// Stop releases the OS binding.
func (l *Listener) Stop() {
	close(l.stop)
	if l.hk != nil {
		if err := l.hk.Unregister(); err != nil {
			logger.WithComponent("hotkey").Warn().
				Err(err).
				Msg("Failed to unregister hotkey")
		}
	}
}

// lookupModifiers maps config modifiers onto the platform modifier mask.
func lookupModifiers(mods []Modifier) ([]hotkey.Modifier, error) {
	out := make([]hotkey.Modifier, 0, len(mods))
	for _, m := range mods {
		hm, ok := modifierMap[m]
		if !ok {
			return nil, fmt.Errorf("modifier %q not supported on this platform", m)
		}
		out = append(out, hm)
	}
	return out, nil
}

// lookupKey maps a key name onto the platform key code.
func lookupKey(name string) (hotkey.Key, error) {
	if k, ok := platformKeyMap[name]; ok {
		return k, nil
	}
	if k, ok := baseKeyMap[name]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("unsupported key %q", name)
}

// baseKeyMap covers keys with portable named codes.
var baseKeyMap = map[string]hotkey.Key{
	"a": hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD,
	"e": hotkey.KeyE, "f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH,
	"i": hotkey.KeyI, "j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO, "p": hotkey.KeyP,
	"q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,
	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,
	"space": hotkey.KeySpace,
}
