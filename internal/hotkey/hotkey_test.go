package hotkey

import (
	"errors"
	"testing"
	"time"

	"golang.design/x/hotkey"
)

func TestParseDefaultBinding(t *testing.T) {
	b, err := Parse("ctrl+shift+[")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.Mods) != 2 || b.Mods[0] != ModCtrl || b.Mods[1] != ModShift {
		t.Fatalf("unexpected modifiers: %v", b.Mods)
	}
	if b.Key != "[" {
		t.Fatalf("key: got %q, want %q", b.Key, "[")
	}
	if b.String() != "ctrl+shift+[" {
		t.Fatalf("String: got %q", b.String())
	}
}

func TestParseNormalizesCaseAndAliases(t *testing.T) {
	cases := []struct {
		combo string
		mods  []Modifier
		key   string
	}{
		{"Ctrl+Shift+S", []Modifier{ModCtrl, ModShift}, "s"},
		{"CONTROL+ALT+q", []Modifier{ModCtrl, ModAlt}, "q"},
		{"win+space", []Modifier{ModSuper}, "space"},
		{"cmd+shift+4", []Modifier{ModSuper, ModShift}, "4"},
		{"option+x", []Modifier{ModAlt}, "x"},
	}
	for _, tc := range cases {
		b, err := Parse(tc.combo)
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error: %v", tc.combo, err)
		}
		if len(b.Mods) != len(tc.mods) {
			t.Fatalf("Parse(%q): mods %v, want %v", tc.combo, b.Mods, tc.mods)
		}
		for i := range tc.mods {
			if b.Mods[i] != tc.mods[i] {
				t.Fatalf("Parse(%q): mods %v, want %v", tc.combo, b.Mods, tc.mods)
			}
		}
		if b.Key != tc.key {
			t.Fatalf("Parse(%q): key %q, want %q", tc.combo, b.Key, tc.key)
		}
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	for _, combo := range []string{
		"",
		"[",              // no modifier
		"ctrl+",          // missing key
		"bogus+x",        // unknown modifier
		"ctrl+shift+F13", // unsupported key
	} {
		if _, err := Parse(combo); err == nil {
			t.Fatalf("Parse(%q): expected error", combo)
		}
	}
}

func TestLookupKeyCoversBracket(t *testing.T) {
	// The default binding's key must resolve on every supported platform.
	if _, err := lookupKey("["); err != nil {
		t.Fatalf("lookupKey([): %v", err)
	}
	if _, err := lookupKey("a"); err != nil {
		t.Fatalf("lookupKey(a): %v", err)
	}
}

// fakeRegistration stands in for an OS-accepted binding.
type fakeRegistration struct {
	keydown      chan hotkey.Event
	unregistered bool
}

func (f *fakeRegistration) Keydown() <-chan hotkey.Event { return f.keydown }
func (f *fakeRegistration) Unregister() error {
	f.unregistered = true
	return nil
}

func TestStartFailsWhenRegistrationRejected(t *testing.T) {
	l := NewListener(Binding{Mods: []Modifier{ModCtrl, ModShift}, Key: "["})
	l.registrar = func([]hotkey.Modifier, hotkey.Key) (registration, error) {
		return nil, errors.New("combination already grabbed")
	}

	err := l.Start()
	if err == nil {
		t.Fatal("expected registration error")
	}
	if !errors.Is(err, ErrRegistration) {
		t.Fatalf("got %v, want ErrRegistration", err)
	}

	// A failed Start leaves no binding behind and delivers no events.
	if l.hk != nil {
		t.Fatal("failed registration must not retain a binding")
	}
	select {
	case <-l.Events():
		t.Fatal("failed registration must not deliver events")
	default:
	}
}

func TestListenerForwardsKeydown(t *testing.T) {
	reg := &fakeRegistration{keydown: make(chan hotkey.Event, 1)}
	l := NewListener(Binding{Mods: []Modifier{ModCtrl}, Key: "a"})
	l.registrar = func([]hotkey.Modifier, hotkey.Key) (registration, error) {
		return reg, nil
	}

	if err := l.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reg.keydown <- hotkey.Event{}
	select {
	case <-l.Events():
	case <-time.After(time.Second):
		t.Fatal("keydown was not forwarded")
	}

	l.Stop()
	if !reg.unregistered {
		t.Fatal("Stop must release the OS binding")
	}
}

func TestListenerEventChannelDropsWhenFull(t *testing.T) {
	l := NewListener(Binding{Mods: []Modifier{ModCtrl}, Key: "a"})

	// Fill the buffer beyond capacity the way the forwarding goroutine
	// does: extra events must be dropped, not block.
	for i := 0; i < 10; i++ {
		select {
		case l.events <- struct{}{}:
		default:
		}
	}

	if got := len(l.events); got != cap(l.events) {
		t.Fatalf("buffered events: got %d, want %d", got, cap(l.events))
	}
}
