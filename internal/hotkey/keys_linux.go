//go:build linux

package hotkey

import "golang.design/x/hotkey"

// modifierMap maps config modifiers to X11 modifier masks.
// Alt is Mod1 and Super/Win is Mod4 under X11.
var modifierMap = map[Modifier]hotkey.Modifier{
	ModCtrl:  hotkey.ModCtrl,
	ModShift: hotkey.ModShift,
	ModAlt:   hotkey.Mod1,
	ModSuper: hotkey.Mod4,
}

// platformKeyMap covers keys without portable named codes.
// Values are X11 keysyms.
var platformKeyMap = map[string]hotkey.Key{
	"[": hotkey.Key(0x005b), // XK_bracketleft
	"]": hotkey.Key(0x005d), // XK_bracketright
}
