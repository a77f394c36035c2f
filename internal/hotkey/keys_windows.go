//go:build windows

package hotkey

import "golang.design/x/hotkey"

// modifierMap maps config modifiers to Win32 modifier masks.
var modifierMap = map[Modifier]hotkey.Modifier{
	ModCtrl:  hotkey.ModCtrl,
	ModShift: hotkey.ModShift,
	ModAlt:   hotkey.ModAlt,
	ModSuper: hotkey.ModWin,
}

// platformKeyMap covers keys without portable named codes.
// Values are Win32 virtual-key codes.
var platformKeyMap = map[string]hotkey.Key{
	"[": hotkey.Key(0xDB), // VK_OEM_4
	"]": hotkey.Key(0xDD), // VK_OEM_6
}
