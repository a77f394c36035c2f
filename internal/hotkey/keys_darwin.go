//go:build darwin

package hotkey

import "golang.design/x/hotkey"

// modifierMap maps config modifiers to macOS modifier masks.
var modifierMap = map[Modifier]hotkey.Modifier{
	ModCtrl:  hotkey.ModCtrl,
	ModShift: hotkey.ModShift,
	ModAlt:   hotkey.ModOption,
	ModSuper: hotkey.ModCmd,
}

// platformKeyMap covers keys without portable named codes.
// Values are Carbon virtual-key codes.
var platformKeyMap = map[string]hotkey.Key{
	"[": hotkey.Key(0x21), // kVK_ANSI_LeftBracket
	"]": hotkey.Key(0x1E), // kVK_ANSI_RightBracket
}
