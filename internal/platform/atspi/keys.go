//go:build linux

package atspi

import (
	"fmt"
	"strings"
)

// X11 keysyms for named keys.
var keysymMap = map[string]uint32{
	"return": 0xff0d, "enter": 0xff0d, "tab": 0xff09, "space": 0x20,
	"backspace": 0xff08, "delete": 0xffff, "escape": 0xff1b, "esc": 0xff1b,
	"up": 0xff52, "down": 0xff54, "left": 0xff51, "right": 0xff53,
	"home": 0xff50, "end": 0xff57, "pageup": 0xff55, "pagedown": 0xff56,
}

// X11 modifier masks.
var modifierMap = map[string]uint32{
	"shift": 1 << 0,
	"ctrl":  1 << 2, "control": 1 << 2,
	"alt": 1 << 3, "opt": 1 << 3, "option": 1 << 3,
	"super": 1 << 6, "cmd": 1 << 6, "command": 1 << 6,
}

func keysym(k string) (uint32, bool) {
	if sym, ok := keysymMap[k]; ok {
		return sym, true
	}
	if len(k) == 1 && (k[0] >= 'a' && k[0] <= 'z' || k[0] >= '0' && k[0] <= '9') {
		return uint32(k[0]), true
	}
	var n int
	if _, err := fmt.Sscanf(k, "f%d", &n); err == nil && n >= 1 && n <= 12 && k == fmt.Sprintf("f%d", n) {
		return 0xffbe + uint32(n-1), true
	}
	return 0, false
}

// parseKeyCombo splits keys into one keysym and a modifier mask.
func parseKeyCombo(keys []string) (sym, mods uint32, err error) {
	found := false
	for _, k := range keys {
		k = strings.ToLower(strings.TrimSpace(k))
		if mod, ok := modifierMap[k]; ok {
			mods |= mod
		} else if s, ok := keysym(k); ok {
			sym = s
			found = true
		} else {
			return 0, 0, fmt.Errorf("unknown key: %q", k)
		}
	}
	if !found {
		return 0, 0, fmt.Errorf("no key specified in combo, only modifiers")
	}
	return sym, mods, nil
}
