//go:build linux

package wm

import (
	"fmt"
	"strings"

	"golang.design/x/hotkey"
)

// parseAccelerator converts a GNOME accelerator (e.g. "<Super>j") into
// golang.design/x/hotkey modifiers and key.
//
// Linux implementation notes (X11):
// - Alt is typically Mod1
// - Super is typically Mod4
func parseAccelerator(accel string) ([]hotkey.Modifier, hotkey.Key, error) {
	tags, keyName, err := splitAccelerator(accel)
	if err != nil {
		return nil, 0, err
	}

	key, ok := accelKeys[strings.ToLower(keyName)]
	if !ok {
		return nil, 0, fmt.Errorf("unsupported key '%s' in accelerator '%s'", keyName, accel)
	}

	var modifiers []hotkey.Modifier
	for _, tag := range tags {
		switch tag {
		case "control", "ctrl", "primary":
			modifiers = append(modifiers, hotkey.ModCtrl)
		case "shift":
			modifiers = append(modifiers, hotkey.ModShift)
		case "alt":
			modifiers = append(modifiers, hotkey.Mod1)
		case "super":
			modifiers = append(modifiers, hotkey.Mod4)
		default:
			return nil, 0, fmt.Errorf("unsupported modifier '%s' in accelerator '%s'", tag, accel)
		}
	}

	return modifiers, key, nil
}
