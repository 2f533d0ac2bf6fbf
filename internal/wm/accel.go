package wm

import (
	"fmt"
	"strings"
)

// splitAccelerator splits a GNOME accelerator such as "<Super><Shift>j"
// or "<Primary>F2" into its modifier tags (lowercased, without angle
// brackets) and the trailing key name. The key name's case is preserved
// for the caller's keymap lookup.
func splitAccelerator(accel string) (mods []string, key string, err error) {
	rest := strings.TrimSpace(accel)
	for strings.HasPrefix(rest, "<") {
		end := strings.Index(rest, ">")
		if end < 0 {
			return nil, "", fmt.Errorf("unterminated modifier in accelerator '%s'", accel)
		}
		mods = append(mods, strings.ToLower(rest[1:end]))
		rest = rest[end+1:]
	}
	if rest == "" {
		return nil, "", fmt.Errorf("accelerator '%s' has no key", accel)
	}
	if strings.ContainsAny(rest, "<>") {
		return nil, "", fmt.Errorf("malformed accelerator '%s'", accel)
	}
	return mods, rest, nil
}
