//go:build !windows && !linux

package wm

import (
	"fmt"

	"golang.design/x/hotkey"
)

// parseAccelerator is not implemented on this OS. The project primarily
// targets Linux and Windows.
func parseAccelerator(accel string) ([]hotkey.Modifier, hotkey.Key, error) {
	return nil, 0, fmt.Errorf("accelerators are not supported on this OS")
}
