package wm

import (
	"errors"

	"github.com/TanaroSch/shellbind/internal/keybind"
)

// ErrBackendNotAvailable is returned when a backend cannot be used on the
// current system.
var ErrBackendNotAvailable = errors.New("backend not available on this system")

// Backend is a window-manager implementation the keybinding registry can
// register bindings with. Separate backends cover the different display
// servers (Wayland via the desktop portal, X11/Windows via OS hotkeys)
// without the registry knowing the difference.
type Backend interface {
	keybind.WindowManager

	// Name returns a human-readable name for this backend (for logging).
	Name() string

	// IsAvailable returns true if this backend can be used on the current system.
	IsAvailable() bool
}
