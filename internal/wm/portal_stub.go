//go:build !linux

package wm

import (
	"github.com/TanaroSch/shellbind/internal/keybind"
)

// PortalBackend stub for non-Linux platforms. The desktop portal is
// Linux-specific; this keeps the code compiling on Windows and macOS.
type PortalBackend struct{}

// NewPortalBackend always fails on non-Linux platforms.
func NewPortalBackend() (*PortalBackend, error) {
	return nil, ErrBackendNotAvailable
}

// Name returns the name of this backend.
func (b *PortalBackend) Name() string {
	return "XDG Desktop Portal (Linux only)"
}

// IsAvailable always returns false on non-Linux platforms.
func (b *PortalBackend) IsAvailable() bool {
	return false
}

// AddKeybinding always returns an error on non-Linux platforms.
func (b *PortalBackend) AddKeybinding(string, keybind.Settings, keybind.KeybindingFlags, keybind.ActionMode, keybind.Handler) error {
	return ErrBackendNotAvailable
}

// RemoveKeybinding is a no-op on non-Linux platforms.
func (b *PortalBackend) RemoveKeybinding(string) error {
	return nil
}
