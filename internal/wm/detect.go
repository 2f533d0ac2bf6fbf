package wm

import (
	"fmt"
	"log"
	"os"
	"runtime"
)

// DisplayServer represents the type of display server in use.
type DisplayServer int

const (
	DisplayServerUnknown DisplayServer = iota
	DisplayServerWindows
	DisplayServerX11
	DisplayServerWayland
)

func (ds DisplayServer) String() string {
	switch ds {
	case DisplayServerWindows:
		return "Windows"
	case DisplayServerX11:
		return "X11"
	case DisplayServerWayland:
		return "Wayland"
	default:
		return "Unknown"
	}
}

// DetectDisplayServer determines which display server is currently in
// use. Safe to call on any platform.
func DetectDisplayServer() DisplayServer {
	if runtime.GOOS == "windows" {
		return DisplayServerWindows
	}

	// Check Wayland first, it is the more specific signal.
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return DisplayServerWayland
	}
	if os.Getenv("DISPLAY") != "" {
		return DisplayServerX11
	}

	// macOS has its own windowing system; golang.design/x/hotkey supports
	// it, so treat it like the X11 path.
	if runtime.GOOS == "darwin" {
		return DisplayServerX11
	}

	return DisplayServerUnknown
}

// HasPortalSupport checks whether the XDG desktop portal can plausibly be
// reached, which requires a D-Bus session bus.
func HasPortalSupport() bool {
	if runtime.GOOS != "linux" {
		return false
	}
	if os.Getenv("DBUS_SESSION_BUS_ADDRESS") == "" {
		log.Println("D-Bus session bus not available (DBUS_SESSION_BUS_ADDRESS not set)")
		return false
	}
	return true
}

// SelectBackend chooses a window-manager backend for the current
// environment: the desktop portal on Wayland, OS-global hotkeys on
// Windows and X11 (and macOS).
func SelectBackend() (Backend, error) {
	ds := DetectDisplayServer()
	log.Printf("Detected display server: %s", ds)

	switch ds {
	case DisplayServerWayland:
		if !HasPortalSupport() {
			return nil, fmt.Errorf("%w: Wayland session without a D-Bus portal", ErrBackendNotAvailable)
		}
		b, err := NewPortalBackend()
		if err != nil {
			return nil, fmt.Errorf("portal backend: %w", err)
		}
		log.Printf("Selected window-manager backend: %s", b.Name())
		return b, nil

	case DisplayServerWindows, DisplayServerX11:
		b := NewHotkeyBackend()
		if !b.IsAvailable() {
			return nil, fmt.Errorf("%w: %s on %s", ErrBackendNotAvailable, b.Name(), ds)
		}
		log.Printf("Selected window-manager backend: %s for %s", b.Name(), ds)
		return b, nil

	default:
		return nil, fmt.Errorf("%w: unknown display server", ErrBackendNotAvailable)
	}
}
