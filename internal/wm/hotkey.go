package wm

import (
	"fmt"
	"log"
	"sync"

	"golang.design/x/hotkey"

	"github.com/TanaroSch/shellbind/internal/keybind"
)

// HotkeyBackend registers bindings as OS-global hotkeys through
// golang.design/x/hotkey. It supports Windows, macOS and X11 on Linux;
// it does NOT support Wayland (use PortalBackend there).
type HotkeyBackend struct {
	mu            sync.Mutex
	bound         map[string]*boundBinding
	displayServer DisplayServer
}

// boundBinding tracks the OS hotkeys registered for one binding name.
// One binding may hold several accelerators; any of them triggers the
// handler.
type boundBinding struct {
	hotkeys []*hotkey.Hotkey
	stop    chan struct{}
}

// NewHotkeyBackend creates a backend using golang.design/x/hotkey.
func NewHotkeyBackend() *HotkeyBackend {
	return &HotkeyBackend{
		bound:         make(map[string]*boundBinding),
		displayServer: DetectDisplayServer(),
	}
}

// Name returns the name of this backend.
func (b *HotkeyBackend) Name() string {
	return "OS hotkeys (golang.design/x/hotkey)"
}

// IsAvailable checks if this backend can be used on the current system.
func (b *HotkeyBackend) IsAvailable() bool {
	switch b.displayServer {
	case DisplayServerWindows, DisplayServerX11:
		return true
	default:
		return false
	}
}

// AddKeybinding registers a binding. The accelerator list is read from
// the settings key named after the binding, the same place the shell's
// own binding facility reads it from. Registering a name twice replaces
// the earlier registration.
func (b *HotkeyBackend) AddKeybinding(name string, settings keybind.Settings, _ keybind.KeybindingFlags, _ keybind.ActionMode, handler keybind.Handler) error {
	accels, err := settings.GetStrv(name)
	if err != nil {
		return fmt.Errorf("reading accelerators for '%s': %w", name, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.bound[name]; exists {
		log.Printf("Hotkey backend: '%s' already registered, replacing", name)
		b.removeLocked(name)
	}

	bb := &boundBinding{stop: make(chan struct{})}
	for _, accel := range accels {
		modifiers, key, err := parseAccelerator(accel)
		if err != nil {
			unwind(bb)
			return fmt.Errorf("parsing accelerator '%s' for '%s': %w", accel, name, err)
		}

		hk := hotkey.New(modifiers, key)
		if err := hk.Register(); err != nil {
			unwind(bb)
			return fmt.Errorf("registering '%s' for '%s': %w", accel, name, err)
		}
		bb.hotkeys = append(bb.hotkeys, hk)

		go listen(hk, bb.stop, name, accel, handler)
	}

	b.bound[name] = bb
	log.Printf("Hotkey backend: registered '%s' (%d accelerator(s))", name, len(bb.hotkeys))
	return nil
}

// RemoveKeybinding unregisters a binding by name. Unknown names are a
// no-op, matching the host behavior the registry relies on.
func (b *HotkeyBackend) RemoveKeybinding(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.bound[name]; !exists {
		log.Printf("Hotkey backend: '%s' not registered, ignoring remove", name)
		return nil
	}
	b.removeLocked(name)
	log.Printf("Hotkey backend: unregistered '%s'", name)
	return nil
}

// removeLocked tears down one binding. Caller must hold the mutex.
func (b *HotkeyBackend) removeLocked(name string) {
	bb := b.bound[name]
	close(bb.stop)
	for _, hk := range bb.hotkeys {
		if err := hk.Unregister(); err != nil {
			log.Printf("Hotkey backend: unregistering hotkey of '%s': %v", name, err)
		}
	}
	delete(b.bound, name)
}

// unwind releases hotkeys registered before a mid-binding failure so a
// failed AddKeybinding leaves nothing behind.
func unwind(bb *boundBinding) {
	close(bb.stop)
	for _, hk := range bb.hotkeys {
		_ = hk.Unregister()
	}
}

// listen fans keydown events of one OS hotkey into the binding handler
// until stop is closed.
func listen(hk *hotkey.Hotkey, stop <-chan struct{}, name, accel string, handler keybind.Handler) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic in handler for '%s': %v", name, r)
		}
	}()

	for {
		select {
		case <-stop:
			return
		case <-hk.Keydown():
			log.Printf("Keybinding '%s' triggered via %s", name, accel)
			if handler != nil {
				handler()
			}
		}
	}
}
