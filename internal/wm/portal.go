//go:build linux

package wm

import (
	"fmt"
	"log"
	"os"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/godbus/dbus/v5"

	"github.com/TanaroSch/shellbind/internal/keybind"
)

const (
	portalDest   = "org.freedesktop.portal.Desktop"
	portalPath   = "/org/freedesktop/portal/desktop"
	portalIface  = "org.freedesktop.portal.GlobalShortcuts"
	requestIface = "org.freedesktop.portal.Request"
)

// PortalBackend registers bindings through the XDG desktop portal's
// GlobalShortcuts interface (org.freedesktop.portal.GlobalShortcuts).
// This is the route to global shortcuts on Wayland compositors; the
// compositor shows the user a consent dialog when shortcuts are bound.
type PortalBackend struct {
	conn    *dbus.Conn
	session dbus.ObjectPath

	mu       sync.Mutex
	handlers map[string]keybind.Handler
	triggers map[string][]string

	tokenSeq atomic.Uint64
}

// NewPortalBackend connects to the session bus and creates a
// GlobalShortcuts session.
func NewPortalBackend() (*PortalBackend, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connecting to session bus: %w", err)
	}

	b := &PortalBackend{
		conn:     conn,
		handlers: make(map[string]keybind.Handler),
		triggers: make(map[string][]string),
	}
	if err := b.createSession(); err != nil {
		return nil, err
	}

	go b.dispatchActivations()

	log.Printf("Portal backend: session %s created", b.session)
	return b, nil
}

// Name returns the name of this backend.
func (b *PortalBackend) Name() string {
	return "XDG Desktop Portal (GlobalShortcuts)"
}

// IsAvailable returns true once the portal session exists.
func (b *PortalBackend) IsAvailable() bool {
	return b.session != ""
}

// AddKeybinding registers a binding. The accelerator list is read from
// the settings key named after the binding and offered to the portal as
// the preferred trigger; the compositor has the final say on the actual
// trigger. BindShortcuts replaces the session's whole shortcut list, so
// every registration re-binds the accumulated set.
func (b *PortalBackend) AddKeybinding(name string, settings keybind.Settings, _ keybind.KeybindingFlags, _ keybind.ActionMode, handler keybind.Handler) error {
	accels, err := settings.GetStrv(name)
	if err != nil {
		return fmt.Errorf("reading accelerators for '%s': %w", name, err)
	}

	b.mu.Lock()
	b.handlers[name] = handler
	b.triggers[name] = accels
	shortcuts := b.shortcutListLocked()
	b.mu.Unlock()

	if err := b.bindShortcuts(shortcuts); err != nil {
		b.mu.Lock()
		delete(b.handlers, name)
		delete(b.triggers, name)
		b.mu.Unlock()
		return fmt.Errorf("binding '%s': %w", name, err)
	}

	log.Printf("Portal backend: bound '%s' (%d shortcut(s) total)", name, len(shortcuts))
	return nil
}

// RemoveKeybinding unregisters a binding by name. The portal has no
// per-shortcut unbind, so the session is re-bound without it. Unknown
// names are a no-op.
func (b *PortalBackend) RemoveKeybinding(name string) error {
	b.mu.Lock()
	if _, exists := b.handlers[name]; !exists {
		b.mu.Unlock()
		log.Printf("Portal backend: '%s' not bound, ignoring remove", name)
		return nil
	}
	delete(b.handlers, name)
	delete(b.triggers, name)
	shortcuts := b.shortcutListLocked()
	b.mu.Unlock()

	if err := b.bindShortcuts(shortcuts); err != nil {
		return fmt.Errorf("unbinding '%s': %w", name, err)
	}
	log.Printf("Portal backend: unbound '%s'", name)
	return nil
}

// portalShortcut marshals to the portal's (s, a{sv}) shortcut tuple.
type portalShortcut struct {
	ID      string
	Options map[string]dbus.Variant
}

// shortcutListLocked renders the current bindings as a portal shortcut
// list, sorted by id for deterministic bind calls. Caller must hold the
// mutex.
func (b *PortalBackend) shortcutListLocked() []portalShortcut {
	names := make([]string, 0, len(b.handlers))
	for name := range b.handlers {
		names = append(names, name)
	}
	sort.Strings(names)

	shortcuts := make([]portalShortcut, 0, len(names))
	for _, name := range names {
		opts := map[string]dbus.Variant{
			"description": dbus.MakeVariant(name),
		}
		if t := b.triggers[name]; len(t) > 0 {
			opts["preferred_trigger"] = dbus.MakeVariant(t[0])
		}
		shortcuts = append(shortcuts, portalShortcut{ID: name, Options: opts})
	}
	return shortcuts
}

func (b *PortalBackend) createSession() error {
	token := b.nextToken()
	results, err := b.request("CreateSession", map[string]dbus.Variant{
		"handle_token":         dbus.MakeVariant(token),
		"session_handle_token": dbus.MakeVariant(token),
	})
	if err != nil {
		return fmt.Errorf("creating portal session: %w", err)
	}

	v, ok := results["session_handle"]
	if !ok {
		return fmt.Errorf("portal returned no session handle")
	}
	switch h := v.Value().(type) {
	case dbus.ObjectPath:
		b.session = h
	case string:
		b.session = dbus.ObjectPath(h)
	default:
		return fmt.Errorf("unexpected session handle type %T", v.Value())
	}
	return nil
}

func (b *PortalBackend) bindShortcuts(shortcuts []portalShortcut) error {
	// An empty parent-window identifier lets the compositor place the
	// consent dialog on its own.
	_, err := b.request("BindShortcuts", b.session, shortcuts, "", map[string]dbus.Variant{
		"handle_token": dbus.MakeVariant(b.nextToken()),
	})
	return err
}

// request performs one portal method call and waits for the matching
// org.freedesktop.portal.Request Response signal. No timeout is applied:
// BindShortcuts legitimately blocks on the user's consent dialog.
func (b *PortalBackend) request(method string, args ...interface{}) (map[string]dbus.Variant, error) {
	// Subscribe before issuing the call so the response cannot race us.
	signals := make(chan *dbus.Signal, 16)
	b.conn.Signal(signals)
	defer b.conn.RemoveSignal(signals)

	if err := b.conn.AddMatchSignal(
		dbus.WithMatchInterface(requestIface),
		dbus.WithMatchMember("Response"),
	); err != nil {
		return nil, fmt.Errorf("subscribing to portal responses: %w", err)
	}

	var request dbus.ObjectPath
	obj := b.conn.Object(portalDest, portalPath)
	if err := obj.Call(portalIface+"."+method, 0, args...).Store(&request); err != nil {
		return nil, fmt.Errorf("calling %s: %w", method, err)
	}

	for sig := range signals {
		if sig.Name != requestIface+".Response" || sig.Path != request {
			continue
		}
		if len(sig.Body) != 2 {
			return nil, fmt.Errorf("malformed portal response for %s", method)
		}
		code, _ := sig.Body[0].(uint32)
		if code != 0 {
			// 1 means the user cancelled, 2 is an error; both end the
			// request.
			return nil, fmt.Errorf("portal request %s failed with response code %d", method, code)
		}
		results, _ := sig.Body[1].(map[string]dbus.Variant)
		return results, nil
	}
	return nil, fmt.Errorf("session bus closed while waiting for %s response", method)
}

// dispatchActivations forwards GlobalShortcuts Activated signals to the
// bound handlers.
func (b *PortalBackend) dispatchActivations() {
	signals := make(chan *dbus.Signal, 16)
	b.conn.Signal(signals)

	if err := b.conn.AddMatchSignal(
		dbus.WithMatchInterface(portalIface),
		dbus.WithMatchMember("Activated"),
	); err != nil {
		log.Printf("Portal backend: subscribing to activations: %v", err)
		return
	}

	for sig := range signals {
		// Activated carries (session_handle o, shortcut_id s,
		// timestamp t, options a{sv}).
		if sig.Name != portalIface+".Activated" || len(sig.Body) < 2 {
			continue
		}
		if session, ok := sig.Body[0].(dbus.ObjectPath); ok && session != b.session {
			continue
		}
		id, ok := sig.Body[1].(string)
		if !ok {
			continue
		}

		b.mu.Lock()
		handler := b.handlers[id]
		b.mu.Unlock()
		if handler == nil {
			continue
		}

		log.Printf("Keybinding '%s' activated via portal", id)
		go handler()
	}
}

func (b *PortalBackend) nextToken() string {
	return fmt.Sprintf("shellbind_%d_%d", os.Getpid(), b.tokenSeq.Add(1))
}
