package keybind

import "errors"

// ErrSchemaNotFound is returned by schema sources when the compiled cache
// does not contain the requested schema id. Seeing it from Enable usually
// means the schema document never compiled.
var ErrSchemaNotFound = errors.New("schema not found")

// Handler is the callback invoked by the window manager whenever one of a
// binding's key sequences is triggered. The registry stores it but never
// calls it itself.
type Handler func()

// KeybindingFlags mirrors the host window manager's keybinding flag
// bitmask. The registry always registers with KeybindingNone.
type KeybindingFlags uint32

const (
	KeybindingNone             KeybindingFlags = 0
	KeybindingPerWindow        KeybindingFlags = 1 << 0
	KeybindingBuiltin          KeybindingFlags = 1 << 1
	KeybindingIgnoreAutorepeat KeybindingFlags = 1 << 2
)

// ActionMode mirrors the shell's action-mode bitmask controlling in which
// shell states a keybinding may trigger. Values combine with bitwise OR.
type ActionMode uint32

const (
	ActionModeNone         ActionMode = 0
	ActionModeNormal       ActionMode = 1 << 0
	ActionModeOverview     ActionMode = 1 << 1
	ActionModeLockScreen   ActionMode = 1 << 2
	ActionModeUnlockScreen ActionMode = 1 << 3
	ActionModeLoginScreen  ActionMode = 1 << 4
	ActionModeSystemModal  ActionMode = 1 << 5
	ActionModeLookingGlass ActionMode = 1 << 6
	ActionModeMessageTray  ActionMode = 1 << 7
	ActionModePopup        ActionMode = 1 << 8
)

// Settings is a live configuration handle bound to one located schema.
// It is handed to the window manager at registration time, which reads a
// binding's accelerators from the string-array key of the same name.
type Settings interface {
	// SchemaID returns the id of the schema this handle is bound to.
	SchemaID() string

	// GetStrv reads a string-array key.
	GetStrv(key string) ([]string, error)
}

// SchemaSource locates schemas inside one compiled schema cache.
type SchemaSource interface {
	// Lookup finds a schema by id and returns a settings handle bound to
	// it. Returns an error wrapping ErrSchemaNotFound when the id is not
	// present.
	Lookup(id string) (Settings, error)
}

// SchemaSourceOpener opens the compiled schema cache in a directory.
type SchemaSourceOpener interface {
	OpenDirectory(dir string) (SchemaSource, error)
}

// Compiler turns the schema document in a directory into a compiled
// cache loadable through a SchemaSourceOpener.
type Compiler interface {
	// Compile processes every schema document in dir. It blocks until the
	// compile finishes and reports failures instead of swallowing them.
	Compile(dir string) error
}

// WindowManager is the host facility that makes a named keybinding live.
// Implementations are thin adapters over whatever binding API the target
// platform exposes.
type WindowManager interface {
	// AddKeybinding registers a binding under its name. The accelerators
	// are read from the settings key named after the binding.
	AddKeybinding(name string, settings Settings, flags KeybindingFlags, modes ActionMode, handler Handler) error

	// RemoveKeybinding unregisters a binding by name. Unknown names are
	// the host's concern; callers do not check existence first.
	RemoveKeybinding(name string) error
}
