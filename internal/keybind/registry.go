package keybind

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Registry owns an ordered list of requested keybindings and drives the
// synthesize/compile/load/register pipeline against the host. Hosts that
// only accept new shortcut definitions through a compiled schema cache
// leave no shorter route: the registry writes a schema document naming
// one string-array key per binding, compiles it, loads the result and
// hands the settings handle to the window manager.
//
// A Registry is not safe for concurrent use. The shell environments it
// targets are single-threaded; callers embedding it elsewhere must
// serialize Enable and Disable themselves.
type Registry struct {
	schemaID string
	dir      string

	wm       WindowManager
	schemas  SchemaSourceOpener
	compiler Compiler

	bindings []Binding
	settings Settings
	enabled  bool
}

// New creates a registry for the given short id. The schema id becomes
// SchemaIDPrefix + id; no validation of id characters is performed, so
// the caller must supply a value that yields a legal schema id and path.
//
// dir is the working directory for the schema document and the compiled
// cache; empty means the process temporary directory, resolved once per
// registry. Registries sharing a directory must use distinct ids or
// their schema files collide.
func New(id, dir string, wm WindowManager, schemas SchemaSourceOpener, compiler Compiler) *Registry {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Registry{
		schemaID: SchemaIDPrefix + id,
		dir:      dir,
		wm:       wm,
		schemas:  schemas,
		compiler: compiler,
	}
}

// SchemaID returns the full schema id, e.g. "org.gnome.shell.extensions.demo".
func (r *Registry) SchemaID() string {
	return r.schemaID
}

// SchemaPath returns the schema's hierarchical path: the id with dots
// replaced by slashes, wrapped in leading and trailing slashes.
func (r *Registry) SchemaPath() string {
	return "/" + strings.ReplaceAll(r.schemaID, ".", "/") + "/"
}

// DocumentPath returns the file Enable writes the schema document to.
func (r *Registry) DocumentPath() string {
	return filepath.Join(r.dir, r.schemaID+schemaFileSuffix)
}

// Add appends a binding. Order is preserved through rendering and
// registration. Add never fails locally: duplicate names are not
// rejected here and surface as a compile error at Enable, and sequences
// are passed through to the host's accelerator parser unvalidated.
func (r *Registry) Add(name string, handler Handler, sequences ...string) {
	r.bindings = append(r.bindings, Binding{
		Name:      name,
		Sequences: append([]string(nil), sequences...),
		Handler:   handler,
	})
}

// Bindings returns a copy of the bindings in the order they were added.
func (r *Registry) Bindings() []Binding {
	return append([]Binding(nil), r.bindings...)
}

// Enabled reports whether the bindings are currently registered with the
// window manager.
func (r *Registry) Enabled() bool {
	return r.enabled
}

// Render returns the schema document Enable would write for the current
// binding list.
func (r *Registry) Render() string {
	return renderDocument(r.schemaID, r.SchemaPath(), r.bindings)
}

// build writes the schema document, fully overwriting prior content.
func (r *Registry) build() error {
	path := r.DocumentPath()
	if err := os.WriteFile(path, []byte(r.Render()), 0644); err != nil {
		return fmt.Errorf("writing schema document: %w", err)
	}
	log.Printf("Wrote schema document for %s to %s", r.schemaID, path)
	return nil
}

// load opens the compiled cache and looks up this registry's schema.
func (r *Registry) load() (Settings, error) {
	src, err := r.schemas.OpenDirectory(r.dir)
	if err != nil {
		return nil, fmt.Errorf("opening schema source in %s: %w", r.dir, err)
	}
	settings, err := src.Lookup(r.schemaID)
	if err != nil {
		return nil, fmt.Errorf("looking up schema %s: %w", r.schemaID, err)
	}
	return settings, nil
}

// Enable synthesizes the schema document, compiles it, loads the
// compiled cache and registers every binding with the window manager in
// add order. Bindings are registered with no flags and an action mode
// allowing triggering in the normal and message-tray shell states.
//
// Each step depends on the previous one succeeding and a failure aborts
// the whole call. Registration is the last step, so a failed Enable from
// the initial state performs no host registrations at all; when
// registration itself fails partway there is no rollback and bindings
// registered before the failure stay registered. Enabling an
// already-enabled registry is a no-op.
func (r *Registry) Enable() error {
	if r.enabled {
		log.Printf("Keybindings for %s already enabled, ignoring", r.schemaID)
		return nil
	}

	if err := r.build(); err != nil {
		return err
	}
	if err := r.compiler.Compile(r.dir); err != nil {
		return fmt.Errorf("compiling schemas in %s: %w", r.dir, err)
	}
	settings, err := r.load()
	if err != nil {
		return err
	}

	for _, b := range r.bindings {
		err := r.wm.AddKeybinding(b.Name, settings, KeybindingNone,
			ActionModeNormal|ActionModeMessageTray, b.Handler)
		if err != nil {
			return fmt.Errorf("registering keybinding '%s': %w", b.Name, err)
		}
	}

	r.settings = settings
	r.enabled = true
	log.Printf("Enabled %d keybinding(s) for %s", len(r.bindings), r.schemaID)
	return nil
}

// Disable unregisters every binding in add order. The in-memory list and
// the on-disk artifacts are kept, so a later Enable repeats the full
// pipeline. Disable makes no existence check first: it always issues one
// unregister call per binding and leaves unknown names to the window
// manager, so it is safe to call on a registry that was never enabled.
// All bindings are attempted even when some fail; the first error is
// returned.
func (r *Registry) Disable() error {
	var first error
	for _, b := range r.bindings {
		if err := r.wm.RemoveKeybinding(b.Name); err != nil {
			log.Printf("Unregistering keybinding '%s': %v", b.Name, err)
			if first == nil {
				first = err
			}
		}
	}
	r.enabled = false
	return first
}
