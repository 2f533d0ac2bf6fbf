package glib

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"time"

	"github.com/TanaroSch/shellbind/internal/keybind"
)

// CompiledCacheName is the file glib-compile-schemas produces in the
// schema directory.
const CompiledCacheName = "gschemas.compiled"

// gsettingsTimeout bounds every gsettings invocation. The CLI normally
// answers instantly; the timeout keeps a wedged dconf service from
// hanging the caller.
const gsettingsTimeout = 3 * time.Second

// Opener opens compiled schema caches for lookup through the gsettings
// CLI. It implements keybind.SchemaSourceOpener.
type Opener struct{}

// OpenDirectory opens dir as a schema source. It fails when the compiled
// cache file is missing, the usual sign that compilation never ran or
// wrote its output elsewhere.
func (Opener) OpenDirectory(dir string) (keybind.SchemaSource, error) {
	cache := filepath.Join(dir, CompiledCacheName)
	if _, err := os.Stat(cache); err != nil {
		return nil, fmt.Errorf("no compiled schema cache at %s: %w", cache, err)
	}
	return &Source{dir: dir}, nil
}

// Source locates schemas in one compiled cache directory, with the
// system-wide schema chain as fallback.
type Source struct {
	dir string
}

// Lookup finds a schema by id. The source's own directory is searched
// first so it wins over a system-installed schema of the same id; the
// system chain is only consulted when the directory has no match.
func (s *Source) Lookup(id string) (keybind.Settings, error) {
	if err := listKeys(s.dir, id); err == nil {
		return &Settings{dir: s.dir, id: id}, nil
	}
	if err := listKeys("", id); err == nil {
		return &Settings{id: id}, nil
	}
	return nil, fmt.Errorf("%w: %s", keybind.ErrSchemaNotFound, id)
}

// listKeys probes for a schema id via `gsettings list-keys`. A non-empty
// dir restricts the lookup to that schema directory.
func listKeys(dir, id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), gsettingsTimeout)
	defer cancel()

	var args []string
	if dir != "" {
		args = append(args, "--schemadir", dir)
	}
	args = append(args, "list-keys", id)
	return exec.CommandContext(ctx, "gsettings", args...).Run()
}

// Settings is a live handle over one located schema, read through the
// gsettings CLI. It implements keybind.Settings.
type Settings struct {
	dir string // empty for schemas found in the system chain
	id  string
}

// SchemaID returns the id of the schema this handle is bound to.
func (s *Settings) SchemaID() string {
	return s.id
}

var quotedValueRE = regexp.MustCompile(`'([^']*)'`)

// GetStrv reads a string-array key. gsettings prints GVariant syntax
// like ['<Super>j', '<Super>k']; the single-quoted elements are
// extracted in order.
func (s *Settings) GetStrv(key string) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), gsettingsTimeout)
	defer cancel()

	var args []string
	if s.dir != "" {
		args = append(args, "--schemadir", s.dir)
	}
	args = append(args, "get", s.id, key)

	out, err := exec.CommandContext(ctx, "gsettings", args...).Output()
	if err != nil {
		return nil, fmt.Errorf("gsettings get %s %s: %w", s.id, key, err)
	}
	return parseStrv(string(out)), nil
}

// parseStrv extracts the quoted elements of a printed GVariant string
// array. Empty arrays ("@as []") yield nil.
func parseStrv(out string) []string {
	matches := quotedValueRE.FindAllStringSubmatch(out, -1)
	if len(matches) == 0 {
		return nil
	}
	values := make([]string, 0, len(matches))
	for _, m := range matches {
		values = append(values, m[1])
	}
	return values
}
