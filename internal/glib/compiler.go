package glib

import (
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strings"
)

// DefaultCompilerName is the schema compiler shipped with GLib.
const DefaultCompilerName = "glib-compile-schemas"

// ErrCompilerNotFound is returned when the schema compiler executable
// cannot be resolved via the search path.
var ErrCompilerNotFound = errors.New("schema compiler not found in PATH")

// Compiler invokes glib-compile-schemas over a schema directory. The
// zero value uses DefaultCompilerName resolved via PATH; Executable
// overrides it, mainly for tests.
type Compiler struct {
	Executable string
}

// Compile runs the compiler synchronously with dir as its only argument,
// blocking until the subprocess exits. The exit status and combined
// output are checked so that a malformed document or a key-name
// collision surfaces here as a distinguishable error, rather than as a
// schema-not-found failure at load time.
func (c Compiler) Compile(dir string) error {
	exe := c.Executable
	if exe == "" {
		exe = DefaultCompilerName
	}

	out, err := exec.Command(exe, dir).CombinedOutput()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrCompilerNotFound, exe)
		}
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%s %s: %w: %s", exe, dir, err, msg)
		}
		return fmt.Errorf("%s %s: %w", exe, dir, err)
	}

	log.Printf("Compiled schemas in %s", dir)
	return nil
}
