package keybind

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeWM records registration traffic in order.
type fakeWM struct {
	added      []string
	removed    []string
	addErr     map[string]error
	removeErr  map[string]error
	seenFlags  []KeybindingFlags
	seenModes  []ActionMode
	seenSchema []string
}

func (f *fakeWM) AddKeybinding(name string, settings Settings, flags KeybindingFlags, modes ActionMode, handler Handler) error {
	if err := f.addErr[name]; err != nil {
		return err
	}
	f.added = append(f.added, name)
	f.seenFlags = append(f.seenFlags, flags)
	f.seenModes = append(f.seenModes, modes)
	f.seenSchema = append(f.seenSchema, settings.SchemaID())
	return nil
}

func (f *fakeWM) RemoveKeybinding(name string) error {
	if err := f.removeErr[name]; err != nil {
		return err
	}
	f.removed = append(f.removed, name)
	return nil
}

// fakeSettings is a settings handle over a fixed key map.
type fakeSettings struct {
	id   string
	strv map[string][]string
}

func (f *fakeSettings) SchemaID() string { return f.id }

func (f *fakeSettings) GetStrv(key string) ([]string, error) {
	v, ok := f.strv[key]
	if !ok {
		return nil, errors.New("no such key: " + key)
	}
	return v, nil
}

// fakeOpener hands out a canned source and remembers the directory it
// was asked to open.
type fakeOpener struct {
	openedDir string
	openErr   error
	lookupErr error
}

func (f *fakeOpener) OpenDirectory(dir string) (SchemaSource, error) {
	f.openedDir = dir
	if f.openErr != nil {
		return nil, f.openErr
	}
	return &fakeSource{opener: f}, nil
}

type fakeSource struct {
	opener *fakeOpener
}

func (s *fakeSource) Lookup(id string) (Settings, error) {
	if s.opener.lookupErr != nil {
		return nil, s.opener.lookupErr
	}
	return &fakeSettings{id: id}, nil
}

// fakeCompiler records compile calls and optionally fails.
type fakeCompiler struct {
	calls int
	dirs  []string
	err   error
}

func (f *fakeCompiler) Compile(dir string) error {
	f.calls++
	f.dirs = append(f.dirs, dir)
	return f.err
}

func newTestRegistry(t *testing.T) (*Registry, *fakeWM, *fakeOpener, *fakeCompiler) {
	t.Helper()
	wm := &fakeWM{addErr: map[string]error{}, removeErr: map[string]error{}}
	opener := &fakeOpener{}
	compiler := &fakeCompiler{}
	r := New("demo", t.TempDir(), wm, opener, compiler)
	return r, wm, opener, compiler
}

func TestSchemaIDAndPath(t *testing.T) {
	r, _, _, _ := newTestRegistry(t)
	if got, want := r.SchemaID(), "org.gnome.shell.extensions.demo"; got != want {
		t.Errorf("SchemaID() = %q, want %q", got, want)
	}
	if got, want := r.SchemaPath(), "/org/gnome/shell/extensions/demo/"; got != want {
		t.Errorf("SchemaPath() = %q, want %q", got, want)
	}
	if got, want := filepath.Base(r.DocumentPath()), "org.gnome.shell.extensions.demo.gschema.xml"; got != want {
		t.Errorf("DocumentPath() basename = %q, want %q", got, want)
	}
}

func TestEnablePipelineOrderAndArtifacts(t *testing.T) {
	r, wm, opener, compiler := newTestRegistry(t)
	r.Add("toggle-overview", func() {}, "<Super>j")
	r.Add("quit-session", func() {}, "<Primary>q", "<Super>Escape")

	if err := r.Enable(); err != nil {
		t.Fatalf("Enable() failed: %v", err)
	}

	data, err := os.ReadFile(r.DocumentPath())
	if err != nil {
		t.Fatalf("schema document not written: %v", err)
	}
	if string(data) != r.Render() {
		t.Errorf("on-disk document differs from Render()")
	}

	if compiler.calls != 1 {
		t.Errorf("compiler invoked %d times, want 1", compiler.calls)
	}
	if opener.openedDir == "" || compiler.dirs[0] != opener.openedDir {
		t.Errorf("compile dir %q and open dir %q should match", compiler.dirs[0], opener.openedDir)
	}

	wantOrder := []string{"toggle-overview", "quit-session"}
	if len(wm.added) != len(wantOrder) {
		t.Fatalf("registered %v, want %v", wm.added, wantOrder)
	}
	for i, name := range wantOrder {
		if wm.added[i] != name {
			t.Errorf("registration %d = %q, want %q", i, wm.added[i], name)
		}
		if wm.seenFlags[i] != KeybindingNone {
			t.Errorf("registration %d flags = %v, want KeybindingNone", i, wm.seenFlags[i])
		}
		if wm.seenModes[i] != ActionModeNormal|ActionModeMessageTray {
			t.Errorf("registration %d modes = %v", i, wm.seenModes[i])
		}
		if wm.seenSchema[i] != r.SchemaID() {
			t.Errorf("registration %d schema = %q, want %q", i, wm.seenSchema[i], r.SchemaID())
		}
	}
	if !r.Enabled() {
		t.Error("registry should report enabled after Enable()")
	}
}

func TestEnableAlreadyEnabledIsNoop(t *testing.T) {
	r, wm, _, compiler := newTestRegistry(t)
	r.Add("a", func() {}, "<Super>a")

	if err := r.Enable(); err != nil {
		t.Fatalf("first Enable() failed: %v", err)
	}
	if err := r.Enable(); err != nil {
		t.Fatalf("second Enable() failed: %v", err)
	}
	if compiler.calls != 1 {
		t.Errorf("compiler invoked %d times, want 1", compiler.calls)
	}
	if len(wm.added) != 1 {
		t.Errorf("registered %d times, want 1", len(wm.added))
	}
}

func TestEnableCompileFailureAbortsBeforeRegistration(t *testing.T) {
	r, wm, _, compiler := newTestRegistry(t)
	compiler.err = errors.New("duplicate key name")
	r.Add("a", func() {}, "<Super>a")

	err := r.Enable()
	if err == nil {
		t.Fatal("Enable() should fail when compilation fails")
	}
	if !strings.Contains(err.Error(), "duplicate key name") {
		t.Errorf("error %q should carry the compiler message", err)
	}
	if len(wm.added) != 0 {
		t.Errorf("no registrations expected after compile failure, got %v", wm.added)
	}
	if r.Enabled() {
		t.Error("registry must not report enabled after failed Enable()")
	}
}

func TestEnableMissingCacheAbortsBeforeRegistration(t *testing.T) {
	r, wm, opener, _ := newTestRegistry(t)
	opener.openErr = errors.New("no compiled schema cache")
	r.Add("a", func() {}, "<Super>a")

	if err := r.Enable(); err == nil {
		t.Fatal("Enable() should fail when the cache cannot be opened")
	}
	if len(wm.added) != 0 {
		t.Errorf("no registrations expected, got %v", wm.added)
	}
}

func TestEnableLookupFailureWrapsSentinel(t *testing.T) {
	r, _, opener, _ := newTestRegistry(t)
	opener.lookupErr = ErrSchemaNotFound
	r.Add("a", func() {}, "<Super>a")

	err := r.Enable()
	if !errors.Is(err, ErrSchemaNotFound) {
		t.Errorf("Enable() error = %v, want ErrSchemaNotFound in chain", err)
	}
}

func TestEnablePartialRegistrationFailureKeepsEarlier(t *testing.T) {
	r, wm, _, _ := newTestRegistry(t)
	wm.addErr["second"] = errors.New("conflict")
	r.Add("first", func() {}, "<Super>1")
	r.Add("second", func() {}, "<Super>2")
	r.Add("third", func() {}, "<Super>3")

	err := r.Enable()
	if err == nil {
		t.Fatal("Enable() should surface the registration failure")
	}
	if !strings.Contains(err.Error(), "second") {
		t.Errorf("error %q should name the failing binding", err)
	}
	// No rollback: the first binding stays registered, the third is
	// never attempted.
	if len(wm.added) != 1 || wm.added[0] != "first" {
		t.Errorf("registered = %v, want [first]", wm.added)
	}
	if r.Enabled() {
		t.Error("registry must not report enabled after a partial failure")
	}
}

func TestDisableUnregistersInAddOrder(t *testing.T) {
	r, wm, _, _ := newTestRegistry(t)
	r.Add("a", func() {}, "<Super>a")
	r.Add("b", func() {}, "<Super>b")
	if err := r.Enable(); err != nil {
		t.Fatalf("Enable() failed: %v", err)
	}

	if err := r.Disable(); err != nil {
		t.Fatalf("Disable() failed: %v", err)
	}
	want := []string{"a", "b"}
	if len(wm.removed) != len(want) {
		t.Fatalf("unregistered %v, want %v", wm.removed, want)
	}
	for i, name := range want {
		if wm.removed[i] != name {
			t.Errorf("unregistration %d = %q, want %q", i, wm.removed[i], name)
		}
	}
	if r.Enabled() {
		t.Error("registry should report disabled after Disable()")
	}
}

func TestDisableWithoutEnableStillUnregistersAll(t *testing.T) {
	r, wm, _, compiler := newTestRegistry(t)
	r.Add("a", func() {}, "<Super>a")
	r.Add("b", func() {}, "<Super>b")

	if err := r.Disable(); err != nil {
		t.Fatalf("Disable() failed: %v", err)
	}
	if compiler.calls != 0 {
		t.Errorf("Disable() must not compile, saw %d calls", compiler.calls)
	}
	if len(wm.removed) != 2 {
		t.Errorf("unregistered %v, want both bindings", wm.removed)
	}
}

func TestDisableContinuesPastFailures(t *testing.T) {
	r, wm, _, _ := newTestRegistry(t)
	wantErr := errors.New("not registered")
	wm.removeErr["a"] = wantErr
	r.Add("a", func() {}, "<Super>a")
	r.Add("b", func() {}, "<Super>b")

	err := r.Disable()
	if !errors.Is(err, wantErr) {
		t.Errorf("Disable() error = %v, want first failure %v", err, wantErr)
	}
	if len(wm.removed) != 1 || wm.removed[0] != "b" {
		t.Errorf("unregistered = %v, want [b] despite earlier failure", wm.removed)
	}
}

func TestEnableDisableEnableRepeatsPipeline(t *testing.T) {
	r, wm, _, compiler := newTestRegistry(t)
	r.Add("a", func() {}, "<Super>a")

	if err := r.Enable(); err != nil {
		t.Fatalf("first Enable() failed: %v", err)
	}
	if err := r.Disable(); err != nil {
		t.Fatalf("Disable() failed: %v", err)
	}
	if err := r.Enable(); err != nil {
		t.Fatalf("second Enable() failed: %v", err)
	}

	if compiler.calls != 2 {
		t.Errorf("compiler invoked %d times, want 2", compiler.calls)
	}
	if len(wm.added) != 2 || wm.added[0] != wm.added[1] {
		t.Errorf("re-enable should register the same name again, got %v", wm.added)
	}
}

func TestEmptyDirDefaultsToTempDir(t *testing.T) {
	r := New("demo", "", &fakeWM{}, &fakeOpener{}, &fakeCompiler{})
	if !strings.HasPrefix(r.DocumentPath(), os.TempDir()) {
		t.Errorf("DocumentPath() = %q, want it under %q", r.DocumentPath(), os.TempDir())
	}
}

func TestBindingsReturnsCopyInOrder(t *testing.T) {
	r, _, _, _ := newTestRegistry(t)
	r.Add("a", func() {}, "<Super>a")
	r.Add("b", func() {}, "<Super>b")

	got := r.Bindings()
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "b" {
		t.Fatalf("Bindings() = %v", got)
	}
	got[0].Name = "mutated"
	if r.Bindings()[0].Name != "a" {
		t.Error("mutating the returned slice must not affect the registry")
	}
}
