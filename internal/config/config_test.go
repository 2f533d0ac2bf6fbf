package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadCreatesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config file was not created: %v", err)
	}
	if cfg.SchemaID != DefaultSchemaID {
		t.Errorf("SchemaID = %q, want %q", cfg.SchemaID, DefaultSchemaID)
	}
	if len(cfg.Bindings) == 0 {
		t.Error("default config should contain example bindings")
	}
	if cfg.GetConfigPath() != path {
		t.Errorf("GetConfigPath() = %q, want %q", cfg.GetConfigPath(), path)
	}
}

func TestLoadMigratesLegacySequence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	legacy := `{
  "schema_id": "demo",
  "use_notifications": false,
  "bindings": [
    {"name": "open-terminal", "sequence": "<Super>Return", "command": "xterm"}
  ]
}`
	if err := os.WriteFile(path, []byte(legacy), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	b := cfg.Bindings[0]
	if !reflect.DeepEqual(b.Sequences, []string{"<Super>Return"}) {
		t.Errorf("Sequences = %v, want the migrated legacy value", b.Sequences)
	}
	if b.Sequence != "" {
		t.Errorf("legacy Sequence field should be cleared, got %q", b.Sequence)
	}
}

func TestLoadDefaultsSchemaID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"bindings": []}`), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.SchemaID != DefaultSchemaID {
		t.Errorf("SchemaID = %q, want default %q", cfg.SchemaID, DefaultSchemaID)
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"bindings": [`), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on malformed JSON")
	}
}

func TestAddBindingPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	before := len(cfg.Bindings)

	if err := cfg.AddBinding("lock-screen", "<Super>l", "loginctl lock-session"); err != nil {
		t.Fatalf("AddBinding() failed: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(reloaded.Bindings) != before+1 {
		t.Fatalf("reloaded %d bindings, want %d", len(reloaded.Bindings), before+1)
	}
	added := reloaded.Bindings[len(reloaded.Bindings)-1]
	if added.Name != "lock-screen" || added.Command != "loginctl lock-session" {
		t.Errorf("persisted binding = %+v", added)
	}
	if !reflect.DeepEqual(added.Accelerators(), []string{"<Super>l"}) {
		t.Errorf("Accelerators() = %v", added.Accelerators())
	}
}

func TestAccelerators(t *testing.T) {
	tests := []struct {
		name    string
		binding BindingConfig
		want    []string
	}{
		{"list form", BindingConfig{Sequences: []string{"<Super>a", "<Alt>a"}}, []string{"<Super>a", "<Alt>a"}},
		{"legacy form", BindingConfig{Sequence: "<Super>a"}, []string{"<Super>a"}},
		{"list wins over legacy", BindingConfig{Sequences: []string{"<Super>a"}, Sequence: "<Alt>b"}, []string{"<Super>a"}},
		{"empty", BindingConfig{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.binding.Accelerators(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Accelerators() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCreateDefaultConfigDoesNotOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	original := []byte(`{"schema_id": "mine", "bindings": []}`)
	if err := os.WriteFile(path, original, 0600); err != nil {
		t.Fatal(err)
	}

	if err := CreateDefaultConfig(path); err != nil {
		t.Fatalf("CreateDefaultConfig() failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(original) {
		t.Error("CreateDefaultConfig() must not overwrite an existing file")
	}
}
