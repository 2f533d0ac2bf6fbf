package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
)

// DefaultSchemaID is the short schema id used when the config does not
// set one. The registry expands it to
// "org.gnome.shell.extensions.shellbind".
const DefaultSchemaID = "shellbind"

// BindingConfig describes one keyboard shortcut: a schema key name, the
// accelerator sequence(s) and the command the daemon runs on trigger.
type BindingConfig struct {
	Name      string   `json:"name"`
	Sequences []string `json:"sequences,omitempty"`
	Command   string   `json:"command"`

	// Legacy single-sequence field (for backward compatibility)
	Sequence string `json:"sequence,omitempty"`
}

// Accelerators returns the binding's sequences with the legacy single
// field normalized into the list form.
func (b BindingConfig) Accelerators() []string {
	if len(b.Sequences) > 0 {
		return b.Sequences
	}
	if b.Sequence != "" {
		return []string{b.Sequence}
	}
	return nil
}

// Config holds the daemon configuration.
type Config struct {
	SchemaID         string          `json:"schema_id"`
	SchemaDir        string          `json:"schema_dir,omitempty"`
	UseNotifications bool            `json:"use_notifications"`
	Bindings         []BindingConfig `json:"bindings"`

	// Non-JSON fields (runtime state)
	configPath string
}

// GetConfigPath returns the path to the configuration file.
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// Load reads and parses the configuration file, creating a default one
// when the file does not exist yet.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Config file '%s' not found. Attempting to create default.", configPath)
			if createErr := CreateDefaultConfig(configPath); createErr != nil {
				return nil, fmt.Errorf("config file not found and failed to create default '%s': %w", configPath, createErr)
			}
			data, err = os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file '%s' even after creating default: %w", configPath, err)
			}
		} else {
			return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
		}
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", configPath, err)
	}

	config.configPath = configPath
	if config.SchemaID == "" {
		config.SchemaID = DefaultSchemaID
	}

	// Migrate legacy single-sequence bindings to the list form so Save
	// writes the current format back.
	for i := range config.Bindings {
		b := &config.Bindings[i]
		if len(b.Sequences) == 0 && b.Sequence != "" {
			log.Printf("Migrating legacy single-sequence binding '%s' to list form", b.Name)
			b.Sequences = []string{b.Sequence}
			b.Sequence = ""
		}
	}

	return &config, nil
}

// Save writes the current configuration back to the config file.
func (c *Config) Save() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.configPath, data, 0600)
}

// AddBinding appends a binding and persists the config.
func (c *Config) AddBinding(name, sequence, command string) error {
	c.Bindings = append(c.Bindings, BindingConfig{
		Name:      name,
		Sequences: []string{sequence},
		Command:   command,
	})
	return c.Save()
}

// CreateDefaultConfig creates a default configuration file if none exists.
func CreateDefaultConfig(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return nil // File exists, don't overwrite
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("error checking config path '%s': %w", configPath, err)
	}

	log.Printf("Creating default configuration file at: %s", configPath)

	defaultConfig := &Config{
		SchemaID:         DefaultSchemaID,
		UseNotifications: true,
		Bindings: []BindingConfig{
			{
				Name:      "open-terminal",
				Sequences: []string{"<Super>Return"},
				Command:   "x-terminal-emulator",
			},
			{
				Name:      "screenshot-area",
				Sequences: []string{"<Super><Shift>s", "<Primary>F12"},
				Command:   "gnome-screenshot -a",
			},
		},
	}

	data, err := json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal default config to JSON: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write default config file '%s': %w", configPath, err)
	}

	log.Printf("Default configuration file created successfully.")
	return nil
}
