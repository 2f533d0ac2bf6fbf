package app

import (
	"errors"
	"fmt"
	"log"
	"os/exec"
	"regexp"
	"runtime"
	"strings"

	"github.com/ncruces/zenity"

	"github.com/TanaroSch/shellbind/internal/config"
	"github.com/TanaroSch/shellbind/internal/diffutil"
	"github.com/TanaroSch/shellbind/internal/glib"
	"github.com/TanaroSch/shellbind/internal/keybind"
	"github.com/TanaroSch/shellbind/internal/resources"
	"github.com/TanaroSch/shellbind/internal/ui"
	"github.com/TanaroSch/shellbind/internal/wm"
)

const appName = "shellbind"

// Application ties the config file, the keybinding registry and the tray
// UI together.
type Application struct {
	config   *config.Config
	version  string
	backend  wm.Backend
	registry *keybind.Registry
	systray  *ui.SystrayManager
	iconData []byte

	// lastDocument holds the schema document from the previous enable so
	// a reload can report what changed.
	lastDocument string
}

// New creates a new application instance. It fails when no
// window-manager backend is usable in the current environment.
func New(cfg *config.Config, version string) (*Application, error) {
	backend, err := wm.SelectBackend()
	if err != nil {
		return nil, fmt.Errorf("no usable window-manager backend: %w", err)
	}

	app := &Application{
		config:  cfg,
		version: version,
		backend: backend,
	}

	app.iconData, err = resources.GetIcon()
	if err != nil {
		log.Printf("Warning: Failed to load embedded icon: %v", err)
	}

	ui.InitGlobalNotifications(cfg.UseNotifications, appName, app.iconData)

	app.registry = app.buildRegistry(cfg)
	app.systray = ui.NewSystrayManager(
		version,
		app.iconData,
		app.onToggle,
		app.onReloadConfig,
		app.onAddBinding,
		app.onOpenConfigFile,
		app.onQuit,
	)

	return app, nil
}

// buildRegistry constructs a keybinding registry from the config,
// skipping entries that cannot possibly register.
func (a *Application) buildRegistry(cfg *config.Config) *keybind.Registry {
	registry := keybind.New(cfg.SchemaID, cfg.SchemaDir, a.backend, glib.Opener{}, glib.Compiler{})

	for _, bc := range cfg.Bindings {
		accels := bc.Accelerators()
		if bc.Name == "" || len(accels) == 0 {
			log.Printf("Skipping binding with missing name or sequences: %+v", bc)
			continue
		}
		name, command := bc.Name, bc.Command
		registry.Add(name, func() { a.runCommand(name, command) }, accels...)
	}
	return registry
}

// Run enables the keybindings and starts the tray loop (blocking).
func (a *Application) Run() {
	if err := a.registry.Enable(); err != nil {
		log.Printf("Warning: Failed to enable keybindings: %v", err)
		ui.Notify(ui.LevelWarn, "Keybinding Registration Issue",
			fmt.Sprintf("Keybindings could not be enabled: %v", err))
	} else {
		a.lastDocument = a.registry.Render()
	}
	a.updateStatus()
	a.systray.Run()
}

// runCommand launches a binding's command through the platform shell,
// detached from the daemon.
func (a *Application) runCommand(name, command string) {
	if command == "" {
		log.Printf("Keybinding '%s' triggered but has no command.", name)
		return
	}
	log.Printf("Keybinding '%s' triggered. Running: %s", name, command)

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/C", command)
	} else {
		cmd = exec.Command("sh", "-c", command)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to start command for '%s': %v", name, err)
		ui.Notify(ui.LevelWarn, "Command Failed",
			fmt.Sprintf("Could not start command for binding '%s': %v", name, err))
		return
	}
	go func() { _ = cmd.Wait() }()
}

// onToggle flips the enable state and returns the new state for the
// tray menu.
func (a *Application) onToggle() bool {
	if a.registry.Enabled() {
		if err := a.registry.Disable(); err != nil {
			log.Printf("Warning: Disabling keybindings reported: %v", err)
		}
		ui.Notify(ui.LevelInfo, "Shortcuts Disabled", "All keybindings have been unregistered.")
		a.updateStatus()
		return false
	}

	if err := a.registry.Enable(); err != nil {
		log.Printf("Error enabling keybindings: %v", err)
		ui.Notify(ui.LevelError, "Enable Failed", err.Error())
		a.updateStatus()
		return false
	}
	a.lastDocument = a.registry.Render()
	ui.Notify(ui.LevelInfo, "Shortcuts Enabled",
		fmt.Sprintf("%d keybinding(s) registered.", len(a.registry.Bindings())))
	a.updateStatus()
	return true
}

// onReloadConfig is called when the reload menu item is clicked or after
// a binding was added. It rebuilds the registry from the config file and
// reports what changed.
func (a *Application) onReloadConfig() {
	log.Println("Reloading configuration...")

	configPath := a.config.GetConfigPath()
	if configPath == "" {
		configPath = "config.json"
	}

	newConfig, err := config.Load(configPath)
	if err != nil {
		log.Printf("Error reloading configuration from '%s': %v", configPath, err)
		ui.Notify(ui.LevelError, "Configuration Error",
			fmt.Sprintf("Failed to reload configuration from %s: %v", configPath, err))
		return
	}

	wasEnabled := a.registry.Enabled()
	if err := a.registry.Disable(); err != nil {
		log.Printf("Warning: Disabling old keybindings reported: %v", err)
	}

	a.config = newConfig
	ui.InitGlobalNotifications(newConfig.UseNotifications, appName, a.iconData)
	a.registry = a.buildRegistry(newConfig)

	if !wasEnabled {
		log.Println("Configuration reloaded; keybindings stay disabled until toggled on.")
		a.updateStatus()
		return
	}

	if err := a.registry.Enable(); err != nil {
		log.Printf("Error enabling keybindings after reload: %v", err)
		ui.Notify(ui.LevelError, "Enable Failed",
			fmt.Sprintf("Keybindings could not be re-enabled after reload: %v", err))
		a.systray.SetEnabledState(false)
		a.updateStatus()
		return
	}

	document := a.registry.Render()
	summary := diffutil.Compare(a.lastDocument, document)
	a.lastDocument = document

	log.Printf("Configuration reloaded: %s", summary)
	ui.Notify(ui.LevelInfo, "Configuration Reloaded", summary.String())
	a.systray.SetEnabledState(true)
	a.updateStatus()
}

// bindingNameRE matches legal schema key names: lowercase alphanumeric
// segments separated by dashes.
var bindingNameRE = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// onAddBinding walks the user through adding a binding via dialogs and
// persists it to the config file.
func (a *Application) onAddBinding() {
	name, err := zenity.Entry("Step 1: Binding name\n(lowercase letters, digits and dashes, e.g. open-terminal)",
		zenity.Title(appName+" - Add Binding"),
	)
	if err != nil {
		a.reportDialogError("Add Binding", "name entry", err)
		return
	}
	name = strings.TrimSpace(name)
	if !bindingNameRE.MatchString(name) {
		ui.Notify(ui.LevelWarn, "Invalid Input",
			fmt.Sprintf("Invalid binding name '%s'. Use lowercase letters, digits and dashes.", name))
		return
	}

	accel, err := zenity.Entry("Step 2: Accelerator\n(e.g. <Super>j or <Primary><Shift>F2)",
		zenity.Title(appName+" - Add Binding"),
	)
	if err != nil {
		a.reportDialogError("Add Binding", "accelerator entry", err)
		return
	}
	accel = strings.TrimSpace(accel)
	if accel == "" {
		ui.Notify(ui.LevelWarn, "Invalid Input", "Accelerator cannot be empty.")
		return
	}

	command, err := zenity.Entry("Step 3: Command to run when triggered",
		zenity.Title(appName+" - Add Binding"),
	)
	if err != nil {
		a.reportDialogError("Add Binding", "command entry", err)
		return
	}
	command = strings.TrimSpace(command)

	if err := a.config.AddBinding(name, accel, command); err != nil {
		log.Printf("Error saving new binding '%s': %v", name, err)
		ui.Notify(ui.LevelError, "Error", fmt.Sprintf("Failed to save binding '%s': %v", name, err))
		return
	}
	log.Printf("Added binding '%s' (%s -> %s), reloading.", name, accel, command)

	a.onReloadConfig()
}

// reportDialogError distinguishes a user cancel from a real dialog
// failure.
func (a *Application) reportDialogError(action, step string, err error) {
	if errors.Is(err, zenity.ErrCanceled) {
		log.Printf("%s canceled by user (%s).", action, step)
		return
	}
	log.Printf("Error getting input via zenity (%s): %v", step, err)
	ui.Notify(ui.LevelWarn, "Input Error", fmt.Sprintf("%s failed: could not read %s.", action, step))
}

// onOpenConfigFile is called when the open config menu item is clicked.
func (a *Application) onOpenConfigFile() {
	configPath := a.config.GetConfigPath()
	if configPath == "" {
		configPath = "config.json"
	}
	if err := ui.OpenFileInDefaultApp(configPath); err != nil {
		log.Printf("Could not open config file '%s': %v", configPath, err)
		ui.Notify(ui.LevelWarn, "Error Opening File",
			fmt.Sprintf("Could not open config file '%s': %v", configPath, err))
	}
}

// onQuit is called when the tray loop exits.
func (a *Application) onQuit() {
	log.Println("Quit requested. Unregistering keybindings.")
	if err := a.registry.Disable(); err != nil {
		log.Printf("Warning: Disabling keybindings on quit reported: %v", err)
	}
}

// updateStatus refreshes the tray status line.
func (a *Application) updateStatus() {
	state := "disabled"
	if a.registry.Enabled() {
		state = "enabled"
	}
	a.systray.SetStatus(fmt.Sprintf("%d binding(s), %s | %s", len(a.registry.Bindings()), state, a.backend.Name()))
	a.systray.SetEnabledState(a.registry.Enabled())
}
