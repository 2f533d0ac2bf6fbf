package ui

import (
	"fmt"
	"log"

	"github.com/getlantern/systray"
)

// SystrayManager handles the system tray icon and menu.
type SystrayManager struct {
	version      string
	embeddedIcon []byte

	// onToggle flips the enable state and returns the new state.
	onToggle     func() bool
	onReload     func()
	onAddBinding func()
	onOpenConfig func()
	onQuit       func()

	miToggle *systray.MenuItem
	miStatus *systray.MenuItem
}

// NewSystrayManager creates a new system tray manager.
func NewSystrayManager(
	version string,
	embeddedIcon []byte,
	onToggle func() bool,
	onReload func(),
	onAddBinding func(),
	onOpenConfig func(),
	onQuit func(),
) *SystrayManager {
	return &SystrayManager{
		version:      version,
		embeddedIcon: embeddedIcon,
		onToggle:     onToggle,
		onReload:     onReload,
		onAddBinding: onAddBinding,
		onOpenConfig: onOpenConfig,
		onQuit:       onQuit,
	}
}

// Run initializes and starts the system tray. Blocks until Quit.
func (s *SystrayManager) Run() {
	systray.Run(s.onReady, s.onExit)
}

// SetEnabledState updates the menu to reflect whether keybindings are
// currently registered.
func (s *SystrayManager) SetEnabledState(enabled bool) {
	if s.miToggle == nil {
		return
	}
	if enabled {
		s.miToggle.SetTitle("Disable Shortcuts")
	} else {
		s.miToggle.SetTitle("Enable Shortcuts")
	}
}

// SetStatus updates the informational status line at the top of the menu.
func (s *SystrayManager) SetStatus(text string) {
	if s.miStatus != nil {
		s.miStatus.SetTitle(text)
	}
}

func (s *SystrayManager) onReady() {
	if len(s.embeddedIcon) > 0 {
		systray.SetIcon(s.embeddedIcon)
	}
	systray.SetTitle("shellbind")
	systray.SetTooltip(fmt.Sprintf("shellbind %s - keyboard shortcuts", s.version))

	s.miStatus = systray.AddMenuItem("Starting...", "Current state")
	s.miStatus.Disable()
	systray.AddSeparator()

	s.miToggle = systray.AddMenuItem("Disable Shortcuts", "Unregister or re-register all shortcuts")
	miReload := systray.AddMenuItem("Reload Config", "Reload bindings from the config file")
	miAdd := systray.AddMenuItem("Add Binding...", "Add a new shortcut binding")
	miOpen := systray.AddMenuItem("Open Config File", "Open the config file in the default editor")
	systray.AddSeparator()
	miQuit := systray.AddMenuItem("Quit", "Unregister shortcuts and exit")

	go func() {
		for {
			select {
			case <-s.miToggle.ClickedCh:
				if s.onToggle != nil {
					s.SetEnabledState(s.onToggle())
				}
			case <-miReload.ClickedCh:
				if s.onReload != nil {
					s.onReload()
				}
			case <-miAdd.ClickedCh:
				if s.onAddBinding != nil {
					s.onAddBinding()
				}
			case <-miOpen.ClickedCh:
				if s.onOpenConfig != nil {
					s.onOpenConfig()
				}
			case <-miQuit.ClickedCh:
				log.Println("Quit menu item clicked.")
				systray.Quit()
				return
			}
		}
	}()
}

func (s *SystrayManager) onExit() {
	if s.onQuit != nil {
		s.onQuit()
	}
}
