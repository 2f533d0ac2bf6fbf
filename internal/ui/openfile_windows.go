//go:build windows

package ui

import (
	"fmt"
	"log"
	"os/exec"
)

// OpenFileInDefaultApp opens a file with its associated application.
func OpenFileInDefaultApp(filePath string) error {
	// "start" needs an explicit empty title argument when the path is
	// quoted.
	cmd := exec.Command("cmd", "/C", "start", "", filePath)

	log.Printf("Opening %s with: %s", filePath, cmd.String())
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start command (%s): %w", cmd.String(), err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
