//go:build windows

package ui

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-toast/toast"
)

func (n *NotificationManager) platformNotify(title, message string) error {
	notification := toast.Notification{
		AppID:   n.appName,
		Title:   title,
		Message: message,
		Icon:    n.toastIconPath(),
	}
	return notification.Push()
}

// toastIconPath materializes the embedded icon for toast notifications,
// which require an icon file on disk. Returns "" when no icon can be
// provided.
func (n *NotificationManager) toastIconPath() string {
	if len(n.embeddedIcon) == 0 {
		return ""
	}

	tmpFile, err := os.CreateTemp("", "icon-*.ico")
	if err != nil {
		log.Printf("Error writing temporary icon: %v", err)
		return ""
	}
	defer tmpFile.Close()

	if _, err := tmpFile.Write(n.embeddedIcon); err != nil {
		log.Printf("Error writing temporary icon: %v", err)
		return ""
	}

	// Remove the temporary file once the toast had time to render.
	path := tmpFile.Name()
	time.AfterFunc(10*time.Second, func() { os.Remove(path) })

	if absPath, err := filepath.Abs(path); err == nil {
		return absPath
	}
	return path
}
