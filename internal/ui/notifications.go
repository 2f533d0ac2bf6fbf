package ui

import "log"

// Level classifies a notification for logging.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// NotificationManager handles showing desktop notifications across
// platforms.
type NotificationManager struct {
	useNotifications bool
	appName          string
	embeddedIcon     []byte
}

// NewNotificationManager creates a new notification manager.
func NewNotificationManager(useNotifications bool, appName string, embeddedIcon []byte) *NotificationManager {
	return &NotificationManager{
		useNotifications: useNotifications,
		appName:          appName,
		embeddedIcon:     embeddedIcon,
	}
}

// Show displays a desktop notification if enabled. Every notification is
// also logged, so disabling notifications loses nothing diagnostically.
func (n *NotificationManager) Show(level Level, title, message string) {
	log.Printf("[%s] %s: %s", level, title, message)
	if !n.useNotifications {
		return
	}
	if err := n.platformNotify(title, message); err != nil {
		log.Printf("Error showing notification: %v", err)
	}
}

// Global manager for callers that don't carry a reference around.
var globalNotificationManager *NotificationManager

// InitGlobalNotifications initializes the global notification manager.
func InitGlobalNotifications(useNotifications bool, appName string, embeddedIcon []byte) {
	globalNotificationManager = NewNotificationManager(useNotifications, appName, embeddedIcon)
}

// Notify is a convenience function for showing notifications without
// directly referencing the notification manager.
func Notify(level Level, title, message string) {
	if globalNotificationManager != nil {
		globalNotificationManager.Show(level, title, message)
	} else {
		log.Printf("Notification not shown (manager not initialized): [%s] %s - %s", level, title, message)
	}
}
