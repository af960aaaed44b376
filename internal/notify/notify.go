package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notification is the shape handed to the notification surface.
type Notification struct {
	Title    string
	Body     string
	Priority int
}

// Notifier surfaces a notification to the user. Failures are reported to
// the caller, which logs them; delivery is never retried.
type Notifier interface {
	Notify(n Notification) error
}

// DesktopNotifier sends notifications to the OS notification center.
type DesktopNotifier struct {
	logger *zap.Logger
}

// NewDesktopNotifier creates a desktop notifier for the given app name.
func NewDesktopNotifier(appName string, logger *zap.Logger) *DesktopNotifier {
	beeep.AppName = appName
	return &DesktopNotifier{logger: logger}
}

func (d *DesktopNotifier) Notify(n Notification) error {
	// Each notification gets an id so a delivery can be correlated with
	// the state transition that produced it.
	id := uuid.NewString()
	d.logger.Debug("Sending notification",
		zap.String("notification_id", id),
		zap.String("title", n.Title),
		zap.Int("priority", n.Priority),
	)

	var err error
	if n.Priority >= 2 {
		err = beeep.Alert(n.Title, n.Body, "")
	} else {
		err = beeep.Notify(n.Title, n.Body, "")
	}
	if err != nil {
		return fmt.Errorf("failed to deliver notification %s: %w", id, err)
	}
	return nil
}

// LogNotifier writes notifications to the log only. Used when desktop
// notifications are disabled and in tests.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Notify(n Notification) error {
	l.logger.Info("Notification",
		zap.String("title", n.Title),
		zap.String("body", n.Body),
		zap.Int("priority", n.Priority),
	)
	return nil
}
