package ui

import (
	"fmt"
	"os/exec"
	"runtime"

	"l10nminer/pkg/config"
)

// NotificationSender interface for platform-specific notification implementations
type NotificationSender interface {
	Send(title, message string) error
}

// LinuxNotificationSender sends notifications on Linux using notify-send
type LinuxNotificationSender struct{}

func (l *LinuxNotificationSender) Send(title, message string) error {
	cmd := exec.Command("notify-send", title, message)
	return cmd.Run()
}

// MacOSNotificationSender sends notifications on macOS using osascript
type MacOSNotificationSender struct{}

func (m *MacOSNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`display notification "%s" with title "%s"`, message, title)
	cmd := exec.Command("osascript", "-e", script)
	return cmd.Run()
}

// WindowsNotificationSender sends notifications on Windows using PowerShell
type WindowsNotificationSender struct{}

func (w *WindowsNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`
		[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
		[Windows.Data.Xml.Dom.XmlDocument, Windows.Data.Xml.Dom.XmlDocument, ContentType = WindowsRuntime] | Out-Null
		$xml = @"
<toast>
	<visual>
		<binding template="ToastText02">
			<text id="1">%s</text>
			<text id="2">%s</text>
		</binding>
	</visual>
</toast>
"@
		$doc = [Windows.Data.Xml.Dom.XmlDocument]::new()
		$doc.LoadXml($xml)
		$toast = [Windows.UI.Notifications.ToastNotification]::new($doc)
		[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier("l10nminer").Show($toast)
	`, title, message)

	cmd := exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script)
	return cmd.Run()
}

// Notifier handles cross-platform notifications, gated by the notification
// settings: the campaign can fire events unconditionally and the gates here
// decide what actually surfaces.
type Notifier struct {
	sender NotificationSender
	cfg    config.NotificationConfig
}

// NewNotifier creates a Notifier for the current platform. A nil config
// disables everything.
func NewNotifier(cfg *config.NotificationConfig) *Notifier {
	n := &Notifier{}
	if cfg == nil {
		return n
	}
	n.cfg = *cfg

	if n.cfg.NotificationType != "desktop" {
		return n
	}
	switch runtime.GOOS {
	case "linux":
		n.sender = &LinuxNotificationSender{}
	case "darwin":
		n.sender = &MacOSNotificationSender{}
	case "windows":
		n.sender = &WindowsNotificationSender{}
	}
	return n
}

// SendNotification sends a general notification
func (n *Notifier) SendNotification(title, message string) {
	if !n.cfg.Enabled || n.cfg.NotificationType == "none" {
		return
	}
	n.emit(Cyan(title), Yellow(message), title, message)
}

// SendError sends an error notification
func (n *Notifier) SendError(title, message string) {
	if !n.cfg.Enabled || !n.cfg.OnError || n.cfg.NotificationType == "none" {
		return
	}
	n.emit(Red(title), Red(message), title, message)
}

// SendSuccess sends a completion notification
func (n *Notifier) SendSuccess(title, message string) {
	if !n.cfg.Enabled || !n.cfg.OnComplete || n.cfg.NotificationType == "none" {
		return
	}
	n.emit(Green(title), Green(message), title, message)
}

// SendThrottle sends a rate limit notification
func (n *Notifier) SendThrottle(title, message string) {
	if !n.cfg.Enabled || !n.cfg.OnThrottle || n.cfg.NotificationType == "none" {
		return
	}
	n.emit(Yellow(title), Yellow(message), title, message)
}

// emit prints to the console and forwards to the desktop sender when one is
// configured
func (n *Notifier) emit(coloredTitle, coloredMessage, title, message string) {
	if !IsQuietMode() {
		fmt.Printf("\n%s: %s\n", coloredTitle, coloredMessage)
	}
	if n.sender != nil {
		// Notifications are best effort.
		_ = n.sender.Send(title, message)
	}
}
