package popup

// Thin adapter so callers can report user-visible messages without
// depending on the notification transport directly.

import (
	"xrandream/src/notification"
)

// Info shows a short informational message.
func Info(title, body string) {
	notification.Show(title, body)
}

// Error shows a failure message.
func Error(body string) {
	notification.ShowError(body)
}
