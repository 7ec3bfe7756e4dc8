package notification

// Desktop notifications via notify-send. On hosts without it (or without
// a notification daemon) messages fall back to the log so command results
// are never silently lost.

import (
	"context"
	"log"
	"os/exec"
	"sync"
	"time"
)

const appName = "XranDream"

var (
	lookupOnce  sync.Once
	notifySend  string
	notifyTimeout = 5 * time.Second
)

func binary() string {
	lookupOnce.Do(func() {
		path, err := exec.LookPath("notify-send")
		if err != nil {
			log.Printf("notification: notify-send not found, using log fallback: %v", err)
			return
		}
		notifySend = path
	})
	return notifySend
}

// Show displays a desktop notification with the given title and body.
func Show(title, body string) {
	bin := binary()
	if bin == "" {
		log.Printf("notification: %s: %s", title, body)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, bin, "--app-name", appName, title, body)
	if err := cmd.Run(); err != nil {
		log.Printf("notification: notify-send failed: %v (%s: %s)", err, title, body)
	}
}

// ShowError displays a failure notification.
func ShowError(body string) {
	Show(appName+" error", body)
}
