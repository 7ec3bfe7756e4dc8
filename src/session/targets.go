package session

import (
	"fmt"
	"log"
	"os"

	"xrandream/src/popup"
	"xrandream/src/singleinstance"
)

// StdoutTarget prints results to standard output, for CLI use.
type StdoutTarget struct{}

func (StdoutTarget) OnSuccess(summary string) {
	if summary != "" {
		fmt.Fprintln(os.Stdout, summary)
	}
}

func (StdoutTarget) OnFailure(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
}

// DelegatedTarget relays the result over a singleinstance connection and
// closes it.
type DelegatedTarget struct {
	Conn singleinstance.Conn
}

func (t DelegatedTarget) OnSuccess(summary string) {
	if err := t.Conn.RespondSuccess(summary); err != nil {
		log.Printf("session: respond success failed: %v", err)
	}
	_ = t.Conn.Close()
}

func (t DelegatedTarget) OnFailure(err error) {
	if rerr := t.Conn.RespondError(err.Error()); rerr != nil {
		log.Printf("session: respond error failed: %v", rerr)
	}
	_ = t.Conn.Close()
}

// NotifyTarget reports results as desktop notifications, for hotkey and
// tray triggered commands that have no terminal attached.
type NotifyTarget struct {
	Title string
}

func (t NotifyTarget) OnSuccess(summary string) {
	title := t.Title
	if title == "" {
		title = "XranDream"
	}
	popup.Info(title, summary)
}

func (t NotifyTarget) OnFailure(err error) {
	popup.Error(err.Error())
}
