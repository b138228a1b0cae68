// Package notify delivers completion messages to the desktop and the
// terminal bell.
package notify

import (
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
)

type Notification struct {
	Title string
	Body  string
}

type Notifier interface {
	Send(Notification) error
}

type Noop struct{}

func (Noop) Send(Notification) error { return nil }

// Exec shells out to notify-send on Linux and osascript on macOS. Other
// platforms are silently skipped.
type Exec struct{}

func (Exec) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

// Async sends on a new goroutine and logs failures, so callers on the UI
// loop never wait for an external process.
type Async struct {
	Inner  Notifier
	Logger *slog.Logger
}

func (a Async) Send(n Notification) error {
	if a.Inner == nil {
		return nil
	}
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}
	go func() {
		if err := a.Inner.Send(n); err != nil {
			logger.Warn("desktop notification failed", "title", n.Title, "err", err)
		}
	}()
	return nil
}

// Bell rings the terminal bell on W.
type Bell struct {
	W io.Writer
}

func (b Bell) Play() {
	if b.W == nil {
		return
	}
	_, _ = io.WriteString(b.W, "\a")
}

func escapeAppleScript(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `"`, `\"`)
}
