// Package notify raises a desktop notification when the widget needs the
// visitor's attention while its host is in the background.
package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

const appName = "smartbot-widget"

// Runner executes a notification command. Tests inject a fake.
type Runner func(ctx context.Context, name string, args ...string) error

// Notifier sends notifications. The zero value is disabled.
type Notifier struct {
	enabled bool
	goos    string
	run     Runner
	bell    func() error
}

// New creates a notifier for the current platform.
func New(enabled bool) *Notifier {
	return &Notifier{enabled: enabled, goos: runtime.GOOS, run: execRunner, bell: writeBell}
}

// Enabled reports whether notifications are sent.
func (n *Notifier) Enabled() bool {
	return n != nil && n.enabled
}

// Send delivers a notification. On macOS it uses osascript, on Linux
// notify-send, elsewhere a terminal bell. Disabled notifiers do nothing.
func (n *Notifier) Send(ctx context.Context, title, body string) error {
	if !n.Enabled() {
		return nil
	}
	name, args, ok := command(n.goos, title, body)
	if !ok {
		return n.bell()
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := n.run(ctx, name, args...); err != nil {
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}

// command returns the notification command for goos.
func command(goos, title, body string) (string, []string, bool) {
	switch goos {
	case "darwin":
		script := fmt.Sprintf(
			`display notification %s with title %s`,
			escapeAppleScript(body),
			escapeAppleScript(title),
		)
		return "osascript", []string{"-e", script}, true
	case "linux":
		return "notify-send", []string{"-a", appName, title, body}, true
	}
	return "", nil, false
}

func execRunner(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

func writeBell() error {
	_, err := fmt.Print("\a")
	return err
}

// escapeAppleScript returns a quoted AppleScript string with internal
// quotes and backslashes escaped.
func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
