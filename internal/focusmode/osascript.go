package focusmode

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/focusguard/internal/config"
	"github.com/alexanderramin/focusguard/internal/executil"
)

// Executor is the subset of executil.Executor the backends need.
type Executor = executil.Executor

// OsascriptBackend drives Control Center through System Events.
// Sending the mode name toggles it, so Disable repeats the keystroke.
type OsascriptBackend struct {
	exec Executor
}

func NewOsascriptBackend(exec Executor) *OsascriptBackend {
	return &OsascriptBackend{exec: exec}
}

func (b *OsascriptBackend) Name() string { return config.BackendOsascript }

func (b *OsascriptBackend) Enable(ctx context.Context, modeName string) error {
	return b.keystroke(ctx, modeName)
}

func (b *OsascriptBackend) Disable(ctx context.Context, modeName string) error {
	if modeName == "" {
		return fmt.Errorf("no focus mode was enabled by this process")
	}
	return b.keystroke(ctx, modeName)
}

func (b *OsascriptBackend) keystroke(ctx context.Context, modeName string) error {
	if err := b.exec.LookPath("osascript"); err != nil {
		return err
	}
	if _, err := b.exec.Run(ctx, "osascript", "-e", Script(modeName)); err != nil {
		return err
	}
	return nil
}

// Script builds the AppleScript that types the mode name into Control Center.
func Script(modeName string) string {
	return fmt.Sprintf(`tell application "System Events"
	tell process "ControlCenter"
		keystroke "%s"
	end tell
end tell`, escapeAppleScript(modeName))
}

func escapeAppleScript(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
