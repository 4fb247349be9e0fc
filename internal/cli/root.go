package cli

import (
	"github.com/alexanderramin/focusguard/internal/service"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Focus         service.FocusService
	Triage        service.TriageService
	Notifications service.NotificationService
	Rules         service.RulesConfigService
	Settings      service.SettingsService

	Clock  clockwork.Clock
	Logger zerolog.Logger

	// IsInteractive reports whether the live countdown and prompts can be
	// shown. Nil means plain output.
	IsInteractive func() bool

	// PromptNote asks for the work context after a session. Nil disables it.
	PromptNote func() (string, error)
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) clock() clockwork.Clock {
	if a.Clock == nil {
		return clockwork.NewRealClock()
	}
	return a.Clock
}

// Global flags. main reads them before wiring the App; they are declared
// here so cobra accepts them on every command.
const (
	FlagConfig   = "config"
	FlagLogLevel = "log-level"
)

// NewRootCmd creates the top-level "focusguard" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "focusguard",
		Short:         "Focus sessions with do-not-disturb and notification triage",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String(FlagConfig, "", "Config file (default ~/.config/focusguard/config.yaml)")
	root.PersistentFlags().String(FlagLogLevel, "", "Log level: debug, info, warn, error")

	root.AddCommand(
		newStartCmd(app),
		newStatusCmd(app),
		newHistoryCmd(app),
		newLastCmd(app),
		newContextCmd(app),
		newTriageCmd(app),
		newNotificationsCmd(app),
		newWhitelistCmd(app),
		newKeywordCmd(app),
		newModeCmd(app),
	)

	return root
}
