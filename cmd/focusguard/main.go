package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/focusguard/internal/cli"
	"github.com/alexanderramin/focusguard/internal/config"
	"github.com/alexanderramin/focusguard/internal/db"
	"github.com/alexanderramin/focusguard/internal/executil"
	"github.com/alexanderramin/focusguard/internal/focusmode"
	"github.com/alexanderramin/focusguard/internal/logging"
	"github.com/alexanderramin/focusguard/internal/notifsource"
	"github.com/alexanderramin/focusguard/internal/repository"
	"github.com/alexanderramin/focusguard/internal/service"
	"github.com/jonboulle/clockwork"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags reads --config and --log-level ahead of cobra, since the
// App has to be wired before the command tree runs.
func globalFlags(args []string) (configPath, logLevel string) {
	fs := pflag.NewFlagSet("focusguard", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.StringVar(&configPath, cli.FlagConfig, "", "")
	fs.StringVar(&logLevel, cli.FlagLogLevel, "", "")
	_ = fs.Parse(args)
	return configPath, logLevel
}

func run() error {
	configPath, logLevel := globalFlags(os.Args[1:])

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logger, closeLog, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer closeLog()

	database, err := db.OpenDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	sessionRepo := repository.NewSQLiteSessionRepo(database)
	notificationRepo := repository.NewSQLiteNotificationRepo(database)
	whitelistRepo := repository.NewSQLiteWhitelistRepo(database)
	keywordRepo := repository.NewSQLiteKeywordRepo(database)
	settingRepo := repository.NewSQLiteSettingRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)
	clock := clockwork.NewRealClock()

	backend, err := focusmode.NewBackend(cfg.FocusMode.Backend, &executil.RealExecutor{})
	if err != nil {
		return err
	}
	switcher := focusmode.New(backend, cfg.FocusMode.Restore, cfg.FocusMode.Timeout, logger)
	source := notifsource.NewSQLiteSource(cfg.Notifications.DBPath, cfg.Notifications.TimeBase, logger)
	observer := service.NewLogUseCaseObserver(logger)

	// Wire services
	settingsSvc := service.NewSettingsService(settingRepo, cfg.FocusMode.DefaultName)
	orchestrator := service.NewOrchestrator(sessionRepo, uow, settingsSvc, switcher, clock, logger, observer)

	app := &cli.App{
		Focus:         orchestrator,
		Triage:        service.NewTriageService(sessionRepo, source, uow, clock, logger, observer),
		Notifications: service.NewNotificationService(notificationRepo),
		Rules:         service.NewRulesConfigService(whitelistRepo, keywordRepo),
		Settings:      settingsSvc,
		Clock:         clock,
		Logger:        logger,
		PromptNote:    cli.DefaultNotePrompt,
	}

	// Live view and prompts need a terminal on both ends.
	app.IsInteractive = func() bool {
		in := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		out := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
		return in && out
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	rootCmd := cli.NewRootCmd(app)
	err = rootCmd.ExecuteContext(ctx)

	// Close a session its command did not stop, and record an end the
	// store rejected earlier, so the next start sees a consistent store.
	if shutdownErr := orchestrator.Shutdown(context.Background()); shutdownErr != nil {
		logger.Error().Err(shutdownErr).Msg("closing session on exit")
		if err == nil {
			err = shutdownErr
		}
	}
	return err
}
