package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/focusguard/internal/cli/formatter"
	"github.com/alexanderramin/focusguard/internal/domain"
	"github.com/spf13/cobra"
)

func newStartCmd(app *App) *cobra.Command {
	length := newDurationFlag(defaultSessionLength)
	var (
		note        string
		noTriage    bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "start [DURATION]",
		Short: "Run a focus session in the foreground",
		Long: `Start a focus session and show a countdown until it ends.

DURATION is a Go duration (25m, 1h30m) or a number of seconds. Press q or
Ctrl-C to stop early. When the session ends, notifications that arrived
meanwhile are triaged and you can note what you were working on.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if cmd.Flags().Changed("duration") {
					return fmt.Errorf("give the duration as an argument or with --duration, not both: %w", domain.ErrInvalidInput)
				}
				if err := length.Set(args[0]); err != nil {
					return err
				}
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if metricsAddr != "" {
				srv, err := startMetricsServer(metricsAddr, app.Logger)
				if err != nil {
					return err
				}
				defer srv.Shutdown()
				fmt.Fprintln(out, formatter.Dim("metrics on http://"+srv.Addr()+"/metrics"))
			}

			if err := app.Focus.Start(ctx, length.seconds); err != nil {
				if errors.Is(err, domain.ErrSessionConflict) {
					return fmt.Errorf("%w (see: focusguard status)", err)
				}
				return err
			}

			stopped, err := runForeground(ctx, cmd, app)
			if err != nil {
				return err
			}
			// The session has to be closed even when ctx was cancelled by a signal.
			session, err := finishSession(context.WithoutCancel(ctx), app, stopped)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, formatter.FormatSession(session, app.clock().Now()))
			if ctx.Err() != nil {
				return nil
			}

			if !noTriage {
				if err := triageAndReport(ctx, out, app, session.ID); err != nil {
					return err
				}
			}
			return recordWorkContext(ctx, out, app, session.ID, note)
		},
	}

	cmd.Flags().VarP(length, "duration", "d", "Session length, e.g. 25m or 1500")
	cmd.Flags().StringVar(&note, "note", "", "What you are working on (skips the prompt)")
	cmd.Flags().BoolVar(&noTriage, "no-triage", false, "Skip notification triage after the session")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running")
	return cmd
}

// runForeground blocks until the session ends and reports whether the user
// asked to stop it early.
func runForeground(ctx context.Context, cmd *cobra.Command, app *App) (bool, error) {
	if app.interactive() {
		return runLiveCountdown(ctx, cmd, app)
	}
	return runPlainCountdown(ctx, cmd.OutOrStdout(), app)
}

func runPlainCountdown(ctx context.Context, out io.Writer, app *App) (bool, error) {
	updates, unsubscribe := app.Focus.Subscribe()
	defer unsubscribe()
	ended := app.Focus.SessionEnded()

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupts)

	st := app.Focus.Status()
	fmt.Fprintf(out, "Focus session started: %s. Press Ctrl-C to stop.\n", formatter.FormatSeconds(st.PlannedDuration))

	for {
		select {
		case <-ended:
			return false, nil
		case <-interrupts:
			return true, nil
		case <-ctx.Done():
			return true, nil
		case st := <-updates:
			if st.IsActive && st.RemainingTime > 0 && st.RemainingTime%60 == 0 {
				fmt.Fprintf(out, "%s remaining\n", formatter.Clock(st.RemainingTime))
			}
		}
	}
}

// finishSession stops the session when the user asked to and returns the
// final record. A session that expired while stopping is already closed.
func finishSession(ctx context.Context, app *App, stopRequested bool) (*domain.FocusSession, error) {
	if stopRequested {
		s, err := app.Focus.Stop(ctx)
		switch {
		case err == nil:
			return s, nil
		case !errors.Is(err, domain.ErrNoActiveSession):
			return nil, fmt.Errorf("stopping session: %w", err)
		}
	}
	s, err := app.Focus.LastSession(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, errNoSessions
	}
	return s, nil
}

func triageAndReport(ctx context.Context, out io.Writer, app *App, sessionID string) error {
	stop := func() {}
	if app.interactive() {
		stop = formatter.StartSpinner(out, "Triaging notifications...")
	}
	res, err := app.Triage.TriageSession(ctx, sessionID)
	stop()
	if err != nil {
		return fmt.Errorf("triaging notifications: %w", err)
	}
	fmt.Fprintln(out, formatter.FormatTriageSummary(res.Fetched, res.Queued, res.Urgent))
	return nil
}

func recordWorkContext(ctx context.Context, out io.Writer, app *App, sessionID, note string) error {
	if note == "" && app.PromptNote != nil && app.interactive() {
		var err error
		if note, err = app.PromptNote(); err != nil {
			return err
		}
	}
	if note == "" {
		return nil
	}
	if err := app.Focus.AttachWorkContext(ctx, sessionID, nil, note); err != nil {
		return err
	}
	fmt.Fprintln(out, formatter.Dim("Saved work context."))
	return nil
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active session or the last one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			now := app.clock().Now()
			active, err := app.Focus.ActiveRecord(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatStatus(active, now))
			if active != nil {
				return nil
			}
			last, err := app.Focus.LastSession(ctx)
			if err != nil {
				return err
			}
			if last != nil {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSession(last, now))
			}
			return nil
		},
	}
}

func newHistoryCmd(app *App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past focus sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := app.Focus.History(cmd.Context())
			if err != nil {
				return err
			}
			if limit > 0 && len(sessions) > limit {
				sessions = sessions[:limit]
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSessionList(sessions, app.clock().Now()))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many sessions")
	return cmd
}

func newLastCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "last",
		Short: "Show the most recent session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.Focus.LastSession(cmd.Context())
			if err != nil {
				return err
			}
			if s == nil {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No focus sessions yet."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSession(s, app.clock().Now()))
			return nil
		},
	}
}

func newContextCmd(app *App) *cobra.Command {
	var note, screenshot string
	cmd := &cobra.Command{
		Use:   "context SESSION_ID|last",
		Short: "Attach work context to a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if note == "" && screenshot == "" {
				return fmt.Errorf("nothing to attach, pass --note or --screenshot: %w", domain.ErrInvalidInput)
			}
			ctx := cmd.Context()
			id, err := resolveSessionID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Focus.AttachWorkContext(ctx, id, stringOrNil(screenshot), note); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated session %s\n", formatter.TruncID(id))
			return nil
		},
	}
	cmd.Flags().StringVar(&note, "note", "", "What you were working on")
	cmd.Flags().StringVar(&screenshot, "screenshot", "", "Path or reference to a screen capture")
	return cmd
}

func newTriageCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "triage SESSION_ID|last",
		Short: "Re-run notification triage for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveSessionID(ctx, app, args[0])
			if err != nil {
				return err
			}
			return triageAndReport(ctx, cmd.OutOrStdout(), app, id)
		},
	}
}
