package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/focusguard/internal/cli/formatter"
	"github.com/alexanderramin/focusguard/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

type statusMsg domain.FocusStatus

type sessionEndedMsg struct{}

type countdownKeys struct {
	Stop key.Binding
}

func defaultCountdownKeys() countdownKeys {
	return countdownKeys{
		Stop: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "stop session"),
		),
	}
}

// countdownModel renders the live session view. It only reads status; the
// caller performs the Stop after the program exits.
type countdownModel struct {
	status   domain.FocusStatus
	updates  <-chan domain.FocusStatus
	ended    <-chan struct{}
	keys     countdownKeys
	bar      progress.Model
	modeName string

	stopRequested bool
	finished      bool
}

func newCountdownModel(initial domain.FocusStatus, updates <-chan domain.FocusStatus, ended <-chan struct{}, modeName string) countdownModel {
	return countdownModel{
		status:   initial,
		updates:  updates,
		ended:    ended,
		keys:     defaultCountdownKeys(),
		bar:      progress.New(progress.WithGradient(string(formatter.ColorGreen), string(formatter.ColorYellow)), progress.WithoutPercentage()),
		modeName: modeName,
	}
}

func waitForStatus(updates <-chan domain.FocusStatus) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-updates
		if !ok {
			return sessionEndedMsg{}
		}
		return statusMsg(st)
	}
}

func waitForEnd(ended <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ended
		return sessionEndedMsg{}
	}
}

func (m countdownModel) Init() tea.Cmd {
	return tea.Batch(waitForStatus(m.updates), waitForEnd(m.ended))
}

func (m countdownModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Stop) {
			m.stopRequested = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-12, 10), 60)
	case statusMsg:
		st := domain.FocusStatus(msg)
		if !st.IsActive {
			m.finished = true
			return m, tea.Quit
		}
		m.status = st
		return m, waitForStatus(m.updates)
	case sessionEndedMsg:
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m countdownModel) View() string {
	if m.finished || m.stopRequested {
		return ""
	}
	pct := 0.0
	if m.status.PlannedDuration > 0 {
		pct = float64(m.status.RemainingTime) / float64(m.status.PlannedDuration)
	}
	var b strings.Builder
	b.WriteString(formatter.Header("FOCUS") + "  " + formatter.Dim(m.modeName) + "\n\n")
	b.WriteString(formatter.Bold(formatter.Clock(m.status.RemainingTime)) + "  " + formatter.Dim("of "+formatter.FormatSeconds(m.status.PlannedDuration)) + "\n")
	b.WriteString(m.bar.ViewAs(pct) + "\n\n")
	b.WriteString(formatter.Dim(fmt.Sprintf("%s %s", m.keys.Stop.Help().Key, m.keys.Stop.Help().Desc)) + "\n")
	return b.String()
}

func runLiveCountdown(ctx context.Context, cmd *cobra.Command, app *App) (bool, error) {
	updates, unsubscribe := app.Focus.Subscribe()
	defer unsubscribe()

	modeName, err := app.Settings.FocusModeName(ctx)
	if err != nil {
		modeName = domain.DefaultFocusModeName
	}
	m := newCountdownModel(app.Focus.Status(), updates, app.Focus.SessionEnded(), modeName)
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	final, err := p.Run()
	if err != nil {
		// A cancelled context reads as a stop request.
		if ctx.Err() != nil {
			return true, nil
		}
		return false, fmt.Errorf("running countdown: %w", err)
	}
	fm, ok := final.(countdownModel)
	if !ok {
		return false, nil
	}
	return fm.stopRequested, nil
}
