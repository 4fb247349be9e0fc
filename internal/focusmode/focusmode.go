// Package focusmode toggles the host do-not-disturb mode through a
// pluggable automation backend.
package focusmode

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/focusguard/internal/config"
	"github.com/alexanderramin/focusguard/internal/domain"
	"github.com/alexanderramin/focusguard/internal/metrics"
	"github.com/rs/zerolog"
)

// Controller enables and restores the host focus mode.
// Neither call fails the caller: problems are reported in Result.Err.
type Controller interface {
	Enable(ctx context.Context, modeName string) Result
	Disable(ctx context.Context) Result
}

// Result reports what an automation call actually did.
type Result struct {
	Applied bool
	Policy  string
	Message string
	Err     error
}

// Backend performs the host-specific automation.
type Backend interface {
	Name() string
	Enable(ctx context.Context, modeName string) error
	Disable(ctx context.Context, modeName string) error
}

const (
	opEnable  = "enable"
	opDisable = "disable"
)

// Switcher is the Controller used by the orchestrator.
type Switcher struct {
	backend Backend
	restore string
	timeout time.Duration
	logger  zerolog.Logger

	// enabled is the mode this Switcher turned on, empty when it turned
	// nothing on. Disable acts only on it.
	mu      sync.Mutex
	enabled string
}

// New wires a backend with the restore policy and per-call timeout.
func New(backend Backend, restore string, timeout time.Duration, logger zerolog.Logger) *Switcher {
	if restore == "" {
		restore = config.RestoreManual
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Switcher{
		backend: backend,
		restore: restore,
		timeout: timeout,
		logger:  logger.With().Str("component", "focusmode").Str("backend", backend.Name()).Logger(),
	}
}

func (s *Switcher) Enable(ctx context.Context, modeName string) Result {
	s.setEnabled("")

	if _, ok := s.backend.(NoneBackend); ok {
		metrics.AutomationCalls.WithLabelValues(opEnable, "skipped").Inc()
		return Result{Policy: s.restore, Message: fmt.Sprintf("no automation backend configured; enable focus mode %q manually", modeName)}
	}

	if err := s.run(ctx, opEnable, func(ctx context.Context) error { return s.backend.Enable(ctx, modeName) }); err != nil {
		s.logger.Warn().Err(err).Str("mode", modeName).Msg("focus mode enable failed")
		return Result{
			Policy:  s.restore,
			Message: fmt.Sprintf("could not enable focus mode %q; enable it manually from Control Center", modeName),
			Err:     err,
		}
	}
	s.setEnabled(modeName)
	s.logger.Info().Str("mode", modeName).Msg("focus mode enabled")
	return Result{Applied: true, Policy: s.restore, Message: fmt.Sprintf("focus mode %q enabled", modeName)}
}

// Disable restores the mode enabled by the last successful Enable. When
// nothing was enabled it reports a no-op, since the osascript keystroke
// toggles and would turn the mode on.
func (s *Switcher) Disable(ctx context.Context) Result {
	s.mu.Lock()
	mode := s.enabled
	s.enabled = ""
	s.mu.Unlock()

	if s.restore == config.RestoreManual {
		metrics.AutomationCalls.WithLabelValues(opDisable, "skipped").Inc()
		s.logger.Info().Str("mode", mode).Msg("automatic focus mode restore is disabled")
		return Result{Policy: config.RestoreManual, Message: "automatic restore is off; disable focus mode manually if needed"}
	}
	if _, ok := s.backend.(NoneBackend); ok {
		metrics.AutomationCalls.WithLabelValues(opDisable, "skipped").Inc()
		return Result{Policy: s.restore, Message: "no automation backend configured; disable focus mode manually"}
	}
	if mode == "" {
		metrics.AutomationCalls.WithLabelValues(opDisable, "skipped").Inc()
		s.logger.Info().Msg("focus mode was not enabled by focusguard, nothing to restore")
		return Result{Policy: s.restore, Message: "focus mode was not enabled by focusguard; nothing to restore"}
	}

	if err := s.run(ctx, opDisable, func(ctx context.Context) error { return s.backend.Disable(ctx, mode) }); err != nil {
		s.logger.Warn().Err(err).Str("mode", mode).Msg("focus mode disable failed")
		return Result{Policy: s.restore, Message: "could not disable focus mode; disable it manually", Err: err}
	}
	s.logger.Info().Str("mode", mode).Msg("focus mode disabled")
	return Result{Applied: true, Policy: s.restore, Message: "focus mode disabled"}
}

func (s *Switcher) setEnabled(mode string) {
	s.mu.Lock()
	s.enabled = mode
	s.mu.Unlock()
}

// run bounds fn by the configured timeout and records the outcome.
func (s *Switcher) run(ctx context.Context, op string, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	metrics.AutomationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.AutomationCalls.WithLabelValues(op, "error").Inc()
		if errors.Is(err, domain.ErrAutomationFailure) {
			return err
		}
		return fmt.Errorf("%s: %w: %w", op, domain.ErrAutomationFailure, err)
	}
	metrics.AutomationCalls.WithLabelValues(op, "applied").Inc()
	return nil
}

// NewBackend returns the backend named by focus_mode.backend.
func NewBackend(name string, exec Executor) (Backend, error) {
	switch name {
	case config.BackendOsascript:
		return NewOsascriptBackend(exec), nil
	case config.BackendNone:
		return NoneBackend{}, nil
	default:
		return nil, fmt.Errorf("focus mode backend %q: %w", name, domain.ErrInvalidInput)
	}
}

// NoneBackend performs no automation.
type NoneBackend struct{}

func (NoneBackend) Name() string                               { return config.BackendNone }
func (NoneBackend) Enable(ctx context.Context, _ string) error  { return nil }
func (NoneBackend) Disable(ctx context.Context, _ string) error { return nil }
