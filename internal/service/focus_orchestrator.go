package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/focusguard/internal/db"
	"github.com/alexanderramin/focusguard/internal/domain"
	"github.com/alexanderramin/focusguard/internal/focusmode"
	"github.com/alexanderramin/focusguard/internal/metrics"
	"github.com/alexanderramin/focusguard/internal/repository"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// TickInterval is the countdown resolution.
const TickInterval = time.Second

type activeSession struct {
	session *domain.FocusSession
	cancel  context.CancelFunc
	ended   chan struct{}
}

// unsavedEnd is a session that ended in memory but whose store write
// failed. It is written again before the next Start and on Shutdown.
type unsavedEnd struct {
	id      string
	endTime time.Time
	reason  domain.EndReason
}

// Orchestrator is the FocusService. It owns the single active session,
// drives its countdown and toggles the host focus mode around it.
//
// transMu serializes Start and Stop and guards unsaved. mu guards the
// active reference and is never held across store or automation calls, so
// Status stays responsive while a transition is in flight.
type Orchestrator struct {
	sessions   repository.SessionRepo
	uow        db.UnitOfWork
	settings   SettingsService
	controller focusmode.Controller
	clock      clockwork.Clock
	logger     zerolog.Logger
	observer   UseCaseObserver

	transMu sync.Mutex
	unsaved *unsavedEnd
	mu      sync.RWMutex
	active  *activeSession

	subMu   sync.Mutex
	subs    map[int]chan domain.FocusStatus
	nextSub int
}

func NewOrchestrator(
	sessions repository.SessionRepo,
	uow db.UnitOfWork,
	settings SettingsService,
	controller focusmode.Controller,
	clock clockwork.Clock,
	logger zerolog.Logger,
	observers ...UseCaseObserver,
) *Orchestrator {
	return &Orchestrator{
		sessions:   sessions,
		uow:        uow,
		settings:   settings,
		controller: controller,
		clock:      clock,
		logger:     logger.With().Str("component", "orchestrator").Logger(),
		observer:   useCaseObserverOrNoop(observers),
		subs:       make(map[int]chan domain.FocusStatus),
	}
}

func (o *Orchestrator) Start(ctx context.Context, durationSeconds int) (err error) {
	fields := map[string]any{"planned_duration": durationSeconds}
	defer observe(ctx, o.observer, "start-session", time.Now(), fields, &err)

	if durationSeconds <= 0 {
		return fmt.Errorf("duration must be positive, got %d: %w", durationSeconds, domain.ErrInvalidInput)
	}

	o.transMu.Lock()
	defer o.transMu.Unlock()

	o.mu.RLock()
	busy := o.active != nil
	o.mu.RUnlock()
	if busy {
		return domain.ErrSessionConflict
	}

	// Another process may be running a session against the same store.
	existing, err := o.sessions.GetActive(ctx)
	if err != nil {
		return err
	}
	if existing != nil && !existing.IsStale(o.clock.Now()) && !o.ownsUnsaved(existing.ID) {
		return domain.ErrSessionConflict
	}

	modeName, nameErr := o.settings.FocusModeName(ctx)
	if nameErr != nil {
		o.logger.Warn().Err(nameErr).Msg("reading focus mode name, using default")
		modeName = domain.DefaultFocusModeName
	}
	fields["mode"] = modeName

	res := o.controller.Enable(ctx, modeName)
	fields["focus_mode_applied"] = res.Applied
	if res.Err != nil {
		o.logger.Warn().Err(res.Err).Str("mode", modeName).Msg("focus mode not enabled, continuing session")
	}

	now := o.clock.Now().UTC().Truncate(time.Second)
	session := &domain.FocusSession{
		ID:              uuid.New().String(),
		StartTime:       now,
		PlannedDuration: durationSeconds,
		Status:          domain.SessionActive,
	}

	err = o.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteSessionRepo(tx)

		current, err := txSessions.GetActive(ctx)
		if err != nil {
			return err
		}
		switch {
		case current == nil:
		case o.ownsUnsaved(current.ID):
			u := o.unsaved
			if err := txSessions.Complete(ctx, u.id, u.endTime, domain.SessionCompleted, u.reason); err != nil {
				return fmt.Errorf("recording end of session %s: %w", u.id, err)
			}
		case current.IsStale(now):
			if err := txSessions.Complete(ctx, current.ID, now, domain.SessionCancelled, domain.EndStale); err != nil {
				return fmt.Errorf("cancelling stale session: %w", err)
			}
			metrics.SessionsEnded.WithLabelValues(string(domain.EndStale)).Inc()
			o.logger.Info().Str("session_id", current.ID).Msg("cancelled stale active session")
		default:
			return domain.ErrSessionConflict
		}
		return txSessions.Create(ctx, session)
	})
	if err != nil {
		if r := o.controller.Disable(ctx); r.Err != nil {
			o.logger.Warn().Err(r.Err).Msg("restoring focus mode after failed start")
		}
		return err
	}
	if o.unsaved != nil {
		o.logger.Info().Str("session_id", o.unsaved.id).Msg("recorded end of previous session")
		o.unsaved = nil
	}
	fields["session_id"] = session.ID

	tickCtx, cancel := context.WithCancel(context.Background())
	a := &activeSession{session: session, cancel: cancel, ended: make(chan struct{})}
	ticker := o.clock.NewTicker(TickInterval)

	o.mu.Lock()
	o.active = a
	o.mu.Unlock()

	metrics.SessionsStarted.Inc()
	metrics.SessionActive.Set(1)
	metrics.SessionRemainingSeconds.Set(float64(durationSeconds))
	o.logger.Info().Str("session_id", session.ID).Int("planned_duration", durationSeconds).Msg("focus session started")

	go o.runTicker(tickCtx, session.ID, ticker)

	o.mu.RLock()
	if o.active == a {
		o.publish(statusOf(session, o.clock.Now()))
	}
	o.mu.RUnlock()
	return nil
}

func (o *Orchestrator) Stop(ctx context.Context) (session *domain.FocusSession, err error) {
	defer observe(ctx, o.observer, "stop-session", time.Now(), map[string]any{"reason": string(domain.EndManual)}, &err)

	o.transMu.Lock()
	defer o.transMu.Unlock()
	return o.stopLocked(ctx, domain.EndManual)
}

// stopLocked ends the active session. Callers hold transMu.
//
// Once the active reference is cleared the session is over, so the store
// write and the restore run even if ctx is already cancelled. A failed
// write is kept in unsaved and retried.
func (o *Orchestrator) stopLocked(ctx context.Context, reason domain.EndReason) (*domain.FocusSession, error) {
	o.mu.Lock()
	a := o.active
	if a == nil {
		o.mu.Unlock()
		return nil, domain.ErrNoActiveSession
	}
	o.active = nil
	o.mu.Unlock()

	a.cancel()
	ctx = context.WithoutCancel(ctx)

	now := o.clock.Now().UTC()
	finished := *a.session
	_ = finished.Finish(domain.SessionCompleted, now)

	storeErr := o.sessions.Complete(ctx, finished.ID, now, domain.SessionCompleted, reason)
	if storeErr != nil {
		o.unsaved = &unsavedEnd{id: finished.ID, endTime: now, reason: reason}
		o.logger.Error().Err(storeErr).Str("session_id", finished.ID).Msg("recording session end, will retry")
	}

	if res := o.controller.Disable(ctx); res.Err != nil {
		o.logger.Warn().Err(res.Err).Msg("focus mode not restored")
	} else if !res.Applied && res.Message != "" {
		o.logger.Info().Str("policy", res.Policy).Msg(res.Message)
	}

	metrics.SessionsEnded.WithLabelValues(string(reason)).Inc()
	metrics.SessionActive.Set(0)
	metrics.SessionRemainingSeconds.Set(0)
	o.logger.Info().
		Str("session_id", finished.ID).
		Str("reason", string(reason)).
		Int("actual_duration", finished.ActualDuration()).
		Msg("focus session ended")

	o.publish(domain.FocusStatus{})
	close(a.ended)

	if storeErr != nil {
		return &finished, fmt.Errorf("completing session %s: %w", finished.ID, storeErr)
	}
	return &finished, nil
}

// Shutdown stops a running session and retries a session end the store
// has not recorded yet. main calls it before closing the store.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.transMu.Lock()
	defer o.transMu.Unlock()

	if _, err := o.stopLocked(ctx, domain.EndManual); err != nil && !errors.Is(err, domain.ErrNoActiveSession) {
		o.logger.Warn().Err(err).Msg("stopping session on shutdown")
	}
	u := o.unsaved
	if u == nil {
		return nil
	}
	if err := o.sessions.Complete(context.WithoutCancel(ctx), u.id, u.endTime, domain.SessionCompleted, u.reason); err != nil {
		return fmt.Errorf("recording end of session %s: %w", u.id, err)
	}
	o.unsaved = nil
	return nil
}

// ownsUnsaved reports whether id is a session this process ended but has
// not recorded yet. Callers hold transMu.
func (o *Orchestrator) ownsUnsaved(id string) bool {
	return o.unsaved != nil && o.unsaved.id == id
}

func (o *Orchestrator) runTicker(ctx context.Context, sessionID string, ticker clockwork.Ticker) {
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if expired := o.tick(sessionID); expired {
				o.expire(sessionID)
				return
			}
		}
	}
}

// tick publishes the countdown for sessionID and reports whether it ran out.
// Ticks for a session that is no longer active do nothing.
func (o *Orchestrator) tick(sessionID string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()

	a := o.active
	if a == nil || a.session.ID != sessionID {
		return false
	}
	status := statusOf(a.session, o.clock.Now())
	if status.RemainingTime <= 0 {
		return true
	}
	metrics.SessionRemainingSeconds.Set(float64(status.RemainingTime))
	o.logger.Debug().Str("session_id", sessionID).Int("remaining", status.RemainingTime).Msg("tick")
	o.publish(status)
	return false
}

func (o *Orchestrator) expire(sessionID string) {
	o.transMu.Lock()
	defer o.transMu.Unlock()

	o.mu.RLock()
	a := o.active
	o.mu.RUnlock()
	if a == nil || a.session.ID != sessionID {
		return
	}

	ctx := context.Background()
	var err error
	defer observe(ctx, o.observer, "stop-session", time.Now(), map[string]any{"reason": string(domain.EndExpired)}, &err)
	if _, err = o.stopLocked(ctx, domain.EndExpired); err != nil && !errors.Is(err, domain.ErrNoActiveSession) {
		o.logger.Error().Err(err).Str("session_id", sessionID).Msg("auto-stopping expired session")
	}
}

func (o *Orchestrator) Status() domain.FocusStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.active == nil {
		return domain.FocusStatus{}
	}
	return statusOf(o.active.session, o.clock.Now())
}

func (o *Orchestrator) SessionEnded() <-chan struct{} {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.active == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return o.active.ended
}

func (o *Orchestrator) AttachWorkContext(ctx context.Context, sessionID string, screenshotRef *string, note string) error {
	return o.sessions.AttachContext(ctx, sessionID, screenshotRef, note)
}

func (o *Orchestrator) History(ctx context.Context) ([]*domain.FocusSession, error) {
	return o.sessions.List(ctx)
}

func (o *Orchestrator) LastSession(ctx context.Context) (*domain.FocusSession, error) {
	return o.sessions.GetLast(ctx)
}

func (o *Orchestrator) ActiveRecord(ctx context.Context) (*domain.FocusSession, error) {
	return o.sessions.GetActive(ctx)
}

func (o *Orchestrator) Subscribe() (<-chan domain.FocusStatus, func()) {
	ch := make(chan domain.FocusStatus, 1)

	o.subMu.Lock()
	id := o.nextSub
	o.nextSub++
	o.subs[id] = ch
	o.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			o.subMu.Lock()
			delete(o.subs, id)
			o.subMu.Unlock()
		})
	}
}

// publish delivers status to every subscriber without blocking. A slow
// subscriber loses the older value.
func (o *Orchestrator) publish(status domain.FocusStatus) {
	o.subMu.Lock()
	defer o.subMu.Unlock()
	for _, ch := range o.subs {
		select {
		case ch <- status:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- status:
		default:
		}
	}
}

func statusOf(s *domain.FocusSession, now time.Time) domain.FocusStatus {
	id := s.ID
	return domain.FocusStatus{
		IsActive:        true,
		RemainingTime:   s.Remaining(now),
		PlannedDuration: s.PlannedDuration,
		SessionID:       &id,
	}
}
