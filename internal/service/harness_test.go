package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/focusguard/internal/db"
	"github.com/alexanderramin/focusguard/internal/domain"
	"github.com/alexanderramin/focusguard/internal/focusmode"
	"github.com/alexanderramin/focusguard/internal/repository"
	"github.com/alexanderramin/focusguard/internal/testutil"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// fakeController records automation calls. When gate is set, Enable blocks
// until it is closed.
type fakeController struct {
	mu        sync.Mutex
	enables   []string
	disables  int
	enableErr error
	gate      chan struct{}
	entered   chan struct{}
}

func (c *fakeController) Enable(ctx context.Context, modeName string) focusmode.Result {
	c.mu.Lock()
	c.enables = append(c.enables, modeName)
	gate, entered, err := c.gate, c.entered, c.enableErr
	c.mu.Unlock()

	if entered != nil {
		close(entered)
	}
	if gate != nil {
		<-gate
	}
	if err != nil {
		return focusmode.Result{Policy: "manual", Err: err}
	}
	return focusmode.Result{Applied: true, Policy: "manual"}
}

func (c *fakeController) Disable(ctx context.Context) focusmode.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disables++
	return focusmode.Result{Policy: "manual", Message: "restore manually"}
}

func (c *fakeController) counts() (enables []string, disables int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.enables...), c.disables
}

// fakeSource serves a fixed window and records the requested bounds.
type fakeSource struct {
	mu         sync.Mutex
	items      []domain.RawNotification
	start, end time.Time
	calls      int
}

func (s *fakeSource) FetchWindow(ctx context.Context, start, end time.Time) []domain.RawNotification {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.start, s.end = start, end
	out := make([]domain.RawNotification, len(s.items))
	copy(out, s.items)
	return out
}

type harness struct {
	db            *sql.DB
	uow           db.UnitOfWork
	clock         *clockwork.FakeClock
	controller    *fakeController
	source        *fakeSource
	sessions      *repository.SQLiteSessionRepo
	notifications *repository.SQLiteNotificationRepo
	settings      SettingsService
	rulesConfig   RulesConfigService
	orchestrator  *Orchestrator
	triage        TriageService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	database := testutil.NewTestDB(t)
	h := &harness{
		db:            database,
		uow:           testutil.NewTestUoW(database),
		clock:         clockwork.NewFakeClockAt(testutil.FixedNow),
		controller:    &fakeController{},
		source:        &fakeSource{},
		sessions:      repository.NewSQLiteSessionRepo(database),
		notifications: repository.NewSQLiteNotificationRepo(database),
	}
	h.settings = NewSettingsService(repository.NewSQLiteSettingRepo(database), domain.DefaultFocusModeName)
	h.rulesConfig = NewRulesConfigService(repository.NewSQLiteWhitelistRepo(database), repository.NewSQLiteKeywordRepo(database))
	h.orchestrator = NewOrchestrator(h.sessions, h.uow, h.settings, h.controller, h.clock, zerolog.Nop())
	h.triage = NewTriageService(h.sessions, h.source, h.uow, h.clock, zerolog.Nop())

	t.Cleanup(func() {
		// Stop a session a test left running so its ticker goroutine exits.
		_, _ = h.orchestrator.Stop(context.Background())
	})
	return h
}

func (h *harness) sessionCount(t *testing.T) int {
	t.Helper()
	var n int
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM focus_sessions`).Scan(&n); err != nil {
		t.Fatalf("counting sessions: %v", err)
	}
	return n
}
