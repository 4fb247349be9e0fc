package service

import (
	"context"

	"github.com/alexanderramin/focusguard/internal/domain"
)

// FocusService runs at most one focus session at a time.
type FocusService interface {
	Start(ctx context.Context, durationSeconds int) error
	Stop(ctx context.Context) (*domain.FocusSession, error)
	Status() domain.FocusStatus
	AttachWorkContext(ctx context.Context, sessionID string, screenshotRef *string, note string) error
	History(ctx context.Context) ([]*domain.FocusSession, error)
	LastSession(ctx context.Context) (*domain.FocusSession, error)
	// ActiveRecord returns the stored active session, which may belong to
	// another process, or nil.
	ActiveRecord(ctx context.Context) (*domain.FocusSession, error)
	// Subscribe returns a status stream and a function that ends the subscription.
	Subscribe() (<-chan domain.FocusStatus, func())
	// SessionEnded is closed when the current session ends. It is already
	// closed while idle.
	SessionEnded() <-chan struct{}
}

// TriageResult summarizes one pass over a session's notification window.
type TriageResult struct {
	SessionID string
	Fetched   int
	Queued    int
	Urgent    int
	Items     []domain.QueuedNotification
}

type TriageService interface {
	TriageSession(ctx context.Context, sessionID string) (*TriageResult, error)
}

type NotificationService interface {
	List(ctx context.Context) ([]*domain.QueuedNotification, error)
	MarkRead(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

type RulesConfigService interface {
	AddWhitelist(ctx context.Context, kind, value string) (*domain.WhitelistEntry, error)
	RemoveWhitelist(ctx context.Context, id string) error
	ListWhitelist(ctx context.Context) ([]*domain.WhitelistEntry, error)
	AddKeyword(ctx context.Context, text string) (*domain.Keyword, error)
	RemoveKeyword(ctx context.Context, id string) error
	ListKeywords(ctx context.Context) ([]*domain.Keyword, error)
}

type SettingsService interface {
	FocusModeName(ctx context.Context) (string, error)
	SetFocusModeName(ctx context.Context, name string) error
}
