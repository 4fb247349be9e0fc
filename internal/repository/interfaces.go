package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/focusguard/internal/domain"
)

type SessionRepo interface {
	Create(ctx context.Context, s *domain.FocusSession) error
	GetByID(ctx context.Context, id string) (*domain.FocusSession, error)
	// GetActive returns nil when no session is active.
	GetActive(ctx context.Context) (*domain.FocusSession, error)
	// GetLast returns nil when no session was ever recorded.
	GetLast(ctx context.Context) (*domain.FocusSession, error)
	List(ctx context.Context) ([]*domain.FocusSession, error)
	Complete(ctx context.Context, id string, endTime time.Time, status domain.SessionStatus, reason domain.EndReason) error
	AttachContext(ctx context.Context, id string, screenshotRef *string, note string) error
}

type NotificationRepo interface {
	// Enqueue inserts items that are not already queued and reports how many were new.
	Enqueue(ctx context.Context, items []domain.QueuedNotification) (int, error)
	List(ctx context.Context) ([]*domain.QueuedNotification, error)
	ListBySession(ctx context.Context, sessionID string) ([]*domain.QueuedNotification, error)
	MarkRead(ctx context.Context, id string) error
	ClearAll(ctx context.Context) error
	CountBySenderBetween(ctx context.Context, sender string, from, to time.Time, excludeID string) (int, error)
}

type WhitelistRepo interface {
	Add(ctx context.Context, e *domain.WhitelistEntry) error
	Remove(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.WhitelistEntry, error)
	// Match returns the first entry matching the app or the contact, or nil.
	Match(ctx context.Context, appName, sender string) (*domain.WhitelistEntry, error)
}

type KeywordRepo interface {
	Add(ctx context.Context, k *domain.Keyword) error
	Remove(ctx context.Context, id string) error
	// List returns keywords in insertion order.
	List(ctx context.Context) ([]*domain.Keyword, error)
}

type SettingRepo interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}
