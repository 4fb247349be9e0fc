package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/focusguard/internal/domain"
	"github.com/google/uuid"
)

var testNotificationCounter atomic.Int64

// FixedNow is a stable reference instant for tests.
var FixedNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

// Session options
type SessionOption func(*domain.FocusSession)

func WithStartTime(t time.Time) SessionOption {
	return func(s *domain.FocusSession) {
		s.StartTime = t
	}
}

func WithStatus(st domain.SessionStatus) SessionOption {
	return func(s *domain.FocusSession) {
		s.Status = st
	}
}

func WithEndTime(t time.Time) SessionOption {
	return func(s *domain.FocusSession) {
		s.EndTime = &t
	}
}

func WithWorkContext(note string) SessionOption {
	return func(s *domain.FocusSession) {
		s.WorkContext = &note
	}
}

func NewTestSession(plannedSeconds int, opts ...SessionOption) *domain.FocusSession {
	s := &domain.FocusSession{
		ID:              uuid.New().String(),
		StartTime:       FixedNow,
		PlannedDuration: plannedSeconds,
		Status:          domain.SessionActive,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Notification options
type NotificationOption func(*domain.RawNotification)

func WithSender(sender string) NotificationOption {
	return func(n *domain.RawNotification) {
		n.Sender = sender
	}
}

func WithApp(app string) NotificationOption {
	return func(n *domain.RawNotification) {
		n.AppName = app
	}
}

func WithBody(body string) NotificationOption {
	return func(n *domain.RawNotification) {
		n.Body = body
	}
}

func WithTimestamp(t time.Time) NotificationOption {
	return func(n *domain.RawNotification) {
		n.Timestamp = t
	}
}

func WithNotificationID(id string) NotificationOption {
	return func(n *domain.RawNotification) {
		n.ID = id
	}
}

// NewTestNotification builds a raw notification from "Messages" at FixedNow.
func NewTestNotification(title string, opts ...NotificationOption) domain.RawNotification {
	n := domain.RawNotification{
		ID:        fmt.Sprintf("notif-%03d", testNotificationCounter.Add(1)),
		AppName:   "Messages",
		Sender:    "Messages",
		Title:     title,
		Body:      "",
		Timestamp: FixedNow,
	}
	for _, opt := range opts {
		opt(&n)
	}
	return n
}
