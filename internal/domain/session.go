package domain

import (
	"fmt"
	"time"
)

type FocusSession struct {
	ID              string
	StartTime       time.Time
	PlannedDuration int // seconds
	EndTime         *time.Time
	Status          SessionStatus
	ScreenshotRef   *string
	WorkContext     *string
}

// PlannedEnd returns the instant the countdown reaches zero.
func (s *FocusSession) PlannedEnd() time.Time {
	return s.StartTime.Add(time.Duration(s.PlannedDuration) * time.Second)
}

// Remaining returns the whole seconds left at now, clamped to zero.
// Elapsed time is floored to whole seconds.
func (s *FocusSession) Remaining(now time.Time) int {
	elapsed := int(now.Sub(s.StartTime) / time.Second)
	remaining := s.PlannedDuration - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsStale reports whether an Active record outlived its planned end,
// which happens when the owning process died before stopping it.
func (s *FocusSession) IsStale(now time.Time) bool {
	return s.Status == SessionActive && !now.Before(s.PlannedEnd())
}

// Finish moves an Active session into a terminal status.
func (s *FocusSession) Finish(status SessionStatus, at time.Time) error {
	if s.Status != SessionActive {
		return fmt.Errorf("cannot finish session in status %s", s.Status)
	}
	if status != SessionCompleted && status != SessionCancelled {
		return fmt.Errorf("invalid terminal status %s", status)
	}
	s.Status = status
	s.EndTime = &at
	return nil
}

// ActualDuration returns the elapsed seconds of a finished session, or 0.
func (s *FocusSession) ActualDuration() int {
	if s.EndTime == nil {
		return 0
	}
	return int(s.EndTime.Sub(s.StartTime) / time.Second)
}

// FocusStatus is the observable countdown state.
type FocusStatus struct {
	IsActive        bool
	RemainingTime   int
	PlannedDuration int
	SessionID       *string
}
