package domain

import "errors"

var (
	// ErrSessionConflict is returned when starting a session while one is active.
	ErrSessionConflict = errors.New("focus session already active")

	// ErrNoActiveSession is returned when stopping while idle.
	ErrNoActiveSession = errors.New("no active focus session")

	// ErrAutomationFailure wraps host automation errors. Never fatal to a session.
	ErrAutomationFailure = errors.New("focus mode automation failed")

	// ErrSourceUnavailable wraps notification log read errors. Callers degrade to an empty result.
	ErrSourceUnavailable = errors.New("notification source unavailable")

	// ErrInvalidInput is returned for rejected command arguments.
	ErrInvalidInput = errors.New("invalid input")
)
