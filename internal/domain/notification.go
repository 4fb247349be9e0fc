package domain

import "time"

// RawNotification is an entry read from the host notification log.
type RawNotification struct {
	ID        string
	AppName   string
	Title     string
	Body      string
	Sender    string
	Timestamp time.Time
}

type QueuedNotification struct {
	ID            string
	SessionID     *string
	AppName       string
	Title         string
	Body          string
	Sender        string
	Timestamp     time.Time
	IsRead        bool
	IsUrgent      bool
	UrgencyReason *string
}

// Urgency is the outcome of triage for one notification.
type Urgency struct {
	IsUrgent bool
	Reason   string
	Rule     string
}

// Queue builds the queued form of a raw notification with its urgency.
func (n RawNotification) Queue(sessionID string, u Urgency) QueuedNotification {
	q := QueuedNotification{
		ID:        n.ID,
		AppName:   n.AppName,
		Title:     n.Title,
		Body:      n.Body,
		Sender:    n.Sender,
		Timestamp: n.Timestamp,
		IsUrgent:  u.IsUrgent,
	}
	if sessionID != "" {
		q.SessionID = &sessionID
	}
	if u.IsUrgent && u.Reason != "" {
		reason := u.Reason
		q.UrgencyReason = &reason
	}
	return q
}
