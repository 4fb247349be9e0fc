package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/focusguard/internal/domain"
)

// FormatNotifications renders queued notifications, urgent ones first.
func FormatNotifications(items []*domain.QueuedNotification, now time.Time) string {
	if len(items) == 0 {
		return Dim("No queued notifications.")
	}

	var urgent, normal []*domain.QueuedNotification
	for _, n := range items {
		if n.IsUrgent {
			urgent = append(urgent, n)
		} else {
			normal = append(normal, n)
		}
	}

	headers := []string{"ID", "WHEN", "APP", "TITLE", "URGENCY", "REASON"}
	rows := make([][]string, 0, len(items))
	for _, group := range [][]*domain.QueuedNotification{urgent, normal} {
		for _, n := range group {
			title := n.Title
			if title == "" {
				title = n.Body
			}
			title = Truncate(title, 40)
			if !n.IsRead {
				title = Bold(title)
			}
			reason := Dim("--")
			if n.UrgencyReason != nil {
				reason = StyleYellow.Render(*n.UrgencyReason)
			}
			rows = append(rows, []string{
				Dim(n.ID),
				HumanTimestamp(n.Timestamp, now),
				n.AppName,
				title,
				UrgencyPill(n.IsUrgent),
				reason,
			})
		}
	}

	var b strings.Builder
	b.WriteString(RenderTable(headers, rows))
	fmt.Fprintf(&b, "\n%s  %s",
		StyleRed.Render(fmt.Sprintf("%d urgent", len(urgent))),
		Dim(fmt.Sprintf("%d normal", len(normal))))
	return b.String()
}

// FormatTriageSummary reports what a triage pass queued.
func FormatTriageSummary(fetched, queued, urgent int) string {
	if fetched == 0 {
		return Dim("No notifications arrived during the session.")
	}
	line := fmt.Sprintf("Triaged %d notification(s): %d queued, %s",
		fetched, queued, StyleRed.Render(fmt.Sprintf("%d urgent", urgent)))
	if queued < fetched {
		line += Dim(fmt.Sprintf(" (%d already queued)", fetched-queued))
	}
	return line
}
