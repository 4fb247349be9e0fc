package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/focusguard/internal/domain"
)

const countdownBarWidth = 24

// FormatStatus renders the current focus state. active is nil when no
// session runs.
func FormatStatus(active *domain.FocusSession, now time.Time) string {
	if active == nil {
		return RenderBox("Focus", Dim("No active focus session.")+"\n"+Dim("Start one with: focusguard start 25m"))
	}
	remaining := active.Remaining(now)
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n", SessionStatusPill(active.Status), TruncID(active.ID))
	b.WriteString(RenderCountdown(remaining, active.PlannedDuration, countdownBarWidth))
	fmt.Fprintf(&b, "\n\n%s %s   %s %s",
		Dim("planned"), FormatSeconds(active.PlannedDuration),
		Dim("started"), HumanTimestamp(active.StartTime, now))
	if remaining == 0 {
		b.WriteString("\n" + StyleYellow.Render("Planned time is over; the session will be closed on the next start."))
	}
	return RenderBox("Focus", b.String())
}

// FormatSession renders one session in detail.
func FormatSession(s *domain.FocusSession, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", SessionStatusPill(s.Status), Dim(s.ID))
	fmt.Fprintf(&b, "%s %s\n", Dim("started: "), s.StartTime.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "%s %s\n", Dim("planned: "), FormatSeconds(s.PlannedDuration))
	if s.EndTime != nil {
		fmt.Fprintf(&b, "%s %s\n", Dim("ended:   "), s.EndTime.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(&b, "%s %s\n", Dim("focused: "), FormatSeconds(s.ActualDuration()))
	} else if s.Status == domain.SessionActive {
		fmt.Fprintf(&b, "%s %s\n", Dim("left:    "), Clock(s.Remaining(now)))
	}
	if s.WorkContext != nil && *s.WorkContext != "" {
		fmt.Fprintf(&b, "%s %s\n", Dim("context: "), *s.WorkContext)
	}
	if s.ScreenshotRef != nil && *s.ScreenshotRef != "" {
		fmt.Fprintf(&b, "%s %s\n", Dim("capture: "), *s.ScreenshotRef)
	}
	return RenderBox("Session", strings.TrimRight(b.String(), "\n"))
}

// FormatSessionList renders session history, newest first.
func FormatSessionList(sessions []*domain.FocusSession, now time.Time) string {
	if len(sessions) == 0 {
		return Dim("No focus sessions yet.")
	}
	headers := []string{"ID", "STARTED", "PLANNED", "FOCUSED", "STATUS", "CONTEXT"}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		focused := Dim("--")
		if s.EndTime != nil {
			focused = FormatSeconds(s.ActualDuration())
		}
		note := Dim("--")
		if s.WorkContext != nil && *s.WorkContext != "" {
			note = Truncate(*s.WorkContext, 40)
		}
		rows = append(rows, []string{
			TruncID(s.ID),
			HumanTimestamp(s.StartTime, now),
			FormatSeconds(s.PlannedDuration),
			focused,
			SessionStatusPill(s.Status),
			note,
		})
	}
	return RenderTable(headers, rows)
}
