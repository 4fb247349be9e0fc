package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderCountdown renders the remaining share of a session like
// [████░░░░] 12:30. The bar turns yellow and then red as time runs out.
func RenderCountdown(remaining, planned, width int) string {
	if width < 2 {
		width = 2
	}
	pct := 0.0
	if planned > 0 {
		pct = float64(remaining) / float64(planned)
	}
	pct = min(max(pct, 0), 1)

	filled := min(int(pct*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	if pct < 0.1 {
		style = StyleRed
	} else if pct < 0.25 {
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %s", style.Render(bar), Clock(remaining))
}
