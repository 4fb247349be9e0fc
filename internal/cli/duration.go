package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/focusguard/internal/domain"
	"github.com/spf13/pflag"
)

const defaultSessionLength = 25 * time.Minute

// parseSessionDuration accepts Go durations ("25m", "1h30m") or bare
// seconds ("1500") and returns whole seconds.
func parseSessionDuration(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration: %w", domain.ErrInvalidInput)
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("invalid duration %q: must be positive: %w", s, domain.ErrInvalidInput)
		}
		return n, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q (use 25m or 1500): %w", s, domain.ErrInvalidInput)
	}
	secs := int(d / time.Second)
	if secs <= 0 {
		return 0, fmt.Errorf("invalid duration %q: must be at least 1s: %w", s, domain.ErrInvalidInput)
	}
	return secs, nil
}

// durationFlag is a pflag.Value holding a session length in seconds.
type durationFlag struct {
	seconds int
}

var _ pflag.Value = (*durationFlag)(nil)

func newDurationFlag(d time.Duration) *durationFlag {
	return &durationFlag{seconds: int(d / time.Second)}
}

func (f *durationFlag) String() string {
	return (time.Duration(f.seconds) * time.Second).String()
}

func (f *durationFlag) Set(s string) error {
	secs, err := parseSessionDuration(s)
	if err != nil {
		return err
	}
	f.seconds = secs
	return nil
}

func (f *durationFlag) Type() string { return "duration" }
