package notifsource

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/focusguard/internal/config"
	"github.com/alexanderramin/focusguard/internal/domain"
	"github.com/alexanderramin/focusguard/internal/metrics"
	"github.com/alexanderramin/focusguard/internal/testutil"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var windowStart = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func unixAt(offset time.Duration) float64 {
	return float64(windowStart.Add(offset).Unix())
}

func TestFetchWindow_FiltersAndOrders(t *testing.T) {
	path := testutil.NewHostLog(t,
		testutil.HostLogEntry{ID: "before", App: "Mail", Title: "old", Delivered: unixAt(-time.Minute)},
		testutil.HostLogEntry{ID: "a", App: "Slack", Title: "first", Body: "hi", Delivered: unixAt(10 * time.Second)},
		testutil.HostLogEntry{ID: "b", App: "Mail", Title: "second", Delivered: unixAt(20 * time.Minute)},
		testutil.HostLogEntry{ID: "edge", App: "Mail", Title: "at end", Delivered: unixAt(25 * time.Minute)},
		testutil.HostLogEntry{ID: "after", App: "Mail", Title: "late", Delivered: unixAt(26 * time.Minute)},
	)
	src := NewSQLiteSource(path, config.TimeBaseUnix, zerolog.Nop())

	items := src.FetchWindow(context.Background(), windowStart, windowStart.Add(25*time.Minute))
	require.Len(t, items, 3)
	assert.Equal(t, "edge", items[0].ID, "newest first, end bound inclusive")
	assert.Equal(t, "b", items[1].ID)
	assert.Equal(t, "a", items[2].ID)

	first := items[2]
	assert.Equal(t, "Slack", first.AppName)
	assert.Equal(t, "Slack", first.Sender, "sender is the app name")
	assert.Equal(t, "hi", first.Body)
	assert.True(t, windowStart.Add(10*time.Second).Equal(first.Timestamp))
}

func TestFetchWindow_CapsAtMaxWindow(t *testing.T) {
	var entries []testutil.HostLogEntry
	for i := 0; i < MaxWindow+20; i++ {
		entries = append(entries, testutil.HostLogEntry{
			ID:        fmt.Sprintf("n%03d", i),
			App:       "Slack",
			Delivered: unixAt(time.Duration(i) * time.Second),
		})
	}
	path := testutil.NewHostLog(t, entries...)
	src := NewSQLiteSource(path, config.TimeBaseUnix, zerolog.Nop())

	items := src.FetchWindow(context.Background(), windowStart, windowStart.Add(time.Hour))
	require.Len(t, items, MaxWindow)
	assert.Equal(t, fmt.Sprintf("n%03d", MaxWindow+19), items[0].ID)
}

func TestFetchWindow_CoreDataTimeBase(t *testing.T) {
	delivered := float64(windowStart.Add(30*time.Second).Unix()-coreDataEpoch) + 0.75
	path := testutil.NewHostLog(t,
		testutil.HostLogEntry{ID: "cd", App: "Messages", Delivered: delivered})
	src := NewSQLiteSource(path, config.TimeBaseCoreData, zerolog.Nop())

	items := src.FetchWindow(context.Background(), windowStart, windowStart.Add(time.Minute))
	require.Len(t, items, 1)
	assert.True(t, windowStart.Add(30*time.Second).Equal(items[0].Timestamp), "fractional seconds are floored")

	unixSrc := NewSQLiteSource(path, config.TimeBaseUnix, zerolog.Nop())
	assert.Empty(t, unixSrc.FetchWindow(context.Background(), windowStart, windowStart.Add(time.Minute)))
}

func TestFetchWindow_FallbackIDsAreDistinct(t *testing.T) {
	at := unixAt(5 * time.Second)
	path := testutil.NewHostLog(t,
		testutil.HostLogEntry{App: "Slack", Title: "standup", Body: "in 5", Delivered: at},
		testutil.HostLogEntry{App: "Slack", Title: "deploy", Body: "done", Delivered: at},
	)
	src := NewSQLiteSource(path, config.TimeBaseUnix, zerolog.Nop())

	items := src.FetchWindow(context.Background(), windowStart, windowStart.Add(time.Minute))
	require.Len(t, items, 2)
	assert.NotEqual(t, items[0].ID, items[1].ID, "same app and second must not share an id")
	for _, n := range items {
		assert.Contains(t, n.ID, fmt.Sprintf("Slack-%d-", windowStart.Add(5*time.Second).Unix()))
	}

	again := src.FetchWindow(context.Background(), windowStart, windowStart.Add(time.Minute))
	require.Len(t, again, 2)
	assert.ElementsMatch(t, []string{items[0].ID, items[1].ID}, []string{again[0].ID, again[1].ID},
		"fallback ids are stable across reads")
}

func TestFetchWindow_SkipsUndatedRows(t *testing.T) {
	before := promtest.ToFloat64(metrics.SourceFailures.WithLabelValues(FailureKind(domain.ErrSourceUnavailable)))
	path := testutil.NewHostLog(t,
		testutil.HostLogEntry{ID: "dated", App: "Mail", Title: "hello", Delivered: unixAt(time.Minute)},
		testutil.HostLogEntry{ID: "undated", App: "Mail", Title: "lost", Undated: true},
		testutil.HostLogEntry{ID: "later", App: "Slack", Title: "ping", Delivered: unixAt(2 * time.Minute)},
	)
	src := NewSQLiteSource(path, config.TimeBaseUnix, zerolog.Nop())

	items := src.FetchWindow(context.Background(), windowStart, windowStart.Add(time.Hour))
	require.Len(t, items, 2)
	assert.Equal(t, "later", items[0].ID)
	assert.Equal(t, "dated", items[1].ID)
	assert.Equal(t, before, promtest.ToFloat64(metrics.SourceFailures.WithLabelValues(FailureKind(domain.ErrSourceUnavailable))),
		"an undated row is not a source failure")
}

func TestFetchWindow_MissingFileYieldsEmpty(t *testing.T) {
	src := NewSQLiteSource(filepath.Join(t.TempDir(), "absent.db"), config.TimeBaseUnix, zerolog.Nop())

	before := promtest.ToFloat64(metrics.SourceFailures.WithLabelValues("missing"))
	items := src.FetchWindow(context.Background(), windowStart, windowStart.Add(time.Hour))
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Equal(t, before+1, promtest.ToFloat64(metrics.SourceFailures.WithLabelValues("missing")))

	_, err := src.Fetch(context.Background(), windowStart, windowStart.Add(time.Hour))
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestFetchWindow_SchemaMismatchYieldsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.db")
	require.NoError(t, os.WriteFile(path, []byte{}, 0o644))
	src := NewSQLiteSource(path, config.TimeBaseUnix, zerolog.Nop())

	items := src.FetchWindow(context.Background(), windowStart, windowStart.Add(time.Hour))
	assert.Empty(t, items)

	_, err := src.Fetch(context.Background(), windowStart, windowStart.Add(time.Hour))
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestFailureKind(t *testing.T) {
	assert.Equal(t, "missing", FailureKind(fmt.Errorf("wrap: %w", os.ErrNotExist)))
	assert.Equal(t, "query", FailureKind(errors.New("no such table: record")))
}
