package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/focusguard/internal/domain"
	"github.com/alexanderramin/focusguard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queued(raw domain.RawNotification, sessionID string) domain.QueuedNotification {
	return raw.Queue(sessionID, domain.Urgency{})
}

func TestNotificationRepo_EnqueueIgnoresDuplicates(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteNotificationRepo(db)

	a := testutil.NewTestNotification("hello")
	b := testutil.NewTestNotification("again")

	n, err := repo.Enqueue(ctx, []domain.QueuedNotification{queued(a, ""), queued(b, "")})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.Enqueue(ctx, []domain.QueuedNotification{queued(a, ""), queued(b, "")})
	require.NoError(t, err)
	assert.Equal(t, 0, n, "re-enqueueing the same ids adds nothing")

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestNotificationRepo_RoundTripsUrgency(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	sessions := NewSQLiteSessionRepo(db)
	repo := NewSQLiteNotificationRepo(db)

	s := testutil.NewTestSession(60)
	require.NoError(t, sessions.Create(ctx, s))

	raw := testutil.NewTestNotification("prod down", testutil.WithBody("URGENT: prod down"))
	q := raw.Queue(s.ID, domain.Urgency{IsUrgent: true, Reason: "contains keyword: urgent", Rule: "keyword"})
	_, err := repo.Enqueue(ctx, []domain.QueuedNotification{q})
	require.NoError(t, err)

	list, err := repo.ListBySession(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	got := list[0]
	assert.True(t, got.IsUrgent)
	require.NotNil(t, got.UrgencyReason)
	assert.Equal(t, "contains keyword: urgent", *got.UrgencyReason)
	require.NotNil(t, got.SessionID)
	assert.Equal(t, s.ID, *got.SessionID)
	assert.True(t, raw.Timestamp.Equal(got.Timestamp))
	assert.False(t, got.IsRead)
}

func TestNotificationRepo_ListNewestFirst(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteNotificationRepo(db)

	old := testutil.NewTestNotification("old", testutil.WithTimestamp(testutil.FixedNow.Add(-time.Minute)))
	recent := testutil.NewTestNotification("recent")
	_, err := repo.Enqueue(ctx, []domain.QueuedNotification{queued(old, ""), queued(recent, "")})
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, recent.ID, list[0].ID)
	assert.Equal(t, old.ID, list[1].ID)
}

func TestNotificationRepo_MarkReadAndClear(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteNotificationRepo(db)

	raw := testutil.NewTestNotification("ping")
	_, err := repo.Enqueue(ctx, []domain.QueuedNotification{queued(raw, "")})
	require.NoError(t, err)

	require.NoError(t, repo.MarkRead(ctx, raw.ID))
	require.NoError(t, repo.MarkRead(ctx, "unknown-id"), "marking an unknown id is a no-op")

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsRead)

	require.NoError(t, repo.ClearAll(ctx))
	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNotificationRepo_CountBySenderBetween(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteNotificationRepo(db)

	base := testutil.FixedNow
	items := []domain.RawNotification{
		testutil.NewTestNotification("1", testutil.WithSender("Alice"), testutil.WithTimestamp(base)),
		testutil.NewTestNotification("2", testutil.WithSender("Alice"), testutil.WithTimestamp(base.Add(60*time.Second))),
		testutil.NewTestNotification("3", testutil.WithSender("Alice"), testutil.WithTimestamp(base.Add(200*time.Second))),
		testutil.NewTestNotification("4", testutil.WithSender("Bob"), testutil.WithTimestamp(base.Add(60*time.Second))),
	}
	var batch []domain.QueuedNotification
	for _, it := range items {
		batch = append(batch, queued(it, ""))
	}
	_, err := repo.Enqueue(ctx, batch)
	require.NoError(t, err)

	// Window bounds are inclusive.
	n, err := repo.CountBySenderBetween(ctx, "Alice", base, base.Add(180*time.Second), "")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.CountBySenderBetween(ctx, "Alice", base, base.Add(180*time.Second), items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "excluded id is not counted")

	n, err = repo.CountBySenderBetween(ctx, "Carol", base, base.Add(time.Hour), "")
	require.NoError(t, err)
	assert.Zero(t, n)
}
