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

func TestSessionRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteSessionRepo(db)

	s := testutil.NewTestSession(1500)
	require.NoError(t, repo.Create(ctx, s))

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, 1500, got.PlannedDuration)
	assert.Equal(t, domain.SessionActive, got.Status)
	assert.True(t, s.StartTime.Equal(got.StartTime))
	assert.Nil(t, got.EndTime)
	assert.Nil(t, got.WorkContext)
}

func TestSessionRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteSessionRepo(db)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionRepo_GetActive(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteSessionRepo(db)

	active, err := repo.GetActive(ctx)
	require.NoError(t, err)
	assert.Nil(t, active, "empty store has no active session")

	done := testutil.NewTestSession(60,
		testutil.WithStartTime(testutil.FixedNow.Add(-time.Hour)),
		testutil.WithStatus(domain.SessionCompleted),
		testutil.WithEndTime(testutil.FixedNow.Add(-59*time.Minute)))
	require.NoError(t, repo.Create(ctx, done))

	active, err = repo.GetActive(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)

	running := testutil.NewTestSession(60)
	require.NoError(t, repo.Create(ctx, running))

	active, err = repo.GetActive(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, running.ID, active.ID)
}

func TestSessionRepo_Create_SecondActiveConflicts(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteSessionRepo(db)

	require.NoError(t, repo.Create(ctx, testutil.NewTestSession(60)))
	err := repo.Create(ctx, testutil.NewTestSession(90, testutil.WithStartTime(testutil.FixedNow.Add(time.Second))))
	assert.ErrorIs(t, err, domain.ErrSessionConflict)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	finished := testutil.NewTestSession(60, testutil.WithStatus(domain.SessionCompleted))
	assert.NoError(t, repo.Create(ctx, finished), "only Active rows are exclusive")
}

func TestSessionRepo_ListNewestFirst(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteSessionRepo(db)

	older := testutil.NewTestSession(60,
		testutil.WithStartTime(testutil.FixedNow.Add(-2*time.Hour)),
		testutil.WithStatus(domain.SessionCompleted))
	newer := testutil.NewTestSession(60,
		testutil.WithStartTime(testutil.FixedNow.Add(-time.Hour)),
		testutil.WithStatus(domain.SessionCancelled))
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)

	last, err := repo.GetLast(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, newer.ID, last.ID)
}

func TestSessionRepo_GetLast_Empty(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteSessionRepo(db)

	last, err := repo.GetLast(context.Background())
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestSessionRepo_Complete(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteSessionRepo(db)

	s := testutil.NewTestSession(60)
	require.NoError(t, repo.Create(ctx, s))

	end := testutil.FixedNow.Add(60 * time.Second)
	require.NoError(t, repo.Complete(ctx, s.ID, end, domain.SessionCompleted, domain.EndExpired))

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionCompleted, got.Status)
	require.NotNil(t, got.EndTime)
	assert.True(t, end.Equal(*got.EndTime))

	var reason string
	require.NoError(t, db.QueryRow(`SELECT end_reason FROM focus_sessions WHERE id = ?`, s.ID).Scan(&reason))
	assert.Equal(t, "expired", reason)
}

func TestSessionRepo_Complete_UnknownID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteSessionRepo(db)

	err := repo.Complete(context.Background(), "missing", testutil.FixedNow, domain.SessionCompleted, domain.EndManual)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionRepo_AttachContext(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteSessionRepo(db)

	s := testutil.NewTestSession(60, testutil.WithStatus(domain.SessionCompleted))
	require.NoError(t, repo.Create(ctx, s))

	shot := "/tmp/shot.png"
	require.NoError(t, repo.AttachContext(ctx, s.ID, &shot, "was refactoring the parser"))

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got.WorkContext)
	assert.Equal(t, "was refactoring the parser", *got.WorkContext)
	require.NotNil(t, got.ScreenshotRef)
	assert.Equal(t, shot, *got.ScreenshotRef)

	assert.ErrorIs(t, repo.AttachContext(ctx, "missing", nil, "x"), ErrNotFound)
}
