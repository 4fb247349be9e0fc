package rules

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/focusguard/internal/domain"
	"github.com/alexanderramin/focusguard/internal/repository"
	"github.com/alexanderramin/focusguard/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	engine        *Engine
	whitelist     *repository.SQLiteWhitelistRepo
	keywords      *repository.SQLiteKeywordRepo
	notifications *repository.SQLiteNotificationRepo
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	f := fixture{
		whitelist:     repository.NewSQLiteWhitelistRepo(db),
		keywords:      repository.NewSQLiteKeywordRepo(db),
		notifications: repository.NewSQLiteNotificationRepo(db),
	}
	f.engine = NewEngine(f.whitelist, f.keywords, f.notifications, zerolog.Nop())
	return f
}

// classifyAndQueue mirrors triage: classify, then record the item.
func (f fixture) classifyAndQueue(t *testing.T, n domain.RawNotification) domain.Urgency {
	t.Helper()
	u := f.engine.Classify(context.Background(), n)
	_, err := f.notifications.Enqueue(context.Background(), []domain.QueuedNotification{n.Queue("", u)})
	require.NoError(t, err)
	return u
}

func TestClassify_Normal(t *testing.T) {
	f := newFixture(t)

	u := f.engine.Classify(context.Background(), testutil.NewTestNotification("lunch?", testutil.WithBody("lunch today?")))
	assert.False(t, u.IsUrgent)
	assert.Empty(t, u.Reason)
	assert.Equal(t, RuleNone, u.Rule)
}

func TestClassify_WhitelistApp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.whitelist.Add(ctx, &domain.WhitelistEntry{ID: "w1", Kind: domain.WhitelistApp, Value: "PagerDuty"}))

	u := f.engine.Classify(ctx, testutil.NewTestNotification("alert", testutil.WithApp("PagerDuty"), testutil.WithSender("PagerDuty")))
	assert.True(t, u.IsUrgent)
	assert.Equal(t, "whitelisted contact/app", u.Reason)
	assert.Equal(t, RuleWhitelist, u.Rule)
}

func TestClassify_WhitelistContact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.whitelist.Add(ctx, &domain.WhitelistEntry{ID: "w1", Kind: domain.WhitelistContact, Value: "Mom"}))

	u := f.engine.Classify(ctx, testutil.NewTestNotification("hi", testutil.WithSender("Mom")))
	assert.True(t, u.IsUrgent)
	assert.Equal(t, RuleWhitelist, u.Rule)
}

func TestClassify_KeywordCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.keywords.Add(ctx, &domain.Keyword{ID: "k1", Text: "urgent"}))

	u := f.engine.Classify(ctx, testutil.NewTestNotification("server", testutil.WithBody("URGENT: prod down")))
	assert.True(t, u.IsUrgent)
	assert.Equal(t, "contains keyword: urgent", u.Reason)
	assert.Equal(t, RuleKeyword, u.Rule)
}

func TestClassify_FirstKeywordWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.keywords.Add(ctx, &domain.Keyword{ID: "k1", Text: "down"}))
	require.NoError(t, f.keywords.Add(ctx, &domain.Keyword{ID: "k2", Text: "prod"}))

	u := f.engine.Classify(ctx, testutil.NewTestNotification("server", testutil.WithBody("prod is down")))
	assert.Equal(t, "contains keyword: down", u.Reason)
}

func TestClassify_WhitelistBeatsKeyword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.whitelist.Add(ctx, &domain.WhitelistEntry{ID: "w1", Kind: domain.WhitelistApp, Value: "Slack"}))
	require.NoError(t, f.keywords.Add(ctx, &domain.Keyword{ID: "k1", Text: "urgent"}))

	u := f.engine.Classify(ctx, testutil.NewTestNotification("x", testutil.WithApp("Slack"), testutil.WithBody("urgent")))
	assert.Equal(t, RuleWhitelist, u.Rule)
	assert.Equal(t, "whitelisted contact/app", u.Reason)
}

func TestClassify_KeywordBeatsRepetition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.keywords.Add(ctx, &domain.Keyword{ID: "k1", Text: "asap"}))

	for i := 0; i < 2; i++ {
		f.classifyAndQueue(t, testutil.NewTestNotification("ping", testutil.WithSender("Bob"),
			testutil.WithTimestamp(testutil.FixedNow.Add(time.Duration(i)*time.Second))))
	}
	u := f.engine.Classify(ctx, testutil.NewTestNotification("ping", testutil.WithSender("Bob"),
		testutil.WithBody("call me asap"), testutil.WithTimestamp(testutil.FixedNow.Add(5*time.Second))))
	assert.Equal(t, RuleKeyword, u.Rule)
}

func TestClassify_Repetition(t *testing.T) {
	f := newFixture(t)
	base := testutil.FixedNow
	at := func(secs int) domain.RawNotification {
		return testutil.NewTestNotification("ping", testutil.WithSender("Alice"),
			testutil.WithTimestamp(base.Add(time.Duration(secs)*time.Second)))
	}

	assert.False(t, f.classifyAndQueue(t, at(0)).IsUrgent)
	assert.False(t, f.classifyAndQueue(t, at(60)).IsUrgent)

	third := f.classifyAndQueue(t, at(119))
	assert.True(t, third.IsUrgent)
	assert.Equal(t, "repeated message (3x/3min)", third.Reason)
	assert.Equal(t, RuleRepetition, third.Rule)

	// No earlier item falls inside [220, 400].
	assert.False(t, f.classifyAndQueue(t, at(400)).IsUrgent)
}

func TestClassify_RepetitionIgnoresOtherSenders(t *testing.T) {
	f := newFixture(t)
	f.classifyAndQueue(t, testutil.NewTestNotification("a", testutil.WithSender("Alice")))
	f.classifyAndQueue(t, testutil.NewTestNotification("b", testutil.WithSender("Bob")))

	u := f.engine.Classify(context.Background(), testutil.NewTestNotification("c", testutil.WithSender("Alice")))
	assert.False(t, u.IsUrgent)
}

func TestClassify_RepetitionDoesNotCountItself(t *testing.T) {
	f := newFixture(t)
	n1 := testutil.NewTestNotification("a", testutil.WithSender("Alice"))
	n2 := testutil.NewTestNotification("b", testutil.WithSender("Alice"))
	f.classifyAndQueue(t, n1)
	f.classifyAndQueue(t, n2)

	// Reclassifying an already queued item sees one prior, not two.
	u := f.engine.Classify(context.Background(), n2)
	assert.False(t, u.IsUrgent)
}

type failingWhitelist struct{ repository.WhitelistRepo }

func (failingWhitelist) Match(context.Context, string, string) (*domain.WhitelistEntry, error) {
	return nil, errors.New("database is locked")
}

func TestClassify_LookupErrorFallsThrough(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.keywords.Add(ctx, &domain.Keyword{ID: "k1", Text: "urgent"}))
	engine := NewEngine(failingWhitelist{}, f.keywords, f.notifications, zerolog.Nop())

	u := engine.Classify(ctx, testutil.NewTestNotification("x", testutil.WithBody("urgent")))
	assert.True(t, u.IsUrgent)
	assert.Equal(t, RuleKeyword, u.Rule)
}
