package service

import (
	"context"
	"slices"
	"time"

	"github.com/alexanderramin/focusguard/internal/db"
	"github.com/alexanderramin/focusguard/internal/domain"
	"github.com/alexanderramin/focusguard/internal/metrics"
	"github.com/alexanderramin/focusguard/internal/notifsource"
	"github.com/alexanderramin/focusguard/internal/repository"
	"github.com/alexanderramin/focusguard/internal/rules"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

type triageService struct {
	sessions repository.SessionRepo
	source   notifsource.Source
	uow      db.UnitOfWork
	clock    clockwork.Clock
	logger   zerolog.Logger
	observer UseCaseObserver
}

func NewTriageService(
	sessions repository.SessionRepo,
	source notifsource.Source,
	uow db.UnitOfWork,
	clock clockwork.Clock,
	logger zerolog.Logger,
	observers ...UseCaseObserver,
) TriageService {
	return &triageService{
		sessions: sessions,
		source:   source,
		uow:      uow,
		clock:    clock,
		logger:   logger.With().Str("component", "triage").Logger(),
		observer: useCaseObserverOrNoop(observers),
	}
}

// TriageSession pulls the notifications delivered during the session and
// queues each one with its urgency. Items are classified oldest first so the
// repetition rule sees earlier items from the same pass.
func (s *triageService) TriageSession(ctx context.Context, sessionID string) (result *TriageResult, err error) {
	fields := map[string]any{"session_id": sessionID}
	defer observe(ctx, s.observer, "triage-session", time.Now(), fields, &err)

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	end := s.clock.Now().UTC()
	if session.EndTime != nil {
		end = *session.EndTime
	}

	raws := s.source.FetchWindow(ctx, session.StartTime, end)
	slices.SortStableFunc(raws, func(a, b domain.RawNotification) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	result = &TriageResult{SessionID: sessionID, Fetched: len(raws)}
	if len(raws) == 0 {
		fields["fetched"] = 0
		return result, nil
	}

	byRule := map[string]int{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txNotifications := repository.NewSQLiteNotificationRepo(tx)
		engine := rules.NewEngine(
			repository.NewSQLiteWhitelistRepo(tx),
			repository.NewSQLiteKeywordRepo(tx),
			txNotifications,
			s.logger,
		)

		for _, raw := range raws {
			urgency := engine.Classify(ctx, raw)
			q := raw.Queue(sessionID, urgency)
			n, err := txNotifications.Enqueue(ctx, []domain.QueuedNotification{q})
			if err != nil {
				return err
			}
			if n == 0 {
				continue
			}
			result.Queued++
			if q.IsUrgent {
				result.Urgent++
			}
			byRule[urgency.Rule]++
			result.Items = append(result.Items, q)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for rule, n := range byRule {
		metrics.NotificationsTriaged.WithLabelValues(rule).Add(float64(n))
	}
	fields["fetched"] = result.Fetched
	fields["queued"] = result.Queued
	fields["urgent"] = result.Urgent
	return result, nil
}
