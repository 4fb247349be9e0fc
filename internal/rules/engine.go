// Package rules classifies notifications as urgent or normal.
package rules

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/focusguard/internal/domain"
	"github.com/alexanderramin/focusguard/internal/repository"
	"github.com/rs/zerolog"
)

// Rule names reported in domain.Urgency.Rule.
const (
	RuleWhitelist  = "whitelist"
	RuleKeyword    = "keyword"
	RuleRepetition = "repetition"
	RuleNone       = "none"
)

const (
	// RepetitionWindow is how far back same-sender notifications are counted.
	RepetitionWindow = 180 * time.Second
	// RepetitionThreshold includes the notification being classified.
	RepetitionThreshold = 3
)

const (
	reasonWhitelist  = "whitelisted contact/app"
	reasonKeyword    = "contains keyword: %s"
	reasonRepetition = "repeated message (3x/3min)"
)

// Engine runs the ordered rule cascade: whitelist, keyword, repetition.
// The first matching rule wins.
type Engine struct {
	whitelist     repository.WhitelistRepo
	keywords      repository.KeywordRepo
	notifications repository.NotificationRepo
	logger        zerolog.Logger
}

func NewEngine(
	whitelist repository.WhitelistRepo,
	keywords repository.KeywordRepo,
	notifications repository.NotificationRepo,
	logger zerolog.Logger,
) *Engine {
	return &Engine{
		whitelist:     whitelist,
		keywords:      keywords,
		notifications: notifications,
		logger:        logger.With().Str("component", "rules").Logger(),
	}
}

// Classify never fails. A store lookup error is logged and that rule is
// treated as not matching.
func (e *Engine) Classify(ctx context.Context, n domain.RawNotification) domain.Urgency {
	if u, ok := e.checkWhitelist(ctx, n); ok {
		return u
	}
	if u, ok := e.checkKeywords(ctx, n); ok {
		return u
	}
	if u, ok := e.checkRepetition(ctx, n); ok {
		return u
	}
	return domain.Urgency{Rule: RuleNone}
}

func (e *Engine) checkWhitelist(ctx context.Context, n domain.RawNotification) (domain.Urgency, bool) {
	entry, err := e.whitelist.Match(ctx, n.AppName, n.Sender)
	if err != nil {
		e.logger.Warn().Err(err).Str("notification_id", n.ID).Msg("whitelist lookup failed")
		return domain.Urgency{}, false
	}
	if entry == nil {
		return domain.Urgency{}, false
	}
	return domain.Urgency{IsUrgent: true, Reason: reasonWhitelist, Rule: RuleWhitelist}, true
}

func (e *Engine) checkKeywords(ctx context.Context, n domain.RawNotification) (domain.Urgency, bool) {
	keywords, err := e.keywords.List(ctx)
	if err != nil {
		e.logger.Warn().Err(err).Str("notification_id", n.ID).Msg("keyword lookup failed")
		return domain.Urgency{}, false
	}
	body := strings.ToLower(n.Body)
	for _, k := range keywords {
		if k.Text == "" {
			continue
		}
		if strings.Contains(body, strings.ToLower(k.Text)) {
			return domain.Urgency{IsUrgent: true, Reason: fmt.Sprintf(reasonKeyword, k.Text), Rule: RuleKeyword}, true
		}
	}
	return domain.Urgency{}, false
}

func (e *Engine) checkRepetition(ctx context.Context, n domain.RawNotification) (domain.Urgency, bool) {
	from := n.Timestamp.Add(-RepetitionWindow)
	prior, err := e.notifications.CountBySenderBetween(ctx, n.Sender, from, n.Timestamp, n.ID)
	if err != nil {
		e.logger.Warn().Err(err).Str("notification_id", n.ID).Msg("repetition lookup failed")
		return domain.Urgency{}, false
	}
	if prior+1 >= RepetitionThreshold {
		return domain.Urgency{IsUrgent: true, Reason: reasonRepetition, Rule: RuleRepetition}, true
	}
	return domain.Urgency{}, false
}
