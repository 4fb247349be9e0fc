package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/focusguard/internal/domain"
	"github.com/alexanderramin/focusguard/internal/repository"
	"github.com/google/uuid"
)

type rulesConfigService struct {
	whitelist repository.WhitelistRepo
	keywords  repository.KeywordRepo
}

func NewRulesConfigService(whitelist repository.WhitelistRepo, keywords repository.KeywordRepo) RulesConfigService {
	return &rulesConfigService{whitelist: whitelist, keywords: keywords}
}

func (s *rulesConfigService) AddWhitelist(ctx context.Context, kind, value string) (*domain.WhitelistEntry, error) {
	if !domain.ValidWhitelistKinds[kind] {
		return nil, fmt.Errorf("whitelist kind %q (want app or contact): %w", kind, domain.ErrInvalidInput)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("whitelist value is empty: %w", domain.ErrInvalidInput)
	}
	e := &domain.WhitelistEntry{
		ID:    uuid.New().String(),
		Kind:  domain.WhitelistKind(kind),
		Value: value,
	}
	if err := s.whitelist.Add(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *rulesConfigService) RemoveWhitelist(ctx context.Context, id string) error {
	return s.whitelist.Remove(ctx, id)
}

func (s *rulesConfigService) ListWhitelist(ctx context.Context) ([]*domain.WhitelistEntry, error) {
	return s.whitelist.List(ctx)
}

func (s *rulesConfigService) AddKeyword(ctx context.Context, text string) (*domain.Keyword, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("keyword is empty: %w", domain.ErrInvalidInput)
	}
	k := &domain.Keyword{ID: uuid.New().String(), Text: text}
	if err := s.keywords.Add(ctx, k); err != nil {
		return nil, err
	}
	return k, nil
}

func (s *rulesConfigService) RemoveKeyword(ctx context.Context, id string) error {
	return s.keywords.Remove(ctx, id)
}

func (s *rulesConfigService) ListKeywords(ctx context.Context) ([]*domain.Keyword, error) {
	return s.keywords.List(ctx)
}
