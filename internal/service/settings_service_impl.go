package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/focusguard/internal/domain"
	"github.com/alexanderramin/focusguard/internal/repository"
)

type settingsService struct {
	settings    repository.SettingRepo
	defaultName string
}

// NewSettingsService falls back to defaultName while no focus mode name is stored.
func NewSettingsService(settings repository.SettingRepo, defaultName string) SettingsService {
	if strings.TrimSpace(defaultName) == "" {
		defaultName = domain.DefaultFocusModeName
	}
	return &settingsService{settings: settings, defaultName: defaultName}
}

func (s *settingsService) FocusModeName(ctx context.Context) (string, error) {
	v, ok, err := s.settings.Get(ctx, domain.SettingFocusModeName)
	if err != nil {
		return "", err
	}
	if !ok || v == "" {
		return s.defaultName, nil
	}
	return v, nil
}

func (s *settingsService) SetFocusModeName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("focus mode name is empty: %w", domain.ErrInvalidInput)
	}
	return s.settings.Set(ctx, domain.SettingFocusModeName, name)
}
