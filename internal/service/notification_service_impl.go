package service

import (
	"context"

	"github.com/alexanderramin/focusguard/internal/domain"
	"github.com/alexanderramin/focusguard/internal/repository"
)

type notificationService struct {
	notifications repository.NotificationRepo
}

func NewNotificationService(notifications repository.NotificationRepo) NotificationService {
	return &notificationService{notifications: notifications}
}

func (s *notificationService) List(ctx context.Context) ([]*domain.QueuedNotification, error) {
	return s.notifications.List(ctx)
}

// MarkRead of an unknown id is a no-op.
func (s *notificationService) MarkRead(ctx context.Context, id string) error {
	return s.notifications.MarkRead(ctx, id)
}

func (s *notificationService) Clear(ctx context.Context) error {
	return s.notifications.ClearAll(ctx)
}
