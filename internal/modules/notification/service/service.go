package service

import (
	"context"
	"encoding/json"
	"fmt"

	"anoa.com/chirp/internal/entity"
	notifRepo "anoa.com/chirp/internal/modules/notification/repository"
	"github.com/redis/go-redis/v9"
)

type NotificationService interface {
	GetNotifications(ctx context.Context, handle string, limit int64) ([]entity.Notification, error)
	MarkRead(ctx context.Context, ids []string) error
	UnreadCount(ctx context.Context, handle string) (int, error)

	// Publish pushes a freshly materialized notification to the recipient's
	// realtime channel. Called by the notification materializer.
	Publish(ctx context.Context, notification *entity.Notification) error
}

type notificationService struct {
	repo        notifRepo.NotificationRepository
	redisClient *redis.Client
}

func NewNotificationService(repo notifRepo.NotificationRepository, redisClient *redis.Client) NotificationService {
	return &notificationService{
		repo:        repo,
		redisClient: redisClient,
	}
}

func (s *notificationService) GetNotifications(ctx context.Context, handle string, limit int64) ([]entity.Notification, error) {
	return s.repo.FindByRecipient(ctx, handle, limit)
}

func (s *notificationService) MarkRead(ctx context.Context, ids []string) error {
	return s.repo.MarkRead(ctx, ids)
}

func (s *notificationService) UnreadCount(ctx context.Context, handle string) (int, error) {
	return s.repo.CountUnread(ctx, handle)
}

func (s *notificationService) Publish(ctx context.Context, notification *entity.Notification) error {
	if s.redisClient == nil {
		return nil
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		return err
	}

	channel := NotificationChannel(notification.Recipient)
	return s.redisClient.Publish(ctx, channel, payload).Err()
}

// NotificationChannel is the redis pub/sub channel for one recipient.
func NotificationChannel(handle string) string {
	return fmt.Sprintf("user_notifications:%s", handle)
}
