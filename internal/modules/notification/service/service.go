package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"semillero.org/semillerodigital/internal/entity"
	notifRepo "semillero.org/semillerodigital/internal/modules/notification/repository"
)

// Channel returns the redis pub/sub channel carrying live notifications for a
// user.
func Channel(userID uuid.UUID) string {
	return fmt.Sprintf("user_notifications:%s", userID.String())
}

type NotificationService interface {
	Notify(ctx context.Context, userID uuid.UUID, notifType, message string) error
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Notification, int64, error)
	MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
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

// Notify stores the notification and, when redis is configured, publishes it
// for any connected websocket.
func (s *notificationService) Notify(ctx context.Context, userID uuid.UUID, notifType, message string) error {
	notification := &entity.Notification{
		UserID:  userID,
		Type:    notifType,
		Message: message,
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}

	if s.redisClient != nil {
		if payload, err := json.Marshal(notification); err == nil {
			s.redisClient.Publish(ctx, Channel(userID), payload)
		}
	}

	return nil
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Notification, int64, error) {
	notifications, err := s.repo.FindByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return notifications, unread, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return s.repo.MarkRead(ctx, userID, ids)
}
