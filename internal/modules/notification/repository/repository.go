package repository

import (
	"context"

	"anoa.com/chirp/internal/entity"
	"anoa.com/chirp/pkg/store"
)

type NotificationRepository interface {
	FindByRecipient(ctx context.Context, handle string, limit int64) ([]entity.Notification, error)
	MarkRead(ctx context.Context, ids []string) error
	CountUnread(ctx context.Context, handle string) (int, error)
}

type notificationRepository struct {
	store store.Store
}

func NewNotificationRepository(s store.Store) NotificationRepository {
	return &notificationRepository{store: s}
}

func (r *notificationRepository) FindByRecipient(ctx context.Context, handle string, limit int64) ([]entity.Notification, error) {
	var notifications []entity.Notification
	q := store.Query{
		Filter:  map[string]any{"recipient": handle},
		OrderBy: "createdAt",
		Desc:    true,
		Limit:   limit,
	}
	if err := r.store.Query(ctx, entity.Notifications, q, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead flips read on every given notification in one batch.
func (r *notificationRepository) MarkRead(ctx context.Context, ids []string) error {
	batch := r.store.NewBatch()
	for _, id := range ids {
		batch.Update(entity.Notifications, id, map[string]any{"read": true})
	}
	if batch.Len() == 0 {
		return nil
	}
	return batch.Commit(ctx)
}

func (r *notificationRepository) CountUnread(ctx context.Context, handle string) (int, error) {
	var notifications []struct {
		ID string `bson:"_id"`
	}
	q := store.Query{Filter: map[string]any{"recipient": handle, "read": false}}
	if err := r.store.Query(ctx, entity.Notifications, q, &notifications); err != nil {
		return 0, err
	}
	return len(notifications), nil
}
