package consistency

import (
	"context"
	"errors"
	"log"
	"time"

	"anoa.com/chirp/internal/entity"
	"anoa.com/chirp/pkg/store"
)

// NotificationPublisher announces a freshly materialized notification to
// online clients. Publishing is best effort; a failure never fails the
// materialization itself.
type NotificationPublisher interface {
	Publish(ctx context.Context, notification *entity.Notification) error
}

// NotificationMaterializer creates a notification when someone likes or
// comments on another user's post, and retracts it when the like or comment
// is deleted. The notification shares the id of the document that triggered
// it.
type NotificationMaterializer struct {
	store     store.Store
	publisher NotificationPublisher
	now       func() time.Time
}

func NewNotificationMaterializer(s store.Store, publisher NotificationPublisher) *NotificationMaterializer {
	return &NotificationMaterializer{store: s, publisher: publisher, now: time.Now}
}

func (m *NotificationMaterializer) Register(d *Dispatcher) {
	d.Subscribe(entity.Likes, OpCreate, m.materialize)
	d.Subscribe(entity.Likes, OpDelete, m.retract)
	d.Subscribe(entity.Comments, OpCreate, m.materialize)
	d.Subscribe(entity.Comments, OpDelete, m.retract)
}

func (m *NotificationMaterializer) materialize(ctx context.Context, ev Event) error {
	var sender, senderImg, postID, notifType string
	switch doc := ev.After.(type) {
	case *entity.Like:
		sender, senderImg, postID, notifType = doc.UserHandle, doc.UserImage, doc.PostID, entity.NotificationLike
	case *entity.Comment:
		sender, senderImg, postID, notifType = doc.UserHandle, doc.UserImage, doc.PostID, entity.NotificationComment
	default:
		return nil
	}

	var post entity.Post
	err := m.store.Get(ctx, entity.Posts, postID, &post)
	if errors.Is(err, store.ErrNotFound) {
		return nil // post is gone, nothing to notify about
	}
	if err != nil {
		return err
	}
	if post.UserHandle == sender {
		return nil // no self-notification
	}

	notification := &entity.Notification{
		ID:        ev.ID,
		CreatedAt: m.now(),
		Recipient: post.UserHandle,
		Sender:    sender,
		SenderImg: senderImg,
		Type:      notifType,
		Read:      false,
		PostID:    postID,
	}
	if err := m.store.Set(ctx, entity.Notifications, ev.ID, notification); err != nil {
		return err
	}

	// The matching delete event may have been delivered before this create
	// finished. Re-check the source document and take the notification back
	// if it is already gone, so the final state converges to "no
	// notification".
	var source struct {
		ID string `bson:"_id"`
	}
	err = m.store.Get(ctx, ev.Collection, ev.ID, &source)
	if errors.Is(err, store.ErrNotFound) {
		return m.store.Delete(ctx, entity.Notifications, ev.ID)
	}
	if err != nil {
		return err
	}

	if m.publisher != nil {
		if err := m.publisher.Publish(ctx, notification); err != nil {
			log.Printf("failed to publish notification %s: %v", ev.ID, err)
		}
	}
	return nil
}

// retract deletes the notification keyed by the triggering document's id.
// Deleting an absent notification is not an error.
func (m *NotificationMaterializer) retract(ctx context.Context, ev Event) error {
	return m.store.Delete(ctx, entity.Notifications, ev.ID)
}
