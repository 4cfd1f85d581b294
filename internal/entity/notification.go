package entity

import "time"

// Notification types.
const (
	NotificationLike    = "like"
	NotificationComment = "comment"
)

// Notification shares its id with the like or comment that produced it.
// It is materialized on like/comment creation and retracted on deletion by
// the notification materializer.
type Notification struct {
	ID        string    `bson:"_id" json:"notificationId"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	Recipient string    `bson:"recipient" json:"recipient"`
	Sender    string    `bson:"sender" json:"sender"`
	SenderImg string    `bson:"senderImg" json:"senderImg"`
	Type      string    `bson:"type" json:"type"`
	Read      bool      `bson:"read" json:"read"`
	PostID    string    `bson:"postId" json:"postId"`
}
