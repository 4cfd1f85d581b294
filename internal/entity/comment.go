package entity

import "time"

// Comment stores its own id in CommentID as well, so clients get it back
// without inspecting the document key.
type Comment struct {
	ID         string    `bson:"_id" json:"-"`
	CommentID  string    `bson:"commentId" json:"commentId"`
	PostID     string    `bson:"postId" json:"postId"`
	UserHandle string    `bson:"userHandle" json:"userHandle"`
	Body       string    `bson:"body" json:"body"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UserImage  string    `bson:"userImage" json:"userImage"`
}
