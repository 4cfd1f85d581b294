package entity

import "time"

// Post carries denormalized author data (UserImage) plus derived counters.
// LikeCount and CommentCount are adjusted by the counter maintainer, one
// event at a time; they are not recomputed and can drift under partial
// failure.
type Post struct {
	ID           string    `bson:"_id" json:"postId"`
	UserHandle   string    `bson:"userHandle" json:"userHandle"`
	Body         string    `bson:"body" json:"body"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UserImage    string    `bson:"userImage" json:"userImage"`
	LikeCount    int       `bson:"likeCount" json:"likeCount"`
	CommentCount int       `bson:"commentCount" json:"commentCount"`
}
