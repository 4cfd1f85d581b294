package entity

import "time"

// User is keyed by its human-chosen handle, not an opaque id.
// ImgURL is denormalized into posts, comments and notifications; the
// profile propagation engine rewrites those copies when it changes.
type User struct {
	Handle       string    `bson:"_id" json:"handle"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	ImgURL       string    `bson:"imgUrl" json:"imgUrl"`
	Bio          string    `bson:"bio,omitempty" json:"bio,omitempty"`
	Location     string    `bson:"location,omitempty" json:"location,omitempty"`
	Website      string    `bson:"website,omitempty" json:"website,omitempty"`
}
