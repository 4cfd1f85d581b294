package entity

// Like references a post. At most one like per (userHandle, postId) pair,
// enforced by a pre-check query in the like service; best effort under
// concurrent duplicate requests.
type Like struct {
	ID         string `bson:"_id" json:"likeId"`
	PostID     string `bson:"postId" json:"postId"`
	UserHandle string `bson:"userHandle" json:"userHandle"`
	UserImage  string `bson:"userImage" json:"userImage"`
}
