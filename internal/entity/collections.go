package entity

// Collection names in the document store. Referential integrity between them
// is maintained by the consistency engines, not by the store.
const (
	Users         = "users"
	Posts         = "posts"
	Comments      = "comments"
	Likes         = "likes"
	Notifications = "notifications"
)
