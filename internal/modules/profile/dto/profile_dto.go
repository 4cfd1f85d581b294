package dto

import (
	"io"

	"anoa.com/chirp/internal/entity"
)

type UpdateDetailsInput struct {
	Bio      string `json:"bio"`
	Location string `json:"location"`
	Website  string `json:"website"`
}

type ImageFile struct {
	Reader   io.Reader
	FileName string
}

// OwnProfile is what GET /user returns: credentials plus the caller's likes
// and latest notifications.
type OwnProfile struct {
	Credentials   entity.User           `json:"credentials"`
	Likes         []entity.Like         `json:"likes"`
	Notifications []entity.Notification `json:"notifications"`
}

// PublicProfile is any user's details plus their posts, newest first.
type PublicProfile struct {
	User  entity.User   `json:"user"`
	Posts []entity.Post `json:"posts"`
}
