package dto

import "anoa.com/chirp/internal/entity"

type CreatePostRequest struct {
	Body string `json:"body" binding:"required"`
}

// PostDetail is a post together with its comments, newest first.
type PostDetail struct {
	entity.Post
	Comments []entity.Comment `json:"comments"`
}
