package repository

import (
	"context"

	"anoa.com/chirp/internal/entity"
	"anoa.com/chirp/pkg/store"
)

type LikeRepository interface {
	Create(ctx context.Context, like *entity.Like) error
	FindByUserAndPost(ctx context.Context, handle, postID string) (*entity.Like, error)
	FindByHandle(ctx context.Context, handle string) ([]entity.Like, error)
	Delete(ctx context.Context, id string) error
}

type likeRepository struct {
	store store.Store
}

func NewLikeRepository(s store.Store) LikeRepository {
	return &likeRepository{store: s}
}

func (r *likeRepository) Create(ctx context.Context, like *entity.Like) error {
	return r.store.Set(ctx, entity.Likes, like.ID, like)
}

// FindByUserAndPost is the duplicate-like pre-check. Two concurrent like
// requests can both pass it; the invariant is best effort.
func (r *likeRepository) FindByUserAndPost(ctx context.Context, handle, postID string) (*entity.Like, error) {
	var likes []entity.Like
	q := store.Query{
		Filter: map[string]any{"userHandle": handle, "postId": postID},
		Limit:  1,
	}
	if err := r.store.Query(ctx, entity.Likes, q, &likes); err != nil {
		return nil, err
	}
	if len(likes) == 0 {
		return nil, store.ErrNotFound
	}
	return &likes[0], nil
}

func (r *likeRepository) FindByHandle(ctx context.Context, handle string) ([]entity.Like, error) {
	var likes []entity.Like
	q := store.Query{Filter: map[string]any{"userHandle": handle}}
	if err := r.store.Query(ctx, entity.Likes, q, &likes); err != nil {
		return nil, err
	}
	return likes, nil
}

func (r *likeRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, entity.Likes, id)
}
