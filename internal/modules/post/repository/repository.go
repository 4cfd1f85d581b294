package repository

import (
	"context"

	"anoa.com/chirp/internal/entity"
	"anoa.com/chirp/pkg/store"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	FindByID(ctx context.Context, id string) (*entity.Post, error)
	FindAll(ctx context.Context) ([]entity.Post, error)
	FindByHandle(ctx context.Context, handle string) ([]entity.Post, error)
	Delete(ctx context.Context, id string) error
}

type postRepository struct {
	store store.Store
}

func NewPostRepository(s store.Store) PostRepository {
	return &postRepository{store: s}
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	return r.store.Set(ctx, entity.Posts, post.ID, post)
}

func (r *postRepository) FindByID(ctx context.Context, id string) (*entity.Post, error) {
	var post entity.Post
	if err := r.store.Get(ctx, entity.Posts, id, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindAll(ctx context.Context) ([]entity.Post, error) {
	var posts []entity.Post
	q := store.Query{OrderBy: "createdAt", Desc: true}
	if err := r.store.Query(ctx, entity.Posts, q, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) FindByHandle(ctx context.Context, handle string) ([]entity.Post, error) {
	var posts []entity.Post
	q := store.Query{Filter: map[string]any{"userHandle": handle}, OrderBy: "createdAt", Desc: true}
	if err := r.store.Query(ctx, entity.Posts, q, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, entity.Posts, id)
}
