package repository

import (
	"context"

	"anoa.com/chirp/internal/entity"
	"anoa.com/chirp/pkg/store"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	FindByID(ctx context.Context, id string) (*entity.Comment, error)
	FindByPostID(ctx context.Context, postID string) ([]entity.Comment, error)
	Delete(ctx context.Context, id string) error
}

type commentRepository struct {
	store store.Store
}

func NewCommentRepository(s store.Store) CommentRepository {
	return &commentRepository{store: s}
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	return r.store.Set(ctx, entity.Comments, comment.ID, comment)
}

func (r *commentRepository) FindByID(ctx context.Context, id string) (*entity.Comment, error) {
	var comment entity.Comment
	if err := r.store.Get(ctx, entity.Comments, id, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) FindByPostID(ctx context.Context, postID string) ([]entity.Comment, error) {
	var comments []entity.Comment
	q := store.Query{Filter: map[string]any{"postId": postID}, OrderBy: "createdAt", Desc: true}
	if err := r.store.Query(ctx, entity.Comments, q, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, entity.Comments, id)
}
