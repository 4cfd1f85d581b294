package comment

import (
	"context"
	"errors"
	"time"

	"anoa.com/chirp/internal/consistency"
	"anoa.com/chirp/internal/entity"
	commentDto "anoa.com/chirp/internal/modules/comment/dto"
	commentRepo "anoa.com/chirp/internal/modules/comment/repository"
	postRepo "anoa.com/chirp/internal/modules/post/repository"
	"anoa.com/chirp/pkg/apperror"
	"anoa.com/chirp/pkg/store"
	"github.com/google/uuid"
)

type CommentService interface {
	CommentOnPost(ctx context.Context, handle, userImage, postID string, req commentDto.CreateCommentRequest) (*entity.Comment, error)
	DeleteComment(ctx context.Context, handle, commentID string) error
}

type commentService struct {
	commentRepo commentRepo.CommentRepository
	postRepo    postRepo.PostRepository
	dispatcher  *consistency.Dispatcher
}

func NewCommentService(commentRepo commentRepo.CommentRepository, postRepo postRepo.PostRepository, dispatcher *consistency.Dispatcher) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		dispatcher:  dispatcher,
	}
}

func (s *commentService) CommentOnPost(ctx context.Context, handle, userImage, postID string, req commentDto.CreateCommentRequest) (*entity.Comment, error) {
	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	id := uuid.NewString()
	comment := &entity.Comment{
		ID:         id,
		CommentID:  id,
		PostID:     postID,
		UserHandle: handle,
		Body:       req.Body,
		CreatedAt:  time.Now(),
		UserImage:  userImage,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	// Counter bump and notification happen in the consistency engines.
	s.dispatcher.Dispatch(consistency.Event{
		Collection: entity.Comments,
		Op:         consistency.OpCreate,
		ID:         comment.ID,
		After:      comment,
	})

	return comment, nil
}

func (s *commentService) DeleteComment(ctx context.Context, handle, commentID string) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}
	if comment.UserHandle != handle {
		return apperror.ErrForbidden
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}

	s.dispatcher.Dispatch(consistency.Event{
		Collection: entity.Comments,
		Op:         consistency.OpDelete,
		ID:         commentID,
		Before:     comment,
	})

	return nil
}
