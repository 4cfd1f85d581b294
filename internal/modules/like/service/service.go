package like

import (
	"context"
	"errors"

	"anoa.com/chirp/internal/consistency"
	"anoa.com/chirp/internal/entity"
	likeRepo "anoa.com/chirp/internal/modules/like/repository"
	postRepo "anoa.com/chirp/internal/modules/post/repository"
	"anoa.com/chirp/pkg/apperror"
	"anoa.com/chirp/pkg/store"
	"github.com/google/uuid"
)

type LikeService interface {
	LikePost(ctx context.Context, handle, userImage, postID string) (*entity.Post, error)
	UnlikePost(ctx context.Context, handle, postID string) (*entity.Post, error)
}

type likeService struct {
	likeRepo   likeRepo.LikeRepository
	postRepo   postRepo.PostRepository
	dispatcher *consistency.Dispatcher
}

func NewLikeService(likeRepo likeRepo.LikeRepository, postRepo postRepo.PostRepository, dispatcher *consistency.Dispatcher) LikeService {
	return &likeService{
		likeRepo:   likeRepo,
		postRepo:   postRepo,
		dispatcher: dispatcher,
	}
}

func (s *likeService) LikePost(ctx context.Context, handle, userImage, postID string) (*entity.Post, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if _, err := s.likeRepo.FindByUserAndPost(ctx, handle, postID); err == nil {
		return nil, apperror.ErrAlreadyLiked
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	like := &entity.Like{
		ID:         uuid.NewString(),
		PostID:     postID,
		UserHandle: handle,
		UserImage:  userImage,
	}
	if err := s.likeRepo.Create(ctx, like); err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(consistency.Event{
		Collection: entity.Likes,
		Op:         consistency.OpCreate,
		ID:         like.ID,
		After:      like,
	})

	// The counter maintainer adjusts the stored likeCount asynchronously;
	// the response reflects the count this like produces.
	post.LikeCount++
	return post, nil
}

func (s *likeService) UnlikePost(ctx context.Context, handle, postID string) (*entity.Post, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	like, err := s.likeRepo.FindByUserAndPost(ctx, handle, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.ErrNotLiked
		}
		return nil, err
	}

	if err := s.likeRepo.Delete(ctx, like.ID); err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(consistency.Event{
		Collection: entity.Likes,
		Op:         consistency.OpDelete,
		ID:         like.ID,
		Before:     like,
	})

	post.LikeCount--
	return post, nil
}
