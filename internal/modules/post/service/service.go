package post

import (
	"context"
	"errors"
	"fmt"
	"time"

	"anoa.com/chirp/internal/consistency"
	"anoa.com/chirp/internal/entity"
	commentRepo "anoa.com/chirp/internal/modules/comment/repository"
	postDto "anoa.com/chirp/internal/modules/post/dto"
	postRepo "anoa.com/chirp/internal/modules/post/repository"
	"anoa.com/chirp/pkg/apperror"
	"anoa.com/chirp/pkg/ratelimiter"
	"anoa.com/chirp/pkg/store"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type PostService interface {
	CreatePost(ctx context.Context, handle, userImage string, req postDto.CreatePostRequest) (*entity.Post, error)
	GetAllPosts(ctx context.Context) ([]entity.Post, error)
	GetPost(ctx context.Context, postID string) (*postDto.PostDetail, error)
	DeletePost(ctx context.Context, handle, postID string) error
}

type postService struct {
	postRepo    postRepo.PostRepository
	commentRepo commentRepo.CommentRepository
	dispatcher  *consistency.Dispatcher
	redisClient *redis.Client
	cooldown    time.Duration
}

func NewPostService(postRepo postRepo.PostRepository, commentRepo commentRepo.CommentRepository, dispatcher *consistency.Dispatcher, redisClient *redis.Client, cooldown time.Duration) PostService {
	return &postService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		dispatcher:  dispatcher,
		redisClient: redisClient,
		cooldown:    cooldown,
	}
}

func (s *postService) CreatePost(ctx context.Context, handle, userImage string, req postDto.CreatePostRequest) (*entity.Post, error) {
	// Posting cooldown
	allowed, err := ratelimiter.CheckAndSetRateLimit(ctx, s.redisClient, handle, "global", s.cooldown)
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		ttl, _ := ratelimiter.GetRateLimitTTL(ctx, s.redisClient, handle, "global")
		return nil, &ratelimiter.RateLimitError{
			Message:    fmt.Sprintf("you are doing that too fast. Please wait %.0f seconds", ttl.Seconds()),
			RetryAfter: ttl,
		}
	}

	post := &entity.Post{
		ID:           uuid.NewString(),
		UserHandle:   handle,
		Body:         req.Body,
		CreatedAt:    time.Now(),
		UserImage:    userImage,
		LikeCount:    0,
		CommentCount: 0,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, handle, "global")
		return nil, err
	}

	s.dispatcher.Dispatch(consistency.Event{
		Collection: entity.Posts,
		Op:         consistency.OpCreate,
		ID:         post.ID,
		After:      post,
	})

	return post, nil
}

func (s *postService) GetAllPosts(ctx context.Context) ([]entity.Post, error) {
	return s.postRepo.FindAll(ctx)
}

func (s *postService) GetPost(ctx context.Context, postID string) (*postDto.PostDetail, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	comments, err := s.commentRepo.FindByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &postDto.PostDetail{Post: *post, Comments: comments}, nil
}

func (s *postService) DeletePost(ctx context.Context, handle, postID string) error {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}
	if post.UserHandle != handle {
		return apperror.ErrForbidden
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	// Cascade cleanup of comments, likes and notifications happens in the
	// consistency engines, never inline here.
	s.dispatcher.Dispatch(consistency.Event{
		Collection: entity.Posts,
		Op:         consistency.OpDelete,
		ID:         postID,
		Before:     post,
	})

	return nil
}
