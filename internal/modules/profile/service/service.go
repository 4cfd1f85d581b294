package profile

import (
	"context"
	"errors"
	"log"
	"strings"

	"anoa.com/chirp/internal/consistency"
	"anoa.com/chirp/internal/entity"
	likeRepo "anoa.com/chirp/internal/modules/like/repository"
	notifRepo "anoa.com/chirp/internal/modules/notification/repository"
	postRepo "anoa.com/chirp/internal/modules/post/repository"
	profileDto "anoa.com/chirp/internal/modules/profile/dto"
	userRepo "anoa.com/chirp/internal/modules/user/repository"
	"anoa.com/chirp/pkg/apperror"
	"anoa.com/chirp/pkg/storage"
	"anoa.com/chirp/pkg/store"
)

const recentNotificationLimit = 10

type ProfileService interface {
	UpdateDetails(ctx context.Context, handle string, input profileDto.UpdateDetailsInput) error
	UploadImage(ctx context.Context, handle string, image profileDto.ImageFile) (string, error)
	GetAuthenticatedUser(ctx context.Context, handle string) (*profileDto.OwnProfile, error)
	GetUserDetails(ctx context.Context, handle string) (*profileDto.PublicProfile, error)
}

type profileService struct {
	userRepo     userRepo.UserRepository
	postRepo     postRepo.PostRepository
	likeRepo     likeRepo.LikeRepository
	notifRepo    notifRepo.NotificationRepository
	imageStorage storage.ImageStorage
	dispatcher   *consistency.Dispatcher
	uploadFolder string
}

func NewProfileService(
	userRepo userRepo.UserRepository,
	postRepo postRepo.PostRepository,
	likeRepo likeRepo.LikeRepository,
	notifRepo notifRepo.NotificationRepository,
	imageStorage storage.ImageStorage,
	dispatcher *consistency.Dispatcher,
	uploadFolder string,
) ProfileService {
	return &profileService{
		userRepo:     userRepo,
		postRepo:     postRepo,
		likeRepo:     likeRepo,
		notifRepo:    notifRepo,
		imageStorage: imageStorage,
		dispatcher:   dispatcher,
		uploadFolder: uploadFolder,
	}
}

func (s *profileService) UpdateDetails(ctx context.Context, handle string, input profileDto.UpdateDetailsInput) error {
	before, err := s.userRepo.FindByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	after := *before
	fields := map[string]any{}
	if bio := strings.TrimSpace(input.Bio); bio != "" {
		fields["bio"] = bio
		after.Bio = bio
	}
	if location := strings.TrimSpace(input.Location); location != "" {
		fields["location"] = location
		after.Location = location
	}
	if website := strings.TrimSpace(input.Website); website != "" {
		if !strings.HasPrefix(website, "http") {
			website = "http://" + website
		}
		fields["website"] = website
		after.Website = website
	}
	if len(fields) == 0 {
		return nil
	}

	if err := s.userRepo.UpdateFields(ctx, handle, fields); err != nil {
		return err
	}

	s.dispatcher.Dispatch(consistency.Event{
		Collection: entity.Users,
		Op:         consistency.OpUpdate,
		ID:         handle,
		Before:     before,
		After:      &after,
	})

	return nil
}

func (s *profileService) UploadImage(ctx context.Context, handle string, image profileDto.ImageFile) (string, error) {
	before, err := s.userRepo.FindByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", apperror.ErrNotFound
		}
		return "", err
	}

	imgURL, err := s.imageStorage.UploadImage(ctx, image.Reader, s.uploadFolder, image.FileName)
	if err != nil {
		return "", err
	}

	if err := s.userRepo.UpdateFields(ctx, handle, map[string]any{"imgUrl": imgURL}); err != nil {
		return "", err
	}

	// Best effort: drop the previous upload so replaced avatars don't pile
	// up. The default avatar is not a managed upload and is left alone.
	if old := before.ImgURL; old != "" && old != imgURL && strings.Contains(old, "res.cloudinary.com") {
		if err := s.imageStorage.DeleteImage(ctx, old); err != nil {
			log.Printf("failed to delete previous avatar for %s: %v", handle, err)
		}
	}

	after := *before
	after.ImgURL = imgURL

	// The propagation engine rewrites the denormalized copies on posts,
	// comments and notifications.
	s.dispatcher.Dispatch(consistency.Event{
		Collection: entity.Users,
		Op:         consistency.OpUpdate,
		ID:         handle,
		Before:     before,
		After:      &after,
	})

	return imgURL, nil
}

func (s *profileService) GetAuthenticatedUser(ctx context.Context, handle string) (*profileDto.OwnProfile, error) {
	user, err := s.userRepo.FindByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	likes, err := s.likeRepo.FindByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}

	notifications, err := s.notifRepo.FindByRecipient(ctx, handle, recentNotificationLimit)
	if err != nil {
		return nil, err
	}

	return &profileDto.OwnProfile{
		Credentials:   *user,
		Likes:         likes,
		Notifications: notifications,
	}, nil
}

func (s *profileService) GetUserDetails(ctx context.Context, handle string) (*profileDto.PublicProfile, error) {
	user, err := s.userRepo.FindByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	posts, err := s.postRepo.FindByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}

	return &profileDto.PublicProfile{User: *user, Posts: posts}, nil
}
