package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"anoa.com/chirp/internal/entity"
	"anoa.com/chirp/internal/modules/user/dto"
	"anoa.com/chirp/internal/modules/user/repository"
	"anoa.com/chirp/pkg/apperror"
	"anoa.com/chirp/pkg/store"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Signup(ctx context.Context, input dto.SignupInput) (*dto.AuthResponse, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
}

type authService struct {
	repo             repository.UserRepository
	secret           string
	tokenTTL         time.Duration
	defaultAvatarURL string
}

func NewAuthService(repo repository.UserRepository, secret string, tokenTTL time.Duration, defaultAvatarURL string) AuthService {
	return &authService{
		repo:             repo,
		secret:           secret,
		tokenTTL:         tokenTTL,
		defaultAvatarURL: defaultAvatarURL,
	}
}

func (s *authService) Signup(ctx context.Context, input dto.SignupInput) (*dto.AuthResponse, error) {
	// Handle is the primary key, so the uniqueness check is a plain lookup.
	if _, err := s.repo.FindByHandle(ctx, input.Handle); err == nil {
		return nil, apperror.ErrHandleTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperror.ErrEmailInUse
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Handle:       input.Handle,
		Email:        input.Email,
		PasswordHash: string(hashed),
		CreatedAt:    time.Now(),
		ImgURL:       s.defaultAvatarURL,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.ErrWrongCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.ErrWrongCredentials
	}

	return s.buildAuthResponse(user)
}

func (s *authService) buildAuthResponse(user *entity.User) (*dto.AuthResponse, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.Handle,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &dto.AuthResponse{Token: token}, nil
}
