package service

import (
	"context"
	"testing"
	"time"

	"anoa.com/chirp/internal/entity"
	"anoa.com/chirp/internal/modules/user/dto"
	"anoa.com/chirp/internal/modules/user/repository"
	"anoa.com/chirp/pkg/apperror"
	"anoa.com/chirp/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultAvatar = "https://cdn.example.com/no-img.png"

func newAuthFixture(t *testing.T) (*store.MemoryStore, AuthService) {
	t.Helper()
	s := store.NewMemoryStore()
	svc := NewAuthService(repository.NewUserRepository(s), "test-secret", time.Hour, defaultAvatar)
	return s, svc
}

func signupInput(handle, email string) dto.SignupInput {
	return dto.SignupInput{
		Email:           email,
		Password:        "hunter22",
		ConfirmPassword: "hunter22",
		Handle:          handle,
	}
}

func TestSignupCreatesUserWithDefaultAvatar(t *testing.T) {
	ctx := context.Background()
	s, svc := newAuthFixture(t)

	resp, err := svc.Signup(ctx, signupInput("alice", "alice@example.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	var user entity.User
	require.NoError(t, s.Get(ctx, entity.Users, "alice", &user))
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, defaultAvatar, user.ImgURL)
	assert.NotEqual(t, "hunter22", user.PasswordHash)
}

func TestSignupRejectsTakenHandle(t *testing.T) {
	ctx := context.Background()
	_, svc := newAuthFixture(t)

	_, err := svc.Signup(ctx, signupInput("alice", "alice@example.com"))
	require.NoError(t, err)

	_, err = svc.Signup(ctx, signupInput("alice", "other@example.com"))
	assert.ErrorIs(t, err, apperror.ErrHandleTaken)
}

func TestSignupRejectsEmailInUse(t *testing.T) {
	ctx := context.Background()
	_, svc := newAuthFixture(t)

	_, err := svc.Signup(ctx, signupInput("alice", "alice@example.com"))
	require.NoError(t, err)

	_, err = svc.Signup(ctx, signupInput("alice2", "alice@example.com"))
	assert.ErrorIs(t, err, apperror.ErrEmailInUse)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	_, svc := newAuthFixture(t)

	_, err := svc.Signup(ctx, signupInput("alice", "alice@example.com"))
	require.NoError(t, err)

	resp, err := svc.Login(ctx, dto.LoginInput{Email: "alice@example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	_, err = svc.Login(ctx, dto.LoginInput{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrWrongCredentials)

	_, err = svc.Login(ctx, dto.LoginInput{Email: "nobody@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, apperror.ErrWrongCredentials)
}
