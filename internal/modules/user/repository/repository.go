package repository

import (
	"context"

	"anoa.com/chirp/internal/entity"
	"anoa.com/chirp/pkg/store"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByHandle(ctx context.Context, handle string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateFields(ctx context.Context, handle string, fields map[string]any) error
}

type userRepository struct {
	store store.Store
}

func NewUserRepository(s store.Store) UserRepository {
	return &userRepository{store: s}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.store.Set(ctx, entity.Users, user.Handle, user)
}

func (r *userRepository) FindByHandle(ctx context.Context, handle string) (*entity.User, error) {
	var user entity.User
	if err := r.store.Get(ctx, entity.Users, handle, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var users []entity.User
	q := store.Query{Filter: map[string]any{"email": email}, Limit: 1}
	if err := r.store.Query(ctx, entity.Users, q, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, store.ErrNotFound
	}
	return &users[0], nil
}

func (r *userRepository) UpdateFields(ctx context.Context, handle string, fields map[string]any) error {
	return r.store.Update(ctx, entity.Users, handle, fields)
}
