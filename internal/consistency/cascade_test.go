package consistency

import (
	"context"
	"testing"

	"anoa.com/chirp/internal/entity"
	"anoa.com/chirp/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCascadeDeletesAllDependents(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	c := NewCascadeDeleter(s)

	require.NoError(t, s.Set(ctx, entity.Comments, "c1", &entity.Comment{ID: "c1", PostID: "p1"}))
	require.NoError(t, s.Set(ctx, entity.Comments, "c2", &entity.Comment{ID: "c2", PostID: "p1"}))
	require.NoError(t, s.Set(ctx, entity.Likes, "l1", &entity.Like{ID: "l1", PostID: "p1"}))
	require.NoError(t, s.Set(ctx, entity.Notifications, "n1", &entity.Notification{ID: "n1", PostID: "p1"}))

	// Dependents of another post must survive.
	require.NoError(t, s.Set(ctx, entity.Comments, "c3", &entity.Comment{ID: "c3", PostID: "p2"}))
	require.NoError(t, s.Set(ctx, entity.Likes, "l2", &entity.Like{ID: "l2", PostID: "p2"}))

	err := c.onPostDelete(ctx, Event{Collection: entity.Posts, Op: OpDelete, ID: "p1"})
	require.NoError(t, err)

	var comment entity.Comment
	assert.ErrorIs(t, s.Get(ctx, entity.Comments, "c1", &comment), store.ErrNotFound)
	assert.ErrorIs(t, s.Get(ctx, entity.Comments, "c2", &comment), store.ErrNotFound)

	var like entity.Like
	assert.ErrorIs(t, s.Get(ctx, entity.Likes, "l1", &like), store.ErrNotFound)

	var notif entity.Notification
	assert.ErrorIs(t, s.Get(ctx, entity.Notifications, "n1", &notif), store.ErrNotFound)

	require.NoError(t, s.Get(ctx, entity.Comments, "c3", &comment))
	require.NoError(t, s.Get(ctx, entity.Likes, "l2", &like))
}

func TestCascadeWithNoDependentsWritesNothing(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	c := NewCascadeDeleter(s)

	writesBefore := s.WriteOps()
	err := c.onPostDelete(ctx, Event{Collection: entity.Posts, Op: OpDelete, ID: "lonely"})
	require.NoError(t, err)
	assert.Equal(t, writesBefore, s.WriteOps())
}
