package consistency

import (
	"context"
	"testing"

	"anoa.com/chirp/internal/entity"
	"anoa.com/chirp/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPost(t *testing.T, s *store.MemoryStore, post *entity.Post) {
	t.Helper()
	require.NoError(t, s.Set(context.Background(), entity.Posts, post.ID, post))
}

func getPost(t *testing.T, s *store.MemoryStore, id string) *entity.Post {
	t.Helper()
	var post entity.Post
	require.NoError(t, s.Get(context.Background(), entity.Posts, id, &post))
	return &post
}

func TestCounterLikesAndUnlikesBalance(t *testing.T) {
	s := store.NewMemoryStore()
	d := NewDispatcher()
	NewCounterMaintainer(s).Register(d)

	seedPost(t, s, &entity.Post{ID: "p1", UserHandle: "alice"})

	for _, handle := range []string{"bob", "carol", "dave"} {
		d.Dispatch(Event{
			Collection: entity.Likes,
			Op:         OpCreate,
			ID:         "like-" + handle,
			After:      &entity.Like{ID: "like-" + handle, PostID: "p1", UserHandle: handle},
		})
	}
	d.Dispatch(Event{
		Collection: entity.Likes,
		Op:         OpDelete,
		ID:         "like-bob",
		Before:     &entity.Like{ID: "like-bob", PostID: "p1", UserHandle: "bob"},
	})
	d.Wait()

	assert.Equal(t, 2, getPost(t, s, "p1").LikeCount)
}

func TestCounterCommentsAdjustCommentCount(t *testing.T) {
	s := store.NewMemoryStore()
	d := NewDispatcher()
	NewCounterMaintainer(s).Register(d)

	seedPost(t, s, &entity.Post{ID: "p1", UserHandle: "alice"})

	d.Dispatch(Event{
		Collection: entity.Comments,
		Op:         OpCreate,
		ID:         "c1",
		After:      &entity.Comment{ID: "c1", PostID: "p1", UserHandle: "bob"},
	})
	d.Dispatch(Event{
		Collection: entity.Comments,
		Op:         OpCreate,
		ID:         "c2",
		After:      &entity.Comment{ID: "c2", PostID: "p1", UserHandle: "carol"},
	})
	d.Wait()

	post := getPost(t, s, "p1")
	assert.Equal(t, 2, post.CommentCount)
	assert.Equal(t, 0, post.LikeCount)
}

func TestCounterMissingPostIsBenign(t *testing.T) {
	s := store.NewMemoryStore()
	m := NewCounterMaintainer(s)

	handler := m.adjust("likeCount", +1)
	err := handler(context.Background(), Event{
		Collection: entity.Likes,
		Op:         OpCreate,
		ID:         "l1",
		After:      &entity.Like{ID: "l1", PostID: "gone", UserHandle: "bob"},
	})
	assert.NoError(t, err)
}

func TestCounterRejectsEventWithoutPostReference(t *testing.T) {
	s := store.NewMemoryStore()
	m := NewCounterMaintainer(s)

	handler := m.adjust("likeCount", +1)
	err := handler(context.Background(), Event{Collection: entity.Likes, Op: OpCreate, ID: "l1"})
	assert.Error(t, err)
}
