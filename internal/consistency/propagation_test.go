package consistency

import (
	"context"
	"fmt"
	"testing"

	"anoa.com/chirp/internal/entity"
	"anoa.com/chirp/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userUpdateEvent(handle, oldImg, newImg string) Event {
	return Event{
		Collection: entity.Users,
		Op:         OpUpdate,
		ID:         handle,
		Before:     &entity.User{Handle: handle, ImgURL: oldImg},
		After:      &entity.User{Handle: handle, ImgURL: newImg},
	}
}

func TestPropagatorRewritesAllDenormalizedCopies(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	p := NewProfilePropagator(s)

	require.NoError(t, s.Set(ctx, entity.Posts, "p1", &entity.Post{ID: "p1", UserHandle: "alice", UserImage: "old.png"}))
	require.NoError(t, s.Set(ctx, entity.Posts, "p2", &entity.Post{ID: "p2", UserHandle: "bob", UserImage: "bob.png"}))
	require.NoError(t, s.Set(ctx, entity.Comments, "c1", &entity.Comment{ID: "c1", PostID: "p2", UserHandle: "alice", UserImage: "old.png"}))
	require.NoError(t, s.Set(ctx, entity.Notifications, "n1", &entity.Notification{ID: "n1", Recipient: "bob", Sender: "alice", SenderImg: "old.png"}))
	require.NoError(t, s.Set(ctx, entity.Notifications, "n2", &entity.Notification{ID: "n2", Recipient: "alice", Sender: "bob", SenderImg: "bob.png"}))

	require.NoError(t, p.onUserUpdate(ctx, userUpdateEvent("alice", "old.png", "new.png")))

	var post entity.Post
	require.NoError(t, s.Get(ctx, entity.Posts, "p1", &post))
	assert.Equal(t, "new.png", post.UserImage)

	var comment entity.Comment
	require.NoError(t, s.Get(ctx, entity.Comments, "c1", &comment))
	assert.Equal(t, "new.png", comment.UserImage)

	var notif entity.Notification
	require.NoError(t, s.Get(ctx, entity.Notifications, "n1", &notif))
	assert.Equal(t, "new.png", notif.SenderImg)

	// Other users' documents stay untouched.
	require.NoError(t, s.Get(ctx, entity.Posts, "p2", &post))
	assert.Equal(t, "bob.png", post.UserImage)
	require.NoError(t, s.Get(ctx, entity.Notifications, "n2", &notif))
	assert.Equal(t, "bob.png", notif.SenderImg)
}

func TestPropagatorSkipsWhenImageUnchanged(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	p := NewProfilePropagator(s)

	require.NoError(t, s.Set(ctx, entity.Posts, "p1", &entity.Post{ID: "p1", UserHandle: "alice", UserImage: "same.png"}))
	writesBefore := s.WriteOps()

	ev := Event{
		Collection: entity.Users,
		Op:         OpUpdate,
		ID:         "alice",
		Before:     &entity.User{Handle: "alice", ImgURL: "same.png", Bio: "old bio"},
		After:      &entity.User{Handle: "alice", ImgURL: "same.png", Bio: "new bio"},
	}
	require.NoError(t, p.onUserUpdate(ctx, ev))

	assert.Equal(t, writesBefore, s.WriteOps())
}

type batchCountingStore struct {
	store.Store
	batches int
}

func (s *batchCountingStore) NewBatch() store.Batch {
	s.batches++
	return s.Store.NewBatch()
}

func TestPropagatorChunksLargeRewrites(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	counting := &batchCountingStore{Store: mem}
	p := &ProfilePropagator{store: counting, maxBatchOps: 2}

	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("p%d", i)
		require.NoError(t, mem.Set(ctx, entity.Posts, id, &entity.Post{ID: id, UserHandle: "alice", UserImage: "old.png"}))
	}

	require.NoError(t, p.onUserUpdate(ctx, userUpdateEvent("alice", "old.png", "new.png")))

	// 5 posts at 2 ops per batch is 3 batches; comments and notifications
	// have no matches and allocate none.
	assert.Equal(t, 3, counting.batches)

	for i := 0; i < 5; i++ {
		var post entity.Post
		require.NoError(t, mem.Get(ctx, entity.Posts, fmt.Sprintf("p%d", i), &post))
		assert.Equal(t, "new.png", post.UserImage)
	}
}
