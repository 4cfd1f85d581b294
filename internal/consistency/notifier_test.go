package consistency

import (
	"context"
	"errors"
	"testing"
	"time"

	"anoa.com/chirp/internal/entity"
	"anoa.com/chirp/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	published []*entity.Notification
	err       error
}

func (p *fakePublisher) Publish(ctx context.Context, n *entity.Notification) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, n)
	return nil
}

func newTestMaterializer(s store.Store, publisher NotificationPublisher) *NotificationMaterializer {
	m := NewNotificationMaterializer(s, publisher)
	m.now = func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }
	return m
}

func TestMaterializeLikeNotification(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	publisher := &fakePublisher{}
	m := newTestMaterializer(s, publisher)

	seedPost(t, s, &entity.Post{ID: "p1", UserHandle: "alice"})
	like := &entity.Like{ID: "l1", PostID: "p1", UserHandle: "bob", UserImage: "bob.png"}
	require.NoError(t, s.Set(ctx, entity.Likes, like.ID, like))

	err := m.materialize(ctx, Event{Collection: entity.Likes, Op: OpCreate, ID: "l1", After: like})
	require.NoError(t, err)

	var notif entity.Notification
	require.NoError(t, s.Get(ctx, entity.Notifications, "l1", &notif))
	assert.Equal(t, "l1", notif.ID)
	assert.Equal(t, "alice", notif.Recipient)
	assert.Equal(t, "bob", notif.Sender)
	assert.Equal(t, "bob.png", notif.SenderImg)
	assert.Equal(t, entity.NotificationLike, notif.Type)
	assert.Equal(t, "p1", notif.PostID)
	assert.False(t, notif.Read)
	assert.True(t, notif.CreatedAt.Equal(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)))

	require.Len(t, publisher.published, 1)
	assert.Equal(t, "alice", publisher.published[0].Recipient)
}

func TestMaterializeCommentNotification(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	m := newTestMaterializer(s, nil)

	seedPost(t, s, &entity.Post{ID: "p1", UserHandle: "alice"})
	comment := &entity.Comment{ID: "c1", CommentID: "c1", PostID: "p1", UserHandle: "bob", Body: "nice"}
	require.NoError(t, s.Set(ctx, entity.Comments, comment.ID, comment))

	err := m.materialize(ctx, Event{Collection: entity.Comments, Op: OpCreate, ID: "c1", After: comment})
	require.NoError(t, err)

	var notif entity.Notification
	require.NoError(t, s.Get(ctx, entity.Notifications, "c1", &notif))
	assert.Equal(t, entity.NotificationComment, notif.Type)
}

func TestMaterializeSuppressesSelfNotification(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	m := newTestMaterializer(s, nil)

	seedPost(t, s, &entity.Post{ID: "p1", UserHandle: "alice"})
	like := &entity.Like{ID: "l1", PostID: "p1", UserHandle: "alice"}
	require.NoError(t, s.Set(ctx, entity.Likes, like.ID, like))

	err := m.materialize(ctx, Event{Collection: entity.Likes, Op: OpCreate, ID: "l1", After: like})
	require.NoError(t, err)

	var notif entity.Notification
	assert.ErrorIs(t, s.Get(ctx, entity.Notifications, "l1", &notif), store.ErrNotFound)
}

func TestMaterializeMissingPostIsBenign(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	m := newTestMaterializer(s, nil)

	like := &entity.Like{ID: "l1", PostID: "gone", UserHandle: "bob"}
	err := m.materialize(ctx, Event{Collection: entity.Likes, Op: OpCreate, ID: "l1", After: like})
	require.NoError(t, err)

	var notif entity.Notification
	assert.ErrorIs(t, s.Get(ctx, entity.Notifications, "l1", &notif), store.ErrNotFound)
}

// The delete event can be handled before the create event finishes. The
// materializer re-checks the source document and must take the notification
// back when it is already gone.
func TestMaterializeConvergesWhenSourceAlreadyDeleted(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	m := newTestMaterializer(s, nil)

	seedPost(t, s, &entity.Post{ID: "p1", UserHandle: "alice"})
	like := &entity.Like{ID: "l1", PostID: "p1", UserHandle: "bob"}
	// The like document is intentionally absent from the store.

	err := m.materialize(ctx, Event{Collection: entity.Likes, Op: OpCreate, ID: "l1", After: like})
	require.NoError(t, err)

	var notif entity.Notification
	assert.ErrorIs(t, s.Get(ctx, entity.Notifications, "l1", &notif), store.ErrNotFound)
}

func TestRetractIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	m := newTestMaterializer(s, nil)

	require.NoError(t, s.Set(ctx, entity.Notifications, "l1", &entity.Notification{ID: "l1", Recipient: "alice"}))

	ev := Event{Collection: entity.Likes, Op: OpDelete, ID: "l1", Before: &entity.Like{ID: "l1", PostID: "p1"}}
	require.NoError(t, m.retract(ctx, ev))
	require.NoError(t, m.retract(ctx, ev))

	var notif entity.Notification
	assert.ErrorIs(t, s.Get(ctx, entity.Notifications, "l1", &notif), store.ErrNotFound)
}

type failingGetStore struct {
	store.Store
	failCollection string
}

func (s *failingGetStore) Get(ctx context.Context, collection, id string, out any) error {
	if collection == s.failCollection {
		return errors.New("store unavailable")
	}
	return s.Store.Get(ctx, collection, id, out)
}

// A transient error on the source re-check must surface, not be mistaken for
// "source exists".
func TestMaterializeSourceRecheckErrorSurfaces(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	m := newTestMaterializer(&failingGetStore{Store: mem, failCollection: entity.Likes}, nil)

	seedPost(t, mem, &entity.Post{ID: "p1", UserHandle: "alice"})
	like := &entity.Like{ID: "l1", PostID: "p1", UserHandle: "bob"}
	require.NoError(t, mem.Set(ctx, entity.Likes, like.ID, like))

	err := m.materialize(ctx, Event{Collection: entity.Likes, Op: OpCreate, ID: "l1", After: like})
	require.Error(t, err)
}

func TestMaterializePublisherFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	m := newTestMaterializer(s, &fakePublisher{err: errors.New("redis down")})

	seedPost(t, s, &entity.Post{ID: "p1", UserHandle: "alice"})
	like := &entity.Like{ID: "l1", PostID: "p1", UserHandle: "bob"}
	require.NoError(t, s.Set(ctx, entity.Likes, like.ID, like))

	err := m.materialize(ctx, Event{Collection: entity.Likes, Op: OpCreate, ID: "l1", After: like})
	require.NoError(t, err)

	var notif entity.Notification
	require.NoError(t, s.Get(ctx, entity.Notifications, "l1", &notif))
}
