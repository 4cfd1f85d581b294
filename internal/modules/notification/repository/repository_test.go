package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"anoa.com/chirp/internal/entity"
	"anoa.com/chirp/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNotifications(t *testing.T, s *store.MemoryStore, recipient string, n int) {
	t.Helper()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("n%d", i)
		notif := &entity.Notification{
			ID:        id,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Recipient: recipient,
			Sender:    "bob",
			Type:      entity.NotificationLike,
			PostID:    "p1",
		}
		require.NoError(t, s.Set(context.Background(), entity.Notifications, id, notif))
	}
}

func TestFindByRecipientNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	repo := NewNotificationRepository(s)

	seedNotifications(t, s, "alice", 3)
	seedNotifications(t, s, "carol", 1)

	got, err := repo.FindByRecipient(ctx, "alice", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "n2", got[0].ID)
	assert.Equal(t, "n1", got[1].ID)
}

func TestMarkReadBatches(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	repo := NewNotificationRepository(s)

	seedNotifications(t, s, "alice", 3)

	require.NoError(t, repo.MarkRead(ctx, []string{"n0", "n2"}))

	unread, err := repo.CountUnread(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	// Empty input is a no-op, not an error.
	require.NoError(t, repo.MarkRead(ctx, nil))
}

func TestMarkReadUnknownIDFailsWholeBatch(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	repo := NewNotificationRepository(s)

	seedNotifications(t, s, "alice", 2)

	err := repo.MarkRead(ctx, []string{"n0", "ghost"})
	require.ErrorIs(t, err, store.ErrNotFound)

	unread, err := repo.CountUnread(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, unread)
}
