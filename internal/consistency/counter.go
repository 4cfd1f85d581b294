package consistency

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/chirp/internal/entity"
	"anoa.com/chirp/pkg/store"
)

// CounterMaintainer keeps likeCount and commentCount on a post in step with
// the likes and comments referencing it, adjusting by one per event. The
// adjustment uses the store's atomic increment, so concurrent events on the
// same post do not lose updates; a failed adjustment is not retried and the
// counter drifts until recreated.
type CounterMaintainer struct {
	store store.Store
}

func NewCounterMaintainer(s store.Store) *CounterMaintainer {
	return &CounterMaintainer{store: s}
}

func (m *CounterMaintainer) Register(d *Dispatcher) {
	d.Subscribe(entity.Likes, OpCreate, m.adjust("likeCount", +1))
	d.Subscribe(entity.Likes, OpDelete, m.adjust("likeCount", -1))
	d.Subscribe(entity.Comments, OpCreate, m.adjust("commentCount", +1))
	d.Subscribe(entity.Comments, OpDelete, m.adjust("commentCount", -1))
}

func (m *CounterMaintainer) adjust(field string, delta int) HandlerFunc {
	return func(ctx context.Context, ev Event) error {
		postID := referencedPostID(ev)
		if postID == "" {
			return fmt.Errorf("event %s/%s carries no post reference", ev.Collection, ev.ID)
		}

		err := m.store.Increment(ctx, entity.Posts, postID, field, delta)
		if errors.Is(err, store.ErrNotFound) {
			// Post already deleted; the cascade removed its dependents.
			return nil
		}
		return err
	}
}

// referencedPostID extracts the postId from a like or comment snapshot,
// preferring After (creates) and falling back to Before (deletes).
func referencedPostID(ev Event) string {
	for _, snapshot := range []any{ev.After, ev.Before} {
		switch doc := snapshot.(type) {
		case *entity.Like:
			return doc.PostID
		case *entity.Comment:
			return doc.PostID
		}
	}
	return ""
}
