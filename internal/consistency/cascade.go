package consistency

import (
	"context"

	"anoa.com/chirp/internal/entity"
	"anoa.com/chirp/pkg/store"
)

// CascadeDeleter removes every comment, like and notification referencing a
// deleted post. All matched dependents go into one batch, committed once, so
// from the outside the cleanup either happened entirely or not at all.
// Dependents created between the queries and the commit are orphaned; that
// race window is accepted, not patched.
type CascadeDeleter struct {
	store store.Store
}

func NewCascadeDeleter(s store.Store) *CascadeDeleter {
	return &CascadeDeleter{store: s}
}

func (c *CascadeDeleter) Register(d *Dispatcher) {
	d.Subscribe(entity.Posts, OpDelete, c.onPostDelete)
}

func (c *CascadeDeleter) onPostDelete(ctx context.Context, ev Event) error {
	batch := c.store.NewBatch()

	for _, collection := range []string{entity.Comments, entity.Likes, entity.Notifications} {
		var matches []struct {
			ID string `bson:"_id"`
		}
		q := store.Query{Filter: map[string]any{"postId": ev.ID}}
		if err := c.store.Query(ctx, collection, q, &matches); err != nil {
			return err
		}
		for _, match := range matches {
			batch.Delete(collection, match.ID)
		}
	}

	if batch.Len() == 0 {
		return nil
	}
	return batch.Commit(ctx)
}
