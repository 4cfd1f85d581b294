package consistency

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/chirp/internal/entity"
	"anoa.com/chirp/pkg/store"
)

// defaultMaxBatchOps is the store-imposed per-batch write limit. A user with
// more denormalized copies than this gets the rewrite split into multiple
// batches.
const defaultMaxBatchOps = 500

// ProfilePropagator rewrites the denormalized profile-image URL on every
// post, comment and notification belonging to a user when that user's image
// changes. Each of the three rewrites is all-or-nothing per batch, but the
// three are not mutually atomic: a crash in between leaves a partially
// propagated state that is not repaired automatically.
type ProfilePropagator struct {
	store       store.Store
	maxBatchOps int
}

func NewProfilePropagator(s store.Store) *ProfilePropagator {
	return &ProfilePropagator{store: s, maxBatchOps: defaultMaxBatchOps}
}

func (p *ProfilePropagator) Register(d *Dispatcher) {
	d.Subscribe(entity.Users, OpUpdate, p.onUserUpdate)
}

func (p *ProfilePropagator) onUserUpdate(ctx context.Context, ev Event) error {
	before, okBefore := ev.Before.(*entity.User)
	after, okAfter := ev.After.(*entity.User)
	if !okBefore || !okAfter {
		return nil
	}
	if before.ImgURL == after.ImgURL {
		return nil
	}

	rewrites := []struct {
		collection  string
		filterField string
		imageField  string
	}{
		{entity.Posts, "userHandle", "userImage"},
		{entity.Comments, "userHandle", "userImage"},
		{entity.Notifications, "sender", "senderImg"},
	}

	var errs []error
	for _, rw := range rewrites {
		if err := p.rewrite(ctx, rw.collection, rw.filterField, after.Handle, rw.imageField, after.ImgURL); err != nil {
			errs = append(errs, fmt.Errorf("%s rewrite: %w", rw.collection, err))
		}
	}
	return errors.Join(errs...)
}

// rewrite updates imageField on every document in collection whose
// filterField equals handle, chunked so no batch exceeds maxBatchOps.
func (p *ProfilePropagator) rewrite(ctx context.Context, collection, filterField, handle, imageField, imgURL string) error {
	var matches []struct {
		ID string `bson:"_id"`
	}
	q := store.Query{Filter: map[string]any{filterField: handle}}
	if err := p.store.Query(ctx, collection, q, &matches); err != nil {
		return err
	}

	for start := 0; start < len(matches); start += p.maxBatchOps {
		end := min(start+p.maxBatchOps, len(matches))

		batch := p.store.NewBatch()
		for _, match := range matches[start:end] {
			batch.Update(collection, match.ID, map[string]any{imageField: imgURL})
		}
		if err := batch.Commit(ctx); err != nil {
			return err
		}
	}
	return nil
}
