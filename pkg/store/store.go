package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get, Update and Increment when the addressed
// document does not exist. Engines treat it as a benign outcome, never as a
// failure: the referenced document may have been deleted by a concurrently
// delivered event.
var ErrNotFound = errors.New("document not found")

// Query describes a collection scan with equality filters. Every filter
// entry must match. OrderBy/Limit are optional.
type Query struct {
	Filter  map[string]any
	OrderBy string
	Desc    bool
	Limit   int64
}

// Store is the document store adapter. Collections are schema-less; there is
// no foreign-key enforcement and no cross-call transaction other than Batch.
type Store interface {
	// Get decodes the document with the given id into out.
	Get(ctx context.Context, collection, id string, out any) error
	// Query decodes all matching documents into out (a pointer to a slice).
	Query(ctx context.Context, collection string, q Query, out any) error
	// Set writes the full document under id, creating or replacing it.
	Set(ctx context.Context, collection, id string, doc any) error
	// Update applies a partial field update. Fails with ErrNotFound if absent.
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	// Increment atomically adjusts a numeric field by delta.
	Increment(ctx context.Context, collection, id, field string, delta int) error
	// Delete removes the document. Deleting an absent document is not an error.
	Delete(ctx context.Context, collection, id string) error
	// NewBatch returns an accumulator of update/delete operations that
	// commit atomically.
	NewBatch() Batch
}

// Batch accumulates write operations that are applied all-or-nothing on
// Commit. An Update against an absent document aborts the whole batch.
type Batch interface {
	Update(collection, id string, fields map[string]any)
	Delete(collection, id string)
	Len() int
	Commit(ctx context.Context) error
}
