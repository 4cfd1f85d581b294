package store

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-process Store used by tests and local development.
// Documents round-trip through bson so tags and type coercion behave like
// the MongoDB-backed implementation.
type MemoryStore struct {
	mu       sync.Mutex
	data     map[string]map[string]bson.M
	writeOps int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]map[string]bson.M{}}
}

// WriteOps reports how many individual write operations (set, update,
// increment, delete, batch op) have been applied. Tests use it to assert
// that no-op paths issue zero writes.
func (s *MemoryStore) WriteOps() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeOps
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string, out any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.data[collection][id]
	if !ok {
		return ErrNotFound
	}
	return decodeDoc(doc, out)
}

func (s *MemoryStore) Query(ctx context.Context, collection string, q Query, out any) error {
	s.mu.Lock()
	matched := make([]bson.M, 0)
	for _, doc := range s.data[collection] {
		if matchesFilter(doc, q.Filter) {
			matched = append(matched, doc)
		}
	}
	s.mu.Unlock()

	if q.OrderBy != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			less := lessValue(matched[i][q.OrderBy], matched[j][q.OrderBy])
			if q.Desc {
				return !less
			}
			return less
		})
	}
	if q.Limit > 0 && int64(len(matched)) > q.Limit {
		matched = matched[:q.Limit]
	}

	return decodeList(matched, out)
}

func (s *MemoryStore) Set(ctx context.Context, collection, id string, doc any) error {
	encoded, err := encodeDoc(doc)
	if err != nil {
		return err
	}
	encoded["_id"] = id

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[collection] == nil {
		s.data[collection] = map[string]bson.M{}
	}
	s.data[collection][id] = encoded
	s.writeOps++
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyUpdate(collection, id, fields)
}

func (s *MemoryStore) Increment(ctx context.Context, collection, id, field string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.data[collection][id]
	if !ok {
		return ErrNotFound
	}
	doc[field] = numericValue(doc[field]) + int64(delta)
	s.writeOps++
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data[collection], id)
	s.writeOps++
	return nil
}

func (s *MemoryStore) NewBatch() Batch {
	return &memoryBatch{store: s}
}

// applyUpdate merges fields into an existing document. Caller holds the lock.
func (s *MemoryStore) applyUpdate(collection, id string, fields map[string]any) error {
	doc, ok := s.data[collection][id]
	if !ok {
		return ErrNotFound
	}
	for field, value := range fields {
		normalized, err := normalizeValue(value)
		if err != nil {
			return err
		}
		doc[field] = normalized
	}
	s.writeOps++
	return nil
}

type memoryBatch struct {
	store *MemoryStore
	ops   []batchOp
}

func (b *memoryBatch) Update(collection, id string, fields map[string]any) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id, fields: fields})
}

func (b *memoryBatch) Delete(collection, id string) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id})
}

func (b *memoryBatch) Len() int {
	return len(b.ops)
}

// Commit validates first, then applies, so a failing update leaves every
// other operation in the batch unapplied.
func (b *memoryBatch) Commit(ctx context.Context) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	for _, op := range b.ops {
		if op.fields == nil {
			continue // deletes are idempotent
		}
		if _, ok := b.store.data[op.collection][op.id]; !ok {
			return ErrNotFound
		}
	}

	for _, op := range b.ops {
		if op.fields == nil {
			delete(b.store.data[op.collection], op.id)
			b.store.writeOps++
			continue
		}
		if err := b.store.applyUpdate(op.collection, op.id, op.fields); err != nil {
			return err
		}
	}
	return nil
}

func encodeDoc(doc any) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return m, nil
}

func decodeDoc(doc bson.M, out any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

// decodeList decodes matched documents into out, which must be a pointer to
// a slice (mirrors mongo's cursor.All).
func decodeList(docs []bson.M, out any) error {
	outValue := reflect.ValueOf(out)
	if outValue.Kind() != reflect.Pointer || outValue.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("query output must be a pointer to a slice, got %T", out)
	}

	sliceValue := outValue.Elem()
	result := reflect.MakeSlice(sliceValue.Type(), 0, len(docs))
	for _, doc := range docs {
		elem := reflect.New(sliceValue.Type().Elem())
		if err := decodeDoc(doc, elem.Interface()); err != nil {
			return err
		}
		result = reflect.Append(result, elem.Elem())
	}
	sliceValue.Set(result)
	return nil
}

func normalizeValue(value any) (any, error) {
	wrapped, err := encodeDoc(bson.M{"v": value})
	if err != nil {
		return nil, err
	}
	return wrapped["v"], nil
}

func matchesFilter(doc bson.M, filter map[string]any) bool {
	for field, want := range filter {
		normalized, err := normalizeValue(want)
		if err != nil {
			return false
		}
		if !equalValue(doc[field], normalized) {
			return false
		}
	}
	return true
}

func equalValue(a, b any) bool {
	switch a.(type) {
	case int32, int64, float64, primitive.DateTime:
		switch b.(type) {
		case int32, int64, float64, primitive.DateTime:
			return numericValue(a) == numericValue(b)
		}
	}
	return a == b
}

func lessValue(a, b any) bool {
	if as, ok := a.(string); ok {
		bs, _ := b.(string)
		return as < bs
	}
	return numericValue(a) < numericValue(b)
}

func numericValue(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	case primitive.DateTime:
		return int64(n)
	default:
		return 0
	}
}
