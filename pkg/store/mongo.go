package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store on top of a MongoDB database. Batches are
// committed inside a single session transaction, so they require a replica
// set (or a sharded cluster) on the server side.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore connects to MongoDB and pings it once.
func NewMongoStore(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return &MongoStore{client: client, db: client.Database(dbName)}, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) Get(ctx context.Context, collection, id string, out any) error {
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func (s *MongoStore) Query(ctx context.Context, collection string, q Query, out any) error {
	filter := bson.M{}
	for field, value := range q.Filter {
		filter[field] = value
	}

	opts := options.Find()
	if q.OrderBy != "" {
		dir := 1
		if q.Desc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.OrderBy, Value: dir}})
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}

	cursor, err := s.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

func (s *MongoStore) Set(ctx context.Context, collection, id string, doc any) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, doc, opts)
	return err
}

func (s *MongoStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	res, err := s.db.Collection(collection).UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Increment(ctx context.Context, collection, id, field string, delta int) error {
	res, err := s.db.Collection(collection).UpdateByID(ctx, id, bson.M{"$inc": bson.M{field: delta}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (s *MongoStore) NewBatch() Batch {
	return &mongoBatch{store: s}
}

type batchOp struct {
	collection string
	id         string
	fields     map[string]any // nil means delete
}

type mongoBatch struct {
	store *MongoStore
	ops   []batchOp
}

func (b *mongoBatch) Update(collection, id string, fields map[string]any) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id, fields: fields})
}

func (b *mongoBatch) Delete(collection, id string) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id})
}

func (b *mongoBatch) Len() int {
	return len(b.ops)
}

// Commit applies every accumulated operation inside one transaction.
func (b *mongoBatch) Commit(ctx context.Context) error {
	if len(b.ops) == 0 {
		return nil
	}

	session, err := b.store.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		for _, op := range b.ops {
			coll := b.store.db.Collection(op.collection)
			if op.fields == nil {
				if _, err := coll.DeleteOne(sessCtx, bson.M{"_id": op.id}); err != nil {
					return nil, err
				}
				continue
			}
			res, err := coll.UpdateByID(sessCtx, op.id, bson.M{"$set": op.fields})
			if err != nil {
				return nil, err
			}
			if res.MatchedCount == 0 {
				return nil, ErrNotFound
			}
		}
		return nil, nil
	})
	return err
}
