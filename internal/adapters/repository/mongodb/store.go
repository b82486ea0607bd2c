package mongodb

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/remotevoters/api/internal/core/domain"
	"github.com/remotevoters/api/internal/core/ports"
)

const (
	CompaniesCollection = "companies"
	CampaignsCollection = "campaigns"
	VotesCollection     = "votes"

	// DefaultTimeout bounds every store call so a dead deployment surfaces
	// as domain.ErrStoreUnavailable instead of a hang.
	DefaultTimeout = 5 * time.Second
)

// Store is the MongoDB-backed ports.Store for one collection.
type Store[T any] struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewStore[T any](db *mongo.Database, collection string, timeout time.Duration) *Store[T] {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Store[T]{
		coll:    db.Collection(collection),
		timeout: timeout,
	}
}

func (s *Store[T]) Create(ctx context.Context, entity T) (T, error) {
	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.coll.InsertOne(opCtx, entity); err != nil {
		var zero T
		return zero, mapErr(err)
	}
	return entity, nil
}

func (s *Store[T]) Update(ctx context.Context, id primitive.ObjectID, entity T) (T, error) {
	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var zero T
	result, err := s.coll.ReplaceOne(opCtx, bson.M{"_id": id}, entity)
	if err != nil {
		return zero, mapErr(err)
	}
	if result.MatchedCount == 0 {
		return zero, domain.ErrNotFound
	}
	return entity, nil
}

func (s *Store[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.coll.DeleteOne(opCtx, bson.M{"_id": id})
	if err != nil {
		return mapErr(err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store[T]) DeleteMany(ctx context.Context, filter ports.Filter) (int64, error) {
	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.coll.DeleteMany(opCtx, toBSON(filter))
	if err != nil {
		return 0, mapErr(err)
	}
	return result.DeletedCount, nil
}

func (s *Store[T]) FindOne(ctx context.Context, filter ports.Filter) (T, error) {
	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var entity T
	if err := s.coll.FindOne(opCtx, toBSON(filter)).Decode(&entity); err != nil {
		var zero T
		return zero, mapErr(err)
	}
	return entity, nil
}

func (s *Store[T]) FindMany(ctx context.Context, filter ports.Filter) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		opCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		var zero T
		cursor, err := s.coll.Find(opCtx, toBSON(filter))
		if err != nil {
			yield(zero, mapErr(err))
			return
		}
		defer cursor.Close(opCtx)

		for cursor.Next(opCtx) {
			var entity T
			if err := cursor.Decode(&entity); err != nil {
				yield(zero, fmt.Errorf("failed to decode document: %w", err))
				return
			}
			if !yield(entity, nil) {
				return
			}
		}
		if err := cursor.Err(); err != nil {
			yield(zero, mapErr(err))
		}
	}
}

func toBSON(filter ports.Filter) bson.M {
	doc := bson.M{}
	for field, value := range filter {
		doc[field] = value
	}
	return doc
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", domain.ErrDuplicateKey, err)
	case errors.Is(err, context.DeadlineExceeded), mongo.IsTimeout(err), mongo.IsNetworkError(err):
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return err
}
