package ports

import (
	"context"
	"iter"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Filter is a conjunction of field-equality predicates over stored field
// names. Keeping predicates as plain data lets adapters translate them to
// their native query form instead of receiving opaque closures.
type Filter map[string]any

// Store is generic single-collection access. It has no cross-collection
// awareness and no transactions; every call touches exactly one collection.
type Store[T any] interface {
	// Create inserts the entity. A violated unique index surfaces
	// domain.ErrDuplicateKey.
	Create(ctx context.Context, entity T) (T, error)
	// Update replaces the entity stored under id, returning
	// domain.ErrNotFound when the id is absent.
	Update(ctx context.Context, id primitive.ObjectID, entity T) (T, error)
	// Delete removes the entity stored under id, returning
	// domain.ErrNotFound when the id is absent.
	Delete(ctx context.Context, id primitive.ObjectID) error
	// DeleteMany removes every entity matching the filter and reports how
	// many were removed. Matching nothing is not an error.
	DeleteMany(ctx context.Context, filter Filter) (int64, error)
	// FindOne returns one entity matching the filter, or domain.ErrNotFound.
	FindOne(ctx context.Context, filter Filter) (T, error)
	// FindMany returns a lazy, finite sequence of matching entities. Each
	// call starts a fresh query; the sequence may be iterated once.
	FindMany(ctx context.Context, filter Filter) iter.Seq2[T, error]
}
