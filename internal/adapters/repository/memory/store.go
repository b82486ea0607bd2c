// Package memory is an in-process ports.Store used by unit tests. It keeps
// the same contract as the MongoDB adapter, including unique indexes, so
// the duplicate-vote race behaves identically against either backend.
package memory

import (
	"context"
	"fmt"
	"iter"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/remotevoters/api/internal/core/domain"
	"github.com/remotevoters/api/internal/core/ports"
)

// Index declares a unique index over stored field names, optionally scoped
// to documents matching Where (a partial index).
type Index struct {
	Fields []string
	Where  ports.Filter
}

func Unique(fields ...string) Index {
	return Index{Fields: fields}
}

func (ix Index) Partial(where ports.Filter) Index {
	ix.Where = where
	return ix
}

type entry struct {
	id  primitive.ObjectID
	raw []byte
	doc bson.M
}

type Store[T any] struct {
	mu      sync.RWMutex
	entries []entry
	indexes []Index

	failN   int
	failErr error
}

func NewStore[T any](indexes ...Index) *Store[T] {
	return &Store[T]{indexes: indexes}
}

// FailNext makes the next n operations return err. Used to simulate a store
// outage.
func (s *Store[T]) FailNext(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failN = n
	s.failErr = err
}

func (s *Store[T]) takeFailure() error {
	if s.failN > 0 {
		s.failN--
		return s.failErr
	}
	return nil
}

func (s *Store[T]) Create(_ context.Context, entity T) (T, error) {
	var zero T

	raw, doc, err := encode(entity)
	if err != nil {
		return zero, err
	}
	id, ok := doc["_id"].(primitive.ObjectID)
	if !ok || id.IsZero() {
		return zero, fmt.Errorf("entity has no _id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return zero, err
	}

	for _, e := range s.entries {
		if e.id == id {
			return zero, domain.ErrDuplicateKey
		}
	}
	if err := s.checkIndexes(doc, id); err != nil {
		return zero, err
	}

	s.entries = append(s.entries, entry{id: id, raw: raw, doc: doc})
	return entity, nil
}

func (s *Store[T]) Update(_ context.Context, id primitive.ObjectID, entity T) (T, error) {
	var zero T

	raw, doc, err := encode(entity)
	if err != nil {
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return zero, err
	}

	for i, e := range s.entries {
		if e.id != id {
			continue
		}
		if err := s.checkIndexes(doc, id); err != nil {
			return zero, err
		}
		s.entries[i] = entry{id: id, raw: raw, doc: doc}
		return entity, nil
	}
	return zero, domain.ErrNotFound
}

func (s *Store[T]) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return err
	}

	for i, e := range s.entries {
		if e.id == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *Store[T]) DeleteMany(_ context.Context, filter ports.Filter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return 0, err
	}

	kept := s.entries[:0]
	var deleted int64
	for _, e := range s.entries {
		if matches(e.doc, filter) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return deleted, nil
}

func (s *Store[T]) FindOne(_ context.Context, filter ports.Filter) (T, error) {
	s.mu.Lock()
	failure := s.takeFailure()
	s.mu.Unlock()

	var zero T
	if failure != nil {
		return zero, failure
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if matches(e.doc, filter) {
			var entity T
			if err := bson.Unmarshal(e.raw, &entity); err != nil {
				return zero, err
			}
			return entity, nil
		}
	}
	return zero, domain.ErrNotFound
}

func (s *Store[T]) FindMany(_ context.Context, filter ports.Filter) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		s.mu.Lock()
		failure := s.takeFailure()
		s.mu.Unlock()

		var zero T
		if failure != nil {
			yield(zero, failure)
			return
		}

		s.mu.RLock()
		matched := make([][]byte, 0)
		for _, e := range s.entries {
			if matches(e.doc, filter) {
				matched = append(matched, e.raw)
			}
		}
		s.mu.RUnlock()

		for _, raw := range matched {
			var entity T
			if err := bson.Unmarshal(raw, &entity); err != nil {
				yield(zero, err)
				return
			}
			if !yield(entity, nil) {
				return
			}
		}
	}
}

func (s *Store[T]) checkIndexes(doc bson.M, id primitive.ObjectID) error {
	for _, ix := range s.indexes {
		for _, e := range s.entries {
			if e.id == id {
				continue
			}
			if ix.conflicts(doc, e.doc) {
				return domain.ErrDuplicateKey
			}
		}
	}
	return nil
}

func (ix Index) conflicts(a, b bson.M) bool {
	if len(ix.Where) > 0 && (!matches(a, ix.Where) || !matches(b, ix.Where)) {
		return false
	}
	for _, field := range ix.Fields {
		av, aok := a[field]
		bv, bok := b[field]
		if !aok || !bok || av != bv {
			return false
		}
	}
	return true
}

func matches(doc bson.M, filter ports.Filter) bool {
	for field, want := range filter {
		got, ok := doc[field]
		if !ok || got != want {
			return false
		}
	}
	return true
}

func encode(entity any) ([]byte, bson.M, error) {
	raw, err := bson.Marshal(entity)
	if err != nil {
		return nil, nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, nil, err
	}
	return raw, doc, nil
}
