// Package store holds the per-entity state container shared by the list and
// form screens of one console session.
package store

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/Thutra02/mypham-fe/internal/domain"
)

// Source is the remote collection a Store reads from and writes to.
type Source[T any] interface {
	List(ctx context.Context, q domain.Query) (*domain.Page[T], error)
	Get(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, v *T) (*T, error)
	Update(ctx context.Context, v *T) (*T, error)
	Delete(ctx context.Context, id uint) error
}

// Snapshot is a copy of the store state at one point in time.
type Snapshot[T any] struct {
	Items      []T
	Pagination domain.Pagination
	Query      domain.Query
	Loading    bool
	Loaded     bool
	Err        string
}

// Store is the single source of truth for one entity's current page.
//
// The cached list is only ever replaced wholesale by a successful list fetch.
// Mutations never patch it; callers refetch instead. Every list fetch takes a
// generation number when dispatched and its response is applied only if no
// newer fetch was dispatched in the meantime.
type Store[T domain.Entity] struct {
	name   string
	src    Source[T]
	logger *slog.Logger

	mu         sync.Mutex
	items      []T
	pagination domain.Pagination
	query      domain.Query
	current    *T
	loading    bool
	loaded     bool
	err        string
	generation uint64
}

// New creates an empty store for the named entity.
func New[T domain.Entity](name string, src Source[T], logger *slog.Logger) *Store[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store[T]{name: name, src: src, logger: logger}
}

// Name returns the entity name the store was created for.
func (s *Store[T]) Name() string { return s.name }

// FetchList loads one page. On success items, pagination and the resolved
// query replace the previous state; on failure the error is recorded and the
// previously loaded items stay visible. Stale responses are discarded.
func (s *Store[T]) FetchList(ctx context.Context, q domain.Query) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.loading = true
	s.mu.Unlock()

	page, err := s.src.List(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.logger.DebugContext(ctx, "discarding stale list response",
			slog.String("entity", s.name),
			slog.Int("page", q.Page),
			slog.String("search", q.Search),
			slog.Uint64("generation", gen),
			slog.Uint64("latest", s.generation),
		)
		return err
	}

	s.loading = false
	if err != nil {
		s.err = err.Error()
		return err
	}

	items := page.Items
	if items == nil {
		items = []T{}
	}
	s.items = items
	s.pagination = page.Pagination.Normalize()
	s.query = q
	s.loaded = true
	s.err = ""
	return nil
}

// FetchByID loads one entity for a form screen.
func (s *Store[T]) FetchByID(ctx context.Context, id uint) (T, error) {
	var zero T
	v, err := s.src.Get(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = err.Error()
		return zero, err
	}
	s.current = v
	return *v, nil
}

// Create persists a new entity and returns the server copy. The cached list
// is left untouched.
func (s *Store[T]) Create(ctx context.Context, v T) (T, error) {
	var zero T
	out, err := s.src.Create(ctx, &v)
	if err != nil {
		return zero, err
	}
	return *out, nil
}

// Update persists changes to an existing entity and returns the server copy.
// The cached list is left untouched.
func (s *Store[T]) Update(ctx context.Context, v T) (T, error) {
	var zero T
	out, err := s.src.Update(ctx, &v)
	if err != nil {
		return zero, err
	}

	s.mu.Lock()
	if s.current != nil && (*s.current).GetID() == (*out).GetID() {
		s.current = out
	}
	s.mu.Unlock()
	return *out, nil
}

// Delete removes an entity on the server. The cached list is not spliced;
// the caller refetches so the page reflects server truth.
func (s *Store[T]) Delete(ctx context.Context, id uint) error {
	if err := s.src.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	if s.current != nil && (*s.current).GetID() == id {
		s.current = nil
	}
	s.mu.Unlock()
	return nil
}

// Patch applies fn to the cached item with the given id. It reports whether
// the item was on the current page.
func (s *Store[T]) Patch(id uint, fn func(*T)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].GetID() == id {
			fn(&s.items[i])
			return true
		}
	}
	return false
}

// Find returns the cached item with the given id from the current page.
func (s *Store[T]) Find(id uint) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.GetID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Current returns the entity last loaded by FetchByID, if any.
func (s *Store[T]) Current() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		var zero T
		return zero, false
	}
	return *s.current, true
}

// Snapshot returns a copy of the current state.
func (s *Store[T]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.query
	q.Filters = maps.Clone(q.Filters)
	return Snapshot[T]{
		Items:      slices.Clone(s.items),
		Pagination: s.pagination,
		Query:      q,
		Loading:    s.loading,
		Loaded:     s.loaded,
		Err:        s.err,
	}
}
