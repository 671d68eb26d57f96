// Package storetest provides an in-memory store.Source for tests.
package storetest

import (
	"context"
	"slices"
	"sync"

	"github.com/Thutra02/mypham-fe/internal/domain"
)

// Source is an in-memory remote collection. It records every list query it
// receives so tests can assert on dispatched queries.
type Source[T domain.Entity] struct {
	// Match reports whether an item matches a search term. Nil matches all.
	Match func(item T, search string) bool

	// Injected failures.
	ListErr   error
	GetErr    error
	CreateErr error
	UpdateErr error
	DeleteErr error

	mu      sync.Mutex
	items   []T
	nextID  uint
	queries []domain.Query
	created []T
	updated []T
	deleted []uint
}

// New returns a Source seeded with items. Items keep their ids.
func New[T domain.Entity](items ...T) *Source[T] {
	s := &Source[T]{items: slices.Clone(items)}
	for _, it := range items {
		if it.GetID() > s.nextID {
			s.nextID = it.GetID()
		}
	}
	return s
}

// List implements store.Source.
func (s *Source[T]) List(_ context.Context, q domain.Query) (*domain.Page[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, q)
	if s.ListErr != nil {
		return nil, s.ListErr
	}

	var matched []T
	for _, it := range s.items {
		if s.Match == nil || q.Search == "" || s.Match(it, q.Search) {
			matched = append(matched, it)
		}
	}

	size := q.Size
	if size < 1 {
		size = 10
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	total := len(matched)
	totalPages := (total + size - 1) / size

	start := min((page-1)*size, total)
	end := min(start+size, total)
	return &domain.Page[T]{
		Items: slices.Clone(matched[start:end]),
		Pagination: domain.Pagination{
			CurrentPage:   page,
			TotalPages:    totalPages,
			TotalElements: int64(total),
			PageSize:      size,
		},
	}, nil
}

// Get implements store.Source.
func (s *Source[T]) Get(_ context.Context, id uint) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	for _, it := range s.items {
		if it.GetID() == id {
			v := it
			return &v, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Create implements store.Source.
func (s *Source[T]) Create(_ context.Context, v *T) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return nil, s.CreateErr
	}
	s.nextID++
	out := *v
	if setter, ok := any(&out).(interface{ SetID(uint) }); ok {
		setter.SetID(s.nextID)
	}
	s.items = append(s.items, out)
	s.created = append(s.created, *v)
	return &out, nil
}

// Update implements store.Source.
func (s *Source[T]) Update(_ context.Context, v *T) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpdateErr != nil {
		return nil, s.UpdateErr
	}
	id := (*v).GetID()
	for i, it := range s.items {
		if it.GetID() == id {
			s.items[i] = *v
			s.updated = append(s.updated, *v)
			out := *v
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Delete implements store.Source. Deleting an unknown id fails with a not
// found error, like the real API does for repeated deletes.
func (s *Source[T]) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	for i, it := range s.items {
		if it.GetID() == id {
			s.items = slices.Delete(s.items, i, i+1)
			s.deleted = append(s.deleted, id)
			return nil
		}
	}
	return domain.ErrNotFound
}

// Queries returns every list query received so far.
func (s *Source[T]) Queries() []domain.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.queries)
}

// LastQuery returns the most recent list query.
func (s *Source[T]) LastQuery() (domain.Query, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queries) == 0 {
		return domain.Query{}, false
	}
	return s.queries[len(s.queries)-1], true
}

// Created returns the payloads passed to Create.
func (s *Source[T]) Created() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.created)
}

// Updated returns the payloads passed to Update.
func (s *Source[T]) Updated() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.updated)
}

// Deleted returns the ids removed by Delete.
func (s *Source[T]) Deleted() []uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.deleted)
}

// Len returns the number of stored items.
func (s *Source[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
