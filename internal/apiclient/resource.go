package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Thutra02/mypham-fe/internal/domain"
)

// Resource is the CRUD surface of one API collection, e.g. /brands.
// It satisfies store.Source.
type Resource[T domain.Entity] struct {
	client *Client
	path   string
	encode func(*T) any
}

// ResourceOption configures a Resource.
type ResourceOption[T domain.Entity] func(*Resource[T])

// WithEncoder sets how entities are turned into write payloads. The default
// sends the entity itself.
func WithEncoder[T domain.Entity](fn func(*T) any) ResourceOption[T] {
	return func(r *Resource[T]) { r.encode = fn }
}

// NewResource creates a Resource for the collection at path.
func NewResource[T domain.Entity](c *Client, path string, opts ...ResourceOption[T]) *Resource[T] {
	r := &Resource[T]{
		client: c,
		path:   path,
		encode: func(v *T) any { return v },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Path returns the collection path.
func (r *Resource[T]) Path() string { return r.path }

// EncodeQuery turns a list query into request parameters.
func EncodeQuery(q domain.Query) url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	v.Set("search", q.Search)
	for k, val := range q.Filters {
		v.Set(k, val)
	}
	return v
}

// List fetches one page of the collection.
func (r *Resource[T]) List(ctx context.Context, q domain.Query) (*domain.Page[T], error) {
	var items []T
	p, err := r.client.doJSON(ctx, http.MethodGet, r.path, EncodeQuery(q), nil, &items)
	if err != nil {
		return nil, err
	}
	page := &domain.Page[T]{Items: items}
	if p != nil {
		page.Pagination = *p
	} else {
		// Endpoints without a descriptor return the whole collection.
		page.Pagination = domain.Pagination{
			CurrentPage:   1,
			TotalPages:    1,
			TotalElements: int64(len(items)),
			PageSize:      max(q.Size, len(items)),
		}
	}
	return page, nil
}

// Get fetches one entity by id.
func (r *Resource[T]) Get(ctx context.Context, id uint) (*T, error) {
	var out T
	if _, err := r.client.doJSON(ctx, http.MethodGet, r.itemPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create posts a new entity and returns the persisted copy.
func (r *Resource[T]) Create(ctx context.Context, v *T) (*T, error) {
	var out T
	if _, err := r.client.doJSON(ctx, http.MethodPost, r.path, nil, r.encode(v), &out); err != nil {
		return nil, err
	}
	return persisted(&out, v), nil
}

// Update replaces an existing entity and returns the persisted copy.
func (r *Resource[T]) Update(ctx context.Context, v *T) (*T, error) {
	var out T
	if _, err := r.client.doJSON(ctx, http.MethodPut, r.itemPath((*v).GetID()), nil, r.encode(v), &out); err != nil {
		return nil, err
	}
	return persisted(&out, v), nil
}

// Delete removes an entity.
func (r *Resource[T]) Delete(ctx context.Context, id uint) error {
	_, err := r.client.doJSON(ctx, http.MethodDelete, r.itemPath(id), nil, nil, nil)
	return err
}

func (r *Resource[T]) itemPath(id uint) string {
	return r.path + "/" + strconv.FormatUint(uint64(id), 10)
}

// persisted returns the server copy, or the sent entity when the API replied
// without a body.
func persisted[T domain.Entity](out, sent *T) *T {
	if (*out).GetID() == 0 {
		return sent
	}
	return out
}
