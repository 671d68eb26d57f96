// Package devapi is a development stand-in for the shop REST API. It serves
// the same envelope and paths the console talks to, backed by GORM.
package devapi

import (
	"context"
	"errors"
	"slices"
	"strings"

	"gorm.io/gorm"

	"github.com/Thutra02/mypham-fe/internal/domain"
	"github.com/Thutra02/mypham-fe/internal/pkg"
)

// record is the pointer form of a stored entity.
type record[T any] interface {
	*T
	domain.Entity
	SetID(id uint)
}

// Columns describes which columns a collection sorts, searches and filters on.
// Filters maps query parameter names to column names.
type Columns struct {
	Sort    []string
	Search  []string
	Filters map[string]string
}

// Repository is the GORM persistence of one collection.
type Repository[T any, P record[T]] struct {
	db   *gorm.DB
	cols Columns
}

// NewRepository creates a Repository for T.
func NewRepository[T any, P record[T]](db *gorm.DB, cols Columns) *Repository[T, P] {
	if !slices.Contains(cols.Sort, "id") {
		cols.Sort = append(cols.Sort, "id")
	}
	return &Repository[T, P]{db: db, cols: cols}
}

// List returns one page of records matching the search term and filters.
func (r *Repository[T, P]) List(ctx context.Context, req domain.PageRequest) (*domain.Page[T], error) {
	var total int64
	base := r.db.WithContext(ctx).Model(P(new(T))).
		Scopes(pkg.Search(req, r.cols.Search...), pkg.Filter(req, r.cols.Filters))

	if err := base.Count(&total).Error; err != nil {
		return nil, mapError(err)
	}

	var items []T
	if err := base.Scopes(
		pkg.Paginate(req),
		pkg.Sort(req, r.cols.Sort),
	).Find(&items).Error; err != nil {
		return nil, mapError(err)
	}

	return &domain.Page[T]{Items: items, Pagination: pkg.NewPagination(total, req)}, nil
}

// Get retrieves a record by its primary key.
func (r *Repository[T, P]) Get(ctx context.Context, id uint) (*T, error) {
	var v T
	if err := r.db.WithContext(ctx).First(P(&v), id).Error; err != nil {
		return nil, mapError(err)
	}
	return &v, nil
}

// Create inserts v. Any id sent by the client is ignored.
func (r *Repository[T, P]) Create(ctx context.Context, v *T) error {
	P(v).SetID(0)
	if err := r.db.WithContext(ctx).Create(P(v)).Error; err != nil {
		return mapError(err)
	}
	return nil
}

// Update replaces every column of record id except its creation time.
func (r *Repository[T, P]) Update(ctx context.Context, id uint, v *T) (*T, error) {
	if _, err := r.Get(ctx, id); err != nil {
		return nil, err
	}
	P(v).SetID(id)
	if err := r.db.WithContext(ctx).Model(P(v)).Select("*").Omit("id", "created_date").Updates(P(v)).Error; err != nil {
		return nil, mapError(err)
	}
	return r.Get(ctx, id)
}

// Delete removes a record by id.
func (r *Repository[T, P]) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(P(new(T)), id)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// mapError converts GORM errors to domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateKeyError(err) {
		return domain.NewAppError(domain.CodeAlreadyExists, "already exists", err)
	}
	return domain.NewAppError(domain.CodeInternal, "database error", err)
}

// isDuplicateKeyError detects unique constraint violations by examining the
// error message. Not every dialector translates them to gorm.ErrDuplicatedKey
// (the pure-Go SQLite driver does not).
func isDuplicateKeyError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}
