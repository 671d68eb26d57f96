package domain

import (
	"maps"
	"time"
)

// BaseModel is the common base struct for all entities mirrored from the shop API.
// It replaces gorm.Model to avoid the implicit soft delete behavior of DeletedAt.
type BaseModel struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedDate time.Time `gorm:"autoCreateTime" json:"createdDate"`
	UpdatedDate time.Time `gorm:"autoUpdateTime" json:"updatedDate"`
}

// GetID returns the entity identity.
func (m BaseModel) GetID() uint { return m.ID }

// SetID assigns the entity identity.
func (m *BaseModel) SetID(id uint) { m.ID = id }

// Entity is any server-owned record with an identity.
type Entity interface {
	GetID() uint
}

// Pagination describes one page window over a server-side collection.
type Pagination struct {
	CurrentPage   int   `json:"currentPage"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	PageSize      int   `json:"pageSize"`
}

// Normalize clamps the descriptor so that 1 <= CurrentPage <= TotalPages.
// An empty collection is reported as a single empty page.
func (p Pagination) Normalize() Pagination {
	if p.PageSize > 0 && p.TotalPages == 0 && p.TotalElements > 0 {
		p.TotalPages = int((p.TotalElements + int64(p.PageSize) - 1) / int64(p.PageSize))
	}
	if p.TotalPages < 1 {
		p.TotalPages = 1
	}
	if p.CurrentPage < 1 {
		p.CurrentPage = 1
	}
	if p.CurrentPage > p.TotalPages {
		p.CurrentPage = p.TotalPages
	}
	return p
}

// LastPageAfterRemoval returns the last valid page once n elements are removed.
func (p Pagination) LastPageAfterRemoval(n int64) int {
	total := p.TotalElements - n
	if total < 0 {
		total = 0
	}
	if p.PageSize <= 0 || total == 0 {
		return 1
	}
	return int((total + int64(p.PageSize) - 1) / int64(p.PageSize))
}

// Query identifies one view of a collection: page, search term, page size and
// entity-specific filters.
type Query struct {
	Page    int
	Search  string
	Size    int
	Filters map[string]string
}

// WithPage returns a copy of q positioned at page.
func (q Query) WithPage(page int) Query {
	q.Filters = maps.Clone(q.Filters)
	q.Page = page
	return q
}

// Page is one fetched page of entities and its descriptor.
type Page[T any] struct {
	Items      []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// PageRequest holds pagination, search, and filtering parameters for the
// development API repository.
type PageRequest struct {
	Page     int
	PageSize int
	Search   string
	Sort     string
	Filter   map[string]string
}
