// Package screen holds the per-session models behind the list and form
// pages: what is typed, which page is shown, which row awaits deletion.
package screen

import (
	"context"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/Thutra02/mypham-fe/internal/debounce"
	"github.com/Thutra02/mypham-fe/internal/domain"
	"github.com/Thutra02/mypham-fe/internal/store"
)

const (
	defaultPageSize     = 10
	defaultDebounce     = 400 * time.Millisecond
	defaultFetchTimeout = 10 * time.Second
)

// ListConfig configures a ListScreen.
type ListConfig struct {
	PageSize     int
	Debounce     time.Duration
	FetchTimeout time.Duration
	Filters      map[string]string
	Logger       *slog.Logger
}

// ListScreen is the search/paginate/delete model of one list page.
type ListScreen[T domain.Entity] struct {
	store        *store.Store[T]
	debouncer    *debounce.Debouncer
	fetchTimeout time.Duration
	logger       *slog.Logger

	mu       sync.Mutex
	search   string
	pageSize int
	filters  map[string]string
	dialog   DeleteDialog
}

// NewList creates a ListScreen reading from and dispatching to s.
func NewList[T domain.Entity](s *store.Store[T], cfg ListConfig) *ListScreen[T] {
	if cfg.PageSize < 1 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &ListScreen[T]{
		store:        s,
		debouncer:    debounce.New(cfg.Debounce),
		fetchTimeout: cfg.FetchTimeout,
		logger:       cfg.Logger,
		pageSize:     cfg.PageSize,
		filters:      maps.Clone(cfg.Filters),
	}
}

// Store returns the state container behind the screen.
func (l *ListScreen[T]) Store() *store.Store[T] { return l.store }

// SearchText returns the text currently typed in the search box.
func (l *ListScreen[T]) SearchText() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.search
}

// PageSize returns the selected page size.
func (l *ListScreen[T]) PageSize() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pageSize
}

// Filter returns the value of an entity filter.
func (l *ListScreen[T]) Filter(key string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filters[key]
}

// Dialog returns the delete dialog state and its target id.
func (l *ListScreen[T]) Dialog() (DialogState, uint) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dialog.State(), l.dialog.Target()
}

func (l *ListScreen[T]) queryLocked(page int) domain.Query {
	return domain.Query{
		Page:    page,
		Search:  l.search,
		Size:    l.pageSize,
		Filters: maps.Clone(l.filters),
	}
}

// Query returns the query for page built from the current local state.
func (l *ListScreen[T]) Query(page int) domain.Query {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.queryLocked(page)
}

// Mount loads the first page for the current search and page size.
func (l *ListScreen[T]) Mount(ctx context.Context) error {
	return l.store.FetchList(ctx, l.Query(1))
}

// SetPageSize changes the page size and reloads from page 1.
func (l *ListScreen[T]) SetPageSize(ctx context.Context, size int) error {
	if size < 1 {
		size = defaultPageSize
	}
	l.mu.Lock()
	l.pageSize = size
	q := l.queryLocked(1)
	l.mu.Unlock()
	return l.store.FetchList(ctx, q)
}

// SetFilter changes an entity filter and reloads from page 1. An empty value
// removes the filter.
func (l *ListScreen[T]) SetFilter(ctx context.Context, key, value string) error {
	l.mu.Lock()
	if value == "" {
		delete(l.filters, key)
	} else {
		if l.filters == nil {
			l.filters = map[string]string{}
		}
		l.filters[key] = value
	}
	q := l.queryLocked(1)
	l.mu.Unlock()
	return l.store.FetchList(ctx, q)
}

// Search records text immediately and schedules a fetch of page 1 once the
// quiet period elapses without another call. The fetch runs detached from
// ctx's cancellation so a superseding request does not abort it.
func (l *ListScreen[T]) Search(ctx context.Context, text string) *debounce.Call {
	l.mu.Lock()
	l.search = text
	q := l.queryLocked(1)
	l.mu.Unlock()

	detached := context.WithoutCancel(ctx)
	return l.debouncer.Do(func() error {
		fetchCtx, cancel := context.WithTimeout(detached, l.fetchTimeout)
		defer cancel()
		l.logger.DebugContext(fetchCtx, "debounced search fired",
			slog.String("entity", l.store.Name()),
			slog.String("search", q.Search),
		)
		return l.store.FetchList(fetchCtx, q)
	})
}

// GoToPage loads page n keeping the search text and page size.
func (l *ListScreen[T]) GoToPage(ctx context.Context, n int) error {
	if n < 1 {
		n = 1
	}
	return l.store.FetchList(ctx, l.Query(n))
}

// Refresh reloads the page currently shown.
func (l *ListScreen[T]) Refresh(ctx context.Context) error {
	page := l.store.Snapshot().Pagination.CurrentPage
	if page < 1 {
		page = 1
	}
	return l.store.FetchList(ctx, l.Query(page))
}

// RequestDelete opens the confirmation dialog for id.
func (l *ListScreen[T]) RequestDelete(id uint) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dialog.Open(id)
}

// CancelDelete closes the confirmation dialog without side effects.
func (l *ListScreen[T]) CancelDelete() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dialog.Cancel()
}

// ConfirmDelete deletes the dialog target, closes the dialog and, on success,
// refetches the current query. The page is clamped to the last page that
// still exists after the removal. The returned error is the delete outcome;
// a failed refetch is recorded in the store like any other fetch failure.
func (l *ListScreen[T]) ConfirmDelete(ctx context.Context) (uint, error) {
	l.mu.Lock()
	id, err := l.dialog.Submit()
	l.mu.Unlock()
	if err != nil {
		return 0, err
	}

	delErr := l.store.Delete(ctx, id)

	l.mu.Lock()
	_ = l.dialog.Finish()
	l.mu.Unlock()

	if delErr != nil {
		return id, delErr
	}

	snap := l.store.Snapshot()
	page := 1
	if snap.Loaded {
		page = min(max(snap.Pagination.CurrentPage, 1), snap.Pagination.LastPageAfterRemoval(1))
	}
	if err := l.store.FetchList(ctx, l.Query(page)); err != nil {
		l.logger.WarnContext(ctx, "refetch after delete failed",
			slog.String("entity", l.store.Name()),
			slog.Uint64("id", uint64(id)),
			slog.String("error", err.Error()),
		)
	}
	return id, nil
}

// Close cancels any pending debounced search and closes the dialog. The
// screen must not be used afterwards.
func (l *ListScreen[T]) Close() {
	l.debouncer.Close()
	l.mu.Lock()
	l.dialog.reset()
	l.mu.Unlock()
}
