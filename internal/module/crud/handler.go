package crud

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Thutra02/mypham-fe/internal/domain"
	"github.com/Thutra02/mypham-fe/internal/pkg"
	"github.com/Thutra02/mypham-fe/internal/screen"
	"github.com/Thutra02/mypham-fe/internal/session"
	"github.com/Thutra02/mypham-fe/internal/store"
)

// Handler serves the list and form screens of one entity. Screen state lives
// in the operator's session workspace; the handler itself is stateless.
type Handler[T domain.Entity] struct {
	opts Options[T]
}

// New creates a Handler. It panics if the source is missing, since the
// screens cannot work without one.
func New[T domain.Entity](opts Options[T]) *Handler[T] {
	if opts.Source == nil {
		panic("crud.New: source must not be nil")
	}
	opts.normalize()
	return &Handler[T]{opts: opts}
}

// Path returns the URL of the list page.
func (h *Handler[T]) Path() string { return h.opts.Path }

// Name returns the entity name.
func (h *Handler[T]) Name() string { return h.opts.Name }

// ReadOnly reports whether the entity has no add/edit form.
func (h *Handler[T]) ReadOnly() bool { return h.opts.NewDraft == nil }

// RegisterRoutes mounts the entity routes on r. r must be rooted so that Path is
// reachable, typically the engine itself or a group at "/".
func (h *Handler[T]) RegisterRoutes(r gin.IRoutes) {
	p := h.opts.Path
	r.GET(p, h.ListPage)
	r.GET(p+"/search", h.Search)
	r.GET(p+"/page", h.Page)
	r.GET(p+"/size", h.Size)
	r.GET(p+"/filter", h.Filter)
	r.POST(p+"/delete/:id", h.RequestDelete)
	r.POST(p+"/delete", h.ConfirmDelete)
	r.POST(p+"/cancel-delete", h.CancelDelete)

	if h.ReadOnly() {
		return
	}
	r.GET(p+"/add", h.AddPage)
	r.POST(p+"/add", h.Create)
	r.GET(p+"/edit/:id", h.EditPage)
	r.POST(p+"/edit/:id", h.Update)
	r.POST(p+"/validate", h.Validate)
}

// Store returns the entity store of the request's workspace, or nil when the
// request carries no workspace.
func (h *Handler[T]) Store(c *gin.Context) *store.Store[T] {
	w := session.FromContext(c)
	if w == nil {
		return nil
	}
	return h.store(w)
}

func (h *Handler[T]) store(w *session.Workspace) *store.Store[T] {
	return session.Value(w, "store:"+h.opts.Name, func() *store.Store[T] {
		return store.New(h.opts.Name, h.opts.Source, h.opts.Logger)
	})
}

func (h *Handler[T]) newList(w *session.Workspace) *screen.ListScreen[T] {
	return screen.NewList(h.store(w), screen.ListConfig{
		PageSize:     h.opts.List.PageSize,
		Debounce:     h.opts.List.Debounce,
		FetchTimeout: h.opts.List.FetchTimeout,
		Filters:      h.opts.List.Filters,
		Logger:       h.opts.Logger.With(slog.String("entity", h.opts.Name)),
	})
}

// List returns the list screen of the request's workspace, creating it on
// first use, or nil when the request carries no workspace.
func (h *Handler[T]) List(c *gin.Context) *screen.ListScreen[T] {
	w := session.FromContext(c)
	if w == nil {
		return nil
	}
	return session.Value(w, "list:"+h.opts.Name, func() *screen.ListScreen[T] {
		return h.newList(w)
	})
}

// remount replaces the list screen with a fresh one, closing the previous
// screen so its pending search never fires.
func (h *Handler[T]) remount(w *session.Workspace) *screen.ListScreen[T] {
	l := h.newList(w)
	w.Replace("list:"+h.opts.Name, l)
	return l
}

// ListPage renders the full list page after loading page 1.
// GET /admin/<entity>
func (h *Handler[T]) ListPage(c *gin.Context) {
	w := session.FromContext(c)
	if w == nil {
		ErrorPage(c, http.StatusInternalServerError)
		return
	}

	l := h.remount(w)
	if err := l.Mount(c.Request.Context()); err != nil {
		h.opts.Logger.WarnContext(c.Request.Context(), "list mount failed",
			slog.String("entity", h.opts.Name),
			slog.String("error", err.Error()),
		)
	}
	c.HTML(http.StatusOK, h.opts.listTemplate(), h.listData(c, l))
}

// Search records the typed text and replies once the debounced fetch has run.
// A keystroke superseded by a newer one replies 204 so htmx swaps nothing.
// GET /admin/<entity>/search?search=...
func (h *Handler[T]) Search(c *gin.Context) {
	l := h.List(c)
	if l == nil {
		pkg.ToastOnly(c, "Your session expired, reload the page", pkg.ToastError)
		return
	}

	ctx := c.Request.Context()
	fired, err := l.Search(ctx, c.Query("search")).Wait(ctx)
	if ctx.Err() != nil {
		return
	}
	if !fired {
		c.Status(http.StatusNoContent)
		return
	}
	if err != nil {
		pkg.SetToast(c, pkg.SafeErrorMessage(err, "Failed to load "+strings.ToLower(h.opts.Title)), pkg.ToastError)
	}
	h.renderTable(c, l)
}

// Page loads another page keeping the search text and page size.
// GET /admin/<entity>/page?page=N
func (h *Handler[T]) Page(c *gin.Context) {
	l := h.List(c)
	if l == nil {
		pkg.ToastOnly(c, "Your session expired, reload the page", pkg.ToastError)
		return
	}
	n, err := strconv.Atoi(c.Query("page"))
	if err != nil || n < 1 {
		pkg.ToastOnly(c, "Invalid page number", pkg.ToastError)
		return
	}
	h.fetchAndRender(c, l, l.GoToPage(c.Request.Context(), n))
}

// Size changes the page size and reloads from page 1.
// GET /admin/<entity>/size?size=N
func (h *Handler[T]) Size(c *gin.Context) {
	l := h.List(c)
	if l == nil {
		pkg.ToastOnly(c, "Your session expired, reload the page", pkg.ToastError)
		return
	}
	n, err := strconv.Atoi(c.Query("size"))
	if err != nil || !slices.Contains(h.opts.List.PageSizes, n) {
		pkg.ToastOnly(c, "Unsupported page size", pkg.ToastError)
		return
	}
	h.fetchAndRender(c, l, l.SetPageSize(c.Request.Context(), n))
}

// Filter sets one entity filter and reloads from page 1. An empty value
// clears the filter.
// GET /admin/<entity>/filter?key=K&value=V
func (h *Handler[T]) Filter(c *gin.Context) {
	l := h.List(c)
	if l == nil {
		pkg.ToastOnly(c, "Your session expired, reload the page", pkg.ToastError)
		return
	}
	key := c.Query("key")
	if !slices.Contains(h.opts.Filters, key) {
		pkg.ToastOnly(c, "Unsupported filter", pkg.ToastError)
		return
	}
	h.fetchAndRender(c, l, l.SetFilter(c.Request.Context(), key, c.Query("value")))
}

// RequestDelete opens the confirmation dialog for a row.
// POST /admin/<entity>/delete/:id
func (h *Handler[T]) RequestDelete(c *gin.Context) {
	l := h.List(c)
	if l == nil {
		pkg.ToastOnly(c, "Your session expired, reload the page", pkg.ToastError)
		return
	}
	id, err := ParseID(c)
	if err != nil {
		pkg.ToastOnly(c, "Invalid "+strings.ToLower(h.opts.Singular)+" id", pkg.ToastError)
		return
	}
	if err := l.RequestDelete(id); err != nil {
		pkg.ToastOnly(c, "Another delete is awaiting confirmation", pkg.ToastInfo)
		return
	}
	h.renderTable(c, l)
}

// CancelDelete closes the confirmation dialog.
// POST /admin/<entity>/cancel-delete
func (h *Handler[T]) CancelDelete(c *gin.Context) {
	l := h.List(c)
	if l == nil {
		pkg.ToastOnly(c, "Your session expired, reload the page", pkg.ToastError)
		return
	}
	_ = l.CancelDelete()
	h.renderTable(c, l)
}

// ConfirmDelete deletes the dialog target and re-renders the refreshed page.
// POST /admin/<entity>/delete
func (h *Handler[T]) ConfirmDelete(c *gin.Context) {
	l := h.List(c)
	if l == nil {
		pkg.ToastOnly(c, "Your session expired, reload the page", pkg.ToastError)
		return
	}

	id, err := l.ConfirmDelete(c.Request.Context())
	switch {
	case errors.Is(err, screen.ErrInvalidTransition):
		pkg.ToastOnly(c, "Nothing is awaiting deletion", pkg.ToastInfo)
		return
	case domain.IsNotFound(err):
		pkg.SetToast(c, h.opts.Singular+" does not exist or was already deleted", pkg.ToastError)
	case err != nil:
		h.opts.Logger.WarnContext(c.Request.Context(), "delete failed",
			slog.String("entity", h.opts.Name),
			slog.Uint64("id", uint64(id)),
			slog.String("error", err.Error()),
		)
		pkg.SetToast(c, pkg.SafeErrorMessage(err, "Delete failed, try again later"), pkg.ToastError)
	default:
		pkg.SetToast(c, h.opts.Singular+" deleted", pkg.ToastSuccess)
	}
	h.renderTable(c, l)
}

func (h *Handler[T]) fetchAndRender(c *gin.Context, l *screen.ListScreen[T], err error) {
	if err != nil {
		pkg.SetToast(c, pkg.SafeErrorMessage(err, "Failed to load "+strings.ToLower(h.opts.Title)), pkg.ToastError)
	}
	h.renderTable(c, l)
}

// RenderTable re-renders the table fragment of the current list state.
func (h *Handler[T]) RenderTable(c *gin.Context) {
	l := h.List(c)
	if l == nil {
		pkg.ToastOnly(c, "Your session expired, reload the page", pkg.ToastError)
		return
	}
	h.renderTable(c, l)
}

func (h *Handler[T]) renderTable(c *gin.Context, l *screen.ListScreen[T]) {
	c.HTML(http.StatusOK, h.opts.tableTemplate(), h.listData(c, l))
}

func (h *Handler[T]) listData(c *gin.Context, l *screen.ListScreen[T]) gin.H {
	snap := l.Store().Snapshot()
	state, target := l.Dialog()

	filters := make(map[string]string, len(h.opts.Filters))
	for _, key := range h.opts.Filters {
		filters[key] = l.Filter(key)
	}

	data := gin.H{
		"Title":      h.opts.Title,
		"Singular":   h.opts.Singular,
		"Path":       h.opts.Path,
		"ReadOnly":   h.ReadOnly(),
		"Items":      snap.Items,
		"Pagination": snap.Pagination,
		"Loaded":     snap.Loaded,
		"Loading":    snap.Loading,
		"Err":        snap.Err,
		"Search":     l.SearchText(),
		"PageSize":   l.PageSize(),
		"PageSizes":  h.opts.List.PageSizes,
		"Filters":    filters,
		"Dialog": gin.H{
			"Open":       state != screen.DialogClosed,
			"Submitting": state == screen.DialogSubmitting,
			"Target":     target,
		},
	}
	if h.opts.ListData != nil {
		for k, v := range h.opts.ListData(c) {
			data[k] = v
		}
	}
	return View(c, h.opts.Section, data)
}

// formData returns the entity-specific form values, or an empty map when
// they could not be loaded.
func (h *Handler[T]) formData(ctx context.Context) (gin.H, error) {
	if h.opts.FormData == nil {
		return gin.H{}, nil
	}
	data, err := h.opts.FormData(ctx)
	if data == nil {
		data = gin.H{}
	}
	return data, err
}
