// Package crud provides the list and form page handlers shared by every
// entity screen of the console.
package crud

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Thutra02/mypham-fe/internal/domain"
	"github.com/Thutra02/mypham-fe/internal/screen"
	"github.com/Thutra02/mypham-fe/internal/store"
)

// Options describes the screens of one entity.
type Options[T domain.Entity] struct {
	// Name keys the entity's state in the session workspace and names it in
	// logs, e.g. "brand".
	Name string
	// Singular is the human label used in notifications, e.g. "Brand".
	Singular string
	// Title heads the list page, e.g. "Brands".
	Title string
	// Path is the absolute URL of the list page, e.g. "/admin/brand".
	Path string
	// Template is the template directory holding list.html and form.html.
	Template string
	// Section marks the active sidebar entry. Defaults to Name.
	Section string

	Source store.Source[T]

	// NewDraft creates an empty form draft. Nil makes the screen read-only:
	// no add, edit or validate routes are registered.
	NewDraft func() screen.Draft[T]
	// Uploader stores images selected in the form. Nil for entities without images.
	Uploader screen.Uploader

	// Filters lists the query filters the list page may set, e.g. "isActive".
	Filters []string
	// ListData adds entity-specific values to list renders.
	ListData func(c *gin.Context) gin.H
	// FormData adds entity-specific values to form renders, e.g. select options.
	FormData func(ctx context.Context) (gin.H, error)

	List   ListSettings
	Logger *slog.Logger
}

// ListSettings configures the list screen model created per session.
type ListSettings struct {
	PageSize     int
	PageSizes    []int
	Debounce     time.Duration
	FetchTimeout time.Duration
	Filters      map[string]string
}

var defaultPageSizes = []int{5, 10, 20, 50}

func (o *Options[T]) normalize() {
	if o.Section == "" {
		o.Section = o.Name
	}
	if o.Singular == "" {
		o.Singular = o.Name
	}
	if o.Title == "" {
		o.Title = o.Singular
	}
	if o.Template == "" {
		o.Template = o.Name
	}
	o.Path = "/" + strings.Trim(o.Path, "/")
	if len(o.List.PageSizes) == 0 {
		o.List.PageSizes = defaultPageSizes
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

func (o *Options[T]) listTemplate() string  { return o.Template + "/list.html" }
func (o *Options[T]) tableTemplate() string { return o.Template + "/list.html#table" }
func (o *Options[T]) formTemplate() string  { return o.Template + "/form.html" }
func (o *Options[T]) formFragment() string  { return o.Template + "/form.html#form" }
