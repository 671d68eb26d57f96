// Package blogcategory serves the blog category screens.
package blogcategory

import (
	"strings"
	"time"

	"github.com/Thutra02/mypham-fe/internal/apiclient"
	"github.com/Thutra02/mypham-fe/internal/domain"
	"github.com/Thutra02/mypham-fe/internal/form"
	"github.com/Thutra02/mypham-fe/internal/module/crud"
	"github.com/Thutra02/mypham-fe/internal/screen"
)

// Draft is the blog category form.
type Draft struct {
	Name        string `form:"name" label:"Name" validate:"required,max=150"`
	Description string `form:"description" label:"Description" validate:"max=1000"`
	Active      bool   `form:"active"`
}

// Hydrate fills the draft from a fetched blog category.
func (d *Draft) Hydrate(c domain.BlogCategory) {
	d.Name, d.Description, d.Active = c.Name, c.Description, c.Active
}

// Payload builds the blog category to send.
func (d *Draft) Payload(orig *domain.BlogCategory, now time.Time) domain.BlogCategory {
	var c domain.BlogCategory
	if orig != nil {
		c = *orig
	} else {
		c.CreatedDate = now
	}
	c.Name = strings.TrimSpace(d.Name)
	c.Description = strings.TrimSpace(d.Description)
	c.Active = d.Active
	c.UpdatedDate = now
	return c
}

// Validate trims the name before checking the form.
func (d *Draft) Validate() form.FieldErrors {
	d.Name = strings.TrimSpace(d.Name)
	return form.Validate(d)
}

// NewModule creates the blog category screens backed by /blog-categories.
func NewModule(deps crud.Deps) *crud.Handler[domain.BlogCategory] {
	return crud.New(crud.Options[domain.BlogCategory]{
		Name:     "blogcategory",
		Singular: "Blog category",
		Title:    "Blog categories",
		Path:     "/admin/blog-categories",
		Section:  "blog",
		Source:   apiclient.NewResource[domain.BlogCategory](deps.Client, "blog-categories"),
		NewDraft: func() screen.Draft[domain.BlogCategory] { return &Draft{Active: true} },
		List:     deps.ListSettings("blogcategory"),
		Logger:   deps.Logger,
	})
}
