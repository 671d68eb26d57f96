// Package tag serves the blog tag screens.
package tag

import (
	"strings"
	"time"

	"github.com/Thutra02/mypham-fe/internal/apiclient"
	"github.com/Thutra02/mypham-fe/internal/domain"
	"github.com/Thutra02/mypham-fe/internal/form"
	"github.com/Thutra02/mypham-fe/internal/module/crud"
	"github.com/Thutra02/mypham-fe/internal/screen"
)

// Draft is the tag form.
type Draft struct {
	Name string `form:"name" label:"Name" validate:"required,max=100"`
}

// Hydrate fills the draft from a fetched tag.
func (d *Draft) Hydrate(t domain.Tag) { d.Name = t.Name }

// Payload builds the tag to send.
func (d *Draft) Payload(orig *domain.Tag, now time.Time) domain.Tag {
	var t domain.Tag
	if orig != nil {
		t = *orig
	} else {
		t.CreatedDate = now
	}
	t.Name = strings.TrimSpace(d.Name)
	t.UpdatedDate = now
	return t
}

// Validate trims the name before checking the form.
func (d *Draft) Validate() form.FieldErrors {
	d.Name = strings.TrimSpace(d.Name)
	return form.Validate(d)
}

// NewModule creates the tag screens backed by /tags.
func NewModule(deps crud.Deps) *crud.Handler[domain.Tag] {
	return crud.New(crud.Options[domain.Tag]{
		Name:     "tag",
		Singular: "Tag",
		Title:    "Tags",
		Path:     "/admin/tags",
		Section:  "blog",
		Source:   apiclient.NewResource[domain.Tag](deps.Client, "tags"),
		NewDraft: func() screen.Draft[domain.Tag] { return &Draft{} },
		List:     deps.ListSettings("tag"),
		Logger:   deps.Logger,
	})
}
