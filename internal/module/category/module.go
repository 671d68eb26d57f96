// Package category serves the product category screens.
package category

import (
	"github.com/Thutra02/mypham-fe/internal/apiclient"
	"github.com/Thutra02/mypham-fe/internal/domain"
	"github.com/Thutra02/mypham-fe/internal/module/crud"
	"github.com/Thutra02/mypham-fe/internal/screen"
)

// NewModule creates the category screens backed by /categories.
func NewModule(deps crud.Deps) *crud.Handler[domain.Category] {
	return crud.New(crud.Options[domain.Category]{
		Name:     "category",
		Singular: "Category",
		Title:    "Categories",
		Path:     "/admin/categories",
		Source:   apiclient.NewResource[domain.Category](deps.Client, "categories"),
		NewDraft: func() screen.Draft[domain.Category] { return &Draft{Active: true} },
		Uploader: deps.Client,
		List:     deps.ListSettings("category"),
		Logger:   deps.Logger,
	})
}
