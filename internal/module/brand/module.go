// Package brand serves the brand list and form screens.
package brand

import (
	"github.com/Thutra02/mypham-fe/internal/apiclient"
	"github.com/Thutra02/mypham-fe/internal/domain"
	"github.com/Thutra02/mypham-fe/internal/module/crud"
	"github.com/Thutra02/mypham-fe/internal/screen"
)

// NewModule creates the brand screens backed by the API's /brands collection.
func NewModule(deps crud.Deps) *crud.Handler[domain.Brand] {
	return crud.New(crud.Options[domain.Brand]{
		Name:     "brand",
		Singular: "Brand",
		Title:    "Brands",
		Path:     "/admin/brand",
		Source:   apiclient.NewResource[domain.Brand](deps.Client, "brands"),
		NewDraft: func() screen.Draft[domain.Brand] { return &Draft{Active: true} },
		Uploader: deps.Client,
		List:     deps.ListSettings("brand"),
		Logger:   deps.Logger,
	})
}
