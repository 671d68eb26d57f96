// Package product serves the product screens.
package product

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Thutra02/mypham-fe/internal/apiclient"
	"github.com/Thutra02/mypham-fe/internal/domain"
	"github.com/Thutra02/mypham-fe/internal/module/crud"
	"github.com/Thutra02/mypham-fe/internal/screen"
	"github.com/Thutra02/mypham-fe/internal/store"
)

// FilterActive narrows the list to active ("true") or inactive ("false")
// products.
const FilterActive = "isActive"

// NewModule creates the product screens backed by /products.
func NewModule(deps crud.Deps) *crud.Handler[domain.Product] {
	categories := apiclient.NewResource[domain.Category](deps.Client, "categories")
	brands := apiclient.NewResource[domain.Brand](deps.Client, "brands")

	return crud.New(crud.Options[domain.Product]{
		Name:     "product",
		Singular: "Product",
		Title:    "Products",
		Path:     "/admin/products",
		Source:   apiclient.NewResource[domain.Product](deps.Client, "products"),
		NewDraft: func() screen.Draft[domain.Product] { return &Draft{Active: true} },
		Uploader: deps.Client,
		Filters:  []string{FilterActive},
		FormData: formOptions(categories, brands),
		List:     deps.ListSettings("product"),
		Logger:   deps.Logger,
	})
}

// formOptions loads the category and brand selects of the product form.
func formOptions(categories store.Source[domain.Category], brands store.Source[domain.Brand]) func(context.Context) (gin.H, error) {
	return func(ctx context.Context) (gin.H, error) {
		data := gin.H{}
		cats, err := crud.LoadChoices(ctx, categories, func(c domain.Category) string { return c.Name })
		if err != nil {
			return data, err
		}
		data["Categories"] = cats
		brs, err := crud.LoadChoices(ctx, brands, func(b domain.Brand) string { return b.Name })
		if err != nil {
			return data, err
		}
		data["Brands"] = brs
		return data, nil
	}
}
