// Package discount serves the discount code screens.
package discount

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Thutra02/mypham-fe/internal/apiclient"
	"github.com/Thutra02/mypham-fe/internal/domain"
	"github.com/Thutra02/mypham-fe/internal/module/crud"
	"github.com/Thutra02/mypham-fe/internal/screen"
)

// NewModule creates the discount screens backed by /discounts.
func NewModule(deps crud.Deps) *crud.Handler[domain.Discount] {
	return crud.New(crud.Options[domain.Discount]{
		Name:     "discount",
		Singular: "Discount",
		Title:    "Discounts",
		Path:     "/admin/discounts",
		Source:   apiclient.NewResource[domain.Discount](deps.Client, "discounts"),
		NewDraft: func() screen.Draft[domain.Discount] {
			return &Draft{DiscountType: domain.DiscountPercentage, Active: true}
		},
		FormData: func(context.Context) (gin.H, error) {
			return gin.H{"DiscountTypes": domain.DiscountTypes}, nil
		},
		List:   deps.ListSettings("discount"),
		Logger: deps.Logger,
	})
}
