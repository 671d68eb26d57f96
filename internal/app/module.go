package app

import (
	"github.com/gin-gonic/gin"

	"github.com/Thutra02/mypham-fe/internal/module/account"
	"github.com/Thutra02/mypham-fe/internal/module/blog"
	"github.com/Thutra02/mypham-fe/internal/module/blogcategory"
	"github.com/Thutra02/mypham-fe/internal/module/brand"
	"github.com/Thutra02/mypham-fe/internal/module/category"
	"github.com/Thutra02/mypham-fe/internal/module/contact"
	"github.com/Thutra02/mypham-fe/internal/module/crud"
	"github.com/Thutra02/mypham-fe/internal/module/discount"
	"github.com/Thutra02/mypham-fe/internal/module/order"
	"github.com/Thutra02/mypham-fe/internal/module/product"
	"github.com/Thutra02/mypham-fe/internal/module/report"
	"github.com/Thutra02/mypham-fe/internal/module/tag"
)

// Module defines the contract for a self-registering console screen.
// Modules mount absolute /admin paths on the page group.
type Module interface {
	RegisterRoutes(r gin.IRoutes)
}

// consoleModules builds every console screen in sidebar order.
func consoleModules(deps crud.Deps) []Module {
	return []Module{
		report.NewModule(deps.Client, deps.Logger),
		brand.NewModule(deps),
		category.NewModule(deps),
		product.NewModule(deps),
		discount.NewModule(deps),
		order.NewModule(deps),
		blog.NewModule(deps),
		blogcategory.NewModule(deps),
		tag.NewModule(deps),
		account.NewModule(deps),
		contact.NewModule(deps),
	}
}
