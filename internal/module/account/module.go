// Package account serves the read-only list of shop user accounts.
package account

import (
	"github.com/Thutra02/mypham-fe/internal/apiclient"
	"github.com/Thutra02/mypham-fe/internal/domain"
	"github.com/Thutra02/mypham-fe/internal/module/crud"
)

// NewModule creates the user list screen backed by /users. Accounts are
// created by the shop itself, so there is no form.
func NewModule(deps crud.Deps) *crud.Handler[domain.User] {
	return crud.New(crud.Options[domain.User]{
		Name:     "user",
		Singular: "User",
		Title:    "Users",
		Path:     "/admin/users",
		Source:   apiclient.NewResource[domain.User](deps.Client, "users"),
		List:     deps.ListSettings("user"),
		Logger:   deps.Logger,
	})
}
