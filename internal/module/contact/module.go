// Package contact serves the read-only list of visitor messages.
package contact

import (
	"github.com/Thutra02/mypham-fe/internal/apiclient"
	"github.com/Thutra02/mypham-fe/internal/domain"
	"github.com/Thutra02/mypham-fe/internal/module/crud"
)

// NewModule creates the contact list screen backed by /contacts.
func NewModule(deps crud.Deps) *crud.Handler[domain.Contact] {
	return crud.New(crud.Options[domain.Contact]{
		Name:     "contact",
		Singular: "Contact",
		Title:    "Contacts",
		Path:     "/admin/contact",
		Source:   apiclient.NewResource[domain.Contact](deps.Client, "contacts"),
		List:     deps.ListSettings("contact"),
		Logger:   deps.Logger,
	})
}
