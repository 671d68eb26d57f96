// Package blog serves the blog post screens.
package blog

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Thutra02/mypham-fe/internal/apiclient"
	"github.com/Thutra02/mypham-fe/internal/domain"
	"github.com/Thutra02/mypham-fe/internal/module/crud"
	"github.com/Thutra02/mypham-fe/internal/screen"
	"github.com/Thutra02/mypham-fe/internal/store"
)

// NewModule creates the blog screens backed by /blogs. Writes are sent as
// BlogRequest payloads.
func NewModule(deps crud.Deps) *crud.Handler[domain.Blog] {
	src := apiclient.NewResource[domain.Blog](deps.Client, "blogs",
		apiclient.WithEncoder(func(b *domain.Blog) any { return b.Request() }),
	)
	return crud.New(crud.Options[domain.Blog]{
		Name:     "blog",
		Singular: "Blog post",
		Title:    "Blog posts",
		Path:     "/admin/blog",
		Source:   src,
		NewDraft: func() screen.Draft[domain.Blog] { return &Draft{Status: domain.BlogDraft} },
		Uploader: deps.Client,
		FormData: formOptions(
			apiclient.NewResource[domain.BlogCategory](deps.Client, "blog-categories"),
			apiclient.NewResource[domain.Tag](deps.Client, "tags"),
			apiclient.NewResource[domain.User](deps.Client, "users"),
		),
		List:   deps.ListSettings("blog"),
		Logger: deps.Logger,
	})
}

// formOptions loads the category, tag and author selects of the blog form.
func formOptions(categories store.Source[domain.BlogCategory], tags store.Source[domain.Tag], users store.Source[domain.User]) func(context.Context) (gin.H, error) {
	return func(ctx context.Context) (gin.H, error) {
		data := gin.H{"Statuses": domain.BlogStatuses}

		cats, err := crud.LoadChoices(ctx, categories, func(c domain.BlogCategory) string { return c.Name })
		if err != nil {
			return data, err
		}
		data["Categories"] = cats

		tagChoices, err := crud.LoadChoices(ctx, tags, func(t domain.Tag) string { return t.Name })
		if err != nil {
			return data, err
		}
		names := make([]string, 0, len(tagChoices))
		for _, t := range tagChoices {
			names = append(names, t.Label)
		}
		data["TagNames"] = names

		authors, err := crud.LoadChoices(ctx, users, func(u domain.User) string { return u.Username })
		if err != nil {
			return data, err
		}
		data["Authors"] = authors
		return data, nil
	}
}
