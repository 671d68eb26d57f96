package crud

import (
	"context"
	"log/slog"

	"github.com/Thutra02/mypham-fe/internal/apiclient"
	"github.com/Thutra02/mypham-fe/internal/config"
	"github.com/Thutra02/mypham-fe/internal/domain"
	"github.com/Thutra02/mypham-fe/internal/store"
)

// Deps are the collaborators every entity module is built from.
type Deps struct {
	Client  *apiclient.Client
	Console config.ConsoleConfig
	Logger  *slog.Logger
}

// ListSettings returns the list screen settings for the named entity.
func (d Deps) ListSettings(entity string) ListSettings {
	return ListSettings{
		PageSize:     d.Console.PageSize,
		PageSizes:    d.Console.PageSizes,
		Debounce:     d.Console.DebounceFor(entity),
		FetchTimeout: d.Console.FetchTimeoutDuration(),
	}
}

// choiceLimit caps how many related records a select offers.
const choiceLimit = 100

// Choice is one option of a select input.
type Choice struct {
	Value uint
	Label string
}

// LoadChoices fetches the first choiceLimit records of src as select options.
func LoadChoices[T domain.Entity](ctx context.Context, src store.Source[T], label func(T) string) ([]Choice, error) {
	page, err := src.List(ctx, domain.Query{Page: 1, Size: choiceLimit})
	if err != nil {
		return nil, err
	}
	out := make([]Choice, 0, len(page.Items))
	for _, it := range page.Items {
		out = append(out, Choice{Value: it.GetID(), Label: label(it)})
	}
	return out, nil
}
