// Package snippetstates persists the display flags attached to each snippet.
package snippetstates

import (
	"context"

	"github.com/sabry-awad97/snippet-vault/internal/vault/models"
	"github.com/sabry-awad97/snippet-vault/internal/vault/query"
)

const (
	FieldID         query.Field = "id"
	FieldIsDark     query.Field = "isDark"
	FieldIsFavorite query.Field = "isFavorite"
)

var Schema = &query.Schema{
	Table: "snippet_states",
	Columns: map[query.Field]string{
		FieldID:         "id",
		FieldIsDark:     "is_dark",
		FieldIsFavorite: "is_favorite",
	},
}

type Repository interface {
	Create(ctx context.Context, state *models.SnippetState) (*models.SnippetState, error)
	FindUnique(ctx context.Context, id string) (*models.SnippetState, error)
	Update(ctx context.Context, id string, sets []query.Set) (*models.SnippetState, error)
	Delete(ctx context.Context, id string) error
}
