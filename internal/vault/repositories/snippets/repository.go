// Package snippets persists code snippets and their tag links.
package snippets

import (
	"context"

	"github.com/sabry-awad97/snippet-vault/internal/vault/models"
	"github.com/sabry-awad97/snippet-vault/internal/vault/query"
)

const (
	FieldID             query.Field = "id"
	FieldTitle          query.Field = "title"
	FieldDescription    query.Field = "description"
	FieldLanguage       query.Field = "language"
	FieldCode           query.Field = "code"
	FieldSnippetStateID query.Field = "snippetStateId"
	FieldCreatedAt      query.Field = "createdAt"
	FieldUpdatedAt      query.Field = "updatedAt"

	// Relations usable with query.Some.
	RelationState = "state"
	RelationTags  = "tags"

	// Fields of the related rows.
	FieldStateIsDark     query.Field = "isDark"
	FieldStateIsFavorite query.Field = "isFavorite"
	FieldTagName         query.Field = "name"
)

var Schema = &query.Schema{
	Table: "snippets",
	Columns: map[query.Field]string{
		FieldID:             "id",
		FieldTitle:          "title",
		FieldDescription:    "description",
		FieldLanguage:       "language",
		FieldCode:           "code",
		FieldSnippetStateID: "snippet_state_id",
		FieldCreatedAt:      "created_at",
		FieldUpdatedAt:      "updated_at",
	},
	Relations: map[string]query.Relation{
		RelationState: {
			Target: &query.Schema{
				Table: "snippet_states",
				Alias: "ss",
				Columns: map[query.Field]string{
					FieldStateIsDark:     "is_dark",
					FieldStateIsFavorite: "is_favorite",
				},
			},
			Exists: "EXISTS (SELECT 1 FROM snippet_states ss WHERE ss.id = snippets.snippet_state_id AND %s)",
		},
		RelationTags: {
			Target: &query.Schema{
				Table:   "tags",
				Alias:   "t",
				Columns: map[query.Field]string{FieldTagName: "name"},
			},
			Exists: "EXISTS (SELECT 1 FROM snippet_tags st JOIN tags t ON t.id = st.tag_id WHERE st.snippet_id = snippets.id AND %s)",
		},
	},
}

// Repository returns snippets with TagIDs filled in. State and Tags are left
// for the caller to load. FindUnique returns (nil, nil) when absent.
type Repository interface {
	Create(ctx context.Context, snippet *models.Snippet) (*models.Snippet, error)
	FindUnique(ctx context.Context, id string) (*models.Snippet, error)
	FindMany(ctx context.Context, where []query.Clause, opts ...query.Option) ([]models.Snippet, error)
	Update(ctx context.Context, id string, sets []query.Set) (*models.Snippet, error)
	Delete(ctx context.Context, id string) (*models.Snippet, error)
	// SetTags replaces every tag link of the snippet.
	SetTags(ctx context.Context, id string, tagIDs []string) error
}
