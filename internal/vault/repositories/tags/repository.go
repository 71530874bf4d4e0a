// Package tags persists snippet tags. Tag names are unique.
package tags

import (
	"context"

	"github.com/sabry-awad97/snippet-vault/internal/vault/models"
	"github.com/sabry-awad97/snippet-vault/internal/vault/query"
)

const (
	FieldID        query.Field = "id"
	FieldName      query.Field = "name"
	FieldColor     query.Field = "color"
	FieldCreatedAt query.Field = "createdAt"
	FieldUpdatedAt query.Field = "updatedAt"
)

var Schema = &query.Schema{
	Table: "tags",
	Columns: map[query.Field]string{
		FieldID:        "id",
		FieldName:      "name",
		FieldColor:     "color",
		FieldCreatedAt: "created_at",
		FieldUpdatedAt: "updated_at",
	},
}

// Repository returns tags with SnippetIDs filled in. FindUnique returns
// (nil, nil) when the tag is absent.
type Repository interface {
	Create(ctx context.Context, tag *models.Tag) (*models.Tag, error)
	FindUnique(ctx context.Context, id string) (*models.Tag, error)
	FindMany(ctx context.Context, where []query.Clause, opts ...query.Option) ([]models.Tag, error)
	Update(ctx context.Context, id string, sets []query.Set) (*models.Tag, error)
	Delete(ctx context.Context, id string) (*models.Tag, error)
}
