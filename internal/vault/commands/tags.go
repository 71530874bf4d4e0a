package commands

import (
	"context"

	"github.com/sabry-awad97/snippet-vault/internal/dbx"
	"github.com/sabry-awad97/snippet-vault/internal/vault/ipc"
	"github.com/sabry-awad97/snippet-vault/internal/vault/models"
	"github.com/sabry-awad97/snippet-vault/internal/vault/query"
	"github.com/sabry-awad97/snippet-vault/internal/vault/repositories/snippets"
	"github.com/sabry-awad97/snippet-vault/internal/vault/repositories/tags"
	"github.com/sabry-awad97/snippet-vault/internal/vault/state"
)

type TagForm struct {
	Name  string `json:"name" validate:"required,max=50"`
	Color string `json:"color,omitempty" validate:"omitempty,hexcolor,len=7"`
}

func (d *Dispatcher) CreateTag(ctx context.Context, p ipc.PostParams[TagForm]) ipc.Response[*models.Tag] {
	return Dispatch(ctx, d, "create_tag", p, func(ctx context.Context, c *state.Client, p ipc.PostParams[TagForm]) (*models.Tag, error) {
		now := d.timestamp()
		return c.Tags(c.DB()).Create(ctx, &models.Tag{
			Name:      p.Data.Name,
			Color:     p.Data.Color,
			CreatedAt: now,
			UpdatedAt: now,
		})
	})
}

// GetTag answers the tag with its snippets, or null data when absent.
func (d *Dispatcher) GetTag(ctx context.Context, p ipc.GetParams) ipc.Response[*models.Tag] {
	return Dispatch(ctx, d, "get_tag", p, func(ctx context.Context, c *state.Client, p ipc.GetParams) (*models.Tag, error) {
		tag, err := c.Tags(c.DB()).FindUnique(ctx, p.ID)
		if err != nil || tag == nil {
			return nil, err
		}
		if len(tag.SnippetIDs) == 0 {
			return tag, nil
		}

		tag.Snippets, err = c.Snippets(c.DB()).FindMany(ctx,
			[]query.Clause{query.In(snippets.FieldID, tag.SnippetIDs)},
			query.OrderByDesc(snippets.FieldCreatedAt))
		if err != nil {
			return nil, err
		}
		return tag, nil
	})
}

// ListTags returns matching tags by name.
func (d *Dispatcher) ListTags(ctx context.Context, p ipc.ListParams[TagFilter]) ipc.Response[[]models.Tag] {
	return Dispatch(ctx, d, "list_tags", p, func(ctx context.Context, c *state.Client, p ipc.ListParams[TagFilter]) ([]models.Tag, error) {
		opts := append([]query.Option{query.OrderBy(tags.FieldName)}, paging(p.Page, p.PageSize)...)
		return c.Tags(c.DB()).FindMany(ctx, p.Filter.clauses(), opts...)
	})
}

func (d *Dispatcher) UpdateTag(ctx context.Context, p ipc.PutParams[TagForm]) ipc.Response[*models.Tag] {
	return Dispatch(ctx, d, "update_tag", p, func(ctx context.Context, c *state.Client, p ipc.PutParams[TagForm]) (*models.Tag, error) {
		return c.Tags(c.DB()).Update(ctx, p.ID, []query.Set{
			query.Assign(tags.FieldName, p.Data.Name),
			query.Assign(tags.FieldColor, p.Data.Color),
			query.Assign(tags.FieldUpdatedAt, d.timestamp()),
		})
	})
}

// DeleteTag removes the tag and unlinks it from every snippet.
func (d *Dispatcher) DeleteTag(ctx context.Context, p ipc.DeleteParams) ipc.Response[*models.Tag] {
	return Dispatch(ctx, d, "delete_tag", p, func(ctx context.Context, c *state.Client, p ipc.DeleteParams) (*models.Tag, error) {
		var deleted *models.Tag
		err := c.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
			var err error
			deleted, err = c.Tags(tx).Delete(ctx, p.ID)
			return err
		})
		return deleted, err
	})
}
