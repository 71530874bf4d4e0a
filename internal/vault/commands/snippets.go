package commands

import (
	"context"

	"github.com/sabry-awad97/snippet-vault/internal/common"
	"github.com/sabry-awad97/snippet-vault/internal/dbx"
	"github.com/sabry-awad97/snippet-vault/internal/vault/ipc"
	"github.com/sabry-awad97/snippet-vault/internal/vault/models"
	"github.com/sabry-awad97/snippet-vault/internal/vault/query"
	"github.com/sabry-awad97/snippet-vault/internal/vault/repositories/snippets"
	"github.com/sabry-awad97/snippet-vault/internal/vault/repositories/snippetstates"
	"github.com/sabry-awad97/snippet-vault/internal/vault/repositories/tags"
	"github.com/sabry-awad97/snippet-vault/internal/vault/state"
)

type SnippetForm struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Language    string   `json:"language" validate:"required,max=50"`
	Code        string   `json:"code" validate:"required"`
	TagIDs      []string `json:"tagIds" validate:"omitempty,dive,required"`
	// State sets the initial flags on create and is ignored on update.
	State *StatePatch `json:"state,omitempty"`
}

// StatePatch updates only the flags that are present.
type StatePatch struct {
	IsDark     *bool `json:"isDark,omitempty"`
	IsFavorite *bool `json:"isFavorite,omitempty"`
}

func (d *Dispatcher) CreateSnippet(ctx context.Context, p ipc.PostParams[SnippetForm]) ipc.Response[*models.Snippet] {
	return Dispatch(ctx, d, "create_snippet", p, func(ctx context.Context, c *state.Client, p ipc.PostParams[SnippetForm]) (*models.Snippet, error) {
		var created *models.Snippet
		err := c.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
			if err := ensureTags(ctx, c.Tags(tx), p.Data.TagIDs); err != nil {
				return err
			}

			initial := &models.SnippetState{}
			if p.Data.State != nil {
				initial.IsDark = p.Data.State.IsDark != nil && *p.Data.State.IsDark
				initial.IsFavorite = p.Data.State.IsFavorite != nil && *p.Data.State.IsFavorite
			}
			st, err := c.SnippetStates(tx).Create(ctx, initial)
			if err != nil {
				return err
			}

			now := d.timestamp()
			s, err := c.Snippets(tx).Create(ctx, &models.Snippet{
				Title:          p.Data.Title,
				Description:    p.Data.Description,
				Language:       p.Data.Language,
				Code:           p.Data.Code,
				SnippetStateID: st.ID,
				TagIDs:         p.Data.TagIDs,
				CreatedAt:      now,
				UpdatedAt:      now,
			})
			if err != nil {
				return err
			}

			created, err = reloadSnippet(ctx, c, tx, s.ID)
			return err
		})
		return created, err
	})
}

// GetSnippet answers null data when the snippet does not exist.
func (d *Dispatcher) GetSnippet(ctx context.Context, p ipc.GetParams) ipc.Response[*models.Snippet] {
	return Dispatch(ctx, d, "get_snippet", p, func(ctx context.Context, c *state.Client, p ipc.GetParams) (*models.Snippet, error) {
		s, err := c.Snippets(c.DB()).FindUnique(ctx, p.ID)
		if err != nil || s == nil {
			return nil, err
		}
		list := []models.Snippet{*s}
		if err := loadSnippetRelations(ctx, c, c.DB(), list); err != nil {
			return nil, err
		}
		return &list[0], nil
	})
}

// ListSnippets returns matching snippets, newest first.
func (d *Dispatcher) ListSnippets(ctx context.Context, p ipc.ListParams[SnippetFilter]) ipc.Response[[]models.Snippet] {
	return Dispatch(ctx, d, "list_snippets", p, func(ctx context.Context, c *state.Client, p ipc.ListParams[SnippetFilter]) ([]models.Snippet, error) {
		opts := append([]query.Option{query.OrderByDesc(snippets.FieldCreatedAt)}, paging(p.Page, p.PageSize)...)

		list, err := c.Snippets(c.DB()).FindMany(ctx, p.Filter.clauses(), opts...)
		if err != nil {
			return nil, err
		}
		if err := loadSnippetRelations(ctx, c, c.DB(), list); err != nil {
			return nil, err
		}
		return list, nil
	})
}

// UpdateSnippet replaces the snippet's content and tag links.
func (d *Dispatcher) UpdateSnippet(ctx context.Context, p ipc.PutParams[SnippetForm]) ipc.Response[*models.Snippet] {
	return Dispatch(ctx, d, "update_snippet", p, func(ctx context.Context, c *state.Client, p ipc.PutParams[SnippetForm]) (*models.Snippet, error) {
		var updated *models.Snippet
		err := c.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
			repo := c.Snippets(tx)

			_, err := repo.Update(ctx, p.ID, []query.Set{
				query.Assign(snippets.FieldTitle, p.Data.Title),
				query.Assign(snippets.FieldDescription, p.Data.Description),
				query.Assign(snippets.FieldLanguage, p.Data.Language),
				query.Assign(snippets.FieldCode, p.Data.Code),
				query.Assign(snippets.FieldUpdatedAt, d.timestamp()),
			})
			if err != nil {
				return err
			}

			if err := ensureTags(ctx, c.Tags(tx), p.Data.TagIDs); err != nil {
				return err
			}
			if err := repo.SetTags(ctx, p.ID, p.Data.TagIDs); err != nil {
				return err
			}

			updated, err = reloadSnippet(ctx, c, tx, p.ID)
			return err
		})
		return updated, err
	})
}

// DeleteSnippet removes the snippet, its state and its tag links.
func (d *Dispatcher) DeleteSnippet(ctx context.Context, p ipc.DeleteParams) ipc.Response[*models.Snippet] {
	return Dispatch(ctx, d, "delete_snippet", p, func(ctx context.Context, c *state.Client, p ipc.DeleteParams) (*models.Snippet, error) {
		var deleted *models.Snippet
		err := c.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
			s, err := reloadSnippet(ctx, c, tx, p.ID)
			if err != nil {
				return err
			}
			if _, err := c.Snippets(tx).Delete(ctx, p.ID); err != nil {
				return err
			}
			if err := c.SnippetStates(tx).Delete(ctx, s.SnippetStateID); err != nil {
				return err
			}
			deleted = s
			return nil
		})
		return deleted, err
	})
}

// UpdateSnippetState changes the flags of a snippet state by its own id.
func (d *Dispatcher) UpdateSnippetState(ctx context.Context, p ipc.PutParams[StatePatch]) ipc.Response[*models.SnippetState] {
	return Dispatch(ctx, d, "update_snippet_state", p, func(ctx context.Context, c *state.Client, p ipc.PutParams[StatePatch]) (*models.SnippetState, error) {
		var sets []query.Set
		if p.Data.IsDark != nil {
			sets = append(sets, query.Assign(snippetstates.FieldIsDark, *p.Data.IsDark))
		}
		if p.Data.IsFavorite != nil {
			sets = append(sets, query.Assign(snippetstates.FieldIsFavorite, *p.Data.IsFavorite))
		}
		return c.SnippetStates(c.DB()).Update(ctx, p.ID, sets)
	})
}

func reloadSnippet(ctx context.Context, c *state.Client, db dbx.DBTX, id string) (*models.Snippet, error) {
	s, err := c.Snippets(db).FindUnique(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, common.NotFound("Snippet")
	}
	list := []models.Snippet{*s}
	if err := loadSnippetRelations(ctx, c, db, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// loadSnippetRelations fills State and Tags in place.
func loadSnippetRelations(ctx context.Context, c *state.Client, db dbx.DBTX, list []models.Snippet) error {
	var tagIDs []string
	for i := range list {
		st, err := c.SnippetStates(db).FindUnique(ctx, list[i].SnippetStateID)
		if err != nil {
			return err
		}
		list[i].State = st
		tagIDs = append(tagIDs, list[i].TagIDs...)
	}
	if len(tagIDs) == 0 {
		return nil
	}

	found, err := c.Tags(db).FindMany(ctx, []query.Clause{query.In(tags.FieldID, tagIDs)})
	if err != nil {
		return err
	}
	byID := make(map[string]models.Tag, len(found))
	for _, t := range found {
		byID[t.ID] = t
	}
	for i := range list {
		list[i].Tags = make([]models.Tag, 0, len(list[i].TagIDs))
		for _, id := range list[i].TagIDs {
			if t, ok := byID[id]; ok {
				list[i].Tags = append(list[i].Tags, t)
			}
		}
	}
	return nil
}

func ensureTags(ctx context.Context, repo tags.Repository, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := repo.FindMany(ctx, []query.Clause{query.In(tags.FieldID, ids)})
	if err != nil {
		return err
	}
	known := make(map[string]struct{}, len(found))
	for _, t := range found {
		known[t.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return common.Validation("unknown tag "+id, nil)
		}
	}
	return nil
}
