package commands

import (
	"github.com/sabry-awad97/snippet-vault/internal/vault/query"
	"github.com/sabry-awad97/snippet-vault/internal/vault/repositories/snippets"
	"github.com/sabry-awad97/snippet-vault/internal/vault/repositories/tags"
	"github.com/sabry-awad97/snippet-vault/internal/vault/repositories/users"
)

const defaultPageSize = 20

type UserFilter struct {
	Email *string `json:"email,omitempty"`
	Name  *string `json:"name,omitempty"`
}

type TagFilter struct {
	Name *string `json:"name,omitempty"`
}

type StateFilter struct {
	IsFavorite *bool `json:"isFavorite,omitempty"`
	IsDark     *bool `json:"isDark,omitempty"`
}

type SnippetFilter struct {
	// Search matches title, description, code or language.
	Search      *string      `json:"search,omitempty"`
	Title       *string      `json:"title,omitempty"`
	Description *string      `json:"description,omitempty"`
	Language    *string      `json:"language,omitempty"`
	Code        *string      `json:"code,omitempty"`
	State       *StateFilter `json:"state,omitempty"`
	// Tags matches snippets carrying at least one tag with one of the names.
	Tags []string `json:"tags,omitempty"`
}

func (f *UserFilter) clauses() []query.Clause {
	if f == nil {
		return nil
	}
	var where []query.Clause
	if f.Email != nil {
		where = append(where, query.Contains(users.FieldEmail, *f.Email))
	}
	if f.Name != nil {
		where = append(where, query.Contains(users.FieldName, *f.Name))
	}
	return where
}

func (f *TagFilter) clauses() []query.Clause {
	if f == nil || f.Name == nil {
		return nil
	}
	return []query.Clause{query.Contains(tags.FieldName, *f.Name)}
}

func (f *SnippetFilter) clauses() []query.Clause {
	if f == nil {
		return nil
	}

	var where []query.Clause
	if f.Search != nil {
		s := *f.Search
		where = append(where, query.Or(
			query.Contains(snippets.FieldTitle, s),
			query.Contains(snippets.FieldDescription, s),
			query.Contains(snippets.FieldCode, s),
			query.Contains(snippets.FieldLanguage, s),
		))
	}
	if f.Title != nil {
		where = append(where, query.Contains(snippets.FieldTitle, *f.Title))
	}
	if f.Description != nil {
		where = append(where, query.Contains(snippets.FieldDescription, *f.Description))
	}
	if f.Language != nil {
		where = append(where, query.Equals(snippets.FieldLanguage, *f.Language))
	}
	if f.Code != nil {
		where = append(where, query.Contains(snippets.FieldCode, *f.Code))
	}
	if f.State != nil {
		var state []query.Clause
		if f.State.IsFavorite != nil {
			state = append(state, query.Equals(snippets.FieldStateIsFavorite, *f.State.IsFavorite))
		}
		if f.State.IsDark != nil {
			state = append(state, query.Equals(snippets.FieldStateIsDark, *f.State.IsDark))
		}
		if len(state) > 0 {
			where = append(where, query.Some(snippets.RelationState, state...))
		}
	}
	if len(f.Tags) > 0 {
		where = append(where, query.Some(snippets.RelationTags, query.In(snippets.FieldTagName, f.Tags)))
	}
	return where
}

// paging turns optional page parameters into query options. A page without
// a size uses defaultPageSize; neither means no paging.
func paging(page, size *int) []query.Option {
	if page == nil && size == nil {
		return nil
	}
	p, s := 1, defaultPageSize
	if page != nil {
		p = *page
	}
	if size != nil {
		s = *size
	}
	return []query.Option{query.Page(p, s)}
}
