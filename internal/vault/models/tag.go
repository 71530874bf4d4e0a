package models

import "time"

type Tag struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Color      string    `json:"color,omitempty"`
	SnippetIDs []string  `json:"snippetIds"`
	Snippets   []Snippet `json:"snippets,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
