package models

import "time"

type Snippet struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Language       string        `json:"language"`
	Code           string        `json:"code"`
	SnippetStateID string        `json:"snippetStateId"`
	TagIDs         []string      `json:"tagIds"`
	State          *SnippetState `json:"state,omitempty"`
	Tags           []Tag         `json:"tags,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// SnippetState holds per-snippet display flags. Exactly one per snippet.
type SnippetState struct {
	ID         string `json:"id"`
	IsDark     bool   `json:"isDark"`
	IsFavorite bool   `json:"isFavorite"`
}
