package model

import "time"

// Category groups snippets. A snippet belongs to zero or one category;
// deleting a category leaves its snippets in place, uncategorised.
//
// SnippetCount is derived at read time (COUNT over snippets), never stored.
type Category struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Color        string    `json:"color"`
	SnippetCount int       `json:"snippetCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
