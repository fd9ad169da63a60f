package model

import "time"

// Tag is a canonical label (see package tagname) linked to snippets through
// the snippet_tags join table.
type Tag struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Color        string    `json:"color"`
	SnippetCount int       `json:"snippetCount"`
	CreatedAt    time.Time `json:"createdAt"`
}
