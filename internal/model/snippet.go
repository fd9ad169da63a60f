// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data, similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// DefaultColor is the display color token given to categories and tags
// created without one.
const DefaultColor = "bg-blue-500"

// Snippet represents a saved code snippet.
//
// The `json:"..."` struct tags keep the camelCase field names the browser UI
// already speaks (categoryId, createdAt, ...).
//
// FLATTENED TAGS:
// In the database a snippet's tags live in the snippet_tags join table. By the
// time a Snippet leaves the repository those join rows are gone: Tags holds
// the Tag entities themselves, and Category is resolved from CategoryID.
type Snippet struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Code        string    `json:"code"`
	Language    string    `json:"language"`
	CategoryID  *string   `json:"categoryId"` // nil when the snippet is uncategorised
	Category    *Category `json:"category"`
	Tags        []Tag     `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
