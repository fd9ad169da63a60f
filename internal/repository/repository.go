package repository

import (
	"context"

	"github.com/sakif/datanest/internal/model"
)

// SnippetFilter selects snippets for listing. Zero values mean "no filter";
// Language "all" is treated the same as "". All set filters are ANDed,
// Search matches a substring of title, description or code.
type SnippetFilter struct {
	Language string
	Category string // exact category name
	Tag      string // exact tag name
	Search   string
	Limit    int // <= 0 means no limit
}

// CategoryPatch is a partial category update; nil fields are left unchanged.
type CategoryPatch struct {
	Name        *string
	Description *string
	Color       *string
}

// TagPatch is a partial tag update; nil fields are left unchanged.
type TagPatch struct {
	Name  *string
	Color *string
}

type SnippetRepository interface {
	// Create inserts the snippet and one join row per tag id, atomically.
	Create(ctx context.Context, snippet *model.Snippet, tagIDs []string) error
	GetByID(ctx context.Context, id string) (*model.Snippet, error)
	List(ctx context.Context, filter SnippetFilter) ([]model.Snippet, error)
	// Update replaces the scalar fields and the whole tag set, atomically.
	Update(ctx context.Context, snippet *model.Snippet, tagIDs []string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id string) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	Update(ctx context.Context, id string, patch CategoryPatch) (*model.Category, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type TagRepository interface {
	Create(ctx context.Context, tag *model.Tag) error
	GetByID(ctx context.Context, id string) (*model.Tag, error)
	List(ctx context.Context) ([]model.Tag, error)
	Update(ctx context.Context, id string, patch TagPatch) (*model.Tag, error)
	Delete(ctx context.Context, id string) error
	// DeleteMany removes every tag whose id is in ids; unknown ids are ignored.
	DeleteMany(ctx context.Context, ids []string) (int, error)
	Count(ctx context.Context) (int, error)
}

type SettingsRepository interface {
	// Ensure creates the settings row with defaults if it does not exist.
	Ensure(ctx context.Context, defaults model.Settings) error
	Get(ctx context.Context) (*model.Settings, error)
	// Update merges patch into the stored row in one transaction. A missing
	// row is first created from defaults.
	Update(ctx context.Context, defaults model.Settings, patch model.SettingsPatch) (*model.Settings, error)
}

type AIQueryRepository interface {
	Record(ctx context.Context, q *model.AIQuery) error
	Count(ctx context.Context) (int, error)
}
