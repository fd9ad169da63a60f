package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/datanest/internal/apperror"
	"github.com/sakif/datanest/internal/model"
	"github.com/sakif/datanest/internal/repository"
)

// TESTING WITH IN-MEMORY SQLITE:
// ":memory:" gives every test a fresh, private database that disappears when
// the connection closes. No files to clean up, no shared state between tests.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestSnippet(t *testing.T, db *DB, title, language string, categoryID *string, tagIDs ...string) *model.Snippet {
	t.Helper()
	snippet := &model.Snippet{
		Title:      title,
		Code:       "print('" + title + "')",
		Language:   language,
		CategoryID: categoryID,
	}
	if err := db.Snippets().Create(context.Background(), snippet, tagIDs); err != nil {
		t.Fatalf("failed to create test snippet: %v", err)
	}
	return snippet
}

func createTestTag(t *testing.T, db *DB, name string) *model.Tag {
	t.Helper()
	tag := &model.Tag{Name: name, Color: model.DefaultColor}
	if err := db.Tags().Create(context.Background(), tag); err != nil {
		t.Fatalf("failed to create test tag: %v", err)
	}
	return tag
}

func createTestCategory(t *testing.T, db *DB, name string) *model.Category {
	t.Helper()
	category := &model.Category{Name: name, Color: model.DefaultColor}
	if err := db.Categories().Create(context.Background(), category); err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

func tagNames(s *model.Snippet) map[string]bool {
	names := make(map[string]bool, len(s.Tags))
	for _, tag := range s.Tags {
		names[tag.Name] = true
	}
	return names
}

// =========================================================================
// CREATE / GET
// =========================================================================

func TestSnippetCreate(t *testing.T) {
	db := newTestDB(t)

	snippet := createTestSnippet(t, db, "hello", "python", nil)

	if snippet.ID == "" {
		t.Error("Create() did not set snippet.ID")
	}
	if snippet.CreatedAt.IsZero() || snippet.UpdatedAt.IsZero() {
		t.Error("Create() did not set timestamps")
	}
	if snippet.Tags == nil {
		t.Error("Create() left Tags nil, want empty slice")
	}
}

func TestSnippetCreate_TagsRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	goTag := createTestTag(t, db, "go")
	webTag := createTestTag(t, db, "web")
	category := createTestCategory(t, db, "Utilities")

	created := createTestSnippet(t, db, "server", "go", &category.ID, goTag.ID, webTag.ID, goTag.ID)

	found, err := db.Snippets().GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if len(found.Tags) != 2 {
		t.Fatalf("got %d tags, want 2 (duplicate id collapsed)", len(found.Tags))
	}
	names := tagNames(found)
	if !names["go"] || !names["web"] {
		t.Errorf("tags = %v, want go and web", names)
	}

	if found.CategoryID == nil || *found.CategoryID != category.ID {
		t.Errorf("CategoryID = %v, want %s", found.CategoryID, category.ID)
	}
	if found.Category == nil || found.Category.Name != "Utilities" {
		t.Errorf("Category = %+v, want Utilities", found.Category)
	}
}

func TestSnippetCreate_UnknownTag(t *testing.T) {
	db := newTestDB(t)

	snippet := &model.Snippet{Title: "x", Code: "x", Language: "go"}
	err := db.Snippets().Create(context.Background(), snippet, []string{"missing"})

	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Create() error = %v, want ErrNotFound", err)
	}

	n, _ := db.Snippets().Count(context.Background())
	if n != 0 {
		t.Errorf("Count() = %d after failed create, want 0", n)
	}
}

func TestSnippetCreate_UnknownCategory(t *testing.T) {
	db := newTestDB(t)

	missing := "missing"
	snippet := &model.Snippet{Title: "x", Code: "x", Language: "go", CategoryID: &missing}
	err := db.Snippets().Create(context.Background(), snippet, nil)

	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Create() error = %v, want ErrNotFound", err)
	}
}

func TestSnippetGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Snippets().GetByID(context.Background(), "nonexistent-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// LIST
// =========================================================================

func TestSnippetList_Empty(t *testing.T) {
	db := newTestDB(t)

	snippets, err := db.Snippets().List(context.Background(), repository.SnippetFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if snippets == nil || len(snippets) != 0 {
		t.Errorf("List() = %v, want empty non-nil slice", snippets)
	}
}

func TestSnippetList_NewestFirst(t *testing.T) {
	db := newTestDB(t)

	first := createTestSnippet(t, db, "first", "go", nil)
	createTestSnippet(t, db, "second", "go", nil)
	third := createTestSnippet(t, db, "third", "go", nil)

	snippets, err := db.Snippets().List(context.Background(), repository.SnippetFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(snippets) != 3 {
		t.Fatalf("List() returned %d snippets, want 3", len(snippets))
	}
	if snippets[0].ID != third.ID {
		t.Errorf("first result = %q, want %q", snippets[0].Title, third.Title)
	}
	if snippets[2].ID != first.ID {
		t.Errorf("last result = %q, want %q", snippets[2].Title, first.Title)
	}
}

func TestSnippetList_UpdateMovesToFront(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	old := createTestSnippet(t, db, "old", "go", nil)
	createTestSnippet(t, db, "new", "go", nil)

	old.Title = "old, edited"
	if err := db.Snippets().Update(ctx, old, nil); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	snippets, err := db.Snippets().List(ctx, repository.SnippetFilter{Limit: 1})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(snippets) != 1 || snippets[0].ID != old.ID {
		t.Errorf("List(limit 1) = %+v, want the edited snippet", snippets)
	}
}

func TestSnippetList_Filters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	utilities := createTestCategory(t, db, "Utilities")
	goTag := createTestTag(t, db, "go")
	cliTag := createTestTag(t, db, "cli")

	createTestSnippet(t, db, "py script", "python", nil)
	createTestSnippet(t, db, "go cli", "go", &utilities.ID, goTag.ID, cliTag.ID)
	createTestSnippet(t, db, "go server", "go", nil, goTag.ID)
	percent := &model.Snippet{Title: "progress", Description: "shows 100% done", Code: "x", Language: "js"}
	if err := db.Snippets().Create(ctx, percent, nil); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name   string
		filter repository.SnippetFilter
		want   int
	}{
		{"no filter", repository.SnippetFilter{}, 4},
		{"language", repository.SnippetFilter{Language: "go"}, 2},
		{"language all", repository.SnippetFilter{Language: "all"}, 4},
		{"language is case-sensitive", repository.SnippetFilter{Language: "Python"}, 0},
		{"language upper-case stored value", repository.SnippetFilter{Language: "GO"}, 0},
		{"category", repository.SnippetFilter{Category: "Utilities"}, 1},
		{"tag appears once per snippet", repository.SnippetFilter{Tag: "go"}, 2},
		{"tag and language", repository.SnippetFilter{Tag: "cli", Language: "go"}, 1},
		{"search title case-insensitive", repository.SnippetFilter{Search: "GO"}, 2},
		{"search code", repository.SnippetFilter{Search: "print('py"}, 1},
		{"search literal percent", repository.SnippetFilter{Search: "100%"}, 1},
		{"search wildcard not expanded", repository.SnippetFilter{Search: "_"}, 0},
		{"unknown category", repository.SnippetFilter{Category: "nope"}, 0},
		{"limit", repository.SnippetFilter{Limit: 3}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.Snippets().List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("List(%+v) returned %d snippets, want %d", tt.filter, len(got), tt.want)
			}
		})
	}
}

func TestSnippetList_LanguageMatchesStoredCase(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	createTestSnippet(t, db, "upper", "Python", nil)
	createTestSnippet(t, db, "lower", "python", nil)

	for _, language := range []string{"Python", "python"} {
		got, err := db.Snippets().List(ctx, repository.SnippetFilter{Language: language})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(got) != 1 || got[0].Language != language {
			t.Errorf("List(language=%q) = %d snippets, want only the one stored as %q", language, len(got), language)
		}
	}
}

func TestSnippetList_LoadsTagsAndCategory(t *testing.T) {
	db := newTestDB(t)

	category := createTestCategory(t, db, "Utilities")
	tag := createTestTag(t, db, "go")
	createTestSnippet(t, db, "tagged", "go", &category.ID, tag.ID)
	createTestSnippet(t, db, "bare", "go", nil)

	snippets, err := db.Snippets().List(context.Background(), repository.SnippetFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	for _, s := range snippets {
		switch s.Title {
		case "tagged":
			if len(s.Tags) != 1 || s.Category == nil {
				t.Errorf("tagged snippet = %+v, want one tag and a category", s)
			}
		case "bare":
			if len(s.Tags) != 0 || s.Category != nil || s.CategoryID != nil {
				t.Errorf("bare snippet = %+v, want no tags and no category", s)
			}
		}
	}
}

// =========================================================================
// UPDATE
// =========================================================================

func TestSnippetUpdate_ReplacesTags(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	a := createTestTag(t, db, "a")
	b := createTestTag(t, db, "b")
	c := createTestTag(t, db, "c")
	snippet := createTestSnippet(t, db, "s", "go", nil, a.ID, b.ID)

	if err := db.Snippets().Update(ctx, snippet, []string{c.ID}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, err := db.Snippets().GetByID(ctx, snippet.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if len(found.Tags) != 1 || found.Tags[0].ID != c.ID {
		t.Errorf("tags after update = %v, want only c", tagNames(found))
	}
}

func TestSnippetUpdate_EmptyTagsClears(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	tag := createTestTag(t, db, "a")
	snippet := createTestSnippet(t, db, "s", "go", nil, tag.ID)

	if err := db.Snippets().Update(ctx, snippet, []string{}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, _ := db.Snippets().GetByID(ctx, snippet.ID)
	if len(found.Tags) != 0 {
		t.Errorf("tags after clearing = %v, want none", tagNames(found))
	}
}

func TestSnippetUpdate_UnknownTagLeavesSnippetUntouched(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	tag := createTestTag(t, db, "keep")
	snippet := createTestSnippet(t, db, "before", "go", nil, tag.ID)

	edit := *snippet
	edit.Title = "after"
	err := db.Snippets().Update(ctx, &edit, []string{"missing"})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Update() error = %v, want ErrNotFound", err)
	}

	found, _ := db.Snippets().GetByID(ctx, snippet.ID)
	if found.Title != "before" || len(found.Tags) != 1 {
		t.Errorf("snippet changed by failed update: %+v", found)
	}
}

func TestSnippetUpdate_NotFound(t *testing.T) {
	db := newTestDB(t)

	snippet := &model.Snippet{ID: "nope", Title: "x", Code: "x", Language: "go"}
	err := db.Snippets().Update(context.Background(), snippet, nil)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// DELETE
// =========================================================================

func TestSnippetDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	tag := createTestTag(t, db, "go")
	snippet := createTestSnippet(t, db, "doomed", "go", nil, tag.ID)

	if err := db.Snippets().Delete(ctx, snippet.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := db.Snippets().GetByID(ctx, snippet.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}

	// The tag survives with no snippets.
	found, err := db.Tags().GetByID(ctx, tag.ID)
	if err != nil {
		t.Fatalf("tag GetByID() error = %v", err)
	}
	if found.SnippetCount != 0 {
		t.Errorf("SnippetCount = %d, want 0", found.SnippetCount)
	}
}

func TestSnippetDelete_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Snippets().Delete(context.Background(), "nonexistent-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestEscapeLike(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain", "plain"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`c:\dir`, `c:\\dir`},
	}
	for _, tt := range tests {
		if got := escapeLike(tt.in); got != tt.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
