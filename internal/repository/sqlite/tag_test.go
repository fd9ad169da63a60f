package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/datanest/internal/apperror"
	"github.com/sakif/datanest/internal/model"
	"github.com/sakif/datanest/internal/repository"
)

func TestTagCreate_DuplicateName(t *testing.T) {
	db := newTestDB(t)
	createTestTag(t, db, "go")

	err := db.Tags().Create(context.Background(), &model.Tag{Name: "go", Color: model.DefaultColor})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Create() error = %v, want ErrConflict", err)
	}
}

func TestTagList_SnippetCount(t *testing.T) {
	db := newTestDB(t)

	goTag := createTestTag(t, db, "go")
	createTestTag(t, db, "unused")
	createTestSnippet(t, db, "a", "go", nil, goTag.ID)
	createTestSnippet(t, db, "b", "go", nil, goTag.ID)

	tags, err := db.Tags().List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	counts := map[string]int{}
	for _, tag := range tags {
		counts[tag.Name] = tag.SnippetCount
	}
	if counts["go"] != 2 || counts["unused"] != 0 {
		t.Errorf("counts = %v, want go:2 unused:0", counts)
	}
}

func TestTagUpdate(t *testing.T) {
	db := newTestDB(t)
	tag := createTestTag(t, db, "go")

	color := "bg-red-500"
	updated, err := db.Tags().Update(context.Background(), tag.ID, repository.TagPatch{Color: &color})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Color != color || updated.Name != "go" {
		t.Errorf("Update() = %+v, want color changed and name kept", updated)
	}
}

// Deleting a tag removes it from every snippet but leaves the snippets.
func TestTagDelete_UnlinksSnippets(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	doomed := createTestTag(t, db, "doomed")
	kept := createTestTag(t, db, "kept")
	snippet := createTestSnippet(t, db, "s", "go", nil, doomed.ID, kept.ID)

	if err := db.Tags().Delete(ctx, doomed.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	found, err := db.Snippets().GetByID(ctx, snippet.ID)
	if err != nil {
		t.Fatalf("snippet GetByID() error = %v", err)
	}
	names := tagNames(found)
	if names["doomed"] || !names["kept"] || len(names) != 1 {
		t.Errorf("tags after delete = %v, want only kept", names)
	}
}

func TestTagDeleteMany_IgnoresMissing(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	a := createTestTag(t, db, "a")
	b := createTestTag(t, db, "b")
	c := createTestTag(t, db, "c")
	createTestSnippet(t, db, "s", "go", nil, a.ID, c.ID)

	n, err := db.Tags().DeleteMany(ctx, []string{a.ID, b.ID, "missing"})
	if err != nil {
		t.Fatalf("DeleteMany() error = %v", err)
	}
	if n != 2 {
		t.Errorf("DeleteMany() = %d, want 2", n)
	}

	tags, _ := db.Tags().List(ctx)
	if len(tags) != 1 || tags[0].ID != c.ID {
		t.Errorf("remaining tags = %+v, want only c", tags)
	}
}

func TestTagDeleteMany_Empty(t *testing.T) {
	db := newTestDB(t)

	n, err := db.Tags().DeleteMany(context.Background(), nil)
	if err != nil || n != 0 {
		t.Errorf("DeleteMany(nil) = %d, %v; want 0, nil", n, err)
	}
}

func TestTagDelete_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Tags().Delete(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}
