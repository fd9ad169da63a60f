package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/datanest/internal/apperror"
	"github.com/sakif/datanest/internal/model"
	"github.com/sakif/datanest/internal/repository"
)

func TestTagCreate_NormalizesName(t *testing.T) {
	f := newSnippetFixture(t)

	tag, err := f.tags.Create(context.Background(), "  Web   Dev ", "")
	require.NoError(t, err)

	assert.Equal(t, "web-dev", tag.Name)
	assert.Equal(t, model.DefaultColor, tag.Color)
	assert.Zero(t, tag.SnippetCount)
}

func TestTagCreate_EquivalentNamesConflict(t *testing.T) {
	f := newSnippetFixture(t)
	ctx := context.Background()

	_, err := f.tags.Create(ctx, "Web Dev", "")
	require.NoError(t, err)

	_, err = f.tags.Create(ctx, "web-dev", "bg-red-500")
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestTagCreate_EmptyName(t *testing.T) {
	f := newSnippetFixture(t)

	_, err := f.tags.Create(context.Background(), "   ", "")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestTagUpdate_NormalizesName(t *testing.T) {
	f := newSnippetFixture(t)
	ctx := context.Background()

	tag, err := f.tags.Create(ctx, "old", "")
	require.NoError(t, err)

	name := "New Name"
	updated, err := f.tags.Update(ctx, tag.ID, repository.TagPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "new-name", updated.Name)
}

func TestTagDelete_RemovesFromSnippets(t *testing.T) {
	f := newSnippetFixture(t)
	ctx := context.Background()

	tag, err := f.tags.Create(ctx, "go", "")
	require.NoError(t, err)
	in := validInput()
	in.TagIDs = []string{tag.ID}
	snippet, err := f.snippets.Create(ctx, in)
	require.NoError(t, err)

	require.NoError(t, f.tags.Delete(ctx, tag.ID))

	got, err := f.snippets.GetByID(ctx, snippet.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
}

func TestTagDeleteMany_MissingIDSucceeds(t *testing.T) {
	f := newSnippetFixture(t)
	ctx := context.Background()

	tag, err := f.tags.Create(ctx, "go", "")
	require.NoError(t, err)

	n, err := f.tags.DeleteMany(ctx, []string{tag.ID, "never-existed"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = f.tags.GetByID(ctx, tag.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestTagDeleteMany_EmptyIsNoop(t *testing.T) {
	f := newSnippetFixture(t)

	n, err := f.tags.DeleteMany(context.Background(), []string{" ", ""})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTagService_StoreErrors(t *testing.T) {
	svc := NewTagService(brokenTags{}, discardLogger())
	ctx := context.Background()

	_, err := svc.List(ctx)
	requireStoreError(t, err)

	_, err = svc.Create(ctx, "go", "")
	requireStoreError(t, err)

	_, err = svc.DeleteMany(ctx, []string{"a"})
	requireStoreError(t, err)
}
