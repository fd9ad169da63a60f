package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sakif/datanest/internal/apperror"
	"github.com/sakif/datanest/internal/model"
	"github.com/sakif/datanest/internal/repository"
	"github.com/sakif/datanest/internal/repository/sqlite"
)

// Most service tests run against a real in-memory SQLite store: the rules
// under test (cascades, tag replacement, counts) live partly in SQL, and an
// in-memory database is as fast as a map.
func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// =========================================================================
// FAILING REPOSITORY
// =========================================================================
//
// brokenRepo implements every repository interface and fails every call with
// a store error wrapping errDiskGone. It checks that services pass store
// failures up with the original cause still reachable through errors.Is.

var errDiskGone = errors.New("disk I/O error")

type brokenRepo struct{}

func (brokenRepo) fail(op string) error { return apperror.StoreFailed(op, errDiskGone) }

func (b brokenRepo) Create(context.Context, *model.Snippet, []string) error {
	return b.fail("creating snippet")
}
func (b brokenRepo) GetByID(context.Context, string) (*model.Snippet, error) {
	return nil, b.fail("getting snippet")
}
func (b brokenRepo) List(context.Context, repository.SnippetFilter) ([]model.Snippet, error) {
	return nil, b.fail("listing snippets")
}
func (b brokenRepo) Update(context.Context, *model.Snippet, []string) error {
	return b.fail("updating snippet")
}
func (b brokenRepo) Delete(context.Context, string) error { return b.fail("deleting") }
func (b brokenRepo) Count(context.Context) (int, error)   { return 0, b.fail("counting") }

type brokenTags struct{ brokenRepo }

func (b brokenTags) Create(context.Context, *model.Tag) error { return b.fail("creating tag") }
func (b brokenTags) GetByID(context.Context, string) (*model.Tag, error) {
	return nil, b.fail("getting tag")
}
func (b brokenTags) List(context.Context) ([]model.Tag, error) { return nil, b.fail("listing tags") }
func (b brokenTags) Update(context.Context, string, repository.TagPatch) (*model.Tag, error) {
	return nil, b.fail("updating tag")
}
func (b brokenTags) DeleteMany(context.Context, []string) (int, error) {
	return 0, b.fail("deleting tags")
}

type brokenSettings struct{ brokenRepo }

func (b brokenSettings) Ensure(context.Context, model.Settings) error { return b.fail("ensuring") }
func (b brokenSettings) Get(context.Context) (*model.Settings, error) {
	return nil, b.fail("getting settings")
}
func (b brokenSettings) Update(context.Context, model.Settings, model.SettingsPatch) (*model.Settings, error) {
	return nil, b.fail("updating settings")
}

var (
	_ repository.SnippetRepository  = brokenRepo{}
	_ repository.TagRepository      = brokenTags{}
	_ repository.SettingsRepository = brokenSettings{}
	_ repository.AIQueryRepository  = brokenQueries{}
)

type brokenQueries struct{ brokenRepo }

func (b brokenQueries) Record(context.Context, *model.AIQuery) error { return b.fail("recording") }

func requireStoreError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, apperror.ErrStore)
	require.ErrorIs(t, err, errDiskGone)
}
