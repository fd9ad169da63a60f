package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/datanest/internal/apperror"
	"github.com/sakif/datanest/internal/repository/sqlite"
)

func newStatsService(db *sqlite.DB) *StatsService {
	return NewStatsService(db.Snippets(), db.Categories(), db.Tags(), db.AIQueries(), discardLogger())
}

func TestDashboard_Empty(t *testing.T) {
	db := newTestDB(t)

	stats, err := newStatsService(db).Dashboard(context.Background())
	require.NoError(t, err)

	assert.Zero(t, stats.Stats.Snippets)
	assert.Zero(t, stats.Stats.AIQueries)
	assert.NotNil(t, stats.RecentSnippets)
	assert.Empty(t, stats.RecentSnippets)
}

func TestDashboard_CountsAndRecent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	logger := discardLogger()

	snippets := NewSnippetService(db.Snippets(), logger)
	tags := NewTagService(db.Tags(), logger)
	categories := NewCategoryService(db.Categories(), logger)
	svc := newStatsService(db)

	for i := range 7 {
		in := validInput()
		in.Title = fmt.Sprintf("snippet %d", i)
		_, err := snippets.Create(ctx, in)
		require.NoError(t, err)
	}
	_, err := tags.Create(ctx, "go", "")
	require.NoError(t, err)
	_, err = categories.Create(ctx, CategoryInput{Name: "Utilities"})
	require.NoError(t, err)
	require.NoError(t, svc.RecordQuery(ctx, "mcp", "binary search"))

	stats, err := svc.Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, 7, stats.Stats.Snippets)
	assert.Equal(t, 1, stats.Stats.Categories)
	assert.Equal(t, 1, stats.Stats.Tags)
	assert.Equal(t, 1, stats.Stats.AIQueries)

	require.Len(t, stats.RecentSnippets, RecentSnippetCount)
	assert.Equal(t, "snippet 6", stats.RecentSnippets[0].Title)
}

func TestRecordQuery_RequiresSource(t *testing.T) {
	db := newTestDB(t)

	err := newStatsService(db).RecordQuery(context.Background(), " ", "q")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestDashboard_StoreError(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatsService(db.Snippets(), db.Categories(), db.Tags(), brokenQueries{}, discardLogger())

	_, err := svc.Dashboard(context.Background())
	requireStoreError(t, err)
}
