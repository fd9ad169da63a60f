package service

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sakif/datanest/internal/apperror"
	"github.com/sakif/datanest/internal/model"
	"github.com/sakif/datanest/internal/repository"
)

// RecentSnippetCount is how many snippets the dashboard shows.
const RecentSnippetCount = 5

// StatsService assembles the dashboard and logs assistant queries.
type StatsService struct {
	snippets   repository.SnippetRepository
	categories repository.CategoryRepository
	tags       repository.TagRepository
	queries    repository.AIQueryRepository
	logger     *slog.Logger
}

func NewStatsService(
	snippets repository.SnippetRepository,
	categories repository.CategoryRepository,
	tags repository.TagRepository,
	queries repository.AIQueryRepository,
	logger *slog.Logger,
) *StatsService {
	return &StatsService{
		snippets:   snippets,
		categories: categories,
		tags:       tags,
		queries:    queries,
		logger:     logger,
	}
}

// Dashboard returns the four entity counts and the most recently updated
// snippets.
//
// FAN-OUT WITH errgroup:
// The five reads are independent, so they run concurrently. errgroup.WithContext
// cancels the others as soon as one fails and Wait returns that first error.
// Each goroutine writes its own variable, so no locking is needed.
//
// The reads are not one snapshot: a write landing mid-way can make the counts
// and the recent list disagree by one. A dashboard tolerates that.
func (s *StatsService) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	var (
		stats  model.DashboardStats
		recent []model.Snippet
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.Stats.Snippets, err = s.snippets.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Stats.Categories, err = s.categories.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Stats.Tags, err = s.tags.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Stats.AIQueries, err = s.queries.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.snippets.List(ctx, repository.SnippetFilter{Limit: RecentSnippetCount})
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fail(s.logger, "loading dashboard", err)
	}

	stats.RecentSnippets = recent
	return &stats, nil
}

// RecordQuery logs one assistant query. Only the total is ever reported.
func (s *StatsService) RecordQuery(ctx context.Context, source, query string) error {
	source = strings.TrimSpace(source)
	if source == "" {
		return apperror.ValidationFailed("source", "source is required")
	}

	if err := s.queries.Record(ctx, &model.AIQuery{Source: source, Query: query}); err != nil {
		return fail(s.logger, "recording ai query", err, slog.String("source", source))
	}
	return nil
}
