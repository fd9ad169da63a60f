package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/datanest/internal/model"
	"github.com/sakif/datanest/internal/repository"
)

// Validation limits, in characters. Code and description are sized for whole
// source files and long notes; the request body cap in the HTTP layer is set
// above a snippet at these limits.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 50_000
	MaxLanguageLength    = 50
	MaxCodeLength        = 1_000_000
)

// SnippetInput is everything a caller supplies to create or replace a
// snippet. TagIDs is the complete desired tag set; nil or empty means none.
// A CategoryID pointing at "" is treated as "no category".
type SnippetInput struct {
	Title       string
	Description string
	Code        string
	Language    string
	CategoryID  *string
	TagIDs      []string
}

// SnippetService handles reading and writing snippets.
type SnippetService struct {
	repo   repository.SnippetRepository
	logger *slog.Logger
}

func NewSnippetService(repo repository.SnippetRepository, logger *slog.Logger) *SnippetService {
	return &SnippetService{
		repo:   repo,
		logger: logger,
	}
}

// List returns the snippets matching filter, most recently updated first.
// Filter strings are trimmed; an all-blank filter lists everything.
func (s *SnippetService) List(ctx context.Context, filter repository.SnippetFilter) ([]model.Snippet, error) {
	filter.Language = strings.TrimSpace(filter.Language)
	filter.Category = strings.TrimSpace(filter.Category)
	filter.Tag = strings.TrimSpace(filter.Tag)
	filter.Search = strings.TrimSpace(filter.Search)

	snippets, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fail(s.logger, "listing snippets", err)
	}
	return snippets, nil
}

// GetByID returns one snippet with its category and tags.
func (s *SnippetService) GetByID(ctx context.Context, id string) (*model.Snippet, error) {
	id, err := requireID("snippet", id)
	if err != nil {
		return nil, err
	}

	snippet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fail(s.logger, "getting snippet", err, slog.String("id", id))
	}
	return snippet, nil
}

// Create validates in and stores a new snippet with its tag links.
func (s *SnippetService) Create(ctx context.Context, in SnippetInput) (*model.Snippet, error) {
	snippet, err := in.validate()
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, snippet, in.TagIDs); err != nil {
		return nil, fail(s.logger, "creating snippet", err, slog.String("title", snippet.Title))
	}

	s.logger.Info("snippet created",
		slog.String("id", snippet.ID),
		slog.String("title", snippet.Title),
		slog.Int("tags", len(snippet.Tags)),
	)
	return snippet, nil
}

// Update replaces every field of the snippet, including its full tag set.
func (s *SnippetService) Update(ctx context.Context, id string, in SnippetInput) (*model.Snippet, error) {
	id, err := requireID("snippet", id)
	if err != nil {
		return nil, err
	}

	snippet, err := in.validate()
	if err != nil {
		return nil, err
	}
	snippet.ID = id

	if err := s.repo.Update(ctx, snippet, in.TagIDs); err != nil {
		return nil, fail(s.logger, "updating snippet", err, slog.String("id", id))
	}

	s.logger.Info("snippet updated",
		slog.String("id", snippet.ID),
		slog.String("title", snippet.Title),
	)
	return snippet, nil
}

func (s *SnippetService) Delete(ctx context.Context, id string) error {
	id, err := requireID("snippet", id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fail(s.logger, "deleting snippet", err, slog.String("id", id))
	}

	s.logger.Info("snippet deleted", slog.String("id", id))
	return nil
}

// validate checks the required fields and builds the model the repository
// stores. Blank checks and length limits look at the trimmed text, but every
// field is stored exactly as given.
func (in SnippetInput) validate() (*model.Snippet, error) {
	if _, err := requireText("title", in.Title, MaxTitleLength); err != nil {
		return nil, err
	}
	if _, err := requireText("language", in.Language, MaxLanguageLength); err != nil {
		return nil, err
	}
	if _, err := requireText("code", in.Code, MaxCodeLength); err != nil {
		return nil, err
	}
	if err := maxLength("description", strings.TrimSpace(in.Description), MaxDescriptionLength); err != nil {
		return nil, err
	}

	var categoryID *string
	if in.CategoryID != nil {
		if id := strings.TrimSpace(*in.CategoryID); id != "" {
			categoryID = &id
		}
	}

	return &model.Snippet{
		Title:       in.Title,
		Description: in.Description,
		Code:        in.Code,
		Language:    in.Language,
		CategoryID:  categoryID,
	}, nil
}
