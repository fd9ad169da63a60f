package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/datanest/internal/model"
	"github.com/sakif/datanest/internal/repository"
)

const (
	MaxCategoryNameLength = 50
	MaxColorLength        = 50
)

type CategoryInput struct {
	Name        string
	Description string
	Color       string
}

type CategoryService struct {
	repo   repository.CategoryRepository
	logger *slog.Logger
}

func NewCategoryService(repo repository.CategoryRepository, logger *slog.Logger) *CategoryService {
	return &CategoryService{repo: repo, logger: logger}
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, fail(s.logger, "listing categories", err)
	}
	return categories, nil
}

func (s *CategoryService) GetByID(ctx context.Context, id string) (*model.Category, error) {
	id, err := requireID("category", id)
	if err != nil {
		return nil, err
	}

	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fail(s.logger, "getting category", err, slog.String("id", id))
	}
	return category, nil
}

// Create stores a new category. A blank color gets model.DefaultColor.
func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*model.Category, error) {
	name, err := requireText("name", in.Name, MaxCategoryNameLength)
	if err != nil {
		return nil, err
	}
	description := strings.TrimSpace(in.Description)
	if err := maxLength("description", description, MaxDescriptionLength); err != nil {
		return nil, err
	}
	color, err := colorOrDefault(in.Color)
	if err != nil {
		return nil, err
	}

	category := &model.Category{Name: name, Description: description, Color: color}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, fail(s.logger, "creating category", err, slog.String("name", name))
	}

	s.logger.Info("category created", slog.String("id", category.ID), slog.String("name", name))
	return category, nil
}

// Update applies a partial change. Setting Name to blank is rejected;
// setting Color to blank resets it to the default.
func (s *CategoryService) Update(ctx context.Context, id string, patch repository.CategoryPatch) (*model.Category, error) {
	id, err := requireID("category", id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name, err := requireText("name", *patch.Name, MaxCategoryNameLength)
		if err != nil {
			return nil, err
		}
		patch.Name = &name
	}
	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		if err := maxLength("description", description, MaxDescriptionLength); err != nil {
			return nil, err
		}
		patch.Description = &description
	}
	if patch.Color != nil {
		color, err := colorOrDefault(*patch.Color)
		if err != nil {
			return nil, err
		}
		patch.Color = &color
	}

	category, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, fail(s.logger, "updating category", err, slog.String("id", id))
	}

	s.logger.Info("category updated", slog.String("id", id))
	return category, nil
}

// Delete removes the category; its snippets remain, uncategorised.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	id, err := requireID("category", id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fail(s.logger, "deleting category", err, slog.String("id", id))
	}

	s.logger.Info("category deleted", slog.String("id", id))
	return nil
}

func colorOrDefault(color string) (string, error) {
	color = strings.TrimSpace(color)
	if color == "" {
		return model.DefaultColor, nil
	}
	if err := maxLength("color", color, MaxColorLength); err != nil {
		return "", err
	}
	return color, nil
}
