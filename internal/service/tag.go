package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/datanest/internal/model"
	"github.com/sakif/datanest/internal/repository"
	"github.com/sakif/datanest/internal/tagname"
)

const MaxTagNameLength = 50

// TagService manages tags. Every name is canonicalised with
// tagname.Normalize before it reaches the store, so "Web Dev" and "web-dev"
// are the same tag and the second create is a Conflict.
type TagService struct {
	repo   repository.TagRepository
	logger *slog.Logger
}

func NewTagService(repo repository.TagRepository, logger *slog.Logger) *TagService {
	return &TagService{repo: repo, logger: logger}
}

func (s *TagService) List(ctx context.Context) ([]model.Tag, error) {
	tags, err := s.repo.List(ctx)
	if err != nil {
		return nil, fail(s.logger, "listing tags", err)
	}
	return tags, nil
}

func (s *TagService) GetByID(ctx context.Context, id string) (*model.Tag, error) {
	id, err := requireID("tag", id)
	if err != nil {
		return nil, err
	}

	tag, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fail(s.logger, "getting tag", err, slog.String("id", id))
	}
	return tag, nil
}

func (s *TagService) Create(ctx context.Context, name, color string) (*model.Tag, error) {
	name, err := normalizeTagName(name)
	if err != nil {
		return nil, err
	}
	color, err = colorOrDefault(color)
	if err != nil {
		return nil, err
	}

	tag := &model.Tag{Name: name, Color: color}
	if err := s.repo.Create(ctx, tag); err != nil {
		return nil, fail(s.logger, "creating tag", err, slog.String("name", name))
	}

	s.logger.Info("tag created", slog.String("id", tag.ID), slog.String("name", name))
	return tag, nil
}

func (s *TagService) Update(ctx context.Context, id string, patch repository.TagPatch) (*model.Tag, error) {
	id, err := requireID("tag", id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name, err := normalizeTagName(*patch.Name)
		if err != nil {
			return nil, err
		}
		patch.Name = &name
	}
	if patch.Color != nil {
		color, err := colorOrDefault(*patch.Color)
		if err != nil {
			return nil, err
		}
		patch.Color = &color
	}

	tag, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, fail(s.logger, "updating tag", err, slog.String("id", id))
	}

	s.logger.Info("tag updated", slog.String("id", id))
	return tag, nil
}

// Delete removes the tag from every snippet and then the tag itself.
func (s *TagService) Delete(ctx context.Context, id string) error {
	id, err := requireID("tag", id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fail(s.logger, "deleting tag", err, slog.String("id", id))
	}

	s.logger.Info("tag deleted", slog.String("id", id))
	return nil
}

// DeleteMany removes every listed tag and returns how many existed.
// Unknown ids are skipped; blank ids are dropped before the store sees them.
// An empty list is a no-op.
func (s *TagService) DeleteMany(ctx context.Context, ids []string) (int, error) {
	clean := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			clean = append(clean, id)
		}
	}
	if len(clean) == 0 {
		return 0, nil
	}

	n, err := s.repo.DeleteMany(ctx, clean)
	if err != nil {
		return 0, fail(s.logger, "deleting tags", err, slog.Int("requested", len(clean)))
	}

	s.logger.Info("tags deleted", slog.Int("requested", len(clean)), slog.Int("deleted", n))
	return n, nil
}

func normalizeTagName(raw string) (string, error) {
	name, err := tagname.Normalize(raw)
	if err != nil {
		return "", err
	}
	return name, maxLength("name", name, MaxTagNameLength)
}
