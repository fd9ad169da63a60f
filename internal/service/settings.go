package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/datanest/internal/apperror"
	"github.com/sakif/datanest/internal/model"
	"github.com/sakif/datanest/internal/repository"
	"github.com/sakif/datanest/internal/secret"
)

// Font size bounds accepted for the editor.
const (
	MinFontSize = 8
	MaxFontSize = 48
)

var validThemes = map[string]bool{"light": true, "dark": true, "system": true}

// SettingsService owns the single settings row.
//
// The API key is sealed with a secret.Sealer before it is stored, and no
// method here ever returns it in clear except APIKey, which exists for the
// code that talks to the AI provider.
type SettingsService struct {
	repo   repository.SettingsRepository
	sealer *secret.Sealer
	logger *slog.Logger
}

func NewSettingsService(repo repository.SettingsRepository, sealer *secret.Sealer, logger *slog.Logger) *SettingsService {
	return &SettingsService{repo: repo, sealer: sealer, logger: logger}
}

// Init makes sure the settings row exists. Called once at startup; safe to
// call again.
func (s *SettingsService) Init(ctx context.Context) error {
	if err := s.repo.Ensure(ctx, model.DefaultSettings()); err != nil {
		return fail(s.logger, "initialising settings", err)
	}
	return nil
}

// Get returns the settings with the API key masked. If Init was never run
// the row is created on the spot.
func (s *SettingsService) Get(ctx context.Context) (*model.SettingsView, error) {
	settings, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	view := settings.View()
	return &view, nil
}

// Update merges patch into the stored settings.
//
// aiApiKey handling:
//   - absent (nil)           → key unchanged
//   - the masked placeholder → key unchanged (the UI echoed back what Get returned)
//   - ""                     → key cleared
//   - anything else          → sealed and stored
func (s *SettingsService) Update(ctx context.Context, patch model.SettingsPatch) (*model.SettingsView, error) {
	if err := validateSettingsPatch(&patch); err != nil {
		return nil, err
	}

	if patch.AIAPIKey != nil {
		key := strings.TrimSpace(*patch.AIAPIKey)
		if key == model.MaskedAPIKey {
			patch.AIAPIKey = nil
		} else {
			sealed, err := s.sealer.Seal(key)
			if err != nil {
				return nil, fmt.Errorf("sealing api key: %w", err)
			}
			patch.AIAPIKey = &sealed
		}
	}

	settings, err := s.repo.Update(ctx, model.DefaultSettings(), patch)
	if err != nil {
		return nil, fail(s.logger, "updating settings", err)
	}

	s.logger.Info("settings updated",
		slog.String("ai_provider", settings.AIProvider),
		slog.Bool("has_api_key", settings.AIAPIKey != ""),
	)

	view := settings.View()
	return &view, nil
}

// APIKey returns the stored key in clear, or "" when none is set.
func (s *SettingsService) APIKey(ctx context.Context) (string, error) {
	settings, err := s.load(ctx)
	if err != nil {
		return "", err
	}

	key, err := s.sealer.Open(settings.AIAPIKey)
	if err != nil {
		s.logger.Error("failed to open api key", slog.String("error", err.Error()))
		return "", fmt.Errorf("opening api key: %w", err)
	}
	return key, nil
}

func (s *SettingsService) load(ctx context.Context) (*model.Settings, error) {
	settings, err := s.repo.Get(ctx)
	if errors.Is(err, apperror.ErrNotFound) {
		if err := s.Init(ctx); err != nil {
			return nil, err
		}
		settings, err = s.repo.Get(ctx)
	}
	if err != nil {
		return nil, fail(s.logger, "getting settings", err)
	}
	return settings, nil
}

func validateSettingsPatch(p *model.SettingsPatch) error {
	if p.AIProvider != nil {
		provider := strings.TrimSpace(*p.AIProvider)
		if provider == "" {
			return apperror.ValidationFailed("aiProvider", "aiProvider must not be empty")
		}
		p.AIProvider = &provider
	}
	if p.LocalModelEndpoint != nil {
		endpoint := strings.TrimSpace(*p.LocalModelEndpoint)
		p.LocalModelEndpoint = &endpoint
	}
	if p.Theme != nil && !validThemes[*p.Theme] {
		return apperror.ValidationFailed("theme", "theme must be one of light, dark, system")
	}
	if p.EditorTheme != nil && strings.TrimSpace(*p.EditorTheme) == "" {
		return apperror.ValidationFailed("editorTheme", "editorTheme must not be empty")
	}
	if p.FontSize != nil && (*p.FontSize < MinFontSize || *p.FontSize > MaxFontSize) {
		return apperror.ValidationFailed("fontSize",
			fmt.Sprintf("fontSize must be between %d and %d", MinFontSize, MaxFontSize))
	}
	return nil
}
