// Package service contains the business rules of datanest.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler / MCP tool  → parses input, writes output
//	Service             → validates, normalises, orchestrates
//	Repository          → reads/writes the database
//
// Services take repository interfaces, never *sqlite.DB, so tests can hand
// them a fake that fails on demand. Every service method speaks plain Go
// values; nothing here knows about HTTP or MCP.
//
// ERRORS:
// Validation, NotFound and Conflict errors are expected outcomes and pass
// through untouched. Store failures are logged once, here, and returned
// wrapped so errors.Is(err, apperror.ErrStore) still holds upstream.
package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/datanest/internal/apperror"
)

// fail logs err when it is a store failure and wraps it with op.
func fail(logger *slog.Logger, op string, err error, attrs ...any) error {
	if errors.Is(err, apperror.ErrStore) {
		attrs = append(attrs, slog.String("error", err.Error()))
		logger.Error("failed "+op, attrs...)
		return fmt.Errorf("%s: %w", op, err)
	}
	return err
}

// requireText trims value and rejects it when empty or longer than max runes.
func requireText(field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", apperror.ValidationFailed(field, field+" is required")
	}
	return value, maxLength(field, value, max)
}

func maxLength(field, value string, max int) error {
	if len([]rune(value)) > max {
		return apperror.ValidationFailed(field,
			fmt.Sprintf("%s must be %d characters or less", field, max))
	}
	return nil
}

func requireID(resource, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", apperror.ValidationFailed("id", resource+" ID is required")
	}
	return id, nil
}
