package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/sakif/datanest/internal/apperror"
	"github.com/sakif/datanest/internal/model"
	"github.com/sakif/datanest/internal/repository"
)

var _ repository.SettingsRepository = (*SettingsStore)(nil)

// SettingsStore holds the single settings row (id = model.SettingsID).
//
// SINGLE ROW, NO RACE:
// The row is created with INSERT ... ON CONFLICT DO NOTHING, so two callers
// racing to initialise it both succeed and exactly one row exists afterwards.
// Update runs its insert-if-missing, read and write in one transaction.
type SettingsStore struct {
	db *DB
}

func (s *SettingsStore) Ensure(ctx context.Context, defaults model.Settings) error {
	return ensureSettings(ctx, s.db.conn, defaults)
}

func (s *SettingsStore) Get(ctx context.Context) (*model.Settings, error) {
	return getSettings(ctx, s.db.conn)
}

func (s *SettingsStore) Update(ctx context.Context, defaults model.Settings, patch model.SettingsPatch) (*model.Settings, error) {
	var updated *model.Settings

	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		if err := ensureSettings(ctx, tx, defaults); err != nil {
			return err
		}

		current, err := getSettings(ctx, tx)
		if err != nil {
			return err
		}

		patch.Apply(current)
		current.UpdatedAt = time.Now().UTC()

		_, err = tx.ExecContext(ctx,
			`UPDATE settings
			 SET ai_provider = ?, ai_api_key = ?, local_model_endpoint = ?,
			     theme = ?, editor_theme = ?, font_size = ?, updated_at = ?
			 WHERE id = ?`,
			current.AIProvider,
			current.AIAPIKey,
			current.LocalModelEndpoint,
			current.Theme,
			current.EditorTheme,
			current.FontSize,
			current.UpdatedAt,
			model.SettingsID,
		)
		if err != nil {
			return apperror.StoreFailed("updating settings", err)
		}

		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func ensureSettings(ctx context.Context, q querier, defaults model.Settings) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO settings (id, ai_provider, ai_api_key, local_model_endpoint, theme, editor_theme, font_size, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		model.SettingsID,
		defaults.AIProvider,
		defaults.AIAPIKey,
		defaults.LocalModelEndpoint,
		defaults.Theme,
		defaults.EditorTheme,
		defaults.FontSize,
		time.Now().UTC(),
	)
	if err != nil {
		return apperror.StoreFailed("initialising settings", err)
	}
	return nil
}

func getSettings(ctx context.Context, q querier) (*model.Settings, error) {
	var st model.Settings
	err := q.QueryRowContext(ctx,
		`SELECT id, ai_provider, ai_api_key, local_model_endpoint, theme, editor_theme, font_size, updated_at
		 FROM settings WHERE id = ?`,
		model.SettingsID,
	).Scan(
		&st.ID,
		&st.AIProvider,
		&st.AIAPIKey,
		&st.LocalModelEndpoint,
		&st.Theme,
		&st.EditorTheme,
		&st.FontSize,
		&st.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("settings", model.SettingsID)
		}
		return nil, apperror.StoreFailed("getting settings", err)
	}
	return &st, nil
}
