package model

import "time"

// SettingsID is the fixed identity of the single settings row.
const SettingsID = "default"

// MaskedAPIKey replaces the stored API key in every response.
const MaskedAPIKey = "••••••••"

// Settings holds AI-provider configuration and editor/theme preferences.
// There is exactly one row, addressed by SettingsID.
//
// AIAPIKey holds the sealed (encrypted) key as stored; it never leaves the
// service layer. Handlers only ever see a SettingsView.
type Settings struct {
	ID                 string
	AIProvider         string
	AIAPIKey           string
	LocalModelEndpoint string
	Theme              string
	EditorTheme        string
	FontSize           int
	UpdatedAt          time.Time
}

// DefaultSettings returns the values a fresh install starts with.
func DefaultSettings() Settings {
	return Settings{
		ID:          SettingsID,
		AIProvider:  "claude",
		Theme:       "system",
		EditorTheme: "dark",
		FontSize:    14,
	}
}

// SettingsPatch carries a partial update. A nil field keeps its stored value;
// a non-nil AIAPIKey pointing at "" clears the key.
type SettingsPatch struct {
	AIProvider         *string `json:"aiProvider"`
	AIAPIKey           *string `json:"aiApiKey"`
	LocalModelEndpoint *string `json:"localModelEndpoint"`
	Theme              *string `json:"theme"`
	EditorTheme        *string `json:"editorTheme"`
	FontSize           *int    `json:"fontSize"`
}

// Apply merges the non-nil fields of p into s.
func (p SettingsPatch) Apply(s *Settings) {
	if p.AIProvider != nil {
		s.AIProvider = *p.AIProvider
	}
	if p.AIAPIKey != nil {
		s.AIAPIKey = *p.AIAPIKey
	}
	if p.LocalModelEndpoint != nil {
		s.LocalModelEndpoint = *p.LocalModelEndpoint
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.EditorTheme != nil {
		s.EditorTheme = *p.EditorTheme
	}
	if p.FontSize != nil {
		s.FontSize = *p.FontSize
	}
}

// SettingsView is the outward shape of Settings: the key itself is replaced
// by a placeholder and a boolean.
type SettingsView struct {
	ID                 string    `json:"id"`
	AIProvider         string    `json:"aiProvider"`
	AIAPIKey           *string   `json:"aiApiKey"`
	HasAPIKey          bool      `json:"hasApiKey"`
	LocalModelEndpoint string    `json:"localModelEndpoint"`
	Theme              string    `json:"theme"`
	EditorTheme        string    `json:"editorTheme"`
	FontSize           int       `json:"fontSize"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// View masks the API key.
func (s Settings) View() SettingsView {
	v := SettingsView{
		ID:                 s.ID,
		AIProvider:         s.AIProvider,
		LocalModelEndpoint: s.LocalModelEndpoint,
		Theme:              s.Theme,
		EditorTheme:        s.EditorTheme,
		FontSize:           s.FontSize,
		UpdatedAt:          s.UpdatedAt,
	}
	if s.AIAPIKey != "" {
		masked := MaskedAPIKey
		v.AIAPIKey = &masked
		v.HasAPIKey = true
	}
	return v
}
