package sqlite

// schema lists the DDL in dependency order.
//
// OWNERSHIP RULES LIVE HERE:
//   - snippet_tags rows die with either side (ON DELETE CASCADE on both FKs).
//   - snippets survive their category (ON DELETE SET NULL).
//   - category and tag names are UNIQUE; the stores map violations to
//     apperror.Conflict.
//
// The stores also perform these cascades explicitly inside their
// transactions, so the rules hold even on a connection opened without
// foreign_keys=ON.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		color       TEXT NOT NULL,
		created_at  DATETIME NOT NULL,
		updated_at  DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tags (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		color      TEXT NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS snippets (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL CHECK (title <> ''),
		description TEXT NOT NULL DEFAULT '',
		code        TEXT NOT NULL CHECK (code <> ''),
		language    TEXT NOT NULL CHECK (language <> ''),
		category_id TEXT REFERENCES categories(id) ON DELETE SET NULL,
		created_at  DATETIME NOT NULL,
		updated_at  DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_snippets_updated_at ON snippets(updated_at)`,
	`CREATE INDEX IF NOT EXISTS idx_snippets_language ON snippets(language)`,
	`CREATE INDEX IF NOT EXISTS idx_snippets_category_id ON snippets(category_id)`,
	`CREATE TABLE IF NOT EXISTS snippet_tags (
		snippet_id TEXT NOT NULL REFERENCES snippets(id) ON DELETE CASCADE,
		tag_id     TEXT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (snippet_id, tag_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_snippet_tags_tag_id ON snippet_tags(tag_id)`,
	`CREATE TABLE IF NOT EXISTS settings (
		id                   TEXT PRIMARY KEY,
		ai_provider          TEXT NOT NULL,
		ai_api_key           TEXT NOT NULL DEFAULT '',
		local_model_endpoint TEXT NOT NULL DEFAULT '',
		theme                TEXT NOT NULL,
		editor_theme         TEXT NOT NULL,
		font_size            INTEGER NOT NULL,
		updated_at           DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ai_queries (
		id         TEXT PRIMARY KEY,
		source     TEXT NOT NULL,
		query      TEXT NOT NULL,
		created_at DATETIME NOT NULL
	)`,
}
