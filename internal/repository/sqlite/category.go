package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/rs/xid"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/datanest/internal/apperror"
	"github.com/sakif/datanest/internal/model"
	"github.com/sakif/datanest/internal/repository"
)

var _ repository.CategoryRepository = (*CategoryStore)(nil)

// CategoryStore persists categories. SnippetCount is computed on every read
// with a LEFT JOIN + COUNT, so it can never drift from the snippets table.
type CategoryStore struct {
	db *DB
}

const categorySelect = `
	SELECT c.id, c.name, c.description, c.color, c.created_at, c.updated_at,
	       COUNT(s.id)
	FROM categories c
	LEFT JOIN snippets s ON s.category_id = c.id`

func (s *CategoryStore) Create(ctx context.Context, category *model.Category) error {
	category.ID = xid.New().String()

	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now

	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO categories (id, name, description, color, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		category.ID,
		category.Name,
		category.Description,
		category.Color,
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("category", "name", category.Name)
		}
		return apperror.StoreFailed("creating category", err)
	}

	category.SnippetCount = 0
	return nil
}

func (s *CategoryStore) GetByID(ctx context.Context, id string) (*model.Category, error) {
	return getCategory(ctx, s.db.conn, id)
}

// List returns every category ordered by name, each with its snippet count.
func (s *CategoryStore) List(ctx context.Context) ([]model.Category, error) {
	rows, err := s.db.conn.QueryContext(ctx, categorySelect+` GROUP BY c.id ORDER BY c.name ASC`)
	if err != nil {
		return nil, apperror.StoreFailed("listing categories", err)
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := scanCategory(rows, &c); err != nil {
			return nil, apperror.StoreFailed("scanning category", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.StoreFailed("iterating categories", err)
	}

	return categories, nil
}

// Update applies patch to the category and bumps updated_at. Renaming onto
// an existing name returns apperror.Conflict.
func (s *CategoryStore) Update(ctx context.Context, id string, patch repository.CategoryPatch) (*model.Category, error) {
	var updated *model.Category

	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		current, err := getCategory(ctx, tx, id)
		if err != nil {
			return err
		}

		if patch.Name != nil {
			current.Name = *patch.Name
		}
		if patch.Description != nil {
			current.Description = *patch.Description
		}
		if patch.Color != nil {
			current.Color = *patch.Color
		}
		current.UpdatedAt = time.Now().UTC()

		_, err = tx.ExecContext(ctx,
			`UPDATE categories SET name = ?, description = ?, color = ?, updated_at = ? WHERE id = ?`,
			current.Name, current.Description, current.Color, current.UpdatedAt, id,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return apperror.Conflict("category", "name", current.Name)
			}
			return apperror.StoreFailed("updating category", err)
		}

		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes the category. Its snippets stay and become uncategorised.
func (s *CategoryStore) Delete(ctx context.Context, id string) error {
	return s.db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE snippets SET category_id = NULL WHERE category_id = ?`, id,
		); err != nil {
			return apperror.StoreFailed("detaching snippets from category", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
		if err != nil {
			return apperror.StoreFailed("deleting category", err)
		}
		return expectOne(result, "category", id)
	})
}

func (s *CategoryStore) Count(ctx context.Context) (int, error) {
	return count(ctx, s.db.conn, "categories")
}

func getCategory(ctx context.Context, q querier, id string) (*model.Category, error) {
	var c model.Category
	row := q.QueryRowContext(ctx, categorySelect+` WHERE c.id = ? GROUP BY c.id`, id)
	if err := scanCategory(row, &c); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("category", id)
		}
		return nil, apperror.StoreFailed("getting category", err)
	}
	return &c, nil
}

func scanCategory(row rowScanner, c *model.Category) error {
	return row.Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.Color,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.SnippetCount,
	)
}

// isUniqueViolation reports whether err is SQLite rejecting a duplicate
// value in a UNIQUE or PRIMARY KEY column.
func isUniqueViolation(err error) bool {
	var sqlErr *msqlite.Error
	if errors.As(err, &sqlErr) {
		code := sqlErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
