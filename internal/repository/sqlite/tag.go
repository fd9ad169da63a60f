package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/datanest/internal/apperror"
	"github.com/sakif/datanest/internal/model"
	"github.com/sakif/datanest/internal/repository"
)

var _ repository.TagRepository = (*TagStore)(nil)

// TagStore persists tags. Names arrive already canonical (see package
// tagname); the UNIQUE index on name is what makes "Go" and "go" collide.
type TagStore struct {
	db *DB
}

const tagSelect = `
	SELECT t.id, t.name, t.color, t.created_at, COUNT(st.snippet_id)
	FROM tags t
	LEFT JOIN snippet_tags st ON st.tag_id = t.id`

func (s *TagStore) Create(ctx context.Context, tag *model.Tag) error {
	tag.ID = xid.New().String()
	tag.CreatedAt = time.Now().UTC()

	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO tags (id, name, color, created_at) VALUES (?, ?, ?, ?)`,
		tag.ID, tag.Name, tag.Color, tag.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("tag", "name", tag.Name)
		}
		return apperror.StoreFailed("creating tag", err)
	}

	tag.SnippetCount = 0
	return nil
}

func (s *TagStore) GetByID(ctx context.Context, id string) (*model.Tag, error) {
	return getTag(ctx, s.db.conn, id)
}

// List returns every tag ordered by name with the number of snippets using it.
func (s *TagStore) List(ctx context.Context) ([]model.Tag, error) {
	rows, err := s.db.conn.QueryContext(ctx, tagSelect+` GROUP BY t.id ORDER BY t.name ASC`)
	if err != nil {
		return nil, apperror.StoreFailed("listing tags", err)
	}
	defer rows.Close()

	tags := []model.Tag{}
	for rows.Next() {
		var t model.Tag
		if err := scanTag(rows, &t); err != nil {
			return nil, apperror.StoreFailed("scanning tag", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.StoreFailed("iterating tags", err)
	}

	return tags, nil
}

func (s *TagStore) Update(ctx context.Context, id string, patch repository.TagPatch) (*model.Tag, error) {
	var updated *model.Tag

	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		current, err := getTag(ctx, tx, id)
		if err != nil {
			return err
		}

		if patch.Name != nil {
			current.Name = *patch.Name
		}
		if patch.Color != nil {
			current.Color = *patch.Color
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE tags SET name = ?, color = ? WHERE id = ?`,
			current.Name, current.Color, id,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return apperror.Conflict("tag", "name", current.Name)
			}
			return apperror.StoreFailed("updating tag", err)
		}

		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes the tag and every link to it. The snippets themselves stay.
func (s *TagStore) Delete(ctx context.Context, id string) error {
	return s.db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM snippet_tags WHERE tag_id = ?`, id); err != nil {
			return apperror.StoreFailed("unlinking tag", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
		if err != nil {
			return apperror.StoreFailed("deleting tag", err)
		}
		return expectOne(result, "tag", id)
	})
}

// DeleteMany removes all tags in ids in one transaction and reports how many
// existed. Ids that match nothing are skipped, not an error.
func (s *TagStore) DeleteMany(ctx context.Context, ids []string) (int, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return 0, nil
	}

	var deleted int
	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		for start := 0; start < len(ids); start += tagBatchSize {
			batch := ids[start:min(start+tagBatchSize, len(ids))]
			in := placeholders(len(batch))
			args := stringArgs(batch)

			if _, err := tx.ExecContext(ctx, `DELETE FROM snippet_tags WHERE tag_id IN (`+in+`)`, args...); err != nil {
				return apperror.StoreFailed("unlinking tags", err)
			}

			result, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE id IN (`+in+`)`, args...)
			if err != nil {
				return apperror.StoreFailed("deleting tags", err)
			}
			n, err := result.RowsAffected()
			if err != nil {
				return apperror.StoreFailed("checking rows affected", err)
			}
			deleted += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}

func (s *TagStore) Count(ctx context.Context) (int, error) {
	return count(ctx, s.db.conn, "tags")
}

func getTag(ctx context.Context, q querier, id string) (*model.Tag, error) {
	var t model.Tag
	row := q.QueryRowContext(ctx, tagSelect+` WHERE t.id = ? GROUP BY t.id`, id)
	if err := scanTag(row, &t); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("tag", id)
		}
		return nil, apperror.StoreFailed("getting tag", err)
	}
	return &t, nil
}

func scanTag(row rowScanner, t *model.Tag) error {
	return row.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt, &t.SnippetCount)
}
