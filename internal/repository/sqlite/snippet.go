package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/datanest/internal/apperror"
	"github.com/sakif/datanest/internal/model"
	"github.com/sakif/datanest/internal/repository"
)

// COMPILE-TIME INTERFACE CHECK:
// If *SnippetStore stops implementing repository.SnippetRepository the build
// breaks here, not at some distant call site.
var _ repository.SnippetRepository = (*SnippetStore)(nil)

// SnippetStore persists snippets and their tag links.
type SnippetStore struct {
	db *DB
}

// snippetColumns is shared by every snippet SELECT so scanSnippet always
// sees the same column order. The category columns come from a LEFT JOIN and
// are all NULL for an uncategorised snippet.
const snippetColumns = `
	s.id, s.title, s.description, s.code, s.language, s.category_id,
	s.created_at, s.updated_at,
	c.id, c.name, c.description, c.color, c.created_at, c.updated_at`

const snippetFrom = `
	FROM snippets s
	LEFT JOIN categories c ON c.id = s.category_id`

// Create inserts a new snippet and links it to tagIDs, atomically.
//
// The referenced category and tags must exist; otherwise nothing is written
// and an apperror.NotFound naming the missing id is returned. Duplicate tag
// ids collapse to one link.
//
// On success the caller's snippet carries the generated ID, the timestamps,
// the resolved Category and the Tags.
func (s *SnippetStore) Create(ctx context.Context, snippet *model.Snippet, tagIDs []string) error {
	snippet.ID = xid.New().String()

	now := time.Now().UTC()
	snippet.CreatedAt = now
	snippet.UpdatedAt = now

	tagIDs = dedupe(tagIDs)

	return s.db.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkRefs(ctx, tx, snippet.CategoryID, tagIDs); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO snippets (id, title, description, code, language, category_id, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			snippet.ID,
			snippet.Title,
			snippet.Description,
			snippet.Code,
			snippet.Language,
			snippet.CategoryID,
			snippet.CreatedAt,
			snippet.UpdatedAt,
		)
		if err != nil {
			return apperror.StoreFailed("creating snippet", err)
		}

		if err := linkTags(ctx, tx, snippet.ID, tagIDs); err != nil {
			return err
		}

		return reload(ctx, tx, snippet)
	})
}

// GetByID returns the snippet with its category and tags resolved.
func (s *SnippetStore) GetByID(ctx context.Context, id string) (*model.Snippet, error) {
	return getSnippet(ctx, s.db.conn, id)
}

// List returns the snippets matching filter, most recently updated first.
//
// DYNAMIC WHERE CLAUSE:
// Each filter that is set appends one condition and its argument. The SQL
// text only ever contains fixed fragments; user input always travels as a
// ? parameter.
//
//   - Tag uses EXISTS over the join table, so a snippet with several tags
//     still appears once.
//   - Search uses LIKE with '\' as the escape character; % and _ typed by the
//     user match themselves. LIKE is case-insensitive for ASCII only.
//
// ORDERING:
// updated_at DESC, then rowid DESC, so snippets written within the same clock
// tick still come out newest first and the order is stable between calls.
func (s *SnippetStore) List(ctx context.Context, filter repository.SnippetFilter) ([]model.Snippet, error) {
	var (
		where []string
		args  []any
	)

	if filter.Language != "" && filter.Language != "all" {
		where = append(where, "s.language = ?")
		args = append(args, filter.Language)
	}
	if filter.Category != "" {
		where = append(where, "c.name = ?")
		args = append(args, filter.Category)
	}
	if filter.Tag != "" {
		where = append(where, `EXISTS (
			SELECT 1 FROM snippet_tags st
			JOIN tags t ON t.id = st.tag_id
			WHERE st.snippet_id = s.id AND t.name = ?)`)
		args = append(args, filter.Tag)
	}
	if filter.Search != "" {
		pattern := "%" + escapeLike(filter.Search) + "%"
		where = append(where, `(s.title LIKE ? ESCAPE '\'
			OR s.description LIKE ? ESCAPE '\'
			OR s.code LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}

	query := "SELECT " + snippetColumns + snippetFrom
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY s.updated_at DESC, s.rowid DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperror.StoreFailed("listing snippets", err)
	}
	defer rows.Close()

	// Non-nil so an empty result encodes as [] rather than null.
	snippets := []model.Snippet{}
	for rows.Next() {
		snippet, err := scanSnippet(rows)
		if err != nil {
			return nil, apperror.StoreFailed("scanning snippet", err)
		}
		snippets = append(snippets, *snippet)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.StoreFailed("iterating snippets", err)
	}

	// rows must be drained before the next query: an in-memory database has
	// exactly one connection.
	rows.Close()

	if err := attachTags(ctx, s.db.conn, snippets); err != nil {
		return nil, err
	}

	return snippets, nil
}

// Update overwrites the scalar fields of the snippet identified by
// snippet.ID and replaces its whole tag set with tagIDs, in one transaction.
// An empty tagIDs removes every tag. Readers never observe the window
// between the old links being removed and the new ones inserted.
func (s *SnippetStore) Update(ctx context.Context, snippet *model.Snippet, tagIDs []string) error {
	snippet.UpdatedAt = time.Now().UTC()
	tagIDs = dedupe(tagIDs)

	return s.db.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkRefs(ctx, tx, snippet.CategoryID, tagIDs); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			`UPDATE snippets
			 SET title = ?, description = ?, code = ?, language = ?, category_id = ?, updated_at = ?
			 WHERE id = ?`,
			snippet.Title,
			snippet.Description,
			snippet.Code,
			snippet.Language,
			snippet.CategoryID,
			snippet.UpdatedAt,
			snippet.ID,
		)
		if err != nil {
			return apperror.StoreFailed("updating snippet", err)
		}
		if err := expectOne(result, "snippet", snippet.ID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM snippet_tags WHERE snippet_id = ?`, snippet.ID); err != nil {
			return apperror.StoreFailed("clearing snippet tags", err)
		}
		if err := linkTags(ctx, tx, snippet.ID, tagIDs); err != nil {
			return err
		}

		return reload(ctx, tx, snippet)
	})
}

// Delete removes the snippet and its tag links. Tags and the category are
// untouched.
func (s *SnippetStore) Delete(ctx context.Context, id string) error {
	return s.db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM snippet_tags WHERE snippet_id = ?`, id); err != nil {
			return apperror.StoreFailed("deleting snippet tags", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM snippets WHERE id = ?`, id)
		if err != nil {
			return apperror.StoreFailed("deleting snippet", err)
		}
		return expectOne(result, "snippet", id)
	})
}

func (s *SnippetStore) Count(ctx context.Context) (int, error) {
	return count(ctx, s.db.conn, "snippets")
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnippet(row rowScanner) (*model.Snippet, error) {
	var (
		snippet    model.Snippet
		categoryID sql.NullString
		catID      sql.NullString
		catName    sql.NullString
		catDesc    sql.NullString
		catColor   sql.NullString
		catCreated sql.NullTime
		catUpdated sql.NullTime
	)

	err := row.Scan(
		&snippet.ID,
		&snippet.Title,
		&snippet.Description,
		&snippet.Code,
		&snippet.Language,
		&categoryID,
		&snippet.CreatedAt,
		&snippet.UpdatedAt,
		&catID,
		&catName,
		&catDesc,
		&catColor,
		&catCreated,
		&catUpdated,
	)
	if err != nil {
		return nil, err
	}

	if categoryID.Valid {
		id := categoryID.String
		snippet.CategoryID = &id
	}
	if catID.Valid {
		snippet.Category = &model.Category{
			ID:          catID.String,
			Name:        catName.String,
			Description: catDesc.String,
			Color:       catColor.String,
			CreatedAt:   catCreated.Time,
			UpdatedAt:   catUpdated.Time,
		}
	}
	snippet.Tags = []model.Tag{}

	return &snippet, nil
}

func getSnippet(ctx context.Context, q querier, id string) (*model.Snippet, error) {
	row := q.QueryRowContext(ctx, "SELECT "+snippetColumns+snippetFrom+" WHERE s.id = ?", id)

	snippet, err := scanSnippet(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("snippet", id)
		}
		return nil, apperror.StoreFailed("getting snippet", err)
	}

	one := []model.Snippet{*snippet}
	if err := attachTags(ctx, q, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// reload refreshes snippet from the database within tx so the caller sees
// the resolved category and tags it just wrote.
func reload(ctx context.Context, tx *sql.Tx, snippet *model.Snippet) error {
	fresh, err := getSnippet(ctx, tx, snippet.ID)
	if err != nil {
		return err
	}
	*snippet = *fresh
	return nil
}

// tagBatchSize keeps IN (...) lists well below SQLite's parameter limit.
const tagBatchSize = 500

// attachTags loads the tags of every snippet in one query per batch instead
// of one query per snippet.
func attachTags(ctx context.Context, q querier, snippets []model.Snippet) error {
	if len(snippets) == 0 {
		return nil
	}

	index := make(map[string]int, len(snippets))
	ids := make([]string, 0, len(snippets))
	for i := range snippets {
		index[snippets[i].ID] = i
		ids = append(ids, snippets[i].ID)
	}

	for start := 0; start < len(ids); start += tagBatchSize {
		end := min(start+tagBatchSize, len(ids))
		batch := ids[start:end]

		rows, err := q.QueryContext(ctx,
			`SELECT st.snippet_id, t.id, t.name, t.color, t.created_at
			 FROM snippet_tags st
			 JOIN tags t ON t.id = st.tag_id
			 WHERE st.snippet_id IN (`+placeholders(len(batch))+`)
			 ORDER BY t.name ASC`,
			stringArgs(batch)...,
		)
		if err != nil {
			return apperror.StoreFailed("loading snippet tags", err)
		}

		for rows.Next() {
			var (
				snippetID string
				tag       model.Tag
			)
			if err := rows.Scan(&snippetID, &tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt); err != nil {
				rows.Close()
				return apperror.StoreFailed("scanning snippet tag", err)
			}
			i := index[snippetID]
			snippets[i].Tags = append(snippets[i].Tags, tag)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return apperror.StoreFailed("iterating snippet tags", err)
		}
	}

	return nil
}

// checkRefs verifies that the category (if any) and every tag exist, so a
// bad reference surfaces as NotFound instead of a constraint error.
func checkRefs(ctx context.Context, q querier, categoryID *string, tagIDs []string) error {
	if categoryID != nil {
		var one int
		err := q.QueryRowContext(ctx, `SELECT 1 FROM categories WHERE id = ?`, *categoryID).Scan(&one)
		if err == sql.ErrNoRows {
			return apperror.NotFound("category", *categoryID)
		}
		if err != nil {
			return apperror.StoreFailed("checking category", err)
		}
	}

	if len(tagIDs) == 0 {
		return nil
	}

	rows, err := q.QueryContext(ctx,
		`SELECT id FROM tags WHERE id IN (`+placeholders(len(tagIDs))+`)`,
		stringArgs(tagIDs)...,
	)
	if err != nil {
		return apperror.StoreFailed("checking tags", err)
	}
	defer rows.Close()

	found := make(map[string]bool, len(tagIDs))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return apperror.StoreFailed("scanning tag id", err)
		}
		found[id] = true
	}
	if err := rows.Err(); err != nil {
		return apperror.StoreFailed("iterating tag ids", err)
	}

	for _, id := range tagIDs {
		if !found[id] {
			return apperror.NotFound("tag", id)
		}
	}
	return nil
}

func linkTags(ctx context.Context, tx *sql.Tx, snippetID string, tagIDs []string) error {
	for _, tagID := range tagIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO snippet_tags (snippet_id, tag_id) VALUES (?, ?)`,
			snippetID, tagID,
		)
		if err != nil {
			return apperror.StoreFailed(fmt.Sprintf("linking tag %s", tagID), err)
		}
	}
	return nil
}

// dedupe drops repeated ids, keeping first occurrences in order.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// expectOne turns "zero rows affected" into NotFound.
func expectOne(result sql.Result, resource, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return apperror.StoreFailed("checking rows affected", err)
	}
	if n == 0 {
		return apperror.NotFound(resource, id)
	}
	return nil
}

func count(ctx context.Context, q querier, table string) (int, error) {
	var n int
	// table is always a constant from this package, never user input.
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, apperror.StoreFailed("counting "+table, err)
	}
	return n, nil
}
