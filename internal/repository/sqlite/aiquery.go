package sqlite

import (
	"context"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/datanest/internal/apperror"
	"github.com/sakif/datanest/internal/model"
	"github.com/sakif/datanest/internal/repository"
)

var _ repository.AIQueryRepository = (*AIQueryStore)(nil)

// AIQueryStore is an append-only log of assistant queries.
type AIQueryStore struct {
	db *DB
}

func (s *AIQueryStore) Record(ctx context.Context, q *model.AIQuery) error {
	q.ID = xid.New().String()
	q.CreatedAt = time.Now().UTC()

	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO ai_queries (id, source, query, created_at) VALUES (?, ?, ?, ?)`,
		q.ID, q.Source, q.Query, q.CreatedAt,
	)
	if err != nil {
		return apperror.StoreFailed("recording ai query", err)
	}
	return nil
}

func (s *AIQueryStore) Count(ctx context.Context) (int, error) {
	return count(ctx, s.db.conn, "ai_queries")
}
