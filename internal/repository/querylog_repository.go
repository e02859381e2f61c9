package repository

import (
	"context"

	"lina-ai/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// QueryLogRepository persists the audit trail of routed queries. It lives
// outside the routing core: rows are written after the response is built and
// write failures never surface to the caller.
type QueryLogRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewQueryLogRepository(db *pgxpool.Pool, logger *zap.Logger) *QueryLogRepository {
	return &QueryLogRepository{
		db:     db,
		logger: logger,
	}
}

func (r *QueryLogRepository) Create(ctx context.Context, entry *models.QueryLog) error {
	query := squirrel.Insert("query_log").
		Columns("id", "query", "action", "success", "response", "created_at").
		Values(entry.ID, entry.Query, entry.Action, entry.Success, entry.Response, entry.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *QueryLogRepository) ListRecent(ctx context.Context, limit int) ([]*models.QueryLog, error) {
	query := squirrel.Select("id", "query", "action", "success", "response", "created_at").
		From("query_log").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.QueryLog
	for rows.Next() {
		var entry models.QueryLog
		if err := rows.Scan(
			&entry.ID, &entry.Query, &entry.Action, &entry.Success, &entry.Response, &entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}
