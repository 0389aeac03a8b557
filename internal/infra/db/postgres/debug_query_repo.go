package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domain "github.com/bryanwahyu/code-debugger/internal/domain/debugging"
)

type DebugQueryRepository struct{ db *sql.DB }

func NewDebugQueryRepository(db *sql.DB) *DebugQueryRepository {
	return &DebugQueryRepository{db: db}
}

// Create inserts a debug query record
func (r *DebugQueryRepository) Create(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO debug_queries
  (id, code, result, created_at)
VALUES ($1,$2,$3,$4);`

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	if _, err := r.db.ExecContext(ctx, q, rec.ID, rec.Code, jsonOrEmpty(rec.Result), createdAt); err != nil {
		return fmt.Errorf("insert debug query: %w", err)
	}
	return nil
}
