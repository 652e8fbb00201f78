package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"breachguard/internal/model"
	"breachguard/internal/repository"
)

// CheckPostgres is a PostgreSQL implementation of repository.CheckRepository.
// Breaches are stored as a JSONB array alongside the summary columns.
type CheckPostgres struct {
	db *sql.DB
}

// NewCheckPostgres creates a new CheckPostgres repository.
func NewCheckPostgres(db *sql.DB) *CheckPostgres {
	return &CheckPostgres{db: db}
}

var _ repository.CheckRepository = (*CheckPostgres)(nil)

// Create inserts a check row. The row id is assigned by the database.
func (r *CheckPostgres) Create(ctx context.Context, c *model.Check) error {
	const q = `
		INSERT INTO checks (email, found, count, breaches, source, is_demo, checked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	breaches, err := json.Marshal(c.Breaches)
	if err != nil {
		return fmt.Errorf("marshal breaches: %w", err)
	}
	_, err = r.db.ExecContext(ctx, q,
		c.Email,
		c.Found,
		c.Count,
		breaches,
		c.Source,
		c.IsDemo,
		c.CheckedAt,
	)
	return err
}

// List returns checks using LIMIT/OFFSET pagination and a total count.
func (r *CheckPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Check], error) {
	const qCount = `SELECT COUNT(*) FROM checks`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT email, found, count, breaches, source, is_demo, checked_at
		FROM checks
		ORDER BY checked_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Check, 0)
	for rows.Next() {
		var (
			c        model.Check
			breaches []byte
		)
		if err := rows.Scan(
			&c.Email,
			&c.Found,
			&c.Count,
			&breaches,
			&c.Source,
			&c.IsDemo,
			&c.CheckedAt,
		); err != nil {
			return nil, err
		}
		c.Breaches = []model.Breach{}
		if len(breaches) > 0 {
			if err := json.Unmarshal(breaches, &c.Breaches); err != nil {
				return nil, fmt.Errorf("unmarshal breaches: %w", err)
			}
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Check]{
		Items: items,
		Total: total,
	}, nil
}
