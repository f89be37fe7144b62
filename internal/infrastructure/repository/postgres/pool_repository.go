package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gridironpool/survivor-pool/internal/domain/pool"
	qb "github.com/gridironpool/survivor-pool/internal/platform/querybuilder"
)

type PoolRepository struct {
	db *sqlx.DB
}

func NewPoolRepository(db *sqlx.DB) *PoolRepository {
	return &PoolRepository{db: db}
}

func (r *PoolRepository) List(ctx context.Context) ([]pool.Pool, error) {
	query, args, err := qb.Select("*").From("pools").
		Where(qb.IsNull("deleted_at")).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select pools query: %w", err)
	}

	var rows []poolTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select pools: %w", err)
	}

	out := make([]pool.Pool, 0, len(rows))
	for _, row := range rows {
		out = append(out, poolFromRow(row))
	}

	return out, nil
}

func (r *PoolRepository) GetByID(ctx context.Context, poolID string) (pool.Pool, bool, error) {
	query, args, err := qb.Select("*").From("pools").
		Where(
			qb.Eq("id", poolID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return pool.Pool{}, false, fmt.Errorf("build get pool by id query: %w", err)
	}

	var row poolTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return pool.Pool{}, false, nil
		}
		return pool.Pool{}, false, fmt.Errorf("get pool by id: %w", err)
	}

	return poolFromRow(row), true, nil
}

func (r *PoolRepository) Insert(ctx context.Context, p pool.Pool) error {
	model := poolInsertModel{
		ID:              p.ID,
		Name:            p.Name,
		Season:          p.Season,
		CurrentWeek:     p.CurrentWeek,
		Status:          string(p.Status),
		WeekCount:       p.WeekCount,
		MaxParticipants: p.MaxParticipants,
		MaxEntries:      p.MaxEntries,
		EntryFee:        p.EntryFee,
		PrizePot:        p.PrizePot,
		CreatorID:       p.CreatorID,
		Description:     optionalString(p.Description),
	}

	query, args, err := qb.InsertModel("pools", model, "")
	if err != nil {
		return fmt.Errorf("build insert pool query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert pool id=%s: %w", p.ID, err)
	}

	return nil
}

func (r *PoolRepository) UpdateStatus(ctx context.Context, poolID string, status pool.Status) error {
	query, args, err := qb.Update("pools").
		Set("status", string(status)).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("id", poolID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update pool status query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update pool status id=%s: %w", poolID, err)
	}

	return nil
}
