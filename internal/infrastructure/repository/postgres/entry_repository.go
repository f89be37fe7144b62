package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gridironpool/survivor-pool/internal/domain/entry"
	qb "github.com/gridironpool/survivor-pool/internal/platform/querybuilder"
)

type EntryRepository struct {
	db *sqlx.DB
}

func NewEntryRepository(db *sqlx.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

func (r *EntryRepository) GetByID(ctx context.Context, entryID string) (entry.Entry, bool, error) {
	query, args, err := qb.Select("*").From("entries").
		Where(
			qb.Eq("id", entryID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return entry.Entry{}, false, fmt.Errorf("build get entry by id query: %w", err)
	}

	var row entryTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return entry.Entry{}, false, nil
		}
		return entry.Entry{}, false, fmt.Errorf("get entry by id: %w", err)
	}

	return entryFromRow(row), true, nil
}

func (r *EntryRepository) ListByUser(ctx context.Context, userID string) ([]entry.Entry, error) {
	return r.list(ctx, qb.Eq("user_id", userID))
}

func (r *EntryRepository) ListByUserAndPool(ctx context.Context, userID, poolID string) ([]entry.Entry, error) {
	return r.list(ctx, qb.Eq("user_id", userID), qb.Eq("pool_id", poolID))
}

func (r *EntryRepository) ListByPool(ctx context.Context, poolID string) ([]entry.Entry, error) {
	return r.list(ctx, qb.Eq("pool_id", poolID))
}

func (r *EntryRepository) list(ctx context.Context, conditions ...qb.Condition) ([]entry.Entry, error) {
	conditions = append(conditions, qb.IsNull("deleted_at"))
	query, args, err := qb.Select("*").From("entries").
		Where(conditions...).
		OrderBy("pool_id", "user_id", "entry_number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list entries query: %w", err)
	}

	var rows []entryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select entries: %w", err)
	}

	out := make([]entry.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, entryFromRow(row))
	}

	return out, nil
}

func (r *EntryRepository) CountByUserAndPool(ctx context.Context, userID, poolID string) (int, error) {
	query, args, err := qb.Select("COUNT(1)").From("entries").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("pool_id", poolID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count entries query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}

	return count, nil
}

// InsertBatch writes all entries in one transaction so a partial approval can
// never leave a request with some of its entries.
func (r *EntryRepository) InsertBatch(ctx context.Context, entries []entry.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert entries tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, e := range entries {
		model := entryInsertModel{
			ID:          e.ID,
			UserID:      e.UserID,
			PoolID:      e.PoolID,
			RequestID:   e.RequestID,
			EntryNumber: e.EntryNumber,
			Status:      string(e.Status),
		}
		query, args, err := qb.InsertModel("entries", model, "")
		if err != nil {
			return fmt.Errorf("build insert entry query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert entry id=%s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert entries tx: %w", err)
	}

	return nil
}

func (r *EntryRepository) Update(ctx context.Context, e entry.Entry) error {
	query, args, err := qb.Update("entries").
		Set("status", string(e.Status)).
		Set("eliminated_week", e.EliminatedWeek).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("id", e.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update entry query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update entry id=%s: %w", e.ID, err)
	}

	return nil
}
