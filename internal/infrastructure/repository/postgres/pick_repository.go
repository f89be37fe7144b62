package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gridironpool/survivor-pool/internal/domain/pick"
	qb "github.com/gridironpool/survivor-pool/internal/platform/querybuilder"
)

type PickRepository struct {
	db *sqlx.DB
}

func NewPickRepository(db *sqlx.DB) *PickRepository {
	return &PickRepository{db: db}
}

func (r *PickRepository) GetByEntryAndWeek(ctx context.Context, entryID string, entryNumber, week int) (pick.Pick, bool, error) {
	query, args, err := qb.Select("*").From("picks").
		Where(
			qb.Eq("entry_id", entryID),
			qb.Eq("entry_number", entryNumber),
			qb.Eq("week", week),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return pick.Pick{}, false, fmt.Errorf("build get pick query: %w", err)
	}

	var row pickTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return pick.Pick{}, false, nil
		}
		return pick.Pick{}, false, fmt.Errorf("get pick: %w", err)
	}

	return pickFromRow(row), true, nil
}

func (r *PickRepository) ListByEntry(ctx context.Context, entryID string) ([]pick.Pick, error) {
	return r.list(ctx, qb.Eq("entry_id", entryID))
}

func (r *PickRepository) ListByPoolAndWeek(ctx context.Context, poolID string, week int) ([]pick.Pick, error) {
	return r.list(ctx, qb.Eq("pool_id", poolID), qb.Eq("week", week))
}

func (r *PickRepository) list(ctx context.Context, conditions ...qb.Condition) ([]pick.Pick, error) {
	conditions = append(conditions, qb.IsNull("deleted_at"))
	query, args, err := qb.Select("*").From("picks").
		Where(conditions...).
		OrderBy("entry_id", "week").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list picks query: %w", err)
	}

	var rows []pickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select picks: %w", err)
	}

	out := make([]pick.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, pickFromRow(row))
	}

	return out, nil
}

func (r *PickRepository) TeamUsedInOtherWeek(ctx context.Context, entryID, team string, week int) (bool, error) {
	query, args, err := qb.Select("COUNT(1)").From("picks").
		Where(
			qb.Eq("entry_id", entryID),
			qb.Expr("LOWER(team) = LOWER(?)", team),
			qb.Expr("week <> ?", week),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build team reuse query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("check team reuse: %w", err)
	}

	return count > 0, nil
}

// Upsert inserts or replaces the pick at (entry, entry_number, week). The
// partial unique index on (entry_id, LOWER(team)) closes the cross-week
// reuse race: a lost race comes back as ErrTeamReused instead of a second
// row for the same team.
func (r *PickRepository) Upsert(ctx context.Context, p pick.Pick) (pick.Pick, error) {
	model := pickInsertModel{
		ID:          p.ID,
		EntryID:     p.EntryID,
		EntryNumber: p.EntryNumber,
		PoolID:      p.PoolID,
		Week:        p.Week,
		Team:        p.Team,
		GameID:      p.GameID,
		Result:      string(p.Result),
		PickedAt:    p.PickedAt.UTC(),
	}

	query, args, err := qb.InsertModel("picks", model, `ON CONFLICT (entry_id, entry_number, week) WHERE deleted_at IS NULL
DO UPDATE SET
    team = EXCLUDED.team,
    game_id = EXCLUDED.game_id,
    result = EXCLUDED.result,
    updated_at = NOW()
RETURNING *`)
	if err != nil {
		return pick.Pick{}, fmt.Errorf("build upsert pick query: %w", err)
	}

	var row pickTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isUniqueViolation(err) {
			return pick.Pick{}, pick.ErrTeamReused
		}
		return pick.Pick{}, fmt.Errorf("upsert pick entry_id=%s week=%d: %w", p.EntryID, p.Week, err)
	}

	return pickFromRow(row), nil
}

func (r *PickRepository) Update(ctx context.Context, p pick.Pick) error {
	query, args, err := qb.Update("picks").
		Set("team", p.Team).
		Set("game_id", p.GameID).
		Set("result", string(p.Result)).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("entry_id", p.EntryID),
			qb.Eq("entry_number", p.EntryNumber),
			qb.Eq("week", p.Week),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update pick query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return pick.ErrTeamReused
		}
		return fmt.Errorf("update pick entry_id=%s week=%d: %w", p.EntryID, p.Week, err)
	}

	return nil
}

func (r *PickRepository) Delete(ctx context.Context, entryID string, entryNumber, week int) (bool, error) {
	query, args, err := qb.Update("picks").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("entry_id", entryID),
			qb.Eq("entry_number", entryNumber),
			qb.Eq("week", week),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete pick query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete pick entry_id=%s week=%d: %w", entryID, week, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete pick rows affected: %w", err)
	}

	return affected > 0, nil
}
