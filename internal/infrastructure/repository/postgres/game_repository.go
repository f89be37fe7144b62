package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gridironpool/survivor-pool/internal/domain/game"
	qb "github.com/gridironpool/survivor-pool/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	query, args, err := qb.Select("*").From("games").
		Where(
			qb.Eq("id", gameID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build get game by id query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("get game by id: %w", err)
	}

	return gameFromRow(row), true, nil
}

func (r *GameRepository) ListByWeek(ctx context.Context, season, week int) ([]game.Game, error) {
	query, args, err := qb.Select("*").From("games").
		Where(
			qb.Eq("season", season),
			qb.Eq("week", week),
			qb.IsNull("deleted_at"),
		).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list games query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameFromRow(row))
	}

	return out, nil
}

func (r *GameRepository) FindByTeamAndWeek(ctx context.Context, season, week int, team string) (game.Game, bool, error) {
	query, args, err := qb.Select("*").From("games").
		Where(
			qb.Eq("season", season),
			qb.Eq("week", week),
			qb.Expr("(LOWER(home_team) = LOWER(?) OR LOWER(away_team) = LOWER(?))", team, team),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build find game by team query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("find game by team: %w", err)
	}

	return gameFromRow(row), true, nil
}

func (r *GameRepository) UpsertBatch(ctx context.Context, games []game.Game) error {
	if len(games) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert games tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, g := range games {
		model := gameInsertModel{
			ID:        g.ID,
			Season:    g.Season,
			Week:      g.Week,
			HomeTeam:  g.HomeTeam,
			AwayTeam:  g.AwayTeam,
			KickoffAt: g.KickoffAt.UTC(),
			Status:    game.NormalizeStatus(g.Status),
			HomeScore: g.HomeScore,
			AwayScore: g.AwayScore,
		}
		query, args, err := qb.InsertModel("games", model, `ON CONFLICT (id)
DO UPDATE SET
    season = EXCLUDED.season,
    week = EXCLUDED.week,
    home_team = EXCLUDED.home_team,
    away_team = EXCLUDED.away_team,
    kickoff_at = EXCLUDED.kickoff_at,
    status = EXCLUDED.status,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert game query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert game id=%s: %w", g.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert games tx: %w", err)
	}

	return nil
}
