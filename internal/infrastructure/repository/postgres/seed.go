package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gridironpool/survivor-pool/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo pool and its opening schedule into an empty
// database so a fresh install is usable immediately.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM pools WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count pools for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, p := range memory.SeedPools() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO pools (id, name, season, current_week, status, week_count, max_participants, max_entries, entry_fee, prize_pot, creator_id, description)
VALUES (:id, :name, :season, :current_week, :status, :week_count, :max_participants, :max_entries, :entry_fee, :prize_pot, :creator_id, :description)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":               p.ID,
			"name":             p.Name,
			"season":           p.Season,
			"current_week":     p.CurrentWeek,
			"status":           string(p.Status),
			"week_count":       p.WeekCount,
			"max_participants": p.MaxParticipants,
			"max_entries":      p.MaxEntries,
			"entry_fee":        p.EntryFee,
			"prize_pot":        p.PrizePot,
			"creator_id":       p.CreatorID,
			"description":      p.Description,
		})
		if err != nil {
			return fmt.Errorf("bind seed pool %s query: %w", p.ID, err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(sqlQuery), args...); err != nil {
			return fmt.Errorf("seed pool %s: %w", p.ID, err)
		}
	}

	for _, g := range memory.SeedGames() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO games (id, season, week, home_team, away_team, kickoff_at, status)
VALUES (:id, :season, :week, :home_team, :away_team, :kickoff_at, :status)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":         g.ID,
			"season":     g.Season,
			"week":       g.Week,
			"home_team":  g.HomeTeam,
			"away_team":  g.AwayTeam,
			"kickoff_at": g.KickoffAt,
			"status":     g.Status,
		})
		if err != nil {
			return fmt.Errorf("bind seed game %s query: %w", g.ID, err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(sqlQuery), args...); err != nil {
			return fmt.Errorf("seed game %s: %w", g.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
