package postgres

import (
	"time"

	"github.com/gridironpool/survivor-pool/internal/domain/game"
)

type gameTableModel struct {
	ID        string     `db:"id"`
	Season    int        `db:"season"`
	Week      int        `db:"week"`
	HomeTeam  string     `db:"home_team"`
	AwayTeam  string     `db:"away_team"`
	KickoffAt time.Time  `db:"kickoff_at"`
	Status    string     `db:"status"`
	HomeScore *int       `db:"home_score"`
	AwayScore *int       `db:"away_score"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

func gameFromRow(row gameTableModel) game.Game {
	return game.Game{
		ID:        row.ID,
		Season:    row.Season,
		Week:      row.Week,
		HomeTeam:  row.HomeTeam,
		AwayTeam:  row.AwayTeam,
		KickoffAt: row.KickoffAt,
		Status:    row.Status,
		HomeScore: row.HomeScore,
		AwayScore: row.AwayScore,
		UpdatedAt: row.UpdatedAt,
	}
}

type gameInsertModel struct {
	ID        string    `db:"id"`
	Season    int       `db:"season"`
	Week      int       `db:"week"`
	HomeTeam  string    `db:"home_team"`
	AwayTeam  string    `db:"away_team"`
	KickoffAt time.Time `db:"kickoff_at"`
	Status    string    `db:"status"`
	HomeScore *int      `db:"home_score"`
	AwayScore *int      `db:"away_score"`
}
