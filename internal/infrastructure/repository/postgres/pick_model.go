package postgres

import (
	"time"

	"github.com/gridironpool/survivor-pool/internal/domain/pick"
)

type pickTableModel struct {
	ID          string     `db:"id"`
	EntryID     string     `db:"entry_id"`
	EntryNumber int        `db:"entry_number"`
	PoolID      string     `db:"pool_id"`
	Week        int        `db:"week"`
	Team        string     `db:"team"`
	GameID      string     `db:"game_id"`
	Result      string     `db:"result"`
	PickedAt    time.Time  `db:"picked_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

func pickFromRow(row pickTableModel) pick.Pick {
	return pick.Pick{
		ID:          row.ID,
		EntryID:     row.EntryID,
		EntryNumber: row.EntryNumber,
		PoolID:      row.PoolID,
		Week:        row.Week,
		Team:        row.Team,
		GameID:      row.GameID,
		Result:      pick.Result(row.Result),
		PickedAt:    row.PickedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

type pickInsertModel struct {
	ID          string    `db:"id"`
	EntryID     string    `db:"entry_id"`
	EntryNumber int       `db:"entry_number"`
	PoolID      string    `db:"pool_id"`
	Week        int       `db:"week"`
	Team        string    `db:"team"`
	GameID      string    `db:"game_id"`
	Result      string    `db:"result"`
	PickedAt    time.Time `db:"picked_at"`
}
